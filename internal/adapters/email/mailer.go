package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"salesdashboard/internal/domain"
)

// SESConfig holds configuration for AWS SES.
type SESConfig struct {
	Region             string
	AccessKeyID        string
	SecretAccessKey    string
	InsecureSkipVerify bool
}

// MailerConfig holds configuration for creating a mailer.
type MailerConfig struct {
	Provider    string
	FromAddress string
	FromName    string
	SES         SESConfig
}

// NewMailer creates a mailer from config. Provider "ses" uses AWS SES; "noop"
// or unknown uses a mailer that only logs.
func NewMailer(config MailerConfig, logger *slog.Logger) (domain.Mailer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch config.Provider {
	case "ses":
		sesConfig := config.SES
		if sesConfig.Region == "" {
			return nil, fmt.Errorf("ses mailer: region is required")
		}
		if config.FromAddress == "" {
			return nil, fmt.Errorf("ses mailer: from address is required")
		}
		if sesConfig.InsecureSkipVerify {
			logger.Warn("TLS certificate verification is disabled for SES, use only in development")
		}
		httpClient := &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: sesConfig.InsecureSkipVerify,
					MinVersion:         tls.VersionTLS12,
				},
			},
		}
		awsCfg := aws.Config{
			Region: sesConfig.Region,
			Credentials: aws.NewCredentialsCache(
				credentials.NewStaticCredentialsProvider(
					sesConfig.AccessKeyID,
					sesConfig.SecretAccessKey,
					"",
				),
			),
			HTTPClient: httpClient,
		}
		return &sesMailer{
			client: ses.NewFromConfig(awsCfg),
			from:   formatAddress(config.FromName, config.FromAddress),
			logger: logger,
			now:    time.Now,
		}, nil
	case "noop", "":
		return &NoopMailer{logger: logger}, nil
	default:
		logger.Warn("unknown email provider, using noop", "provider", config.Provider)
		return &NoopMailer{logger: logger}, nil
	}
}

// rawEmailSender is the subset of the SES client the mailer uses.
type rawEmailSender interface {
	SendRawEmail(ctx context.Context, params *ses.SendRawEmailInput, optFns ...func(*ses.Options)) (*ses.SendRawEmailOutput, error)
}

type sesMailer struct {
	client rawEmailSender
	from   string
	logger *slog.Logger
	now    func() time.Time
}

// Send uses SendRawEmail since SendEmail cannot carry attachments.
func (s *sesMailer) Send(ctx context.Context, msg domain.Message) error {
	raw, err := buildRawMessage(s.from, msg, s.now())
	if err != nil {
		return err
	}
	input := &ses.SendRawEmailInput{
		Destinations: msg.To,
		RawMessage:   &types.RawMessage{Data: raw},
	}
	result, err := s.client.SendRawEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email via SES: %w", err)
	}
	s.logger.InfoContext(ctx, "email sent via SES",
		"message_id", aws.ToString(result.MessageId),
		"to", strings.Join(msg.To, ","),
		"attachments", len(msg.Attachments),
	)
	return nil
}

// NoopMailer logs messages instead of sending them and keeps them for
// inspection.
type NoopMailer struct {
	logger *slog.Logger

	mu   sync.Mutex
	Sent []domain.Message
}

func (n *NoopMailer) Send(ctx context.Context, msg domain.Message) error {
	n.mu.Lock()
	n.Sent = append(n.Sent, msg)
	n.mu.Unlock()
	if n.logger != nil {
		n.logger.InfoContext(ctx, "email would be sent (noop)", "to", strings.Join(msg.To, ","), "subject", msg.Subject)
	}
	return nil
}
