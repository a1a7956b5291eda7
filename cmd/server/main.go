// Command server runs the sales dashboard backend.
//
// @title Sales Dashboard API
// @version 1.0
// @description Backend for the sales dashboard: widget lists, pagination, date range and store scope, exports.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by the session token.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salesdashboard/config"
	_ "salesdashboard/docs"
	"salesdashboard/internal/adapters/auth"
	"salesdashboard/internal/adapters/email"
	"salesdashboard/internal/adapters/remote"
	"salesdashboard/internal/adapters/spreadsheet"
	deliveryhttp "salesdashboard/internal/delivery/http"
	"salesdashboard/internal/delivery/http/controllers"
	"salesdashboard/internal/delivery/http/middleware"
	"salesdashboard/internal/domain"
	"salesdashboard/internal/repository/cache"
	"salesdashboard/internal/repository/memory"
	"salesdashboard/internal/repository/postgres"
	"salesdashboard/internal/services"

	"github.com/go-redis/redis/v8"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	logger := config.NewLogger()
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions, closeStore, err := openSessionStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)
	credentials, err := auth.HashCredentials(hasher, plainCredentials(cfg))
	if err != nil {
		return fmt.Errorf("hash credentials: %w", err)
	}
	if len(credentials) == 0 {
		logger.Warn("no login credentials configured, set ADMIN_PASSWORD, COMPTABILITE_PASSWORD or STORE_MANAGER_CREDENTIALS")
	}
	tokens := auth.NewJWT(cfg.JWTSecret, cfg.JWTIssuer)
	authService := services.NewAuthService(sessions, credentials, hasher, tokens, cfg.SessionTTL, logger)

	fetcher := remote.NewHTTPFetcher(&http.Client{Timeout: cfg.RemoteTimeout})
	dashboards := services.NewDashboardManager(fetcher, services.DashboardOptions{
		Widgets:  services.DefaultWidgetConfigs(cfg.RemoteBaseURL, cfg.PageSize),
		Stores:   cfg.StoreIDs,
		Location: cfg.Timezone,
	}, logger)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("create mailer: %w", err)
	}
	export := services.NewExportService(spreadsheet.NewXLSXWriter(), mailer, email.NewTemplateRenderer(), logger)

	router := deliveryhttp.NewRouter(
		controllers.NewAuthController(logger, authService, dashboards, cfg.SecureCookies),
		controllers.NewDashboardController(logger, dashboards, cfg.StoreIDs),
		controllers.NewWidgetController(logger, dashboards, export),
		middleware.RequireAuth(tokens, authService, logger),
	)
	handler := middleware.LoggingMiddleware(logger, middleware.CORS(cfg.CORSOrigins, router))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	if cfg.JanitorEvery > 0 {
		deleter, _ := sessions.(services.ExpiredSessionDeleter)
		janitor := services.NewSessionJanitor(deleter, dashboards, cfg.JanitorEvery, logger)
		g.Go(func() error {
			janitor.Run(gctx)
			return nil
		})
	}
	g.Go(func() error {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment, "session_store", cfg.SessionStore, "remote", cfg.RemoteBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownPeriod)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// openSessionStore returns the configured session store and a function
// releasing its connections.
func openSessionStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (domain.SessionStore, func(), error) {
	switch cfg.SessionStore {
	case config.SessionStorePostgres:
		db, err := postgres.Open(ctx, cfg.DBUrl)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.Migrate(ctx, db, logger); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return postgres.NewSessionRepository(db), closer(logger, "postgres", db), nil
	case config.SessionStoreRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("ping redis %s: %w", cfg.RedisAddr, err)
		}
		return cache.NewRedisSessionStore(client, cfg.SessionTTL), closer(logger, "redis", client), nil
	default:
		return memory.NewSessionStore(), func() {}, nil
	}
}

func closer(logger *slog.Logger, name string, c interface{ Close() error }) func() {
	return func() {
		if err := c.Close(); err != nil {
			logger.Warn("failed to close session store", "store", name, "err", err)
		}
	}
}

func plainCredentials(cfg *config.Config) []auth.PlainCredential {
	creds := []auth.PlainCredential{
		{Role: domain.RoleAdmin, UserName: "Administrateur", Password: cfg.AdminPassword},
		{Role: domain.RoleComptabilite, UserName: "Comptabilité", Password: cfg.ComptabilitePassword},
	}
	for _, m := range cfg.StoreManagers {
		creds = append(creds, auth.PlainCredential{
			Role:     domain.RoleStoreManager,
			Store:    m.Store,
			UserName: m.Name,
			Password: m.Password,
		})
	}
	return creds
}
