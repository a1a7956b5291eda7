package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"salesdashboard/internal/domain"
)

type authService struct {
	store       domain.SessionStore
	credentials []domain.Credential
	hasher      domain.PasswordHasher
	tokenIssuer domain.TokenIssuer
	sessionTTL  time.Duration
	now         func() time.Time
	logger      *slog.Logger
}

// NewAuthService creates an AuthService checking logins against a fixed
// credential table and keeping sessions in store.
func NewAuthService(store domain.SessionStore, credentials []domain.Credential, hasher domain.PasswordHasher, tokenIssuer domain.TokenIssuer, sessionTTL time.Duration, logger *slog.Logger) domain.AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &authService{
		store:       store,
		credentials: credentials,
		hasher:      hasher,
		tokenIssuer: tokenIssuer,
		sessionTTL:  sessionTTL,
		now:         time.Now,
		logger:      logger,
	}
}

func (s *authService) Login(ctx context.Context, role domain.Role, password, store string) (string, *domain.Session, error) {
	if !role.Valid() || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}
	store = strings.TrimSpace(store)

	cred, ok := s.match(role, password, store)
	if !ok {
		s.logger.InfoContext(ctx, "login rejected", "role", role, "store", store)
		return "", nil, domain.ErrInvalidCredentials
	}

	now := s.now()
	session := &domain.Session{
		ID:              uuid.NewString(),
		IsAuthenticated: true,
		UserRole:        cred.Role,
		UserStore:       cred.Store,
		UserName:        cred.UserName,
		CreatedAt:       now,
		ExpiresAt:       now.Add(s.sessionTTL),
	}
	if session.UserStore == "" {
		session.UserStore = domain.StoreAll
	}
	if err := s.store.Save(ctx, session); err != nil {
		return "", nil, fmt.Errorf("failed to save session: %w", err)
	}
	token, err := s.tokenIssuer.Issue(session.ID, session.UserRole, s.sessionTTL)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}
	s.logger.InfoContext(ctx, "login", "session_id", session.ID, "role", session.UserRole, "store", session.UserStore)
	return token, session, nil
}

// match finds the credential for role whose password matches. Store managers
// must name their store when several share a role.
func (s *authService) match(role domain.Role, password, store string) (domain.Credential, bool) {
	for _, c := range s.credentials {
		if c.Role != role {
			continue
		}
		if role == domain.RoleStoreManager && store != "" && c.Store != store {
			continue
		}
		if err := s.hasher.Compare(c.PasswordHash, password); err == nil {
			return c, true
		}
	}
	return domain.Credential{}, false
}

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	if err := s.store.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.logger.InfoContext(ctx, "logout", "session_id", sessionID)
	return nil
}

func (s *authService) Current(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := s.store.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !session.IsAuthenticated {
		return nil, domain.ErrSessionNotFound
	}
	if session.Expired(s.now()) {
		if err := s.store.Clear(ctx, sessionID); err != nil {
			s.logger.WarnContext(ctx, "failed to clear expired session", "session_id", sessionID, "err", err)
		}
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}
