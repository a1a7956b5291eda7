package domain

import (
	"context"
	"time"
)

// Role is a dashboard user role.
type Role string

// Known roles.
const (
	RoleAdmin        Role = "admin"
	RoleComptabilite Role = "comptabilite"
	RoleStoreManager Role = "store_manager"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleComptabilite, RoleStoreManager:
		return true
	}
	return false
}

// Session is the per-user state a dashboard client keeps between requests.
// swagger:model Session
type Session struct {
	ID              string    `json:"id"`
	IsAuthenticated bool      `json:"is_authenticated"`
	UserRole        Role      `json:"user_role"`
	UserStore       string    `json:"user_store"`
	UserName        string    `json:"user_name"`
	CreatedAt       time.Time `json:"created_at"`
	ExpiresAt       time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// CanAccessStore reports whether the session may view storeID. Store managers
// are pinned to their own store; other roles may view any store or StoreAll.
func (s *Session) CanAccessStore(storeID string) bool {
	if s == nil || !s.IsAuthenticated {
		return false
	}
	if s.UserRole == RoleStoreManager {
		return storeID == s.UserStore
	}
	return true
}

// DefaultStore is the store a new dashboard opens on for this session.
func (s *Session) DefaultStore() string {
	if s.UserRole == RoleStoreManager {
		return s.UserStore
	}
	return StoreAll
}

// SessionStore is the session context: load, save and clear keyed by
// session ID. Load returns ErrSessionNotFound when nothing is stored.
type SessionStore interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Clear(ctx context.Context, id string) error
}

// Credential is one entry of the fixed login table.
type Credential struct {
	Role         Role
	Store        string
	UserName     string
	PasswordHash string
}

// PasswordHasher hashes and compares passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer issues a token carrying the session ID.
type TokenIssuer interface {
	Issue(sessionID string, role Role, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the session ID it carries.
type TokenVerifier interface {
	Verify(token string) (sessionID string, err error)
}

// AuthService logs users in and out and resolves sessions.
type AuthService interface {
	Login(ctx context.Context, role Role, password, store string) (token string, session *Session, err error)
	Logout(ctx context.Context, sessionID string) error
	Current(ctx context.Context, sessionID string) (*Session, error)
}
