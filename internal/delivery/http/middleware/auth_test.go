package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"salesdashboard/internal/delivery/http/helpers"
	"salesdashboard/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTokenVerifier implements domain.TokenVerifier for tests.
type fakeTokenVerifier struct {
	sessionID string
	err       error
}

func (f *fakeTokenVerifier) Verify(_ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.sessionID, nil
}

// fakeAuthService resolves sessions from a map.
type fakeAuthService struct {
	sessions map[string]*domain.Session
	err      error
}

func (f *fakeAuthService) Login(context.Context, domain.Role, string, string) (string, *domain.Session, error) {
	return "", nil, errors.New("not implemented")
}

func (f *fakeAuthService) Logout(context.Context, string) error { return nil }

func (f *fakeAuthService) Current(_ context.Context, id string) (*domain.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return s, nil
}

func TestRequireAuth(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
	session := &domain.Session{ID: "sess-123", IsAuthenticated: true, UserRole: domain.RoleAdmin}
	auth := &fakeAuthService{sessions: map[string]*domain.Session{"sess-123": session}}

	tests := []struct {
		name          string
		authHeader    string
		cookie        string
		verifier      domain.TokenVerifier
		auth          domain.AuthService
		wantStatus    int
		wantBodyCode  string
		nextCalled    bool
		wantSessionID string
	}{
		{
			name:          "valid token sets session and calls next",
			authHeader:    "Bearer valid-token",
			verifier:      &fakeTokenVerifier{sessionID: "sess-123"},
			auth:          auth,
			wantStatus:    http.StatusOK,
			nextCalled:    true,
			wantSessionID: "sess-123",
		},
		{
			name:          "cookie token",
			cookie:        "valid-token",
			verifier:      &fakeTokenVerifier{sessionID: "sess-123"},
			auth:          auth,
			wantStatus:    http.StatusOK,
			nextCalled:    true,
			wantSessionID: "sess-123",
		},
		{
			name:         "missing authorization header",
			verifier:     &fakeTokenVerifier{sessionID: "sess-123"},
			auth:         auth,
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
		{
			name:         "invalid authorization format no Bearer prefix",
			authHeader:   "Basic abc",
			verifier:     &fakeTokenVerifier{sessionID: "sess-123"},
			auth:         auth,
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
		{
			name:         "empty token after Bearer",
			authHeader:   "Bearer ",
			verifier:     &fakeTokenVerifier{sessionID: "sess-123"},
			auth:         auth,
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
		{
			name:         "verifier returns error",
			authHeader:   "Bearer bad-token",
			verifier:     &fakeTokenVerifier{err: errors.New("invalid or expired token")},
			auth:         auth,
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
		{
			name:         "session cleared",
			authHeader:   "Bearer valid-token",
			verifier:     &fakeTokenVerifier{sessionID: "sess-gone"},
			auth:         auth,
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
		{
			name:         "session store failure",
			authHeader:   "Bearer valid-token",
			verifier:     &fakeTokenVerifier{sessionID: "sess-123"},
			auth:         &fakeAuthService{err: errors.New("redis down")},
			wantStatus:   http.StatusInternalServerError,
			wantBodyCode: helpers.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			var captured *domain.Session
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				captured, _ = SessionFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})
			handler := RequireAuth(tt.verifier, tt.auth, logger)(next)
			req := httptest.NewRequest(http.MethodGet, "http://test/dashboard", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.cookie})
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.nextCalled, nextCalled)
			if tt.wantSessionID != "" {
				require.NotNil(t, captured)
				assert.Equal(t, tt.wantSessionID, captured.ID)
			}
			if tt.wantBodyCode != "" {
				var envelope helpers.APIResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
			}
		})
	}
}

func TestSessionFromContext(t *testing.T) {
	_, ok := SessionFromContext(context.Background())
	assert.False(t, ok)

	var nilSession *domain.Session
	_, ok = SessionFromContext(SetSession(context.Background(), nilSession))
	assert.False(t, ok)

	s := &domain.Session{ID: "x"}
	got, ok := SessionFromContext(SetSession(context.Background(), s))
	assert.True(t, ok)
	assert.Same(t, s, got)
}
