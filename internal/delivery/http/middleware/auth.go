package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "salesdashboard/internal/delivery/http/helpers"
	"salesdashboard/internal/domain"
)

type contextKey string

const sessionKey contextKey = "session"

// SessionCookie is the cookie carrying the session token for browser clients.
const SessionCookie = "session_token"

// SetSession returns a context carrying the authenticated session.
func SetSession(ctx context.Context, s *domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// SessionFromContext returns the authenticated session from the context, if present.
func SessionFromContext(ctx context.Context) (*domain.Session, bool) {
	s, ok := ctx.Value(sessionKey).(*domain.Session)
	return s, ok && s != nil
}

// bearerToken returns the token from the Authorization header, falling back
// to the session cookie when the header is absent.
func bearerToken(r *http.Request) (string, string) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
			return c.Value, ""
		}
		return "", "missing authorization header"
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return "", "invalid authorization format"
	}
	token := strings.TrimSpace(auth[len(prefix):])
	if token == "" {
		return "", "missing token"
	}
	return token, ""
}

// RequireAuth returns a wrapper that validates the session token, loads the
// session it names and sets it in the request context. A missing, invalid or
// expired token or session responds 401 and does not call next.
func RequireAuth(verifier domain.TokenVerifier, auth domain.AuthService, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, problem := bearerToken(r)
			if problem != "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, problem)
				return
			}
			sessionID, err := verifier.Verify(token)
			if err != nil {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			session, err := auth.Current(r.Context(), sessionID)
			if err != nil {
				if errors.Is(err, domain.ErrSessionNotFound) {
					h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "session expired")
					return
				}
				logger.ErrorContext(r.Context(), "failed to load session", "session_id", sessionID, "err", err)
				h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "internal error")
				return
			}
			next(w, r.WithContext(SetSession(r.Context(), session)))
		}
	}
}
