package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	h "salesdashboard/internal/delivery/http/helpers"
	"salesdashboard/internal/delivery/http/middleware"
	"salesdashboard/internal/domain"
)

// LoginRequest is the request body for POST /auth/login
type LoginRequest struct {
	Role     string `json:"role"`
	Password string `json:"password"`
	StoreID  string `json:"store_id"` // optional: narrows store manager logins
}

// Validate implements Validator.
func (l LoginRequest) Validate() []string {
	var errs []string
	role := domain.Role(strings.TrimSpace(strings.ToLower(l.Role)))
	if role == "" {
		errs = append(errs, "role is required")
	} else if !role.Valid() {
		errs = append(errs, `role must be "admin", "comptabilite" or "store_manager"`)
	}
	if l.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// LoginResponse is the response body for POST /auth/login
type LoginResponse struct {
	Token     string          `json:"token"`
	TokenType string          `json:"token_type"`
	Session   *domain.Session `json:"session"`
}

type AuthController struct {
	Logger        *slog.Logger
	Service       domain.AuthService
	Dashboards    DashboardProvider
	SecureCookies bool
}

func NewAuthController(logger *slog.Logger, svc domain.AuthService, dashboards DashboardProvider, secureCookies bool) *AuthController {
	return &AuthController{
		Logger:        logger,
		Service:       svc,
		Dashboards:    dashboards,
		SecureCookies: secureCookies,
	}
}

// Login godoc
// @Summary Log in
// @Description Authenticate with a role and its password (store managers may name their store). Returns a JWT whose subject is the new session and sets it as an HttpOnly cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} helpers.APIResponse "data contains token, token_type and session"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	role := domain.Role(strings.TrimSpace(strings.ToLower(req.Role)))
	token, session, err := c.Service.Login(r.Context(), role, req.Password, req.StoreID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid credentials")
			return
		}
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   c.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	h.WriteJSONSuccess(w, http.StatusOK, LoginResponse{Token: token, TokenType: "Bearer", Session: session})
}

// Logout godoc
// @Summary Log out
// @Description Clears the current session and its dashboard state.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/logout [post]
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.Logout(r.Context(), session.ID); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	c.Dashboards.Drop(session.ID)
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	h.WriteJSONSuccess(w, http.StatusOK, map[string]bool{"logged_out": true})
}

// GetSession godoc
// @Summary Current session
// @Description Returns the authenticated session: role, store and expiry.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the session"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /session [get]
func (c *AuthController) GetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, session)
}
