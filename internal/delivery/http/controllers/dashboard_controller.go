package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "salesdashboard/internal/delivery/http/helpers"
	"salesdashboard/internal/delivery/http/middleware"
	"salesdashboard/internal/domain"
	"salesdashboard/internal/services"
)

// DashboardProvider hands out the dashboard of a session.
type DashboardProvider interface {
	Get(session *domain.Session, viewportWidth int) (*services.Dashboard, error)
	Drop(sessionID string)
}

// dateRangeShortcuts is the order shortcuts are offered to clients.
var dateRangeShortcuts = []string{
	domain.ShortcutToday,
	domain.ShortcutYesterday,
	domain.ShortcutLast7Days,
	domain.ShortcutLast30Days,
	domain.ShortcutThisMonth,
	domain.ShortcutLastMonth,
	domain.ShortcutThisYear,
}

// DashboardResponse is the response body for the dashboard endpoints.
type DashboardResponse struct {
	Session   *domain.Session           `json:"session"`
	Scope     services.Scope            `json:"scope"`
	Stores    []string                  `json:"stores"`
	Shortcuts []string                  `json:"shortcuts"`
	Widgets   []services.WidgetSnapshot `json:"widgets"`
}

// SetDateRangeRequest is the request body for PUT /dashboard/date-range.
// Exactly one of DateRange and Shortcut is set.
type SetDateRangeRequest struct {
	DateRange *domain.DateRange `json:"date_range" swaggertype:"string" example:"01/01/2024 - 31/01/2024"`
	Shortcut  string            `json:"shortcut" example:"last_7_days"`
}

// Validate implements Validator.
func (s SetDateRangeRequest) Validate() []string {
	hasRange := s.DateRange != nil && !s.DateRange.IsZero()
	hasShortcut := strings.TrimSpace(s.Shortcut) != ""
	switch {
	case hasRange && hasShortcut:
		return []string{"date_range and shortcut are mutually exclusive"}
	case !hasRange && !hasShortcut:
		return []string{"date_range or shortcut is required"}
	}
	return nil
}

// SetStoreRequest is the request body for PUT /dashboard/store.
type SetStoreRequest struct {
	StoreID string `json:"store_id" example:"all"`
}

// Validate implements Validator.
func (s SetStoreRequest) Validate() []string {
	if strings.TrimSpace(s.StoreID) == "" {
		return []string{"store_id is required"}
	}
	return nil
}

type DashboardController struct {
	Logger     *slog.Logger
	Dashboards DashboardProvider
	Stores     []string
}

func NewDashboardController(logger *slog.Logger, dashboards DashboardProvider, stores []string) *DashboardController {
	return &DashboardController{Logger: logger, Dashboards: dashboards, Stores: stores}
}

// resolveDashboard writes the error response itself and returns ok=false
// when no dashboard is available.
func resolveDashboard(w http.ResponseWriter, r *http.Request, logger *slog.Logger, dashboards DashboardProvider) (*services.Dashboard, bool) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return nil, false
	}
	d, err := dashboards.Get(session, h.ParseViewportWidth(r))
	if err != nil {
		h.WriteServiceError(w, r, logger, err)
		return nil, false
	}
	return d, true
}

// storesFor lists the stores a session may pick.
func (c *DashboardController) storesFor(session *domain.Session) []string {
	if session.UserRole == domain.RoleStoreManager {
		return []string{session.UserStore}
	}
	return append([]string{domain.StoreAll}, c.Stores...)
}

func (c *DashboardController) respond(w http.ResponseWriter, d *services.Dashboard, widgets []services.WidgetSnapshot) {
	h.WriteJSONSuccess(w, http.StatusOK, DashboardResponse{
		Session:   d.Session(),
		Scope:     d.Scope(),
		Stores:    c.storesFor(d.Session()),
		Shortcuts: dateRangeShortcuts,
		Widgets:   widgets,
	})
}

// GetDashboard godoc
// @Summary Get the dashboard
// @Description Returns the shared date range and store plus every widget's displayed page. Widgets that never loaded are fetched first.
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param X-Viewport-Width header int false "Client viewport width, picks the page size on first load"
// @Success 200 {object} helpers.APIResponse "data contains session, scope, stores, shortcuts and widgets"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /dashboard [get]
func (c *DashboardController) GetDashboard(w http.ResponseWriter, r *http.Request) {
	d, ok := resolveDashboard(w, r, c.Logger, c.Dashboards)
	if !ok {
		return
	}
	c.respond(w, d, d.Load(r.Context()))
}

// SetDateRange godoc
// @Summary Change the date range
// @Description Sets the shared date range from a "DD/MM/YYYY - DD/MM/YYYY" string, a {start, end} object, or a named shortcut. Every widget returns to page 1 and refetches.
// @Tags dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SetDateRangeRequest true "Date range or shortcut"
// @Success 200 {object} helpers.APIResponse "data contains the updated dashboard"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /dashboard/date-range [put]
func (c *DashboardController) SetDateRange(w http.ResponseWriter, r *http.Request) {
	var req SetDateRangeRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	d, ok := resolveDashboard(w, r, c.Logger, c.Dashboards)
	if !ok {
		return
	}
	var (
		widgets []services.WidgetSnapshot
		err     error
	)
	if req.DateRange != nil && !req.DateRange.IsZero() {
		widgets, err = d.SetDateRange(r.Context(), *req.DateRange)
	} else {
		widgets, err = d.ApplyShortcut(r.Context(), strings.TrimSpace(req.Shortcut))
	}
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	c.respond(w, d, widgets)
}

// SetStore godoc
// @Summary Change the store
// @Description Sets the shared store ("all" for every store). Store managers may only select their own store. Every widget returns to page 1 and refetches.
// @Tags dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SetStoreRequest true "Store"
// @Success 200 {object} helpers.APIResponse "data contains the updated dashboard"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /dashboard/store [put]
func (c *DashboardController) SetStore(w http.ResponseWriter, r *http.Request) {
	var req SetStoreRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	d, ok := resolveDashboard(w, r, c.Logger, c.Dashboards)
	if !ok {
		return
	}
	widgets, err := d.SetStore(r.Context(), strings.TrimSpace(req.StoreID))
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	c.respond(w, d, widgets)
}
