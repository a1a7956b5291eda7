package controllers

import (
	"bytes"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"net/mail"
	"strconv"
	"strings"

	h "salesdashboard/internal/delivery/http/helpers"
	"salesdashboard/internal/delivery/http/middleware"
	"salesdashboard/internal/domain"
	"salesdashboard/internal/services"
)

// maxExportRecipients bounds POST /widgets/{widget}/export/email.
const maxExportRecipients = 10

// SetSearchRequest is the request body for PUT /widgets/{widget}/search.
type SetSearchRequest struct {
	Term string `json:"term"`
}

// SetStatusRequest is the request body for PUT /widgets/{widget}/status.
type SetStatusRequest struct {
	Status string `json:"status" example:"unpaid"`
}

// SetPageRequest is the request body for PUT /widgets/{widget}/page.
type SetPageRequest struct {
	Page int `json:"page" example:"2"`
}

// Validate implements Validator.
func (s SetPageRequest) Validate() []string {
	if s.Page < 1 {
		return []string{"page must be at least 1"}
	}
	return nil
}

// EmailExportRequest is the request body for POST /widgets/{widget}/export/email.
type EmailExportRequest struct {
	To []string `json:"to"`
}

// Validate implements Validator.
func (e EmailExportRequest) Validate() []string {
	var errs []string
	if len(e.To) == 0 {
		errs = append(errs, "to is required")
	}
	if len(e.To) > maxExportRecipients {
		errs = append(errs, fmt.Sprintf("at most %d recipients", maxExportRecipients))
	}
	for _, addr := range e.To {
		if _, err := mail.ParseAddress(addr); err != nil {
			errs = append(errs, fmt.Sprintf("invalid email %q", addr))
		}
	}
	return errs
}

type WidgetController struct {
	Logger     *slog.Logger
	Dashboards DashboardProvider
	Exports    *services.ExportService
}

func NewWidgetController(logger *slog.Logger, dashboards DashboardProvider, export *services.ExportService) *WidgetController {
	return &WidgetController{Logger: logger, Dashboards: dashboards, Exports: export}
}

func (c *WidgetController) widget(w http.ResponseWriter, r *http.Request) (*services.ListWidget, bool) {
	d, ok := resolveDashboard(w, r, c.Logger, c.Dashboards)
	if !ok {
		return nil, false
	}
	lw, err := d.Widget(r.PathValue("widget"))
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return nil, false
	}
	return lw, true
}

func (c *WidgetController) write(w http.ResponseWriter, r *http.Request, snap services.WidgetSnapshot, err error) {
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, snap)
}

// GetWidget godoc
// @Summary Get a widget
// @Description Returns the widget's query state, displayed items, counters and pagination view. Loads the widget if it never loaded; refresh=true refetches.
// @Tags widgets
// @Produce json
// @Security BearerAuth
// @Param widget path string true "Widget name" Enums(orders, payments, stock)
// @Param refresh query bool false "Refetch the current query"
// @Success 200 {object} helpers.APIResponse "data contains the widget snapshot"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /widgets/{widget} [get]
func (c *WidgetController) GetWidget(w http.ResponseWriter, r *http.Request) {
	lw, ok := c.widget(w, r)
	if !ok {
		return
	}
	if refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh")); refresh {
		h.WriteJSONSuccess(w, http.StatusOK, lw.Refresh(r.Context()))
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, lw.EnsureLoaded(r.Context()))
}

// SetSearch godoc
// @Summary Search a widget
// @Description Sets the search term and returns to page 1. Repeating the current term on page 1 issues no request.
// @Tags widgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param widget path string true "Widget name" Enums(orders, payments, stock)
// @Param body body SetSearchRequest true "Search term, empty to clear"
// @Success 200 {object} helpers.APIResponse "data contains the widget snapshot"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /widgets/{widget}/search [put]
func (c *WidgetController) SetSearch(w http.ResponseWriter, r *http.Request) {
	var req SetSearchRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	lw, ok := c.widget(w, r)
	if !ok {
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, lw.SetSearchTerm(r.Context(), strings.TrimSpace(req.Term)))
}

// SetStatus godoc
// @Summary Filter a widget by status
// @Description Sets the status filter (orders: all, paid, unpaid, credit_note) and returns to page 1.
// @Tags widgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param widget path string true "Widget name" Enums(orders, payments, stock)
// @Param body body SetStatusRequest true "Status filter"
// @Success 200 {object} helpers.APIResponse "data contains the widget snapshot"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /widgets/{widget}/status [put]
func (c *WidgetController) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req SetStatusRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	lw, ok := c.widget(w, r)
	if !ok {
		return
	}
	snap, err := lw.SetStatusFilter(r.Context(), strings.TrimSpace(req.Status))
	c.write(w, r, snap, err)
}

// SetPage godoc
// @Summary Change a widget's page
// @Description Moves to a page between 1 and the displayed total pages. The response has scroll_to_top set.
// @Tags widgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param widget path string true "Widget name" Enums(orders, payments, stock)
// @Param body body SetPageRequest true "Page number"
// @Success 200 {object} helpers.APIResponse "data contains the widget snapshot"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /widgets/{widget}/page [put]
func (c *WidgetController) SetPage(w http.ResponseWriter, r *http.Request) {
	var req SetPageRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	lw, ok := c.widget(w, r)
	if !ok {
		return
	}
	snap, err := lw.SetPage(r.Context(), req.Page)
	c.write(w, r, snap, err)
}

// Export godoc
// @Summary Download a widget export
// @Description Returns the currently displayed page of the widget as an .xlsx workbook.
// @Tags widgets
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param widget path string true "Widget name" Enums(orders, payments, stock)
// @Success 200 {file} file
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /widgets/{widget}/export [get]
func (c *WidgetController) Export(w http.ResponseWriter, r *http.Request) {
	lw, ok := c.widget(w, r)
	if !ok {
		return
	}
	snap := lw.EnsureLoaded(r.Context())
	var buf bytes.Buffer
	if err := c.Exports.Write(&buf, lw.Config(), snap); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.Header().Set("Content-Type", domain.XLSXContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": c.Exports.Filename(snap)}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// EmailExport godoc
// @Summary Email a widget export
// @Description Sends the currently displayed page of the widget as an .xlsx attachment.
// @Tags widgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param widget path string true "Widget name" Enums(orders, payments, stock)
// @Param body body EmailExportRequest true "Recipients"
// @Success 202 {object} helpers.APIResponse "data contains the recipients and file name"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /widgets/{widget}/export/email [post]
func (c *WidgetController) EmailExport(w http.ResponseWriter, r *http.Request) {
	var req EmailExportRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	lw, ok := c.widget(w, r)
	if !ok {
		return
	}
	session, _ := middleware.SessionFromContext(r.Context())
	snap := lw.EnsureLoaded(r.Context())
	if err := c.Exports.Email(r.Context(), req.To, session, lw.Config(), snap); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusAccepted, map[string]any{
		"to":       req.To,
		"filename": c.Exports.Filename(snap),
	})
}
