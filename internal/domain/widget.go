package domain

import (
	"fmt"
	"slices"
)

// Widget names.
const (
	WidgetOrders   = "orders"
	WidgetPayments = "payments"
	WidgetStock    = "stock"
)

// Order status filters.
const (
	StatusAll        = "all"
	StatusPaid       = "paid"
	StatusUnpaid     = "unpaid"
	StatusCreditNote = "credit_note"
)

// FieldMapping names the multipart form fields a widget's endpoint expects.
type FieldMapping struct {
	DateRange    string
	StoreID      string
	Page         string
	PerPage      string
	SearchTerm   string
	StatusFilter string
}

// DefaultFieldMapping returns the field names shared by the list endpoints.
func DefaultFieldMapping() FieldMapping {
	return FieldMapping{
		DateRange:    "date_range",
		StoreID:      "store_id",
		Page:         "page",
		PerPage:      "per_page",
		SearchTerm:   "search_term",
		StatusFilter: "status_filter",
	}
}

// Column is one exported spreadsheet column.
type Column struct {
	Key    string `json:"key"`
	Header string `json:"header"`
}

// WidgetConfig is the static configuration of one remote-paginated list.
type WidgetConfig struct {
	Name        string
	Endpoint    string
	ItemsKey    string
	TotalKey    string
	CountersKey string
	Fields      FieldMapping
	PageSize    int
	// StatusFilters is empty for widgets without a status filter. The first
	// entry is the default.
	StatusFilters []string
	// StickyCounters keeps the last known-good counters across a failed fetch.
	StickyCounters bool
	Columns        []Column
}

// Validate checks the configuration is usable.
func (w WidgetConfig) Validate() error {
	if w.Name == "" {
		return fmt.Errorf("widget name is required")
	}
	if w.Endpoint == "" {
		return fmt.Errorf("widget %s: endpoint is required", w.Name)
	}
	if w.ItemsKey == "" {
		return fmt.Errorf("widget %s: items key is required", w.Name)
	}
	if w.PageSize <= 0 {
		return fmt.Errorf("widget %s: page size must be positive", w.Name)
	}
	return nil
}

// HasStatusFilter reports whether the widget exposes a status filter.
func (w WidgetConfig) HasStatusFilter() bool {
	return len(w.StatusFilters) > 0
}

// DefaultStatus returns the initial status filter, or "" when there is none.
func (w WidgetConfig) DefaultStatus() string {
	if len(w.StatusFilters) == 0 {
		return ""
	}
	return w.StatusFilters[0]
}

// AllowsStatus reports whether status is a valid filter value for the widget.
func (w WidgetConfig) AllowsStatus(status string) bool {
	if !w.HasStatusFilter() {
		return status == ""
	}
	return slices.Contains(w.StatusFilters, status)
}
