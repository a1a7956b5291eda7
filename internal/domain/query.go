package domain

import (
	"context"
	"maps"
)

// StoreAll is the store sentinel for the aggregate view across every store.
const StoreAll = "all"

// QueryState fully determines what a list widget requests next.
type QueryState struct {
	Page         int       `json:"page"`
	PageSize     int       `json:"page_size"`
	SearchTerm   string    `json:"search_term"`
	StatusFilter string    `json:"status_filter,omitempty"`
	DateRange    DateRange `json:"date_range"`
	StoreID      string    `json:"store_id"`
}

// Pagination returns the page/page-size pair of the query.
func (q QueryState) Pagination() PaginationParams {
	return PaginationParams{Page: q.Page, PageSize: q.PageSize}
}

// Record is one item of a result page, as decoded from the remote JSON.
type Record map[string]any

// Counters maps a status category to its total.
type Counters map[string]int

// Clone returns an independent copy; nil stays nil.
func (c Counters) Clone() Counters {
	if c == nil {
		return nil
	}
	return maps.Clone(c)
}

// ResultPage is the server slice of data for one query. A new one replaces
// the displayed page on every successful fetch.
type ResultPage struct {
	Items      []Record `json:"items"`
	TotalCount int      `json:"total_count"`
	Counters   Counters `json:"counters,omitempty"`
}

// EmptyResultPage is what a widget shows after a failed fetch.
func EmptyResultPage() ResultPage {
	return ResultPage{Items: []Record{}}
}

// ListFetcher issues one remote list request for a widget.
type ListFetcher interface {
	FetchPage(ctx context.Context, widget WidgetConfig, q QueryState) (ResultPage, error)
}
