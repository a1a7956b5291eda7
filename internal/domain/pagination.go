package domain

import "strconv"

// PaginationParams holds offset-based pagination parameters for list queries.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Offset returns the row offset for the current page (0-based).
// Formula: (Page - 1) * PageSize.
func (p PaginationParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// TotalPages returns ceil(total / PageSize); 0 when total or PageSize is 0.
func (p PaginationParams) TotalPages(total int) int {
	if p.PageSize <= 0 || total <= 0 {
		return 0
	}
	return total/p.PageSize + min(total%p.PageSize, 1)
}

// PageMarker is one entry of a pager strip: a page number or an ellipsis.
type PageMarker struct {
	Page     int  `json:"page,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

// String renders the marker the way a pager shows it.
func (m PageMarker) String() string {
	if m.Ellipsis {
		return "..."
	}
	return strconv.Itoa(m.Page)
}

// PaginationView is the derived pager for a result page. It is never stored.
type PaginationView struct {
	CurrentPage int          `json:"current_page"`
	PageSize    int          `json:"page_size"`
	TotalItems  int          `json:"total_items"`
	TotalPages  int          `json:"total_pages"`
	Pages       []PageMarker `json:"pages"`
	Label       string       `json:"label"`
	Visible     bool         `json:"visible"`
}
