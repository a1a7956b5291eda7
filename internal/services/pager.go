package services

import (
	"fmt"

	"salesdashboard/internal/domain"
)

// pageRadius is how many neighbours of the current page stay visible on each side.
const pageRadius = 2

const labelConjunction = "sur"

// Viewport breakpoints for list page sizes.
const (
	narrowViewport = 640
	mediumViewport = 1024
	narrowPageSize = 5
	mediumPageSize = 8
)

// BuildPaginationView derives the pager strip and "start-end sur total" label
// for a result page. totalItems == 0 yields an empty, hidden pager.
func BuildPaginationView(currentPage, totalItems, pageSize int) domain.PaginationView {
	view := domain.PaginationView{
		CurrentPage: currentPage,
		PageSize:    pageSize,
		TotalItems:  totalItems,
		Pages:       []domain.PageMarker{},
	}
	totalPages := domain.PaginationParams{Page: currentPage, PageSize: pageSize}.TotalPages(totalItems)
	if totalPages == 0 {
		return view
	}
	if currentPage < 1 {
		currentPage = 1
	}
	if currentPage > totalPages {
		currentPage = totalPages
	}
	view.CurrentPage = currentPage
	view.TotalPages = totalPages
	view.Pages = pageWindow(currentPage, totalPages)
	view.Label = pageLabel(currentPage, totalItems, pageSize)
	view.Visible = totalPages > 1
	return view
}

// pageWindow keeps 1, totalPages and current±pageRadius. A gap of exactly one
// hidden page shows that page; a longer gap collapses to one ellipsis.
func pageWindow(current, totalPages int) []domain.PageMarker {
	kept := []int{1}
	last := current + min(pageRadius, totalPages-1-current)
	for p := max(2, current-pageRadius); p <= last; p++ {
		kept = append(kept, p)
	}
	if totalPages > 1 {
		kept = append(kept, totalPages)
	}

	out := make([]domain.PageMarker, 0, len(kept)+2)
	prev := 0
	for _, p := range kept {
		if prev > 0 {
			switch gap := p - prev; {
			case gap == 2:
				out = append(out, domain.PageMarker{Page: prev + 1})
			case gap > 2:
				out = append(out, domain.PageMarker{Ellipsis: true})
			}
		}
		out = append(out, domain.PageMarker{Page: p})
		prev = p
	}
	return out
}

func pageLabel(current, totalItems, pageSize int) string {
	start := (current-1)*pageSize + 1
	end := start + min(pageSize-1, totalItems-start)
	return fmt.Sprintf("%d-%d %s %d", start, end, labelConjunction, totalItems)
}

// PageSizeForViewport picks the list page size for a client viewport width.
// A zero width means unknown and keeps base.
func PageSizeForViewport(width, base int) int {
	switch {
	case width <= 0:
		return base
	case width < narrowViewport:
		return min(base, narrowPageSize)
	case width < mediumViewport:
		return min(base, mediumPageSize)
	default:
		return base
	}
}
