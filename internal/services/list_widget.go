package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"salesdashboard/internal/domain"
)

// Scope is the part of a query owned by the parent dashboard.
type Scope struct {
	DateRange domain.DateRange `json:"date_range"`
	StoreID   string           `json:"store_id"`
}

// WidgetSnapshot is the displayed state of a list widget.
type WidgetSnapshot struct {
	Widget     string                `json:"widget"`
	Query      domain.QueryState     `json:"query"`
	Items      []domain.Record       `json:"items"`
	TotalCount int                   `json:"total_count"`
	Counters   domain.Counters       `json:"counters,omitempty"`
	Loading    bool                  `json:"loading"`
	Loaded     bool                  `json:"loaded"`
	Pagination domain.PaginationView `json:"pagination"`
	// ScrollToTop is set on the snapshot returned by a completed page change.
	ScrollToTop bool `json:"scroll_to_top,omitempty"`
}

// WidgetOption customizes a ListWidget.
type WidgetOption func(*ListWidget)

// WithScrollReset registers a hook run after a page change is applied.
func WithScrollReset(fn func(widget string)) WidgetOption {
	return func(w *ListWidget) { w.onScrollReset = fn }
}

// WithPageSize overrides the configured page size.
func WithPageSize(n int) WidgetOption {
	return func(w *ListWidget) {
		if n > 0 {
			w.query.PageSize = n
		}
	}
}

// ListWidget owns the query state and displayed result page of one
// remote-paginated list. Every state change issues a request tagged with a
// sequence number; only the response to the latest request is applied and
// the superseded request's context is cancelled.
type ListWidget struct {
	cfg           domain.WidgetConfig
	fetcher       domain.ListFetcher
	logger        *slog.Logger
	onScrollReset func(widget string)

	mu            sync.Mutex
	query         domain.QueryState
	result        domain.ResultPage
	knownCounters domain.Counters
	issued        uint64
	applied       uint64
	loaded        bool
	cancelPending context.CancelFunc
}

// NewListWidget creates a widget on page 1 of scope with the widget's default
// status filter. No request is issued until Refresh or a state change.
func NewListWidget(cfg domain.WidgetConfig, fetcher domain.ListFetcher, scope Scope, logger *slog.Logger, opts ...WidgetOption) (*ListWidget, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if fetcher == nil {
		return nil, fmt.Errorf("widget %s: fetcher is required", cfg.Name)
	}
	if logger == nil {
		logger = slog.Default()
	}
	w := &ListWidget{
		cfg:     cfg,
		fetcher: fetcher,
		logger:  logger.With("widget", cfg.Name),
		query: domain.QueryState{
			Page:         1,
			PageSize:     cfg.PageSize,
			StatusFilter: cfg.DefaultStatus(),
			DateRange:    scope.DateRange,
			StoreID:      scope.StoreID,
		},
		result: domain.EmptyResultPage(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Name returns the widget name.
func (w *ListWidget) Name() string { return w.cfg.Name }

// Config returns the widget's static configuration.
func (w *ListWidget) Config() domain.WidgetConfig { return w.cfg }

// Snapshot returns the current displayed state without any I/O.
func (w *ListWidget) Snapshot() WidgetSnapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

// Refresh refetches the current query. A failed fetch shows as an empty
// list in the returned snapshot.
func (w *ListWidget) Refresh(ctx context.Context) WidgetSnapshot {
	snap, _ := w.run(ctx, func(*domain.QueryState) bool { return true })
	return snap
}

// EnsureLoaded fetches once if the widget never loaded.
func (w *ListWidget) EnsureLoaded(ctx context.Context) WidgetSnapshot {
	w.mu.Lock()
	loaded := w.loaded
	w.mu.Unlock()
	if loaded {
		return w.Snapshot()
	}
	return w.Refresh(ctx)
}

// SetSearchTerm sets the search term and returns to page 1. Repeating the
// current term while already on page 1 issues no request.
func (w *ListWidget) SetSearchTerm(ctx context.Context, term string) WidgetSnapshot {
	snap, _ := w.run(ctx, func(q *domain.QueryState) bool {
		if q.SearchTerm == term && q.Page == 1 && w.loaded {
			return false
		}
		q.SearchTerm = term
		q.Page = 1
		return true
	})
	return snap
}

// SetStatusFilter sets the status filter and returns to page 1. The only
// error is ErrInvalidStatus; fetch failures show in the snapshot.
func (w *ListWidget) SetStatusFilter(ctx context.Context, status string) (WidgetSnapshot, error) {
	if !w.cfg.AllowsStatus(status) {
		return w.Snapshot(), fmt.Errorf("%w: %q for widget %s", domain.ErrInvalidStatus, status, w.cfg.Name)
	}
	snap, _ := w.run(ctx, func(q *domain.QueryState) bool {
		if q.StatusFilter == status && q.Page == 1 && w.loaded {
			return false
		}
		q.StatusFilter = status
		q.Page = 1
		return true
	})
	return snap, nil
}

// ApplyScope takes a new date range and store from the parent dashboard and
// returns to page 1.
func (w *ListWidget) ApplyScope(ctx context.Context, scope Scope) WidgetSnapshot {
	snap, _ := w.run(ctx, func(q *domain.QueryState) bool {
		if q.DateRange.Equal(scope.DateRange) && q.StoreID == scope.StoreID && q.Page == 1 && w.loaded {
			return false
		}
		q.DateRange = scope.DateRange
		q.StoreID = scope.StoreID
		q.Page = 1
		return true
	})
	return snap
}

// SetPage moves to page n, 1 ≤ n ≤ total pages of the displayed result. Once
// the page is applied the scroll-reset hook runs and the returned snapshot
// has ScrollToTop set.
func (w *ListWidget) SetPage(ctx context.Context, n int) (WidgetSnapshot, error) {
	w.mu.Lock()
	totalPages := w.query.Pagination().TotalPages(w.result.TotalCount)
	w.mu.Unlock()
	if n < 1 || n > totalPages {
		return w.Snapshot(), fmt.Errorf("%w: %d not in [1, %d]", domain.ErrPageOutOfRange, n, totalPages)
	}

	snap, applied := w.run(ctx, func(q *domain.QueryState) bool {
		q.Page = n
		return true
	})
	if applied {
		if w.onScrollReset != nil {
			w.onScrollReset(w.cfg.Name)
		}
		snap.ScrollToTop = true
	}
	return snap, nil
}

// run applies mutate to the query under lock and, if it reports a change,
// issues a request for the resulting state. The state is captured at issue
// time and passed to the fetcher, never read back later. applied reports
// whether this call's response became the displayed page.
func (w *ListWidget) run(ctx context.Context, mutate func(*domain.QueryState) bool) (WidgetSnapshot, bool) {
	w.mu.Lock()
	q := w.query
	if !mutate(&q) {
		snap := w.snapshotLocked()
		w.mu.Unlock()
		return snap, false
	}
	w.query = q
	fetchCtx, cancel, seq := w.beginLocked(ctx)
	w.mu.Unlock()
	defer cancel()

	page, err := w.fetcher.FetchPage(fetchCtx, w.cfg, q)

	w.mu.Lock()
	if seq != w.issued {
		w.logger.Debug("discarding superseded response", "seq", seq, "latest", w.issued)
		snap := w.snapshotLocked()
		w.mu.Unlock()
		return snap, false
	}
	w.applied = seq
	w.cancelPending = nil
	w.loaded = true
	if err != nil {
		w.applyFailureLocked(seq, err)
		snap := w.snapshotLocked()
		w.mu.Unlock()
		return snap, true
	}
	w.applySuccessLocked(q, page)

	// A narrowed result set can leave the current page past the end.
	reset := page.TotalCount > 0 && q.Page > q.Pagination().TotalPages(page.TotalCount)
	if !reset {
		snap := w.snapshotLocked()
		w.mu.Unlock()
		return snap, true
	}
	w.logger.Info("page past end of result set, returning to page 1", "page", q.Page, "total_count", page.TotalCount)
	w.mu.Unlock()
	return w.run(ctx, func(q *domain.QueryState) bool {
		q.Page = 1
		return true
	})
}

// beginLocked tags a new request and cancels the one it supersedes. The
// request outlives the caller's cancellation; only a newer request stops it.
func (w *ListWidget) beginLocked(ctx context.Context) (context.Context, context.CancelFunc, uint64) {
	w.issued++
	if w.cancelPending != nil {
		w.cancelPending()
	}
	fetchCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	w.cancelPending = cancel
	return fetchCtx, cancel, w.issued
}

func (w *ListWidget) applySuccessLocked(q domain.QueryState, page domain.ResultPage) {
	items := page.Items
	if items == nil {
		items = []domain.Record{}
	}
	w.result = domain.ResultPage{Items: items, TotalCount: page.TotalCount}

	if !w.cfg.StickyCounters {
		w.result.Counters = page.Counters.Clone()
		return
	}
	if q.SearchTerm == "" {
		if page.Counters != nil {
			w.knownCounters = page.Counters.Clone()
		}
		w.result.Counters = w.knownCounters.Clone()
		return
	}
	// Search results only tell us the active filter's count; the other
	// categories keep their last unsearched totals.
	counters := w.knownCounters.Clone()
	if counters == nil {
		counters = domain.Counters{}
	}
	counters[q.StatusFilter] = page.TotalCount
	w.result.Counters = counters
}

// applyFailureLocked empties the list. Sticky counters survive the failure.
func (w *ListWidget) applyFailureLocked(seq uint64, err error) {
	w.logger.Warn("widget fetch failed",
		"endpoint", w.cfg.Endpoint,
		"seq", seq,
		"kind", failureKind(err),
		"err", err,
	)
	w.result = domain.EmptyResultPage()
	if w.cfg.StickyCounters {
		w.result.Counters = w.knownCounters.Clone()
	}
}

func (w *ListWidget) snapshotLocked() WidgetSnapshot {
	return WidgetSnapshot{
		Widget:     w.cfg.Name,
		Query:      w.query,
		Items:      slices.Clone(w.result.Items),
		TotalCount: w.result.TotalCount,
		Counters:   w.result.Counters.Clone(),
		Loading:    w.issued != w.applied,
		Loaded:     w.loaded,
		Pagination: BuildPaginationView(w.query.Page, w.result.TotalCount, w.query.PageSize),
	}
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrTransport):
		return "transport"
	case errors.Is(err, domain.ErrUpstreamStatus):
		return "status"
	case errors.Is(err, domain.ErrDecode):
		return "decode"
	case errors.Is(err, domain.ErrUpstreamApplication):
		return "application"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "unknown"
	}
}
