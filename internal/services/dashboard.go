package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"salesdashboard/internal/domain"
)

// DashboardOptions configures dashboards created for sessions.
type DashboardOptions struct {
	Widgets       []domain.WidgetConfig
	Stores        []string
	Location      *time.Location
	Now           func() time.Time
	ViewportWidth int
	ScrollReset   func(widget string)
}

// Dashboard is the page that composes the list widgets of one session. It is
// the single writer of the shared date range and store; widgets only receive
// them through ApplyScope.
type Dashboard struct {
	session *domain.Session
	stores  []string
	now     func() time.Time
	logger  *slog.Logger

	widgets map[string]*ListWidget
	order   []string

	// writeMu serializes scope changes so every widget ends on the scope
	// the dashboard reports.
	writeMu sync.Mutex
	mu      sync.RWMutex
	scope   Scope
}

// NewDashboard creates a dashboard for session opened on today's date range
// and the session's default store.
func NewDashboard(session *domain.Session, fetcher domain.ListFetcher, opts DashboardOptions, logger *slog.Logger) (*Dashboard, error) {
	if session == nil || !session.IsAuthenticated {
		return nil, domain.ErrSessionNotFound
	}
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	clock := func() time.Time { return now().In(loc) }

	today, err := domain.ShortcutRange(domain.ShortcutToday, clock())
	if err != nil {
		return nil, err
	}
	d := &Dashboard{
		session: session,
		stores:  opts.Stores,
		now:     clock,
		logger:  logger.With("session_id", session.ID),
		widgets: make(map[string]*ListWidget, len(opts.Widgets)),
		scope:   Scope{DateRange: today, StoreID: session.DefaultStore()},
	}
	for _, cfg := range opts.Widgets {
		pageSize := PageSizeForViewport(opts.ViewportWidth, cfg.PageSize)
		w, err := NewListWidget(cfg, fetcher, d.scope, d.logger,
			WithPageSize(pageSize),
			WithScrollReset(opts.ScrollReset),
		)
		if err != nil {
			return nil, fmt.Errorf("create widget: %w", err)
		}
		d.widgets[cfg.Name] = w
		d.order = append(d.order, cfg.Name)
	}
	return d, nil
}

// Session returns the session the dashboard belongs to.
func (d *Dashboard) Session() *domain.Session { return d.session }

// Scope returns the current shared date range and store.
func (d *Dashboard) Scope() Scope {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.scope
}

// Widget returns the named widget.
func (d *Dashboard) Widget(name string) (*ListWidget, error) {
	w, ok := d.widgets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownWidget, name)
	}
	return w, nil
}

// Snapshots returns every widget's displayed state in configuration order.
func (d *Dashboard) Snapshots() []WidgetSnapshot {
	out := make([]WidgetSnapshot, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.widgets[name].Snapshot())
	}
	return out
}

// Load fetches every widget that never loaded.
func (d *Dashboard) Load(ctx context.Context) []WidgetSnapshot {
	return d.fanOut(func(w *ListWidget) WidgetSnapshot {
		return w.EnsureLoaded(ctx)
	})
}

// SetDateRange changes the shared date range; every widget returns to page 1.
func (d *Dashboard) SetDateRange(ctx context.Context, dr domain.DateRange) ([]WidgetSnapshot, error) {
	if dr.IsZero() {
		return nil, fmt.Errorf("%w: empty", domain.ErrInvalidDateRange)
	}
	return d.changeScope(ctx, func(s *Scope) { s.DateRange = dr }), nil
}

// ApplyShortcut sets the date range to a named shortcut such as "last_7_days".
func (d *Dashboard) ApplyShortcut(ctx context.Context, name string) ([]WidgetSnapshot, error) {
	dr, err := domain.ShortcutRange(name, d.now())
	if err != nil {
		return nil, err
	}
	return d.SetDateRange(ctx, dr)
}

// SetStore changes the shared store. Store managers may only select their own
// store.
func (d *Dashboard) SetStore(ctx context.Context, storeID string) ([]WidgetSnapshot, error) {
	if err := d.checkStore(storeID); err != nil {
		return nil, err
	}
	return d.changeScope(ctx, func(s *Scope) { s.StoreID = storeID }), nil
}

func (d *Dashboard) checkStore(storeID string) error {
	if storeID != domain.StoreAll && !slices.Contains(d.stores, storeID) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidStore, storeID)
	}
	if !d.session.CanAccessStore(storeID) {
		return fmt.Errorf("%w: role %s cannot view store %q", domain.ErrForbidden, d.session.UserRole, storeID)
	}
	return nil
}

func (d *Dashboard) changeScope(ctx context.Context, mutate func(*Scope)) []WidgetSnapshot {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	d.mu.Lock()
	mutate(&d.scope)
	scope := d.scope
	d.mu.Unlock()

	d.logger.Info("dashboard scope changed", "date_range", scope.DateRange.String(), "store_id", scope.StoreID)
	return d.fanOut(func(w *ListWidget) WidgetSnapshot {
		return w.ApplyScope(ctx, scope)
	})
}

// fanOut runs fn on every widget concurrently and returns the snapshots in
// configuration order.
func (d *Dashboard) fanOut(fn func(*ListWidget) WidgetSnapshot) []WidgetSnapshot {
	out := make([]WidgetSnapshot, len(d.order))
	var wg sync.WaitGroup
	for i, name := range d.order {
		w := d.widgets[name]
		wg.Go(func() {
			out[i] = fn(w)
		})
	}
	wg.Wait()
	return out
}

// DashboardManager keeps one dashboard per session.
type DashboardManager struct {
	fetcher domain.ListFetcher
	opts    DashboardOptions
	logger  *slog.Logger

	mu     sync.Mutex
	boards map[string]*Dashboard
}

// NewDashboardManager returns a manager creating dashboards with opts.
func NewDashboardManager(fetcher domain.ListFetcher, opts DashboardOptions, logger *slog.Logger) *DashboardManager {
	return &DashboardManager{
		fetcher: fetcher,
		opts:    opts,
		logger:  logger,
		boards:  make(map[string]*Dashboard),
	}
}

// Get returns the session's dashboard, creating it on first use.
// viewportWidth only applies when the dashboard is created.
func (m *DashboardManager) Get(session *domain.Session, viewportWidth int) (*Dashboard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.boards[session.ID]; ok {
		return d, nil
	}
	opts := m.opts
	if viewportWidth > 0 {
		opts.ViewportWidth = viewportWidth
	}
	d, err := NewDashboard(session, m.fetcher, opts, m.logger)
	if err != nil {
		return nil, err
	}
	m.boards[session.ID] = d
	return d, nil
}

// Drop forgets the session's dashboard.
func (m *DashboardManager) Drop(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.boards, sessionID)
}

// DropExpired forgets dashboards whose session expired at now and returns
// their session IDs.
func (m *DashboardManager) DropExpired(now time.Time) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for id, d := range m.boards {
		if d.session.Expired(now) {
			delete(m.boards, id)
			ids = append(ids, id)
		}
	}
	return ids
}

// Len returns the number of live dashboards.
func (m *DashboardManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.boards)
}
