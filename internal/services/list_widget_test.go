package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"salesdashboard/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeFetcher is a scriptable domain.ListFetcher.
type fakeFetcher struct {
	mu      sync.Mutex
	calls   []domain.QueryState
	widgets []string
	respond func(ctx context.Context, q domain.QueryState) (domain.ResultPage, error)
}

func (f *fakeFetcher) FetchPage(ctx context.Context, widget domain.WidgetConfig, q domain.QueryState) (domain.ResultPage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, q)
	f.widgets = append(f.widgets, widget.Name)
	respond := f.respond
	f.mu.Unlock()
	return respond(ctx, q)
}

func (f *fakeFetcher) Calls() []domain.QueryState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.QueryState(nil), f.calls...)
}

func (f *fakeFetcher) LastCall() domain.QueryState {
	calls := f.Calls()
	return calls[len(calls)-1]
}

func records(n int, tag string) []domain.Record {
	out := make([]domain.Record, n)
	for i := range out {
		out[i] = domain.Record{"id": float64(i + 1), "tag": tag}
	}
	return out
}

func staticFetcher(total int) *fakeFetcher {
	return &fakeFetcher{respond: func(_ context.Context, q domain.QueryState) (domain.ResultPage, error) {
		n := max(0, min(q.PageSize, total-(q.Page-1)*q.PageSize))
		return domain.ResultPage{Items: records(n, q.SearchTerm), TotalCount: total}, nil
	}}
}

func testOrdersConfig() domain.WidgetConfig {
	return DefaultWidgetConfigs("http://remote.test", 10)[0]
}

func testStockConfig() domain.WidgetConfig {
	return DefaultWidgetConfigs("http://remote.test", 10)[2]
}

func testScope(t *testing.T) Scope {
	t.Helper()
	dr, err := domain.ParseDateRange("01/01/2024 - 31/01/2024")
	require.NoError(t, err)
	return Scope{DateRange: dr, StoreID: domain.StoreAll}
}

func newTestWidget(t *testing.T, cfg domain.WidgetConfig, f domain.ListFetcher, opts ...WidgetOption) *ListWidget {
	t.Helper()
	w, err := NewListWidget(cfg, f, testScope(t), testLogger, opts...)
	require.NoError(t, err)
	return w
}

func TestListWidget_emptyStore(t *testing.T) {
	var dr domain.DateRange
	require.NoError(t, json.Unmarshal([]byte(`["01/01/2024","01/01/2024"]`), &dr))
	f := &fakeFetcher{respond: func(context.Context, domain.QueryState) (domain.ResultPage, error) {
		return domain.ResultPage{Items: []domain.Record{}, TotalCount: 0}, nil
	}}
	w, err := NewListWidget(testStockConfig(), f, Scope{DateRange: dr, StoreID: domain.StoreAll}, testLogger)
	require.NoError(t, err)

	snap := w.Refresh(context.Background())

	assert.Empty(t, snap.Items)
	assert.NotNil(t, snap.Items)
	assert.Equal(t, 0, snap.TotalCount)
	assert.False(t, snap.Pagination.Visible)
	assert.Equal(t, 0, snap.Pagination.TotalPages)
	assert.True(t, snap.Loaded)
	assert.False(t, snap.Loading)

	sent := f.LastCall()
	assert.Equal(t, 1, sent.Page)
	assert.Equal(t, 10, sent.PageSize)
	assert.Equal(t, "", sent.SearchTerm)
	assert.Equal(t, domain.StoreAll, sent.StoreID)
	assert.Equal(t, "01/01/2024 - 01/01/2024", sent.DateRange.String())
}

func TestListWidget_filterChangesResetPage(t *testing.T) {
	other, err := domain.ParseDateRange("01/02/2024 - 29/02/2024")
	require.NoError(t, err)

	tests := []struct {
		name   string
		change func(ctx context.Context, w *ListWidget) (WidgetSnapshot, error)
	}{
		{"search term", func(ctx context.Context, w *ListWidget) (WidgetSnapshot, error) {
			return w.SetSearchTerm(ctx, "dupont"), nil
		}},
		{"status filter", func(ctx context.Context, w *ListWidget) (WidgetSnapshot, error) {
			return w.SetStatusFilter(ctx, domain.StatusUnpaid)
		}},
		{"store", func(ctx context.Context, w *ListWidget) (WidgetSnapshot, error) {
			return w.ApplyScope(ctx, Scope{DateRange: w.Snapshot().Query.DateRange, StoreID: "lyon"}), nil
		}},
		{"date range", func(ctx context.Context, w *ListWidget) (WidgetSnapshot, error) {
			return w.ApplyScope(ctx, Scope{DateRange: other, StoreID: domain.StoreAll}), nil
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := staticFetcher(95)
			w := newTestWidget(t, testOrdersConfig(), f)
			w.Refresh(ctx)
			snap, err := w.SetPage(ctx, 4)
			require.NoError(t, err)
			require.Equal(t, 4, snap.Query.Page)

			snap, err = tt.change(ctx, w)
			require.NoError(t, err)
			assert.Equal(t, 1, snap.Query.Page)
			assert.Equal(t, 1, f.LastCall().Page)
		})
	}
}

func TestListWidget_SetSearchTerm_isIdempotent(t *testing.T) {
	ctx := context.Background()
	f := staticFetcher(42)
	w := newTestWidget(t, testOrdersConfig(), f)
	w.Refresh(ctx)

	first := w.SetSearchTerm(ctx, "martin")
	second := w.SetSearchTerm(ctx, "martin")

	calls := f.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "martin", calls[1].SearchTerm)
	assert.Equal(t, 1, calls[1].Page)
	assert.Equal(t, 1, first.Query.Page)
	assert.Equal(t, 1, second.Query.Page)
	assert.Equal(t, first.Items, second.Items)
}

func TestListWidget_SetSearchTerm_sameTermOnLaterPageReturnsToFirst(t *testing.T) {
	ctx := context.Background()
	f := staticFetcher(42)
	w := newTestWidget(t, testOrdersConfig(), f)
	w.SetSearchTerm(ctx, "martin")
	_, err := w.SetPage(ctx, 3)
	require.NoError(t, err)

	snap := w.SetSearchTerm(ctx, "martin")
	assert.Equal(t, 1, snap.Query.Page)
	assert.Equal(t, domain.QueryState{
		Page:         1,
		PageSize:     10,
		SearchTerm:   "martin",
		StatusFilter: domain.StatusAll,
		DateRange:    testScope(t).DateRange,
		StoreID:      domain.StoreAll,
	}, f.LastCall())
}

func TestListWidget_SetPage(t *testing.T) {
	ctx := context.Background()
	f := staticFetcher(25)
	var scrolled []string
	w := newTestWidget(t, testOrdersConfig(), f, WithScrollReset(func(name string) { scrolled = append(scrolled, name) }))

	_, err := w.SetPage(ctx, 2)
	require.ErrorIs(t, err, domain.ErrPageOutOfRange, "no result loaded yet means no pages")

	w.Refresh(ctx)

	for _, n := range []int{0, 4, -1} {
		_, err := w.SetPage(ctx, n)
		assert.ErrorIs(t, err, domain.ErrPageOutOfRange, "page %d", n)
	}
	assert.Len(t, f.Calls(), 1)
	assert.Empty(t, scrolled)

	snap, err := w.SetPage(ctx, 3)
	require.NoError(t, err)
	assert.True(t, snap.ScrollToTop)
	assert.Equal(t, []string{domain.WidgetOrders}, scrolled)
	assert.Equal(t, 3, snap.Query.Page)
	assert.Len(t, snap.Items, 5)
	assert.Equal(t, "21-25 sur 25", snap.Pagination.Label)
	assert.Equal(t, domain.StatusAll, f.LastCall().StatusFilter, "page change keeps other fields")
	assert.False(t, w.Snapshot().ScrollToTop)
}

func TestListWidget_failedFetchKeepsStickyCounters(t *testing.T) {
	ctx := context.Background()
	fail := false
	f := &fakeFetcher{respond: func(context.Context, domain.QueryState) (domain.ResultPage, error) {
		if fail {
			return domain.ResultPage{}, fmt.Errorf("%w: connection refused", domain.ErrTransport)
		}
		return domain.ResultPage{
			Items:      records(10, ""),
			TotalCount: 10,
			Counters:   domain.Counters{"all": 10, "paid": 6, "unpaid": 4},
		}, nil
	}}
	w := newTestWidget(t, testOrdersConfig(), f)
	before := w.Refresh(ctx)
	require.Equal(t, domain.Counters{"all": 10, "paid": 6, "unpaid": 4}, before.Counters)

	fail = true
	after, err := w.SetStatusFilter(ctx, domain.StatusPaid)
	require.NoError(t, err)

	assert.Empty(t, after.Items)
	assert.NotNil(t, after.Items)
	assert.Equal(t, 0, after.TotalCount)
	assert.Equal(t, domain.Counters{"all": 10, "paid": 6, "unpaid": 4}, after.Counters)
	assert.False(t, after.Pagination.Visible)
}

func TestListWidget_failedFetchWithoutStickyCounters(t *testing.T) {
	ctx := context.Background()
	fail := false
	f := &fakeFetcher{respond: func(context.Context, domain.QueryState) (domain.ResultPage, error) {
		if fail {
			return domain.ResultPage{}, fmt.Errorf("%w: status 500", domain.ErrUpstreamStatus)
		}
		return domain.ResultPage{Items: records(3, ""), TotalCount: 3, Counters: domain.Counters{"low": 2}}, nil
	}}
	w := newTestWidget(t, testStockConfig(), f)
	snap := w.Refresh(ctx)
	require.Equal(t, domain.Counters{"low": 2}, snap.Counters)

	fail = true
	snap = w.SetSearchTerm(ctx, "vis")
	assert.Empty(t, snap.Items)
	assert.Equal(t, 0, snap.TotalCount)
	assert.Nil(t, snap.Counters)
}

func TestListWidget_searchReusesKnownCounters(t *testing.T) {
	ctx := context.Background()
	f := &fakeFetcher{respond: func(_ context.Context, q domain.QueryState) (domain.ResultPage, error) {
		if q.SearchTerm == "" {
			return domain.ResultPage{
				Items:      records(10, ""),
				TotalCount: 40,
				Counters:   domain.Counters{"all": 40, "paid": 25, "unpaid": 12, "credit_note": 3},
			}, nil
		}
		return domain.ResultPage{
			Items:      records(2, q.SearchTerm),
			TotalCount: 2,
			Counters:   domain.Counters{"all": 2},
		}, nil
	}}
	w := newTestWidget(t, testOrdersConfig(), f)
	w.Refresh(ctx)
	_, err := w.SetStatusFilter(ctx, domain.StatusPaid)
	require.NoError(t, err)

	snap := w.SetSearchTerm(ctx, "durand")
	assert.Equal(t, domain.Counters{"all": 40, "paid": 2, "unpaid": 12, "credit_note": 3}, snap.Counters)

	snap = w.SetSearchTerm(ctx, "")
	assert.Equal(t, domain.Counters{"all": 40, "paid": 25, "unpaid": 12, "credit_note": 3}, snap.Counters)
}

func TestListWidget_failedRefreshShowsEmptyList(t *testing.T) {
	ctx := context.Background()
	fail := false
	f := &fakeFetcher{respond: func(context.Context, domain.QueryState) (domain.ResultPage, error) {
		if fail {
			return domain.ResultPage{}, fmt.Errorf("%w: not json", domain.ErrDecode)
		}
		return domain.ResultPage{Items: records(4, ""), TotalCount: 4}, nil
	}}
	w := newTestWidget(t, testStockConfig(), f)
	require.Len(t, w.EnsureLoaded(ctx).Items, 4)

	fail = true
	snap := w.Refresh(ctx)
	assert.True(t, snap.Loaded)
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Items)
	assert.Equal(t, 0, snap.TotalCount)
	assert.False(t, snap.Pagination.Visible)
}

func TestListWidget_SetStatusFilter_rejectsUnknown(t *testing.T) {
	ctx := context.Background()
	orders := newTestWidget(t, testOrdersConfig(), staticFetcher(1))
	_, err := orders.SetStatusFilter(ctx, "refunded")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	stock := newTestWidget(t, testStockConfig(), staticFetcher(1))
	_, err = stock.SetStatusFilter(ctx, domain.StatusPaid)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestListWidget_supersededResponseIsDiscarded(t *testing.T) {
	ctx := context.Background()
	started := make(chan struct{})
	release := make(chan struct{})
	var slowCtxErr error
	f := &fakeFetcher{respond: func(ctx context.Context, q domain.QueryState) (domain.ResultPage, error) {
		if q.SearchTerm == "slow" {
			close(started)
			<-release
			slowCtxErr = ctx.Err()
			return domain.ResultPage{Items: records(1, "slow"), TotalCount: 1}, nil
		}
		return domain.ResultPage{Items: records(3, q.SearchTerm), TotalCount: 3}, nil
	}}
	w := newTestWidget(t, testOrdersConfig(), f)

	var wg sync.WaitGroup
	var slowSnap WidgetSnapshot
	wg.Add(1)
	go func() {
		defer wg.Done()
		slowSnap = w.SetSearchTerm(ctx, "slow")
	}()
	<-started
	assert.True(t, w.Snapshot().Loading)

	fast := w.SetSearchTerm(ctx, "fast")
	require.Len(t, fast.Items, 3)

	close(release)
	wg.Wait()

	final := w.Snapshot()
	assert.Equal(t, "fast", final.Query.SearchTerm)
	require.Len(t, final.Items, 3)
	assert.Equal(t, "fast", final.Items[0]["tag"])
	assert.Equal(t, "fast", slowSnap.Items[0]["tag"], "late response must not overwrite the display")
	assert.False(t, final.Loading)
	assert.True(t, errors.Is(slowCtxErr, context.Canceled), "superseded request is cancelled")
}

func TestListWidget_callerCancellationDoesNotAbortFetch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := &fakeFetcher{respond: func(ctx context.Context, q domain.QueryState) (domain.ResultPage, error) {
		if err := ctx.Err(); err != nil {
			return domain.ResultPage{}, err
		}
		return domain.ResultPage{Items: records(2, ""), TotalCount: 2}, nil
	}}
	w := newTestWidget(t, testOrdersConfig(), f)
	snap := w.Refresh(ctx)
	assert.Len(t, snap.Items, 2)
}

func TestListWidget_pagePastEndReturnsToFirstPage(t *testing.T) {
	ctx := context.Background()
	total := 30
	f := &fakeFetcher{respond: func(_ context.Context, q domain.QueryState) (domain.ResultPage, error) {
		n := max(0, min(q.PageSize, total-(q.Page-1)*q.PageSize))
		return domain.ResultPage{Items: records(n, ""), TotalCount: total}, nil
	}}
	w := newTestWidget(t, testStockConfig(), f)
	w.Refresh(ctx)
	_, err := w.SetPage(ctx, 3)
	require.NoError(t, err)

	total = 5
	snap := w.Refresh(ctx)

	calls := f.Calls()
	require.Len(t, calls, 4)
	assert.Equal(t, 3, calls[2].Page)
	assert.Equal(t, 1, calls[3].Page)
	assert.Equal(t, 1, snap.Query.Page)
	assert.Len(t, snap.Items, 5)
	assert.Equal(t, "1-5 sur 5", snap.Pagination.Label)
}

func TestListWidget_EnsureLoaded(t *testing.T) {
	ctx := context.Background()
	f := staticFetcher(3)
	w := newTestWidget(t, testOrdersConfig(), f, WithPageSize(5))
	assert.False(t, w.Snapshot().Loaded)

	w.EnsureLoaded(ctx)
	snap := w.EnsureLoaded(ctx)

	assert.Len(t, f.Calls(), 1)
	assert.Equal(t, 5, f.LastCall().PageSize)
	assert.True(t, snap.Loaded)
}

func TestNewListWidget_validation(t *testing.T) {
	_, err := NewListWidget(domain.WidgetConfig{Name: "broken"}, staticFetcher(0), Scope{}, testLogger)
	assert.Error(t, err)

	_, err = NewListWidget(testOrdersConfig(), nil, Scope{}, testLogger)
	assert.Error(t, err)
}

func TestFailureKind(t *testing.T) {
	assert.Equal(t, "transport", failureKind(fmt.Errorf("%w: x", domain.ErrTransport)))
	assert.Equal(t, "status", failureKind(fmt.Errorf("%w: x", domain.ErrUpstreamStatus)))
	assert.Equal(t, "decode", failureKind(fmt.Errorf("%w: x", domain.ErrDecode)))
	assert.Equal(t, "application", failureKind(fmt.Errorf("%w: x", domain.ErrUpstreamApplication)))
	assert.Equal(t, "cancelled", failureKind(context.Canceled))
	assert.Equal(t, "unknown", failureKind(errors.New("boom")))
}
