package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"salesdashboard/internal/delivery/http/helpers"
	"salesdashboard/internal/delivery/http/middleware"
	"salesdashboard/internal/domain"
	"salesdashboard/internal/services"

	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

var testNow = time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

// stubFetcher serves total numbered records per widget.
type stubFetcher struct {
	mu    sync.Mutex
	total int
	err   error
	last  domain.QueryState
}

func (f *stubFetcher) FetchPage(_ context.Context, widget domain.WidgetConfig, q domain.QueryState) (domain.ResultPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = q
	if f.err != nil {
		return domain.ResultPage{}, f.err
	}
	n := max(0, min(q.PageSize, f.total-(q.Page-1)*q.PageSize))
	items := make([]domain.Record, n)
	for i := range items {
		items[i] = domain.Record{"numero": fmt.Sprintf("%s-%d", widget.Name, (q.Page-1)*q.PageSize+i+1)}
	}
	return domain.ResultPage{Items: items, TotalCount: f.total}, nil
}

func newTestManager(f domain.ListFetcher) *services.DashboardManager {
	return services.NewDashboardManager(f, services.DashboardOptions{
		Widgets:  services.DefaultWidgetConfigs("http://remote.test", 10),
		Stores:   []string{"paris", "lyon"},
		Location: time.UTC,
		Now:      func() time.Time { return testNow },
	}, testLogger)
}

func adminSession() *domain.Session {
	return &domain.Session{ID: "sess-admin", IsAuthenticated: true, UserRole: domain.RoleAdmin, UserStore: domain.StoreAll, UserName: "Administrateur"}
}

func managerSession() *domain.Session {
	return &domain.Session{ID: "sess-lyon", IsAuthenticated: true, UserRole: domain.RoleStoreManager, UserStore: "lyon", UserName: "Gérant Lyon"}
}

func withSession(r *http.Request, s *domain.Session) *http.Request {
	if s == nil {
		return r
	}
	return r.WithContext(middleware.SetSession(r.Context(), s))
}

// decodeEnvelope decodes the response envelope and, when dest is not nil,
// re-decodes its data into dest.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, dest any) helpers.APIResponse {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	if dest != nil && envelope.Data != nil {
		raw, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, dest))
	}
	return envelope
}
