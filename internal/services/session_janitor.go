package services

import (
	"context"
	"log/slog"
	"time"
)

// ExpiredSessionDeleter is a session store that must purge expired sessions
// itself. Stores with native expiry do not implement it.
type ExpiredSessionDeleter interface {
	DeleteExpired(ctx context.Context, now time.Time) ([]string, error)
}

// SessionJanitor periodically purges expired sessions and their dashboards.
type SessionJanitor struct {
	deleter    ExpiredSessionDeleter
	dashboards *DashboardManager
	interval   time.Duration
	now        func() time.Time
	logger     *slog.Logger
}

// NewSessionJanitor returns a janitor sweeping every interval. deleter may be
// nil.
func NewSessionJanitor(deleter ExpiredSessionDeleter, dashboards *DashboardManager, interval time.Duration, logger *slog.Logger) *SessionJanitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionJanitor{
		deleter:    deleter,
		dashboards: dashboards,
		interval:   interval,
		now:        time.Now,
		logger:     logger,
	}
}

// Run sweeps until ctx is done.
func (j *SessionJanitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.Sweep(ctx)
		}
	}
}

// Sweep runs one purge and returns how many sessions and dashboards it
// removed.
func (j *SessionJanitor) Sweep(ctx context.Context) (sessions, dashboards int) {
	now := j.now()
	if j.deleter != nil {
		ids, err := j.deleter.DeleteExpired(ctx, now)
		if err != nil {
			j.logger.WarnContext(ctx, "failed to delete expired sessions", "err", err)
		}
		sessions = len(ids)
		for _, id := range ids {
			j.dashboards.Drop(id)
		}
	}
	dashboards = len(j.dashboards.DropExpired(now))
	if sessions > 0 || dashboards > 0 {
		j.logger.InfoContext(ctx, "expired sessions purged", "sessions", sessions, "dashboards", dashboards)
	}
	return sessions, dashboards
}
