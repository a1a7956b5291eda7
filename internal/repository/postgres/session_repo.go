package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"salesdashboard/internal/domain"
)

// pqUndefinedTable is the Postgres error code for a missing relation.
const pqUndefinedTable = "42P01"

// SessionRepository keeps dashboard sessions in the dashboard_sessions table.
type SessionRepository struct {
	DB *sql.DB
}

// NewSessionRepository returns a Postgres-backed session store.
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

var _ domain.SessionStore = (*SessionRepository)(nil)

func (r *SessionRepository) Load(ctx context.Context, id string) (*domain.Session, error) {
	query := `
		SELECT id, is_authenticated, user_role, user_store, user_name, created_at, expires_at
		FROM dashboard_sessions
		WHERE id = $1
	`
	s := &domain.Session{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.IsAuthenticated, &s.UserRole, &s.UserStore, &s.UserName, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, mapError(err)
	}
	return s, nil
}

func (r *SessionRepository) Save(ctx context.Context, s *domain.Session) error {
	query := `
		INSERT INTO dashboard_sessions (id, is_authenticated, user_role, user_store, user_name, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET is_authenticated = EXCLUDED.is_authenticated, user_role = EXCLUDED.user_role,
			user_store = EXCLUDED.user_store, user_name = EXCLUDED.user_name, expires_at = EXCLUDED.expires_at
	`
	_, err := r.DB.ExecContext(ctx, query, s.ID, s.IsAuthenticated, string(s.UserRole), s.UserStore, s.UserName, s.CreatedAt, s.ExpiresAt)
	return mapError(err)
}

func (r *SessionRepository) Clear(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM dashboard_sessions WHERE id = $1`, id)
	return mapError(err)
}

// DeleteExpired removes sessions expired at now and returns their IDs.
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `DELETE FROM dashboard_sessions WHERE expires_at <= $1 RETURNING id`, now)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUndefinedTable {
		return fmt.Errorf("dashboard_sessions table missing, run migrations: %w", err)
	}
	return err
}
