package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"salesdashboard/internal/domain"
)

const sessionKeyPrefix = "session:"

// RedisSessionStore keeps sessions as JSON values that Redis expires on its
// own at the session's expiry.
type RedisSessionStore struct {
	client     redis.Cmdable
	defaultTTL time.Duration
	now        func() time.Time
}

// NewRedisSessionStore returns a session store on client. defaultTTL applies
// to sessions without an expiry.
func NewRedisSessionStore(client redis.Cmdable, defaultTTL time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, defaultTTL: defaultTTL, now: time.Now}
}

var _ domain.SessionStore = (*RedisSessionStore)(nil)

func sessionKey(id string) string { return sessionKeyPrefix + id }

func (c *RedisSessionStore) Load(ctx context.Context, id string) (*domain.Session, error) {
	data, err := c.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("redis get session: %w", err)
	}
	var s domain.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

func (c *RedisSessionStore) Save(ctx context.Context, s *domain.Session) error {
	ttl, ok := c.ttl(s)
	if !ok {
		return c.Clear(ctx, s.ID)
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := c.client.Set(ctx, sessionKey(s.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

func (c *RedisSessionStore) Clear(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("redis del session: %w", err)
	}
	return nil
}

// ttl returns how long Redis keeps s; ok is false when s already expired.
func (c *RedisSessionStore) ttl(s *domain.Session) (time.Duration, bool) {
	if s.ExpiresAt.IsZero() {
		return c.defaultTTL, true
	}
	ttl := s.ExpiresAt.Sub(c.now())
	return ttl, ttl > 0
}
