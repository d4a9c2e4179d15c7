package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrCacheMiss indicates the requested page is not in the cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidEntry indicates the cache entry is corrupted
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// Manager stores feed page responses in Redis.
type Manager struct {
	redis *redis.Client
}

// NewManager creates a cache manager backed by the given Redis client.
func NewManager(redisClient *redis.Client) *Manager {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &Manager{redis: redisClient}
}

// Get retrieves the cached page for key. Stale entries are still
// returned when they carry validators, so the caller can revalidate
// instead of re-downloading; entries without validators are evicted.
// Returns ErrCacheMiss when nothing usable is stored.
func (m *Manager) Get(ctx context.Context, key Key) (*Entry, error) {
	data, err := m.redis.Get(ctx, key.String()).Bytes()
	if err != nil {
		if err == redis.Nil {
			Misses.Inc()
			return nil, ErrCacheMiss
		}
		Errors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		Errors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	if !entry.IsFresh() && !entry.HasValidators() {
		_ = m.Delete(ctx, key)
		Misses.Inc()
		return nil, ErrCacheMiss
	}

	Hits.Inc()
	return &entry, nil
}

// Set stores a page entry. Entries with validators are kept past their
// freshness lifetime (bounded by ValidatorRetention) so they remain
// available for conditional requests; entries without validators live
// only as long as they are fresh.
func (m *Manager) Set(ctx context.Context, key Key, entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("cache entry cannot be nil")
	}

	ttl := entry.TTL()
	if entry.HasValidators() {
		ttl += ValidatorRetention
	}
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(entry)
	if err != nil {
		Errors.WithLabelValues("set").Inc()
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := m.redis.Set(ctx, key.String(), data, ttl).Err(); err != nil {
		Errors.WithLabelValues("set").Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

// Delete removes a cached page.
func (m *Manager) Delete(ctx context.Context, key Key) error {
	if err := m.redis.Del(ctx, key.String()).Err(); err != nil {
		Errors.WithLabelValues("delete").Inc()
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Refresh extends a cached page's freshness after a 304 Not Modified
// response handed back a new expiry.
func (m *Manager) Refresh(ctx context.Context, key Key, newExpires time.Time) error {
	entry, err := m.Get(ctx, key)
	if err != nil {
		return err
	}

	entry.Expires = newExpires
	return m.Set(ctx, key, entry)
}
