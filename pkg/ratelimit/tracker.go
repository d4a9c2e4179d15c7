package ratelimit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Prometheus metrics for politeness tracking.
var (
	hostBlocksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feedwalk_host_blocks_total",
		Help: "Total number of requests blocked by a Retry-After window, by host",
	}, []string{"host"})

	hostThrottlesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feedwalk_host_throttles_total",
		Help: "Total number of requests paced to respect the per-host minimum interval",
	}, []string{"host"})

	retryAfterSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "feedwalk_retry_after_seconds",
		Help:    "Retry-After windows imposed by origin servers",
		Buckets: []float64{1, 5, 15, 60, 300, 900, 3600},
	})
)

// stateTTL bounds how long per-host state lives in Redis.
const stateTTL = 24 * time.Hour

// Tracker gates requests per host. With a Redis client the state is
// shared across processes; without one it falls back to process-local
// state.
type Tracker struct {
	redis       *redis.Client
	logger      zerolog.Logger
	minInterval time.Duration

	mu    sync.Mutex
	local map[string]*HostState
}

// NewTracker creates a politeness tracker. redisClient may be nil for
// process-local tracking. minInterval of 0 disables request pacing;
// Retry-After windows are always honored.
func NewTracker(redisClient *redis.Client, minInterval time.Duration, logger zerolog.Logger) *Tracker {
	return &Tracker{
		redis:       redisClient,
		logger:      logger,
		minInterval: minInterval,
		local:       make(map[string]*HostState),
	}
}

// GetState retrieves the politeness state for a host, returning a
// zero-value state when none is recorded.
func (t *Tracker) GetState(ctx context.Context, host string) (*HostState, error) {
	if t.redis == nil {
		t.mu.Lock()
		defer t.mu.Unlock()
		if state, ok := t.local[host]; ok {
			copied := *state
			return &copied, nil
		}
		return &HostState{}, nil
	}

	data, err := t.redis.Get(ctx, redisKeyPrefix+host).Bytes()
	if err != nil {
		if err == redis.Nil {
			return &HostState{}, nil
		}
		return nil, fmt.Errorf("get host state: %w", err)
	}

	var state HostState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse host state: %w", err)
	}
	return &state, nil
}

// setState persists a host's state.
func (t *Tracker) setState(ctx context.Context, host string, state *HostState) error {
	state.LastUpdate = time.Now()

	if t.redis == nil {
		t.mu.Lock()
		defer t.mu.Unlock()
		copied := *state
		t.local[host] = &copied
		return nil
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal host state: %w", err)
	}
	if err := t.redis.Set(ctx, redisKeyPrefix+host, data, stateTTL).Err(); err != nil {
		return fmt.Errorf("store host state: %w", err)
	}
	return nil
}

// ShouldAllowRequest checks whether a request to host may proceed.
// Inside a Retry-After window it returns false immediately. When the
// host was contacted more recently than the minimum interval, the call
// sleeps out the remainder (respecting ctx) before allowing the
// request. A successful result records the contact time.
func (t *Tracker) ShouldAllowRequest(ctx context.Context, host string) (bool, error) {
	state, err := t.GetState(ctx, host)
	if err != nil {
		return false, fmt.Errorf("get politeness state: %w", err)
	}

	if state.Blocked() {
		t.logger.Warn().
			Str("host", host).
			Dur("wait_duration", state.BlockRemaining()).
			Msg("Host inside Retry-After window - blocking request")

		hostBlocksTotal.WithLabelValues(host).Inc()
		return false, nil
	}

	if t.minInterval > 0 {
		if elapsed := state.SinceLastRequest(); elapsed < t.minInterval {
			wait := t.minInterval - elapsed

			t.logger.Debug().
				Str("host", host).
				Dur("wait", wait).
				Msg("Pacing request to respect minimum interval")

			hostThrottlesTotal.WithLabelValues(host).Inc()

			select {
			case <-ctx.Done():
				return false, ctx.Err()
			case <-time.After(wait):
			}
		}
	}

	state.LastRequest = time.Now()
	if err := t.setState(ctx, host, state); err != nil {
		return false, err
	}

	return true, nil
}

// UpdateFromResponse records politeness signals from a response. A 429
// or 503 opens a Retry-After window for the host; any other status
// clears an expired one.
func (t *Tracker) UpdateFromResponse(ctx context.Context, host string, statusCode int, headers http.Header) error {
	if statusCode != http.StatusTooManyRequests && statusCode != http.StatusServiceUnavailable {
		return nil
	}

	retryAfter, ok := parseRetryAfter(headers.Get("Retry-After"))
	if !ok {
		retryAfter = DefaultRetryAfter
	}

	state, err := t.GetState(ctx, host)
	if err != nil {
		return err
	}
	state.RetryAfter = time.Now().Add(retryAfter)

	if err := t.setState(ctx, host, state); err != nil {
		return err
	}

	retryAfterSeconds.Observe(retryAfter.Seconds())

	t.logger.Warn().
		Str("host", host).
		Int("status", statusCode).
		Dur("retry_after", retryAfter).
		Msg("Host imposed Retry-After window")

	return nil
}

// parseRetryAfter handles both Retry-After forms: delay in seconds and
// an HTTP date.
func parseRetryAfter(value string) (time.Duration, bool) {
	if value == "" {
		return 0, false
	}

	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}

	if at, err := http.ParseTime(value); err == nil {
		delay := time.Until(at)
		if delay < 0 {
			return 0, true
		}
		return delay, true
	}

	return 0, false
}
