package ratelimit

import (
	"testing"
	"time"
)

func TestHostState_Blocked(t *testing.T) {
	tests := []struct {
		name       string
		retryAfter time.Time
		want       bool
	}{
		{
			name:       "no window",
			retryAfter: time.Time{},
			want:       false,
		},
		{
			name:       "inside window",
			retryAfter: time.Now().Add(30 * time.Second),
			want:       true,
		},
		{
			name:       "window expired",
			retryAfter: time.Now().Add(-1 * time.Second),
			want:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := &HostState{RetryAfter: tt.retryAfter}
			if got := state.Blocked(); got != tt.want {
				t.Errorf("Blocked() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHostState_BlockRemaining(t *testing.T) {
	state := &HostState{RetryAfter: time.Now().Add(10 * time.Second)}
	remaining := state.BlockRemaining()
	if remaining < 9*time.Second || remaining > 10*time.Second {
		t.Errorf("BlockRemaining() = %v, want ~10s", remaining)
	}

	expired := &HostState{RetryAfter: time.Now().Add(-10 * time.Second)}
	if got := expired.BlockRemaining(); got != 0 {
		t.Errorf("BlockRemaining() = %v, want 0 for expired window", got)
	}
}

func TestHostState_SinceLastRequest(t *testing.T) {
	fresh := &HostState{LastRequest: time.Now().Add(-2 * time.Second)}
	since := fresh.SinceLastRequest()
	if since < 2*time.Second || since > 3*time.Second {
		t.Errorf("SinceLastRequest() = %v, want ~2s", since)
	}

	// A never-contacted host must not be paced.
	never := &HostState{}
	if got := never.SinceLastRequest(); got < 24*time.Hour {
		t.Errorf("SinceLastRequest() = %v, want very large for zero LastRequest", got)
	}
}

func TestHostState_IsStale(t *testing.T) {
	tests := []struct {
		name       string
		lastUpdate time.Time
		maxAge     time.Duration
		want       bool
	}{
		{
			name:       "fresh state",
			lastUpdate: time.Now(),
			maxAge:     5 * time.Minute,
			want:       false,
		},
		{
			name:       "stale state",
			lastUpdate: time.Now().Add(-10 * time.Minute),
			maxAge:     5 * time.Minute,
			want:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := &HostState{LastUpdate: tt.lastUpdate}
			if got := state.IsStale(tt.maxAge); got != tt.want {
				t.Errorf("IsStale() = %v, want %v", got, tt.want)
			}
		})
	}
}
