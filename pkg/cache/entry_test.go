package cache

import (
	"testing"
	"time"
)

func TestEntry_IsFresh(t *testing.T) {
	tests := []struct {
		name    string
		expires time.Time
		want    bool
	}{
		{
			name:    "stale entry",
			expires: time.Now().Add(-1 * time.Hour),
			want:    false,
		},
		{
			name:    "fresh entry",
			expires: time.Now().Add(1 * time.Hour),
			want:    true,
		},
		{
			name:    "just went stale",
			expires: time.Now().Add(-1 * time.Second),
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &Entry{Expires: tt.expires}
			if got := entry.IsFresh(); got != tt.want {
				t.Errorf("IsFresh() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEntry_TTL(t *testing.T) {
	tests := []struct {
		name    string
		expires time.Time
		wantMin time.Duration
		wantMax time.Duration
	}{
		{
			name:    "one hour remaining",
			expires: time.Now().Add(1 * time.Hour),
			wantMin: 59 * time.Minute,
			wantMax: 61 * time.Minute,
		},
		{
			name:    "already stale",
			expires: time.Now().Add(-1 * time.Hour),
			wantMin: 0,
			wantMax: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &Entry{Expires: tt.expires}
			got := entry.TTL()
			if got < tt.wantMin || got > tt.wantMax {
				t.Errorf("TTL() = %v, want between %v and %v", got, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestEntry_HasValidators(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		want  bool
	}{
		{
			name:  "etag only",
			entry: Entry{ETag: `"abc123"`},
			want:  true,
		},
		{
			name:  "last-modified only",
			entry: Entry{LastModified: time.Now()},
			want:  true,
		},
		{
			name:  "both",
			entry: Entry{ETag: `"abc123"`, LastModified: time.Now()},
			want:  true,
		},
		{
			name:  "neither",
			entry: Entry{},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.HasValidators(); got != tt.want {
				t.Errorf("HasValidators() = %v, want %v", got, tt.want)
			}
		})
	}
}
