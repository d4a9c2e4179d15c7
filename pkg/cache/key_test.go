package cache

import "testing"

func TestKey_String(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want string
	}{
		{
			name: "plain url",
			key:  Key{URL: "https://example.com/feed"},
			want: "feedwalk:page:https://example.com/feed",
		},
		{
			name: "query params sorted",
			key:  Key{URL: "https://example.com/feed?per_page=50&page=2"},
			want: "feedwalk:page:https://example.com/feed?page=2&per_page=50",
		},
		{
			name: "scheme and host lowercased",
			key:  Key{URL: "HTTPS://Example.COM/Feed"},
			want: "feedwalk:page:https://example.com/Feed",
		},
		{
			name: "fragment dropped",
			key:  Key{URL: "https://example.com/feed#latest"},
			want: "feedwalk:page:https://example.com/feed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKey_EquivalentSpellings(t *testing.T) {
	a := Key{URL: "https://example.com/feed?b=2&a=1"}
	b := Key{URL: "https://EXAMPLE.com/feed?a=1&b=2"}

	if a.String() != b.String() {
		t.Errorf("equivalent URLs produced different keys: %q vs %q", a.String(), b.String())
	}
}
