package normalize

import "testing"

func TestCanonicalURLStripsTrackingParams(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://example.com/article?utm_source=twitter&utm_medium=social", "https://example.com/article"},
		{"https://example.com/article?utm_source=a&fbclid=b&gclid=c&ref=d", "https://example.com/article"},
		{"https://example.com/article?id=123&page=2", "https://example.com/article?id=123&page=2"},
		{"https://example.com/article?id=123&utm_source=twitter", "https://example.com/article?id=123"},
	}
	for _, tt := range tests {
		if got := CanonicalURL(tt.in); got != tt.want {
			t.Errorf("CanonicalURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCanonicalURLNormalizesHost(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.example.com/article", "https://example.com/article"},
		{"https://EXAMPLE.COM/Article", "https://example.com/Article"},
		{"HTTPS://example.com/a", "https://example.com/a"},
		{"https://m.example.com/article", "https://example.com/article"},
		{"https://amp.example.com/article", "https://example.com/article"},
		{"https://www.m.example.com/article", "https://example.com/article"},
		{"https://m.www.example.com/article", "https://example.com/article"},
	}
	for _, tt := range tests {
		if got := CanonicalURL(tt.in); got != tt.want {
			t.Errorf("CanonicalURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCanonicalURLTrailingSlashAndFragment(t *testing.T) {
	if got := CanonicalURL("https://example.com/article/"); got != "https://example.com/article" {
		t.Errorf("trailing slash: got %q", got)
	}
	if got := CanonicalURL("https://example.com/article#section-2"); got != "https://example.com/article" {
		t.Errorf("fragment: got %q", got)
	}
}

func TestCanonicalURLEquatesTrackingVariants(t *testing.T) {
	a := CanonicalURL("https://doombuds.com?utm_source=hn")
	b := CanonicalURL("https://www.doombuds.com/")
	if a != b {
		t.Errorf("variants not equal: %q vs %q", a, b)
	}
}

func TestCanonicalURLIdempotent(t *testing.T) {
	urls := []string{
		"https://www.example.com/article/?utm_source=x&id=1",
		"https://www.m.example.com/article",
		"https://example.com",
		"not a url at all",
		"",
	}
	for _, u := range urls {
		once := CanonicalURL(u)
		if twice := CanonicalURL(once); twice != once {
			t.Errorf("not idempotent for %q: %q -> %q", u, once, twice)
		}
	}
}

func TestCanonicalURLMalformedBestEffort(t *testing.T) {
	if got := CanonicalURL("  Not A URL  "); got != "not a url" {
		t.Errorf("malformed: got %q", got)
	}
	if got := CanonicalURL(""); got != "" {
		t.Errorf("empty: got %q", got)
	}
}
