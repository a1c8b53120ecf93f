package normalize

import (
	"strings"
	"testing"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"DOOM Ported", "doom ported"},
		{"Hello, World!", "hello world"},
		{"Hello    World", "hello world"},
		{"Breaking: Big News", "big news"},
		{"Update: More Info", "more info"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeTitle(tt.in); got != tt.want {
			t.Errorf("NormalizeTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeTitleStripsSourceDecorations(t *testing.T) {
	if got := NormalizeTitle("Great Article - Hacker News"); strings.Contains(got, "hacker news") {
		t.Errorf("suffix not stripped: %q", got)
	}
	if got := NormalizeTitle("Cool Post : r/technology"); strings.Contains(got, "technology") {
		t.Errorf("subreddit suffix not stripped: %q", got)
	}
	if got := NormalizeTitle("News Article [Breaking]"); strings.Contains(got, "breaking") {
		t.Errorf("bracket suffix not stripped: %q", got)
	}
}

func TestTitleSimilarity(t *testing.T) {
	if sim := TitleSimilarity("Hello World", "Hello World"); sim != 1.0 {
		t.Errorf("identical titles: sim = %v, want 1.0", sim)
	}
	if sim := TitleSimilarity("Hello World", "HELLO WORLD"); sim != 1.0 {
		t.Errorf("case-insensitive: sim = %v, want 1.0", sim)
	}
	if sim := TitleSimilarity("DOOM Ported to an Earbud", "DOOM Running on an Earbud"); sim < 0.7 {
		t.Errorf("similar titles: sim = %v, want >= 0.7", sim)
	}
	if sim := TitleSimilarity("Apple Announces iPhone", "Microsoft Releases Windows"); sim >= 0.5 {
		t.Errorf("different titles: sim = %v, want < 0.5", sim)
	}
	if sim := TitleSimilarity("Great Article - Hacker News", "Great Article"); sim < 0.9 {
		t.Errorf("suffix-stripped titles: sim = %v, want >= 0.9", sim)
	}
	if sim := TitleSimilarity("", "Hello"); sim != 0 {
		t.Errorf("empty title: sim = %v, want 0", sim)
	}
}

func TestTitleSimilaritySymmetric(t *testing.T) {
	pairs := [][2]string{
		{"DOOM Ported to an Earbud", "DOOM Running on an Earbud"},
		{"Fed Holds Rates", "Fed Holds Interest Rates Steady"},
		{"abc", "xyz"},
	}
	for _, p := range pairs {
		ab := TitleSimilarity(p[0], p[1])
		ba := TitleSimilarity(p[1], p[0])
		if ab != ba {
			t.Errorf("asymmetric: sim(%q,%q)=%v, sim(%q,%q)=%v", p[0], p[1], ab, p[1], p[0], ba)
		}
	}
}

func TestTitleEqualThresholdInclusive(t *testing.T) {
	// "aaaa" vs "aaab": longest common substring "aaa" (3 runes),
	// no further matches, so ratio = 2*3/8 = 0.75 exactly.
	a, b := "aaaa", "aaab"
	if sim := TitleSimilarity(a, b); sim != 0.75 {
		t.Fatalf("sim = %v, want 0.75", sim)
	}
	if !TitleEqual(a, b, 0.75) {
		t.Error("ratio equal to threshold must match")
	}
	if TitleEqual(a, b, 0.7501) {
		t.Error("ratio below threshold must not match")
	}
}

func TestRatioKnownValues(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"abcd", "abcd", 1.0},
		{"abcd", "efgh", 0.0},
		{"abcd", "bcde", 0.75}, // common "bcd"
	}
	for _, tt := range tests {
		if got := ratio([]rune(tt.a), []rune(tt.b)); got != tt.want {
			t.Errorf("ratio(%q,%q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
