package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// DefaultTitleThreshold is the similarity ratio at or above which two
// titles are considered the same story.
const DefaultTitleThreshold = 0.70

// titleSuffixes strip source-name decorations news sites and aggregators
// append to headlines.
var titleSuffixes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s*[-–—|]\s*(hacker news|reddit|bbc.*|reuters|ap news|techcrunch|ars technica|the verge|bloomberg|yahoo finance|cnbc|github|product hunt).*$`),
	regexp.MustCompile(`\s*:\s*r/\w+$`),
	regexp.MustCompile(`\s*\[.*?\]$`),
}

var titlePrefixes = []string{"breaking:", "update:", "exclusive:", "live:", "watch:"}

// NormalizeTitle lowercases a headline, strips source suffixes and
// boilerplate prefixes, removes punctuation, and collapses whitespace.
func NormalizeTitle(title string) string {
	s := strings.ToLower(norm.NFKC.String(title))

	for _, re := range titleSuffixes {
		s = re.ReplaceAllString(s, "")
	}
	for _, prefix := range titlePrefixes {
		if rest, ok := strings.CutPrefix(s, prefix); ok {
			s = rest
			break
		}
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// TitleSimilarity returns a ratio in [0,1] between two titles after
// normalization. Either title normalizing to empty yields 0.
func TitleSimilarity(a, b string) float64 {
	na := NormalizeTitle(a)
	nb := NormalizeTitle(b)
	if na == "" || nb == "" {
		return 0
	}
	return ratio([]rune(na), []rune(nb))
}

// TitleEqual reports whether two titles meet the similarity threshold.
// The boundary is inclusive: a ratio of exactly threshold matches.
func TitleEqual(a, b string, threshold float64) bool {
	return TitleSimilarity(a, b) >= threshold
}

// ratio is the Ratcliff/Obershelp similarity: twice the number of matching
// characters over the total length. Matching characters are counted by
// finding the longest common substring and recursing on the pieces to its
// left and right.
func ratio(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 1
	}
	return 2 * float64(matchingRunes(a, b)) / float64(total)
}

func matchingRunes(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	ai, bi, size := longestCommonSubstring(a, b)
	if size == 0 {
		return 0
	}
	return size +
		matchingRunes(a[:ai], b[:bi]) +
		matchingRunes(a[ai+size:], b[bi+size:])
}

// longestCommonSubstring returns the start indices and length of the
// longest run of runes common to a and b. Earliest occurrence wins ties,
// mirroring difflib-style matching.
func longestCommonSubstring(a, b []rune) (ai, bi, size int) {
	// lengths[j] holds the common-suffix length ending at a[i-1], b[j-1].
	lengths := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		prev := 0
		for j := 1; j <= len(b); j++ {
			cur := lengths[j]
			if a[i-1] == b[j-1] {
				lengths[j] = prev + 1
				if lengths[j] > size {
					size = lengths[j]
					ai = i - size
					bi = j - size
				}
			} else {
				lengths[j] = 0
			}
			prev = cur
		}
	}
	return ai, bi, size
}
