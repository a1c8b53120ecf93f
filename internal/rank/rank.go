package rank

import (
	"sort"
	"time"

	"github.com/kwestin/newsdesk/internal/news"
)

// Score computes the composite ranking score for one story:
//
//	source_count*100 + normalized_heat + recency_bonus
//
// Multi-source stories use the single best normalized heat across their
// sources, not a sum, so one story covered everywhere is not
// double-counted.
func Score(s *news.Story, fetchedAt time.Time) float64 {
	return float64(s.SourceCount)*100 + storyHeat(s) + RecencyBonus(s.EarliestAt, fetchedAt)
}

// RecencyBonus rewards stories first reported close to the run's fetch
// time: +20 within 2 hours, +10 within 6, else 0. An unknown (zero)
// timestamp earns nothing.
func RecencyBonus(earliest, fetchedAt time.Time) float64 {
	if earliest.IsZero() {
		return 0
	}
	age := fetchedAt.Sub(earliest)
	switch {
	case age < 2*time.Hour:
		return 20
	case age < 6*time.Hour:
		return 10
	default:
		return 0
	}
}

// Rank scores every story against the run's fetch time and sorts
// descending by score, ties broken by descending source count, then by
// earliest time. Stories with no known time sort after dated ones; the
// sort is stable so remaining ties keep first-seen order.
func Rank(stories []*news.Story, fetchedAt time.Time) {
	for _, s := range stories {
		s.Score = Score(s, fetchedAt)
	}

	sort.SliceStable(stories, func(i, j int) bool {
		a, b := stories[i], stories[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.SourceCount != b.SourceCount {
			return a.SourceCount > b.SourceCount
		}
		switch {
		case a.EarliestAt.IsZero():
			return false
		case b.EarliestAt.IsZero():
			return true
		default:
			return a.EarliestAt.Before(b.EarliestAt)
		}
	})
}

func storyHeat(s *news.Story) float64 {
	best := 0.0
	for sourceKey, heat := range s.Heat {
		normalized := NormalizeHeat(ParseHeat(heat), sourceKey)
		if normalized > best {
			best = normalized
		}
	}
	return best
}
