// Package diff compares two runs' story lists. It is a pure function over
// its inputs: the caller supplies the previous run's snapshot.
package diff

import (
	"sort"

	"github.com/kwestin/newsdesk/internal/news"
)

const maxRankChanges = 10

// Entry is a story reference inside a diff.
type Entry struct {
	Title   string   `json:"title"`
	URL     string   `json:"url"`
	Rank    int      `json:"rank"`
	Sources []string `json:"sources,omitempty"`
}

// RankChange records a story present in both runs at different positions.
type RankChange struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	OldRank int    `json:"old_rank"`
	NewRank int    `json:"new_rank"`
	Change  int    `json:"change"` // positive = moved up
}

// Summary gives the headline counts of a diff.
type Summary struct {
	NewCount     int `json:"new_count"`
	DroppedCount int `json:"dropped_count"`
	ChangedCount int `json:"changed_count"`
}

// Diff is the result of comparing a previous run to the current one.
type Diff struct {
	New         []Entry      `json:"new_stories"`
	Dropped     []Entry      `json:"dropped_stories"`
	RankChanges []RankChange `json:"rank_changes"`
	Summary     Summary      `json:"summary"`
}

// Compute diffs the current run against the previous one. Stories are
// matched by URL, falling back to title for stories without one. Rank
// changes are reported largest movement first, capped at 10.
func Compute(previous, current []*news.Story) *Diff {
	prevRank := indexByKey(previous)
	curKeys := make(map[string]struct{}, len(current))

	d := &Diff{}

	for i, s := range current {
		key := storyKey(s)
		curKeys[key] = struct{}{}

		oldRank, existed := prevRank[key]
		if !existed {
			d.New = append(d.New, Entry{Title: s.Title, URL: s.URL, Rank: i + 1, Sources: s.Sources})
			continue
		}
		if oldRank != i {
			d.RankChanges = append(d.RankChanges, RankChange{
				Title:   s.Title,
				URL:     s.URL,
				OldRank: oldRank + 1,
				NewRank: i + 1,
				Change:  oldRank - i,
			})
		}
	}

	for i, s := range previous {
		if _, still := curKeys[storyKey(s)]; !still {
			d.Dropped = append(d.Dropped, Entry{Title: s.Title, URL: s.URL, Rank: i + 1, Sources: s.Sources})
		}
	}

	d.Summary = Summary{
		NewCount:     len(d.New),
		DroppedCount: len(d.Dropped),
		ChangedCount: len(d.RankChanges),
	}

	sort.SliceStable(d.RankChanges, func(i, j int) bool {
		return abs(d.RankChanges[i].Change) > abs(d.RankChanges[j].Change)
	})
	if len(d.RankChanges) > maxRankChanges {
		d.RankChanges = d.RankChanges[:maxRankChanges]
	}

	return d
}

func indexByKey(stories []*news.Story) map[string]int {
	m := make(map[string]int, len(stories))
	for i, s := range stories {
		m[storyKey(s)] = i
	}
	return m
}

func storyKey(s *news.Story) string {
	if s.URL != "" {
		return s.URL
	}
	return s.Title
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
