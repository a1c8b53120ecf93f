package news

import "time"

// RawItem is one fetched entry from a single source, pre-normalization.
// Time and Heat are kept as the source reported them ("2 hours ago",
// "227 points"); parsing happens downstream.
type RawItem struct {
	SourceID string `json:"source_id,omitempty"`
	Source   string `json:"source"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Time     string `json:"time,omitempty"`
	Heat     string `json:"heat,omitempty"`
	Content  string `json:"content,omitempty"`
}

// Story is a merged cluster of items believed to represent one real-world
// story, with multi-source attribution.
type Story struct {
	Title       string            `json:"title"`
	URL         string            `json:"url"`
	Sources     []string          `json:"sources"`
	SourceCount int               `json:"source_count"`
	Heat        map[string]string `json:"heat"`
	Time        string            `json:"time"`
	TimeISO     string            `json:"time_iso,omitempty"`
	Content     string            `json:"content,omitempty"`

	// EarliestAt is the parsed form of Time, zero when unparseable.
	// Score is recomputed each run by the ranker. Neither is serialized.
	EarliestAt time.Time `json:"-"`
	Score      float64   `json:"-"`
}

// Meta summarizes a single aggregation run.
type Meta struct {
	FetchedAt        string `json:"fetched_at"`
	SourcesScanned   int    `json:"sources_scanned"`
	RawItems         int    `json:"raw_items"`
	AfterDedup       int    `json:"after_dedup"`
	DuplicatesMerged int    `json:"duplicates_merged"`
	ItemsDiscarded   int    `json:"items_discarded,omitempty"`
}

// Result is the serialized output of a run: stories ordered by score.
type Result struct {
	Meta    Meta     `json:"meta"`
	Stories []*Story `json:"stories"`
}

// Key returns the heat-map key for the item: the source ID when the
// collector provided one, else a key derived from the display name.
func (it RawItem) Key() string {
	if it.SourceID != "" {
		return it.SourceID
	}
	return SourceKey(it.Source)
}

// SourceKey converts a display source name into a heat-map key:
// "Reddit r/technology" -> "reddit_r_technology".
func SourceKey(source string) string {
	key := make([]rune, 0, len(source))
	for _, r := range source {
		switch {
		case r >= 'A' && r <= 'Z':
			key = append(key, r+('a'-'A'))
		case r == ' ' || r == '/':
			key = append(key, '_')
		default:
			key = append(key, r)
		}
	}
	return string(key)
}
