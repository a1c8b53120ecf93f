// Package dedup groups items fetched from many sources into clusters that
// represent the same real-world story and merges each cluster into a single
// record with multi-source attribution.
package dedup

import (
	"fmt"
	"time"

	"github.com/kwestin/newsdesk/internal/news"
	"github.com/kwestin/newsdesk/internal/normalize"
	"github.com/kwestin/newsdesk/internal/timeparse"
)

// Options is the configuration surface of one aggregation run,
// supplied by the caller.
type Options struct {
	// TitleThreshold is the inclusive similarity ratio at which two
	// titles count as the same story.
	TitleThreshold float64

	// Enabled false bypasses clustering entirely: every item passes
	// through as its own singleton story.
	Enabled bool

	// DeepMode gates content fingerprinting.
	DeepMode bool

	// Now is the run's fetch time; relative timestamps and recency are
	// resolved against it so a run is deterministic.
	Now time.Time
}

// DefaultOptions returns the documented defaults.
func DefaultOptions(now time.Time) Options {
	return Options{
		TitleThreshold: normalize.DefaultTitleThreshold,
		Enabled:        true,
		Now:            now,
	}
}

// MalformedItemError reports a raw item missing a required field. Such
// items are dropped from the run and tallied, never clustered.
type MalformedItemError struct {
	Field  string
	Source string
}

func (e *MalformedItemError) Error() string {
	return fmt.Sprintf("malformed item from %q: missing %s", e.Source, e.Field)
}

// Item is a raw item plus the derived forms it is compared by.
type Item struct {
	Raw             news.RawItem
	CanonicalURL    string
	NormalizedTitle string
	ContentHash     string // empty unless deep mode and content present
	PublishedAt     time.Time
	TimeKnown       bool
}

// NormalizeItem derives the comparable forms of one raw item.
func NormalizeItem(raw news.RawItem, opts Options) (*Item, error) {
	if raw.Title == "" {
		return nil, &MalformedItemError{Field: "title", Source: raw.Source}
	}
	if raw.URL == "" {
		return nil, &MalformedItemError{Field: "url", Source: raw.Source}
	}

	it := &Item{
		Raw:             raw,
		CanonicalURL:    normalize.CanonicalURL(raw.URL),
		NormalizedTitle: normalize.NormalizeTitle(raw.Title),
	}
	if opts.DeepMode && raw.Content != "" {
		it.ContentHash = normalize.ContentHash(raw.Content)
	}
	it.PublishedAt, it.TimeKnown = timeparse.Parse(raw.Time, opts.Now)
	return it, nil
}

// NormalizeAll normalizes a batch, dropping malformed items.
// The second return is the discard tally.
func NormalizeAll(raws []news.RawItem, opts Options) ([]*Item, int) {
	items := make([]*Item, 0, len(raws))
	discarded := 0
	for _, raw := range raws {
		it, err := NormalizeItem(raw, opts)
		if err != nil {
			discarded++
			continue
		}
		items = append(items, it)
	}
	return items, discarded
}
