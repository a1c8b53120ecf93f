package dedup

import (
	"github.com/kwestin/newsdesk/internal/news"
)

// Stats counts what one deduplication pass did.
type Stats struct {
	RawItems         int
	AfterDedup       int
	DuplicatesMerged int
	SourcesScanned   int
	ItemsDiscarded   int
}

// Deduplicate normalizes a raw batch, clusters duplicates, and merges each
// cluster into one story. Stories come back in first-seen cluster order,
// unranked; the ranker orders them.
//
// With Options.Enabled false the batch passes through untouched: each item
// becomes its own singleton story and no merging occurs.
func Deduplicate(raws []news.RawItem, opts Options) ([]*news.Story, Stats) {
	stats := Stats{
		RawItems:       len(raws),
		SourcesScanned: countSources(raws),
	}

	items, discarded := NormalizeAll(raws, opts)
	stats.ItemsDiscarded = discarded

	var clusters [][]*Item
	if opts.Enabled {
		clusters = Cluster(items, opts)
	} else {
		clusters = make([][]*Item, len(items))
		for i, it := range items {
			clusters[i] = []*Item{it}
		}
	}

	stories := make([]*news.Story, len(clusters))
	for i, c := range clusters {
		stories[i] = Merge(c, opts)
	}

	stats.AfterDedup = len(stories)
	// Discarded items count as merged away so that
	// duplicates_merged == raw_items - after_dedup always holds.
	stats.DuplicatesMerged = stats.RawItems - stats.AfterDedup
	return stories, stats
}

func countSources(raws []news.RawItem) int {
	seen := make(map[string]struct{}, len(raws))
	for _, r := range raws {
		seen[r.Source] = struct{}{}
	}
	return len(seen)
}
