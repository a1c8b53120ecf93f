package dedup

import (
	"strings"
	"time"

	"github.com/kwestin/newsdesk/internal/news"
)

// aggregatorDomains are discussion platforms whose links point at a
// conversation about a story rather than the story itself.
var aggregatorDomains = []string{"reddit.com", "news.ycombinator.com", "lobste.rs"}

// Merge collapses one cluster into a single story. All tie-breaks use
// first-seen order, so the result is deterministic for a fixed input order.
func Merge(cluster []*Item, opts Options) *news.Story {
	story := &news.Story{
		Heat: make(map[string]string, len(cluster)),
	}

	var (
		bestTitle   string
		bestContent string
		earliest    time.Time
		earliestRaw string
		timeKnown   bool
		seen        = map[string]struct{}{}
	)

	for _, it := range cluster {
		if len(it.Raw.Title) > len(bestTitle) {
			bestTitle = it.Raw.Title
		}

		source := it.Raw.Source
		if source == "" {
			source = "Unknown"
		}
		if _, ok := seen[source]; !ok {
			seen[source] = struct{}{}
			story.Sources = append(story.Sources, source)
		}
		// Same source appearing twice: the later occurrence wins.
		story.Heat[it.Raw.Key()] = it.Raw.Heat

		if it.TimeKnown && (!timeKnown || it.PublishedAt.Before(earliest)) {
			timeKnown = true
			earliest = it.PublishedAt
			earliestRaw = it.Raw.Time
		}

		if opts.DeepMode && len(it.Raw.Content) > len(bestContent) {
			bestContent = it.Raw.Content
		}
	}

	story.Title = bestTitle
	story.URL = pickURL(cluster)
	story.SourceCount = len(story.Sources)
	story.Content = bestContent

	if timeKnown {
		story.Time = earliestRaw
		story.TimeISO = earliest.Format(time.RFC3339)
		story.EarliestAt = earliest
	} else {
		story.Time = cluster[0].Raw.Time
	}

	return story
}

// pickURL prefers the first item linking an original publisher domain over
// discussion-platform links; when every member is an aggregator link it
// falls back to the canonical URL of the first-seen item.
func pickURL(cluster []*Item) string {
	for _, it := range cluster {
		if !isAggregatorURL(it.CanonicalURL) {
			return it.Raw.URL
		}
	}
	return cluster[0].CanonicalURL
}

func isAggregatorURL(canonical string) bool {
	for _, domain := range aggregatorDomains {
		if strings.Contains(canonical, domain) {
			return true
		}
	}
	return false
}
