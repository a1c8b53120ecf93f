// Package collect pulls raw headlines from the configured sources:
// RSS/Atom feeds, the Hacker News front page, and Reddit subreddits.
package collect

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/kwestin/newsdesk/internal/cache"
	"github.com/kwestin/newsdesk/internal/config"
	"github.com/kwestin/newsdesk/internal/news"
)

const defaultSourceLimit = 25

// Fetcher fetches raw items from a single source.
type Fetcher interface {
	ID() string
	Name() string
	Fetch(ctx context.Context, client *http.Client) ([]news.RawItem, error)
}

// Collector orchestrates fetching from all configured sources.
type Collector struct {
	fetchers []Fetcher
	client   *http.Client
	cache    *cache.Cache
}

// NewCollector builds a collector from config. The cache may be nil,
// in which case every run hits the network.
func NewCollector(cfg *config.Config, c *cache.Cache) *Collector {
	var fetchers []Fetcher
	for _, s := range cfg.Sources {
		limit := s.Limit
		if limit <= 0 {
			limit = defaultSourceLimit
		}

		switch s.Type {
		case "rss":
			fetchers = append(fetchers, NewFeedFetcher(s.ID, s.Name, s.URL, limit))
		case "hackernews":
			fetchers = append(fetchers, NewHackerNewsFetcher(s.ID, s.Name, limit))
		case "reddit":
			fetchers = append(fetchers, NewRedditFetcher(s.ID, s.Name, s.Subreddit, limit))
		case "newsapi":
			keyEnv := s.APIKeyEnv
			if keyEnv == "" {
				keyEnv = "NEWSAPI_KEY"
			}
			fetchers = append(fetchers, NewNewsAPIFetcher(s.ID, s.Name, s.Query, keyEnv, limit))
		default:
			log.Printf("Skipping source %s: unknown type %q", s.Name, s.Type)
		}
	}

	return &Collector{
		fetchers: fetchers,
		client:   &http.Client{Timeout: 30 * time.Second},
		cache:    c,
	}
}

// Collect fetches all sources concurrently and returns the raw items in
// configured source order, plus the number of sources scanned.
func (c *Collector) Collect(ctx context.Context, now time.Time) ([]news.RawItem, int) {
	batches := make([][]news.RawItem, len(c.fetchers))

	var wg sync.WaitGroup
	for i, f := range c.fetchers {
		wg.Add(1)
		go func(i int, f Fetcher) {
			defer wg.Done()
			batches[i] = c.fetchSource(ctx, f, now)
		}(i, f)
	}
	wg.Wait()

	var all []news.RawItem
	for _, batch := range batches {
		all = append(all, batch...)
	}
	return all, len(c.fetchers)
}

func (c *Collector) fetchSource(ctx context.Context, f Fetcher, now time.Time) []news.RawItem {
	if c.cache != nil {
		if items, ok := c.cache.Get(f.ID(), now); ok {
			log.Printf("Using cached items for %s (%d items)", f.Name(), len(items))
			return items
		}
	}

	items, err := f.Fetch(ctx, c.client)
	if err != nil {
		log.Printf("Failed to fetch %s: %v", f.Name(), err)
		return nil
	}
	log.Printf("Fetched %d items from %s", len(items), f.Name())

	if c.cache != nil && len(items) > 0 {
		if err := c.cache.Set(f.ID(), items, now); err != nil {
			log.Printf("Failed to cache %s: %v", f.Name(), err)
		}
	}
	return items
}
