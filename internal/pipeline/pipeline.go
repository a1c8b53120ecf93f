// Package pipeline wires collection, enrichment, deduplication,
// ranking, and diffing into a single run.
package pipeline

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/kwestin/newsdesk/internal/cache"
	"github.com/kwestin/newsdesk/internal/collect"
	"github.com/kwestin/newsdesk/internal/config"
	"github.com/kwestin/newsdesk/internal/dedup"
	"github.com/kwestin/newsdesk/internal/diff"
	"github.com/kwestin/newsdesk/internal/fetch"
	"github.com/kwestin/newsdesk/internal/news"
	"github.com/kwestin/newsdesk/internal/rank"
)

// RunOptions control one pipeline run.
type RunOptions struct {
	Deep    bool
	NoDedup bool
	Diff    bool
	Limit   int
	Keyword string
	Now     time.Time
}

// RunOutput is the outcome of a pipeline run.
type RunOutput struct {
	Result *news.Result
	Diff   *diff.Diff
}

// Pipeline orchestrates a full fetch-aggregate-snapshot run.
type Pipeline struct {
	cfg   *config.Config
	cache *cache.Cache
}

// New creates a pipeline. The cache may be nil for snapshot-free runs.
func New(cfg *config.Config, c *cache.Cache) *Pipeline {
	return &Pipeline{cfg: cfg, cache: c}
}

// Run collects from all sources, aggregates, and saves a snapshot for
// the next diff. Collection failures degrade to fewer items, never to
// an aborted run.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (*RunOutput, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	collector := collect.NewCollector(p.cfg, p.cache)
	raws, scanned := collector.Collect(ctx, now)

	if opts.Keyword != "" {
		raws = filterKeyword(raws, opts.Keyword)
		log.Printf("Keyword %q matched %d items", opts.Keyword, len(raws))
	}

	deep := opts.Deep || p.cfg.Deep.Enabled
	if deep {
		enricher := fetch.NewEnricher(p.cfg.Deep.MaxWorkers, time.Duration(p.cfg.Deep.TimeoutSeconds)*time.Second)
		enricher.Enrich(ctx, raws)
	}

	result := Aggregate(raws, AggregateOptions{
		Dedup:          !opts.NoDedup && p.cfg.Dedup.Enabled,
		DeepMode:       deep,
		TitleThreshold: p.cfg.Dedup.TitleThreshold,
		SourcesScanned: scanned,
		Limit:          opts.Limit,
		Now:            now,
	})

	out := &RunOutput{Result: result}
	runID := runID(opts.Keyword)

	if p.cache != nil {
		if opts.Diff {
			previous, err := p.cache.LastRun(runID)
			if err != nil {
				log.Printf("Failed to load previous run: %v", err)
			} else if previous != nil {
				out.Diff = diff.Compute(previous.Stories, result.Stories)
			}
		}
		if err := p.cache.SaveLastRun(runID, result, now); err != nil {
			log.Printf("Failed to save run snapshot: %v", err)
		}
	}

	return out, nil
}

// AggregateOptions control the pure aggregation step.
type AggregateOptions struct {
	Dedup          bool
	DeepMode       bool
	TitleThreshold float64
	SourcesScanned int
	Limit          int
	Now            time.Time
}

// Aggregate turns raw items into the final deduplicated, ranked
// result. It is pure: same input and clock, same output.
func Aggregate(raws []news.RawItem, opts AggregateOptions) *news.Result {
	dopts := dedup.DefaultOptions(opts.Now)
	dopts.Enabled = opts.Dedup
	dopts.DeepMode = opts.DeepMode
	if opts.TitleThreshold > 0 {
		dopts.TitleThreshold = opts.TitleThreshold
	}

	stories, stats := dedup.Deduplicate(raws, dopts)
	rank.Rank(stories, opts.Now)

	if opts.Limit > 0 && len(stories) > opts.Limit {
		stories = stories[:opts.Limit]
	}
	if stories == nil {
		// The output contract always carries a stories array.
		stories = []*news.Story{}
	}

	return &news.Result{
		Meta: news.Meta{
			FetchedAt:        opts.Now.UTC().Format(time.RFC3339),
			SourcesScanned:   opts.SourcesScanned,
			RawItems:         stats.RawItems,
			AfterDedup:       stats.AfterDedup,
			DuplicatesMerged: stats.DuplicatesMerged,
			ItemsDiscarded:   stats.ItemsDiscarded,
		},
		Stories: stories,
	}
}

func filterKeyword(raws []news.RawItem, keyword string) []news.RawItem {
	needle := strings.ToLower(keyword)
	var kept []news.RawItem
	for _, r := range raws {
		if strings.Contains(strings.ToLower(r.Title), needle) ||
			strings.Contains(strings.ToLower(r.Content), needle) {
			kept = append(kept, r)
		}
	}
	return kept
}

func runID(keyword string) string {
	if keyword == "" {
		return "default"
	}
	return "kw_" + news.SourceKey(keyword)
}
