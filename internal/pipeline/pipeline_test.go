package pipeline

import (
	"context"
	"encoding/json"
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kwestin/newsdesk/internal/cache"
	"github.com/kwestin/newsdesk/internal/config"
	"github.com/kwestin/newsdesk/internal/news"
)

var fetchedAt = time.Date(2026, 1, 25, 12, 0, 0, 0, time.UTC)

// Three raw items: the same earbud story seen on HN and Reddit under
// equivalent URLs, plus an unrelated BBC headline.
func doomBatch() []news.RawItem {
	return []news.RawItem{
		{
			SourceID: "hackernews",
			Source:   "Hacker News",
			Title:    "DOOM Ported to an Earbud",
			URL:      "https://doombuds.com/article?utm_source=hn",
			Time:     "2026-01-25T11:30:00Z",
			Heat:     "227 points",
		},
		{
			SourceID: "reddit_tech",
			Source:   "Reddit r/technology",
			Title:    "Someone got DOOM running on wireless earbuds",
			URL:      "https://www.doombuds.com/article/",
			Time:     "2026-01-25T11:00:00Z",
			Heat:     "5200 upvotes",
		},
		{
			SourceID: "bbc",
			Source:   "BBC News",
			Title:    "Parliament approves new budget measures",
			URL:      "https://bbc.com/news/budget-vote",
			Time:     "2026-01-25T11:45:00Z",
		},
	}
}

func TestAggregateEndToEnd(t *testing.T) {
	result := Aggregate(doomBatch(), AggregateOptions{
		Dedup:          true,
		TitleThreshold: 0.70,
		SourcesScanned: 3,
		Now:            fetchedAt,
	})

	if result.Meta.RawItems != 3 || result.Meta.AfterDedup != 2 || result.Meta.DuplicatesMerged != 1 {
		t.Fatalf("meta = %+v", result.Meta)
	}
	if result.Meta.FetchedAt != "2026-01-25T12:00:00Z" {
		t.Errorf("fetched_at = %q", result.Meta.FetchedAt)
	}
	if len(result.Stories) != 2 {
		t.Fatalf("stories = %d, want 2", len(result.Stories))
	}

	top := result.Stories[0]
	if top.SourceCount != 2 {
		t.Errorf("top source_count = %d, want 2", top.SourceCount)
	}
	if len(top.Sources) != 2 || top.Sources[0] != "Hacker News" || top.Sources[1] != "Reddit r/technology" {
		t.Errorf("top sources = %v", top.Sources)
	}
	if top.Heat["hackernews"] != "227 points" || top.Heat["reddit_tech"] != "5200 upvotes" {
		t.Errorf("top heat = %v", top.Heat)
	}
	if top.Title != "Someone got DOOM running on wireless earbuds" {
		t.Errorf("top title = %q, want longest", top.Title)
	}
	if !strings.Contains(top.URL, "doombuds.com") {
		t.Errorf("top url = %q", top.URL)
	}
	if top.Time != "2026-01-25T11:00:00Z" {
		t.Errorf("top time = %q, want earliest", top.Time)
	}

	// 2 sources * 100 + max(22.7, 10.4) + recency 20
	if math.Abs(top.Score-242.7) > 1e-9 {
		t.Errorf("top score = %v, want 242.7", top.Score)
	}

	// BBC: 100 + flat 50 + recency 20
	second := result.Stories[1]
	if second.Score != 170 {
		t.Errorf("second score = %v, want 170", second.Score)
	}
	if second.Sources[0] != "BBC News" {
		t.Errorf("second sources = %v", second.Sources)
	}
}

func TestAggregateDeterministic(t *testing.T) {
	opts := AggregateOptions{Dedup: true, SourcesScanned: 3, Now: fetchedAt}

	first, err := json.Marshal(Aggregate(doomBatch(), opts))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second, err := json.Marshal(Aggregate(doomBatch(), opts))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(first) != string(second) {
		t.Error("two runs over the same batch differ byte-for-byte")
	}
}

func TestAggregateDedupDisabled(t *testing.T) {
	result := Aggregate(doomBatch(), AggregateOptions{
		Dedup: false,
		Now:   fetchedAt,
	})
	if result.Meta.AfterDedup != result.Meta.RawItems {
		t.Errorf("after_dedup = %d, want %d", result.Meta.AfterDedup, result.Meta.RawItems)
	}
	if result.Meta.DuplicatesMerged != 0 {
		t.Errorf("duplicates_merged = %d, want 0", result.Meta.DuplicatesMerged)
	}
	if len(result.Stories) != 3 {
		t.Errorf("stories = %d, want 3 singletons", len(result.Stories))
	}
}

func TestAggregateLimit(t *testing.T) {
	result := Aggregate(doomBatch(), AggregateOptions{
		Dedup: true,
		Limit: 1,
		Now:   fetchedAt,
	})
	if len(result.Stories) != 1 {
		t.Errorf("stories = %d, want 1", len(result.Stories))
	}
	// Meta still reflects the full batch.
	if result.Meta.AfterDedup != 2 {
		t.Errorf("after_dedup = %d, want 2", result.Meta.AfterDedup)
	}
}

func TestFilterKeyword(t *testing.T) {
	kept := filterKeyword(doomBatch(), "doom")
	if len(kept) != 2 {
		t.Errorf("kept = %d, want 2", len(kept))
	}
	for _, r := range kept {
		if !strings.Contains(strings.ToLower(r.Title), "doom") {
			t.Errorf("unexpected item %q", r.Title)
		}
	}
}

func TestRunSavesSnapshotAndDiffs(t *testing.T) {
	c, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"), time.Hour)
	if err != nil {
		t.Fatalf("cache: %v", err)
	}
	defer c.Close()

	// No sources configured: the run aggregates an empty batch but
	// must still snapshot and produce a result.
	cfg := &config.Config{Dedup: config.Dedup{Enabled: true, TitleThreshold: 0.70}}
	p := New(cfg, c)

	out, err := p.Run(context.Background(), RunOptions{Now: fetchedAt})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.Result == nil || out.Diff != nil {
		t.Fatalf("first run output = %+v", out)
	}

	saved, err := c.LastRun("default")
	if err != nil || saved == nil {
		t.Fatalf("snapshot not saved: %v", err)
	}

	out, err = p.Run(context.Background(), RunOptions{Now: fetchedAt.Add(time.Hour), Diff: true})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if out.Diff == nil {
		t.Fatal("expected diff against previous snapshot")
	}
	if out.Diff.Summary.NewCount != 0 || out.Diff.Summary.DroppedCount != 0 {
		t.Errorf("diff = %+v, want empty", out.Diff.Summary)
	}
}
