package diff

import (
	"testing"

	"github.com/kwestin/newsdesk/internal/news"
)

func story(title, url string) *news.Story {
	return &news.Story{Title: title, URL: url, Sources: []string{"BBC"}, SourceCount: 1}
}

func TestComputeNewAndDropped(t *testing.T) {
	current := []*news.Story{
		story("Story A", "http://a.com"),
		story("Story B", "http://b.com"),
		story("Story C", "http://c.com"),
	}
	previous := []*news.Story{
		story("Story B", "http://b.com"),
		story("Story D", "http://d.com"),
	}

	d := Compute(previous, current)

	if len(d.New) != 2 {
		t.Errorf("new = %d, want 2", len(d.New))
	}
	if len(d.Dropped) != 1 || d.Dropped[0].URL != "http://d.com" {
		t.Errorf("dropped = %+v, want story D", d.Dropped)
	}
	if d.Summary.NewCount != 2 || d.Summary.DroppedCount != 1 {
		t.Errorf("summary = %+v", d.Summary)
	}
}

func TestComputeRankChanges(t *testing.T) {
	previous := []*news.Story{
		story("A", "http://a.com"),
		story("B", "http://b.com"),
		story("C", "http://c.com"),
	}
	current := []*news.Story{
		story("C", "http://c.com"),
		story("A", "http://a.com"),
		story("B", "http://b.com"),
	}

	d := Compute(previous, current)

	if len(d.RankChanges) != 3 {
		t.Fatalf("rank changes = %d, want 3", len(d.RankChanges))
	}
	// C moved 3 -> 1, the largest move, so it is reported first.
	if d.RankChanges[0].URL != "http://c.com" || d.RankChanges[0].Change != 2 {
		t.Errorf("top change = %+v, want C up 2", d.RankChanges[0])
	}
	if d.RankChanges[0].OldRank != 3 || d.RankChanges[0].NewRank != 1 {
		t.Errorf("ranks = %d -> %d, want 3 -> 1", d.RankChanges[0].OldRank, d.RankChanges[0].NewRank)
	}
}

func TestComputeIdenticalRuns(t *testing.T) {
	run := []*news.Story{story("A", "http://a.com"), story("B", "http://b.com")}
	d := Compute(run, run)
	if len(d.New) != 0 || len(d.Dropped) != 0 || len(d.RankChanges) != 0 {
		t.Errorf("identical runs: %+v", d)
	}
}

func TestComputeFallsBackToTitleKey(t *testing.T) {
	previous := []*news.Story{story("Untitled but same", "")}
	current := []*news.Story{story("Untitled but same", "")}
	d := Compute(previous, current)
	if len(d.New) != 0 || len(d.Dropped) != 0 {
		t.Errorf("title-keyed stories should match: %+v", d)
	}
}
