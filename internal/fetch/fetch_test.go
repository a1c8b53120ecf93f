package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kwestin/newsdesk/internal/news"
)

const articleHTML = `<html><head><title>Test</title></head><body>
<article><p>` + "This is the body of a long enough article for extraction. " +
	"It keeps going with several sentences so the readability pass has real content to keep. " +
	"A bit more text pushes it safely past the minimum length gate." + `</p></article>
</body></html>`

func TestEnrichFillsMissingContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(articleHTML))
	}))
	defer srv.Close()

	items := []news.RawItem{
		{Title: "Needs content", URL: srv.URL + "/a"},
		{Title: "Has content", URL: srv.URL + "/b", Content: "already here"},
	}

	e := NewEnricher(2, 5*time.Second)
	e.client = srv.Client()
	result := e.Enrich(context.Background(), items)

	if result.Fetched != 1 {
		t.Errorf("fetched = %d, want 1", result.Fetched)
	}
	if result.AlreadyHadContent != 1 {
		t.Errorf("already had = %d, want 1", result.AlreadyHadContent)
	}
	if !strings.Contains(items[0].Content, "long enough article") {
		t.Errorf("content not filled: %q", items[0].Content)
	}
	if items[1].Content != "already here" {
		t.Errorf("existing content clobbered: %q", items[1].Content)
	}
}

func TestEnrichCountsHTTPFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	items := []news.RawItem{{Title: "Missing", URL: srv.URL + "/gone"}}

	e := NewEnricher(1, 5*time.Second)
	e.client = srv.Client()
	result := e.Enrich(context.Background(), items)

	if result.Failed != 1 {
		t.Errorf("failed = %d, want 1", result.Failed)
	}
	if items[0].Content != "" {
		t.Errorf("content set despite failure: %q", items[0].Content)
	}
}

func TestEnrichSkipsShortExtraction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>too short</p></body></html>"))
	}))
	defer srv.Close()

	items := []news.RawItem{{Title: "Thin page", URL: srv.URL}}

	e := NewEnricher(1, 5*time.Second)
	e.client = srv.Client()
	result := e.Enrich(context.Background(), items)

	if result.Fetched != 0 || result.Failed != 1 {
		t.Errorf("result = %+v, want short extraction counted as failure", result)
	}
}
