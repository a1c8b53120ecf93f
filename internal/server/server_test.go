package server

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kwestin/newsdesk/internal/cache"
	"github.com/kwestin/newsdesk/internal/news"
)

func openTestCache(t *testing.T) *cache.Cache {
	t.Helper()
	c, err := cache.Open(filepath.Join(t.TempDir(), "test.db"), time.Hour)
	if err != nil {
		t.Fatalf("failed to open test cache: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func savedRun(t *testing.T, c *cache.Cache, runID string) {
	t.Helper()
	result := &news.Result{
		Meta: news.Meta{
			FetchedAt:      "2026-01-25T10:30:00Z",
			SourcesScanned: 3,
			RawItems:       12,
			AfterDedup:     10,
		},
		Stories: []*news.Story{
			{
				Title:       "DOOM Ported to an Earbud",
				URL:         "https://doombuds.com",
				Sources:     []string{"Hacker News", "Reddit r/technology"},
				SourceCount: 2,
				Heat:        map[string]string{"hackernews": "227 points"},
				Time:        "2026-01-25T08:00:00Z",
			},
		},
	}
	if err := c.SaveLastRun(runID, result, time.Now()); err != nil {
		t.Fatalf("failed to save run: %v", err)
	}
}

func TestIndexRoute(t *testing.T) {
	c := openTestCache(t)
	savedRun(t, c, "default")

	srv, err := New(c)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "/digest/default") {
		t.Error("expected run link in response body")
	}
}

func TestIndexEmpty(t *testing.T) {
	c := openTestCache(t)
	srv, err := New(c)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No digests yet") {
		t.Error("expected empty-state message")
	}
}

func TestDigestRoute(t *testing.T) {
	c := openTestCache(t)
	savedRun(t, c, "default")

	srv, err := New(c)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	req := httptest.NewRequest("GET", "/digest/default", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "DOOM Ported to an Earbud") {
		t.Error("expected story title in rendered digest")
	}
	// Markdown headings should come back as HTML.
	if !strings.Contains(body, "<h1") {
		t.Error("expected rendered markdown headings")
	}
}

func TestDigestNotFound(t *testing.T) {
	c := openTestCache(t)
	srv, err := New(c)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	req := httptest.NewRequest("GET", "/digest/missing", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestStaticRoute(t *testing.T) {
	c := openTestCache(t)
	srv, err := New(c)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	req := httptest.NewRequest("GET", "/static/style.css", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "font-sans") {
		t.Error("expected CSS content")
	}
}
