package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kwestin/newsdesk/internal/news"
)

const algoliaSearchURL = "https://hn.algolia.com/api/v1/search"

// HackerNewsFetcher pulls the Hacker News front page via the Algolia API.
type HackerNewsFetcher struct {
	id    string
	name  string
	limit int
}

// NewHackerNewsFetcher creates a front-page fetcher.
func NewHackerNewsFetcher(id, name string, limit int) *HackerNewsFetcher {
	return &HackerNewsFetcher{id: id, name: name, limit: limit}
}

func (f *HackerNewsFetcher) ID() string   { return f.id }
func (f *HackerNewsFetcher) Name() string { return f.name }

func (f *HackerNewsFetcher) Fetch(ctx context.Context, client *http.Client) ([]news.RawItem, error) {
	return f.fetchFrom(ctx, client, algoliaSearchURL)
}

func (f *HackerNewsFetcher) fetchFrom(ctx context.Context, client *http.Client, baseURL string) ([]news.RawItem, error) {
	params := url.Values{
		"tags":        {"front_page"},
		"hitsPerPage": {fmt.Sprintf("%d", f.limit)},
	}

	req, err := http.NewRequestWithContext(ctx, "GET", baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("algolia HTTP %d", resp.StatusCode)
	}

	var result struct {
		Hits []struct {
			Title     string    `json:"title"`
			URL       string    `json:"url"`
			Points    int       `json:"points"`
			ObjectID  string    `json:"objectID"`
			CreatedAt time.Time `json:"created_at"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding algolia response: %w", err)
	}

	var items []news.RawItem
	for _, hit := range result.Hits {
		title := strings.TrimSpace(hit.Title)
		if title == "" {
			continue
		}

		// Ask HN and Show HN posts have no external URL.
		itemURL := hit.URL
		if itemURL == "" {
			itemURL = "https://news.ycombinator.com/item?id=" + hit.ObjectID
		}

		var created string
		if !hit.CreatedAt.IsZero() {
			created = hit.CreatedAt.UTC().Format(time.RFC3339)
		}

		items = append(items, news.RawItem{
			SourceID: f.id,
			Source:   f.name,
			Title:    title,
			URL:      itemURL,
			Time:     created,
			Heat:     fmt.Sprintf("%d points", hit.Points),
		})
	}
	return items, nil
}
