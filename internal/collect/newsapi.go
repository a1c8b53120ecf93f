package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/kwestin/newsdesk/internal/news"
)

const newsAPIBaseURL = "https://newsapi.org/v2/everything"

// NewsAPIFetcher searches NewsAPI for a query. It needs an API key in
// the environment and silently yields nothing without one.
type NewsAPIFetcher struct {
	id     string
	name   string
	query  string
	apiKey string
	limit  int
}

// NewNewsAPIFetcher creates a NewsAPI search fetcher. The key is read
// from the named environment variable.
func NewNewsAPIFetcher(id, name, query, apiKeyEnv string, limit int) *NewsAPIFetcher {
	return &NewsAPIFetcher{
		id:     id,
		name:   name,
		query:  query,
		apiKey: os.Getenv(apiKeyEnv),
		limit:  limit,
	}
}

func (f *NewsAPIFetcher) ID() string   { return f.id }
func (f *NewsAPIFetcher) Name() string { return f.name }

// IsConfigured returns whether the API key is available.
func (f *NewsAPIFetcher) IsConfigured() bool {
	return f.apiKey != ""
}

func (f *NewsAPIFetcher) Fetch(ctx context.Context, client *http.Client) ([]news.RawItem, error) {
	if f.apiKey == "" {
		return nil, nil
	}

	limit := f.limit
	if limit > 100 {
		limit = 100
	}

	params := url.Values{
		"q":        {f.query},
		"from":     {time.Now().AddDate(0, 0, -1).Format("2006-01-02")},
		"language": {"en"},
		"pageSize": {fmt.Sprintf("%d", limit)},
		"sortBy":   {"publishedAt"},
	}

	req, err := http.NewRequestWithContext(ctx, "GET", newsAPIBaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Api-Key", f.apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("newsapi HTTP %d", resp.StatusCode)
	}

	var result struct {
		Status   string `json:"status"`
		Articles []struct {
			URL         string `json:"url"`
			Title       string `json:"title"`
			PublishedAt string `json:"publishedAt"`
			Description string `json:"description"`
			Source      struct {
				Name string `json:"name"`
			} `json:"source"`
		} `json:"articles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding newsapi response: %w", err)
	}
	if result.Status != "ok" {
		return nil, fmt.Errorf("newsapi status %q", result.Status)
	}

	var items []news.RawItem
	for _, a := range result.Articles {
		if a.URL == "" || a.Title == "" {
			continue
		}
		if a.Title == "[Removed]" || a.URL == "https://removed.com" {
			continue
		}

		items = append(items, news.RawItem{
			SourceID: f.id,
			Source:   f.name,
			Title:    strings.TrimSpace(a.Title),
			URL:      a.URL,
			Time:     a.PublishedAt,
			Content:  strings.TrimSpace(a.Description),
		})
	}
	return items, nil
}
