package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kwestin/newsdesk/internal/news"
)

const redditUserAgent = "newsdesk/1.0 (news aggregation)"

// RedditFetcher pulls the daily top posts of one subreddit.
type RedditFetcher struct {
	id        string
	name      string
	subreddit string
	limit     int
}

// NewRedditFetcher creates a fetcher for a single subreddit.
func NewRedditFetcher(id, name, subreddit string, limit int) *RedditFetcher {
	return &RedditFetcher{id: id, name: name, subreddit: subreddit, limit: limit}
}

func (f *RedditFetcher) ID() string   { return f.id }
func (f *RedditFetcher) Name() string { return f.name }

func (f *RedditFetcher) Fetch(ctx context.Context, client *http.Client) ([]news.RawItem, error) {
	endpoint := fmt.Sprintf("https://www.reddit.com/r/%s/top.json?t=day&limit=%d", f.subreddit, f.limit)
	return f.fetchFrom(ctx, client, endpoint)
}

func (f *RedditFetcher) fetchFrom(ctx context.Context, client *http.Client, endpoint string) ([]news.RawItem, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	// Reddit rejects requests without a descriptive User-Agent.
	req.Header.Set("User-Agent", redditUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reddit HTTP %d", resp.StatusCode)
	}

	var result struct {
		Data struct {
			Children []struct {
				Data struct {
					Title      string  `json:"title"`
					URL        string  `json:"url"`
					Permalink  string  `json:"permalink"`
					Ups        int     `json:"ups"`
					CreatedUTC float64 `json:"created_utc"`
					Selftext   string  `json:"selftext"`
					Stickied   bool    `json:"stickied"`
				} `json:"data"`
			} `json:"children"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding reddit response: %w", err)
	}

	var items []news.RawItem
	for _, child := range result.Data.Children {
		post := child.Data
		if post.Stickied {
			continue
		}

		title := strings.TrimSpace(post.Title)
		if title == "" {
			continue
		}

		itemURL := post.URL
		if itemURL == "" && post.Permalink != "" {
			itemURL = "https://www.reddit.com" + post.Permalink
		}
		if itemURL == "" {
			continue
		}

		var created string
		if post.CreatedUTC > 0 {
			created = time.Unix(int64(post.CreatedUTC), 0).UTC().Format(time.RFC3339)
		}

		items = append(items, news.RawItem{
			SourceID: f.id,
			Source:   f.name,
			Title:    title,
			URL:      itemURL,
			Time:     created,
			Heat:     fmt.Sprintf("%d upvotes", post.Ups),
			Content:  strings.TrimSpace(post.Selftext),
		})
	}
	return items, nil
}
