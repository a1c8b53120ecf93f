package collect

import (
	"context"
	"html"
	"net/http"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/kwestin/newsdesk/internal/news"
)

// FeedFetcher pulls items from one RSS/Atom feed.
type FeedFetcher struct {
	id    string
	name  string
	url   string
	limit int
}

// NewFeedFetcher creates a fetcher for a single feed URL.
func NewFeedFetcher(id, name, feedURL string, limit int) *FeedFetcher {
	return &FeedFetcher{id: id, name: name, url: feedURL, limit: limit}
}

func (f *FeedFetcher) ID() string   { return f.id }
func (f *FeedFetcher) Name() string { return f.name }

func (f *FeedFetcher) Fetch(ctx context.Context, client *http.Client) ([]news.RawItem, error) {
	parser := gofeed.NewParser()
	parser.Client = client

	feed, err := parser.ParseURLWithContext(f.url, ctx)
	if err != nil {
		return nil, err
	}

	var items []news.RawItem
	for _, item := range feed.Items {
		if len(items) >= f.limit {
			break
		}

		raw := f.parseItem(item)
		if raw == nil {
			continue
		}
		items = append(items, *raw)
	}
	return items, nil
}

func (f *FeedFetcher) parseItem(item *gofeed.Item) *news.RawItem {
	itemURL := item.Link
	if itemURL == "" {
		itemURL = item.GUID
	}
	if itemURL == "" {
		return nil
	}

	title := strings.TrimSpace(item.Title)
	if title == "" {
		return nil
	}

	var published string
	if item.PublishedParsed != nil {
		published = item.PublishedParsed.UTC().Format("2006-01-02T15:04:05Z07:00")
	} else if item.Published != "" {
		published = item.Published
	} else if item.UpdatedParsed != nil {
		published = item.UpdatedParsed.UTC().Format("2006-01-02T15:04:05Z07:00")
	}

	var content string
	if item.Content != "" {
		content = stripHTML(item.Content)
	} else if item.Description != "" {
		content = stripHTML(item.Description)
	}

	return &news.RawItem{
		SourceID: f.id,
		Source:   f.name,
		Title:    title,
		URL:      itemURL,
		Time:     published,
		Content:  content,
	}
}

// stripHTML reduces feed markup to plain text: tags become spaces so
// adjacent elements don't run together, entities are decoded, and
// whitespace collapses to single spaces.
func stripHTML(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	for len(text) > 0 {
		open := strings.IndexByte(text, '<')
		if open < 0 {
			b.WriteString(text)
			break
		}
		b.WriteString(text[:open])
		b.WriteByte(' ')

		rest := text[open:]
		end := strings.IndexByte(rest, '>')
		if end < 0 {
			// Unterminated tag, drop the remainder.
			break
		}
		text = rest[end+1:]
	}

	return strings.Join(strings.Fields(html.UnescapeString(b.String())), " ")
}
