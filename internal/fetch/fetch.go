// Package fetch enriches raw items with full article text for deep
// mode, using readability extraction over plain HTTP.
package fetch

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	readability "github.com/go-shiori/go-readability"

	"github.com/kwestin/newsdesk/internal/news"
)

const minContentChars = 100

// Result holds the results of an enrichment run.
type Result struct {
	Fetched           int
	AlreadyHadContent int
	Failed            int
}

// Enricher fetches full article text via HTTP + readability extraction.
type Enricher struct {
	client  *http.Client
	workers int
}

// NewEnricher creates an enricher with a worker pool of the given size.
func NewEnricher(workers int, timeout time.Duration) *Enricher {
	if workers <= 0 {
		workers = 4
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Enricher{
		workers: workers,
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
	}
}

// Enrich fills in Content for items that lack it, in place. Items that
// already carry content are left alone. Domains that fail once are
// skipped for the rest of the run.
func (e *Enricher) Enrich(ctx context.Context, items []news.RawItem) *Result {
	result := &Result{}

	var mu sync.Mutex
	failedDomains := make(map[string]struct{})

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				item := &items[i]

				domain := itemDomain(item.URL)
				mu.Lock()
				_, skip := failedDomains[domain]
				mu.Unlock()
				if skip {
					mu.Lock()
					result.Failed++
					mu.Unlock()
					continue
				}

				content, httpErr := e.fetchContent(ctx, item.URL)
				mu.Lock()
				if httpErr != nil {
					result.Failed++
					if domain != "" {
						failedDomains[domain] = struct{}{}
					}
					log.Printf("HTTP error for %s, skipping remaining from %s", item.URL, domain)
				} else if content != "" {
					item.Content = content
					result.Fetched++
				} else {
					result.Failed++
				}
				mu.Unlock()
			}
		}()
	}

	for i := range items {
		if items[i].Content != "" {
			result.AlreadyHadContent++
			continue
		}
		if items[i].URL == "" {
			result.Failed++
			continue
		}
		select {
		case jobs <- i:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return result
		}
	}
	close(jobs)
	wg.Wait()

	log.Printf("Content fetch complete: %d fetched, %d failed, %d already had content",
		result.Fetched, result.Failed, result.AlreadyHadContent)
	return result
}

func (e *Enricher) fetchContent(ctx context.Context, articleURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", articleURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "newsdesk/1.0 (news aggregation)")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", nil // connection error, not HTTP error
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", &httpError{code: resp.StatusCode}
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil
	}

	parsedURL, _ := url.Parse(articleURL)
	article, err := readability.FromReader(strings.NewReader(string(bodyBytes)), parsedURL)
	if err != nil {
		return "", nil
	}

	text := strings.TrimSpace(article.TextContent)
	if len(text) > minContentChars {
		return text, nil
	}
	return "", nil
}

func itemDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}

type httpError struct {
	code int
}

func (e *httpError) Error() string {
	return http.StatusText(e.code)
}
