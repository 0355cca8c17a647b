package news

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/hoanghai1803/newswire/internal/models"
	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"
)

const rssTimeout = 30 * time.Second

// rssRegion tags articles that arrived via RSS instead of a provider region.
const rssRegion = "rss"

// RSSFetcher pulls articles from configured RSS/Atom feeds and maps them
// into the same shape the headline provider produces, so they flow through
// the identical normalize, cluster, and persist path. Feed-level failures
// are absorbed the same way region failures are.
type RSSFetcher struct {
	urls   []string
	client *http.Client
}

// NewRSSFetcher creates an RSSFetcher over the given feed URLs.
func NewRSSFetcher(urls []string) *RSSFetcher {
	return &RSSFetcher{
		urls: urls,
		client: &http.Client{
			Timeout: rssTimeout,
		},
	}
}

// FetchAll fetches every configured feed concurrently and merges the items
// into one article list. Individual feed failures are logged and collected
// in Result.Failed rather than failing the batch.
func (r *RSSFetcher) FetchAll(ctx context.Context, category string, maxPerFeed int) (*Result, error) {
	if len(r.urls) == 0 {
		return &Result{}, nil
	}
	if maxPerFeed <= 0 {
		maxPerFeed = 5
	}

	perFeed := make([][]models.Article, len(r.urls))
	var (
		mu     sync.Mutex
		failed []FailedRegion
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentRegions)

	for i, feedURL := range r.urls {
		g.Go(func() error {
			articles, err := r.fetchFeed(ctx, feedURL, category, maxPerFeed)
			if err != nil {
				slog.Warn("rss fetch failed", "url", feedURL, "error", err)

				mu.Lock()
				failed = append(failed, FailedRegion{Region: feedURL, Error: err.Error()})
				mu.Unlock()

				return nil
			}

			perFeed[i] = articles
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{Failed: failed}
	for _, articles := range perFeed {
		result.Articles = append(result.Articles, articles...)
	}
	return result, nil
}

// fetchFeed parses a single feed and converts its items.
func (r *RSSFetcher) fetchFeed(ctx context.Context, feedURL, category string, maxItems int) ([]models.Article, error) {
	fp := gofeed.NewParser()
	fp.Client = r.client

	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parsing feed %q: %w", feedURL, err)
	}

	sourceName := feed.Title
	if sourceName == "" {
		sourceName = feedURL
	}

	var articles []models.Article
	for _, item := range feed.Items {
		if item.Title == "" || item.Link == "" {
			continue
		}

		publishedAt := time.Now().UTC()
		if item.PublishedParsed != nil {
			publishedAt = item.PublishedParsed.UTC()
		}

		articles = append(articles, models.Article{
			Title:       item.Title,
			Description: item.Description,
			URL:         item.Link,
			PublishedAt: publishedAt,
			SourceID:    ResolveSourceID("", sourceName),
			SourceName:  sourceName,
			Country:     rssRegion,
			Category:    category,
		})
		if len(articles) == maxItems {
			break
		}
	}
	return articles, nil
}
