package news

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hoanghai1803/newswire/internal/models"
	"golang.org/x/sync/errgroup"
)

// regions is the fixed, ordered set of diverse countries fetched per
// category. Only the first N are used, where N is the configured
// sources-per-topic fan-out (clamped to [1,10] by config, matching this
// list's length).
var regions = []string{"us", "gb", "de", "fr", "ca", "au", "in", "jp", "br", "za"}

// maxConcurrentRegions bounds the parallel per-region fetches. Region order
// has no semantic effect: topic keys are content-derived, and persistence is
// upsert-by-URL, so aggregation order cannot change the final state.
const maxConcurrentRegions = 10

// FailedRegion records a region whose fetch failed for one category.
type FailedRegion struct {
	Region string `json:"region"`
	Error  string `json:"error"`
}

// Result holds one category's merged articles and any per-region failures.
type Result struct {
	Articles []models.Article
	Failed   []FailedRegion
}

// HeadlineProvider is the slice of the provider client the fetcher needs.
type HeadlineProvider interface {
	TopHeadlines(ctx context.Context, p HeadlinesParams) (*Response, error)
}

// Fetcher retrieves and normalizes articles per (category, region) pair.
type Fetcher struct {
	provider HeadlineProvider
	pageSize int

	// now is swappable for tests of the timestamp fallback.
	now func() time.Time
}

// NewFetcher creates a Fetcher over the given provider. pageSize caps each
// per-region request; values <= 0 default to 5.
func NewFetcher(provider HeadlineProvider, pageSize int) *Fetcher {
	if pageSize <= 0 {
		pageSize = 5
	}
	return &Fetcher{
		provider: provider,
		pageSize: pageSize,
		now:      time.Now,
	}
}

// FetchCategory fetches up to n distinct-region result sets for one category
// and merges them into a single normalized article list.
//
// Per-region failures are logged and recorded in Result.Failed; they never
// abort the category. A flaky region simply contributes zero articles. The
// regions are fetched concurrently; the merged order follows the fixed
// region order so runs are reproducible in logs.
func (f *Fetcher) FetchCategory(ctx context.Context, category string, n int) (*Result, error) {
	if n < 1 {
		n = 1
	}
	if n > len(regions) {
		n = len(regions)
	}

	perRegion := make([][]models.Article, n)
	var (
		mu     sync.Mutex
		failed []FailedRegion
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentRegions)

	for i, region := range regions[:n] {
		g.Go(func() error {
			resp, err := f.provider.TopHeadlines(ctx, HeadlinesParams{
				Category: category,
				Country:  region,
				PageSize: f.pageSize,
			})
			if err != nil {
				slog.Warn("region fetch failed",
					"category", category,
					"region", region,
					"error", err,
				)

				mu.Lock()
				failed = append(failed, FailedRegion{Region: region, Error: err.Error()})
				mu.Unlock()

				return nil // absorb: one region must never sink the others
			}

			perRegion[i] = f.normalize(resp.Articles, category)

			slog.Debug("region fetched",
				"category", category,
				"region", region,
				"items", len(resp.Articles),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{Failed: failed}
	for _, articles := range perRegion {
		result.Articles = append(result.Articles, articles...)
	}
	return result, nil
}

// normalize converts provider articles into domain articles: parsed UTC
// timestamps, resolved source identifiers, and the category tag applied.
// Articles with an empty title or URL are skipped.
func (f *Fetcher) normalize(raw []RawArticle, category string) []models.Article {
	var articles []models.Article
	for _, r := range raw {
		if r.Title == "" || r.URL == "" {
			continue
		}

		articles = append(articles, models.Article{
			Title:       r.Title,
			Description: r.Description,
			Content:     r.Content,
			URL:         r.URL,
			ImageURL:    r.URLToImage,
			PublishedAt: f.parsePublished(r.PublishedAt),
			SourceID:    ResolveSourceID(r.Source.ID, r.Source.Name),
			SourceName:  r.Source.Name,
			Category:    category,
		})
	}
	return articles
}

// parsePublished parses the provider's timestamp format. Unparsable
// timestamps fall back to the current wall-clock time rather than dropping
// the article.
func (f *Fetcher) parsePublished(s string) time.Time {
	t, err := time.Parse(providerTimeLayout, s)
	if err != nil {
		return f.now().UTC()
	}
	return t.UTC()
}

// ResolveSourceID derives a publisher identifier from the provider's source
// fields: the id when present, otherwise the display name. Every place a
// source identifier is derived must go through this function, or trust-score
// attribution fragments across duplicate records.
func ResolveSourceID(id, name string) string {
	if id != "" {
		return id
	}
	return name
}

// Regions returns the fixed ordered region list. Exposed for tests.
func Regions() []string {
	return regions
}
