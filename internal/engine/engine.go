// Package engine orchestrates the ingestion pipeline: fetching headlines
// across regions, clustering them into topic groups, running integrity
// analysis, and maintaining per-publisher trust scores.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hoanghai1803/newswire/internal/config"
	"github.com/hoanghai1803/newswire/internal/models"
	"github.com/hoanghai1803/newswire/internal/news"
	"github.com/hoanghai1803/newswire/internal/storage"
	"github.com/hoanghai1803/newswire/internal/topic"
)

// ErrAnalysisDisabled is returned by AnalyzeArticle when no analyzer is
// configured.
var ErrAnalysisDisabled = errors.New("integrity analysis is disabled")

// CategoryFetcher fetches one category's headlines across regions.
type CategoryFetcher interface {
	FetchCategory(ctx context.Context, category string, n int) (*news.Result, error)
}

// FeedFetcher fetches supplemental RSS feed articles.
type FeedFetcher interface {
	FetchAll(ctx context.Context, category string, maxPerFeed int) (*news.Result, error)
}

// ArticleAnalyzer produces an integrity verdict for an article. It must not
// fail: fallbacks are expressed through the verdict itself.
type ArticleAnalyzer interface {
	Analyze(ctx context.Context, article models.Article) (models.Article, models.Verdict)
}

// ContentEnricher fetches an article's full readable text.
type ContentEnricher interface {
	FullText(articleURL string) (string, error)
}

// Engine wires the store, fetchers, and analyzer into the two top-level
// operations: Refresh (ingest a fresh batch) and AnalyzeArticle (analyze one
// stored article and fold the result into its source's trust score).
type Engine struct {
	store    *storage.Store
	fetcher  CategoryFetcher
	feeds    FeedFetcher     // nil when no feeds are configured
	analyzer ArticleAnalyzer // nil when analysis is disabled
	enricher ContentEnricher // nil when enrichment is disabled
	cfg      *config.Config

	trustMu keyedMutex
}

// New creates an Engine. feeds, analyzer, and enricher may be nil to disable
// the corresponding step.
func New(store *storage.Store, fetcher CategoryFetcher, feeds FeedFetcher, analyzer ArticleAnalyzer, enricher ContentEnricher, cfg *config.Config) *Engine {
	return &Engine{
		store:    store,
		fetcher:  fetcher,
		feeds:    feeds,
		analyzer: analyzer,
		enricher: enricher,
		cfg:      cfg,
	}
}

// Refresh runs one full ingestion cycle: for each category (the "categories"
// user preference when set, otherwise the configured list) it
// fetches headlines across regions, registers unseen sources at neutral
// trust, assigns topic keys, persists the batch, and materializes topic
// groups for clusters of two or more. Supplemental RSS feeds, when
// configured, are fetched once per cycle and flow through the same path.
//
// Per-region failures degrade the batch and are recorded on the session;
// anything else aborts the cycle, records a failed session, and is returned.
// The audit row for the cycle is returned on success.
func (e *Engine) Refresh(ctx context.Context) (*models.RefreshSession, error) {
	categories := e.categoriesForCycle(ctx)
	categoriesCSV := strings.Join(categories, ",")

	var (
		totalFetched int
		totalGroups  int
		allFailed    []news.FailedRegion
	)

	run := func() error {
		for _, category := range categories {
			result, err := e.fetcher.FetchCategory(ctx, category, e.cfg.News.SourcesPerTopic)
			if err != nil {
				return fmt.Errorf("fetching category %q: %w", category, err)
			}

			fetched, groups, err := e.ingestBatch(ctx, result.Articles)
			if err != nil {
				return fmt.Errorf("ingesting category %q: %w", category, err)
			}

			totalFetched += fetched
			totalGroups += groups
			allFailed = append(allFailed, result.Failed...)
		}

		if e.feeds != nil {
			result, err := e.feeds.FetchAll(ctx, "", e.cfg.News.PageSize)
			if err != nil {
				return fmt.Errorf("fetching feeds: %w", err)
			}

			fetched, groups, err := e.ingestBatch(ctx, result.Articles)
			if err != nil {
				return fmt.Errorf("ingesting feed articles: %w", err)
			}

			totalFetched += fetched
			totalGroups += groups
			allFailed = append(allFailed, result.Failed...)
		}
		return nil
	}

	if err := run(); err != nil {
		failed := &models.RefreshSession{
			Categories:      categoriesCSV,
			ArticlesFetched: totalFetched,
			GroupsCreated:   totalGroups,
			Status:          models.SessionFailed,
			Error:           err.Error(),
		}
		if _, recErr := e.store.CreateRefreshSession(ctx, failed); recErr != nil {
			slog.Error("recording failed refresh session", "error", recErr)
		}
		return nil, err
	}

	session := &models.RefreshSession{
		Categories:      categoriesCSV,
		ArticlesFetched: totalFetched,
		GroupsCreated:   totalGroups,
		Status:          models.SessionDone,
		FailedRegions:   encodeFailedRegions(allFailed),
	}

	id, err := e.store.CreateRefreshSession(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("recording refresh session: %w", err)
	}
	session.ID = id

	slog.Info("refresh cycle complete",
		"articles", totalFetched,
		"groups_created", totalGroups,
		"failed_regions", len(allFailed),
	)
	return session, nil
}

// categoriesForCycle returns the category list for one refresh cycle: the
// "categories" user preference when one is set, otherwise the configured
// list. Preferences are read at cycle start, so an edit through the API
// takes effect on the next refresh without a restart.
func (e *Engine) categoriesForCycle(ctx context.Context) []string {
	var prefs []string
	err := e.store.GetPreference(ctx, "categories", &prefs)
	if err == nil && len(prefs) > 0 {
		return prefs
	}
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		slog.Warn("reading categories preference, using configured list", "error", err)
	}
	return e.cfg.CategoryList()
}

// ingestBatch persists one batch of normalized articles: it registers
// unseen sources at neutral trust, stamps each article with its topic key,
// upserts the batch, and materializes topic groups for clusters with at
// least two members. It returns the number of articles persisted and the
// number of groups newly created.
func (e *Engine) ingestBatch(ctx context.Context, articles []models.Article) (int, int, error) {
	if len(articles) == 0 {
		return 0, 0, nil
	}

	if err := e.ensureSources(ctx, articles); err != nil {
		return 0, 0, err
	}

	titles := make([]string, len(articles))
	for i := range articles {
		titles[i] = articles[i].Title
	}
	clusters := topic.ClusterTitles(titles)

	for _, c := range clusters {
		for _, idx := range c.Indices {
			articles[idx].TopicKey = &c.Key
		}
	}

	if err := e.store.SaveArticles(ctx, articles); err != nil {
		return 0, 0, fmt.Errorf("saving articles: %w", err)
	}

	created, err := e.materializeGroups(ctx, articles, clusters)
	if err != nil {
		return 0, 0, err
	}

	return len(articles), created, nil
}

// ensureSources inserts a neutral-trust source record for every publisher in
// the batch that has not been seen before. Existing records are untouched,
// so learned trust scores survive re-ingestion.
func (e *Engine) ensureSources(ctx context.Context, articles []models.Article) error {
	seen := make(map[string]bool)
	for i := range articles {
		a := &articles[i]
		if seen[a.SourceID] {
			continue
		}
		seen[a.SourceID] = true

		err := e.store.InsertSource(ctx, &models.Source{
			ID:         a.SourceID,
			Name:       a.SourceName,
			Country:    a.Country,
			Category:   a.Category,
			TrustScore: models.NeutralTrustScore,
		})
		if err != nil {
			return fmt.Errorf("registering source %q: %w", a.SourceID, err)
		}
	}
	return nil
}

// materializeGroups creates a topic group for every cluster with at least
// two members, unless a group with that key already exists. Groups are
// created once and never recomputed: the representative title and count are
// a snapshot from the batch that first formed the cluster.
func (e *Engine) materializeGroups(ctx context.Context, articles []models.Article, clusters []topic.Cluster) (int, error) {
	created := 0
	for _, c := range clusters {
		if len(c.Indices) < 2 {
			continue
		}

		_, err := e.store.GetGroupByKey(ctx, c.Key)
		if err == nil {
			continue // already materialized in an earlier cycle
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return created, fmt.Errorf("checking group %q: %w", c.Key, err)
		}

		count, err := e.store.CountArticlesByTopic(ctx, c.Key)
		if err != nil {
			return created, err
		}

		group := &models.TopicGroup{
			TopicKey:     c.Key,
			TopicTitle:   articles[c.Indices[0]].Title,
			ArticleCount: count,
		}
		if err := e.store.InsertGroup(ctx, group); err != nil {
			return created, err
		}
		created++

		slog.Debug("materialized topic group",
			"title", group.TopicTitle,
			"articles", count,
		)
	}
	return created, nil
}

// AnalyzeArticle runs integrity analysis for one stored article: it loads
// the article, optionally enriches it with full page text, obtains a
// verdict, persists the integrity fields and the verdict, and folds the
// score into the source's trust. The updated article and verdict are
// returned.
//
// Calling it on an already-analyzed article returns the stored result
// without contacting the model, so repeated requests are idempotent and
// cannot double-count trust.
func (e *Engine) AnalyzeArticle(ctx context.Context, id int64) (*models.Article, *models.Verdict, error) {
	if e.analyzer == nil {
		return nil, nil, ErrAnalysisDisabled
	}

	article, err := e.store.GetArticleByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	wasAnalyzed := article.Analyzed
	if wasAnalyzed {
		verdict, err := e.store.GetVerdictByArticle(ctx, id)
		if err == nil {
			return article, verdict, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, nil, err
		}
		// Analyzed flag without a verdict row: re-analyze to backfill it,
		// but skip the trust update below so the source is not counted twice.
	}

	if e.enricher != nil {
		text, err := e.enricher.FullText(article.URL)
		if err != nil {
			slog.Warn("content enrichment failed, analyzing metadata only",
				"article", article.URL,
				"error", err,
			)
		} else if text != "" {
			// Enriched text feeds the prompt only; it is not persisted.
			article.Content = text
		}
	}

	analyzed, verdict := e.analyzer.Analyze(ctx, *article)

	if err := e.store.SetArticleAnalysis(ctx, id, *analyzed.IntegrityScore, *analyzed.IntegrityStatus); err != nil {
		return nil, nil, err
	}
	if err := e.store.SaveVerdict(ctx, &verdict); err != nil {
		return nil, nil, err
	}

	if !wasAnalyzed {
		if err := e.updateSourceTrust(ctx, article.SourceID, verdict.Score); err != nil {
			return nil, nil, err
		}
	}

	updated, err := e.store.GetArticleByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return updated, &verdict, nil
}

// updateSourceTrust folds one integrity score into the source's trust score
// under a per-source lock, so concurrent analyses of the same publisher
// cannot interleave their read-modify-write. A missing source record is
// skipped silently: trust tracking never creates publishers, ingestion does.
func (e *Engine) updateSourceTrust(ctx context.Context, sourceID string, score float64) error {
	unlock := e.trustMu.lock(sourceID)
	defer unlock()

	src, err := e.store.GetSourceByID(ctx, sourceID)
	if errors.Is(err, storage.ErrNotFound) {
		slog.Debug("skipping trust update for unknown source", "source", sourceID)
		return nil
	}
	if err != nil {
		return err
	}

	next := NextTrustScore(src.TrustScore, src.ArticlesAnalyzed, score)
	if err := e.store.UpdateSourceTrust(ctx, sourceID, next, src.ArticlesAnalyzed+1); err != nil {
		return fmt.Errorf("updating trust for source %q: %w", sourceID, err)
	}

	slog.Debug("updated source trust",
		"source", sourceID,
		"trust", next,
		"analyzed", src.ArticlesAnalyzed+1,
	)
	return nil
}

// encodeFailedRegions serializes per-region failures for the audit row.
// An empty list encodes as the empty string, stored as NULL.
func encodeFailedRegions(failed []news.FailedRegion) string {
	if len(failed) == 0 {
		return ""
	}
	data, err := json.Marshal(failed)
	if err != nil {
		return ""
	}
	return string(data)
}
