package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hoanghai1803/newswire/internal/models"
	"github.com/hoanghai1803/newswire/internal/storage"
)

// newTestStore creates an in-memory SQLite store with migrations applied.
// It registers a cleanup function to close the database when the test
// completes.
func newTestStore(t *testing.T) *storage.Store {
	t.Helper()

	db, err := storage.OpenDatabase(":memory:")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := storage.RunMigrations(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	return storage.NewStore(db)
}

// seedArticle stores one article (and its source at neutral trust) and
// returns the stored article ID.
func seedArticle(t *testing.T, store *storage.Store, title, url, sourceID string) int64 {
	t.Helper()
	ctx := context.Background()

	if err := store.InsertSource(ctx, &models.Source{
		ID:         sourceID,
		Name:       sourceID,
		TrustScore: models.NeutralTrustScore,
	}); err != nil {
		t.Fatalf("inserting source: %v", err)
	}

	id, err := store.UpsertArticle(ctx, &models.Article{
		Title:       title,
		URL:         url,
		PublishedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		SourceID:    sourceID,
		SourceName:  sourceID,
		Category:    "general",
	})
	if err != nil {
		t.Fatalf("upserting article: %v", err)
	}
	return id
}

// withURLParam attaches a chi URL parameter to the request context.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
