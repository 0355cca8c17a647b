package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/hoanghai1803/newswire/internal/models"
)

func testSource(id string) models.Source {
	return models.Source{
		ID:         id,
		Name:       "Reuters",
		Category:   "general",
		TrustScore: models.NeutralTrustScore,
	}
}

func TestInsertSource_AndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	src := testSource("reuters")
	if err := store.InsertSource(ctx, &src); err != nil {
		t.Fatalf("InsertSource error: %v", err)
	}

	got, err := store.GetSourceByID(ctx, "reuters")
	if err != nil {
		t.Fatalf("GetSourceByID error: %v", err)
	}
	if got.Name != "Reuters" {
		t.Errorf("Name = %q, want Reuters", got.Name)
	}
	if got.TrustScore != models.NeutralTrustScore {
		t.Errorf("TrustScore = %v, want neutral %v", got.TrustScore, models.NeutralTrustScore)
	}
	if got.ArticlesAnalyzed != 0 {
		t.Errorf("ArticlesAnalyzed = %d, want 0", got.ArticlesAnalyzed)
	}
	if got.LastUpdated.IsZero() {
		t.Error("LastUpdated is zero")
	}
}

func TestInsertSource_ConflictIsNoOp(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	src := testSource("reuters")
	if err := store.InsertSource(ctx, &src); err != nil {
		t.Fatalf("InsertSource error: %v", err)
	}

	// Accumulate some trust state, then insert the same id again.
	if err := store.UpdateSourceTrust(ctx, "reuters", 8.0, 3); err != nil {
		t.Fatalf("UpdateSourceTrust error: %v", err)
	}
	if err := store.InsertSource(ctx, &src); err != nil {
		t.Fatalf("second InsertSource error: %v", err)
	}

	got, err := store.GetSourceByID(ctx, "reuters")
	if err != nil {
		t.Fatalf("GetSourceByID error: %v", err)
	}
	if got.TrustScore != 8.0 || got.ArticlesAnalyzed != 3 {
		t.Fatalf("re-insert reset trust state: score=%v analyzed=%d",
			got.TrustScore, got.ArticlesAnalyzed)
	}
}

func TestUpdateSourceTrust(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	src := testSource("bbc-news")
	if err := store.InsertSource(ctx, &src); err != nil {
		t.Fatalf("InsertSource error: %v", err)
	}

	if err := store.UpdateSourceTrust(ctx, "bbc-news", 6.5, 1); err != nil {
		t.Fatalf("UpdateSourceTrust error: %v", err)
	}

	got, err := store.GetSourceByID(ctx, "bbc-news")
	if err != nil {
		t.Fatalf("GetSourceByID error: %v", err)
	}
	if got.TrustScore != 6.5 {
		t.Errorf("TrustScore = %v, want 6.5", got.TrustScore)
	}
	if got.ArticlesAnalyzed != 1 {
		t.Errorf("ArticlesAnalyzed = %d, want 1", got.ArticlesAnalyzed)
	}
}

func TestUpdateSourceTrust_NotFound(t *testing.T) {
	store := newTestStore(t)

	err := store.UpdateSourceTrust(context.Background(), "nope", 5.0, 1)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestGetSourceByID_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetSourceByID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestListSources_OrderedByName(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, s := range []models.Source{
		{ID: "z-news", Name: "Zeta News", TrustScore: 5},
		{ID: "a-news", Name: "Alpha News", TrustScore: 5},
	} {
		if err := store.InsertSource(ctx, &s); err != nil {
			t.Fatalf("InsertSource error: %v", err)
		}
	}

	sources, err := store.ListSources(ctx)
	if err != nil {
		t.Fatalf("ListSources error: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("got %d sources, want 2", len(sources))
	}
	if sources[0].Name != "Alpha News" {
		t.Errorf("first source = %q, want Alpha News", sources[0].Name)
	}
}

func TestListSources_EmptyIsNotNil(t *testing.T) {
	store := newTestStore(t)

	sources, err := store.ListSources(context.Background())
	if err != nil {
		t.Fatalf("ListSources error: %v", err)
	}
	if sources == nil {
		t.Fatal("ListSources returned nil, want empty slice")
	}
}
