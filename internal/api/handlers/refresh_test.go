package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hoanghai1803/newswire/internal/config"
	"github.com/hoanghai1803/newswire/internal/engine"
	"github.com/hoanghai1803/newswire/internal/models"
	"github.com/hoanghai1803/newswire/internal/news"
)

// fixedFetcher serves the same result for every category.
type fixedFetcher struct {
	result *news.Result
	err    error
}

func (f *fixedFetcher) FetchCategory(context.Context, string, int) (*news.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func refreshConfig() *config.Config {
	return &config.Config{
		News: config.NewsConfig{Categories: "general", SourcesPerTopic: 3, PageSize: 5},
	}
}

func TestRefresh(t *testing.T) {
	store := newTestStore(t)
	fetcher := &fixedFetcher{result: &news.Result{
		Articles: []models.Article{{
			Title:       "Major Earthquake Strikes",
			URL:         "https://a.example/1",
			PublishedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			SourceID:    "alpha-news",
			SourceName:  "Alpha News",
			Category:    "general",
		}},
	}}

	eng := engine.New(store, fetcher, nil, nil, nil, refreshConfig())

	r := httptest.NewRequest(http.MethodPost, "/api/refresh", nil)
	w := httptest.NewRecorder()

	Refresh(eng).ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var session models.RefreshSession
	if err := json.NewDecoder(w.Body).Decode(&session); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if session.Status != models.SessionDone {
		t.Errorf("session status = %q, want done", session.Status)
	}
	if session.ArticlesFetched != 1 {
		t.Errorf("ArticlesFetched = %d, want 1", session.ArticlesFetched)
	}
}

func TestRefresh_FetchFailure(t *testing.T) {
	store := newTestStore(t)
	fetcher := &fixedFetcher{err: errors.New("provider down")}

	eng := engine.New(store, fetcher, nil, nil, nil, refreshConfig())

	r := httptest.NewRequest(http.MethodPost, "/api/refresh", nil)
	w := httptest.NewRecorder()

	Refresh(eng).ServeHTTP(w, r)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusBadGateway)
	}
}

func TestGetLatestRefresh(t *testing.T) {
	store := newTestStore(t)

	t.Run("empty", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/refresh/latest", nil)
		w := httptest.NewRecorder()

		GetLatestRefresh(store).ServeHTTP(w, r)

		if w.Code != http.StatusNotFound {
			t.Fatalf("got status %d, want %d", w.Code, http.StatusNotFound)
		}
	})

	t.Run("after a cycle", func(t *testing.T) {
		if _, err := store.CreateRefreshSession(context.Background(), &models.RefreshSession{
			Categories:      "general",
			ArticlesFetched: 7,
			Status:          models.SessionDone,
		}); err != nil {
			t.Fatalf("creating session: %v", err)
		}

		r := httptest.NewRequest(http.MethodGet, "/api/refresh/latest", nil)
		w := httptest.NewRecorder()

		GetLatestRefresh(store).ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
		}

		var session models.RefreshSession
		if err := json.NewDecoder(w.Body).Decode(&session); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if session.ArticlesFetched != 7 {
			t.Errorf("ArticlesFetched = %d, want 7", session.ArticlesFetched)
		}
	})
}
