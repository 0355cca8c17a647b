package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hoanghai1803/newswire/internal/models"
)

func TestGetSources(t *testing.T) {
	store := newTestStore(t)
	seedArticle(t, store, "Major Earthquake Strikes", "https://a.example/1", "alpha-news")

	r := httptest.NewRequest(http.MethodGet, "/api/sources", nil)
	w := httptest.NewRecorder()

	GetSources(store).ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
	}

	var sources []models.Source
	if err := json.NewDecoder(w.Body).Decode(&sources); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(sources) != 1 {
		t.Fatalf("got %d sources, want 1", len(sources))
	}
	if sources[0].ID != "alpha-news" {
		t.Errorf("source id = %q, want alpha-news", sources[0].ID)
	}
	if sources[0].TrustScore != models.NeutralTrustScore {
		t.Errorf("trust = %v, want neutral %v", sources[0].TrustScore, models.NeutralTrustScore)
	}
}

func TestGetSources_Empty(t *testing.T) {
	store := newTestStore(t)

	r := httptest.NewRequest(http.MethodGet, "/api/sources", nil)
	w := httptest.NewRecorder()

	GetSources(store).ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
	}

	// Empty list, not null.
	if body := w.Body.String(); body != "[]\n" {
		t.Errorf("body = %q, want empty JSON array", body)
	}
}
