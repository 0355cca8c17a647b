package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hoanghai1803/newswire/internal/engine"
	"github.com/hoanghai1803/newswire/internal/storage"
)

// GetArticles handles GET /api/articles. It returns stored articles, newest
// first, optionally filtered by a category query parameter.
func GetArticles(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		category := r.URL.Query().Get("category")
		articles, err := store.ListArticles(ctx, category, parseLimit(r))
		if err != nil {
			slog.Error("failed to list articles", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to list articles")
			return
		}

		writeJSON(w, http.StatusOK, articles)
	}
}

// GetArticle handles GET /api/articles/{id}.
func GetArticle(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := parseID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		article, err := store.GetArticleByID(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Article not found")
				return
			}
			slog.Error("failed to get article", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to get article")
			return
		}

		writeJSON(w, http.StatusOK, article)
	}
}

// AnalyzeResult is the response body for an analysis request: the updated
// article together with its full verdict.
type AnalyzeResult struct {
	Article any `json:"article"`
	Verdict any `json:"verdict"`
}

// AnalyzeArticle handles POST /api/articles/{id}/analyze. It runs integrity
// analysis for one article and returns the updated article and its verdict.
// Analyzing an already-analyzed article returns the stored result.
func AnalyzeArticle(eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := parseID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		article, verdict, err := eng.AnalyzeArticle(ctx, id)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrNotFound):
				writeError(w, http.StatusNotFound, "Article not found")
			case errors.Is(err, engine.ErrAnalysisDisabled):
				writeError(w, http.StatusServiceUnavailable,
					"Integrity analysis is disabled. Add an AI API key to config.toml")
			default:
				slog.Error("failed to analyze article", "id", id, "error", err)
				writeError(w, http.StatusInternalServerError, "Failed to analyze article")
			}
			return
		}

		writeJSON(w, http.StatusOK, AnalyzeResult{Article: article, Verdict: verdict})
	}
}

// GetVerdict handles GET /api/articles/{id}/verdict. It returns the stored
// integrity verdict for an article, or 404 if none exists yet.
func GetVerdict(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := parseID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		verdict, err := store.GetVerdictByArticle(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeError(w, http.StatusNotFound, "No verdict for this article")
				return
			}
			slog.Error("failed to get verdict", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to get verdict")
			return
		}

		writeJSON(w, http.StatusOK, verdict)
	}
}

// SetArticleSaved handles PATCH /api/articles/{id}/saved. It sets the
// user-controlled saved flag on an article.
func SetArticleSaved(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := parseID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		var body struct {
			Saved bool `json:"saved"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		if err := store.SetArticleSaved(ctx, id, body.Saved); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Article not found")
				return
			}
			slog.Error("failed to set saved flag", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to update article")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
	}
}

// GetSavedArticles handles GET /api/articles/saved.
func GetSavedArticles(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		articles, err := store.ListSavedArticles(ctx)
		if err != nil {
			slog.Error("failed to list saved articles", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to list saved articles")
			return
		}

		writeJSON(w, http.StatusOK, articles)
	}
}

// SearchArticles handles GET /api/articles/search?q=term. It performs a
// case-insensitive substring search over stored titles and descriptions.
func SearchArticles(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		query := r.URL.Query().Get("q")
		if query == "" {
			writeError(w, http.StatusBadRequest, "Missing query parameter 'q'")
			return
		}

		articles, err := store.SearchArticles(ctx, query, parseLimit(r))
		if err != nil {
			slog.Error("failed to search articles", "query", query, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to search articles")
			return
		}

		writeJSON(w, http.StatusOK, articles)
	}
}
