package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hoanghai1803/newswire/internal/storage"
)

// GetGroups handles GET /api/groups. It returns topic groups, newest first.
func GetGroups(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		groups, err := store.ListGroups(ctx, parseLimit(r))
		if err != nil {
			slog.Error("failed to list groups", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to list groups")
			return
		}

		writeJSON(w, http.StatusOK, groups)
	}
}

// GetGroupArticles handles GET /api/groups/{key}/articles. It returns every
// article carrying the group's topic key, newest first. An unknown key
// yields an empty list: singletons carry keys without materializing groups,
// so key-based lookups are always valid.
func GetGroupArticles(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		key := chi.URLParam(r, "key")
		if key == "" {
			writeError(w, http.StatusBadRequest, "Missing topic key")
			return
		}

		articles, err := store.ListArticlesByTopic(ctx, key)
		if err != nil {
			slog.Error("failed to list group articles", "key", key, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to list group articles")
			return
		}

		writeJSON(w, http.StatusOK, articles)
	}
}
