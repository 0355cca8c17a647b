package handlers

import (
	"log/slog"
	"net/http"

	"github.com/hoanghai1803/newswire/internal/storage"
)

// GetSources handles GET /api/sources. It returns all publisher sources with
// their learned trust scores, ordered by name.
func GetSources(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		sources, err := store.ListSources(ctx)
		if err != nil {
			slog.Error("failed to list sources", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to list sources")
			return
		}

		writeJSON(w, http.StatusOK, sources)
	}
}
