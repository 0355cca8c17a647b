package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hoanghai1803/newswire/internal/engine"
	"github.com/hoanghai1803/newswire/internal/storage"
)

// Refresh handles POST /api/refresh. It runs one full ingestion cycle and
// returns the audit row for the completed cycle.
func Refresh(eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		session, err := eng.Refresh(ctx)
		if err != nil {
			slog.Error("refresh cycle failed", "error", err)
			writeError(w, http.StatusBadGateway, "Refresh failed: "+err.Error())
			return
		}

		writeJSON(w, http.StatusOK, session)
	}
}

// GetLatestRefresh handles GET /api/refresh/latest. It returns the most
// recent refresh session, or 404 if no refresh has ever run.
func GetLatestRefresh(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		session, err := store.LatestRefreshSession(ctx)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeError(w, http.StatusNotFound, "No refresh has run yet")
				return
			}
			slog.Error("failed to get latest refresh session", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to get latest refresh")
			return
		}

		writeJSON(w, http.StatusOK, session)
	}
}
