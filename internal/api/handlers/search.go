package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hoanghai1803/newswire/internal/news"
)

// NewsSearcher is the slice of the headline provider client the live search
// endpoint needs.
type NewsSearcher interface {
	Search(ctx context.Context, p news.SearchParams) (*news.Response, error)
}

// SearchNews handles GET /api/news/search?q=term. Unlike the stored-article
// search, this queries the headline provider's everything endpoint directly
// and returns raw provider articles without persisting them.
func SearchNews(searcher NewsSearcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		query := r.URL.Query().Get("q")
		if query == "" {
			writeError(w, http.StatusBadRequest, "Missing query parameter 'q'")
			return
		}

		resp, err := searcher.Search(ctx, news.SearchParams{
			Query:    query,
			PageSize: parseLimit(r),
		})
		if err != nil {
			slog.Error("provider search failed", "query", query, "error", err)
			writeError(w, http.StatusBadGateway, "Provider search failed")
			return
		}

		writeJSON(w, http.StatusOK, resp.Articles)
	}
}
