// Package api exposes the engine over HTTP: ingestion and analysis triggers
// plus read endpoints for articles, topic groups, sources, and preferences.
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/hoanghai1803/newswire/internal/api/handlers"
	"github.com/hoanghai1803/newswire/internal/engine"
	"github.com/hoanghai1803/newswire/internal/storage"
)

// NewRouter creates and configures the HTTP router with all API routes.
func NewRouter(store *storage.Store, eng *engine.Engine, searcher handlers.NewsSearcher) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(RequestLogger)
	r.Use(Recovery)
	r.Use(CORS)

	r.Route("/api", func(api chi.Router) {
		api.Post("/refresh", handlers.Refresh(eng))
		api.Get("/refresh/latest", handlers.GetLatestRefresh(store))

		api.Get("/articles", handlers.GetArticles(store))
		api.Get("/articles/saved", handlers.GetSavedArticles(store))
		api.Get("/articles/search", handlers.SearchArticles(store))
		api.Get("/articles/{id}", handlers.GetArticle(store))
		api.Get("/articles/{id}/verdict", handlers.GetVerdict(store))
		api.Post("/articles/{id}/analyze", handlers.AnalyzeArticle(eng))
		api.Patch("/articles/{id}/saved", handlers.SetArticleSaved(store))

		api.Get("/groups", handlers.GetGroups(store))
		api.Get("/groups/{key}/articles", handlers.GetGroupArticles(store))

		api.Get("/news/search", handlers.SearchNews(searcher))

		api.Get("/sources", handlers.GetSources(store))

		api.Get("/preferences", handlers.GetPreferences(store))
		api.Put("/preferences", handlers.UpdatePreferences(store))
	})

	return r
}
