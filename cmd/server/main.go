package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/hoanghai1803/newswire/internal/ai"
	"github.com/hoanghai1803/newswire/internal/api"
	"github.com/hoanghai1803/newswire/internal/config"
	"github.com/hoanghai1803/newswire/internal/engine"
	"github.com/hoanghai1803/newswire/internal/news"
	"github.com/hoanghai1803/newswire/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	dataDir := flag.String("data-dir", "./data", "path to data directory")
	flag.Parse()

	// Load configuration (auto-creates default if missing).
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Open database with WAL mode and pragmas.
	db, err := storage.OpenDatabase(filepath.Join(*dataDir, "newswire.db"))
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run schema migrations.
	if err := storage.RunMigrations(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	store := storage.NewStore(db)

	// Headline provider and region fetcher.
	client := news.NewClient(cfg.News.APIKey)
	fetcher := news.NewFetcher(client, cfg.News.PageSize)

	// Optional supplemental RSS feeds.
	var feeds engine.FeedFetcher
	if len(cfg.Feeds.URLs) > 0 {
		feeds = news.NewRSSFetcher(cfg.Feeds.URLs)
		slog.Info("rss feeds configured", "count", len(cfg.Feeds.URLs))
	}

	// Integrity analyzer (nil when disabled -- the engine checks for this).
	var analyzer engine.ArticleAnalyzer
	if cfg.AI.EnableAnalysis && cfg.AI.APIKey != "" {
		provider := ai.NewOpenRouterClient(cfg.AI.APIKey)
		analyzer = ai.NewAnalyzer(provider, cfg.AI.Model)
		slog.Info("integrity analysis configured", "model", cfg.AI.Model)
	} else {
		slog.Warn("integrity analysis disabled")
	}

	// Optional full-text enrichment before analysis.
	var enricher engine.ContentEnricher
	if cfg.AI.EnrichContent {
		enricher = news.NewEnricher()
	}

	eng := engine.New(store, fetcher, feeds, analyzer, enricher, cfg)

	router := api.NewRouter(store, eng, client)

	// Localhost only; this server has no auth layer.
	addr := fmt.Sprintf("localhost:%d", cfg.Server.Port)

	slog.Info("starting server", "addr", "http://"+addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
