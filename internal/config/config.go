package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	News   NewsConfig   `toml:"news"`
	AI     AIConfig     `toml:"ai"`
	Feeds  FeedsConfig  `toml:"feeds"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `toml:"port"`
}

// NewsConfig holds headline provider settings.
type NewsConfig struct {
	APIKey     string `toml:"api_key"`
	Categories string `toml:"categories"` // comma-separated

	// SourcesPerTopic is the per-category region fan-out count. It is
	// clamped into [1,10] at load time; the fetcher trusts the value.
	SourcesPerTopic int `toml:"sources_per_topic"`
	PageSize        int `toml:"page_size"`
}

// AIConfig holds LLM analysis provider settings.
type AIConfig struct {
	APIKey         string `toml:"api_key"`
	Model          string `toml:"model"`
	EnableAnalysis bool   `toml:"enable_analysis"`
	EnrichContent  bool   `toml:"enrich_content"`
}

// FeedsConfig holds optional supplemental RSS feed settings.
type FeedsConfig struct {
	URLs []string `toml:"urls"`
}

const defaultConfigContent = `[server]
port = 8080

[news]
api_key = ""                      # newsapi.org key (or set NEWS_API_KEY env var)
categories = "general,technology,business"
sources_per_topic = 4             # distinct regions fetched per category (1-10)
page_size = 5

[ai]
api_key = ""                      # OpenRouter key (or set OPENROUTER_API_KEY env var)
model = "meta-llama/llama-3.2-3b-instruct:free"
enable_analysis = true
enrich_content = false            # fetch full article text before analysis

[feeds]
urls = []                         # optional supplemental RSS feeds
`

// Load reads and parses the TOML config from the given path. If the file does
// not exist, it creates a default config file at that path. Environment
// variables override values from the file with highest priority.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := createDefault(path); err != nil {
			return nil, fmt.Errorf("creating default config: %w", err)
		}
		slog.Info("created default config file", "path", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// createDefault writes the default config content to the given path,
// creating any parent directories as needed.
func createDefault(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigContent), 0o644); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}

// applyDefaults sets default values for any zero-valued fields and clamps
// the region fan-out count into its valid range. Clamping happens here, at
// the configuration boundary, so downstream components never re-check it.
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.News.Categories == "" {
		cfg.News.Categories = "general,technology,business"
	}
	if cfg.News.SourcesPerTopic == 0 {
		cfg.News.SourcesPerTopic = 4
	}
	if cfg.News.SourcesPerTopic < 1 {
		cfg.News.SourcesPerTopic = 1
	}
	if cfg.News.SourcesPerTopic > 10 {
		cfg.News.SourcesPerTopic = 10
	}
	if cfg.News.PageSize == 0 {
		cfg.News.PageSize = 5
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "meta-llama/llama-3.2-3b-instruct:free"
	}
}

// applyEnvOverrides applies environment variable overrides. Environment
// variables take highest priority over config file values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("NEWS_API_KEY"); v != "" {
		cfg.News.APIKey = v
	}
	if v := os.Getenv("OPENROUTER_API_KEY"); v != "" {
		cfg.AI.APIKey = v
	}
}

// validate checks that configuration values are within acceptable ranges.
func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", cfg.Server.Port)
	}

	if cfg.News.PageSize < 1 || cfg.News.PageSize > 100 {
		return fmt.Errorf("invalid news.page_size %d: must be between 1 and 100", cfg.News.PageSize)
	}

	if len(cfg.CategoryList()) == 0 {
		return fmt.Errorf("invalid news.categories %q: at least one category is required", cfg.News.Categories)
	}

	if cfg.News.APIKey == "" {
		slog.Warn("news.api_key is empty: set it in the config file or via NEWS_API_KEY environment variable")
	}
	if cfg.AI.EnableAnalysis && cfg.AI.APIKey == "" {
		slog.Warn("ai.api_key is empty: integrity analysis will fail until OPENROUTER_API_KEY is set")
	}

	return nil
}

// CategoryList splits the comma-separated category string into trimmed,
// non-empty category names in their configured order.
func (c *Config) CategoryList() []string {
	var categories []string
	for _, cat := range strings.Split(c.News.Categories, ",") {
		cat = strings.TrimSpace(cat)
		if cat != "" {
			categories = append(categories, cat)
		}
	}
	return categories
}
