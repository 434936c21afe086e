package config

import (
	"fmt"
	"net/url"

	"reviewlens/internal/types"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", cfg.Server.Port)
	}
	if cfg.Server.RequestTimeout <= 0 {
		return fmt.Errorf("server.request_timeout must be > 0")
	}

	if cfg.Fetcher.Type != "http" && cfg.Fetcher.Type != "browser" {
		return fmt.Errorf("fetcher.type must be 'http' or 'browser', got %q", cfg.Fetcher.Type)
	}
	if cfg.Fetcher.MaxBodySize <= 0 {
		return fmt.Errorf("fetcher.max_body_size must be > 0")
	}
	if cfg.Fetcher.MaxRedirects < 0 {
		return fmt.Errorf("fetcher.max_redirects must be >= 0")
	}
	if cfg.Fetcher.PageTimeout <= 0 {
		return fmt.Errorf("fetcher.page_timeout must be > 0")
	}

	if cfg.Reviews.MaxReviews < 1 {
		return fmt.Errorf("reviews.max_reviews must be >= 1, got %d", cfg.Reviews.MaxReviews)
	}
	if _, err := url.Parse(cfg.Reviews.Endpoint); err != nil {
		return fmt.Errorf("invalid reviews.endpoint %q: %w", cfg.Reviews.Endpoint, err)
	}

	if cfg.Models.Endpoint == "" {
		return fmt.Errorf("models.endpoint must be set")
	}
	if cfg.Models.MaxInputRunes < 1 {
		return fmt.Errorf("models.max_input_runes must be >= 1, got %d", cfg.Models.MaxInputRunes)
	}

	if cfg.Analysis.TopPhrases < 1 {
		return fmt.Errorf("analysis.top_phrases must be >= 1, got %d", cfg.Analysis.TopPhrases)
	}
	if cfg.Analysis.MaxQuotes < 0 {
		return fmt.Errorf("analysis.max_quotes must be >= 0, got %d", cfg.Analysis.MaxQuotes)
	}
	if cfg.Analysis.SummaryCharBudget < 1 {
		return fmt.Errorf("analysis.summary_char_budget must be >= 1")
	}
	if cfg.Analysis.RecentWindow <= 0 {
		return fmt.Errorf("analysis.recent_window must be > 0")
	}

	if cfg.Storage.Type != "mongo" && cfg.Storage.Type != "memory" {
		return fmt.Errorf("storage.type must be 'mongo' or 'memory', got %q", cfg.Storage.Type)
	}
	if cfg.Storage.Type == "mongo" && cfg.Storage.URI == "" {
		return fmt.Errorf("storage.uri must be set for mongo storage")
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.Port < 1 || cfg.Metrics.Port > 65535 {
			return fmt.Errorf("metrics.port must be 1-65535, got %d", cfg.Metrics.Port)
		}
	}

	return nil
}

// ValidateURL checks if a URL string points at a scrapeable page.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be http or https, got %q", types.ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", types.ErrInvalidURL)
	}
	return nil
}
