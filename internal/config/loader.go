package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file, environment, and defaults.
// Priority (highest to lowest): env vars > config file > defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v, cfg)

	// Environment variable support
	v.SetEnvPrefix("REVIEWLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("reviewlens")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".reviewlens"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if not explicitly specified
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Secrets are env-only, never committed to config files.
	if tok := os.Getenv("APIFY_API_TOKEN"); tok != "" {
		cfg.Reviews.APIToken = tok
	}
	if secret := os.Getenv("REVIEWLENS_JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}

	return cfg, nil
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("server.port", cfg.Server.Port)
	v.SetDefault("server.request_timeout", cfg.Server.RequestTimeout)

	v.SetDefault("fetcher.type", cfg.Fetcher.Type)
	v.SetDefault("fetcher.follow_redirects", cfg.Fetcher.FollowRedirects)
	v.SetDefault("fetcher.max_redirects", cfg.Fetcher.MaxRedirects)
	v.SetDefault("fetcher.max_body_size", cfg.Fetcher.MaxBodySize)
	v.SetDefault("fetcher.idle_conn_timeout", cfg.Fetcher.IdleConnTimeout)
	v.SetDefault("fetcher.max_idle_conns", cfg.Fetcher.MaxIdleConns)
	v.SetDefault("fetcher.page_timeout", cfg.Fetcher.PageTimeout)
	v.SetDefault("fetcher.max_pages", cfg.Fetcher.MaxPages)
	v.SetDefault("fetcher.stealth", cfg.Fetcher.Stealth)
	v.SetDefault("fetcher.user_agents", cfg.Fetcher.UserAgents)

	v.SetDefault("reviews.endpoint", cfg.Reviews.Endpoint)
	v.SetDefault("reviews.actor_id", cfg.Reviews.ActorID)
	v.SetDefault("reviews.max_reviews", cfg.Reviews.MaxReviews)
	v.SetDefault("reviews.sort", cfg.Reviews.Sort)
	v.SetDefault("reviews.poll_delay", cfg.Reviews.PollDelay)
	v.SetDefault("reviews.run_timeout", cfg.Reviews.RunTimeout)

	v.SetDefault("models.endpoint", cfg.Models.Endpoint)
	v.SetDefault("models.timeout", cfg.Models.Timeout)
	v.SetDefault("models.max_input_runes", cfg.Models.MaxInputRunes)
	v.SetDefault("models.classify_batch", cfg.Models.ClassifyBatch)

	v.SetDefault("analysis.top_phrases", cfg.Analysis.TopPhrases)
	v.SetDefault("analysis.max_quotes", cfg.Analysis.MaxQuotes)
	v.SetDefault("analysis.summary_char_budget", cfg.Analysis.SummaryCharBudget)
	v.SetDefault("analysis.quick_summary_top_n", cfg.Analysis.QuickSummaryTopN)
	v.SetDefault("analysis.recent_window", cfg.Analysis.RecentWindow)

	v.SetDefault("auth.token_ttl", cfg.Auth.TokenTTL)

	v.SetDefault("storage.type", cfg.Storage.Type)
	v.SetDefault("storage.uri", cfg.Storage.URI)
	v.SetDefault("storage.database", cfg.Storage.Database)
	v.SetDefault("storage.collection", cfg.Storage.Collection)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)

	v.SetDefault("metrics.enabled", cfg.Metrics.Enabled)
	v.SetDefault("metrics.port", cfg.Metrics.Port)
	v.SetDefault("metrics.path", cfg.Metrics.Path)
}
