package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for ReviewLens.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   yaml:"server"`
	Fetcher  FetcherConfig  `mapstructure:"fetcher"  yaml:"fetcher"`
	Reviews  ReviewsConfig  `mapstructure:"reviews"  yaml:"reviews"`
	Models   ModelsConfig   `mapstructure:"models"   yaml:"models"`
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`
	Auth     AuthConfig     `mapstructure:"auth"     yaml:"auth"`
	Storage  StorageConfig  `mapstructure:"storage"  yaml:"storage"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"  yaml:"metrics"`
}

// ServerConfig controls the HTTP API server.
type ServerConfig struct {
	Port           int           `mapstructure:"port"            yaml:"port"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
}

// FetcherConfig controls the product-page fetcher.
type FetcherConfig struct {
	Type            string        `mapstructure:"type"              yaml:"type"` // http or browser
	FollowRedirects bool          `mapstructure:"follow_redirects"  yaml:"follow_redirects"`
	MaxRedirects    int           `mapstructure:"max_redirects"     yaml:"max_redirects"`
	MaxBodySize     int64         `mapstructure:"max_body_size"     yaml:"max_body_size"`
	TLSInsecure     bool          `mapstructure:"tls_insecure"      yaml:"tls_insecure"`
	IdleConnTimeout time.Duration `mapstructure:"idle_conn_timeout" yaml:"idle_conn_timeout"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    yaml:"max_idle_conns"`
	PageTimeout     time.Duration `mapstructure:"page_timeout"      yaml:"page_timeout"`
	MaxPages        int           `mapstructure:"max_pages"         yaml:"max_pages"`
	Stealth         bool          `mapstructure:"stealth"           yaml:"stealth"`
	UserAgents      []string      `mapstructure:"user_agents"       yaml:"user_agents"`
}

// ReviewsConfig controls the hosted review-scraper actor.
type ReviewsConfig struct {
	Endpoint   string        `mapstructure:"endpoint"     yaml:"endpoint"`
	APIToken   string        `mapstructure:"api_token"    yaml:"api_token"`
	ActorID    string        `mapstructure:"actor_id"     yaml:"actor_id"`
	MaxReviews int           `mapstructure:"max_reviews"  yaml:"max_reviews"`
	Sort       string        `mapstructure:"sort"         yaml:"sort"`
	PollDelay  time.Duration `mapstructure:"poll_delay"   yaml:"poll_delay"`
	RunTimeout time.Duration `mapstructure:"run_timeout"  yaml:"run_timeout"`
}

// ModelsConfig controls the inference service hosting the sentiment
// classifier and the summarizer.
type ModelsConfig struct {
	Endpoint      string        `mapstructure:"endpoint"         yaml:"endpoint"`
	APIKey        string        `mapstructure:"api_key"          yaml:"api_key"`
	Timeout       time.Duration `mapstructure:"timeout"          yaml:"timeout"`
	MaxInputRunes int           `mapstructure:"max_input_runes"  yaml:"max_input_runes"`
	ClassifyBatch int           `mapstructure:"classify_batch"   yaml:"classify_batch"`
}

// AnalysisConfig controls the aggregation pipeline.
type AnalysisConfig struct {
	TopPhrases        int           `mapstructure:"top_phrases"         yaml:"top_phrases"`
	MaxQuotes         int           `mapstructure:"max_quotes"          yaml:"max_quotes"`
	SummaryCharBudget int           `mapstructure:"summary_char_budget" yaml:"summary_char_budget"`
	QuickSummaryTopN  int           `mapstructure:"quick_summary_top_n" yaml:"quick_summary_top_n"`
	RecentWindow      time.Duration `mapstructure:"recent_window"       yaml:"recent_window"`
}

// AuthConfig controls account management and token issuing.
type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"  yaml:"token_ttl"`
}

// StorageConfig controls the history store.
type StorageConfig struct {
	Type       string `mapstructure:"type"        yaml:"type"` // mongo or memory
	URI        string `mapstructure:"uri"         yaml:"uri"`
	Database   string `mapstructure:"database"    yaml:"database"`
	Collection string `mapstructure:"collection"  yaml:"collection"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// MetricsConfig controls the metrics endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Port    int    `mapstructure:"port"    yaml:"port"`
	Path    string `mapstructure:"path"    yaml:"path"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			RequestTimeout: 120 * time.Second,
		},
		Fetcher: FetcherConfig{
			Type:            "browser",
			FollowRedirects: true,
			MaxRedirects:    10,
			MaxBodySize:     10 * 1024 * 1024, // 10MB
			IdleConnTimeout: 90 * time.Second,
			MaxIdleConns:    100,
			PageTimeout:     30 * time.Second,
			MaxPages:        4,
			Stealth:         true,
			UserAgents: []string{
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
				"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			},
		},
		Reviews: ReviewsConfig{
			Endpoint:   "https://api.apify.com",
			ActorID:    "R8WeJwLuzLZ6g4Bkk",
			MaxReviews: 50,
			Sort:       "helpful",
			PollDelay:  2 * time.Second,
			RunTimeout: 90 * time.Second,
		},
		Models: ModelsConfig{
			Endpoint:      "http://localhost:8501",
			Timeout:       60 * time.Second,
			MaxInputRunes: 2000,
			ClassifyBatch: 32,
		},
		Analysis: AnalysisConfig{
			TopPhrases:        5,
			MaxQuotes:         2,
			SummaryCharBudget: 4000,
			QuickSummaryTopN:  10,
			RecentWindow:      365 * 24 * time.Hour,
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
		Storage: StorageConfig{
			Type:       "memory",
			URI:        "mongodb://localhost:27017",
			Database:   "reviewlens",
			Collection: "history",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
			Path:    "/metrics",
		},
	}
}
