package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"reviewlens/internal/analysis"
	"reviewlens/internal/api"
	"reviewlens/internal/auth"
	"reviewlens/internal/config"
	"reviewlens/internal/fetcher"
	"reviewlens/internal/ml"
	"reviewlens/internal/observability"
	"reviewlens/internal/parser"
	"reviewlens/internal/reviews"
	"reviewlens/internal/scoring"
	"reviewlens/internal/storage"
)

var (
	cfgFile     string
	verbose     bool
	port        int
	fetcherType string
	storageType string
	maxReviews  int
)

func main() {
	// Secrets (APIFY_API_TOKEN, REVIEWLENS_JWT_SECRET) live in .env for
	// local runs. Missing file is fine.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "reviewlens",
		Short: "ReviewLens — product review analysis service",
		Long: `ReviewLens scrapes a product page and its customer reviews, runs
sentiment classification and keyword extraction over them, and produces
a dashboard-ready report: sentiment split, pros and cons with supporting
quotes, summaries, and a 0-10 overall score.`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// serveCmd creates the "serve" subcommand.
func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the analysis API server",
		RunE:  runServe,
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides config)")
	cmd.Flags().StringVar(&fetcherType, "fetcher", "", "fetcher type: browser, http")
	cmd.Flags().StringVar(&storageType, "storage", "", "storage backend: mongo, memory")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	deps, cleanup, err := buildDeps(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	if cfg.Metrics.Enabled {
		if err := deps.Metrics.StartServer(cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
			logger.Warn("failed to start metrics server", "error", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := api.NewServer(cfg, deps, logger)
	return server.Start(ctx)
}

// analyzeCmd creates the "analyze" subcommand: one-shot analysis of a
// product URL printed as JSON, no server involved.
func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [url]",
		Short: "Analyze a single product URL and print the report",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}

	cmd.Flags().StringVar(&fetcherType, "fetcher", "", "fetcher type: browser, http")
	cmd.Flags().IntVar(&maxReviews, "max-reviews", 0, "review fetch cap (overrides config)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	productURL := args[0]
	if err := config.ValidateURL(productURL); err != nil {
		return err
	}

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	deps, cleanup, err := buildDeps(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.RequestTimeout)
	defer cancel()

	start := time.Now()

	body, err := deps.Fetcher.FetchHTML(ctx, productURL)
	if err != nil {
		return fmt.Errorf("fetch product page: %w", err)
	}
	product, err := deps.Parser.Parse(body, productURL)
	if err != nil {
		return fmt.Errorf("parse product page: %w", err)
	}

	reviewSet, err := deps.Reviews.FetchReviews(ctx, productURL)
	if err != nil {
		return fmt.Errorf("fetch reviews: %w", err)
	}

	result, err := deps.Analyzer.Analyze(ctx, reviewSet)
	if err != nil {
		return fmt.Errorf("analyze reviews: %w", err)
	}

	scored := scoring.ScoreProduct(product, result)
	out, err := json.MarshalIndent(scored, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	logger.Info("analysis complete",
		"url", productURL,
		"reviews", result.TotalReviewsAnalyzed,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return nil
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ReviewLens %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			fmt.Printf("Server:\n")
			fmt.Printf("  Port:              %d\n", cfg.Server.Port)
			fmt.Printf("  Request Timeout:   %s\n", cfg.Server.RequestTimeout)
			fmt.Printf("\nFetcher:\n")
			fmt.Printf("  Type:              %s\n", cfg.Fetcher.Type)
			fmt.Printf("  Page Timeout:      %s\n", cfg.Fetcher.PageTimeout)
			fmt.Printf("  Max Pages:         %d\n", cfg.Fetcher.MaxPages)
			fmt.Printf("  Stealth:           %v\n", cfg.Fetcher.Stealth)
			fmt.Printf("\nReviews:\n")
			fmt.Printf("  Endpoint:          %s\n", cfg.Reviews.Endpoint)
			fmt.Printf("  Max Reviews:       %d\n", cfg.Reviews.MaxReviews)
			fmt.Printf("  Sort:              %s\n", cfg.Reviews.Sort)
			fmt.Printf("  Token Configured:  %v\n", cfg.Reviews.APIToken != "")
			fmt.Printf("\nModels:\n")
			fmt.Printf("  Endpoint:          %s\n", cfg.Models.Endpoint)
			fmt.Printf("  Timeout:           %s\n", cfg.Models.Timeout)
			fmt.Printf("\nAnalysis:\n")
			fmt.Printf("  Top Phrases:       %d\n", cfg.Analysis.TopPhrases)
			fmt.Printf("  Max Quotes:        %d\n", cfg.Analysis.MaxQuotes)
			fmt.Printf("  Recent Window:     %s\n", cfg.Analysis.RecentWindow)
			fmt.Printf("\nStorage:\n")
			fmt.Printf("  Type:              %s\n", cfg.Storage.Type)
			fmt.Printf("  Database:          %s\n", cfg.Storage.Database)
			fmt.Printf("\nMetrics:\n")
			fmt.Printf("  Enabled:           %v\n", cfg.Metrics.Enabled)
			fmt.Printf("  Port:              %d\n", cfg.Metrics.Port)
			return nil
		},
	}
}

// loadConfig loads and validates the config, applies CLI overrides,
// and builds the logger.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	applyCLIOverrides(cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, setupLogger(cfg), nil
}

// buildDeps wires the pipeline collaborators. The returned cleanup
// closes the fetcher, storage, and anything else holding resources.
func buildDeps(cfg *config.Config, logger *slog.Logger) (api.Deps, func(), error) {
	pageFetcher, err := fetcher.New(cfg, logger)
	if err != nil {
		return api.Deps{}, nil, fmt.Errorf("create fetcher: %w", err)
	}

	store, err := storage.New(cfg, logger)
	if err != nil {
		_ = pageFetcher.Close()
		return api.Deps{}, nil, fmt.Errorf("create storage: %w", err)
	}

	modelClient := ml.NewClient(cfg.Models, logger)
	initCtx, cancel := context.WithTimeout(context.Background(), cfg.Models.Timeout)
	defer cancel()
	if err := modelClient.Init(initCtx); err != nil {
		_ = pageFetcher.Close()
		_ = store.Close()
		return api.Deps{}, nil, fmt.Errorf("inference service: %w", err)
	}

	deps := api.Deps{
		Fetcher:  pageFetcher,
		Parser:   parser.New(nil, logger),
		Reviews:  reviews.NewClient(cfg.Reviews, logger),
		Analyzer: analysis.New(modelClient, modelClient, cfg.Analysis, logger),
		Auth:     auth.New(store, cfg.Auth, logger),
		Store:    store,
		Metrics:  observability.NewMetrics(logger),
	}

	cleanup := func() {
		if err := pageFetcher.Close(); err != nil {
			logger.Warn("fetcher close failed", "error", err)
		}
		if err := store.Close(); err != nil {
			logger.Warn("storage close failed", "error", err)
		}
	}
	return deps, cleanup, nil
}

// setupLogger creates a structured logger per the logging config.
func setupLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// applyCLIOverrides applies command-line flag values to the config.
func applyCLIOverrides(cfg *config.Config) {
	if port > 0 {
		cfg.Server.Port = port
	}
	if fetcherType != "" {
		cfg.Fetcher.Type = fetcherType
	}
	if storageType != "" {
		cfg.Storage.Type = storageType
	}
	if maxReviews > 0 {
		cfg.Reviews.MaxReviews = maxReviews
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
}
