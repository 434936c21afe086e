// Package api exposes the analysis pipeline over a JSON REST API.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"reviewlens/internal/auth"
	"reviewlens/internal/config"
	"reviewlens/internal/fetcher"
	"reviewlens/internal/observability"
	"reviewlens/internal/parser"
	"reviewlens/internal/reviews"
	"reviewlens/internal/scoring"
	"reviewlens/internal/storage"
	"reviewlens/internal/types"
)

// Analyzer runs the review aggregation pipeline.
type Analyzer interface {
	Analyze(ctx context.Context, reviews []types.Review) (*types.AnalysisResult, error)
}

// Deps bundles the collaborators the server orchestrates.
type Deps struct {
	Fetcher  fetcher.Fetcher
	Parser   *parser.ProductParser
	Reviews  reviews.Source
	Analyzer Analyzer
	Auth     *auth.Service
	Store    storage.Storage
	Metrics  *observability.Metrics
}

// Server wires the HTTP routes to the pipeline.
type Server struct {
	cfg    *config.Config
	deps   Deps
	mux    *http.ServeMux
	srv    *http.Server
	logger *slog.Logger
}

// NewServer creates the API server and registers its routes.
func NewServer(cfg *config.Config, deps Deps, logger *slog.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		deps:   deps,
		mux:    http.NewServeMux(),
		logger: logger.With("component", "api_server"),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	s.mux.HandleFunc("POST /api/auth/signup", s.handleSignup)
	s.mux.HandleFunc("POST /api/auth/login", s.handleLogin)

	s.mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	s.mux.HandleFunc("POST /api/compare", s.handleCompare)
	s.mux.HandleFunc("GET /api/history", s.handleHistory)
}

// Handler returns the route handler, used directly by tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start runs the server until ctx is cancelled, then drains in-flight
// requests.
func (s *Server) Start(ctx context.Context) error {
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("API server starting", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	s.logger.Info("API server shutting down")
	return s.srv.Shutdown(shutdownCtx)
}

// analyzeProduct runs the full pipeline for one product URL: fetch the
// product page and the reviews concurrently, analyze, then score.
func (s *Server) analyzeProduct(ctx context.Context, productURL string) (*types.ScoredProduct, error) {
	if err := config.ValidateURL(productURL); err != nil {
		return nil, err
	}

	var (
		wg         sync.WaitGroup
		product    *types.Product
		pageErr    error
		reviewSet  []types.Review
		reviewsErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		var body []byte
		body, pageErr = s.deps.Fetcher.FetchHTML(ctx, productURL)
		if pageErr != nil {
			return
		}
		product, pageErr = s.deps.Parser.Parse(body, productURL)
	}()
	go func() {
		defer wg.Done()
		reviewSet, reviewsErr = s.deps.Reviews.FetchReviews(ctx, productURL)
	}()
	wg.Wait()

	if pageErr != nil {
		s.logger.Warn("product page fetch failed", "url", productURL, "error", pageErr)
		s.deps.Metrics.FetchFailures.Add(1)
		product = types.NewProduct(productURL)
	}
	if reviewsErr != nil {
		s.deps.Metrics.FetchFailures.Add(1)
		return nil, reviewsErr
	}

	// A page with neither product details nor reviews is not a product
	// page at all.
	if !product.Found() && len(reviewSet) == 0 {
		return nil, types.ErrProductNotFound
	}

	result, err := s.deps.Analyzer.Analyze(ctx, reviewSet)
	if err != nil {
		s.deps.Metrics.ModelFailures.Add(1)
		return nil, err
	}

	s.deps.Metrics.ReviewsAnalyzed.Add(int64(result.TotalReviewsAnalyzed))
	if result.NoData {
		s.deps.Metrics.NoDataResults.Add(1)
	}
	if result.Degraded {
		s.deps.Metrics.DegradedResults.Add(1)
	}

	return scoring.ScoreProduct(product, result), nil
}
