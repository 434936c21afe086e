// Package observability exposes operational counters in Prometheus
// text exposition format.
package observability

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
)

// Metrics tracks operational counters for the analysis service.
type Metrics struct {
	// Request metrics
	AnalysesTotal    atomic.Int64
	ComparisonsTotal atomic.Int64
	RequestsFailed   atomic.Int64

	// Pipeline metrics
	FetchFailures   atomic.Int64
	ModelFailures   atomic.Int64
	DegradedResults atomic.Int64
	NoDataResults   atomic.Int64
	ReviewsAnalyzed atomic.Int64

	// Account metrics
	SignupsTotal atomic.Int64
	LoginsTotal  atomic.Int64

	logger *slog.Logger
}

// NewMetrics creates a new Metrics instance.
func NewMetrics(logger *slog.Logger) *Metrics {
	return &Metrics{
		logger: logger.With("component", "metrics"),
	}
}

// ServeHTTP serves metrics in Prometheus text exposition format.
func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	metrics := []struct {
		name  string
		help  string
		value int64
	}{
		{"reviewlens_analyses_total", "Total single-product analyses", m.AnalysesTotal.Load()},
		{"reviewlens_comparisons_total", "Total two-product comparisons", m.ComparisonsTotal.Load()},
		{"reviewlens_requests_failed_total", "Total failed API requests", m.RequestsFailed.Load()},
		{"reviewlens_fetch_failures_total", "Total page or review fetch failures", m.FetchFailures.Load()},
		{"reviewlens_model_failures_total", "Total inference service failures", m.ModelFailures.Load()},
		{"reviewlens_degraded_results_total", "Total results missing summaries", m.DegradedResults.Load()},
		{"reviewlens_nodata_results_total", "Total analyses with zero reviews", m.NoDataResults.Load()},
		{"reviewlens_reviews_analyzed_total", "Total reviews pushed through the pipeline", m.ReviewsAnalyzed.Load()},
		{"reviewlens_signups_total", "Total account registrations", m.SignupsTotal.Load()},
		{"reviewlens_logins_total", "Total successful logins", m.LoginsTotal.Load()},
	}

	for _, metric := range metrics {
		fmt.Fprintf(w, "# HELP %s %s\n", metric.name, metric.help)
		fmt.Fprintf(w, "# TYPE %s counter\n", metric.name)
		fmt.Fprintf(w, "%s %d\n", metric.name, metric.value)
	}
}

// StartServer starts the metrics HTTP server.
func (m *Metrics) StartServer(port int, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, m)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})

	addr := fmt.Sprintf(":%d", port)
	m.logger.Info("metrics server starting", "addr", addr, "path", path)

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			m.logger.Error("metrics server error", "error", err)
		}
	}()

	return nil
}

// Snapshot returns all counters as a map.
func (m *Metrics) Snapshot() map[string]int64 {
	return map[string]int64{
		"analyses_total":    m.AnalysesTotal.Load(),
		"comparisons_total": m.ComparisonsTotal.Load(),
		"requests_failed":   m.RequestsFailed.Load(),
		"fetch_failures":    m.FetchFailures.Load(),
		"model_failures":    m.ModelFailures.Load(),
		"degraded_results":  m.DegradedResults.Load(),
		"nodata_results":    m.NoDataResults.Load(),
		"reviews_analyzed":  m.ReviewsAnalyzed.Load(),
		"signups_total":     m.SignupsTotal.Load(),
		"logins_total":      m.LoginsTotal.Load(),
	}
}
