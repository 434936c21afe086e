package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"reviewlens/internal/auth"
	"reviewlens/internal/config"
	"reviewlens/internal/observability"
	"reviewlens/internal/parser"
	"reviewlens/internal/storage"
	"reviewlens/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

const testProductPage = `<html><body>
  <span id="productTitle">Acme Earbuds</span>
  <div class="a-price"><span class="a-offscreen">$79.99</span></div>
  <span class="a-icon-alt">4.5 out of 5 stars</span>
</body></html>`

type fakeFetcher struct {
	pages map[string][]byte
	err   error
}

func (f *fakeFetcher) FetchHTML(_ context.Context, url string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	if page, ok := f.pages[url]; ok {
		return page, nil
	}
	return []byte("<html><body>empty</body></html>"), nil
}

func (f *fakeFetcher) Close() error { return nil }
func (f *fakeFetcher) Type() string { return "fake" }

type fakeReviews struct {
	reviews map[string][]types.Review
	err     error
}

func (f *fakeReviews) FetchReviews(_ context.Context, url string) ([]types.Review, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.reviews[url], nil
}

type fakeAnalyzer struct {
	result *types.AnalysisResult
	err    error
}

func (f *fakeAnalyzer) Analyze(_ context.Context, reviews []types.Review) (*types.AnalysisResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(reviews) == 0 {
		return types.NoDataResult(), nil
	}
	result := *f.result
	result.TotalReviewsAnalyzed = len(reviews)
	return &result, nil
}

type testHarness struct {
	server  *Server
	store   *storage.MemoryStorage
	metrics *observability.Metrics
}

func newHarness(t *testing.T, deps Deps) *testHarness {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Server.RequestTimeout = 5 * time.Second

	store := storage.NewMemoryStorage(testLogger)
	metrics := observability.NewMetrics(testLogger)

	if deps.Parser == nil {
		deps.Parser = parser.New(nil, testLogger)
	}
	if deps.Auth == nil {
		deps.Auth = auth.New(store, config.AuthConfig{
			JWTSecret: "test-secret",
			TokenTTL:  time.Hour,
		}, testLogger)
	}
	deps.Store = store
	deps.Metrics = metrics

	return &testHarness{
		server:  NewServer(cfg, deps, testLogger),
		store:   store,
		metrics: metrics,
	}
}

func (h *testHarness) request(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.server.Handler().ServeHTTP(rec, req)
	return rec
}

func happyDeps() Deps {
	const url = "https://shop.example.com/dp/B00TEST"
	return Deps{
		Fetcher: &fakeFetcher{pages: map[string][]byte{url: []byte(testProductPage)}},
		Reviews: &fakeReviews{reviews: map[string][]types.Review{
			url: {{Text: "great"}, {Text: "bad"}},
		}},
		Analyzer: &fakeAnalyzer{result: &types.AnalysisResult{
			PositivePercent: 80,
			NegativePercent: 20,
			Pros:            []types.KeywordFinding{{Phrase: "battery life", Examples: []string{"Great battery life"}}},
			Cons:            []types.KeywordFinding{},
		}},
	}
}

func TestHealth(t *testing.T) {
	h := newHarness(t, happyDeps())
	rec := h.request(t, http.MethodGet, "/api/health", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestAnalyzeHappyPath(t *testing.T) {
	h := newHarness(t, happyDeps())

	rec := h.request(t, http.MethodPost, "/api/analyze",
		map[string]string{"url": "https://shop.example.com/dp/B00TEST"}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var scored types.ScoredProduct
	if err := json.Unmarshal(rec.Body.Bytes(), &scored); err != nil {
		t.Fatal(err)
	}
	if scored.Name != "Acme Earbuds" {
		t.Errorf("product name = %q", scored.Name)
	}
	if scored.Analysis == nil || scored.Analysis.TotalReviewsAnalyzed != 2 {
		t.Errorf("analysis = %+v", scored.Analysis)
	}
	// 4.5 stars and 80% positive: (4.5/5*10)*0.6 + 8*0.4 = 8.6
	if scored.OverallScore != 8.6 {
		t.Errorf("overall_score = %v, want 8.6", scored.OverallScore)
	}
	if h.metrics.AnalysesTotal.Load() != 1 {
		t.Error("analyses counter not incremented")
	}
}

func TestAnalyzeRejectsBadURL(t *testing.T) {
	h := newHarness(t, happyDeps())

	rec := h.request(t, http.MethodPost, "/api/analyze",
		map[string]string{"url": "ftp://nope"}, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["error"] == "" {
		t.Error("expected an error payload")
	}
}

func TestAnalyzeUnknownProductIs404(t *testing.T) {
	deps := happyDeps()
	deps.Reviews = &fakeReviews{}
	h := newHarness(t, deps)

	rec := h.request(t, http.MethodPost, "/api/analyze",
		map[string]string{"url": "https://shop.example.com/dp/MISSING"}, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
}

func TestAnalyzeNoReviewsYieldsNoData(t *testing.T) {
	deps := happyDeps()
	deps.Reviews = &fakeReviews{}
	h := newHarness(t, deps)

	// Product page parses fine, reviews come back empty.
	rec := h.request(t, http.MethodPost, "/api/analyze",
		map[string]string{"url": "https://shop.example.com/dp/B00TEST"}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var scored types.ScoredProduct
	if err := json.Unmarshal(rec.Body.Bytes(), &scored); err != nil {
		t.Fatal(err)
	}
	if scored.Analysis == nil || !scored.Analysis.NoData {
		t.Errorf("expected no-data analysis, got %+v", scored.Analysis)
	}
	if h.metrics.NoDataResults.Load() != 1 {
		t.Error("no-data counter not incremented")
	}
}

func TestAnalyzeModelFailureIs503(t *testing.T) {
	deps := happyDeps()
	deps.Analyzer = &fakeAnalyzer{err: &types.ModelError{Task: "classify", Err: context.DeadlineExceeded}}
	h := newHarness(t, deps)

	rec := h.request(t, http.MethodPost, "/api/analyze",
		map[string]string{"url": "https://shop.example.com/dp/B00TEST"}, "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if h.metrics.ModelFailures.Load() != 1 {
		t.Error("model failure counter not incremented")
	}
}

func TestCompare(t *testing.T) {
	const urlA = "https://shop.example.com/dp/AAA"
	const urlB = "https://shop.example.com/dp/BBB"

	pageB := `<html><body>
	  <span id="productTitle">Rival Earbuds</span>
	  <div class="a-price"><span class="a-offscreen">$59.99</span></div>
	  <span class="a-icon-alt">3.5 out of 5 stars</span>
	</body></html>`

	deps := happyDeps()
	deps.Fetcher = &fakeFetcher{pages: map[string][]byte{
		urlA: []byte(testProductPage),
		urlB: []byte(pageB),
	}}
	deps.Reviews = &fakeReviews{reviews: map[string][]types.Review{
		urlA: {{Text: "great"}},
		urlB: {{Text: "fine"}},
	}}
	h := newHarness(t, deps)

	rec := h.request(t, http.MethodPost, "/api/compare",
		map[string]string{"url_a": urlA, "url_b": urlB}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var result types.ComparisonResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.Winner != types.WinnerA {
		t.Errorf("winner = %q, want A", result.Winner)
	}
	if len(result.KeyDifferences) == 0 {
		t.Error("expected key differences")
	}
}

func TestCompareRejectsSameURL(t *testing.T) {
	h := newHarness(t, happyDeps())
	rec := h.request(t, http.MethodPost, "/api/compare",
		map[string]string{"url_a": "https://a.example.com", "url_b": "https://a.example.com"}, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHistoryRequiresAuth(t *testing.T) {
	h := newHarness(t, happyDeps())

	rec := h.request(t, http.MethodGet, "/api/history", nil, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestSignupAnalyzeHistoryFlow(t *testing.T) {
	h := newHarness(t, happyDeps())

	rec := h.request(t, http.MethodPost, "/api/auth/signup",
		map[string]string{"email": "a@example.com", "password": "longenough"}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup status = %d, body %s", rec.Code, rec.Body)
	}
	var signup map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &signup); err != nil {
		t.Fatal(err)
	}
	token := signup["token"]
	if token == "" {
		t.Fatal("no token in signup response")
	}

	rec = h.request(t, http.MethodPost, "/api/analyze",
		map[string]string{"url": "https://shop.example.com/dp/B00TEST"}, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("analyze status = %d", rec.Code)
	}

	rec = h.request(t, http.MethodGet, "/api/history", nil, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("history status = %d", rec.Code)
	}
	var records []types.HistoryRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d history records, want 1", len(records))
	}
	if records[0].Kind != storage.KindAnalysis || records[0].Product == nil {
		t.Errorf("record = %+v", records[0])
	}
}

func TestLoginWrongPasswordIs401(t *testing.T) {
	h := newHarness(t, happyDeps())

	rec := h.request(t, http.MethodPost, "/api/auth/signup",
		map[string]string{"email": "a@example.com", "password": "longenough"}, "")
	if rec.Code != http.StatusCreated {
		t.Fatal("signup failed")
	}

	rec = h.request(t, http.MethodPost, "/api/auth/login",
		map[string]string{"email": "a@example.com", "password": "wrongwrong"}, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}

	rec = h.request(t, http.MethodPost, "/api/auth/signup",
		map[string]string{"email": "a@example.com", "password": "longenough"}, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate signup status = %d", rec.Code)
	}
}
