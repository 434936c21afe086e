package ml

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"reviewlens/internal/config"
	"reviewlens/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func TestTruncate(t *testing.T) {
	tests := []struct {
		input string
		max   int
		want  string
	}{
		{"hello world", 5, "hello"},
		{"hello", 10, "hello"},
		{"hello", 0, "hello"},
		{"héllo wörld", 4, "héll"},
		{"", 5, ""},
	}
	for _, tt := range tests {
		if got := Truncate(tt.input, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.want)
		}
	}
}

func newTestService(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST /classify", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Texts []string `json:"texts"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		labels := make([]string, len(body.Texts))
		for i, text := range body.Texts {
			if strings.Contains(text, "love") {
				labels[i] = "POSITIVE"
			} else {
				labels[i] = "NEGATIVE"
			}
		}
		json.NewEncoder(w).Encode(map[string]any{"labels": labels})
	})
	mux.HandleFunc("POST /summarize", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"summary": "a summary"})
	})
	return httptest.NewServer(mux)
}

func newTestClient(t *testing.T, endpoint string) *Client {
	t.Helper()
	c := NewClient(config.ModelsConfig{
		Endpoint:      endpoint,
		Timeout:       5 * time.Second,
		MaxInputRunes: 2000,
		ClassifyBatch: 2,
	}, testLogger)
	if err := c.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	return c
}

func TestClassifyPreservesOrder(t *testing.T) {
	srv := newTestService(t)
	defer srv.Close()
	c := newTestClient(t, srv.URL)

	// Five texts across a batch size of two exercises batch splits.
	labels, err := c.Classify(context.Background(), []string{
		"love it", "hate it", "love the screen", "broken", "love everything",
	})
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	want := []types.SentimentLabel{
		types.SentimentPositive, types.SentimentNegative,
		types.SentimentPositive, types.SentimentNegative,
		types.SentimentPositive,
	}
	if len(labels) != len(want) {
		t.Fatalf("got %d labels, want %d", len(labels), len(want))
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("label[%d] = %q, want %q", i, labels[i], want[i])
		}
	}
}

func TestClassifyRequiresInit(t *testing.T) {
	c := NewClient(config.ModelsConfig{Endpoint: "http://localhost:0"}, testLogger)
	_, err := c.Classify(context.Background(), []string{"text"})
	if err == nil {
		t.Fatal("expected error before Init")
	}
	var modelErr *types.ModelError
	if !errors.As(err, &modelErr) {
		t.Fatalf("expected ModelError, got %T", err)
	}
	if !errors.Is(err, types.ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	srv := newTestService(t)
	defer srv.Close()
	c := newTestClient(t, srv.URL)

	summary, err := c.Summarize(context.Background(), "long review text", 100, 40)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if summary != "a summary" {
		t.Errorf("unexpected summary %q", summary)
	}
}
