package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"

	"reviewlens/internal/config"
	"reviewlens/internal/types"
)

// Client is an HTTP client for the model inference service. It
// implements both Classifier and Summarizer.
type Client struct {
	cfg    config.ModelsConfig
	client *http.Client
	logger *slog.Logger
	ready  atomic.Bool
}

// NewClient creates an inference client. Call Init before serving.
func NewClient(cfg config.ModelsConfig, logger *slog.Logger) *Client {
	return &Client{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.With("component", "ml_client"),
	}
}

// Init verifies the inference service is reachable and its models are
// loaded. It replaces import-time model loading with an explicit
// process-start lifecycle stage.
func (c *Client) Init(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Endpoint+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return &types.ModelError{Task: "init", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &types.ModelError{
			Task: "init",
			Err:  fmt.Errorf("inference service unhealthy (status %d): %s", resp.StatusCode, body),
		}
	}

	c.ready.Store(true)
	c.logger.Info("inference service ready", "endpoint", c.cfg.Endpoint)
	return nil
}

// Classify labels each text with a sentiment, preserving input order.
// Texts are head-truncated to the model's input limit first. Batches
// larger than the configured size are split.
func (c *Client) Classify(ctx context.Context, texts []string) ([]types.SentimentLabel, error) {
	if !c.ready.Load() {
		return nil, &types.ModelError{Task: "classify", Err: types.ErrNotInitialized}
	}
	if len(texts) == 0 {
		return nil, nil
	}

	truncated := make([]string, len(texts))
	for i, t := range texts {
		truncated[i] = Truncate(t, c.cfg.MaxInputRunes)
	}

	batch := c.cfg.ClassifyBatch
	if batch < 1 {
		batch = len(truncated)
	}

	labels := make([]types.SentimentLabel, 0, len(truncated))
	for start := 0; start < len(truncated); start += batch {
		end := start + batch
		if end > len(truncated) {
			end = len(truncated)
		}
		got, err := c.classifyBatch(ctx, truncated[start:end])
		if err != nil {
			return nil, err
		}
		labels = append(labels, got...)
	}
	return labels, nil
}

func (c *Client) classifyBatch(ctx context.Context, texts []string) ([]types.SentimentLabel, error) {
	var result struct {
		Labels []string `json:"labels"`
	}
	err := c.post(ctx, "/classify", map[string]any{"texts": texts}, &result)
	if err != nil {
		return nil, &types.ModelError{Task: "classify", Err: err}
	}
	if len(result.Labels) != len(texts) {
		return nil, &types.ModelError{
			Task: "classify",
			Err:  fmt.Errorf("got %d labels for %d texts", len(result.Labels), len(texts)),
		}
	}

	labels := make([]types.SentimentLabel, len(result.Labels))
	for i, l := range result.Labels {
		switch l {
		case "POSITIVE":
			labels[i] = types.SentimentPositive
		case "NEGATIVE":
			labels[i] = types.SentimentNegative
		default:
			labels[i] = types.SentimentNeutral
		}
	}
	return labels, nil
}

// Summarize generates a summary of text within the length bounds.
func (c *Client) Summarize(ctx context.Context, text string, maxLen, minLen int) (string, error) {
	if !c.ready.Load() {
		return "", &types.ModelError{Task: "summarize", Err: types.ErrNotInitialized}
	}

	var result struct {
		Summary string `json:"summary"`
	}
	payload := map[string]any{
		"text":       text,
		"max_length": maxLen,
		"min_length": minLen,
	}
	if err := c.post(ctx, "/summarize", payload, &result); err != nil {
		return "", &types.ModelError{Task: "summarize", Err: err}
	}
	return result.Summary, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("inference request %s failed (status %d): %s", path, resp.StatusCode, respBody)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
