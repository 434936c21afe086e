// Package reviews fetches customer reviews from an actor-based
// scraping service compatible with the Apify REST API: start an actor
// run, poll it to completion, then page through the run's dataset.
package reviews

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"reviewlens/internal/config"
	"reviewlens/internal/types"
)

// Source fetches the reviews for a product URL.
type Source interface {
	FetchReviews(ctx context.Context, productURL string) ([]types.Review, error)
}

// Client talks to the actor service over its v2 REST API.
type Client struct {
	cfg    config.ReviewsConfig
	client *http.Client
	logger *slog.Logger
}

// NewClient creates a review source client.
func NewClient(cfg config.ReviewsConfig, logger *slog.Logger) *Client {
	return &Client{
		cfg: cfg,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger.With("component", "reviews_client"),
	}
}

// runInput is the actor input document.
type runInput struct {
	ProductURLs []productURL `json:"productUrls"`
	MaxReviews  int          `json:"maxReviews"`
	Sort        string       `json:"sort"`
}

type productURL struct {
	URL string `json:"url"`
}

// runStatus is the subset of the run document the client reads.
type runStatus struct {
	Data struct {
		ID               string `json:"id"`
		Status           string `json:"status"`
		DefaultDatasetID string `json:"defaultDatasetId"`
	} `json:"data"`
}

// datasetItem is one review row from the actor's dataset.
type datasetItem struct {
	ReviewTitle       string  `json:"reviewTitle"`
	ReviewDescription string  `json:"reviewDescription"`
	RatingScore       float64 `json:"ratingScore"`
	Date              string  `json:"date"`
	IsVerified        bool    `json:"isVerified"`
}

// FetchReviews runs the scraping actor for productURL and returns the
// collected reviews. An actor failure or run timeout is an error; a
// successful run with zero reviews is not.
func (c *Client) FetchReviews(ctx context.Context, productURL string) ([]types.Review, error) {
	start := time.Now()

	run, err := c.startRun(ctx, productURL)
	if err != nil {
		return nil, err
	}
	c.logger.Info("actor run started", "run_id", run.Data.ID, "url", productURL)

	run, err = c.waitForRun(ctx, run.Data.ID)
	if err != nil {
		return nil, err
	}

	items, err := c.datasetItems(ctx, run.Data.DefaultDatasetID)
	if err != nil {
		return nil, err
	}

	reviews := make([]types.Review, 0, len(items))
	for _, item := range items {
		r := types.NewReview(item.ReviewTitle, item.ReviewDescription)
		if r.Text == "" {
			continue
		}
		r.Rating = int(item.RatingScore)
		r.Date = item.Date
		r.Verified = item.IsVerified
		reviews = append(reviews, r)
	}

	c.logger.Info("reviews fetched",
		"url", productURL,
		"count", len(reviews),
		"duration", time.Since(start),
	)
	return reviews, nil
}

// startRun launches the actor with the configured input.
func (c *Client) startRun(ctx context.Context, pageURL string) (*runStatus, error) {
	input := runInput{
		ProductURLs: []productURL{{URL: pageURL}},
		MaxReviews:  c.cfg.MaxReviews,
		Sort:        c.cfg.Sort,
	}
	body, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("marshal run input: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/acts/%s/runs", c.cfg.Endpoint, c.cfg.ActorID)
	return c.runRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
}

// waitForRun polls the run until it reaches a terminal status or the
// configured run timeout expires.
func (c *Client) waitForRun(ctx context.Context, runID string) (*runStatus, error) {
	deadline := time.Now().Add(c.cfg.RunTimeout)
	endpoint := fmt.Sprintf("%s/v2/actor-runs/%s", c.cfg.Endpoint, runID)

	for {
		run, err := c.runRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}

		switch run.Data.Status {
		case "SUCCEEDED":
			return run, nil
		case "FAILED", "ABORTED", "TIMED-OUT":
			return nil, fmt.Errorf("actor run %s ended with status %s", runID, run.Data.Status)
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("actor run %s: %w after %s", runID, types.ErrTimeout, c.cfg.RunTimeout)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.cfg.PollDelay):
		}
	}
}

// datasetItems downloads the run's dataset in one page. MaxReviews
// bounds the run itself, so a single page is always enough.
func (c *Client) datasetItems(ctx context.Context, datasetID string) ([]datasetItem, error) {
	endpoint := fmt.Sprintf("%s/v2/datasets/%s/items?format=json", c.cfg.Endpoint, datasetID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &types.FetchError{URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(endpoint, resp)
	}

	var items []datasetItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode dataset items: %w", err)
	}
	return items, nil
}

// runRequest issues a request that returns a run document.
func (c *Client) runRequest(ctx context.Context, method, endpoint string, body io.Reader) (*runStatus, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &types.FetchError{URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, c.statusError(endpoint, resp)
	}

	var run runStatus
	if err := json.NewDecoder(resp.Body).Decode(&run); err != nil {
		return nil, fmt.Errorf("decode run document: %w", err)
	}
	return &run, nil
}

func (c *Client) statusError(endpoint string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &types.FetchError{
		URL:        endpoint,
		StatusCode: resp.StatusCode,
		Err:        fmt.Errorf("HTTP %d: %s", resp.StatusCode, body),
	}
}
