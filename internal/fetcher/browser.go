package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"reviewlens/internal/config"
	"reviewlens/internal/types"
)

// BrowserFetcher implements Fetcher using a headless browser via Rod.
// Retail product pages assemble price and rating client-side, so this
// is the default fetcher type.
type BrowserFetcher struct {
	browser  *rod.Browser
	cfg      *config.FetcherConfig
	logger   *slog.Logger
	pagePool chan *rod.Page
	maxPages int
}

// NewBrowserFetcher launches a headless Chromium instance and connects
// to it.
func NewBrowserFetcher(cfg *config.Config, logger *slog.Logger) (*BrowserFetcher, error) {
	bf := &BrowserFetcher{
		cfg:      &cfg.Fetcher,
		logger:   logger.With("component", "browser_fetcher"),
		maxPages: cfg.Fetcher.MaxPages,
	}
	if bf.maxPages < 1 {
		bf.maxPages = 1
	}

	l := launcher.New().
		Headless(true).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-sandbox").
		Set("disable-setuid-sandbox").
		Set("disable-blink-features", "AutomationControlled")

	launchURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(launchURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	bf.browser = browser
	bf.pagePool = make(chan *rod.Page, bf.maxPages)

	bf.logger.Info("browser fetcher ready",
		"max_pages", bf.maxPages,
		"stealth", cfg.Fetcher.Stealth,
	)
	return bf, nil
}

// FetchHTML navigates to a URL and returns the rendered page content.
func (bf *BrowserFetcher) FetchHTML(ctx context.Context, url string) ([]byte, error) {
	start := time.Now()

	page, err := bf.getPage()
	if err != nil {
		return nil, &types.FetchError{URL: url, Err: err}
	}
	defer bf.putPage(page)

	if len(bf.cfg.UserAgents) > 0 {
		err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent: bf.cfg.UserAgents[0],
		})
		if err != nil {
			bf.logger.Warn("failed to set user agent", "error", err)
		}
	}

	page = page.Context(ctx)

	if err := page.Timeout(bf.cfg.PageTimeout).Navigate(url); err != nil {
		return nil, &types.FetchError{URL: url, Err: err}
	}

	// Give dynamically rendered price/rating widgets a chance to land.
	if err := page.Timeout(bf.cfg.PageTimeout).WaitStable(300 * time.Millisecond); err != nil {
		bf.logger.Warn("page stability timeout, continuing", "url", url, "error", err)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, &types.FetchError{URL: url, Err: err}
	}

	bf.logger.Debug("browser fetch complete",
		"url", url,
		"size", len(html),
		"duration", time.Since(start),
	)
	return []byte(html), nil
}

// Close shuts down the browser and releases resources.
func (bf *BrowserFetcher) Close() error {
	close(bf.pagePool)
	for page := range bf.pagePool {
		_ = page.Close()
	}
	if bf.browser != nil {
		return bf.browser.Close()
	}
	return nil
}

// Type returns the fetcher type identifier.
func (bf *BrowserFetcher) Type() string {
	return "browser"
}

// getPage retrieves a page from the pool or creates a new one. Stealth
// pages carry fingerprint patches that keep retail sites from serving
// the bot-wall variant of the page.
func (bf *BrowserFetcher) getPage() (*rod.Page, error) {
	select {
	case page := <-bf.pagePool:
		return page, nil
	default:
	}
	if bf.cfg.Stealth {
		return stealth.Page(bf.browser)
	}
	return bf.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
}

// putPage returns a page to the pool.
func (bf *BrowserFetcher) putPage(page *rod.Page) {
	// Navigate to blank to free memory from the last page
	_ = page.Navigate("about:blank")

	select {
	case bf.pagePool <- page:
	default:
		_ = page.Close() // Pool full, close the page
	}
}

// New creates the fetcher named by cfg.Fetcher.Type.
func New(cfg *config.Config, logger *slog.Logger) (Fetcher, error) {
	switch cfg.Fetcher.Type {
	case "browser":
		return NewBrowserFetcher(cfg, logger)
	case "http":
		return NewHTTPFetcher(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown fetcher type %q", cfg.Fetcher.Type)
	}
}
