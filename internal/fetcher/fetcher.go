package fetcher

import "context"

// Fetcher retrieves the rendered HTML of a product page.
type Fetcher interface {
	// FetchHTML retrieves the page content at url.
	FetchHTML(ctx context.Context, url string) ([]byte, error)

	// Close releases any resources held by the fetcher.
	Close() error

	// Type returns the fetcher type identifier.
	Type() string
}
