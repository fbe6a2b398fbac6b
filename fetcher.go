package docchat

import "context"

// Fetcher retrieves HTML from URLs.
type Fetcher interface {
	// Fetch returns the page body as UTF-8 HTML.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}
