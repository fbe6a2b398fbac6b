// Package http provides an HTTP-based implementation of docchat.Fetcher
// for downloading documentation pages that don't require JavaScript rendering.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/docchat"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// DefaultUserAgent identifies docchat to documentation servers.
const DefaultUserAgent = "docchat/1.0 (+https://github.com/fwojciec/docchat)"

// Ensure Fetcher implements docchat.Fetcher at compile time.
var _ docchat.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using HTTP GET requests.
// Bodies are transcoded to UTF-8 based on the response's declared or
// sniffed charset.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the HTML content from the given URL.
// Non-2xx responses are returned as coded errors, see StatusError.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", docchat.Errorf(docchat.EINVALID, "invalid url %q: %v", url, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", StatusError(resp.StatusCode, url)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return toUTF8(b, resp.Header.Get("Content-Type"), url)
}

// toUTF8 returns valid UTF-8 bodies unchanged and transcodes anything else
// using the declared or sniffed charset.
func toUTF8(b []byte, contentType, url string) (string, error) {
	if utf8.Valid(b) {
		return string(b), nil
	}
	enc, _, _ := charset.DetermineEncoding(b, contentType)
	decoded, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", url, err)
	}
	return string(decoded), nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

// StatusError maps a non-2xx HTTP status to a docchat error code.
func StatusError(status int, url string) error {
	code := docchat.EINVALID
	switch {
	case status == http.StatusNotFound || status == http.StatusGone:
		code = docchat.ENOTFOUND
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		code = docchat.EUNAUTHORIZED
	case status == http.StatusTooManyRequests || status == http.StatusRequestTimeout || status >= 500:
		code = docchat.EUNAVAILABLE
	}
	return docchat.Errorf(code, "HTTP %d for %s", status, url)
}
