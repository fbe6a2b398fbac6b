// Package crawl downloads a documentation root page and every page it
// links to, one level deep.
package crawl

import (
	"context"
	"fmt"

	"github.com/fwojciec/docchat"
	"golang.org/x/sync/errgroup"
)

// Crawler downloads the pages linked from a root page.
type Crawler struct {
	Fetcher     docchat.Fetcher
	Links       docchat.LinkExtractor
	Pages       docchat.PageStore
	RateLimiter docchat.DomainLimiter

	// Concurrency bounds parallel page fetches. Defaults to 1.
	Concurrency int

	// Policy bounds every fetch.
	Policy docchat.CallPolicy

	// Dedupe skips links already seen on the root page.
	Dedupe bool
}

// Result holds the outcome of a crawl.
type Result struct {
	Links    int
	Saved    int
	Failed   int
	Bytes    int
	Failures []Failure
}

// Failure records a page that could not be downloaded.
type Failure struct {
	URL string
	Err error
}

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Path      string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

type pageResult struct {
	url   string
	path  string
	bytes int
	err   error
}

// Crawl fetches rootURL, extracts its links and downloads every linked page.
// A failure to fetch the root page aborts the crawl. Failures of individual
// pages are reported and counted but do not stop the remaining downloads.
func (c *Crawler) Crawl(ctx context.Context, rootURL string, progress ProgressFunc) (*Result, error) {
	if progress == nil {
		progress = func(ProgressEvent) {}
	}

	html, err := c.fetch(ctx, rootURL)
	if err != nil {
		return nil, fmt.Errorf("fetch root page %s: %w", rootURL, err)
	}

	links, err := c.Links.ExtractLinks(html, rootURL)
	if err != nil {
		return nil, fmt.Errorf("extract links: %w", err)
	}
	if c.Dedupe {
		links = dedupe(links)
	}

	total := len(links)
	result := &Result{Links: total}
	progress(ProgressEvent{Type: ProgressStarted, Total: total})

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	resultCh := make(chan pageResult)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for _, link := range links {
			g.Go(func() error {
				resultCh <- c.download(gctx, link)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	completed := 0
	for r := range resultCh {
		completed++
		if r.err != nil {
			result.Failed++
			result.Failures = append(result.Failures, Failure{URL: r.url, Err: r.err})
			progress(ProgressEvent{
				Type:      ProgressFailed,
				Completed: completed,
				Total:     total,
				URL:       r.url,
				Error:     r.err,
			})
			continue
		}
		result.Saved++
		result.Bytes += r.bytes
		progress(ProgressEvent{
			Type:      ProgressCompleted,
			Completed: completed,
			Total:     total,
			URL:       r.url,
			Path:      r.path,
		})
	}

	progress(ProgressEvent{Type: ProgressFinished, Completed: completed, Total: total})

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

func (c *Crawler) download(ctx context.Context, link string) pageResult {
	r := pageResult{url: link}

	html, err := c.fetch(ctx, link)
	if err != nil {
		r.err = err
		return r
	}

	path, err := c.Pages.Save(ctx, &docchat.Page{URL: link, Content: html})
	if err != nil {
		r.err = fmt.Errorf("save: %w", err)
		return r
	}

	r.path = path
	r.bytes = len(html)
	return r
}

// fetch fetches url under the rate limiter and call policy.
func (c *Crawler) fetch(ctx context.Context, url string) (string, error) {
	return docchat.Call(ctx, c.Policy, func(ctx context.Context) (string, error) {
		if err := waitURL(ctx, c.RateLimiter, url); err != nil {
			return "", err
		}
		return c.Fetcher.Fetch(ctx, url)
	})
}

func dedupe(links []string) []string {
	seen := make(map[string]struct{}, len(links))
	out := make([]string, 0, len(links))
	for _, l := range links {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}
