package main

import (
	"context"
	"fmt"

	"github.com/fwojciec/docchat"
	"github.com/fwojciec/docchat/crawl"
)

// Run executes the fetch command.
func (c *FetchCmd) Run(deps *Dependencies) error {
	if c.Preview {
		return c.runPreview(deps)
	}
	return c.runFetch(deps)
}

// runPreview prints the detected framework and every link that a full run
// would download.
func (c *FetchCmd) runPreview(deps *Dependencies) error {
	html, err := docchat.Call(deps.Ctx, deps.Policy, func(ctx context.Context) (string, error) {
		return deps.Fetcher.Fetch(ctx, c.URL)
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", describe(err))
		return err
	}

	links, err := deps.Links.ExtractLinks(html, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", describe(err))
		return err
	}

	if deps.Detector != nil {
		if framework := deps.Detector.Detect(html); framework != docchat.FrameworkUnknown {
			fmt.Fprintf(deps.Stderr, "Detected framework: %s\n", framework)
		}
	}
	for _, link := range links {
		fmt.Fprintln(deps.Stdout, link)
	}
	fmt.Fprintf(deps.Stderr, "%d links\n", len(links))
	return nil
}

func (c *FetchCmd) runFetch(deps *Dependencies) error {
	crawler := &crawl.Crawler{
		Fetcher:     deps.Fetcher,
		Links:       deps.Links,
		Pages:       deps.Pages,
		RateLimiter: deps.Limiter,
		Concurrency: c.Concurrency,
		Policy:      deps.Policy,
		Dedupe:      c.Dedupe,
	}

	progress := func(e crawl.ProgressEvent) {
		switch e.Type {
		case crawl.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "Downloaded: %s\n", e.Path)
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "Failed to download: %s\n", e.URL)
		}
	}

	result, err := crawler.Crawl(deps.Ctx, c.URL, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", describe(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Saved %d of %d pages (%s) to %s\n",
		result.Saved, result.Links, docchat.FormatBytes(result.Bytes), c.Dir)

	if result.Failed > 0 {
		err := docchat.Errorf(docchat.EUNAVAILABLE, "%d of %d pages failed to download", result.Failed, result.Links)
		fmt.Fprintf(deps.Stderr, "error: %s\n", docchat.ErrorMessage(err))
		return err
	}
	return nil
}

// describe prefers the application message of coded errors and falls back
// to the full error text.
func describe(err error) string {
	if docchat.ErrorCode(err) == docchat.EINTERNAL && docchat.ErrorMessage(err) == "Internal error." {
		return err.Error()
	}
	return docchat.ErrorMessage(err)
}
