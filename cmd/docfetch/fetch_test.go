package main_test

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/fwojciec/docchat"
	main "github.com/fwojciec/docchat/cmd/docfetch"
	"github.com/fwojciec/docchat/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rootURL = "https://api.python.langchain.com/en/latest/api_reference.html"

// site serves a root page linking to pages; pages listed in missing fail
// with ENOTFOUND.
func site(pages []string, missing map[string]bool) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			if url == rootURL {
				return "<root>", nil
			}
			if missing[url] {
				return "", docchat.Errorf(docchat.ENOTFOUND, "%s: 404 Not Found", url)
			}
			return "<html>" + url + "</html>", nil
		},
		CloseFn: func() error { return nil },
	}
}

func links(pages []string) *mock.LinkExtractor {
	return &mock.LinkExtractor{
		ExtractLinksFn: func(string, string) ([]string, error) {
			return pages, nil
		},
	}
}

// store keeps saved pages in memory.
type store struct {
	mu    sync.Mutex
	saved []string
}

func (s *store) mock() *mock.PageStore {
	return &mock.PageStore{
		SaveFn: func(_ context.Context, page *docchat.Page) (string, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			path := "langchain-docs/" + page.URL[strings.LastIndex(page.URL, "/")+1:]
			s.saved = append(s.saved, path)
			return path, nil
		},
	}
}

func TestFetchCmd_Run(t *testing.T) {
	t.Parallel()

	pages := []string{
		"https://api.python.langchain.com/en/latest/a.html",
		"https://api.python.langchain.com/en/latest/b.html",
		"https://api.python.langchain.com/en/latest/c.html",
		"https://api.python.langchain.com/en/latest/d.html",
		"https://api.python.langchain.com/en/latest/e.html",
	}

	t.Run("downloads every linked page", func(t *testing.T) {
		t.Parallel()

		s := &store{}
		var stdout, stderr bytes.Buffer
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &stdout,
			Stderr:  &stderr,
			Fetcher: site(pages, nil),
			Links:   links(pages),
			Pages:   s.mock(),
		}

		err := (&main.FetchCmd{URL: rootURL, Dir: "langchain-docs", Concurrency: 1}).Run(deps)

		require.NoError(t, err)
		assert.Len(t, s.saved, 5)
		assert.Contains(t, stdout.String(), "Downloaded: langchain-docs/a.html\n")
		assert.Contains(t, stdout.String(), "Saved 5 of 5 pages")
		assert.Empty(t, stderr.String())
	})

	t.Run("one failed page does not stop the rest but fails the run", func(t *testing.T) {
		t.Parallel()

		s := &store{}
		var stdout, stderr bytes.Buffer
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &stdout,
			Stderr:  &stderr,
			Fetcher: site(pages, map[string]bool{pages[2]: true}),
			Links:   links(pages),
			Pages:   s.mock(),
		}

		err := (&main.FetchCmd{URL: rootURL, Dir: "langchain-docs", Concurrency: 2}).Run(deps)

		require.Error(t, err)
		assert.Len(t, s.saved, 4)
		assert.Contains(t, stderr.String(), "Failed to download: "+pages[2])
		assert.Contains(t, stderr.String(), "1 of 5 pages failed")
		assert.Equal(t, 4, strings.Count(stdout.String(), "Downloaded: "))
	})

	t.Run("root page failure aborts", func(t *testing.T) {
		t.Parallel()

		s := &store{}
		var stdout, stderr bytes.Buffer
		fetcher := &mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) {
				return "", docchat.Errorf(docchat.EUNAUTHORIZED, "403 Forbidden")
			},
		}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &stdout,
			Stderr:  &stderr,
			Fetcher: fetcher,
			Links:   links(pages),
			Pages:   s.mock(),
		}

		err := (&main.FetchCmd{URL: rootURL, Dir: "langchain-docs", Concurrency: 1}).Run(deps)

		assert.Equal(t, docchat.EUNAUTHORIZED, docchat.ErrorCode(err))
		assert.Empty(t, s.saved)
		assert.Contains(t, stderr.String(), "error: 403 Forbidden")
	})

	t.Run("preview lists links without saving", func(t *testing.T) {
		t.Parallel()

		s := &store{}
		var stdout, stderr bytes.Buffer
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &stdout,
			Stderr:  &stderr,
			Fetcher: site(pages, nil),
			Links:   links(pages),
			Detector: &mock.FrameworkDetector{
				DetectFn: func(string) docchat.Framework { return docchat.FrameworkSphinx },
			},
			Pages: s.mock(),
		}

		err := (&main.FetchCmd{URL: rootURL, Preview: true}).Run(deps)

		require.NoError(t, err)
		assert.Empty(t, s.saved)
		assert.Equal(t, strings.Join(pages, "\n")+"\n", stdout.String())
		assert.Contains(t, stderr.String(), "Detected framework: sphinx")
	})
}
