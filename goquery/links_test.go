package goquery_test

import (
	"testing"

	"github.com/fwojciec/docchat"
	"github.com/fwojciec/docchat/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkExtractor_ExtractLinks(t *testing.T) {
	t.Parallel()

	const base = "https://api.python.langchain.com/en/latest/api_reference.html"

	t.Run("keeps only html links resolved against the page", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><link rel="stylesheet" href="_static/style.css"></head><body>
<a href="agents/langchain.agents.Agent.html">Agent</a>
<a href="/en/latest/chains.html">Chains</a>
<a href="#section">Anchor</a>
<a href="https://python.langchain.com/docs/get_started.html">External</a>
<a href="image.png">Image</a>
<a href="page.html#frag">Fragment</a>
</body></html>`

		links, err := goquery.NewLinkExtractor().ExtractLinks(html, base)

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://api.python.langchain.com/en/latest/agents/langchain.agents.Agent.html",
			"https://api.python.langchain.com/en/latest/chains.html",
			"https://python.langchain.com/docs/get_started.html",
		}, links)
	})

	t.Run("includes hrefs on non-anchor elements", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><link rel="next" href="next.html"></head><body><area href="map.html"></body></html>`

		links, err := goquery.NewLinkExtractor().ExtractLinks(html, base)

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://api.python.langchain.com/en/latest/next.html",
			"https://api.python.langchain.com/en/latest/map.html",
		}, links)
	})

	t.Run("keeps duplicates in document order", func(t *testing.T) {
		t.Parallel()

		html := `<a href="b.html">b</a><a href="a.html">a</a><a href="b.html">b again</a>`

		links, err := goquery.NewLinkExtractor().ExtractLinks(html, "https://x.com/")

		require.NoError(t, err)
		assert.Equal(t, []string{"https://x.com/b.html", "https://x.com/a.html", "https://x.com/b.html"}, links)
	})

	t.Run("no links", func(t *testing.T) {
		t.Parallel()

		links, err := goquery.NewLinkExtractor().ExtractLinks(`<p>nothing</p>`, base)

		require.NoError(t, err)
		assert.Empty(t, links)
	})

	t.Run("invalid base URL", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.NewLinkExtractor().ExtractLinks(`<a href="a.html">a</a>`, "://bad")

		assert.Equal(t, docchat.EINVALID, docchat.ErrorCode(err))
	})
}
