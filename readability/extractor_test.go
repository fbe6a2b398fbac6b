package readability_test

import (
	"testing"

	"github.com/fwojciec/docchat/readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts article content", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Retrievers</title></head>
<body>
<div class="sidebar"><a href="/a">A</a><a href="/b">B</a></div>
<article>
<h1>Retrievers</h1>
<p>A retriever is an interface that returns documents given an unstructured query. It is more general than a vector store.</p>
<p>A retriever does not need to be able to store documents, only to return or retrieve them. Vector stores can be used as the backbone of a retriever.</p>
</article>
</body>
</html>`

		result, err := readability.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.Equal(t, "Retrievers", result.Title)
		assert.Contains(t, result.ContentHTML, "returns documents given an unstructured query")
	})

	t.Run("blank input yields empty result", func(t *testing.T) {
		t.Parallel()

		result, err := readability.NewExtractor().Extract("")

		require.NoError(t, err)
		assert.Empty(t, result.ContentHTML)
	})
}
