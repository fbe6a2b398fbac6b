package htmltomarkdown_test

import (
	"testing"

	"github.com/fwojciec/docchat/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts headings and paragraphs", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<h1>Agents</h1><p>An agent uses a <strong>language model</strong>.</p>`)

		require.NoError(t, err)
		assert.Equal(t, "# Agents\n\nAn agent uses a **language model**.", md)
	})

	t.Run("converts code blocks", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<pre><code>chain.invoke("hi")</code></pre>`)

		require.NoError(t, err)
		assert.Contains(t, md, "```")
		assert.Contains(t, md, `chain.invoke("hi")`)
	})

	t.Run("converts tables", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<table><tr><th>Param</th><th>Type</th></tr><tr><td>k</td><td>int</td></tr></table>`)

		require.NoError(t, err)
		assert.Contains(t, md, "Param")
		assert.Contains(t, md, "int")
		assert.Contains(t, md, "---")
	})

	t.Run("blank input", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert("   ")

		require.NoError(t, err)
		assert.Empty(t, md)
	})
}
