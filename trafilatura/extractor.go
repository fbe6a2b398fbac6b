// Package trafilatura implements docchat.Extractor using go-trafilatura.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/docchat"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements docchat.Extractor at compile time.
var _ docchat.Extractor = (*Extractor)(nil)

// Extractor extracts the main text-bearing region of a page with
// go-trafilatura, falling back to its readability and dom-distiller
// heuristics when the primary pass finds too little.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{
		opts: trafilatura.Options{
			EnableFallback:  true,
			ExcludeComments: true,
		},
	}
}

// Extract implements docchat.Extractor. Blank input yields an empty result.
func (e *Extractor) Extract(rawHTML string) (*docchat.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return &docchat.ExtractResult{}, nil
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return nil, docchat.Errorf(docchat.EINVALID, "extract content: %v", err)
	}

	out := &docchat.ExtractResult{Title: result.Metadata.Title}
	if result.ContentNode != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, err
		}
		out.ContentHTML = buf.String()
	}
	return out, nil
}
