// Package readability implements docchat.Extractor using go-readability.
package readability

import (
	"strings"

	"github.com/fwojciec/docchat"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements docchat.Extractor at compile time.
var _ docchat.Extractor = (*Extractor)(nil)

// Extractor extracts the article body of a page with Mozilla's Readability
// heuristics.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract implements docchat.Extractor. Blank input yields an empty result.
func (e *Extractor) Extract(rawHTML string) (*docchat.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return &docchat.ExtractResult{}, nil
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, docchat.Errorf(docchat.EINVALID, "extract content: %v", err)
	}

	return &docchat.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
