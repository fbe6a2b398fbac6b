package goquery

import (
	"strings"

	"github.com/fwojciec/docchat"
)

var _ docchat.Converter = (*TextConverter)(nil)

// TextConverter converts HTML to plain text, dropping scripts, styles and
// blank lines.
type TextConverter struct{}

// NewTextConverter creates a new TextConverter.
func NewTextConverter() *TextConverter {
	return &TextConverter{}
}

// Convert implements docchat.Converter.
func (c *TextConverter) Convert(html string) (string, error) {
	if html == "" {
		return "", nil
	}

	doc, err := parse(html)
	if err != nil {
		return "", err
	}
	doc.Find("script, style, noscript, template").Remove()

	lines := strings.Split(doc.Text(), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n"), nil
}
