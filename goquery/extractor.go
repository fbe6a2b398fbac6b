package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docchat"
)

var _ docchat.Extractor = (*Extractor)(nil)

// mainSelectors locate the main content of Read the Docs style pages and
// are tried before any framework-specific selector.
var mainSelectors = []string{"main#main-content", "div[role='main']"}

// contentSelectors locate the main content for each detected framework.
var contentSelectors = map[docchat.Framework]string{
	docchat.FrameworkDocusaurus: "article",
	docchat.FrameworkMkDocs:     "article.md-content__inner",
	docchat.FrameworkSphinx:     "div.body",
	docchat.FrameworkVitePress:  ".VPDoc .vp-doc",
	docchat.FrameworkVuePress:   ".theme-default-content",
	docchat.FrameworkGitBook:    "main",
	docchat.FrameworkNextra:     "article",
}

// Extractor selects the main content region of a documentation page.
// Pages with no recognizable content region yield empty content.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract implements docchat.Extractor.
func (e *Extractor) Extract(html string) (*docchat.ExtractResult, error) {
	doc, err := parse(html)
	if err != nil {
		return nil, err
	}

	result := &docchat.ExtractResult{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}

	main := findMain(doc)
	if main == nil {
		return result, nil
	}

	content, err := goquery.OuterHtml(main)
	if err != nil {
		return nil, docchat.Errorf(docchat.EINTERNAL, "failed to render content: %v", err)
	}
	result.ContentHTML = content
	return result, nil
}

func findMain(doc *goquery.Document) *goquery.Selection {
	for _, sel := range mainSelectors {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			return s
		}
	}
	if sel, ok := contentSelectors[detect(doc)]; ok {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			return s
		}
	}
	return nil
}
