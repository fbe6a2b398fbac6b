package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docchat"
)

var _ docchat.LinkExtractor = (*LinkExtractor)(nil)

// DefaultLinkSuffix selects links to HTML pages.
const DefaultLinkSuffix = ".html"

// LinkExtractor returns the href of every element whose href ends in
// Suffix, resolved against the page URL. Links keep document order and
// are not deduplicated or filtered by host.
type LinkExtractor struct {
	Suffix string
}

// NewLinkExtractor creates a LinkExtractor for ".html" links.
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{Suffix: DefaultLinkSuffix}
}

// ExtractLinks implements docchat.LinkExtractor.
func (e *LinkExtractor) ExtractLinks(html string, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, docchat.Errorf(docchat.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := parse(html)
	if err != nil {
		return nil, err
	}

	var links []string
	doc.Find("[href]").Each(func(_ int, sel *goquery.Selection) {
		href := sel.AttrOr("href", "")
		if !strings.HasSuffix(href, e.Suffix) {
			return
		}
		if resolved := resolveURL(base, href); resolved != "" {
			links = append(links, resolved)
		}
	})

	return links, nil
}

// resolveURL resolves href against base. Returns "" if href is not a valid URL.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
