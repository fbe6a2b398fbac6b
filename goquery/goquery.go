// Package goquery implements HTML parsing for docchat using goquery:
// link extraction for the crawler, framework detection, main content
// extraction and plain-text conversion for ingestion.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docchat"
)

func parse(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, docchat.Errorf(docchat.EINVALID, "failed to parse HTML: %v", err)
	}
	return doc, nil
}
