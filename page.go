package docchat

import "context"

// Page is one downloaded documentation page.
type Page struct {
	URL string

	// Name is the file name the page is stored under.
	Name string

	Content string // HTML
}

// PageStore persists downloaded pages.
type PageStore interface {
	// Save writes the page and returns the path it was written to.
	Save(ctx context.Context, page *Page) (string, error)
}
