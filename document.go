package docchat

import "context"

// Document represents a downloaded documentation page loaded from disk.
type Document struct {
	// Path is the slash-separated local path the page was loaded from.
	Path string `json:"path"`

	// Source identifies where the page came from. It starts out equal to
	// Path and is rewritten to a remote URL during ingestion.
	Source string `json:"source"`

	Title   string `json:"title"`
	Content string `json:"content"`
}

// DocumentLoader loads documents from a local tree of downloaded pages.
type DocumentLoader interface {
	// Load returns every document under the loader's root in lexical path order.
	// Returns ENOTFOUND if the root does not exist.
	Load(ctx context.Context) ([]*Document, error)
}
