// Package fs provides file-based storage for downloaded documentation pages.
package fs

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/fwojciec/docchat"
)

// Layout selects how downloaded pages are named on disk.
type Layout string

// Supported layouts.
const (
	// LayoutFlat writes every page directly into the output directory,
	// named after the last segment of its URL path.
	LayoutFlat Layout = "flat"

	// LayoutMirror writes pages under host/path, so a local path maps
	// back to its URL by replacing the output directory with "https:/".
	LayoutMirror Layout = "mirror"
)

// Ensure PageStore implements docchat.PageStore at compile time.
var _ docchat.PageStore = (*PageStore)(nil)

// PageStore writes pages as UTF-8 files below a directory.
// Each file is written to a temporary file first and renamed into place,
// so concurrent saves of the same page never leave a torn file.
type PageStore struct {
	dir    string
	layout Layout
}

// NewPageStore creates a PageStore writing to dir.
func NewPageStore(dir string, layout Layout) *PageStore {
	if layout == "" {
		layout = LayoutFlat
	}
	return &PageStore{dir: dir, layout: layout}
}

// Save implements docchat.PageStore.
func (s *PageStore) Save(ctx context.Context, page *docchat.Page) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	rel, err := s.relPath(page)
	if err != nil {
		return "", err
	}

	fullPath := filepath.Join(s.dir, rel)
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(dir, ".docchat-*.tmp")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(page.Content); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		return "", err
	}

	return fullPath, nil
}

func (s *PageStore) relPath(page *docchat.Page) (string, error) {
	if s.layout == LayoutMirror {
		return MirrorPath(page.URL)
	}
	if page.Name != "" {
		return filepath.Base(page.Name), nil
	}
	return PageName(page.URL)
}

// PageName returns the flat file name for a page URL: the last segment of
// its path, or index.html for directory URLs.
//
//	https://example.com/en/latest/chains.html -> chains.html
func PageName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", docchat.Errorf(docchat.EINVALID, "invalid page URL %q: %v", rawURL, err)
	}
	if u.Path == "" || strings.HasSuffix(u.Path, "/") {
		return "index.html", nil
	}
	return path.Base(u.Path), nil
}

// MirrorPath returns the host-rooted relative file path for a page URL.
//
//	https://example.com/en/latest/chains.html -> example.com/en/latest/chains.html
func MirrorPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", docchat.Errorf(docchat.EINVALID, "invalid page URL %q: %v", rawURL, err)
	}
	if u.Host == "" {
		return "", docchat.Errorf(docchat.EINVALID, "page URL %q has no host", rawURL)
	}

	p := path.Clean("/" + u.Path)
	if strings.HasSuffix(u.Path, "/") || p == "/" {
		p = path.Join(p, "index.html")
	}
	return filepath.FromSlash(u.Host + p), nil
}
