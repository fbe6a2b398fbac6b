package fs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/docchat"
)

// Ensure Loader implements docchat.DocumentLoader at compile time.
var _ docchat.DocumentLoader = (*Loader)(nil)

// Loader loads every regular file below a directory as a document.
// Hidden files and directories are skipped. Each file's HTML is reduced
// to its main content by Extractor and turned into text by Converter.
type Loader struct {
	Root      string
	Extractor docchat.Extractor
	Converter docchat.Converter
}

// NewLoader creates a Loader for root.
func NewLoader(root string, extractor docchat.Extractor, converter docchat.Converter) *Loader {
	return &Loader{
		Root:      root,
		Extractor: extractor,
		Converter: converter,
	}
}

// Load implements docchat.DocumentLoader. Document paths are the cleaned
// root joined with the file's relative path, using forward slashes.
func (l *Loader) Load(ctx context.Context) ([]*docchat.Document, error) {
	root := filepath.Clean(l.Root)

	info, err := os.Stat(root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, docchat.Errorf(docchat.ENOTFOUND, "directory %q not found", l.Root)
	} else if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, docchat.Errorf(docchat.EINVALID, "%q is not a directory", l.Root)
	}

	var docs []*docchat.Document
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if p != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		doc, err := l.loadFile(p)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return docs, nil
}

func (l *Loader) loadFile(p string) (*docchat.Document, error) {
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	html := strings.ToValidUTF8(string(b), "�")

	extracted, err := l.Extractor.Extract(html)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", p, err)
	}

	content, err := l.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", p, err)
	}

	slashed := filepath.ToSlash(p)
	return &docchat.Document{
		Path:    slashed,
		Source:  slashed,
		Title:   extracted.Title,
		Content: content,
	}, nil
}
