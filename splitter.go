package docchat

import (
	"strings"
	"unicode/utf8"
)

// Default splitter settings.
const (
	DefaultChunkSize    = 400
	DefaultChunkOverlap = 50
)

// DefaultSeparators lists chunk boundaries from most to least preferred:
// paragraph, line, space, then raw characters.
var DefaultSeparators = []string{"\n\n", "\n", "\r\n", " ", ""}

// TextSplitter splits text into overlapping chunks using a recursive
// separator preference. Lengths are measured in runes.
//
// Each separator stays attached to the start of the piece that follows it,
// and leading and trailing whitespace is trimmed from every chunk.
type TextSplitter struct {
	ChunkSize    int
	ChunkOverlap int
	Separators   []string
}

// NewTextSplitter returns a splitter using DefaultSeparators.
// Returns EINVALID unless 0 <= overlap < size.
func NewTextSplitter(size, overlap int) (*TextSplitter, error) {
	if size <= 0 {
		return nil, Errorf(EINVALID, "chunk size must be positive, got %d", size)
	}
	if overlap < 0 {
		return nil, Errorf(EINVALID, "chunk overlap must not be negative, got %d", overlap)
	}
	if overlap >= size {
		return nil, Errorf(EINVALID, "chunk overlap %d must be smaller than chunk size %d", overlap, size)
	}
	return &TextSplitter{
		ChunkSize:    size,
		ChunkOverlap: overlap,
		Separators:   DefaultSeparators,
	}, nil
}

// Split splits text into chunks. The result is deterministic for identical
// input and settings.
func (s *TextSplitter) Split(text string) []string {
	return s.split(text, s.Separators)
}

// SplitDocuments splits every document, numbering chunks per document.
// Chunks inherit the document's Source.
func (s *TextSplitter) SplitDocuments(docs []*Document) []*Chunk {
	var chunks []*Chunk
	for _, doc := range docs {
		for i, text := range s.Split(doc.Content) {
			chunks = append(chunks, &Chunk{
				Text:   text,
				Source: doc.Source,
				Index:  i,
				Hash:   ContentHash(text),
			})
		}
	}
	return chunks
}

func (s *TextSplitter) split(text string, separators []string) []string {
	separator := ""
	var rest []string
	for i, sep := range separators {
		if sep == "" {
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			rest = separators[i+1:]
			break
		}
	}

	var chunks, good []string
	for _, piece := range splitKeepSeparator(text, separator) {
		if utf8.RuneCountInString(piece) < s.ChunkSize {
			good = append(good, piece)
			continue
		}
		if len(good) > 0 {
			chunks = append(chunks, s.merge(good)...)
			good = nil
		}
		if len(rest) == 0 {
			chunks = append(chunks, piece)
		} else {
			chunks = append(chunks, s.split(piece, rest)...)
		}
	}
	if len(good) > 0 {
		chunks = append(chunks, s.merge(good)...)
	}
	return chunks
}

// merge combines pieces into chunks of at most ChunkSize runes, carrying
// up to ChunkOverlap runes of trailing pieces into the next chunk.
func (s *TextSplitter) merge(pieces []string) []string {
	var chunks []string
	var current []string
	total := 0
	for _, piece := range pieces {
		n := utf8.RuneCountInString(piece)
		if total+n > s.ChunkSize && len(current) > 0 {
			if chunk := joinChunk(current); chunk != "" {
				chunks = append(chunks, chunk)
			}
			for total > s.ChunkOverlap || (total+n > s.ChunkSize && total > 0) {
				total -= utf8.RuneCountInString(current[0])
				current = current[1:]
			}
		}
		current = append(current, piece)
		total += n
	}
	if chunk := joinChunk(current); chunk != "" {
		chunks = append(chunks, chunk)
	}
	return chunks
}

func joinChunk(pieces []string) string {
	return strings.TrimSpace(strings.Join(pieces, ""))
}

// splitKeepSeparator splits text on sep, prefixing every piece after the
// first with sep. An empty sep splits into runes. Empty pieces are dropped.
func splitKeepSeparator(text, sep string) []string {
	var pieces []string
	if sep == "" {
		for _, r := range text {
			pieces = append(pieces, string(r))
		}
		return pieces
	}
	for i, p := range strings.Split(text, sep) {
		if i > 0 {
			p = sep + p
		}
		if p != "" {
			pieces = append(pieces, p)
		}
	}
	return pieces
}
