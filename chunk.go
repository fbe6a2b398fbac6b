package docchat

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Chunk represents a contiguous piece of a document's text sized for embedding.
type Chunk struct {
	Text   string `json:"text"`
	Source string `json:"source"`

	// Index is the chunk's position within its document.
	Index int `json:"index"`

	// Hash is the content hash of Text.
	Hash string `json:"hash"`
}

// ContentHash returns the hex xxhash of text.
func ContentHash(text string) string {
	return strconv.FormatUint(xxhash.Sum64String(text), 16)
}
