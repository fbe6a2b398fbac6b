package docchat

import (
	"context"

	"github.com/google/uuid"
)

// DefaultIndexName is the vector index used when none is configured.
const DefaultIndexName = "langchain-document-index"

// Record is an embedding of one chunk, keyed uniquely within an index.
type Record struct {
	ID     string    `json:"id"`
	Text   string    `json:"text"`
	Source string    `json:"source"`
	Vector []float32 `json:"vector"`
}

// SearchResult is a chunk returned by similarity search.
// Higher scores are more similar.
type SearchResult struct {
	Text   string  `json:"text"`
	Source string  `json:"source"`
	Score  float32 `json:"score"`
}

// VectorIndex is a named store of embedding records supporting similarity search.
type VectorIndex interface {
	// Name returns the index name.
	Name() string

	// Ensure creates the index if it does not exist.
	// Returns EINVALID if an existing index has a different dimension.
	Ensure(ctx context.Context, dimension int) error

	// Upsert inserts records, replacing any with the same ID.
	Upsert(ctx context.Context, records []*Record) error

	// Search returns up to k records most similar to vector, best first.
	Search(ctx context.Context, vector []float32, k int) ([]SearchResult, error)
}

// KeyMode selects how record IDs are assigned during ingestion.
type KeyMode string

// Supported key modes.
const (
	// KeyAppend assigns a random ID, so re-ingesting unchanged input adds
	// duplicate records.
	KeyAppend KeyMode = "append"

	// KeyContentHash derives the ID from the chunk's source and content hash,
	// so re-ingesting unchanged input overwrites the same records.
	KeyContentHash KeyMode = "hash"
)

// ParseKeyMode parses a key mode name.
func ParseKeyMode(s string) (KeyMode, error) {
	switch KeyMode(s) {
	case KeyAppend, KeyContentHash:
		return KeyMode(s), nil
	}
	return "", Errorf(EINVALID, "unknown key mode %q (want %q or %q)", s, KeyAppend, KeyContentHash)
}

// recordNamespace scopes content-derived record IDs.
var recordNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/fwojciec/docchat/records"))

// RecordID returns the ID for a chunk under the given key mode.
func RecordID(mode KeyMode, c *Chunk) string {
	if mode == KeyContentHash {
		hash := c.Hash
		if hash == "" {
			hash = ContentHash(c.Text)
		}
		return uuid.NewSHA1(recordNamespace, []byte(c.Source+":"+hash)).String()
	}
	return uuid.New().String()
}
