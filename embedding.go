package docchat

import "context"

// Embedder computes embedding vectors for text.
type Embedder interface {
	// Embed returns exactly one vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
