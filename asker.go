package docchat

import "context"

// Asker answers natural language questions about the indexed documentation.
type Asker interface {
	// Ask answers question given the prior turns of the conversation.
	// Returns EINVALID if the question is empty.
	Ask(ctx context.Context, question string, history []Turn) (*Reply, error)
}
