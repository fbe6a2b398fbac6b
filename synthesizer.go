package docchat

import "context"

// AnswerSynthesizer generates an answer grounded on retrieved chunks.
type AnswerSynthesizer interface {
	Synthesize(ctx context.Context, question string, results []SearchResult, history []Turn) (string, error)
}

// QuestionCondenser rewrites a follow-up question into a standalone question
// using the conversation history.
type QuestionCondenser interface {
	Condense(ctx context.Context, question string, history []Turn) (string, error)
}
