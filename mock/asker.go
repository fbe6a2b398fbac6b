package mock

import (
	"context"

	"github.com/fwojciec/docchat"
)

// Compile-time interface verification.
var (
	_ docchat.Asker             = (*Asker)(nil)
	_ docchat.AnswerSynthesizer = (*AnswerSynthesizer)(nil)
	_ docchat.QuestionCondenser = (*QuestionCondenser)(nil)
)

// Asker is a mock implementation of docchat.Asker.
type Asker struct {
	AskFn func(ctx context.Context, question string, history []docchat.Turn) (*docchat.Reply, error)
}

func (a *Asker) Ask(ctx context.Context, question string, history []docchat.Turn) (*docchat.Reply, error) {
	return a.AskFn(ctx, question, history)
}

// AnswerSynthesizer is a mock implementation of docchat.AnswerSynthesizer.
type AnswerSynthesizer struct {
	SynthesizeFn func(ctx context.Context, question string, results []docchat.SearchResult, history []docchat.Turn) (string, error)
}

func (s *AnswerSynthesizer) Synthesize(ctx context.Context, question string, results []docchat.SearchResult, history []docchat.Turn) (string, error) {
	return s.SynthesizeFn(ctx, question, results, history)
}

// QuestionCondenser is a mock implementation of docchat.QuestionCondenser.
type QuestionCondenser struct {
	CondenseFn func(ctx context.Context, question string, history []docchat.Turn) (string, error)
}

func (c *QuestionCondenser) Condense(ctx context.Context, question string, history []docchat.Turn) (string, error) {
	return c.CondenseFn(ctx, question, history)
}
