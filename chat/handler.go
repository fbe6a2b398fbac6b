// Package chat answers questions about indexed documentation one turn at a
// time, grounding every answer on chunks retrieved from a vector index.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/docchat"
)

// DefaultTopK is the number of chunks retrieved per question.
const DefaultTopK = 4

var _ docchat.Asker = (*Handler)(nil)

// Handler implements docchat.Asker with retrieval-augmented generation.
type Handler struct {
	Embedder    docchat.Embedder
	Index       docchat.VectorIndex
	Synthesizer docchat.AnswerSynthesizer

	// Condenser, if set, rewrites follow-up questions into standalone ones
	// before retrieval.
	Condenser docchat.QuestionCondenser

	// TopK is the number of chunks retrieved. Defaults to DefaultTopK.
	TopK int

	// Policy bounds every external call.
	Policy docchat.CallPolicy
}

// Ask answers question given the prior turns of the conversation.
func (h *Handler) Ask(ctx context.Context, question string, history []docchat.Turn) (*docchat.Reply, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, docchat.Errorf(docchat.EINVALID, "question required")
	}

	standalone := question
	if len(history) > 0 && h.Condenser != nil {
		condensed, err := docchat.Call(ctx, h.Policy, func(ctx context.Context) (string, error) {
			return h.Condenser.Condense(ctx, question, history)
		})
		if err != nil {
			return nil, fmt.Errorf("condense question: %w", err)
		}
		if condensed = strings.TrimSpace(condensed); condensed != "" {
			standalone = condensed
		}
	}

	vectors, err := docchat.Call(ctx, h.Policy, func(ctx context.Context) ([][]float32, error) {
		return h.Embedder.Embed(ctx, []string{standalone})
	})
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}
	if len(vectors) != 1 {
		return nil, docchat.Errorf(docchat.EINTERNAL, "embedder returned %d vectors for 1 question", len(vectors))
	}

	k := h.TopK
	if k <= 0 {
		k = DefaultTopK
	}
	results, err := docchat.Call(ctx, h.Policy, func(ctx context.Context) ([]docchat.SearchResult, error) {
		return h.Index.Search(ctx, vectors[0], k)
	})
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", h.Index.Name(), err)
	}

	answer, err := docchat.Call(ctx, h.Policy, func(ctx context.Context) (string, error) {
		return h.Synthesizer.Synthesize(ctx, standalone, results, history)
	})
	if err != nil {
		return nil, fmt.Errorf("synthesize answer: %w", err)
	}

	return &docchat.Reply{
		Question: question,
		Answer:   answer,
		Sources:  docchat.CollectSources(results),
	}, nil
}

// Converse asks question with the session's history and records the turn.
// On error the session is left unchanged.
func Converse(ctx context.Context, asker docchat.Asker, session *docchat.Session, question string) (*docchat.Reply, error) {
	reply, err := asker.Ask(ctx, question, session.History())
	if err != nil {
		return nil, err
	}
	session.Record(reply)
	return reply, nil
}
