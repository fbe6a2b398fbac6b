package chat_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/fwojciec/docchat"
	"github.com/fwojciec/docchat/chat"
	"github.com/fwojciec/docchat/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stack records what each boundary of the handler received.
type stack struct {
	embedded    []string
	searchK     int
	synthesized []string
	histories   [][]docchat.Turn
	condensed   int

	results []docchat.SearchResult
	err     error
}

func (s *stack) handler() *chat.Handler {
	return &chat.Handler{
		Embedder: &mock.Embedder{
			EmbedFn: func(_ context.Context, texts []string) ([][]float32, error) {
				s.embedded = append(s.embedded, texts...)
				return [][]float32{{1, 0}}, nil
			},
		},
		Index: &mock.VectorIndex{
			NameFn: func() string { return docchat.DefaultIndexName },
			SearchFn: func(_ context.Context, _ []float32, k int) ([]docchat.SearchResult, error) {
				s.searchK = k
				return s.results, nil
			},
		},
		Synthesizer: &mock.AnswerSynthesizer{
			SynthesizeFn: func(_ context.Context, question string, _ []docchat.SearchResult, history []docchat.Turn) (string, error) {
				if s.err != nil {
					return "", s.err
				}
				s.synthesized = append(s.synthesized, question)
				s.histories = append(s.histories, history)
				return "answer to " + question, nil
			},
		},
	}
}

func TestHandler_Ask(t *testing.T) {
	t.Parallel()

	t.Run("answers with sorted deduplicated sources", func(t *testing.T) {
		t.Parallel()

		s := &stack{results: []docchat.SearchResult{
			{Text: "a", Source: "https://b.html"},
			{Text: "b", Source: "https://a.html"},
			{Text: "c", Source: "https://b.html"},
		}}

		reply, err := s.handler().Ask(context.Background(), "What is LCEL?", nil)

		require.NoError(t, err)
		assert.Equal(t, "What is LCEL?", reply.Question)
		assert.Equal(t, "answer to What is LCEL?", reply.Answer)
		assert.Equal(t, []string{"https://a.html", "https://b.html"}, reply.Sources)
		assert.Equal(t, chat.DefaultTopK, s.searchK)
		assert.Equal(t, []string{"What is LCEL?"}, s.embedded)
	})

	t.Run("no results gives no sources", func(t *testing.T) {
		t.Parallel()

		s := &stack{}

		reply, err := s.handler().Ask(context.Background(), "anything?", nil)

		require.NoError(t, err)
		assert.Empty(t, reply.Sources)
		assert.Equal(t, "answer to anything? \n\n No source found", docchat.FormatReply(reply))
	})

	t.Run("rejects an empty question", func(t *testing.T) {
		t.Parallel()

		_, err := (&stack{}).handler().Ask(context.Background(), "   ", nil)

		assert.Equal(t, docchat.EINVALID, docchat.ErrorCode(err))
	})

	t.Run("condenses follow-ups before retrieval", func(t *testing.T) {
		t.Parallel()

		s := &stack{}
		h := s.handler()
		h.Condenser = &mock.QuestionCondenser{
			CondenseFn: func(_ context.Context, question string, history []docchat.Turn) (string, error) {
				s.condensed++
				return "How do I stream a chain?", nil
			},
		}
		history := []docchat.Turn{{Question: "What is a chain?", Answer: "A sequence of calls."}}

		reply, err := h.Ask(context.Background(), "How do I stream it?", history)

		require.NoError(t, err)
		assert.Equal(t, 1, s.condensed)
		assert.Equal(t, []string{"How do I stream a chain?"}, s.embedded)
		assert.Equal(t, "How do I stream it?", reply.Question)
	})

	t.Run("skips condensing on the first turn", func(t *testing.T) {
		t.Parallel()

		s := &stack{}
		h := s.handler()
		h.Condenser = &mock.QuestionCondenser{
			CondenseFn: func(context.Context, string, []docchat.Turn) (string, error) {
				s.condensed++
				return "", nil
			},
		}

		_, err := h.Ask(context.Background(), "What is a chain?", nil)

		require.NoError(t, err)
		assert.Zero(t, s.condensed)
	})

	t.Run("uses configured top k", func(t *testing.T) {
		t.Parallel()

		s := &stack{}
		h := s.handler()
		h.TopK = 2

		_, err := h.Ask(context.Background(), "q", nil)

		require.NoError(t, err)
		assert.Equal(t, 2, s.searchK)
	})
}

func TestConverse(t *testing.T) {
	t.Parallel()

	t.Run("turn N+1 sees exactly the N prior turns in order", func(t *testing.T) {
		t.Parallel()

		s := &stack{results: []docchat.SearchResult{{Source: "https://a.html"}}}
		h := s.handler()
		session := docchat.NewSession()

		const turns = 4
		for i := range turns {
			_, err := chat.Converse(context.Background(), h, session, fmt.Sprintf("question %d", i))
			require.NoError(t, err)
		}

		require.Len(t, s.histories, turns)
		for n, history := range s.histories {
			require.Len(t, history, n)
			for i, turn := range history {
				assert.Equal(t, fmt.Sprintf("question %d", i), turn.Question)
				assert.Equal(t, fmt.Sprintf("answer to question %d", i), turn.Answer)
			}
		}
		assert.Equal(t, turns, session.Len())
		assert.Len(t, session.Questions, turns)
		assert.Equal(t, "answer to question 0 \n\n Sources:\n1. https://a.html\n", session.Answers[0])
	})

	t.Run("failed turn leaves the session untouched", func(t *testing.T) {
		t.Parallel()

		s := &stack{}
		h := s.handler()
		session := docchat.NewSession()
		_, err := chat.Converse(context.Background(), h, session, "first")
		require.NoError(t, err)

		s.err = docchat.Errorf(docchat.EINVALID, "blocked")
		_, err = chat.Converse(context.Background(), h, session, "second")

		require.Error(t, err)
		assert.Equal(t, 1, session.Len())
		assert.Equal(t, []string{"first"}, session.Questions)
		assert.Len(t, session.Answers, 1)
	})
}
