package bubbletea

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/docchat"
	"github.com/fwojciec/docchat/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCmd executes cmd and any batched commands, returning every message.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, runCmd(c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

// submit types question, presses enter and feeds the turn result back.
func submit(t *testing.T, m *Model, question string) {
	t.Helper()

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(question)})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	require.True(t, m.Busy())

	for _, msg := range runCmd(cmd) {
		switch msg.(type) {
		case replyMsg, errMsg:
			m.Update(msg)
		}
	}
}

func echoAsker(seen *[][]docchat.Turn) *mock.Asker {
	return &mock.Asker{
		AskFn: func(_ context.Context, question string, history []docchat.Turn) (*docchat.Reply, error) {
			*seen = append(*seen, history)
			return &docchat.Reply{
				Question: question,
				Answer:   "answer to " + question,
				Sources:  []string{"https://api.python.langchain.com/en/latest/chains.html"},
			}, nil
		},
	}
}

func TestModel_Update(t *testing.T) {
	t.Parallel()

	t.Run("records each turn and passes prior history", func(t *testing.T) {
		t.Parallel()

		var seen [][]docchat.Turn
		session := docchat.NewSession()
		m := New(context.Background(), echoAsker(&seen), session)

		for i := range 3 {
			submit(t, m, fmt.Sprintf("question %d", i))
		}

		assert.False(t, m.Busy())
		assert.Equal(t, 3, session.Len())
		require.Len(t, seen, 3)
		assert.Empty(t, seen[0])
		assert.Len(t, seen[2], 2)
		assert.Equal(t, "question 1", seen[2][1].Question)
	})

	t.Run("renders turns oldest first with citations", func(t *testing.T) {
		t.Parallel()

		var seen [][]docchat.Turn
		m := New(context.Background(), echoAsker(&seen), docchat.NewSession())

		submit(t, m, "first")
		submit(t, m, "second")
		view := m.View()

		assert.Contains(t, view, DefaultTitle)
		assert.Contains(t, view, "Sources:")
		assert.Contains(t, view, "https://api.python.langchain.com/en/latest/chains.html")
		assert.Less(t, strings.Index(view, "answer to first"), strings.Index(view, "answer to second"))
	})

	t.Run("failed turn shows the error and keeps history", func(t *testing.T) {
		t.Parallel()

		session := docchat.NewSession()
		calls := 0
		asker := &mock.Asker{
			AskFn: func(_ context.Context, question string, _ []docchat.Turn) (*docchat.Reply, error) {
				calls++
				if calls == 2 {
					return nil, docchat.Errorf(docchat.EUNAVAILABLE, "model overloaded")
				}
				return &docchat.Reply{Question: question, Answer: "ok"}, nil
			},
		}
		m := New(context.Background(), asker, session)

		submit(t, m, "first")
		submit(t, m, "second")

		assert.Equal(t, 1, session.Len())
		require.Error(t, m.Err())
		assert.Contains(t, m.View(), "error: model overloaded")

		submit(t, m, "third")
		assert.Equal(t, 2, session.Len())
		assert.NoError(t, m.Err())
	})

	t.Run("ignores empty questions", func(t *testing.T) {
		t.Parallel()

		m := New(context.Background(), &mock.Asker{}, docchat.NewSession())

		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("   ")})
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

		assert.Nil(t, cmd)
		assert.False(t, m.Busy())
	})

	t.Run("ignores enter while a turn is in flight", func(t *testing.T) {
		t.Parallel()

		var seen [][]docchat.Turn
		m := New(context.Background(), echoAsker(&seen), docchat.NewSession())

		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("first")})
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		require.NotNil(t, cmd)

		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("second")})
		_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

		assert.Nil(t, cmd)
		assert.Contains(t, m.View(), "Thinking...")
	})

	t.Run("escape and ctrl+c quit", func(t *testing.T) {
		t.Parallel()

		for _, key := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
			m := New(context.Background(), &mock.Asker{}, docchat.NewSession())
			_, cmd := m.Update(tea.KeyMsg{Type: key})
			require.NotNil(t, cmd)
			assert.Equal(t, tea.Quit(), cmd())
		}
	})

	t.Run("shows the placeholder on an empty prompt", func(t *testing.T) {
		t.Parallel()

		m := New(context.Background(), &mock.Asker{}, docchat.NewSession(), WithTitle("Docs"))

		view := m.View()

		assert.Contains(t, view, "Docs")
		assert.Contains(t, view, "Ask away!")
	})
}
