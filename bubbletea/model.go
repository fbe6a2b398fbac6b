// Package bubbletea implements the interactive chat front end as a
// Bubble Tea program.
package bubbletea

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/docchat"
)

// Defaults for the rendered text.
const (
	DefaultTitle       = "Explore the Depths of Langchain 🚀"
	DefaultPlaceholder = "Curious about the docs? Ask away!"
	thinking           = "Thinking..."
)

// replyMsg carries a completed turn back to the update loop.
type replyMsg struct {
	reply *docchat.Reply
}

// errMsg carries a failed turn back to the update loop.
type errMsg struct {
	question string
	err      error
}

// Model is the chat screen. It owns the session: turns are only recorded
// from Update, so the session is never touched concurrently.
type Model struct {
	ctx     context.Context
	asker   docchat.Asker
	session *docchat.Session
	styles  *Styles
	title   string

	input   textinput.Model
	spinner spinner.Model

	busy    bool
	pending string
	err     error
	width   int
}

// Option configures a Model.
type Option func(*Model)

// WithTitle sets the header line.
func WithTitle(title string) Option {
	return func(m *Model) {
		m.title = title
	}
}

// WithStyles overrides the default styles.
func WithStyles(s *Styles) Option {
	return func(m *Model) {
		m.styles = s
	}
}

// New returns a chat screen that answers questions with asker and records
// completed turns in session.
func New(ctx context.Context, asker docchat.Asker, session *docchat.Session, opts ...Option) *Model {
	m := &Model{
		ctx:     ctx,
		asker:   asker,
		session: session,
		styles:  DefaultStyles(),
		title:   DefaultTitle,
		width:   80,
	}
	for _, opt := range opts {
		opt(m)
	}

	ti := textinput.New()
	ti.Placeholder = DefaultPlaceholder
	ti.Prompt = "Prompt: "
	ti.CharLimit = 1000
	ti.Width = 60
	ti.Focus()
	m.input = ti

	m.spinner = spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(m.styles.Spinner),
	)
	return m
}

// Init starts the cursor blinking.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Busy reports whether a turn is in flight.
func (m *Model) Busy() bool {
	return m.busy
}

// Err returns the error of the last failed turn, if any.
func (m *Model) Err() error {
	return m.err
}

// Update handles key presses and turn results.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-len(m.input.Prompt)-2, 20)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case replyMsg:
		m.busy = false
		m.pending = ""
		m.session.Record(msg.reply)
		return m, nil

	case errMsg:
		m.busy = false
		m.pending = ""
		m.err = msg.err
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	//nolint:exhaustive // only quit and submit keys are special
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyEnter:
		question := strings.TrimSpace(m.input.Value())
		if question == "" || m.busy {
			return m, nil
		}
		m.busy = true
		m.pending = question
		m.err = nil
		m.input.Reset()
		return m, tea.Batch(m.spinner.Tick, m.ask(question, m.session.History()))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// ask runs one turn off the update loop. history is copied by the caller
// so the command never reads the session.
func (m *Model) ask(question string, history []docchat.Turn) tea.Cmd {
	return func() tea.Msg {
		reply, err := m.asker.Ask(m.ctx, question, history)
		if err != nil {
			return errMsg{question: question, err: err}
		}
		return replyMsg{reply: reply}
	}
}

// View renders the header, every turn oldest first, the turn in flight and
// the prompt.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Header.Render(m.title))
	b.WriteString("\n")

	width := max(m.width-4, 20)
	for i, question := range m.session.Questions {
		b.WriteString(m.styles.Question.Render(question))
		b.WriteString("\n")
		b.WriteString(m.styles.Answer.Width(width).Render(m.session.Answers[i]))
		b.WriteString("\n")
	}

	if m.busy {
		b.WriteString(m.styles.Question.Render(m.pending))
		b.WriteString("\n")
		b.WriteString(m.spinner.View() + " " + thinking)
		b.WriteString("\n\n")
	}
	if m.err != nil {
		b.WriteString(m.styles.Error.Render("error: " + errorText(m.err)))
		b.WriteString("\n\n")
	}

	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(m.styles.Help.Render("enter: ask • esc: quit"))
	b.WriteString("\n")
	return b.String()
}

// errorText prefers the application message of coded errors.
func errorText(err error) string {
	var e *docchat.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Run starts the program on the terminal and blocks until the user quits.
func Run(ctx context.Context, m *Model, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(m, opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
