package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/docchat"
	"github.com/fwojciec/docchat/bubbletea"
)

// Run executes the chat command.
func (c *ChatCmd) Run(deps *Dependencies) error {
	model := bubbletea.New(deps.Ctx, deps.Asker, docchat.NewSession(), bubbletea.WithTitle(c.Title))

	opts := []tea.ProgramOption{tea.WithOutput(deps.Stdout)}
	if deps.Stdin != nil {
		opts = append(opts, tea.WithInput(deps.Stdin))
	}
	if err := bubbletea.Run(deps.Ctx, model, opts...); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docchat.ErrorMessage(err))
		return err
	}
	return nil
}
