package main

import (
	"fmt"

	"github.com/fwojciec/docchat"
	"github.com/fwojciec/docchat/chat"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	reply, err := chat.Converse(deps.Ctx, deps.Asker, docchat.NewSession(), c.Question)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docchat.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, docchat.FormatReply(reply))
	return nil
}
