package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docchat"
)

var _ docchat.Asker = (*LoggingAsker)(nil)

// LoggingAsker wraps an Asker with per-turn logging.
type LoggingAsker struct {
	next   docchat.Asker
	logger *slog.Logger
}

// NewLoggingAsker creates a new LoggingAsker.
func NewLoggingAsker(next docchat.Asker, logger *slog.Logger) *LoggingAsker {
	return &LoggingAsker{next: next, logger: logger}
}

// Ask logs the question and source count and delegates to the wrapped asker.
func (a *LoggingAsker) Ask(ctx context.Context, question string, history []docchat.Turn) (reply *docchat.Reply, err error) {
	defer func(begin time.Time) {
		sources := 0
		if reply != nil {
			sources = len(reply.Sources)
		}
		a.logger.Info("ask",
			"question", question,
			"history", len(history),
			"sources", sources,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.Ask(ctx, question, history)
}
