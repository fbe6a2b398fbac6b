package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docchat"
)

var _ docchat.VectorIndex = (*LoggingIndex)(nil)

// LoggingIndex wraps a VectorIndex with call logging.
type LoggingIndex struct {
	next   docchat.VectorIndex
	logger *slog.Logger
}

// NewLoggingIndex creates a new LoggingIndex.
func NewLoggingIndex(next docchat.VectorIndex, logger *slog.Logger) *LoggingIndex {
	return &LoggingIndex{next: next, logger: logger}
}

// Name delegates to the wrapped index.
func (i *LoggingIndex) Name() string {
	return i.next.Name()
}

// Ensure logs index creation and delegates to the wrapped index.
func (i *LoggingIndex) Ensure(ctx context.Context, dimension int) (err error) {
	defer func(begin time.Time) {
		i.logger.Info("ensure index",
			"index", i.next.Name(),
			"dimension", dimension,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return i.next.Ensure(ctx, dimension)
}

// Upsert logs the batch size and delegates to the wrapped index.
func (i *LoggingIndex) Upsert(ctx context.Context, records []*docchat.Record) (err error) {
	defer func(begin time.Time) {
		i.logger.Info("upsert",
			"index", i.next.Name(),
			"records", len(records),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return i.next.Upsert(ctx, records)
}

// Search logs the hit count and delegates to the wrapped index.
func (i *LoggingIndex) Search(ctx context.Context, vector []float32, k int) (results []docchat.SearchResult, err error) {
	defer func(begin time.Time) {
		i.logger.Info("search",
			"index", i.next.Name(),
			"k", k,
			"hits", len(results),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return i.next.Search(ctx, vector, k)
}
