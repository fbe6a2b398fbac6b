package mock

import (
	"context"

	"github.com/fwojciec/docchat"
)

var _ docchat.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is a mock implementation of docchat.VectorIndex.
type VectorIndex struct {
	NameFn   func() string
	EnsureFn func(ctx context.Context, dimension int) error
	UpsertFn func(ctx context.Context, records []*docchat.Record) error
	SearchFn func(ctx context.Context, vector []float32, k int) ([]docchat.SearchResult, error)
}

func (i *VectorIndex) Name() string {
	return i.NameFn()
}

func (i *VectorIndex) Ensure(ctx context.Context, dimension int) error {
	return i.EnsureFn(ctx, dimension)
}

func (i *VectorIndex) Upsert(ctx context.Context, records []*docchat.Record) error {
	return i.UpsertFn(ctx, records)
}

func (i *VectorIndex) Search(ctx context.Context, vector []float32, k int) ([]docchat.SearchResult, error) {
	return i.SearchFn(ctx, vector, k)
}
