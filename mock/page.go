package mock

import (
	"context"

	"github.com/fwojciec/docchat"
)

var _ docchat.PageStore = (*PageStore)(nil)

// PageStore is a mock implementation of docchat.PageStore.
type PageStore struct {
	SaveFn func(ctx context.Context, page *docchat.Page) (string, error)
}

func (s *PageStore) Save(ctx context.Context, page *docchat.Page) (string, error) {
	return s.SaveFn(ctx, page)
}
