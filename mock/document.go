package mock

import (
	"context"

	"github.com/fwojciec/docchat"
)

var _ docchat.DocumentLoader = (*DocumentLoader)(nil)

// DocumentLoader is a mock implementation of docchat.DocumentLoader.
type DocumentLoader struct {
	LoadFn func(ctx context.Context) ([]*docchat.Document, error)
}

func (l *DocumentLoader) Load(ctx context.Context) ([]*docchat.Document, error) {
	return l.LoadFn(ctx)
}
