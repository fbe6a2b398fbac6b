package docchat_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/docchat"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := docchat.Errorf(docchat.ENOTFOUND, "directory %q not found", "docs")

	assert.Equal(t, docchat.ENOTFOUND, docchat.ErrorCode(err))
	assert.Equal(t, "directory \"docs\" not found", docchat.ErrorMessage(err))
}

func TestErrorCode(t *testing.T) {
	t.Parallel()

	t.Run("nil error", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, docchat.ErrorCode(nil))
	})

	t.Run("wrapped application error", func(t *testing.T) {
		t.Parallel()
		err := fmt.Errorf("fetch root: %w", docchat.Errorf(docchat.EUNAVAILABLE, "status 503"))
		assert.Equal(t, docchat.EUNAVAILABLE, docchat.ErrorCode(err))
	})

	t.Run("plain error is internal", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, docchat.EINTERNAL, docchat.ErrorCode(errors.New("boom")))
	})
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	t.Run("nil error", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, docchat.ErrorMessage(nil))
	})

	t.Run("plain error", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Internal error.", docchat.ErrorMessage(errors.New("boom")))
	})
}
