package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMatchesByKind(t *testing.T) {
	err := NotFound("club")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrDuplicateEdge))

	wrapped := fmt.Errorf("add owner: %w", err)
	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.Equal(t, KindNotFound, KindOf(wrapped))
}

func TestInternalHidesCause(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.1:5432: connection refused")
	err := Internal(cause)

	ae, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, KindInternal, ae.Kind)
	assert.Equal(t, "internal error", ae.Message)
	assert.ErrorIs(t, err, cause)
}

func TestInternalPassesTypedErrors(t *testing.T) {
	typed := Validation("percentage must be in (0,100]", "ownership_percentage")
	assert.Same(t, typed, Internal(typed))
	assert.Nil(t, Internal(nil))
}

func TestKindOfUntyped(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}
