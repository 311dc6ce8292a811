package errz

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnsupportedError(t *testing.T) {
	err := Unsupportedf("outer", "cannot pool constant of type %T", struct{}{})
	require.Equal(t, "unsupported: cannot pool constant of type struct {} (in outer)", err.Error())
	require.True(t, IsUnsupported(err))

	unitLevel := Unsupportedf("", "constant table full")
	require.Equal(t, "unsupported: constant table full", unitLevel.Error())
}

func TestIsUnsupportedThroughWrapping(t *testing.T) {
	inner := Unsupportedf("f", "bad input")
	wrapped := fmt.Errorf("compiling: %w", inner)
	require.True(t, IsUnsupported(wrapped))
	require.False(t, IsUnsupported(errors.New("plain")))
	require.False(t, IsUnsupported(nil))
}
