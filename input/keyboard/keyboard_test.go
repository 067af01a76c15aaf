package keyboard

import (
	"testing"

	"github.com/milk9111/locomotion/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnownKey(t *testing.T) {
	for _, b := range []input.Binding{"W", "w", "Space", "ShiftLeft", "7", "MouseLeft", "ArrowUp", " q "} {
		assert.True(t, KnownKey(b), b)
	}
	assert.False(t, KnownKey("F13"))
	assert.False(t, KnownKey(input.Unbound))
}

func TestDefaultLayoutIsKnown(t *testing.T) {
	require.NoError(t, input.DefaultMap().Validate(KnownKey))
}

func TestDrainPointerResets(t *testing.T) {
	s := NewSource()
	s.pointer[0] = 4
	assert.Equal(t, 4.0, s.DrainPointer().X())
	assert.Equal(t, 0.0, s.DrainPointer().X())
	assert.False(t, s.Captured())
}
