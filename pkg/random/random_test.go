package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeededSourcesRepeat(t *testing.T) {
	a := New(42)
	b := New(42)

	for i := 0; i < 100; i++ {
		require.Equal(t, a.Float64(), b.Float64())
		require.Equal(t, a.IntN(21), b.IntN(21))
	}
}

func TestUniformBounds(t *testing.T) {
	src := New(7)
	for i := 0; i < 1000; i++ {
		v := Uniform(src, -0.05, 0.05)
		require.GreaterOrEqual(t, v, -0.05)
		require.Less(t, v, 0.05)
	}
}

func TestScripted(t *testing.T) {
	s := NewScripted(0, 0.5, 0.99)

	assert.Equal(t, -1.0, Symmetric(s, 1))
	assert.Equal(t, 0.0, Symmetric(s, 1))
	assert.Equal(t, 20, s.IntN(21))
	assert.Equal(t, 3, s.Draws())

	// wraps around
	assert.Equal(t, 0.0, s.Float64())
}

func TestScriptedIntNPanics(t *testing.T) {
	assert.Panics(t, func() { NewScripted().IntN(0) })
}
