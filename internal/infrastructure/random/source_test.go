package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSource_SameSeedSameSequence(t *testing.T) {
	a := NewSource(42)
	b := NewSource(42)

	for range 20 {
		assert.Equal(t, a.Float64(), b.Float64())
		assert.Equal(t, a.IntN(7), b.IntN(7))
	}
}

func TestSource_Ranges(t *testing.T) {
	s := NewSource(7)

	for range 1000 {
		f := s.Float64()
		assert.GreaterOrEqual(t, f, 0.0)
		assert.Less(t, f, 1.0)

		n := s.IntN(3)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 3)
	}
}

func TestSource_ZeroSeedIsReplaced(t *testing.T) {
	s := NewSource(0)
	assert.NotZero(t, s.Seed())
	assert.Equal(t, uint64(9), NewSource(9).Seed())
}
