package safe

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUint64ToInt(t *testing.T) {
	t.Run("passes through values in range", func(t *testing.T) {
		got, clamped := Uint64ToInt(12345)
		assert.Equal(t, 12345, got)
		assert.False(t, clamped)

		got, clamped = Uint64ToInt(0)
		assert.Equal(t, 0, got)
		assert.False(t, clamped)

		got, clamped = Uint64ToInt(uint64(math.MaxInt))
		assert.Equal(t, math.MaxInt, got)
		assert.False(t, clamped)
	})

	t.Run("clamps values above MaxInt", func(t *testing.T) {
		got, clamped := Uint64ToInt(math.MaxUint64)
		assert.Equal(t, math.MaxInt, got)
		assert.True(t, clamped)

		got, clamped = Uint64ToInt(uint64(math.MaxInt) + 1)
		assert.Equal(t, math.MaxInt, got)
		assert.True(t, clamped)
	})
}
