package safeconv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMustIntToUint32(t *testing.T) {
	t.Parallel()

	t.Run("normal_value", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, uint32(42), MustIntToUint32(42))
	})

	t.Run("max_uint32", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, MaxUint32, MustIntToUint32(int(MaxUint32)))
	})

	t.Run("negative_panics", func(t *testing.T) {
		t.Parallel()

		assert.PanicsWithValue(t, "safeconv: int to uint32 out of bounds", func() {
			MustIntToUint32(-1)
		})
	})

	t.Run("overflow_panics", func(t *testing.T) {
		t.Parallel()

		assert.PanicsWithValue(t, "safeconv: int to uint32 out of bounds", func() {
			MustIntToUint32(int(MaxUint32) + 1)
		})
	})
}

func TestMustIntToUint64(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint64(0), MustIntToUint64(0))
	assert.Equal(t, uint64(MaxInt), MustIntToUint64(MaxInt))

	assert.PanicsWithValue(t, "safeconv: negative int to uint64 conversion", func() {
		MustIntToUint64(-7)
	})
}

func TestUint64ToInt(t *testing.T) {
	t.Parallel()

	got, ok := Uint64ToInt(42)
	assert.True(t, ok)
	assert.Equal(t, 42, got)

	got, ok = Uint64ToInt(uint64(MaxInt))
	assert.True(t, ok)
	assert.Equal(t, MaxInt, got)

	got, ok = Uint64ToInt(math.MaxUint64)
	assert.False(t, ok)
	assert.Zero(t, got)
}
