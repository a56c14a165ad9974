package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isgasho/cleora/sparse"
)

func TestGraph(t *testing.T) {
	a := NewRNG(4711).Graph("g", 20, 50)
	b := NewRNG(4711).Graph("g", 20, 50)

	assert.Equal(t, int64(4711), NewRNG(4711).Seed())
	assert.Equal(t, 100, a.Matrix().EntryCount())
	assert.LessOrEqual(t, a.Matrix().EntityCount(), 20)
	assert.Equal(t, a.Matrix().Entries(), b.Matrix().Entries())

	for _, e := range a.Matrix().Entries() {
		assert.GreaterOrEqual(t, e.Value, float32(1))
		assert.Less(t, e.Value, float32(2))
	}
}

func TestNorm(t *testing.T) {
	assert.InDelta(t, 5.0, Norm([]float32{3, 4}), 1e-12)
	assert.Zero(t, Norm(nil))
}

func TestReference(t *testing.T) {
	t.Run("UnitRows", func(t *testing.T) {
		b := NewRNG(1).Graph("g", 30, 60)
		got := Reference(b.Matrix(), 16, 3)

		require.Len(t, got, b.Matrix().EntityCount())
		for _, v := range got {
			assert.Len(t, v, 16)
			assert.InDelta(t, 1.0, Norm(v), 1e-5)
		}
	})

	t.Run("SentinelAndIsolated", func(t *testing.T) {
		m := sparse.NewMatrix("m")
		_, err := m.AddEntity(10)
		require.NoError(t, err)
		_, err = m.AddEntity(20)
		require.NoError(t, err)
		m.Reserve(3)
		require.NoError(t, m.AddEntry(0, 1, 1))

		got := Reference(m, 4, 2)
		// Entity 1 receives nothing, slot 2 is empty.
		assert.InDelta(t, 1.0, Norm(got[0]), 1e-6)
		assert.Equal(t, []float32{0, 0, 0, 0}, got[1])
		assert.Equal(t, []float32{0, 0, 0, 0}, got[2])
	})
}
