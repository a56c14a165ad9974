package sparse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isgasho/cleora/internal/hash"
)

func TestMatrix_InternAndEntries(t *testing.T) {
	m := NewMatrix("m")

	i10, err := m.AddEntity(10)
	require.NoError(t, err)
	i20, err := m.AddEntity(20)
	require.NoError(t, err)
	again, err := m.AddEntity(10)
	require.NoError(t, err)

	assert.Equal(t, uint32(0), i10)
	assert.Equal(t, uint32(1), i20)
	assert.Equal(t, i10, again)
	assert.Equal(t, uint32(2), m.Occurrence(10))
	assert.Equal(t, uint32(1), m.Occurrence(20))
	assert.Equal(t, uint32(0), m.Occurrence(99))

	_, err = m.AddEntity(hash.Sentinel)
	assert.Error(t, err)

	m.Reserve(4)
	assert.Equal(t, 4, m.EntityCount())
	assert.Equal(t, hash.Sentinel, m.Hash(3))

	require.NoError(t, m.AddEntry(0, 1, 2))
	assert.Error(t, m.AddEntry(0, 4, 1))
	assert.Equal(t, 1, m.EntryCount())
	assert.Equal(t, Entry{Row: 0, Col: 1, Value: 2}, m.Entry(0))
	assert.Equal(t, "m", m.ID())
}

func TestMatrix_Normalize(t *testing.T) {
	m := NewMatrix("m")
	for _, h := range []int64{1, 2, 3} {
		_, err := m.AddEntity(h)
		require.NoError(t, err)
	}
	require.NoError(t, m.AddEntry(0, 1, 1))
	require.NoError(t, m.AddEntry(0, 2, 3))
	require.NoError(t, m.AddEntry(1, 0, 5))
	require.NoError(t, m.AddEntry(2, 0, 0))

	m.Normalize()
	assert.InDelta(t, 0.25, m.Entry(0).Value, 1e-7)
	assert.InDelta(t, 0.75, m.Entry(1).Value, 1e-7)
	assert.InDelta(t, 1.0, m.Entry(2).Value, 1e-7)
	assert.Equal(t, float32(0), m.Entry(3).Value)

	// second call is a no-op
	m.Normalize()
	assert.InDelta(t, 0.25, m.Entry(0).Value, 1e-7)
}

func TestBuilder_AddPair(t *testing.T) {
	b := NewBuilder("g")
	require.NoError(t, b.AddPair("a", "b", 1))
	require.NoError(t, b.AddPair("a", "c", 2))

	m := b.Matrix()
	assert.Equal(t, 3, m.EntityCount())
	assert.Equal(t, 4, m.EntryCount())
	assert.Equal(t, uint32(2), m.Occurrence(hash.Entity("a")))

	name, ok := b.Names().Lookup(m.Hash(2))
	assert.True(t, ok)
	assert.Equal(t, "c", name)

	assert.Equal(t, Entry{Row: 0, Col: 2, Value: 2}, m.Entry(2))
	assert.Equal(t, Entry{Row: 2, Col: 0, Value: 2}, m.Entry(3))
}

func TestReadEdges(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		in := "# comment\na\tb\n\nb\tc\t0.5\n"
		b := NewBuilder("g")
		n, err := ReadEdges(strings.NewReader(in), b)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, 3, b.Matrix().EntityCount())
		assert.Equal(t, float32(0.5), b.Matrix().Entry(2).Value)
	})

	t.Run("too few fields", func(t *testing.T) {
		_, err := ReadEdges(strings.NewReader("a\n"), NewBuilder("g"))
		assert.ErrorContains(t, err, "line 1")
	})

	t.Run("bad weight", func(t *testing.T) {
		_, err := ReadEdges(strings.NewReader("a\tb\tx\n"), NewBuilder("g"))
		assert.ErrorContains(t, err, "weight")
	})
}
