package sparse

import (
	"fmt"

	"github.com/isgasho/cleora/internal/hash"
)

// Entry is one weighted contribution of Col's vector into Row's vector.
type Entry struct {
	Row   uint32
	Col   uint32
	Value float32
}

// Source is the read side of a sparse matrix consumed by the engine.
type Source interface {
	// ID names the matrix; generation files are prefixed with it.
	ID() string
	// EntityCount is the number of dense entity slots.
	EntityCount() int
	// Hash returns the hash stored at index, or -1 for an unused slot.
	Hash(index int) int64
	// Occurrence returns how many times hash was observed.
	Occurrence(hash int64) uint32
	// EntryCount is the number of entries.
	EntryCount() int
	// Entry returns entry i, 0 <= i < EntryCount().
	Entry(i int) Entry
	// Normalize row-normalizes the entry values. It is called once
	// before any computation.
	Normalize()
}

// EntrySlicer is implemented by sources that can expose all entries at once.
type EntrySlicer interface {
	Entries() []Entry
}

// Matrix is an in-memory Source.
type Matrix struct {
	id          string
	hashes      []int64
	index       map[int64]uint32
	occurrences map[int64]uint32
	entries     []Entry
	normalized  bool
}

var (
	_ Source      = (*Matrix)(nil)
	_ EntrySlicer = (*Matrix)(nil)
)

// NewMatrix creates an empty matrix identified by id.
func NewMatrix(id string) *Matrix {
	return &Matrix{
		id:          id,
		index:       make(map[int64]uint32),
		occurrences: make(map[int64]uint32),
	}
}

// AddEntity interns h, counts one occurrence and returns its index.
func (m *Matrix) AddEntity(h int64) (uint32, error) {
	if h == hash.Sentinel {
		return 0, fmt.Errorf("sparse: hash %d is reserved for empty slots", h)
	}
	m.occurrences[h]++
	if idx, ok := m.index[h]; ok {
		return idx, nil
	}
	idx := uint32(len(m.hashes))
	m.hashes = append(m.hashes, h)
	m.index[h] = idx
	return idx, nil
}

// Reserve pads the entity table with empty slots up to n entries.
func (m *Matrix) Reserve(n int) {
	for len(m.hashes) < n {
		m.hashes = append(m.hashes, hash.Sentinel)
	}
}

// AddEntry appends a raw entry. Row and col must be interned indices.
func (m *Matrix) AddEntry(row, col uint32, value float32) error {
	n := uint32(len(m.hashes))
	if row >= n || col >= n {
		return fmt.Errorf("sparse: entry (%d, %d) outside %d entities", row, col, n)
	}
	m.entries = append(m.entries, Entry{Row: row, Col: col, Value: value})
	return nil
}

func (m *Matrix) ID() string { return m.id }

func (m *Matrix) EntityCount() int { return len(m.hashes) }

func (m *Matrix) Hash(index int) int64 { return m.hashes[index] }

func (m *Matrix) Occurrence(h int64) uint32 { return m.occurrences[h] }

func (m *Matrix) EntryCount() int { return len(m.entries) }

func (m *Matrix) Entry(i int) Entry { return m.entries[i] }

func (m *Matrix) Entries() []Entry { return m.entries }

// Normalize divides every entry by the sum of values in its row, so each
// row of the weight matrix sums to one. Rows summing to zero are kept.
// Only the first call has an effect.
func (m *Matrix) Normalize() {
	if m.normalized {
		return
	}
	m.normalized = true

	sums := make([]float64, len(m.hashes))
	for _, e := range m.entries {
		sums[e.Row] += float64(e.Value)
	}
	for i := range m.entries {
		e := &m.entries[i]
		if s := sums[e.Row]; s != 0 {
			e.Value = float32(float64(e.Value) / s)
		}
	}
}
