package matrix

import (
	"fmt"

	"github.com/isgasho/cleora/internal/conv"
	"github.com/isgasho/cleora/internal/mem"
	"github.com/isgasho/cleora/internal/resource"
)

// Store is a storage strategy for generations.
type Store interface {
	// Strategy names the strategy for logs and metrics.
	Strategy() string

	// Allocate returns a new zero-filled generation.
	Allocate(iteration int) (*Generation, error)

	// Commit makes next durable and releases prev. prev may be nil.
	// prev must not be read after Commit returns.
	Commit(prev, next *Generation) error

	// Release discards g and its backing storage.
	Release(g *Generation) error
}

// MemoryStore keeps generations fully resident on the heap.
type MemoryStore struct {
	entities  int
	dimension int
	budget    *resource.Budget
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithBudget charges every live generation against b.
func WithBudget(b *resource.Budget) MemoryOption {
	return func(s *MemoryStore) {
		s.budget = b
	}
}

// NewMemoryStore creates an in-memory store.
func NewMemoryStore(entities, dimension int, opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{entities: entities, dimension: dimension}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Strategy() string { return "memory" }

func (s *MemoryStore) Allocate(iteration int) (*Generation, error) {
	bytes, err := conv.MulInt(s.entities, s.dimension, 4)
	if err != nil {
		return nil, fmt.Errorf("matrix: generation size: %w", err)
	}
	if err := s.budget.Acquire(int64(bytes)); err != nil {
		return nil, fmt.Errorf("matrix: generation %d needs %d bytes (%d of %d in use): %w",
			iteration, bytes, s.budget.Used(), s.budget.Limit(), err)
	}
	return &Generation{
		iteration: iteration,
		entities:  s.entities,
		dimension: s.dimension,
		data:      mem.AllocAlignedFloat32(s.entities * s.dimension),
	}, nil
}

func (s *MemoryStore) Commit(prev, next *Generation) error {
	if prev != nil {
		return s.Release(prev)
	}
	return nil
}

// Release drops the generation's buffer. Releasing twice is a no-op.
func (s *MemoryStore) Release(g *Generation) error {
	if g.data != nil {
		s.budget.Release(int64(len(g.data)) * 4)
	}
	g.data = nil
	return nil
}
