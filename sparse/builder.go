package sparse

import (
	"github.com/isgasho/cleora/entity"
	"github.com/isgasho/cleora/internal/hash"
)

// Builder interns named entities and records undirected relationships.
type Builder struct {
	m     *Matrix
	names *entity.Registry
}

// NewBuilder creates a builder for a matrix identified by id.
func NewBuilder(id string) *Builder {
	return &Builder{m: NewMatrix(id), names: entity.NewRegistry()}
}

// AddPair records a relationship of weight w between a and b in both directions.
func (b *Builder) AddPair(a, c string, w float32) error {
	ia, err := b.intern(a)
	if err != nil {
		return err
	}
	ic, err := b.intern(c)
	if err != nil {
		return err
	}
	if err := b.m.AddEntry(ia, ic, w); err != nil {
		return err
	}
	return b.m.AddEntry(ic, ia, w)
}

func (b *Builder) intern(name string) (uint32, error) {
	h := hash.Entity(name)
	b.names.Put(h, name)
	return b.m.AddEntity(h)
}

// Matrix returns the matrix built so far.
func (b *Builder) Matrix() *Matrix { return b.m }

// Names returns the hash to name registry.
func (b *Builder) Names() *entity.Registry { return b.names }
