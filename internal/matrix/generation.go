package matrix

import (
	"fmt"

	"github.com/isgasho/cleora/internal/fs"
	"github.com/isgasho/cleora/internal/mmap"
)

// Generation is one iteration's complete matrix snapshot.
//
// Columns may be written concurrently as long as each column (or each
// disjoint entity range) has exactly one writer for the phase.
type Generation struct {
	iteration int
	entities  int
	dimension int
	data      []float32

	// Set for file-backed generations only.
	mapping *mmap.Mapping
	file    fs.File
	path    string
}

// Iteration returns the round that produced this generation (0 = initial).
func (g *Generation) Iteration() int { return g.iteration }

// Entities returns the column length.
func (g *Generation) Entities() int { return g.entities }

// Dimension returns the number of columns.
func (g *Generation) Dimension() int { return g.dimension }

// Path returns the backing file, or "" for in-memory generations.
func (g *Generation) Path() string { return g.path }

// Data returns the flat column-major buffer.
func (g *Generation) Data() []float32 { return g.data }

// Column returns the values of dimension dim for all entities.
// The slice is capped so appends cannot spill into the next column.
func (g *Generation) Column(dim int) []float32 {
	if dim < 0 || dim >= g.dimension {
		panic(fmt.Sprintf("matrix: dimension %d out of range [0,%d)", dim, g.dimension))
	}
	lo, hi := dim*g.entities, (dim+1)*g.entities
	return g.data[lo:hi:hi]
}

// At returns the value at (dim, entity).
func (g *Generation) At(dim, entity int) float32 {
	return g.data[g.offset(dim, entity)]
}

// Set stores v at (dim, entity).
func (g *Generation) Set(dim, entity int, v float32) {
	g.data[g.offset(dim, entity)] = v
}

// Vector copies the dimension-length embedding of entity into dst (grown if needed).
func (g *Generation) Vector(entity int, dst []float32) []float32 {
	dst = dst[:0]
	for i := 0; i < g.dimension; i++ {
		dst = append(dst, g.data[g.offset(i, entity)])
	}
	return dst
}

func (g *Generation) offset(dim, entity int) int {
	if dim < 0 || dim >= g.dimension {
		panic(fmt.Sprintf("matrix: dimension %d out of range [0,%d)", dim, g.dimension))
	}
	if entity < 0 || entity >= g.entities {
		panic(fmt.Sprintf("matrix: entity %d out of range [0,%d)", entity, g.entities))
	}
	return dim*g.entities + entity
}
