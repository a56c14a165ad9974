package engine

import (
	"math"

	"gonum.org/v1/gonum/blas/blas32"

	"github.com/isgasho/cleora/internal/matrix"
	"github.com/isgasho/cleora/sparse"
)

// accumulateColumn computes next[dim] = Mᵗ · prev[dim]. Entries are applied
// in order; the caller guarantees one writer per column.
func accumulateColumn(prev, next *matrix.Generation, src sparse.Source, dim int) {
	in := prev.Column(dim)
	out := next.Column(dim)

	if s, ok := src.(sparse.EntrySlicer); ok {
		for _, e := range s.Entries() {
			out[e.Row] += in[e.Col] * e.Value
		}
		return
	}

	m := src.EntryCount()
	for k := 0; k < m; k++ {
		e := src.Entry(k)
		out[e.Row] += in[e.Col] * e.Value
	}
}

// normalizeRange L2-normalizes the embeddings of entities [lo, hi).
//
// The embedding of entity j is the strided vector g.Data()[j], [j+n], ...
// with stride n = entity count. Zero vectors are skipped.
func normalizeRange(g *matrix.Generation, lo, hi int) (zero int) {
	n := g.Entities()
	d := g.Dimension()
	data := g.Data()

	for j := lo; j < hi; j++ {
		v := blas32.Vector{N: d, Inc: n, Data: data[j:]}
		s := blas32.Dot(v, v)
		if s == 0 {
			zero++
			continue
		}
		blas32.Scal(float32(1/math.Sqrt(float64(s))), v)
	}
	return zero
}
