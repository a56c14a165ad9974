package testutil

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/isgasho/cleora/internal/hash"
	"github.com/isgasho/cleora/sparse"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float32 returns, as a float32, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float32() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float32()
}

// Graph builds a graph with the given number of undirected edges between
// nodes named "n0".."n{nodes-1}". Weights lie in [1, 2). Self loops are
// allowed. Nodes that are never drawn do not appear.
func (r *RNG) Graph(id string, nodes, edges int) *sparse.Builder {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := sparse.NewBuilder(id)
	for range edges {
		a, c := r.rand.Intn(nodes), r.rand.Intn(nodes)
		w := 1 + r.rand.Float32()
		if err := b.AddPair(fmt.Sprintf("n%d", a), fmt.Sprintf("n%d", c), w); err != nil {
			panic(err)
		}
	}
	return b
}

// Norm returns the L2 norm of v computed in float64.
func Norm(v []float32) float64 {
	var s float64
	for _, x := range v {
		s += float64(x) * float64(x)
	}
	return math.Sqrt(s)
}

// Reference computes embeddings with a dense row-per-entity layout and
// float64 normalization. It normalizes src first. Empty slots and rows
// without contributions stay zero.
func Reference(src sparse.Source, dimension, iterations int) [][]float32 {
	src.Normalize()
	n := src.EntityCount()

	cur := make([][]float32, n)
	for j := range cur {
		cur[j] = make([]float32, dimension)
		h := src.Hash(j)
		if h == hash.Sentinel {
			continue
		}
		for d := range dimension {
			cur[j][d] = float32(hash.Stable(h+int64(d))%(1<<23)) / (1 << 23)
		}
	}
	normalizeRows(cur)

	for range iterations {
		next := make([][]float32, n)
		for j := range next {
			next[j] = make([]float32, dimension)
		}
		for d := range dimension {
			for k := range src.EntryCount() {
				e := src.Entry(k)
				next[e.Row][d] += cur[e.Col][d] * e.Value
			}
		}
		normalizeRows(next)
		cur = next
	}
	return cur
}

func normalizeRows(rows [][]float32) {
	for _, v := range rows {
		norm := Norm(v)
		if norm == 0 {
			continue
		}
		for i := range v {
			v[i] = float32(float64(v[i]) / norm)
		}
	}
}
