package engine

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/isgasho/cleora/internal/hash"
	"github.com/isgasho/cleora/internal/matrix"
	"github.com/isgasho/cleora/sparse"
)

// initModulus bounds the hash before scaling into [0, 1).
const initModulus = 1 << 23

// InitialValue returns the generation-0 value of an entity with hash h in
// dimension dim: (stable(h+dim) mod 2^23) / 2^23.
func InitialValue(h int64, dim int) float32 {
	x := hash.Stable(h+int64(dim)) % initModulus
	return float32(x) / float32(initModulus)
}

// liveEntities collects the indices whose hash is not the sentinel.
func liveEntities(src sparse.Source) *roaring.Bitmap {
	live := roaring.New()
	n := src.EntityCount()
	for j := 0; j < n; j++ {
		if src.Hash(j) != hash.Sentinel {
			live.Add(uint32(j))
		}
	}
	live.RunOptimize()
	return live
}

// initializeColumn fills column dim of g. Sentinel slots stay zero.
func initializeColumn(g *matrix.Generation, src sparse.Source, live *roaring.Bitmap, dim int) {
	col := g.Column(dim)
	it := live.Iterator()
	for it.HasNext() {
		j := it.Next()
		col[j] = InitialValue(src.Hash(int(j)), dim)
	}
}
