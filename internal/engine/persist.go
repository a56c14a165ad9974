package engine

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/isgasho/cleora/entity"
	"github.com/isgasho/cleora/internal/matrix"
	"github.com/isgasho/cleora/output"
	"github.com/isgasho/cleora/sparse"
)

// persist emits the metadata record, one record per resolvable live
// entity and the finish signal. It returns the number of data records.
func persist(g *matrix.Generation, src sparse.Source, live *roaring.Bitmap, names entity.Mapping, w output.Writer) (int, error) {
	if err := w.PutMetadata(g.Entities(), g.Dimension()); err != nil {
		return 0, fmt.Errorf("put metadata: %w", err)
	}

	var (
		emitted int
		vec     = make([]float32, 0, g.Dimension())
	)
	it := live.Iterator()
	for it.HasNext() {
		j := int(it.Next())
		h := src.Hash(j)
		name, ok := names.Lookup(h)
		if !ok {
			continue
		}
		vec = g.Vector(j, vec)
		if err := w.PutData(name, src.Occurrence(h), vec); err != nil {
			return emitted, fmt.Errorf("put data for %q: %w", name, err)
		}
		emitted++
	}

	if err := w.Finish(); err != nil {
		return emitted, fmt.Errorf("finish: %w", err)
	}
	return emitted, nil
}
