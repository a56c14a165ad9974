package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/isgasho/cleora/entity"
	"github.com/isgasho/cleora/internal/fs"
	"github.com/isgasho/cleora/internal/matrix"
	"github.com/isgasho/cleora/output"
	"github.com/isgasho/cleora/sparse"
	"github.com/isgasho/cleora/testutil"
)

func memoryFactory() StoreFactory {
	return func(_ sparse.Source, n, d int) (matrix.Store, error) {
		return matrix.NewMemoryStore(n, d), nil
	}
}

func mmapFactory(fsys fs.FileSystem, dir string) StoreFactory {
	return func(src sparse.Source, n, d int) (matrix.Store, error) {
		return matrix.NewMmapStore(fsys, dir, src.ID(), n, d)
	}
}

// scenarioA: hashes [10, 20, 30], one entry (0, 1, 1.0).
func scenarioA(t *testing.T) (*sparse.Matrix, *entity.Registry) {
	t.Helper()
	m := sparse.NewMatrix("scenario_a")
	names := entity.NewRegistry()
	for i, h := range []int64{10, 20, 30} {
		_, err := m.AddEntity(h)
		require.NoError(t, err)
		names.Put(h, fmt.Sprintf("e%d", i))
	}
	require.NoError(t, m.AddEntry(0, 1, 1.0))
	return m, names
}

// randomGraph builds a reproducible undirected graph.
func randomGraph(t *testing.T, id string, nodes, edges int) (*sparse.Matrix, *entity.Registry) {
	t.Helper()
	b := testutil.NewRNG(7).Graph(id, nodes, edges)
	return b.Matrix(), b.Names()
}

func run(t *testing.T, cfg Config, src sparse.Source, names entity.Mapping) (*output.Collector, Result) {
	t.Helper()
	c := &output.Collector{}
	res, err := Run(context.Background(), cfg, src, names, c)
	require.NoError(t, err)
	return c, res
}

func normalized(v []float32) []float32 {
	var s float64
	for _, x := range v {
		s += float64(x) * float64(x)
	}
	out := make([]float32, len(v))
	if s == 0 {
		return out
	}
	for i, x := range v {
		out[i] = float32(float64(x) / sqrt(s))
	}
	return out
}
