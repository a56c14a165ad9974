package cleora

import (
	"context"
	"fmt"
	"time"

	"github.com/isgasho/cleora/entity"
	"github.com/isgasho/cleora/internal/engine"
	"github.com/isgasho/cleora/internal/matrix"
	"github.com/isgasho/cleora/internal/resource"
	"github.com/isgasho/cleora/output"
	"github.com/isgasho/cleora/sparse"
)

// Result summarizes a completed run.
type Result struct {
	// Entities is the number of entity slots, including empty ones.
	Entities int
	// Live is the number of slots holding an entity.
	Live int
	// Emitted is the number of records written (live and resolvable).
	Emitted int
	// ZeroVectors counts live entities left with a zero vector.
	ZeroVectors int
	// Iterations is the number of completed propagation rounds.
	Iterations int
	// Duration is the wall time of the run.
	Duration time.Duration
}

// Embed normalizes src, computes a fixed-width embedding for every entity
// and writes the resolvable ones to w.
//
// names resolves entity hashes to the identities written to w. The run is
// fail-fast and synchronous; ctx carries logging context only.
func Embed(ctx context.Context, src sparse.Source, names entity.Mapping, w output.Writer, opts ...Option) (Result, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := validate(&o); err != nil {
		return Result{}, err
	}
	if src == nil || names == nil || w == nil {
		return Result{}, fmt.Errorf("%w: nil input or writer", ErrInvalidArgument)
	}

	logger := o.logger.WithGraph(src.ID()).WithStrategy(o.strategy)
	start := time.Now()

	res, err := engine.Run(ctx, engine.Config{
		Dimension:     o.dimension,
		MaxIterations: o.maxIterations,
		Parallelism:   o.parallelism,
		NewStore:      o.storeFactory(),
		Logger:        logger.Logger,
		Metrics:       o.metrics,
	}, src, names, w)

	out := Result{
		Entities:    res.Entities,
		Live:        res.Live,
		Emitted:     res.Emitted,
		ZeroVectors: res.ZeroVectors,
		Iterations:  res.Iterations,
		Duration:    time.Since(start),
	}
	logger.LogRun(ctx, out, err)
	return out, err
}

func (o *options) storeFactory() engine.StoreFactory {
	switch o.strategy {
	case Mmap:
		fsys, dir := o.fs, o.workDir
		return func(src sparse.Source, entities, dimension int) (matrix.Store, error) {
			return matrix.NewMmapStore(fsys, dir, src.ID(), entities, dimension)
		}
	default:
		limit := o.memoryLimit
		return func(_ sparse.Source, entities, dimension int) (matrix.Store, error) {
			return matrix.NewMemoryStore(entities, dimension, matrix.WithBudget(resource.NewBudget(limit))), nil
		}
	}
}
