package engine

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/isgasho/cleora/entity"
	"github.com/isgasho/cleora/internal/conv"
	"github.com/isgasho/cleora/internal/matrix"
	"github.com/isgasho/cleora/output"
	"github.com/isgasho/cleora/sparse"
)

// normalizeChunk is the number of entities one normalization task owns.
const normalizeChunk = 4096

// StoreFactory creates the storage strategy once the matrix shape is known.
type StoreFactory func(src sparse.Source, entities, dimension int) (matrix.Store, error)

// Config parameterizes a run.
type Config struct {
	Dimension     int
	MaxIterations int
	// Parallelism bounds concurrent tasks per phase. <= 0 means GOMAXPROCS.
	Parallelism int
	NewStore    StoreFactory
	Logger      *slog.Logger
	Metrics     MetricsObserver
	// ProgressInterval throttles in-phase debug progress lines. <= 0 means one second.
	ProgressInterval time.Duration
}

// Result summarizes a completed run.
type Result struct {
	Entities    int
	Live        int
	Emitted     int
	ZeroVectors int
	Iterations  int
}

type runner struct {
	cfg      Config
	src      sparse.Source
	store    matrix.Store
	live     *roaring.Bitmap
	entities int
	logger   *slog.Logger
	metrics  MetricsObserver
	progress *rate.Sometimes
}

// Run computes embeddings for src and emits them to w.
//
// Run is fail-fast: the first error aborts the computation, releases the
// generations still held and is returned. Nothing is retried.
func Run(ctx context.Context, cfg Config, src sparse.Source, names entity.Mapping, w output.Writer) (Result, error) {
	if cfg.Dimension <= 0 {
		return Result{}, fmt.Errorf("%w: dimension %d must be positive", ErrInvalidArgument, cfg.Dimension)
	}
	if cfg.MaxIterations < 0 {
		return Result{}, fmt.Errorf("%w: max iterations %d must not be negative", ErrInvalidArgument, cfg.MaxIterations)
	}
	if cfg.NewStore == nil {
		cfg.NewStore = func(_ sparse.Source, entities, dimension int) (matrix.Store, error) {
			return matrix.NewMemoryStore(entities, dimension), nil
		}
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = runtime.GOMAXPROCS(0)
	}
	if cfg.ProgressInterval <= 0 {
		cfg.ProgressInterval = time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = NoopMetricsObserver{}
	}

	src.Normalize()

	n := src.EntityCount()
	if _, err := conv.IntToUint32(n); err != nil {
		return Result{}, fmt.Errorf("%w: entity count: %w", ErrInvalidArgument, err)
	}
	if err := checkEntries(src, n); err != nil {
		return Result{}, err
	}

	store, err := cfg.NewStore(src, n, cfg.Dimension)
	if err != nil {
		return Result{}, fmt.Errorf("create store: %w", err)
	}

	r := &runner{
		cfg:      cfg,
		src:      src,
		store:    store,
		live:     liveEntities(src),
		entities: n,
		logger:   logger.With("dimension", cfg.Dimension, "entities", n),
		metrics:  metrics,
		progress: &rate.Sometimes{Interval: cfg.ProgressInterval},
	}
	return r.run(ctx, names, w)
}

func checkEntries(src sparse.Source, n int) error {
	m := src.EntryCount()
	for k := 0; k < m; k++ {
		e := src.Entry(k)
		if int(e.Row) >= n || int(e.Col) >= n {
			return fmt.Errorf("%w: entry %d (%d, %d) with %d entities", ErrEntryOutOfRange, k, e.Row, e.Col, n)
		}
	}
	return nil
}

func (r *runner) run(ctx context.Context, names entity.Mapping, w output.Writer) (res Result, err error) {
	res = Result{Entities: r.entities, Live: int(r.live.GetCardinality())}

	var held []*matrix.Generation
	defer func() {
		if err == nil {
			return
		}
		// Best effort: the run is already failing.
		for _, g := range held {
			if g != nil {
				_ = r.store.Release(g)
			}
		}
	}()

	cur, zero, err := r.initialize(ctx)
	held = []*matrix.Generation{cur}
	if err != nil {
		return res, err
	}
	res.ZeroVectors = zero

	r.logger.InfoContext(ctx, "start propagating", "iterations", r.cfg.MaxIterations, "entries", r.src.EntryCount())
	for k := 0; k < r.cfg.MaxIterations; k++ {
		start := time.Now()

		next, err := r.allocate(k + 1)
		if err != nil {
			return res, err
		}
		held = []*matrix.Generation{cur, next}

		if err := r.phase(ctx, PhaseAccumulate, func() error { return r.accumulate(ctx, cur, next) }); err != nil {
			return res, err
		}
		if err := r.phase(ctx, PhaseNormalize, func() (err error) { zero, err = r.normalize(next); return err }); err != nil {
			return res, err
		}
		if err := r.store.Commit(cur, next); err != nil {
			return res, fmt.Errorf("commit generation %d: %w", k+1, err)
		}
		cur = next
		held = []*matrix.Generation{cur}
		res.ZeroVectors = zero
		res.Iterations++

		r.metrics.OnIteration(k, time.Since(start))
		r.logger.InfoContext(ctx, "done iteration", "iteration", k, "entries", r.src.EntryCount(), "zero_vectors", zero)
	}
	r.logger.InfoContext(ctx, "done propagating")

	r.logger.InfoContext(ctx, "start saving embeddings")
	if err := r.phase(ctx, PhasePersist, func() (err error) {
		res.Emitted, err = persist(cur, r.src, r.live, names, w)
		return err
	}); err != nil {
		return res, fmt.Errorf("persist: %w", err)
	}
	r.logger.InfoContext(ctx, "done saving embeddings", "emitted", res.Emitted)

	held = nil
	if err := r.store.Release(cur); err != nil {
		return res, fmt.Errorf("release final generation: %w", err)
	}
	return res, nil
}

func (r *runner) allocate(iteration int) (*matrix.Generation, error) {
	g, err := r.store.Allocate(iteration)
	if err != nil {
		return nil, fmt.Errorf("allocate generation %d: %w", iteration, err)
	}
	r.metrics.OnGeneration(r.store.Strategy(), int64(len(g.Data()))*4)
	return g, nil
}

// initialize builds, normalizes and commits generation 0.
func (r *runner) initialize(ctx context.Context) (*matrix.Generation, int, error) {
	r.logger.InfoContext(ctx, "start initialization")

	g, err := r.allocate(0)
	if err != nil {
		return nil, 0, err
	}

	err = r.phase(ctx, PhaseInitialize, func() error {
		return r.forEachColumn(func(dim int) error {
			initializeColumn(g, r.src, r.live, dim)
			return nil
		})
	})
	if err != nil {
		return g, 0, err
	}

	var zero int
	if err := r.phase(ctx, PhaseNormalize, func() (err error) { zero, err = r.normalize(g); return err }); err != nil {
		return g, 0, err
	}
	if err := r.store.Commit(nil, g); err != nil {
		return g, 0, fmt.Errorf("commit generation 0: %w", err)
	}

	r.logger.InfoContext(ctx, "done initializing", "zero_vectors", zero)
	return g, zero, nil
}

func (r *runner) accumulate(ctx context.Context, prev, next *matrix.Generation) error {
	var done atomic.Int64
	return r.forEachColumn(func(dim int) error {
		accumulateColumn(prev, next, r.src, dim)
		finished := done.Add(1)
		r.progress.Do(func() {
			r.logger.DebugContext(ctx, "accumulating", "iteration", prev.Iteration(), "columns_done", finished)
		})
		return nil
	})
}

// normalize fans out over disjoint entity ranges and returns the number of
// zero vectors left untouched.
func (r *runner) normalize(g *matrix.Generation) (int, error) {
	var zero atomic.Int64
	var eg errgroup.Group
	eg.SetLimit(r.cfg.Parallelism)
	for lo := 0; lo < r.entities; lo += normalizeChunk {
		hi := min(lo+normalizeChunk, r.entities)
		eg.Go(func() error {
			zero.Add(int64(normalizeRange(g, lo, hi)))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return 0, err
	}
	// Sentinel slots are always zero and are not entities.
	return int(zero.Load()) - (r.entities - int(r.live.GetCardinality())), nil
}

// forEachColumn runs fn once per dimension, one task per column, and
// waits for all of them.
func (r *runner) forEachColumn(fn func(dim int) error) error {
	var eg errgroup.Group
	eg.SetLimit(r.cfg.Parallelism)
	for dim := 0; dim < r.cfg.Dimension; dim++ {
		eg.Go(func() error { return fn(dim) })
	}
	return eg.Wait()
}

func (r *runner) phase(ctx context.Context, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	r.metrics.OnPhase(name, time.Since(start), err)
	if err != nil {
		r.logger.ErrorContext(ctx, "phase failed", "phase", name, "error", err)
	}
	return err
}
