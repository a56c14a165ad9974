package cleora

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isgasho/cleora/internal/fs"
	"github.com/isgasho/cleora/output"
	"github.com/isgasho/cleora/sparse"
)

func starGraph(t *testing.T) *sparse.Builder {
	t.Helper()
	b := sparse.NewBuilder("star")
	for _, leaf := range []string{"b", "c", "d", "e"} {
		require.NoError(t, b.AddPair("hub", leaf, 1))
	}
	return b
}

func TestEmbed(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		b := starGraph(t)
		var out output.Collector

		res, err := Embed(context.Background(), b.Matrix(), b.Names(), &out)
		require.NoError(t, err)

		assert.Equal(t, 5, res.Entities)
		assert.Equal(t, 5, res.Emitted)
		assert.Equal(t, DefaultMaxIterations, res.Iterations)
		assert.Equal(t, DefaultDimension, out.Dimension)
		assert.Equal(t, 1, out.Metadata)
		assert.Equal(t, 1, out.Finished)

		hub := out.ByName()["hub"]
		assert.Equal(t, uint32(4), hub.Occurrence)
		assert.Len(t, hub.Vector, DefaultDimension)
	})

	t.Run("LeavesAgree", func(t *testing.T) {
		// Every leaf only sees the hub, so after one round they coincide.
		b := starGraph(t)
		var out output.Collector

		_, err := Embed(context.Background(), b.Matrix(), b.Names(), &out,
			WithDimension(32), WithMaxIterations(1))
		require.NoError(t, err)

		recs := out.ByName()
		assert.Equal(t, recs["b"].Vector, recs["c"].Vector)
		assert.Equal(t, recs["b"].Vector, recs["e"].Vector)
		assert.NotEqual(t, recs["b"].Vector, recs["hub"].Vector)
	})

	t.Run("StrategiesAgree", func(t *testing.T) {
		mem := &output.Collector{}
		b := starGraph(t)
		_, err := Embed(context.Background(), b.Matrix(), b.Names(), mem, WithDimension(24))
		require.NoError(t, err)

		mm := &output.Collector{}
		b = starGraph(t)
		_, err = Embed(context.Background(), b.Matrix(), b.Names(), mm,
			WithDimension(24), WithStrategy(Mmap), WithWorkDir(t.TempDir()), WithParallelism(2))
		require.NoError(t, err)

		assert.Equal(t, mem.Records, mm.Records)
	})

	t.Run("InvalidOptions", func(t *testing.T) {
		b := starGraph(t)

		_, err := Embed(context.Background(), b.Matrix(), b.Names(), &output.Collector{}, WithDimension(0))
		var dimErr *ErrInvalidDimension
		require.ErrorAs(t, err, &dimErr)
		assert.Equal(t, 0, dimErr.Dimension)
		assert.ErrorIs(t, err, ErrInvalidArgument)

		_, err = Embed(context.Background(), b.Matrix(), b.Names(), &output.Collector{}, WithMaxIterations(-1))
		var iterErr *ErrInvalidIterations
		require.ErrorAs(t, err, &iterErr)
		assert.ErrorIs(t, err, ErrInvalidArgument)

		_, err = Embed(context.Background(), b.Matrix(), b.Names(), &output.Collector{},
			WithStrategy(Mmap), WithWorkDir(""))
		assert.ErrorIs(t, err, ErrInvalidArgument)

		_, err = Embed(context.Background(), b.Matrix(), b.Names(), &output.Collector{}, WithStrategy(Strategy(9)))
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("MemoryLimit", func(t *testing.T) {
		// 5 entities x 8 dims x 4 bytes = 160 bytes per generation.
		b := starGraph(t)
		res, err := Embed(context.Background(), b.Matrix(), b.Names(), &output.Collector{},
			WithDimension(8), WithMemoryLimit(200))
		require.ErrorIs(t, err, ErrMemoryLimitExceeded)
		assert.Zero(t, res.Iterations)

		b = starGraph(t)
		_, err = Embed(context.Background(), b.Matrix(), b.Names(), &output.Collector{},
			WithDimension(8), WithMemoryLimit(320))
		require.NoError(t, err)

		b = starGraph(t)
		_, err = Embed(context.Background(), b.Matrix(), b.Names(), &output.Collector{},
			WithDimension(8), WithMemoryLimit(1), WithStrategy(Mmap), WithWorkDir(t.TempDir()))
		require.NoError(t, err)
	})

	t.Run("GenerationFailure", func(t *testing.T) {
		faulty := fs.NewFaultyFS(fs.Default)
		faulty.AddRule("_matrix_2", fs.Fault{FailOnTruncate: true})

		b := starGraph(t)
		var out output.Collector
		res, err := Embed(context.Background(), b.Matrix(), b.Names(), &out,
			WithDimension(8), WithStrategy(Mmap), WithWorkDir(t.TempDir()), WithFileSystem(faulty))
		require.Error(t, err)
		assert.True(t, IsFileSystemError(err))
		assert.ErrorIs(t, err, fs.ErrInjected)
		assert.Equal(t, 1, res.Iterations)
		assert.Empty(t, out.Records)
	})
}

func TestStrategy(t *testing.T) {
	for in, want := range map[string]Strategy{"memory": InMemory, "In-Memory": InMemory, " mmap ": Mmap} {
		got, err := ParseStrategy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseStrategy("disk")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	assert.Equal(t, "memory", InMemory.String())
	assert.Equal(t, "mmap", Mmap.String())
	assert.Equal(t, "Strategy(7)", Strategy(7).String())
}

func TestOptions(t *testing.T) {
	o := defaultOptions()
	assert.Equal(t, 128, o.dimension)
	assert.Equal(t, 4, o.maxIterations)
	assert.Equal(t, ".", o.workDir)
	assert.Positive(t, o.parallelism)

	for _, opt := range []Option{WithLogger(nil), WithMetricsCollector(nil), WithFileSystem(nil), WithParallelism(-3)} {
		opt(&o)
	}
	assert.NotNil(t, o.logger)
	assert.Equal(t, NoopMetricsCollector{}, o.metrics)
	assert.Equal(t, fs.Default, o.fs)
	assert.Positive(t, o.parallelism)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewJSONLogger(&buf, slog.LevelInfo).WithStrategy(Mmap).WithGraph("g")

	l.LogRun(context.Background(), Result{Entities: 3, Emitted: 2, Iterations: 4}, nil)
	assert.Contains(t, buf.String(), `"msg":"embedding completed"`)
	assert.Contains(t, buf.String(), `"strategy":"mmap"`)
	assert.Contains(t, buf.String(), `"graph":"g"`)

	buf.Reset()
	l.LogRun(context.Background(), Result{}, errors.New("boom"))
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
	assert.Contains(t, buf.String(), "boom")

	t.Run("EmbedLogs", func(t *testing.T) {
		var buf bytes.Buffer
		b := starGraph(t)
		_, err := Embed(context.Background(), b.Matrix(), b.Names(), &output.Collector{},
			WithDimension(4), WithMaxIterations(2), WithLogger(NewTextLogger(&buf, slog.LevelInfo)))
		require.NoError(t, err)

		out := buf.String()
		assert.Equal(t, 2, strings.Count(out, "msg=\"done iteration\""))
		assert.Contains(t, out, "dimension=4")
		assert.Contains(t, out, "msg=\"embedding completed\"")

		for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
			assert.Equal(t, 1, strings.Count(line, "strategy="), line)
			assert.LessOrEqual(t, strings.Count(line, "dimension="), 1, line)
		}
	})
}

func TestMetrics(t *testing.T) {
	t.Run("Basic", func(t *testing.T) {
		var mc BasicMetricsCollector
		b := starGraph(t)
		_, err := Embed(context.Background(), b.Matrix(), b.Names(), &output.Collector{},
			WithDimension(8), WithMaxIterations(3), WithMetricsCollector(&mc))
		require.NoError(t, err)

		s := mc.GetStats()
		assert.Equal(t, int64(3), s.IterationCount)
		assert.Equal(t, int64(4), s.GenerationCount)
		assert.Equal(t, int64(4*5*8*4), s.GenerationBytes)
		// initialize + normalize, then accumulate + normalize per round, then persist.
		assert.Equal(t, int64(2+2*3+1), s.PhaseCount)
		assert.Zero(t, s.PhaseErrors)
	})

	t.Run("BasicAverage", func(t *testing.T) {
		var mc BasicMetricsCollector
		mc.OnIteration(0, 2*time.Millisecond)
		mc.OnIteration(1, 4*time.Millisecond)
		mc.OnPhase("persist", time.Millisecond, errors.New("x"))
		s := mc.GetStats()
		assert.Equal(t, (3 * time.Millisecond).Nanoseconds(), s.IterationAvgNanos)
		assert.Equal(t, int64(1), s.PhaseErrors)
	})

	t.Run("Prometheus", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		pc := NewPrometheusCollector(reg, "cleora")

		b := starGraph(t)
		_, err := Embed(context.Background(), b.Matrix(), b.Names(), &output.Collector{},
			WithDimension(8), WithMaxIterations(2), WithMetricsCollector(pc))
		require.NoError(t, err)

		assert.InDelta(t, 2, testutil.ToFloat64(pc.iterations), 0)
		assert.InDelta(t, 3, testutil.ToFloat64(pc.generations.WithLabelValues("memory")), 0)
		assert.InDelta(t, 5*8*4, testutil.ToFloat64(pc.generationBytes.WithLabelValues("memory")), 0)

		n, err := testutil.GatherAndCount(reg, "cleora_phase_duration_seconds")
		require.NoError(t, err)
		// initialize, accumulate, normalize and persist, all with status ok.
		assert.Equal(t, 4, n)
	})
}
