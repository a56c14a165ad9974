package cleora

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/isgasho/cleora/internal/fs"
)

// Strategy selects where the evolving matrix lives.
type Strategy int

const (
	// InMemory keeps every generation on the heap.
	InMemory Strategy = iota
	// Mmap keeps every generation in a memory-mapped file.
	Mmap
)

func (s Strategy) String() string {
	switch s {
	case InMemory:
		return "memory"
	case Mmap:
		return "mmap"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy accepts "memory" (or "in-memory") and "mmap".
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "memory", "in-memory", "inmemory":
		return InMemory, nil
	case "mmap":
		return Mmap, nil
	default:
		return 0, fmt.Errorf("%w: unknown strategy %q", ErrInvalidArgument, s)
	}
}

const (
	// DefaultDimension is the embedding width used when none is configured.
	DefaultDimension = 128
	// DefaultMaxIterations is the number of propagation rounds used when none is configured.
	DefaultMaxIterations = 4
)

type options struct {
	dimension     int
	maxIterations int
	strategy      Strategy
	workDir       string
	memoryLimit   int64
	parallelism   int
	logger        *Logger
	metrics       MetricsCollector
	fs            fs.FileSystem
}

func defaultOptions() options {
	return options{
		dimension:     DefaultDimension,
		maxIterations: DefaultMaxIterations,
		strategy:      InMemory,
		workDir:       ".",
		parallelism:   runtime.GOMAXPROCS(0),
		logger:        NoopLogger(),
		metrics:       NoopMetricsCollector{},
		fs:            fs.Default,
	}
}

// Option configures Embed.
type Option func(*options)

// WithDimension sets the embedding width.
func WithDimension(dim int) Option {
	return func(o *options) {
		o.dimension = dim
	}
}

// WithMaxIterations sets the number of propagation rounds. Zero yields the
// normalized initialization.
func WithMaxIterations(n int) Option {
	return func(o *options) {
		o.maxIterations = n
	}
}

// WithStrategy selects the storage strategy.
func WithStrategy(s Strategy) Option {
	return func(o *options) {
		o.strategy = s
	}
}

// WithWorkDir sets the directory holding generation files (Mmap only).
// It is created if missing.
func WithWorkDir(dir string) Option {
	return func(o *options) {
		o.workDir = dir
	}
}

// WithMemoryLimit caps the heap held by InMemory generations. A run keeps
// two generations alive while propagating, so it needs
// 2 x entities x dimension x 4 bytes. Exceeding the cap fails the run
// before the allocation. Zero or negative means unlimited. Ignored by Mmap.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithParallelism bounds the number of concurrent tasks per phase.
// Values <= 0 fall back to GOMAXPROCS.
func WithParallelism(n int) Option {
	return func(o *options) {
		if n <= 0 {
			n = runtime.GOMAXPROCS(0)
		}
		o.parallelism = n
	}
}

// WithLogger sets the logger. Pass nil to disable logging.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
//
// Example with PrometheusCollector:
//
//	pc := cleora.NewPrometheusCollector(prometheus.DefaultRegisterer, "cleora")
//	cleora.Embed(ctx, src, names, w, cleora.WithMetricsCollector(pc))
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

// WithFileSystem replaces the file system used for generation files.
// Intended for fault-injection tests.
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		if fsys == nil {
			fsys = fs.Default
		}
		o.fs = fsys
	}
}
