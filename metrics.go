package cleora

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector receives measurements of an Embed run.
//
// Phases are "initialize", "accumulate", "normalize" and "persist".
// Calls may arrive from the goroutine driving the run only; implementations
// still must be safe to share between concurrent runs.
type MetricsCollector interface {
	// OnPhase is called after each phase with its wall time and outcome.
	OnPhase(phase string, duration time.Duration, err error)

	// OnIteration is called after each completed propagation round.
	OnIteration(iteration int, duration time.Duration)

	// OnGeneration is called when a generation is allocated.
	// bytes is the matrix payload size.
	OnGeneration(strategy string, bytes int64)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) OnPhase(string, time.Duration, error) {}
func (NoopMetricsCollector) OnIteration(int, time.Duration)       {}
func (NoopMetricsCollector) OnGeneration(string, int64)           {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	PhaseCount      atomic.Int64
	PhaseErrors     atomic.Int64
	PhaseTotalNanos atomic.Int64
	IterationCount  atomic.Int64
	IterationNanos  atomic.Int64
	GenerationCount atomic.Int64
	GenerationBytes atomic.Int64
}

// OnPhase implements MetricsCollector.
func (b *BasicMetricsCollector) OnPhase(_ string, duration time.Duration, err error) {
	b.PhaseCount.Add(1)
	b.PhaseTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.PhaseErrors.Add(1)
	}
}

// OnIteration implements MetricsCollector.
func (b *BasicMetricsCollector) OnIteration(_ int, duration time.Duration) {
	b.IterationCount.Add(1)
	b.IterationNanos.Add(duration.Nanoseconds())
}

// OnGeneration implements MetricsCollector.
func (b *BasicMetricsCollector) OnGeneration(_ string, bytes int64) {
	b.GenerationCount.Add(1)
	b.GenerationBytes.Add(bytes)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	s := BasicMetricsStats{
		PhaseCount:      b.PhaseCount.Load(),
		PhaseErrors:     b.PhaseErrors.Load(),
		IterationCount:  b.IterationCount.Load(),
		GenerationCount: b.GenerationCount.Load(),
		GenerationBytes: b.GenerationBytes.Load(),
	}
	if s.IterationCount > 0 {
		s.IterationAvgNanos = b.IterationNanos.Load() / s.IterationCount
	}
	return s
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	PhaseCount        int64
	PhaseErrors       int64
	IterationCount    int64
	IterationAvgNanos int64
	GenerationCount   int64
	GenerationBytes   int64
}

// PrometheusCollector exports run metrics to a Prometheus registry.
type PrometheusCollector struct {
	phaseDuration     *prometheus.HistogramVec
	iterations        prometheus.Counter
	iterationDuration prometheus.Histogram
	generations       *prometheus.CounterVec
	generationBytes   *prometheus.GaugeVec
}

// NewPrometheusCollector registers the cleora metrics with reg under
// namespace. It panics if the metrics are already registered.
func NewPrometheusCollector(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	f := promauto.With(reg)
	return &PrometheusCollector{
		phaseDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "phase_duration_seconds",
				Help:      "Duration of embedding phases in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
			},
			[]string{"phase", "status"},
		),
		iterations: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "iterations_total",
			Help:      "Total number of completed propagation rounds",
		}),
		iterationDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "iteration_duration_seconds",
			Help:      "Duration of a propagation round in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		generations: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generations_allocated_total",
				Help:      "Total number of allocated matrix generations",
			},
			[]string{"strategy"},
		),
		generationBytes: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "generation_bytes",
				Help:      "Size of the last allocated matrix generation in bytes",
			},
			[]string{"strategy"},
		),
	}
}

// OnPhase implements MetricsCollector.
func (p *PrometheusCollector) OnPhase(phase string, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	p.phaseDuration.WithLabelValues(phase, status).Observe(duration.Seconds())
}

// OnIteration implements MetricsCollector.
func (p *PrometheusCollector) OnIteration(_ int, duration time.Duration) {
	p.iterations.Inc()
	p.iterationDuration.Observe(duration.Seconds())
}

// OnGeneration implements MetricsCollector.
func (p *PrometheusCollector) OnGeneration(strategy string, bytes int64) {
	p.generations.WithLabelValues(strategy).Inc()
	p.generationBytes.WithLabelValues(strategy).Set(float64(bytes))
}
