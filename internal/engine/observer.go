package engine

import "time"

// Phase names reported to the MetricsObserver.
const (
	PhaseInitialize = "initialize"
	PhaseAccumulate = "accumulate"
	PhaseNormalize  = "normalize"
	PhasePersist    = "persist"
)

// MetricsObserver receives phase-level measurements of a run.
type MetricsObserver interface {
	OnPhase(phase string, duration time.Duration, err error)
	OnIteration(iteration int, duration time.Duration)
	OnGeneration(strategy string, bytes int64)
}

// NoopMetricsObserver discards all measurements.
type NoopMetricsObserver struct{}

func (NoopMetricsObserver) OnPhase(string, time.Duration, error) {}
func (NoopMetricsObserver) OnIteration(int, time.Duration)       {}
func (NoopMetricsObserver) OnGeneration(string, int64)           {}
