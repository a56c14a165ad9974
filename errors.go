package cleora

import (
	"errors"
	"fmt"

	"github.com/isgasho/cleora/internal/engine"
	"github.com/isgasho/cleora/internal/matrix"
	"github.com/isgasho/cleora/internal/resource"
)

var (
	// ErrInvalidArgument is returned for invalid options or inputs.
	ErrInvalidArgument = engine.ErrInvalidArgument

	// ErrEntryOutOfRange is returned when a sparse entry references an
	// entity index beyond the source's entity count.
	ErrEntryOutOfRange = engine.ErrEntryOutOfRange

	// ErrMemoryLimitExceeded is returned when an InMemory generation would
	// exceed the limit set by WithMemoryLimit.
	ErrMemoryLimitExceeded = resource.ErrMemoryLimitExceeded
)

// GenerationError reports a failed create, resize, map, flush, unmap or
// delete of a generation file. Such failures abort the run.
type GenerationError = matrix.GenerationError

// ErrInvalidDimension indicates an invalid configured dimension.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidDimension struct {
	Dimension int
	cause     error
}

func (e *ErrInvalidDimension) Error() string {
	return fmt.Sprintf("invalid dimension: %d", e.Dimension)
}

func (e *ErrInvalidDimension) Unwrap() error { return e.cause }

// ErrInvalidIterations indicates a negative iteration count.
type ErrInvalidIterations struct {
	Iterations int
	cause      error
}

func (e *ErrInvalidIterations) Error() string {
	return fmt.Sprintf("invalid max iterations: %d", e.Iterations)
}

func (e *ErrInvalidIterations) Unwrap() error { return e.cause }

func validate(o *options) error {
	if o.dimension <= 0 {
		return &ErrInvalidDimension{Dimension: o.dimension, cause: ErrInvalidArgument}
	}
	if o.maxIterations < 0 {
		return &ErrInvalidIterations{Iterations: o.maxIterations, cause: ErrInvalidArgument}
	}
	switch o.strategy {
	case InMemory, Mmap:
	default:
		return fmt.Errorf("%w: unknown strategy %s", ErrInvalidArgument, o.strategy)
	}
	if o.strategy == Mmap && o.workDir == "" {
		return fmt.Errorf("%w: mmap strategy needs a work dir", ErrInvalidArgument)
	}
	return nil
}

// IsFileSystemError reports whether err stems from the generation-file lifecycle.
func IsFileSystemError(err error) bool {
	var ge *GenerationError
	return errors.As(err, &ge)
}
