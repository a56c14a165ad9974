package engine

import "errors"

var (
	// ErrInvalidArgument is returned when a run is configured with an
	// invalid dimension, iteration count or entity count.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrEntryOutOfRange is returned when a sparse entry references an
	// entity index outside the source's entity count.
	ErrEntryOutOfRange = errors.New("sparse entry out of range")
)
