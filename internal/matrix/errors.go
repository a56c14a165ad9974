package matrix

import "fmt"

// GenerationError reports a failed step of the generation-file lifecycle.
type GenerationError struct {
	Iteration int
	Op        string // create, resize, map, advise, flush, protect, unmap, close, delete
	Path      string
	Err       error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation %d: %s %s: %v", e.Iteration, e.Op, e.Path, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
