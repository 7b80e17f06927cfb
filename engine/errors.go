package engine

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/tspforge/tsp"
)

// ErrInvalidConfig reports engine settings outside their domain.
var ErrInvalidConfig = errors.New("engine: invalid config")

// SolveError annotates a surfaced failure with the attempted strategy and
// the instance size. errors.Is/As see the wrapped cause.
type SolveError struct {
	Strategy tsp.Strategy
	Size     int
	Err      error
}

func (e *SolveError) Error() string {
	st := e.Strategy
	if st == tsp.Auto {
		st = "auto"
	}

	return fmt.Sprintf("engine: solve (strategy=%s, n=%d): %v", st, e.Size, e.Err)
}

func (e *SolveError) Unwrap() error { return e.Err }
