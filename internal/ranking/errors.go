package ranking

import (
	"errors"
	"fmt"
)

// ErrCircularDependency indicates the tasks in a batch depend on each other
// in a loop, so no priority order can be produced.
var ErrCircularDependency = errors.New("circular dependencies detected")

// CycleError carries the witness cycle found in a batch. Cycle lists task
// positions in traversal order; the last element depends on the first.
type CycleError struct {
	Cycle []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("Circular dependencies detected: %v", e.Cycle)
}

// Unwrap returns ErrCircularDependency.
func (e *CycleError) Unwrap() error {
	return ErrCircularDependency
}
