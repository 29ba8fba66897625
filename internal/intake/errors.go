package intake

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for request intake.
var (
	// ErrMalformedInput indicates the body is not JSON or not a JSON array.
	ErrMalformedInput = errors.New("malformed input")
	// ErrValidation indicates one or more tasks failed field validation.
	ErrValidation = errors.New("invalid task data")
)

// MalformedError describes why a request body could not be read as a task
// batch. It matches ErrMalformedInput with errors.Is.
type MalformedError struct {
	Reason string // human-readable, e.g. "Invalid JSON"
	Err    error  // underlying decode error, if any
}

// Error returns the reason, followed by the decode error when present.
func (e *MalformedError) Error() string {
	if e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason
}

// Unwrap exposes both the sentinel and the underlying decode error.
func (e *MalformedError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrMalformedInput, e.Err}
	}
	return []error{ErrMalformedInput}
}

// TaskError lists every validation problem found in one task.
type TaskError struct {
	Index    int      `json:"index"`
	Messages []string `json:"errors"`
}

// Error returns the task's messages joined with semicolons.
func (e TaskError) Error() string {
	return fmt.Sprintf("task %d: %s", e.Index, strings.Join(e.Messages, "; "))
}

// BatchError reports every invalid task in a batch. A batch is rejected as
// a whole if any task is invalid. It matches ErrValidation with errors.Is.
type BatchError struct {
	Tasks []TaskError
}

// Error summarizes all task errors on one line.
func (e *BatchError) Error() string {
	parts := make([]string, len(e.Tasks))
	for i, te := range e.Tasks {
		parts[i] = te.Error()
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, " | ")
}

// Unwrap returns ErrValidation.
func (e *BatchError) Unwrap() error {
	return ErrValidation
}
