// Package scoring computes task priority scores. Four independent factor
// scores (urgency, importance, effort, dependency fan-out) are combined
// with the weight vector of a named strategy into a single score in
// [0, 100], together with a human-readable explanation.
//
// Every function in this package is pure. The current date, the only
// outside input, is read through a Clock.
package scoring

import "time"

// DateLayout is the wire format for due dates.
const DateLayout = "2006-01-02"

// Task is a validated unit of work to be scored. Dependencies hold the
// positional IDs ("0", "1", ...) of other tasks in the same batch, in
// declaration order with duplicates preserved.
type Task struct {
	Title          string
	DueDate        time.Time
	EstimatedHours int
	Importance     int
	Dependencies   []string
}

// DueDateString formats the due date using DateLayout.
func (t Task) DueDateString() string {
	return t.DueDate.Format(DateLayout)
}
