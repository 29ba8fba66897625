// Package intake turns raw JSON task batches into validated scoring.Task
// records. It is the only place where task input can fail: every field
// problem in every task is collected, and the batch is rejected as a whole
// if any task is invalid.
package intake

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/papapumpkin/triage/internal/scoring"
)

// Options tunes validation.
type Options struct {
	// StrictDependencies rejects dependency IDs that do not name a task
	// position in the same batch. When false such IDs are kept and simply
	// contribute no graph edges.
	StrictDependencies bool
}

// fields holds coerced task values awaiting range checks.
type fields struct {
	Title          string `validate:"required"`
	DueDate        string `validate:"datetime=2006-01-02"`
	EstimatedHours int    `validate:"gt=0"`
	Importance     int    `validate:"min=1,max=10"`
}

// fieldOrder fixes the order in which per-field messages are reported.
var fieldOrder = []string{"Title", "DueDate", "EstimatedHours", "Importance"}

// rangeMessages maps a field that failed its validate tag to the message
// reported to the caller.
var rangeMessages = map[string]string{
	"Title":          "Title is required",
	"DueDate":        "Invalid due date format. Use YYYY-MM-DD",
	"EstimatedHours": "Estimated hours must be positive",
	"Importance":     "Importance must be between 1 and 10",
}

// taskValidate checks coerced task fields. validator.Validate caches struct
// metadata and is safe for concurrent use.
var taskValidate = validator.New()

// Parse reads a JSON array of task objects from r and validates it.
// It returns a *MalformedError if the body is not a JSON array and a
// *BatchError if any task fails validation.
func Parse(r io.Reader, opts Options) ([]scoring.Task, error) {
	items, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return Validate(items, opts)
}

// Decode reads exactly one JSON array from r. Numbers are kept as
// json.Number so integer coercion sees the literal the client sent.
func Decode(r io.Reader) ([]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &MalformedError{Reason: "Invalid JSON", Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return nil, &MalformedError{Reason: "Invalid JSON", Err: err}
	}

	items, ok := v.([]any)
	if !ok {
		return nil, &MalformedError{Reason: "Expected JSON array of tasks"}
	}
	return items, nil
}

// Validate converts decoded JSON values into tasks. Task i of the result
// corresponds to items[i].
func Validate(items []any, opts Options) ([]scoring.Task, error) {
	tasks := make([]scoring.Task, 0, len(items))
	var bad []TaskError

	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			bad = append(bad, TaskError{Index: i, Messages: []string{"Task must be a JSON object"}})
			continue
		}
		task, msgs := validateTask(obj, len(items), opts)
		if len(msgs) > 0 {
			bad = append(bad, TaskError{Index: i, Messages: msgs})
			continue
		}
		tasks = append(tasks, task)
	}

	if len(bad) > 0 {
		return nil, &BatchError{Tasks: bad}
	}
	return tasks, nil
}

// validateTask coerces and checks one task object. batchSize is the number
// of tasks in the request, used for strict dependency checks.
func validateTask(obj map[string]any, batchSize int, opts Options) (scoring.Task, []string) {
	var f fields
	problems := make(map[string]string)
	var checked []string

	// Title.
	switch v := obj["title"].(type) {
	case nil:
		problems["Title"] = rangeMessages["Title"]
	case string:
		f.Title = strings.TrimSpace(v)
		checked = append(checked, "Title")
	default:
		problems["Title"] = "Title must be a string"
	}

	// Due date.
	switch v := obj["due_date"].(type) {
	case nil:
		problems["DueDate"] = "Due date is required"
	case string:
		if v == "" {
			problems["DueDate"] = "Due date is required"
			break
		}
		f.DueDate = v
		checked = append(checked, "DueDate")
	default:
		problems["DueDate"] = rangeMessages["DueDate"]
	}

	// Estimated hours.
	if raw, ok := obj["estimated_hours"]; !ok || raw == nil {
		problems["EstimatedHours"] = "Estimated hours is required"
	} else if n, ok := coerceInt(raw); !ok {
		problems["EstimatedHours"] = "Estimated hours must be a number"
	} else {
		f.EstimatedHours = n
		checked = append(checked, "EstimatedHours")
	}

	// Importance.
	if raw, ok := obj["importance"]; !ok || raw == nil {
		problems["Importance"] = "Importance is required"
	} else if n, ok := coerceInt(raw); !ok {
		problems["Importance"] = "Importance must be a number between 1 and 10"
	} else {
		f.Importance = n
		checked = append(checked, "Importance")
	}

	if len(checked) > 0 {
		var verrs validator.ValidationErrors
		if err := taskValidate.StructPartial(f, checked...); errors.As(err, &verrs) {
			for _, fe := range verrs {
				problems[fe.StructField()] = rangeMessages[fe.StructField()]
			}
		}
	}

	var msgs []string
	for _, name := range fieldOrder {
		if msg, ok := problems[name]; ok {
			msgs = append(msgs, msg)
		}
	}

	raw, present := obj["dependencies"]
	deps, depMsgs := coerceDependencies(raw, present)
	msgs = append(msgs, depMsgs...)
	if opts.StrictDependencies {
		msgs = append(msgs, checkInBatch(deps, batchSize)...)
	}

	if len(msgs) > 0 {
		return scoring.Task{}, msgs
	}

	// The datetime tag already accepted the layout.
	due, err := time.Parse(scoring.DateLayout, f.DueDate)
	if err != nil {
		return scoring.Task{}, []string{rangeMessages["DueDate"]}
	}

	return scoring.Task{
		Title:          f.Title,
		DueDate:        due,
		EstimatedHours: f.EstimatedHours,
		Importance:     f.Importance,
		Dependencies:   deps,
	}, nil
}

// coerceInt accepts JSON integers, JSON floats (truncated toward zero), and
// strings holding a base-10 integer. Booleans and other types are rejected.
func coerceInt(v any) (int, bool) {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return int(i), true
		}
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		return truncate(f)
	case float64:
		return truncate(x)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

// truncate converts a finite float to int, dropping the fraction.
func truncate(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > 1<<53 {
		return 0, false
	}
	return int(math.Trunc(f)), true
}

// coerceDependencies validates the dependencies field. A missing field is
// an empty list. Every valid element is collected and every invalid one is
// reported, so one bad element does not hide the others.
func coerceDependencies(raw any, present bool) ([]string, []string) {
	if !present {
		return []string{}, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, []string{"Dependencies must be a list"}
	}

	deps := make([]string, 0, len(list))
	var msgs []string
	for _, el := range list {
		id, ok := dependencyID(el)
		if !ok {
			msgs = append(msgs, "Invalid dependency: "+formatValue(el))
			continue
		}
		deps = append(deps, id)
	}
	return deps, msgs
}

// dependencyID converts a string or integer element to its string form.
func dependencyID(el any) (string, bool) {
	switch x := el.(type) {
	case string:
		return x, true
	case json.Number:
		if _, err := x.Int64(); err == nil {
			return x.String(), true
		}
		if s := x.String(); !strings.ContainsAny(s, ".eE") {
			// Integer literal too large for int64.
			return s, true
		}
		return "", false
	default:
		return "", false
	}
}

// checkInBatch reports dependency IDs that are not a position in a batch of
// batchSize tasks.
func checkInBatch(deps []string, batchSize int) []string {
	var msgs []string
	for _, id := range deps {
		i, err := strconv.Atoi(id)
		if err != nil || i < 0 || i >= batchSize || strconv.Itoa(i) != id {
			msgs = append(msgs, fmt.Sprintf("Dependency %s does not reference a task in this batch", id))
		}
	}
	return msgs
}

// formatValue renders an arbitrary JSON value for an error message.
func formatValue(v any) string {
	if v == nil {
		return "null"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
