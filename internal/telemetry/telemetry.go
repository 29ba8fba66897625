// Package telemetry records ranking activity as a JSONL event stream. Each
// analysis, rejection and suggestion served becomes one JSON line, so a
// deployment can audit which strategies were used and why batches failed.
package telemetry

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Event kinds.
const (
	KindAnalyzed  = "analyzed"
	KindRejected  = "rejected"
	KindSuggested = "suggested"
)

// Rejection reasons carried by KindRejected events.
const (
	ReasonMalformed  = "malformed"
	ReasonValidation = "validation"
	ReasonCycle      = "cycle"
)

// Event is a single telemetry record.
type Event struct {
	Timestamp time.Time `json:"ts"`
	Kind      string    `json:"kind"`
	RequestID string    `json:"request_id,omitempty"`
	Strategy  string    `json:"strategy,omitempty"`
	Data      any       `json:"data,omitempty"`
}

// Analysis summarizes a successfully ranked batch.
type Analysis struct {
	Tasks    int     `json:"tasks"`
	TopScore float64 `json:"top_score"`
}

// Rejection summarizes a refused batch. Count is the number of invalid
// tasks for validation failures, or the cycle length.
type Rejection struct {
	Reason string `json:"reason"`
	Count  int    `json:"count,omitempty"`
}

// Emitter writes events as JSON lines. It is safe for concurrent use by
// multiple goroutines. A nil *Emitter is a valid no-op emitter.
type Emitter struct {
	mu     sync.Mutex
	enc    *json.Encoder
	closer io.Closer
	now    func() time.Time
}

// NewEmitter creates an Emitter that writes to w. If w is an io.Closer,
// Close closes it.
func NewEmitter(w io.Writer) *Emitter {
	e := &Emitter{enc: json.NewEncoder(w), now: time.Now}
	if c, ok := w.(io.Closer); ok {
		e.closer = c
	}
	return e
}

// Open creates an Emitter appending to the file at path. An empty path
// returns a nil Emitter, which discards events.
func Open(path string) (*Emitter, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	return NewEmitter(f), nil
}

// Emit writes a single event. A zero Timestamp is set to the current time.
func (e *Emitter) Emit(evt Event) error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if evt.Timestamp.IsZero() {
		evt.Timestamp = e.now().UTC()
	}
	if err := e.enc.Encode(evt); err != nil {
		return fmt.Errorf("telemetry: encode event: %w", err)
	}
	return nil
}

// Close closes the underlying writer if it is closable.
func (e *Emitter) Close() error {
	if e == nil || e.closer == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.closer.Close(); err != nil {
		return fmt.Errorf("telemetry: close: %w", err)
	}
	return nil
}
