package telemetry

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func decodeLines(t *testing.T, data []byte) []map[string]any {
	t.Helper()
	var out []map[string]any
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid JSON line: %v\nline: %s", err, line)
		}
		out = append(out, m)
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scanner: %v", err)
	}
	return out
}

func TestOpen_CreatesFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "events.jsonl")

	em, err := Open(path)
	if err != nil {
		t.Fatalf("Open(%q): %v", path, err)
	}
	defer em.Close()

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file to exist at %q: %v", path, err)
	}
}

func TestOpen_ErrorOnBadPath(t *testing.T) {
	t.Parallel()
	_, err := Open("/nonexistent/dir/events.jsonl")
	if err == nil {
		t.Fatal("expected error for bad path, got nil")
	}
	if !strings.Contains(err.Error(), "telemetry: open") {
		t.Errorf("expected wrapped error, got: %v", err)
	}
}

func TestOpen_EmptyPathDisables(t *testing.T) {
	t.Parallel()
	em, err := Open("")
	if err != nil || em != nil {
		t.Fatalf("Open(\"\") = (%v, %v), want (nil, nil)", em, err)
	}
	if err := em.Emit(Event{Kind: KindAnalyzed}); err != nil {
		t.Errorf("nil Emit: %v", err)
	}
	if err := em.Close(); err != nil {
		t.Errorf("nil Close: %v", err)
	}
}

func TestEmit_WritesValidJSONL(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	em := NewEmitter(&buf)

	events := []Event{
		{
			Timestamp: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			Kind:      KindAnalyzed,
			RequestID: "r1",
			Strategy:  "smart_balance",
			Data:      Analysis{Tasks: 4, TopScore: 93},
		},
		{
			Timestamp: time.Date(2026, 1, 1, 0, 1, 0, 0, time.UTC),
			Kind:      KindRejected,
			RequestID: "r2",
			Data:      Rejection{Reason: ReasonCycle, Count: 2},
		},
	}
	for _, evt := range events {
		if err := em.Emit(evt); err != nil {
			t.Fatalf("Emit: %v", err)
		}
	}

	lines := decodeLines(t, buf.Bytes())
	if len(lines) != 2 {
		t.Fatalf("expected 2 events, got %d", len(lines))
	}
	if lines[0]["kind"] != KindAnalyzed || lines[0]["request_id"] != "r1" || lines[0]["strategy"] != "smart_balance" {
		t.Errorf("event 0 = %v", lines[0])
	}
	data, ok := lines[0]["data"].(map[string]any)
	if !ok || data["tasks"] != float64(4) || data["top_score"] != float64(93) {
		t.Errorf("event 0 data = %v", lines[0]["data"])
	}
	rej, ok := lines[1]["data"].(map[string]any)
	if !ok || rej["reason"] != ReasonCycle || rej["count"] != float64(2) {
		t.Errorf("event 1 data = %v", lines[1]["data"])
	}
	if _, ok := lines[1]["strategy"]; ok {
		t.Errorf("empty strategy should be omitted: %v", lines[1])
	}
}

func TestEmit_StampsMissingTimestamp(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	em := NewEmitter(&buf)
	fixed := time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)
	em.now = func() time.Time { return fixed }

	if err := em.Emit(Event{Kind: KindSuggested}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	lines := decodeLines(t, buf.Bytes())
	if got := lines[0]["ts"]; got != "2026-05-06T07:08:09Z" {
		t.Errorf("ts = %v, want 2026-05-06T07:08:09Z", got)
	}
}

func TestEmit_ConcurrentSafety(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "concurrent.jsonl")

	em, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	const n = 100
	var wg sync.WaitGroup
	wg.Add(n)
	for i := range n {
		go func(idx int) {
			defer wg.Done()
			evt := Event{Kind: KindAnalyzed, Data: Analysis{Tasks: idx}}
			if err := em.Emit(evt); err != nil {
				t.Errorf("Emit: %v", err)
			}
		}(i)
	}
	wg.Wait()
	if err := em.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got := len(decodeLines(t, data)); got != n {
		t.Errorf("expected %d lines, got %d", n, got)
	}
}

func TestOpen_AppendsToExistingFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "append.jsonl")

	for i := range 2 {
		em, err := Open(path)
		if err != nil {
			t.Fatalf("Open #%d: %v", i, err)
		}
		if err := em.Emit(Event{Kind: KindSuggested}); err != nil {
			t.Fatalf("Emit #%d: %v", i, err)
		}
		if err := em.Close(); err != nil {
			t.Fatalf("Close #%d: %v", i, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got := len(decodeLines(t, data)); got != 2 {
		t.Errorf("expected 2 lines after reopening, got %d", got)
	}
}
