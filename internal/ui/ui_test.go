package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/papapumpkin/triage/internal/intake"
	"github.com/papapumpkin/triage/internal/ranking"
	"github.com/papapumpkin/triage/internal/scoring"
)

func capture(fn func(p *Printer)) string {
	var buf bytes.Buffer
	fn(NewWriter(&buf))
	return buf.String()
}

func assertContains(t *testing.T, output string, substrs ...string) {
	t.Helper()
	for _, s := range substrs {
		if !strings.Contains(output, s) {
			t.Errorf("expected output to contain %q, got:\n%s", s, output)
		}
	}
}

func TestRanked(t *testing.T) {
	t.Parallel()
	tasks := []ranking.ScoredTask{
		{
			Index: 1, Title: "Quick critical fix", DueDate: "2026-03-10",
			EstimatedHours: 1, Importance: 10, Dependencies: []string{},
			DependentCount: 1, PriorityScore: 93,
			ScoreExplanation: "Using Smart Balance strategy: • High urgency (due soon or overdue)",
		},
		{
			Index: 0, Title: "Write report", DueDate: "2026-03-25",
			EstimatedHours: 6, Importance: 5, Dependencies: []string{"1"},
			PriorityScore: 42.5, ScoreExplanation: "Using Smart Balance strategy: • Low urgency",
		},
	}

	out := capture(func(p *Printer) { p.Ranked(scoring.SmartBalance, tasks) })

	assertContains(t, out,
		"Smart Balance: 2 task(s)",
		"score", "blocks",
		"93.00", "42.50",
		"Quick critical fix", "Write report",
		"#1 Using Smart Balance strategy: • High urgency",
		"#0 Using Smart Balance strategy: • Low urgency",
	)
	if strings.Contains(out, "\x1b[") {
		t.Errorf("expected no ANSI codes when writing to a buffer, got:\n%q", out)
	}

	lines := strings.Split(out, "\n")
	if !strings.HasPrefix(strings.TrimSpace(lines[2]), "1 ") {
		t.Errorf("first row should be task #1, got %q", lines[2])
	}
}

func TestRankedEmpty(t *testing.T) {
	t.Parallel()
	out := capture(func(p *Printer) { p.Ranked(scoring.FastestWins, nil) })
	assertContains(t, out, "Fastest Wins: 0 task(s)", "(no tasks)")
}

func TestRankedTruncatesTitles(t *testing.T) {
	t.Parallel()
	long := strings.Repeat("x", 60)
	out := capture(func(p *Printer) {
		p.Ranked(scoring.SmartBalance, []ranking.ScoredTask{{Title: long, Dependencies: []string{}}})
	})
	assertContains(t, out, strings.Repeat("x", maxTitleWidth-1)+"…")
	if strings.Contains(out, long) {
		t.Error("title was not truncated")
	}
}

func TestSuggestion(t *testing.T) {
	t.Parallel()
	out := capture(func(p *Printer) {
		p.Suggestion(ranking.Suggestion{
			Tasks: []ranking.ScoredTask{
				{Title: "Fix critical bug in login", DueDate: "2026-03-12", PriorityScore: 79, ScoreExplanation: "why"},
			},
			Strategy:    scoring.SmartBalance,
			Explanation: "Top 1 tasks using Smart Balance strategy",
		})
	})
	assertContains(t, out, "Top 1 tasks using Smart Balance strategy", "1. 79.00 Fix critical bug in login due 2026-03-12", "why")
}

func TestValidationFailed(t *testing.T) {
	t.Parallel()
	out := capture(func(p *Printer) {
		p.ValidationFailed([]intake.TaskError{
			{Index: 0, Messages: []string{"Title is required"}},
			{Index: 3, Messages: []string{"Importance must be between 1 and 10", "Dependencies must be a list"}},
		})
	})
	assertContains(t, out,
		"2 task(s) failed validation",
		"task 0:", "• Title is required",
		"task 3:", "• Importance must be between 1 and 10", "• Dependencies must be a list",
	)
}

func TestCycle(t *testing.T) {
	t.Parallel()
	out := capture(func(p *Printer) { p.Cycle([]string{"0", "2"}, []string{"a", "b", "c"}) })
	assertContains(t, out, `circular dependency: #0 "a" → #2 "c" → #0 "a"`)

	out = capture(func(p *Printer) { p.Cycle([]string{"5"}, nil) })
	assertContains(t, out, "#5 → #5")

	if out := capture(func(p *Printer) { p.Cycle(nil, nil) }); out != "" {
		t.Errorf("empty cycle printed %q", out)
	}
}

func TestStrategies(t *testing.T) {
	t.Parallel()
	out := capture(func(p *Printer) { p.Strategies(scoring.Strategies(), scoring.HighImpact) })
	assertContains(t, out,
		"Smart Balance", "smart_balance ",
		"high_impact (default)",
		"deadline_driven",
		"0.05", "0.7",
	)
	if strings.Contains(out, "smart_balance (default)") {
		t.Errorf("only the configured default should be marked, got:\n%s", out)
	}
}

func TestError(t *testing.T) {
	t.Parallel()
	out := capture(func(p *Printer) { p.Error("boom") })
	assertContains(t, out, "error: boom\n")
}
