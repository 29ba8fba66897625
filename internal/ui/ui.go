// Package ui renders ranking results and errors for the terminal.
package ui

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/triage/internal/intake"
	"github.com/papapumpkin/triage/internal/ranking"
	"github.com/papapumpkin/triage/internal/scoring"
)

// maxTitleWidth truncates long task titles in tables.
const maxTitleWidth = 40

type Printer struct {
	w     io.Writer
	style styles
}

// New returns a Printer writing to stderr.
func New() *Printer {
	return NewWriter(os.Stderr)
}

// NewWriter returns a Printer writing to w. Colors are only emitted when w
// is a terminal that supports them.
func NewWriter(w io.Writer) *Printer {
	return &Printer{w: w, style: newStyles(lipgloss.NewRenderer(w))}
}

func (p *Printer) Error(msg string) {
	fmt.Fprintf(p.w, "%s %s\n", p.style.err.Render("error:"), msg)
}

// Ranked prints tasks as a table in the order given, followed by the
// explanation of each score.
func (p *Printer) Ranked(strategy scoring.Strategy, tasks []ranking.ScoredTask) {
	fmt.Fprintln(p.w, p.style.heading.Render(fmt.Sprintf("%s: %d task(s)", strategy.DisplayName(), len(tasks))))
	if len(tasks) == 0 {
		fmt.Fprintln(p.w, p.style.dim.Render("  (no tasks)"))
		return
	}

	headers := []string{"#", "score", "task", "due", "hours", "imp", "deps", "blocks"}
	rows := make([][]string, len(tasks))
	for i, t := range tasks {
		rows[i] = []string{
			strconv.Itoa(t.Index),
			strconv.FormatFloat(t.PriorityScore, 'f', 2, 64),
			truncate(t.Title, maxTitleWidth),
			t.DueDate,
			strconv.Itoa(t.EstimatedHours),
			strconv.Itoa(t.Importance),
			strings.Join(t.Dependencies, ","),
			strconv.Itoa(t.DependentCount),
		}
	}
	widths := columnWidths(headers, rows)

	cells := make([]string, len(headers))
	for c, h := range headers {
		cells[c] = p.style.header.Render(pad(h, widths[c]))
	}
	fmt.Fprintln(p.w, "  "+strings.Join(cells, "  "))

	for i, row := range rows {
		for c, v := range row {
			cells[c] = pad(v, widths[c])
		}
		cells[1] = p.style.score.Render(cells[1])
		cells[2] = p.style.scoreStyle(tasks[i].PriorityScore).Render(cells[2])
		fmt.Fprintln(p.w, "  "+strings.Join(cells, "  "))
	}

	fmt.Fprintln(p.w)
	for _, t := range tasks {
		fmt.Fprintf(p.w, "  %s %s\n", p.style.dim.Render("#"+strconv.Itoa(t.Index)), t.ScoreExplanation)
	}
}

// Suggestion prints the top suggested tasks.
func (p *Printer) Suggestion(s ranking.Suggestion) {
	fmt.Fprintln(p.w, p.style.heading.Render(s.Explanation))
	for i, t := range s.Tasks {
		fmt.Fprintf(p.w, "  %d. %s %s %s\n",
			i+1,
			p.style.score.Render(strconv.FormatFloat(t.PriorityScore, 'f', 2, 64)),
			p.style.scoreStyle(t.PriorityScore).Render(t.Title),
			p.style.dim.Render("due "+t.DueDate),
		)
		fmt.Fprintf(p.w, "     %s\n", p.style.dim.Render(t.ScoreExplanation))
	}
}

// ValidationFailed lists every invalid task and its problems.
func (p *Printer) ValidationFailed(errs []intake.TaskError) {
	fmt.Fprintf(p.w, "%s %d task(s) failed validation\n", p.style.err.Render("✗"), len(errs))
	for _, te := range errs {
		fmt.Fprintf(p.w, "  task %d:\n", te.Index)
		for _, msg := range te.Messages {
			fmt.Fprintf(p.w, "    %s %s\n", p.style.err.Render("•"), msg)
		}
	}
}

// Cycle prints a dependency cycle. titles[i] is the title of task i; ids
// outside titles are shown bare.
func (p *Printer) Cycle(cycle []string, titles []string) {
	if len(cycle) == 0 {
		return
	}
	label := func(id string) string {
		if i, err := strconv.Atoi(id); err == nil && i >= 0 && i < len(titles) {
			return fmt.Sprintf("#%s %q", id, titles[i])
		}
		return "#" + id
	}
	parts := make([]string, 0, len(cycle)+1)
	for _, id := range cycle {
		parts = append(parts, label(id))
	}
	parts = append(parts, label(cycle[0]))
	fmt.Fprintf(p.w, "%s circular dependency: %s\n", p.style.err.Render("✗"), strings.Join(parts, " → "))
}

// Strategies lists every strategy with its weights, marking the default.
func (p *Printer) Strategies(all []scoring.Strategy, def scoring.Strategy) {
	headers := []string{"strategy", "name", "urgency", "importance", "effort", "deps"}
	rows := make([][]string, len(all))
	for i, s := range all {
		w := s.Weights()
		name := s.String()
		if s == def {
			name += " (default)"
		}
		rows[i] = []string{
			s.DisplayName(),
			name,
			formatWeight(w.Urgency),
			formatWeight(w.Importance),
			formatWeight(w.Effort),
			formatWeight(w.Dependencies),
		}
	}
	widths := columnWidths(headers, rows)

	cells := make([]string, len(headers))
	for c, h := range headers {
		cells[c] = p.style.header.Render(pad(h, widths[c]))
	}
	fmt.Fprintln(p.w, strings.Join(cells, "  "))
	for _, row := range rows {
		for c, v := range row {
			cells[c] = pad(v, widths[c])
		}
		cells[0] = p.style.heading.Render(cells[0])
		fmt.Fprintln(p.w, strings.Join(cells, "  "))
	}
}

func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}

func columnWidths(headers []string, rows [][]string) []int {
	widths := make([]int, len(headers))
	for c, h := range headers {
		widths[c] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for c, v := range row {
			widths[c] = max(widths[c], lipgloss.Width(v))
		}
	}
	return widths
}

// pad right-pads s with spaces to width display columns.
func pad(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
