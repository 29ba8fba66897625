package ui

import "github.com/charmbracelet/lipgloss"

// Semantic color palette.
var (
	colorPrimary = lipgloss.Color("#00BFFF") // headings
	colorAccent  = lipgloss.Color("#FFD700") // scores
	colorSuccess = lipgloss.Color("#00E676") // high priority
	colorDanger  = lipgloss.Color("#FF5252") // errors
	colorMuted   = lipgloss.Color("#636363") // de-emphasized
	colorBlue    = lipgloss.Color("#5B8DEF") // medium priority
)

// styles holds every style used by a Printer, bound to its renderer so
// color output follows the capabilities of the destination writer.
type styles struct {
	heading lipgloss.Style
	header  lipgloss.Style
	score   lipgloss.Style
	high    lipgloss.Style
	medium  lipgloss.Style
	dim     lipgloss.Style
	err     lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		heading: r.NewStyle().Foreground(colorPrimary).Bold(true),
		header:  r.NewStyle().Bold(true).Underline(true),
		score:   r.NewStyle().Foreground(colorAccent).Bold(true),
		high:    r.NewStyle().Foreground(colorSuccess),
		medium:  r.NewStyle().Foreground(colorBlue),
		dim:     r.NewStyle().Foreground(colorMuted),
		err:     r.NewStyle().Foreground(colorDanger).Bold(true),
	}
}

// scoreStyle picks a row color by priority band.
func (s styles) scoreStyle(score float64) lipgloss.Style {
	switch {
	case score >= 80:
		return s.high
	case score >= 60:
		return s.medium
	default:
		return s.dim
	}
}
