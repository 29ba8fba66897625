package scoring

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Result is the outcome of scoring a single task.
type Result struct {
	Score       float64 // weighted total, rounded to 2 decimals
	Explanation string
	Factors     Factors
}

// Scorer scores tasks relative to the date reported by its clock. A Scorer
// holds no mutable state and is safe for concurrent use.
type Scorer struct {
	clock Clock
}

// NewScorer returns a Scorer reading today's date from clock. A nil clock
// uses the system clock in the local time zone.
func NewScorer(clock Clock) *Scorer {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Scorer{clock: clock}
}

// Today returns the date the scorer measures urgency against.
func (s *Scorer) Today() time.Time {
	return s.clock.Today()
}

// Score computes the priority score and explanation of t under strategy.
// Scoring the same task twice on the same day yields identical results.
func (s *Scorer) Score(t Task, strategy Strategy) Result {
	f := ComputeFactors(t, s.clock.Today())
	return Result{
		Score:       Round2(Total(f, strategy.Weights())),
		Explanation: Explain(f, len(t.Dependencies), strategy),
		Factors:     f,
	}
}

// Total combines factor scores with weights. The result is not rounded.
func Total(f Factors, w Weights) float64 {
	return f.Urgency*w.Urgency +
		f.Importance*w.Importance +
		f.Effort*w.Effort +
		f.Dependencies*w.Dependencies
}

// Round2 rounds v to 2 decimal places, ties to even.
func Round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

// Explain renders the factor scores as a one-line summary: a strategy
// header followed by one bullet per factor. The dependency bullet reports
// depCount, the number of dependencies the task declares.
func Explain(f Factors, depCount int, strategy Strategy) string {
	parts := []string{
		fmt.Sprintf("Using %s strategy:", strategy.DisplayName()),
		"• " + tier(f.Urgency, "High urgency (due soon or overdue)", "Medium urgency", "Low urgency"),
		"• " + tier(f.Importance, "High importance", "Medium importance", "Low importance"),
		"• " + tier(f.Effort, "Quick win (low effort)", "Moderate effort", "High effort task"),
	}
	if depCount > 0 {
		parts = append(parts, fmt.Sprintf("• Blocks %d other task(s)", depCount))
	} else {
		parts = append(parts, "• No dependencies")
	}
	return strings.Join(parts, " ")
}

// tier picks the high (>= 80), medium (>= 60) or low label for score.
func tier(score float64, high, medium, low string) string {
	switch {
	case score >= 80:
		return high
	case score >= 60:
		return medium
	default:
		return low
	}
}
