package scoring

import "time"

// Factors holds the four per-factor scores of a task, each on a 0–100 scale.
type Factors struct {
	Urgency      float64 `json:"urgency"`
	Importance   float64 `json:"importance"`
	Effort       float64 `json:"effort"`
	Dependencies float64 `json:"dependencies"`
}

// ComputeFactors scores every factor of t relative to today.
func ComputeFactors(t Task, today time.Time) Factors {
	return Factors{
		Urgency:      UrgencyScore(t.DueDate, today),
		Importance:   ImportanceScore(t.Importance),
		Effort:       EffortScore(t.EstimatedHours),
		Dependencies: DependencyScore(len(t.Dependencies)),
	}
}

// UrgencyScore rates how soon due falls after today. Overdue tasks start at
// 100 and lose 2 points per day late, bottoming out at 0.
func UrgencyScore(due, today time.Time) float64 {
	days := DaysBetween(today, due)
	switch {
	case days < 0:
		return max(0, 100+float64(days)*2)
	case days == 0:
		return 100
	case days <= 1:
		return 95
	case days <= 3:
		return 85
	case days <= 7:
		return 70
	case days <= 14:
		return 50
	default:
		return 30
	}
}

// ImportanceScore rescales an importance rating in [1, 10] to [10, 100].
func ImportanceScore(importance int) float64 {
	// Same as importance/10*100 without the rounding error.
	return float64(importance) * 10
}

// EffortScore favors small tasks: the fewer estimated hours, the higher the
// score.
func EffortScore(hours int) float64 {
	switch {
	case hours <= 1:
		return 90
	case hours <= 2:
		return 80
	case hours <= 4:
		return 65
	case hours <= 8:
		return 45
	default:
		return 25
	}
}

// DependencyScore rates a task by the number of dependencies it declares.
// A task with none scores a neutral 50.
func DependencyScore(count int) float64 {
	switch {
	case count <= 0:
		return 50
	case count == 1:
		return 60
	case count == 2:
		return 70
	default:
		return 80
	}
}
