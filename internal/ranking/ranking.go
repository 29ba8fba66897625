// Package ranking orders a validated batch of tasks by priority. It rejects
// batches whose dependencies form a cycle, scores every task under one
// strategy, and sorts the results from most to least urgent to work on.
package ranking

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/papapumpkin/triage/internal/dag"
	"github.com/papapumpkin/triage/internal/scoring"
)

// DefaultSuggestLimit is the number of tasks Suggest returns when asked for
// a non-positive limit.
const DefaultSuggestLimit = 3

// ScoredTask is a task together with its priority score. Index is the
// task's position in the submitted batch, which is also its dependency ID.
type ScoredTask struct {
	Index            int             `json:"index"`
	Title            string          `json:"title"`
	DueDate          string          `json:"due_date"`
	EstimatedHours   int             `json:"estimated_hours"`
	Importance       int             `json:"importance"`
	Dependencies     []string        `json:"dependencies"`
	DependentCount   int             `json:"dependent_count"`
	PriorityScore    float64         `json:"priority_score"`
	ScoreExplanation string          `json:"score_explanation"`
	Factors          scoring.Factors `json:"-"`
}

// Suggestion is the top of a ranked sample set.
type Suggestion struct {
	Tasks       []ScoredTask     `json:"suggested_tasks"`
	Strategy    scoring.Strategy `json:"strategy"`
	Explanation string           `json:"explanation"`
}

// Ranker scores and orders task batches. It is safe for concurrent use.
type Ranker struct {
	scorer *scoring.Scorer
}

// New creates a Ranker that measures urgency against clock. A nil clock
// uses the system clock.
func New(clock scoring.Clock) *Ranker {
	return &Ranker{scorer: scoring.NewScorer(clock)}
}

// Analyze checks tasks for dependency cycles and returns them scored under
// strategy, highest priority first. Tasks with equal scores keep their
// batch order. A cycle is reported as a *CycleError and nothing is scored.
func (r *Ranker) Analyze(tasks []scoring.Task, strategy scoring.Strategy) ([]ScoredTask, error) {
	deps := make([][]string, len(tasks))
	for i, t := range tasks {
		deps[i] = t.Dependencies
	}
	g := dag.FromDependencies(deps)
	if cycle := g.FindCycle(); cycle != nil {
		return nil, &CycleError{Cycle: cycle}
	}

	scored := make([]ScoredTask, len(tasks))
	for i, t := range tasks {
		res := r.scorer.Score(t, strategy)
		scored[i] = ScoredTask{
			Index:            i,
			Title:            t.Title,
			DueDate:          t.DueDateString(),
			EstimatedHours:   t.EstimatedHours,
			Importance:       t.Importance,
			Dependencies:     nonNil(t.Dependencies),
			DependentCount:   len(g.Dependents(strconv.Itoa(i))),
			PriorityScore:    res.Score,
			ScoreExplanation: res.Explanation,
			Factors:          res.Factors,
		}
	}

	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].PriorityScore > scored[b].PriorityScore
	})
	return scored, nil
}

// Suggest ranks the built-in sample tasks and returns the top limit of them.
func (r *Ranker) Suggest(strategy scoring.Strategy, limit int) (Suggestion, error) {
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}
	tasks, err := SampleTasks(r.scorer.Today())
	if err != nil {
		return Suggestion{}, err
	}
	ranked, err := r.Analyze(tasks, strategy)
	if err != nil {
		return Suggestion{}, fmt.Errorf("ranking sample tasks: %w", err)
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return Suggestion{
		Tasks:       ranked,
		Strategy:    strategy,
		Explanation: fmt.Sprintf("Top %d tasks using %s strategy", len(ranked), strategy.DisplayName()),
	}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
