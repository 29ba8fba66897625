package ranking

import (
	_ "embed"
	"fmt"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/papapumpkin/triage/internal/scoring"
)

//go:embed samples.toml
var samplesTOML []byte

type sampleFile struct {
	Tasks []sampleTask `toml:"task"`
}

type sampleTask struct {
	Title          string   `toml:"title"`
	DueInDays      int      `toml:"due_in_days"`
	EstimatedHours int      `toml:"estimated_hours"`
	Importance     int      `toml:"importance"`
	Dependencies   []string `toml:"dependencies"`
}

var loadSamples = sync.OnceValues(func() ([]sampleTask, error) {
	var f sampleFile
	if err := toml.Unmarshal(samplesTOML, &f); err != nil {
		return nil, fmt.Errorf("parsing sample tasks: %w", err)
	}
	return f.Tasks, nil
})

// SampleTasks returns the built-in sample set with due dates resolved
// against today.
func SampleTasks(today time.Time) ([]scoring.Task, error) {
	samples, err := loadSamples()
	if err != nil {
		return nil, err
	}
	today = scoring.CivilDate(today)
	tasks := make([]scoring.Task, len(samples))
	for i, s := range samples {
		tasks[i] = scoring.Task{
			Title:          s.Title,
			DueDate:        today.AddDate(0, 0, s.DueInDays),
			EstimatedHours: s.EstimatedHours,
			Importance:     s.Importance,
			Dependencies:   append([]string{}, s.Dependencies...),
		}
	}
	return tasks, nil
}
