// Package derive holds the pure derived-view calculators: progress
// aggregation, calendar event projection, load statistics, and the
// small presentation helpers the renderers share. Nothing here mutates
// the store except the explicit Apply helpers.
package derive

import (
	"math"

	"github.com/jwlee/teamboard/internal/model"
)

// ProjectProgress computes the rounded mean of task progress. The
// boolean reports whether an aggregate applies at all; with no tasks
// the project's progress is a free-standing manual value.
func ProjectProgress(tasks []model.Task) (int, bool) {
	if len(tasks) == 0 {
		return 0, false
	}
	total := 0
	for _, t := range tasks {
		total += t.Progress
	}
	return int(math.Round(float64(total) / float64(len(tasks)))), true
}

// ApplyProjectProgress recomputes a project's progress from its tasks
// and writes it back. A project whose last task was just removed resets
// to zero. Returns true when the stored value changed.
func ApplyProjectProgress(p *model.Project) bool {
	agg, ok := ProjectProgress(p.Tasks)
	if !ok {
		if len(p.Tasks) == 0 && p.Progress != 0 {
			// Callers invoke this after task removal; an empty task
			// list resets the aggregate.
			p.Progress = 0
			return true
		}
		return false
	}
	if p.Progress == agg {
		return false
	}
	p.Progress = agg
	return true
}
