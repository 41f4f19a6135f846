package derive

import (
	"math"

	"github.com/jwlee/teamboard/internal/model"
)

// UserLoad is one user's slice of the load-calculation aggregation.
type UserLoad struct {
	User         model.User
	ProjectCount int
	MeanProgress int
}

// LoadStats aggregates active projects per user: project counts feed
// the pie visualization, mean progress (0-100) feeds the bar one.
// Users in the target set keep a zero count when they own no active
// project. excludeTeam drops the team sentinel from the target set.
func LoadStats(data model.Snapshot, excludeTeam bool) []UserLoad {
	var target []model.User
	for _, u := range data.Users {
		if excludeTeam && u.IsTeam() {
			continue
		}
		target = append(target, u)
	}

	index := make(map[int64]int, len(target))
	loads := make([]UserLoad, len(target))
	totals := make([]int, len(target))
	for i, u := range target {
		index[u.ID] = i
		loads[i] = UserLoad{User: u}
	}

	for _, p := range data.Projects {
		if p.Status != model.StatusActive || p.UserID == nil {
			continue
		}
		i, ok := index[*p.UserID]
		if !ok {
			continue
		}
		loads[i].ProjectCount++
		totals[i] += p.Progress
	}

	for i := range loads {
		if loads[i].ProjectCount > 0 {
			loads[i].MeanProgress = int(math.Round(
				float64(totals[i]) / float64(loads[i].ProjectCount),
			))
		}
	}

	return loads
}

// TotalProjects sums the project counts of a load slice.
func TotalProjects(loads []UserLoad) int {
	total := 0
	for _, l := range loads {
		total += l.ProjectCount
	}
	return total
}
