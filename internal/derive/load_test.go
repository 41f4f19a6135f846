package derive

import (
	"testing"

	"github.com/jwlee/teamboard/internal/model"
)

func loadFixture() model.Snapshot {
	return model.Snapshot{
		Users: []model.User{
			{ID: 1, Name: model.TeamUserName},
			{ID: 2, Name: "김철수"},
			{ID: 3, Name: "이영희"},
		},
		Projects: []model.Project{
			{ID: 10, UserID: ptr(2), Status: model.StatusActive, Progress: 40},
			{ID: 11, UserID: ptr(2), Status: model.StatusActive, Progress: 60},
			{ID: 12, UserID: ptr(1), Status: model.StatusActive, Progress: 10},
			{ID: 13, UserID: ptr(2), Status: model.StatusCompleted, Progress: 100},
			{ID: 14, Status: model.StatusActive},
		},
	}
}

func TestLoadStatsExcludesTeam(t *testing.T) {
	stats := LoadStats(loadFixture(), true)
	if len(stats) != 2 {
		t.Fatalf("got %d users, want 2", len(stats))
	}

	byID := map[int64]UserLoad{}
	for _, s := range stats {
		byID[s.User.ID] = s
	}

	cheolsu := byID[2]
	if cheolsu.ProjectCount != 2 || cheolsu.MeanProgress != 50 {
		t.Errorf("user 2: %+v, want 2 projects at mean 50", cheolsu)
	}
	// Zero-load users stay in the listing.
	if younghee, ok := byID[3]; !ok || younghee.ProjectCount != 0 || younghee.MeanProgress != 0 {
		t.Errorf("user 3: %+v, want zero load entry", younghee)
	}

	if total := TotalProjects(stats); total != 2 {
		t.Errorf("TotalProjects = %d, want 2", total)
	}
}

func TestLoadStatsIncludesTeam(t *testing.T) {
	stats := LoadStats(loadFixture(), false)
	if len(stats) != 3 {
		t.Fatalf("got %d users, want 3", len(stats))
	}
	for _, s := range stats {
		if s.User.ID == 1 && s.ProjectCount != 1 {
			t.Errorf("team load = %d, want 1", s.ProjectCount)
		}
	}
	if total := TotalProjects(stats); total != 3 {
		t.Errorf("TotalProjects = %d, want 3", total)
	}
}
