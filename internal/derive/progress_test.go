package derive

import (
	"testing"

	"github.com/jwlee/teamboard/internal/model"
)

func TestProjectProgress(t *testing.T) {
	cases := []struct {
		name  string
		tasks []int
		want  int
		ok    bool
	}{
		{"mean rounds to nearest", []int{50, 100, 0}, 50, true},
		{"rounds half up", []int{25, 50}, 38, true},
		{"single task", []int{70}, 70, true},
		{"all done", []int{100, 100}, 100, true},
		{"no tasks", nil, 0, false},
	}
	for _, tc := range cases {
		var tasks []model.Task
		for _, p := range tc.tasks {
			tasks = append(tasks, model.Task{Progress: p})
		}
		got, ok := ProjectProgress(tasks)
		if got != tc.want || ok != tc.ok {
			t.Errorf("%s: ProjectProgress = (%d, %v), want (%d, %v)", tc.name, got, ok, tc.want, tc.ok)
		}
	}
}

func TestApplyProjectProgress(t *testing.T) {
	p := &model.Project{
		Progress: 10,
		Tasks:    []model.Task{{Progress: 40}, {Progress: 60}},
	}
	if !ApplyProjectProgress(p) {
		t.Fatal("expected a change")
	}
	if p.Progress != 50 {
		t.Fatalf("progress = %d, want 50", p.Progress)
	}
	if ApplyProjectProgress(p) {
		t.Fatal("no-op recompute should report unchanged")
	}
}

func TestApplyProjectProgressEmptyResetsToZero(t *testing.T) {
	p := &model.Project{Progress: 50}
	if !ApplyProjectProgress(p) {
		t.Fatal("losing the last task should reset progress")
	}
	if p.Progress != 0 {
		t.Fatalf("progress = %d, want 0", p.Progress)
	}
}
