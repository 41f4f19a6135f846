package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jwlee/teamboard/internal/derive"
	"github.com/jwlee/teamboard/internal/model"
	"github.com/jwlee/teamboard/internal/state"
	"github.com/jwlee/teamboard/internal/theme"
)

// boardBuckets is the render order of the status sections.
var boardBuckets = []struct {
	status string
	title  string
}{
	{model.StatusActive, "Active"},
	{model.StatusScheduled, "Scheduled"},
	{model.StatusCompleted, "Completed"},
}

// BucketProjects returns the projects of one status bucket, filtered by
// the active category tag and sorted by ascending priority. The
// sentinel category means no filter.
func BucketProjects(projects []model.Project, status, category string) []model.Project {
	var out []model.Project
	for _, p := range projects {
		if p.Status != status {
			continue
		}
		if category != model.CategoryAll && p.Category != category {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority < out[j].Priority
	})
	return out
}

// visibleProjectIDs flattens the board into the keyboard navigation
// order: bucket by bucket, each sorted as rendered.
func visibleProjectIDs(s *state.Store) []int64 {
	var ids []int64
	for _, b := range boardBuckets {
		for _, p := range BucketProjects(s.Data.Projects, b.status, s.CategoryFilter) {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// categories lists the distinct project categories for the filter
// cycle, with the "no filter" sentinel first.
func categories(projects []model.Project) []string {
	seen := map[string]bool{}
	out := []string{model.CategoryAll}
	for _, p := range projects {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	return out
}

// renderBoard draws the status-bucket project lists. Buckets that would
// render zero items are hidden entirely.
func renderBoard(s *state.Store, cursor int64, width int, now time.Time) string {
	var sections []string

	if s.CategoryFilter != model.CategoryAll {
		sections = append(sections, theme.HelpStyle.Render(
			"category: "+s.CategoryFilter))
	}

	for _, b := range boardBuckets {
		projects := BucketProjects(s.Data.Projects, b.status, s.CategoryFilter)
		if len(projects) == 0 {
			continue
		}

		title := theme.SectionTitleStyle.Render(
			fmt.Sprintf("%s (%d)", b.title, len(projects)))
		rows := []string{title}
		for _, p := range projects {
			rows = append(rows, renderProjectRow(s, p, p.ID == cursor, width, now))
		}
		sections = append(sections, strings.Join(rows, "\n"))
	}

	if len(sections) == 0 {
		return theme.HelpStyle.Render("No projects. Press n to create one.")
	}
	return strings.Join(sections, "\n")
}

// renderProjectRow draws a single board line for a project.
func renderProjectRow(s *state.Store, p model.Project, selected bool, width int, now time.Time) string {
	prio := theme.PriorityStyle(p.Priority).Render(fmt.Sprintf("P%d", p.Priority))

	assignee := "미지정"
	if p.UserID != nil {
		if u := s.User(*p.UserID); u != nil {
			assignee = strings.TrimSpace(u.Name + " " + u.Position)
		}
	}

	dday := derive.DDayOf(p.Deadline, now)
	ddayText := dday.Text
	if dday.Urgent {
		ddayText = theme.UrgentStyle.Render(ddayText)
	}

	bar := progressBar(p.Progress, 10)
	if len(p.Tasks) == 0 {
		// Manual-progress projects show a slider marker instead of an
		// aggregate bar.
		bar = "◆" + bar
	} else {
		bar = " " + bar
	}

	name := p.Name
	current := s.CurrentUser()
	if current != nil && p.UserID != nil && *p.UserID == current.ID {
		name = theme.MineStyle.Render(name)
	}

	line := fmt.Sprintf("%s %s %s %3d%% %s  %s",
		prio, name, bar, p.Progress, ddayText, theme.HelpStyle.Render(assignee))

	if selected {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}

// progressBar renders a fixed-width unicode progress bar.
func progressBar(progress, width int) string {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	filled := progress * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// moveCursor advances the board cursor by delta within the visible
// projects, clamping at the ends.
func moveCursor(s *state.Store, cursor int64, delta int) int64 {
	ids := visibleProjectIDs(s)
	if len(ids) == 0 {
		return 0
	}
	pos := 0
	for i, id := range ids {
		if id == cursor {
			pos = i
			break
		}
	}
	pos += delta
	if pos < 0 {
		pos = 0
	}
	if pos >= len(ids) {
		pos = len(ids) - 1
	}
	return ids[pos]
}

// nextCategory cycles the category filter.
func nextCategory(s *state.Store) string {
	cats := categories(s.Data.Projects)
	for i, c := range cats {
		if c == s.CategoryFilter {
			return cats[(i+1)%len(cats)]
		}
	}
	return model.CategoryAll
}
