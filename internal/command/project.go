package command

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwlee/teamboard/internal/api"
	"github.com/jwlee/teamboard/internal/model"
)

// CreateProject sends a new project (with its initial tasks) to the
// backend and refreshes the snapshot so the server-assigned ids arrive.
func (c *Commands) CreateProject(p api.NewProject) tea.Cmd {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return nil
	}
	if p.Priority < model.PriorityHigh || p.Priority > model.PriorityLow {
		p.Priority = model.PriorityMedium
	}
	return c.createAndRefresh("create project", func(ctx context.Context) error {
		_, err := c.gw.CreateProject(ctx, p)
		return err
	})
}

// RenameProject changes a project's name.
func (c *Commands) RenameProject(id int64, name string) tea.Cmd {
	name = strings.TrimSpace(name)
	p := c.store.Project(id)
	if p == nil || name == "" || p.Name == name {
		return nil
	}

	prev := p.Name
	p.Name = name

	return c.confirm("rename project", fieldKey("project", id, "name"), "",
		func(ctx context.Context) error {
			return c.gw.UpdateProject(ctx, id, api.ProjectPatch{Name: &name})
		},
		func() { p.Name = prev },
	)
}

// SetProjectPriority changes a project's priority ordinal.
func (c *Commands) SetProjectPriority(id int64, priority int) tea.Cmd {
	p := c.store.Project(id)
	if p == nil || priority < model.PriorityHigh || priority > model.PriorityLow || p.Priority == priority {
		return nil
	}

	prev := p.Priority
	p.Priority = priority

	return c.confirm("set priority", fieldKey("project", id, "priority"), "",
		func(ctx context.Context) error {
			return c.gw.UpdateProject(ctx, id, api.ProjectPatch{Priority: &priority})
		},
		func() { p.Priority = prev },
	)
}

// SetProjectCategory changes a project's category tag. The reserved
// "no filter" sentinel is never stored.
func (c *Commands) SetProjectCategory(id int64, category string) tea.Cmd {
	category = strings.TrimSpace(category)
	p := c.store.Project(id)
	if p == nil || category == model.CategoryAll || p.Category == category {
		return nil
	}

	prev := p.Category
	p.Category = category

	return c.confirm("set category", fieldKey("project", id, "category"), "",
		func(ctx context.Context) error {
			return c.gw.UpdateProject(ctx, id, api.ProjectPatch{Category: &category})
		},
		func() { p.Category = prev },
	)
}

// SetProjectAssignee reassigns a project to another user (or to nobody
// when userID is nil).
func (c *Commands) SetProjectAssignee(id int64, userID *int64) tea.Cmd {
	p := c.store.Project(id)
	if p == nil || sameAssignee(p.UserID, userID) {
		return nil
	}
	if userID != nil && c.store.User(*userID) == nil {
		return nil
	}

	prev := p.UserID
	p.UserID = userID

	return c.confirm("set assignee", fieldKey("project", id, "user_id"), "",
		func(ctx context.Context) error {
			return c.gw.UpdateProject(ctx, id, api.ProjectPatch{UserID: userID})
		},
		func() { p.UserID = prev },
	)
}

// SetProjectStartDate moves a project's start date, keeping the
// start<=deadline invariant. Violations are ignored like any other
// local validation failure.
func (c *Commands) SetProjectStartDate(id int64, d model.Date) tea.Cmd {
	p := c.store.Project(id)
	if p == nil || p.StartDate.Equal(d) {
		return nil
	}
	if d.Valid() && p.Deadline.Valid() && p.Deadline.Before(d) {
		return nil
	}

	prev := p.StartDate
	p.StartDate = d

	return c.confirm("set start date", fieldKey("project", id, "start_date"), "",
		func(ctx context.Context) error {
			return c.gw.UpdateProject(ctx, id, api.ProjectPatch{StartDate: &d})
		},
		func() { p.StartDate = prev },
	)
}

// SetProjectDeadline moves a project's deadline, keeping the
// start<=deadline invariant.
func (c *Commands) SetProjectDeadline(id int64, d model.Date) tea.Cmd {
	p := c.store.Project(id)
	if p == nil || p.Deadline.Equal(d) {
		return nil
	}
	if d.Valid() && p.StartDate.Valid() && d.Before(p.StartDate) {
		return nil
	}

	prev := p.Deadline
	p.Deadline = d

	return c.confirm("set deadline", fieldKey("project", id, "deadline"), "",
		func(ctx context.Context) error {
			return c.gw.UpdateProject(ctx, id, api.ProjectPatch{Deadline: &d})
		},
		func() { p.Deadline = prev },
	)
}

// SetProjectProgress sets the manual progress slider. Only projects
// without tasks accept a direct edit; aggregated progress changes only
// through task edits.
func (c *Commands) SetProjectProgress(id int64, progress int) tea.Cmd {
	p := c.store.Project(id)
	if p == nil || len(p.Tasks) > 0 {
		return nil
	}
	progress = clampProgress(progress)
	if p.Progress == progress {
		return nil
	}

	prev := p.Progress
	p.Progress = progress

	return c.confirm("set progress", fieldKey("project", id, "progress"), "",
		func(ctx context.Context) error {
			return c.gw.UpdateProject(ctx, id, api.ProjectPatch{Progress: &progress})
		},
		func() { p.Progress = prev },
	)
}

// SetProjectStatus runs one edge of the status machine. The UI asks
// for confirmation before invoking this; unexposed transitions are
// rejected here as well.
func (c *Commands) SetProjectStatus(id int64, status string) tea.Cmd {
	p := c.store.Project(id)
	if p == nil || p.Status == status || !model.ValidTransition(p.Status, status) {
		return nil
	}

	prev := p.Status
	p.Status = status

	return c.confirm("change status", fieldKey("project", id, "status"), "",
		func(ctx context.Context) error {
			return c.gw.SetProjectStatus(ctx, id, status)
		},
		func() { p.Status = prev },
	)
}

// DeleteProject removes a project optimistically. The two-step
// arm/confirm flow lives in UI state; by the time this runs the user
// has confirmed.
func (c *Commands) DeleteProject(id int64) tea.Cmd {
	s := c.store
	idx := -1
	for i := range s.Data.Projects {
		if s.Data.Projects[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	removed := s.Data.Projects[idx]
	s.Data.Projects = append(s.Data.Projects[:idx], s.Data.Projects[idx+1:]...)
	if s.OpenProjectID == id {
		s.OpenProjectID = 0
		s.DeleteArmed = false
	}

	return c.confirm("delete project", fieldKey("project", id, ""), "Project deleted",
		func(ctx context.Context) error {
			return c.gw.DeleteProject(ctx, id)
		},
		func() {
			s.Data.Projects = insertAt(s.Data.Projects, idx, removed)
		},
	)
}

func sameAssignee(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func clampProgress(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func fieldKey(entity string, id int64, field string) string {
	if field == "" {
		return fmt.Sprintf("%s:%d", entity, id)
	}
	return fmt.Sprintf("%s:%d:%s", entity, id, field)
}
