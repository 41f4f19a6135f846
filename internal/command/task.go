package command

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwlee/teamboard/internal/api"
	"github.com/jwlee/teamboard/internal/derive"
	"github.com/jwlee/teamboard/internal/model"
)

// AddTask asks the backend to append an empty task to a project, then
// refreshes so the server-assigned id arrives. The resulting message
// names the new task so the details view can focus it.
func (c *Commands) AddTask(projectID int64) tea.Cmd {
	if c.store.Project(projectID) == nil {
		return nil
	}
	return func() tea.Msg {
		ctx := context.Background()
		taskID, err := c.gw.AddTask(ctx, projectID)
		if err != nil {
			return FailedMsg{Action: "add task", Err: err}
		}
		snap, err := c.gw.FetchData(ctx)
		if err != nil {
			return SnapshotMsg{Err: err}
		}
		return TaskAddedMsg{TaskID: taskID, Snap: *snap}
	}
}

// EditTaskContent updates a task's text.
func (c *Commands) EditTaskContent(taskID int64, content string) tea.Cmd {
	_, t := c.store.TaskParent(taskID)
	if t == nil || t.Content == strings.TrimRight(content, "\n") {
		return nil
	}
	content = strings.TrimRight(content, "\n")

	prev := t.Content
	t.Content = content

	return c.confirm("edit task", fieldKey("task", taskID, "content"), "",
		func(ctx context.Context) error {
			return c.gw.UpdateTask(ctx, taskID, api.TaskPatch{Content: &content})
		},
		func() { t.Content = prev },
	)
}

// EditTaskDeadline updates a task's deadline.
func (c *Commands) EditTaskDeadline(taskID int64, d model.Date) tea.Cmd {
	_, t := c.store.TaskParent(taskID)
	if t == nil || t.Deadline.Equal(d) {
		return nil
	}

	prev := t.Deadline
	t.Deadline = d

	return c.confirm("set task deadline", fieldKey("task", taskID, "deadline"), "",
		func(ctx context.Context) error {
			return c.gw.UpdateTask(ctx, taskID, api.TaskPatch{Deadline: &d})
		},
		func() { t.Deadline = prev },
	)
}

// EditTaskProgress updates a task's progress and recomputes the parent
// project's aggregate. The aggregate PUT rides in the same command; if
// either call fails, both local effects roll back together.
func (c *Commands) EditTaskProgress(taskID int64, progress int) tea.Cmd {
	p, t := c.store.TaskParent(taskID)
	if t == nil {
		return nil
	}
	progress = clampProgress(progress)
	if t.Progress == progress {
		return nil
	}

	prevTask := t.Progress
	prevProject := p.Progress
	t.Progress = progress
	derive.ApplyProjectProgress(p)
	projectChanged := p.Progress != prevProject
	newProject := p.Progress
	projectID := p.ID

	return c.confirm("set task progress", fieldKey("task", taskID, "progress"), "",
		func(ctx context.Context) error {
			if err := c.gw.UpdateTask(ctx, taskID, api.TaskPatch{Progress: &progress}); err != nil {
				return err
			}
			if projectChanged {
				return c.gw.UpdateProject(ctx, projectID, api.ProjectPatch{Progress: &newProject})
			}
			return nil
		},
		func() {
			t.Progress = prevTask
			p.Progress = prevProject
		},
	)
}

// DeleteTask removes a task optimistically and recomputes the parent's
// aggregate; a project losing its last task resets to zero progress.
func (c *Commands) DeleteTask(taskID int64) tea.Cmd {
	p, _ := c.store.TaskParent(taskID)
	if p == nil {
		return nil
	}
	idx := -1
	for i := range p.Tasks {
		if p.Tasks[i].ID == taskID {
			idx = i
			break
		}
	}

	removed := p.Tasks[idx]
	prevProgress := p.Progress
	p.Tasks = append(p.Tasks[:idx], p.Tasks[idx+1:]...)
	derive.ApplyProjectProgress(p)

	return c.confirm("delete task", fieldKey("task", taskID, ""), "Task deleted",
		func(ctx context.Context) error {
			return c.gw.DeleteTask(ctx, taskID)
		},
		func() {
			p.Tasks = insertAt(p.Tasks, idx, removed)
			p.Progress = prevProgress
		},
	)
}

// MoveTask reorders a project's tasks by moving the task at index from
// to index to, then persists the whole ordered id list in one call. On
// failure the retained prior order is restored outright instead of
// refetching the snapshot.
func (c *Commands) MoveTask(projectID int64, from, to int) tea.Cmd {
	p := c.store.Project(projectID)
	if p == nil || from == to ||
		from < 0 || from >= len(p.Tasks) || to < 0 || to >= len(p.Tasks) {
		return nil
	}

	prior := append([]model.Task{}, p.Tasks...)

	moved := p.Tasks[from]
	tasks := append(p.Tasks[:from:from], p.Tasks[from+1:]...)
	tasks = append(tasks[:to], append([]model.Task{moved}, tasks[to:]...)...)
	p.Tasks = tasks

	ids := make([]int64, len(p.Tasks))
	for i, t := range p.Tasks {
		ids[i] = t.ID
	}

	return c.confirm("reorder tasks", fieldKey("project", projectID, "task_order"), "",
		func(ctx context.Context) error {
			return c.gw.ReorderTasks(ctx, ids)
		},
		func() { p.Tasks = prior },
	)
}
