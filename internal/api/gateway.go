package api

import (
	"context"
	"fmt"

	"github.com/jwlee/teamboard/internal/model"
)

// Created carries the server-assigned id of a newly created entity.
// The backend names the field differently per entity.
type Created struct {
	ID        int64 `json:"id"`
	ProjectID int64 `json:"project_id"`
	TaskID    int64 `json:"task_id"`
}

// NewTask is the payload for a task created together with its project.
type NewTask struct {
	Content  string     `json:"content"`
	Deadline model.Date `json:"deadline"`
}

// NewProject is the creation payload for a project.
type NewProject struct {
	Name      string     `json:"name"`
	UserID    *int64     `json:"user_id"`
	Priority  int        `json:"priority"`
	Category  string     `json:"category,omitempty"`
	StartDate model.Date `json:"start_date"`
	Deadline  model.Date `json:"deadline"`
	Tasks     []NewTask  `json:"tasks"`
}

// ProjectPatch is a field-level update; nil fields are omitted.
type ProjectPatch struct {
	Name      *string     `json:"name,omitempty"`
	UserID    *int64      `json:"user_id,omitempty"`
	Priority  *int        `json:"priority,omitempty"`
	Category  *string     `json:"category,omitempty"`
	Progress  *int        `json:"progress,omitempty"`
	StartDate *model.Date `json:"start_date,omitempty"`
	Deadline  *model.Date `json:"deadline,omitempty"`
}

// TaskPatch is a field-level task update; nil fields are omitted.
type TaskPatch struct {
	Content  *string     `json:"content,omitempty"`
	Deadline *model.Date `json:"deadline,omitempty"`
	Progress *int        `json:"progress,omitempty"`
}

// UserPatch is a field-level user update; nil fields are omitted.
type UserPatch struct {
	Name     *string `json:"name,omitempty"`
	Position *string `json:"position,omitempty"`
}

// NewPost is the create/update payload for a bulletin board entry.
type NewPost struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	UserID  int64  `json:"user_id"`
}

// NewSchedule is the creation payload for a calendar schedule.
type NewSchedule struct {
	UserID       int64      `json:"user_id"`
	UserName     string     `json:"user_name"`
	Content      string     `json:"content"`
	ScheduleDate model.Date `json:"schedule_date"`
	ScheduleType string     `json:"schedule_type"`
}

// FetchData retrieves the full server snapshot, keyed by the identity
// header when an acting user is set.
func (c *Client) FetchData(ctx context.Context) (*model.Snapshot, error) {
	var snap model.Snapshot
	if err := c.get(ctx, "/api/data", &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// AddUser creates a user and returns its server-assigned id.
func (c *Client) AddUser(ctx context.Context, name, position string) (int64, error) {
	var created Created
	payload := map[string]string{"name": name, "position": position}
	if err := c.post(ctx, "/api/user", payload, &created); err != nil {
		return 0, err
	}
	return created.ID, nil
}

// UpdateUser applies a partial update to a user.
func (c *Client) UpdateUser(ctx context.Context, id int64, patch UserPatch) error {
	return c.put(ctx, fmt.Sprintf("/api/user/%d", id), patch, nil)
}

// DeleteUser removes a user. The server unassigns their projects.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/user/%d", id))
}

// CreateProject creates a project with its initial tasks and returns
// the server-assigned project id.
func (c *Client) CreateProject(ctx context.Context, p NewProject) (int64, error) {
	var created Created
	if err := c.post(ctx, "/api/project", p, &created); err != nil {
		return 0, err
	}
	return created.ProjectID, nil
}

// UpdateProject applies a partial update to a project.
func (c *Client) UpdateProject(ctx context.Context, id int64, patch ProjectPatch) error {
	return c.put(ctx, fmt.Sprintf("/api/project/%d", id), patch, nil)
}

// DeleteProject removes a project with its tasks and comments.
func (c *Client) DeleteProject(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/project/%d", id))
}

// SetProjectStatus moves a project to the given status.
func (c *Client) SetProjectStatus(ctx context.Context, id int64, status string) error {
	payload := map[string]string{"status": status}
	return c.put(ctx, fmt.Sprintf("/api/project/%d/status", id), payload, nil)
}

// AddTask appends an empty task to a project and returns its id.
func (c *Client) AddTask(ctx context.Context, projectID int64) (int64, error) {
	var created Created
	payload := map[string]string{"content": ""}
	if err := c.post(ctx, fmt.Sprintf("/api/project/%d/task", projectID), payload, &created); err != nil {
		return 0, err
	}
	return created.TaskID, nil
}

// UpdateTask applies a partial update to a task.
func (c *Client) UpdateTask(ctx context.Context, id int64, patch TaskPatch) error {
	return c.put(ctx, fmt.Sprintf("/api/task/%d", id), patch, nil)
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/task/%d", id))
}

// ReorderTasks persists a project's task order as a full ordered id list.
func (c *Client) ReorderTasks(ctx context.Context, taskIDs []int64) error {
	payload := map[string][]int64{"task_ids": taskIDs}
	return c.post(ctx, "/api/tasks/reorder", payload, nil)
}

// AddComment posts a comment on a project. The author name is a
// snapshot taken by the caller, not resolved server-side.
func (c *Client) AddComment(ctx context.Context, projectID int64, authorName, content string) error {
	payload := map[string]string{"author_name": authorName, "content": content}
	return c.post(ctx, fmt.Sprintf("/api/project/%d/comment", projectID), payload, nil)
}

// UpdateComment replaces a comment's content.
func (c *Client) UpdateComment(ctx context.Context, id int64, content string) error {
	payload := map[string]string{"content": content}
	return c.put(ctx, fmt.Sprintf("/api/comment/%d", id), payload, nil)
}

// DeleteComment removes a comment.
func (c *Client) DeleteComment(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/comment/%d", id))
}

// CreatePost creates a bulletin board entry.
func (c *Client) CreatePost(ctx context.Context, p NewPost) error {
	return c.post(ctx, "/api/post", p, nil)
}

// UpdatePost replaces a post's title and content.
func (c *Client) UpdatePost(ctx context.Context, id int64, p NewPost) error {
	return c.put(ctx, fmt.Sprintf("/api/post/%d", id), p, nil)
}

// DeletePost removes a post.
func (c *Client) DeletePost(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/post/%d", id))
}

// MarkPostsRead marks every post as read for the given user.
func (c *Client) MarkPostsRead(ctx context.Context, userID int64) error {
	payload := map[string]int64{"user_id": userID}
	return c.post(ctx, "/api/posts/mark-as-read", payload, nil)
}

// CreateSchedule creates a calendar schedule entry.
func (c *Client) CreateSchedule(ctx context.Context, s NewSchedule) error {
	return c.post(ctx, "/api/schedule", s, nil)
}

// DeleteSchedule removes a schedule entry.
func (c *Client) DeleteSchedule(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/schedule/%d", id))
}
