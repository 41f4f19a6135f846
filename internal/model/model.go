package model

import "time"

// Project status constants.
const (
	StatusScheduled = "scheduled"
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// Priority values are ordinal: 1 is highest, 3 is lowest.
const (
	PriorityHigh   = 1
	PriorityMedium = 2
	PriorityLow    = 3
)

// TeamUserName is the reserved synthetic user that represents the whole
// team. It cannot be renamed or deleted, and the calendar gates its
// entries with a dedicated filter flag rather than the per-user set.
const TeamUserName = "DI 팀"

// CategoryAll is the reserved category filter sentinel meaning "no
// filter". It is never stored on a project.
const CategoryAll = "전체"

// Schedule type constants. The type only affects the calendar label prefix.
const (
	SchedulePersonal = "personal"
	ScheduleTeam     = "team"
	ScheduleCompany  = "company"
)

// User is a team member. IDs are opaque integers assigned by the server.
type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position,omitempty"`
}

// IsTeam reports whether this is the reserved team sentinel user.
func (u User) IsTeam() bool {
	return u.Name == TeamUserName
}

// Task is a unit of work inside a project. Its position within the
// parent project's task slice is significant and persisted server-side.
type Task struct {
	ID       int64  `json:"id"`
	Content  string `json:"content"`
	Deadline Date   `json:"deadline"`
	Progress int    `json:"progress"`
}

// Overdue reports whether the task's deadline has passed while the task
// is still incomplete. Display-only; never persisted.
func (t Task) Overdue(now time.Time) bool {
	if !t.Deadline.Valid() || t.Progress >= 100 {
		return false
	}
	return t.Deadline.Time().Before(now.Truncate(24 * time.Hour))
}

// Comment is a project comment. AuthorName is a snapshot of the
// author's display name at post time, not a live user reference.
type Comment struct {
	ID         int64  `json:"id"`
	AuthorName string `json:"author_name"`
	Content    string `json:"content"`
}

// Project is the central entity. When Tasks is non-empty, Progress is
// the rounded average of task progress and is only changed indirectly
// by editing tasks; when Tasks is empty, Progress is a free-standing
// manually set value.
type Project struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	UserID    *int64    `json:"user_id"`
	Priority  int       `json:"priority"`
	Status    string    `json:"status"`
	Category  string    `json:"category,omitempty"`
	StartDate Date      `json:"start_date"`
	Deadline  Date      `json:"deadline"`
	Progress  int       `json:"progress"`
	Tasks     []Task    `json:"tasks"`
	Comments  []Comment `json:"comments"`
}

// Post is a bulletin board entry.
type Post struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	UserID     int64     `json:"user_id"`
	AuthorName string    `json:"author_name"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Schedule is a personal/team/company calendar entry. UserName is
// denormalized at creation time.
type Schedule struct {
	ID           int64  `json:"id"`
	UserID       int64  `json:"user_id"`
	UserName     string `json:"user_name"`
	Content      string `json:"content"`
	ScheduleDate Date   `json:"schedule_date"`
	ScheduleType string `json:"schedule_type"`
}

// Snapshot is the full server data set returned by the data endpoint.
type Snapshot struct {
	Users       []User     `json:"users"`
	Projects    []Project  `json:"projects"`
	Posts       []Post     `json:"posts"`
	Schedules   []Schedule `json:"schedules"`
	HasNewPosts bool       `json:"has_new_posts"`
}

// statusTransitions is the set of status changes the UI exposes. There
// is deliberately no scheduled→completed or completed→scheduled edge.
var statusTransitions = map[string][]string{
	StatusScheduled: {StatusActive},
	StatusActive:    {StatusScheduled, StatusCompleted},
	StatusCompleted: {StatusActive},
}

// ValidTransition reports whether moving a project from one status to
// another is an exposed transition.
func ValidTransition(from, to string) bool {
	for _, s := range statusTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Transitions returns the outbound transitions for a status, in the
// order the details view presents them.
func Transitions(from string) []string {
	return statusTransitions[from]
}
