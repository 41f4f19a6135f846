// Package state owns the single live snapshot of server data plus the
// transient UI filter state derived views are computed from. All other
// components get read access and request mutations through the command
// layer; nothing else holds a competing copy.
package state

import (
	"strconv"

	"github.com/jwlee/teamboard/internal/model"
)

// Prefs is the durable client storage capability used to persist the
// selected user across restarts.
type Prefs interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// currentUserKey mirrors prefs.CurrentUserKey without importing the
// sqlite-backed package here.
const currentUserKey = "current_user_id"

// CalendarFilters is the active calendar filter set.
type CalendarFilters struct {
	ShowTeam      bool
	ShowProjects  bool
	ShowTasks     bool
	ShowSchedules bool

	// SelectedUsers gates per-user events. The team sentinel user is
	// gated by ShowTeam instead.
	SelectedUsers map[int64]bool
}

// ChartOptions controls the load-calculation view.
type ChartOptions struct {
	ExcludeTeam bool
}

// Store holds exactly one snapshot of server data.
type Store struct {
	Data model.Snapshot

	// CategoryFilter is the active project category tag, or
	// model.CategoryAll for no filter.
	CategoryFilter string

	Calendar CalendarFilters
	Chart    ChartOptions

	// Transient UI state, modeled explicitly rather than as
	// renderer side effects.
	OpenProjectID int64
	OpenPostID    int64
	DeleteArmed   bool
	SidebarOpen   bool

	// TransitionArmed holds the target status of a pending status
	// change awaiting its confirming keypress, empty when none.
	TransitionArmed string

	currentUser *model.User
	prefs       Prefs
}

// New creates an empty store with default filters. prefs may be nil
// when no durable storage is available; identity then simply does not
// survive a restart.
func New(prefs Prefs) *Store {
	return &Store{
		CategoryFilter: model.CategoryAll,
		Calendar: CalendarFilters{
			ShowTeam:      true,
			ShowProjects:  true,
			ShowTasks:     true,
			ShowSchedules: true,
			SelectedUsers: make(map[int64]bool),
		},
		Chart: ChartOptions{ExcludeTeam: true},
		prefs: prefs,
	}
}

// CurrentUser returns the acting user, or nil when none is selected.
func (s *Store) CurrentUser() *model.User {
	return s.currentUser
}

// CurrentUserID returns the acting user's id for the identity header.
func (s *Store) CurrentUserID() (int64, bool) {
	if s.currentUser == nil {
		return 0, false
	}
	return s.currentUser.ID, true
}

// SetCurrentUser updates the active-user pointer and persists (or
// clears) its id in durable storage. Storage failures are ignored:
// losing the remembered identity is not worth interrupting the user.
func (s *Store) SetCurrentUser(u *model.User) {
	if u == nil {
		s.currentUser = nil
		if s.prefs != nil {
			_ = s.prefs.Delete(currentUserKey)
		}
		return
	}
	copied := *u
	s.currentUser = &copied
	if s.prefs != nil {
		_ = s.prefs.Set(currentUserKey, strconv.FormatInt(u.ID, 10))
	}
}

// SavedUserID reads the persisted user id from durable storage.
func (s *Store) SavedUserID() (int64, bool) {
	if s.prefs == nil {
		return 0, false
	}
	raw, err := s.prefs.Get(currentUserKey)
	if err != nil {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// SetAppData replaces the whole snapshot. Nested slices are forced
// non-nil and every date has already been normalized by the Date codec,
// so no empty string ever stands in for an absent date downstream. The
// calendar user selection resets to "all users on the new snapshot" as
// a safe default.
func (s *Store) SetAppData(data model.Snapshot) {
	for i := range data.Projects {
		p := &data.Projects[i]
		if p.Tasks == nil {
			p.Tasks = []model.Task{}
		}
		if p.Comments == nil {
			p.Comments = []model.Comment{}
		}
	}
	s.Data = data

	selected := make(map[int64]bool, len(data.Users))
	for _, u := range data.Users {
		selected[u.ID] = true
	}
	s.Calendar.SelectedUsers = selected
}

// Project returns a pointer into the snapshot for the given project id,
// or nil when it no longer exists.
func (s *Store) Project(id int64) *model.Project {
	for i := range s.Data.Projects {
		if s.Data.Projects[i].ID == id {
			return &s.Data.Projects[i]
		}
	}
	return nil
}

// TaskParent locates a task and its owning project.
func (s *Store) TaskParent(taskID int64) (*model.Project, *model.Task) {
	for i := range s.Data.Projects {
		p := &s.Data.Projects[i]
		for j := range p.Tasks {
			if p.Tasks[j].ID == taskID {
				return p, &p.Tasks[j]
			}
		}
	}
	return nil, nil
}

// User returns the user with the given id, or nil.
func (s *Store) User(id int64) *model.User {
	for i := range s.Data.Users {
		if s.Data.Users[i].ID == id {
			return &s.Data.Users[i]
		}
	}
	return nil
}

// TeamUser returns the team sentinel user, or nil when absent.
func (s *Store) TeamUser() *model.User {
	for i := range s.Data.Users {
		if s.Data.Users[i].IsTeam() {
			return &s.Data.Users[i]
		}
	}
	return nil
}

// Post returns the post with the given id, or nil.
func (s *Store) Post(id int64) *model.Post {
	for i := range s.Data.Posts {
		if s.Data.Posts[i].ID == id {
			return &s.Data.Posts[i]
		}
	}
	return nil
}

// Schedule returns the schedule with the given id, or nil.
func (s *Store) Schedule(id int64) *model.Schedule {
	for i := range s.Data.Schedules {
		if s.Data.Schedules[i].ID == id {
			return &s.Data.Schedules[i]
		}
	}
	return nil
}
