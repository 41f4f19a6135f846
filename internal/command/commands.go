// Package command is the reconciliation layer between the state store
// and the remote gateway. Every user-initiated mutation runs the same
// protocol: validate locally, snapshot the slice of state about to
// change, apply the change optimistically, then confirm it with the
// backend from a tea.Cmd goroutine. Failures roll the snapshot back on
// the update loop and surface a toast; they never leave the store
// half-applied.
package command

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/jwlee/teamboard/internal/api"
	"github.com/jwlee/teamboard/internal/model"
	"github.com/jwlee/teamboard/internal/state"
)

// Gateway is the remote operation surface the command layer consumes.
// *api.Client implements it; tests substitute a scripted fake.
type Gateway interface {
	FetchData(ctx context.Context) (*model.Snapshot, error)

	AddUser(ctx context.Context, name, position string) (int64, error)
	UpdateUser(ctx context.Context, id int64, patch api.UserPatch) error
	DeleteUser(ctx context.Context, id int64) error

	CreateProject(ctx context.Context, p api.NewProject) (int64, error)
	UpdateProject(ctx context.Context, id int64, patch api.ProjectPatch) error
	DeleteProject(ctx context.Context, id int64) error
	SetProjectStatus(ctx context.Context, id int64, status string) error

	AddTask(ctx context.Context, projectID int64) (int64, error)
	UpdateTask(ctx context.Context, id int64, patch api.TaskPatch) error
	DeleteTask(ctx context.Context, id int64) error
	ReorderTasks(ctx context.Context, taskIDs []int64) error

	AddComment(ctx context.Context, projectID int64, authorName, content string) error
	UpdateComment(ctx context.Context, id int64, content string) error
	DeleteComment(ctx context.Context, id int64) error

	CreatePost(ctx context.Context, p api.NewPost) error
	UpdatePost(ctx context.Context, id int64, p api.NewPost) error
	DeletePost(ctx context.Context, id int64) error
	MarkPostsRead(ctx context.Context, userID int64) error

	CreateSchedule(ctx context.Context, s api.NewSchedule) error
	DeleteSchedule(ctx context.Context, id int64) error
}

// FailedMsg reports a mutation the backend rejected. The embedded
// rollback closure restores the exact pre-apply snapshot slice; it must
// run on the update loop via Commands.Rollback.
type FailedMsg struct {
	// Action names the mutation for the failure toast.
	Action string
	Err    error

	fieldKey string
	token    uuid.UUID
	rollback func()
}

// AppliedMsg reports a confirmed mutation. Notice is non-empty only for
// destructive operations that warrant a confirmation toast.
type AppliedMsg struct {
	Notice string

	fieldKey string
	token    uuid.UUID
}

// SnapshotMsg carries a freshly fetched server snapshot, or the fetch
// error. Apply it with Commands.ApplySnapshot.
type SnapshotMsg struct {
	Snap   model.Snapshot
	Notice string
	Err    error
}

// TaskAddedMsg is a SnapshotMsg variant that also names the task the
// server just created, so the details view can focus it.
type TaskAddedMsg struct {
	TaskID int64
	Snap   model.Snapshot
}

// flightTracker hands out per-field tokens so that a stale response
// (superseded by a later write to the same field) skips its merge and
// rollback steps: last write wins.
type flightTracker struct {
	mu     sync.Mutex
	latest map[string]uuid.UUID
}

func newFlightTracker() *flightTracker {
	return &flightTracker{latest: make(map[string]uuid.UUID)}
}

func (f *flightTracker) begin(fieldKey string) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	token := uuid.New()
	f.latest[fieldKey] = token
	return token
}

func (f *flightTracker) isLatest(fieldKey string, token uuid.UUID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latest[fieldKey] == token
}

// Commands owns one handler per user-initiated mutation.
type Commands struct {
	store   *state.Store
	gw      Gateway
	flights *flightTracker
}

// New wires the command layer to its store and gateway.
func New(s *state.Store, gw Gateway) *Commands {
	return &Commands{store: s, gw: gw, flights: newFlightTracker()}
}

// Store exposes the underlying state store for renderers.
func (c *Commands) Store() *state.Store {
	return c.store
}

// confirm builds the gateway-confirmation command for an already
// applied optimistic mutation.
func (c *Commands) confirm(action, fieldKey, notice string, call func(context.Context) error, rollback func()) tea.Cmd {
	token := c.flights.begin(fieldKey)
	return func() tea.Msg {
		if err := call(context.Background()); err != nil {
			return FailedMsg{
				Action:   action,
				Err:      err,
				fieldKey: fieldKey,
				token:    token,
				rollback: rollback,
			}
		}
		return AppliedMsg{Notice: notice, fieldKey: fieldKey, token: token}
	}
}

// createAndRefresh runs a creation call and, on success, immediately
// fetches the canonical snapshot. Creations are not applied
// optimistically: ids are server-assigned, so the canonical entity
// arrives with the refreshed snapshot instead of replacing a local
// placeholder.
func (c *Commands) createAndRefresh(action string, call func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if err := call(ctx); err != nil {
			return FailedMsg{Action: action, Err: err}
		}
		snap, err := c.gw.FetchData(ctx)
		if err != nil {
			return SnapshotMsg{Err: err}
		}
		return SnapshotMsg{Snap: *snap}
	}
}

// insertAt returns list with v restored at idx, clamping idx to the
// current bounds. Delete rollbacks use it instead of re-slicing at the
// captured index: the list may have shrunk while the delete was in
// flight (a snapshot refresh, another delete), and a rollback must
// never panic. A misplaced entry is corrected by the next refresh.
func insertAt[T any](list []T, idx int, v T) []T {
	if idx > len(list) {
		idx = len(list)
	}
	out := make([]T, 0, len(list)+1)
	out = append(out, list[:idx]...)
	out = append(out, v)
	return append(out, list[idx:]...)
}

// Rollback restores the pre-mutation snapshot slice for a failed
// command, unless a later write to the same field already superseded
// it. Must run on the update loop.
func (c *Commands) Rollback(msg FailedMsg) {
	if msg.rollback == nil {
		return
	}
	if msg.fieldKey != "" && !c.flights.isLatest(msg.fieldKey, msg.token) {
		return
	}
	msg.rollback()
}

// Refresh fetches the full server snapshot.
func (c *Commands) Refresh() tea.Cmd {
	return func() tea.Msg {
		snap, err := c.gw.FetchData(context.Background())
		if err != nil {
			return SnapshotMsg{Err: err}
		}
		return SnapshotMsg{Snap: *snap}
	}
}

// ApplySnapshot installs a fetched snapshot and re-resolves the
// dependent pointers: the acting user (kept if still present, else the
// persisted choice, else the first remaining user, else nil — with the
// change written through to durable storage) and any open modal whose
// entity vanished server-side.
func (c *Commands) ApplySnapshot(snap model.Snapshot) {
	s := c.store
	s.SetAppData(snap)

	resolved := resolveUser(snap.Users, s)
	current := s.CurrentUser()
	switch {
	case resolved == nil && current == nil:
		// Nothing to do.
	case resolved == nil || current == nil || resolved.ID != current.ID || *resolved != *current:
		s.SetCurrentUser(resolved)
	}

	if s.OpenProjectID != 0 && s.Project(s.OpenProjectID) == nil {
		s.OpenProjectID = 0
		s.DeleteArmed = false
	}
	if s.OpenPostID != 0 && s.Post(s.OpenPostID) == nil {
		s.OpenPostID = 0
	}
}

// resolveUser picks the acting user for a new snapshot.
func resolveUser(users []model.User, s *state.Store) *model.User {
	if current := s.CurrentUser(); current != nil {
		for i := range users {
			if users[i].ID == current.ID {
				return &users[i]
			}
		}
	}
	if saved, ok := s.SavedUserID(); ok {
		for i := range users {
			if users[i].ID == saved {
				return &users[i]
			}
		}
	}
	if len(users) > 0 {
		return &users[0]
	}
	return nil
}
