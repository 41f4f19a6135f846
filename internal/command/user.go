package command

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwlee/teamboard/internal/api"
)

// AddUser registers a new team member. The refreshed snapshot resets
// the calendar selection to all users, so the newcomer is selected
// immediately.
func (c *Commands) AddUser(name, position string) tea.Cmd {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	position = strings.TrimSpace(position)
	return c.createAndRefresh("add user", func(ctx context.Context) error {
		_, err := c.gw.AddUser(ctx, name, position)
		return err
	})
}

// RenameUser changes a user's display name. The team sentinel keeps
// its name.
func (c *Commands) RenameUser(id int64, name string) tea.Cmd {
	name = strings.TrimSpace(name)
	u := c.store.User(id)
	if u == nil || u.IsTeam() || name == "" || u.Name == name {
		return nil
	}

	prev := u.Name
	u.Name = name
	c.syncCurrentUser()

	return c.confirm("rename user", fieldKey("user", id, "name"), "",
		func(ctx context.Context) error {
			return c.gw.UpdateUser(ctx, id, api.UserPatch{Name: &name})
		},
		func() {
			u.Name = prev
			c.syncCurrentUser()
		},
	)
}

// SetUserPosition changes a user's free-text position label.
func (c *Commands) SetUserPosition(id int64, position string) tea.Cmd {
	position = strings.TrimSpace(position)
	u := c.store.User(id)
	if u == nil || u.IsTeam() || u.Position == position {
		return nil
	}

	prev := u.Position
	u.Position = position
	c.syncCurrentUser()

	return c.confirm("set position", fieldKey("user", id, "position"), "",
		func(ctx context.Context) error {
			return c.gw.UpdateUser(ctx, id, api.UserPatch{Position: &position})
		},
		func() {
			u.Position = prev
			c.syncCurrentUser()
		},
	)
}

// DeleteUser removes a team member. The sentinel is exempt. The server
// unassigns the member's projects, so the canonical state arrives with
// the refreshed snapshot; if the deleted user was acting, ApplySnapshot
// falls back to the first remaining user (or none) and persists the
// switch.
func (c *Commands) DeleteUser(id int64) tea.Cmd {
	u := c.store.User(id)
	if u == nil || u.IsTeam() {
		return nil
	}
	return func() tea.Msg {
		ctx := context.Background()
		if err := c.gw.DeleteUser(ctx, id); err != nil {
			return FailedMsg{Action: "delete user", Err: err}
		}
		snap, err := c.gw.FetchData(ctx)
		if err != nil {
			return SnapshotMsg{Err: err}
		}
		return SnapshotMsg{Snap: *snap, Notice: "User deleted"}
	}
}

// SwitchUser changes the acting identity and persists the choice.
func (c *Commands) SwitchUser(id int64) tea.Cmd {
	u := c.store.User(id)
	current := c.store.CurrentUser()
	if u == nil || (current != nil && current.ID == id) {
		return nil
	}
	c.store.SetCurrentUser(u)
	// Unread-post state is per-user; refetch under the new identity.
	return c.Refresh()
}

// syncCurrentUser mirrors edits of the acting user's own record into
// the store's current-user copy.
func (c *Commands) syncCurrentUser() {
	current := c.store.CurrentUser()
	if current == nil {
		return
	}
	if u := c.store.User(current.ID); u != nil && *u != *current {
		c.store.SetCurrentUser(u)
	}
}
