package command

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwlee/teamboard/internal/api"
	"github.com/jwlee/teamboard/internal/model"
)

// CreateSchedule adds a calendar entry for the acting user on the
// picked date. The user name is denormalized into the entry now.
func (c *Commands) CreateSchedule(date model.Date, content, scheduleType string) tea.Cmd {
	content = strings.TrimSpace(content)
	current := c.store.CurrentUser()
	if content == "" || !date.Valid() || current == nil {
		return nil
	}
	switch scheduleType {
	case model.SchedulePersonal, model.ScheduleTeam, model.ScheduleCompany:
	default:
		scheduleType = model.SchedulePersonal
	}

	sc := api.NewSchedule{
		UserID:       current.ID,
		UserName:     current.Name,
		Content:      content,
		ScheduleDate: date,
		ScheduleType: scheduleType,
	}
	return c.createAndRefresh("create schedule", func(ctx context.Context) error {
		return c.gw.CreateSchedule(ctx, sc)
	})
}

// DeleteSchedule removes a calendar entry optimistically.
func (c *Commands) DeleteSchedule(id int64) tea.Cmd {
	s := c.store
	idx := -1
	for i := range s.Data.Schedules {
		if s.Data.Schedules[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	removed := s.Data.Schedules[idx]
	s.Data.Schedules = append(s.Data.Schedules[:idx], s.Data.Schedules[idx+1:]...)

	return c.confirm("delete schedule", fieldKey("schedule", id, ""), "Schedule deleted",
		func(ctx context.Context) error {
			return c.gw.DeleteSchedule(ctx, id)
		},
		func() {
			s.Data.Schedules = insertAt(s.Data.Schedules, idx, removed)
		},
	)
}
