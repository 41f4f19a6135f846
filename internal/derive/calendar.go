package derive

import (
	"fmt"

	"github.com/jwlee/teamboard/internal/model"
	"github.com/jwlee/teamboard/internal/state"
)

// EventKind discriminates calendar entries for click handling.
type EventKind int

const (
	EventProject EventKind = iota
	EventTask
	EventSchedule
)

// Event is one flat calendar entry produced from the snapshot under the
// active filter set. Ranged project entries carry both Start and End;
// all-day entries leave End absent.
type Event struct {
	Kind  EventKind
	RefID int64
	Title string
	Start model.Date
	End   model.Date
	Color string
}

// CalendarEvents projects the snapshot into a flat calendar entry list
// under the active filters.
//
// Gates: project and task entries pass when their (parent) project's
// owner is either the team sentinel with ShowTeam on, or a member of
// the selected-user set. Projects additionally require a deadline;
// projects without one are omitted, never given a synthetic date.
// Schedule entries pass when their user is selected.
func CalendarEvents(data model.Snapshot, f state.CalendarFilters) []Event {
	var events []Event

	teamID := int64(-1)
	for _, u := range data.Users {
		if u.IsTeam() {
			teamID = u.ID
			break
		}
	}

	userName := func(id int64) string {
		for _, u := range data.Users {
			if u.ID == id {
				return u.Name
			}
		}
		return ""
	}

	for _, p := range data.Projects {
		ownerPasses := false
		if p.UserID != nil {
			if *p.UserID == teamID {
				ownerPasses = f.ShowTeam
			} else {
				ownerPasses = f.SelectedUsers[*p.UserID]
			}
		}
		if !ownerPasses {
			continue
		}

		if f.ShowProjects && p.Deadline.Valid() {
			start := p.StartDate
			if !start.Valid() {
				start = p.Deadline
			}
			assignee := ""
			if p.UserID != nil {
				assignee = userName(*p.UserID)
			}
			events = append(events, Event{
				Kind:  EventProject,
				RefID: p.ID,
				Title: fmt.Sprintf("[P %s] %s", assignee, p.Name),
				Start: start,
				End:   p.Deadline,
				Color: ProjectColor(p.ID),
			})
		}

		if f.ShowTasks {
			for _, t := range p.Tasks {
				if !t.Deadline.Valid() {
					continue
				}
				events = append(events, Event{
					Kind:  EventTask,
					RefID: t.ID,
					Title: "[업무] " + t.Content,
					Start: t.Deadline,
					Color: taskEventColor,
				})
			}
		}
	}

	if f.ShowSchedules {
		for _, sc := range data.Schedules {
			if !f.SelectedUsers[sc.UserID] {
				continue
			}
			prefix := fmt.Sprintf("[S %s]", sc.UserName)
			switch sc.ScheduleType {
			case model.ScheduleTeam:
				prefix = "[S " + model.TeamUserName + "]"
			case model.ScheduleCompany:
				prefix = "[S 수산]"
			}
			events = append(events, Event{
				Kind:  EventSchedule,
				RefID: sc.ID,
				Title: prefix + " " + sc.Content,
				Start: sc.ScheduleDate,
				Color: scheduleEventColor,
			})
		}
	}

	return events
}
