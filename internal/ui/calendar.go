package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jwlee/teamboard/internal/derive"
	"github.com/jwlee/teamboard/internal/state"
	"github.com/jwlee/teamboard/internal/theme"
)

const calendarCellWidth = 14

var weekdayNames = []string{"일", "월", "화", "수", "목", "금", "토"}

// eventsByDay spreads the derived events over the days of a month.
// Multi-day events appear on every day they cover.
func eventsByDay(events []derive.Event, year int, month time.Month) map[int][]derive.Event {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	out := map[int][]derive.Event{}
	for _, ev := range events {
		if !ev.Start.Valid() {
			continue
		}
		start := ev.Start.Time()
		end := start
		if ev.End.Valid() {
			end = ev.End.Time()
		}
		if end.Before(first) || start.After(last) {
			continue
		}
		if start.Before(first) {
			start = first
		}
		if end.After(last) {
			end = last
		}
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			out[d.Day()] = append(out[d.Day()], ev)
		}
	}
	return out
}

// renderCalendar draws the month grid around cursor, with the derived
// events of the current filter set.
func renderCalendar(s *state.Store, cursor time.Time, legendFocus int, now time.Time) string {
	year, month := cursor.Year(), cursor.Month()
	events := derive.CalendarEvents(s.Data, s.Calendar)
	byDay := eventsByDay(events, year, month)

	var b strings.Builder
	b.WriteString(theme.SectionTitleStyle.Render(fmt.Sprintf("%d년 %d월", year, int(month))))
	b.WriteString("  " + renderCalendarLegend(s, legendFocus) + "\n")

	var header []string
	for _, wd := range weekdayNames {
		header = append(header, lipgloss.NewStyle().Width(calendarCellWidth).Render(wd))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, header...) + "\n")

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()
	offset := int(first.Weekday())

	day := 1
	for day <= daysInMonth {
		var cells []string
		for wd := 0; wd < 7; wd++ {
			if (day == 1 && wd < offset) || day > daysInMonth {
				cells = append(cells, lipgloss.NewStyle().Width(calendarCellWidth).Render(""))
				continue
			}
			cells = append(cells, renderDayCell(day, byDay[day],
				day == cursor.Day(),
				year == now.Year() && month == now.Month() && day == now.Day()))
			day++
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...) + "\n")
	}

	b.WriteString(theme.HelpStyle.Render("←/→ day  ↑/↓ week  </> month  enter: new schedule  x: delete schedule  f/space: filters"))
	return b.String()
}

// renderDayCell draws one calendar day with up to three event lines.
func renderDayCell(day int, events []derive.Event, selected, today bool) string {
	num := fmt.Sprintf("%d", day)
	if today {
		num = theme.MineStyle.Render(num)
	}
	lines := []string{num}

	const maxLines = 3
	for i, ev := range events {
		if i == maxLines {
			lines = append(lines, theme.HelpStyle.Render(fmt.Sprintf("+%d more", len(events)-maxLines)))
			break
		}
		lines = append(lines, lipgloss.NewStyle().
			Foreground(lipgloss.Color(ev.Color)).
			MaxWidth(calendarCellWidth-1).
			Render(ev.Title))
	}

	cell := lipgloss.NewStyle().Width(calendarCellWidth).Height(maxLines + 2)
	if selected {
		cell = cell.Border(lipgloss.NormalBorder()).Width(calendarCellWidth - 2)
	}
	return cell.Render(strings.Join(lines, "\n"))
}

// legendEntry is one toggleable calendar filter: an event source flag
// or a user gate.
type legendEntry struct {
	label  string
	on     bool
	toggle func(*state.Store)
}

// legendEntries lists the calendar filters in focus order: the four
// source flags, then one gate per non-team user.
func legendEntries(s *state.Store) []legendEntry {
	entries := []legendEntry{
		{"team", s.Calendar.ShowTeam, func(s *state.Store) { s.Calendar.ShowTeam = !s.Calendar.ShowTeam }},
		{"projects", s.Calendar.ShowProjects, func(s *state.Store) { s.Calendar.ShowProjects = !s.Calendar.ShowProjects }},
		{"tasks", s.Calendar.ShowTasks, func(s *state.Store) { s.Calendar.ShowTasks = !s.Calendar.ShowTasks }},
		{"schedules", s.Calendar.ShowSchedules, func(s *state.Store) { s.Calendar.ShowSchedules = !s.Calendar.ShowSchedules }},
	}
	for _, u := range s.Data.Users {
		if u.IsTeam() {
			continue
		}
		id := u.ID
		entries = append(entries, legendEntry{
			label: derive.ShortName(u.Name),
			on:    s.Calendar.SelectedUsers[id],
			toggle: func(s *state.Store) {
				s.Calendar.SelectedUsers[id] = !s.Calendar.SelectedUsers[id]
			},
		})
	}
	return entries
}

// renderCalendarLegend shows the filter entries; focus marks the one
// the toggle key acts on, -1 for none.
func renderCalendarLegend(s *state.Store, focus int) string {
	var parts []string
	for i, e := range legendEntries(s) {
		label := e.label
		if !e.on {
			label = theme.HelpStyle.Render(label)
		}
		if i == focus {
			label = "[" + label + "]"
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, " ")
}

// schedulesOn lists the schedule ids whose date matches day, for the
// delete-schedule action on the calendar.
func schedulesOn(s *state.Store, day time.Time) []int64 {
	var ids []int64
	for _, ev := range derive.CalendarEvents(s.Data, s.Calendar) {
		if ev.Kind != derive.EventSchedule || !ev.Start.Valid() {
			continue
		}
		if ev.Start.Time().Equal(time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)) {
			ids = append(ids, ev.RefID)
		}
	}
	return ids
}
