package derive

import (
	"fmt"
	"strings"
	"time"

	"github.com/jwlee/teamboard/internal/model"
)

const (
	taskEventColor     = "#4895EF"
	scheduleEventColor = "#495057"
)

var userColors = []string{
	"#6d6875", "#b5838d", "#e5989b", "#ffb4a2", "#ffcdb2",
}

var projectColors = []string{
	"#20c997", "#fd7e14", "#6610f2", "#0d6efd", "#d63384", "#198754",
}

// UserColor picks a stable display color for a user id.
func UserColor(id int64) string {
	n := int64(len(userColors))
	return userColors[((id-1)%n+n)%n]
}

// ProjectColor picks a stable display color for a project id.
func ProjectColor(id int64) string {
	n := int64(len(projectColors))
	return projectColors[((id-1)%n+n)%n]
}

// ShortName derives the compact icon label for a user. The team
// sentinel is special-cased; Korean personal names drop the family name.
func ShortName(name string) string {
	if name == model.TeamUserName {
		return "DI"
	}
	runes := []rune(name)
	if len(runes) > 1 {
		return strings.ReplaceAll(strings.TrimSpace(string(runes[1:])), " ", "")
	}
	return name
}

// DDay is the deadline countdown badge for a project.
type DDay struct {
	Text   string
	Urgent bool
}

// DDayOf renders the countdown badge relative to now. Deadlines within
// a week are flagged urgent; an absent deadline yields "미정".
func DDayOf(deadline model.Date, now time.Time) DDay {
	if !deadline.Valid() {
		return DDay{Text: "미정"}
	}
	today := model.DateOf(now)
	days := int(deadline.Time().Sub(today.Time()).Hours() / 24)
	switch {
	case days == 0:
		return DDay{Text: "D-Day", Urgent: true}
	case days < 0:
		return DDay{Text: fmt.Sprintf("D+%d", -days)}
	default:
		return DDay{Text: fmt.Sprintf("D-%d", days), Urgent: days <= 7}
	}
}

// PeriodLabel renders a project's start/deadline pair for the details
// view period button.
func PeriodLabel(start, deadline model.Date) string {
	s := shortDate(start)
	e := shortDate(deadline)
	switch {
	case s == "" && e == "":
		return "기간 선택"
	case s != "" && e != "":
		return s + " ~ " + e
	case s != "":
		return s + " ~"
	default:
		return "~ " + e
	}
}

func shortDate(d model.Date) string {
	if !d.Valid() {
		return ""
	}
	return d.Time().Format("01-02")
}
