package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/jwlee/teamboard/internal/derive"
	"github.com/jwlee/teamboard/internal/model"
	"github.com/jwlee/teamboard/internal/state"
	"github.com/jwlee/teamboard/internal/theme"
)

// transitionLabels maps a reachable target status to its button label.
var transitionLabels = map[string]string{
	model.StatusActive:    "start",
	model.StatusScheduled: "pause",
	model.StatusCompleted: "complete",
}

// transitionLabel returns the action label for moving p to target.
// Completed projects reuse "resume" instead of "start".
func transitionLabel(from, target string) string {
	if from == model.StatusCompleted && target == model.StatusActive {
		return "resume"
	}
	return transitionLabels[target]
}

// renderDetail draws the project details modal. taskCursor is the index
// of the highlighted task, -1 for none. An armed delete or status
// transition renders its action in the confirm state.
func renderDetail(s *state.Store, p *model.Project, taskCursor int, now time.Time) string {
	var b strings.Builder

	prio := theme.PriorityStyle(p.Priority).Render(fmt.Sprintf("P%d", p.Priority))
	status := theme.StatusStyle(p.Status).Render(p.Status)
	b.WriteString(theme.SectionTitleStyle.Render(p.Name))
	b.WriteString("  " + prio + " " + status + "\n\n")

	assignee := "미지정"
	if p.UserID != nil {
		if u := s.User(*p.UserID); u != nil {
			assignee = strings.TrimSpace(u.Name + " " + u.Position)
		}
	}
	category := p.Category
	if category == "" {
		category = "-"
	}
	dday := derive.DDayOf(p.Deadline, now)
	ddayText := dday.Text
	if dday.Urgent {
		ddayText = theme.UrgentStyle.Render(ddayText)
	}

	b.WriteString(fmt.Sprintf("assignee  %s\n", assignee))
	b.WriteString(fmt.Sprintf("category  %s\n", category))
	b.WriteString(fmt.Sprintf("period    %s  %s\n", derive.PeriodLabel(p.StartDate, p.Deadline), ddayText))

	if len(p.Tasks) == 0 {
		b.WriteString(fmt.Sprintf("progress  %s %d%% (manual, e to edit)\n", progressBar(p.Progress, 20), p.Progress))
	} else {
		b.WriteString(fmt.Sprintf("progress  %s %d%%\n", progressBar(p.Progress, 20), p.Progress))
	}

	b.WriteString("\n" + renderTransitionButtons(p, s.DeleteArmed, s.TransitionArmed) + "\n")

	b.WriteString("\n" + theme.SectionTitleStyle.Render(fmt.Sprintf("Tasks (%d)", len(p.Tasks))) + "\n")
	if len(p.Tasks) == 0 {
		b.WriteString(theme.HelpStyle.Render("none — a to add") + "\n")
	}
	for i, t := range p.Tasks {
		b.WriteString(renderTaskRow(t, i == taskCursor, now) + "\n")
	}

	b.WriteString("\n" + theme.SectionTitleStyle.Render(fmt.Sprintf("Comments (%d)", len(p.Comments))) + "\n")
	for _, c := range p.Comments {
		author := c.AuthorName
		if author == "" {
			author = "?"
		}
		b.WriteString(fmt.Sprintf("%s %s\n",
			theme.HelpStyle.Render(author+":"), c.Content))
	}

	return theme.ModalStyle.Render(b.String())
}

// renderTransitionButtons lists only the actions the status machine
// allows from the current status, plus delete. An armed target shows
// its confirm prompt.
func renderTransitionButtons(p *model.Project, deleteArmed bool, transitionArmed string) string {
	var parts []string
	for _, target := range model.Transitions(p.Status) {
		hint := "t"
		if target == model.StatusScheduled {
			hint = "p"
		}
		label := transitionLabel(p.Status, target)
		if target == transitionArmed {
			parts = append(parts, theme.UrgentStyle.Render(fmt.Sprintf("[%s] really %s?", hint, label)))
		} else {
			parts = append(parts, fmt.Sprintf("[%s] %s", hint, label))
		}
	}
	if deleteArmed {
		parts = append(parts, theme.UrgentStyle.Render("[x] really delete?"))
	} else {
		parts = append(parts, "[x] delete")
	}
	return strings.Join(parts, "   ")
}

// renderTaskRow draws one task line inside the details modal.
func renderTaskRow(t model.Task, selected bool, now time.Time) string {
	check := "☐"
	if t.Progress >= 100 {
		check = "☑"
	}

	content := firstLine(t.Content)
	if content == "" {
		content = theme.HelpStyle.Render("(empty)")
	}
	if t.Overdue(now) {
		content = theme.UrgentStyle.Render(content)
	}

	deadline := ""
	if t.Deadline.Valid() {
		deadline = "  " + theme.HelpStyle.Render(t.Deadline.String())
	}

	line := fmt.Sprintf("%s %3d%% %s%s", check, t.Progress, content, deadline)
	if selected {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}
