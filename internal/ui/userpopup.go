package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jwlee/teamboard/internal/derive"
	"github.com/jwlee/teamboard/internal/state"
	"github.com/jwlee/teamboard/internal/theme"
)

// renderUserPopup draws the user switcher: every user selectable as the
// working identity, with add/edit/delete actions. The team sentinel is
// listed but carries no delete affordance.
func renderUserPopup(s *state.Store, cursor int, deleteArmed bool) string {
	var b strings.Builder
	b.WriteString(theme.SectionTitleStyle.Render("Users") + "\n\n")

	current := s.CurrentUser()
	for i, u := range s.Data.Users {
		marker := "  "
		if current != nil && u.ID == current.ID {
			marker = "▸ "
		}

		name := lipgloss.NewStyle().
			Foreground(lipgloss.Color(derive.UserColor(u.ID))).
			Render(u.Name)
		line := marker + name
		if u.Position != "" {
			line += " " + theme.HelpStyle.Render(u.Position)
		}
		if u.IsTeam() {
			line += " " + theme.HelpStyle.Render("(team)")
		}

		if i == cursor {
			if deleteArmed && !u.IsTeam() {
				line += "  " + theme.UrgentStyle.Render("really delete?")
			}
			line = theme.SelectedItemStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + theme.HelpStyle.Render("enter: switch  a: add  e: edit  x: delete  esc: close"))
	return theme.ModalStyle.Render(b.String())
}

// userBadge renders the current identity for the header.
func userBadge(s *state.Store) string {
	u := s.CurrentUser()
	if u == nil {
		return theme.HelpStyle.Render("no user")
	}
	return fmt.Sprintf("%s%s", derive.ShortName(u.Name), sidebarBadge(s))
}
