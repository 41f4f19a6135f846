package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jwlee/teamboard/internal/derive"
	"github.com/jwlee/teamboard/internal/state"
	"github.com/jwlee/teamboard/internal/theme"
)

// renderChart draws the per-user load view: one bar per user showing
// their share of the active projects, with the mean progress alongside.
func renderChart(s *state.Store) string {
	stats := derive.LoadStats(s.Data, s.Chart.ExcludeTeam)
	total := derive.TotalProjects(stats)

	var b strings.Builder
	b.WriteString(theme.SectionTitleStyle.Render("Workload"))
	if s.Chart.ExcludeTeam {
		b.WriteString("  " + theme.HelpStyle.Render("(team excluded — e to include)"))
	} else {
		b.WriteString("  " + theme.HelpStyle.Render("(team included — e to exclude)"))
	}
	b.WriteString("\n\n")

	if total == 0 {
		b.WriteString(theme.HelpStyle.Render("No active projects."))
		return b.String()
	}

	nameWidth := 0
	for _, st := range stats {
		if w := lipgloss.Width(st.User.Name); w > nameWidth {
			nameWidth = w
		}
	}

	const barWidth = 30
	for _, st := range stats {
		share := 0
		if total > 0 {
			share = st.ProjectCount * 100 / total
		}
		bar := lipgloss.NewStyle().
			Foreground(lipgloss.Color(derive.UserColor(st.User.ID))).
			Render(strings.Repeat("█", st.ProjectCount*barWidth/max(total, 1)))

		b.WriteString(fmt.Sprintf("%s %s %d (%d%%)  mean %d%%\n",
			lipgloss.NewStyle().Width(nameWidth).Render(st.User.Name),
			bar, st.ProjectCount, share, st.MeanProgress))
	}

	b.WriteString("\n" + theme.HelpStyle.Render(fmt.Sprintf("%d active projects", total)))
	return b.String()
}
