package ui

import (
	"fmt"
	"strings"

	"github.com/jwlee/teamboard/internal/model"
	"github.com/jwlee/teamboard/internal/state"
	"github.com/jwlee/teamboard/internal/theme"
)

const postPreviewLimit = 200

// postPreview clamps a post body to the list preview length.
func postPreview(content string) string {
	content = strings.ReplaceAll(content, "\n", " ")
	runes := []rune(content)
	if len(runes) <= postPreviewLimit {
		return content
	}
	return string(runes[:postPreviewLimit]) + "…"
}

// renderSidebar draws the bulletin board panel: newest-first post list
// with author and preview. cursor is the index of the highlighted post.
func renderSidebar(s *state.Store, cursor int) string {
	var b strings.Builder
	b.WriteString(theme.SectionTitleStyle.Render(fmt.Sprintf("Board (%d)", len(s.Data.Posts))) + "\n")

	if len(s.Data.Posts) == 0 {
		b.WriteString(theme.HelpStyle.Render("No posts. Press a to write one."))
		return theme.ModalStyle.Render(b.String())
	}

	for i, p := range s.Data.Posts {
		title := p.Title
		if i == cursor {
			title = theme.SelectedItemStyle.Render(title)
		}
		b.WriteString(title + "\n")
		b.WriteString(theme.HelpStyle.Render(p.AuthorName+"  "+p.UpdatedAt.Format("2006-01-02")) + "\n")
		b.WriteString(theme.ListItemStyle.Render(postPreview(p.Content)) + "\n\n")
	}

	b.WriteString(theme.HelpStyle.Render("enter: open  a: write  x: delete  esc: close"))
	return theme.ModalStyle.Render(b.String())
}

// renderPost draws a single post in full.
func renderPost(p *model.Post, deleteArmed bool) string {
	var b strings.Builder
	b.WriteString(theme.SectionTitleStyle.Render(p.Title) + "\n")
	b.WriteString(theme.HelpStyle.Render(p.AuthorName+"  "+p.UpdatedAt.Format("2006-01-02")) + "\n\n")
	b.WriteString(p.Content + "\n\n")
	if deleteArmed {
		b.WriteString(theme.UrgentStyle.Render("[x] really delete?"))
	} else {
		b.WriteString(theme.HelpStyle.Render("e: edit  x: delete  esc: back"))
	}
	return theme.ModalStyle.Render(b.String())
}

// sidebarBadge renders the header marker shown while unread posts
// exist.
func sidebarBadge(s *state.Store) string {
	if s.Data.HasNewPosts {
		return theme.NotificationDotStyle.Render("●")
	}
	return ""
}
