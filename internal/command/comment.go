package command

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwlee/teamboard/internal/model"
)

// AddComment posts a comment on a project under the acting user's
// name. The author name is captured now; later renames do not reach
// old comments.
func (c *Commands) AddComment(projectID int64, content string) tea.Cmd {
	content = strings.TrimSpace(content)
	current := c.store.CurrentUser()
	if content == "" || current == nil || c.store.Project(projectID) == nil {
		return nil
	}
	author := current.Name
	return c.createAndRefresh("add comment", func(ctx context.Context) error {
		return c.gw.AddComment(ctx, projectID, author, content)
	})
}

// EditComment replaces a comment's content.
func (c *Commands) EditComment(projectID, commentID int64, content string) tea.Cmd {
	content = strings.TrimSpace(content)
	p := c.store.Project(projectID)
	if p == nil || content == "" {
		return nil
	}
	var cm *model.Comment
	for i := range p.Comments {
		if p.Comments[i].ID == commentID {
			cm = &p.Comments[i]
			break
		}
	}
	if cm == nil || cm.Content == content {
		return nil
	}

	prev := cm.Content
	cm.Content = content

	return c.confirm("edit comment", fieldKey("comment", commentID, "content"), "",
		func(ctx context.Context) error {
			return c.gw.UpdateComment(ctx, commentID, content)
		},
		func() { cm.Content = prev },
	)
}

// DeleteComment removes a comment optimistically.
func (c *Commands) DeleteComment(projectID, commentID int64) tea.Cmd {
	p := c.store.Project(projectID)
	if p == nil {
		return nil
	}
	idx := -1
	for i := range p.Comments {
		if p.Comments[i].ID == commentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	removed := p.Comments[idx]
	p.Comments = append(p.Comments[:idx], p.Comments[idx+1:]...)

	return c.confirm("delete comment", fieldKey("comment", commentID, ""), "Comment deleted",
		func(ctx context.Context) error {
			return c.gw.DeleteComment(ctx, commentID)
		},
		func() {
			p.Comments = insertAt(p.Comments, idx, removed)
		},
	)
}
