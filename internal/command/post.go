package command

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwlee/teamboard/internal/api"
)

// CreatePost publishes a bulletin board entry authored by the acting
// user.
func (c *Commands) CreatePost(title, content string) tea.Cmd {
	title = strings.TrimSpace(title)
	current := c.store.CurrentUser()
	if title == "" || strings.TrimSpace(content) == "" || current == nil {
		return nil
	}
	post := api.NewPost{Title: title, Content: content, UserID: current.ID}
	return c.createAndRefresh("create post", func(ctx context.Context) error {
		return c.gw.CreatePost(ctx, post)
	})
}

// UpdatePost rewrites a post's title and content.
func (c *Commands) UpdatePost(id int64, title, content string) tea.Cmd {
	title = strings.TrimSpace(title)
	p := c.store.Post(id)
	if p == nil || title == "" || strings.TrimSpace(content) == "" {
		return nil
	}
	if p.Title == title && p.Content == content {
		return nil
	}

	prevTitle, prevContent := p.Title, p.Content
	p.Title = title
	p.Content = content
	payload := api.NewPost{Title: title, Content: content, UserID: p.UserID}

	return c.confirm("update post", fieldKey("post", id, "body"), "",
		func(ctx context.Context) error {
			return c.gw.UpdatePost(ctx, id, payload)
		},
		func() {
			p.Title = prevTitle
			p.Content = prevContent
		},
	)
}

// DeletePost removes a post optimistically.
func (c *Commands) DeletePost(id int64) tea.Cmd {
	s := c.store
	idx := -1
	for i := range s.Data.Posts {
		if s.Data.Posts[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	removed := s.Data.Posts[idx]
	s.Data.Posts = append(s.Data.Posts[:idx], s.Data.Posts[idx+1:]...)
	if s.OpenPostID == id {
		s.OpenPostID = 0
	}

	return c.confirm("delete post", fieldKey("post", id, ""), "Post deleted",
		func(ctx context.Context) error {
			return c.gw.DeletePost(ctx, id)
		},
		func() {
			s.Data.Posts = insertAt(s.Data.Posts, idx, removed)
		},
	)
}

// MarkPostsRead clears the unread flag for the acting user. Runs when
// the board sidebar opens with unread posts pending.
func (c *Commands) MarkPostsRead() tea.Cmd {
	s := c.store
	current := s.CurrentUser()
	if current == nil || !s.Data.HasNewPosts {
		return nil
	}

	s.Data.HasNewPosts = false
	userID := current.ID

	return c.confirm("mark posts read", "posts:read", "",
		func(ctx context.Context) error {
			return c.gw.MarkPostsRead(ctx, userID)
		},
		func() { s.Data.HasNewPosts = true },
	)
}
