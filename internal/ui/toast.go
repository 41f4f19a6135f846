package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwlee/teamboard/internal/theme"
)

const toastDuration = 3 * time.Second

// toastExpiredMsg clears a toast once its display window passes. The
// sequence number guards against an old timer clearing a newer toast.
type toastExpiredMsg struct {
	seq int
}

// toast is the transient notification line. Showing a new toast
// replaces the previous one.
type toast struct {
	text string
	seq  int
}

// show replaces the current toast and returns the expiry timer command.
func (t *toast) show(text string) tea.Cmd {
	t.text = text
	t.seq++
	seq := t.seq
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

// expire clears the toast if msg belongs to the currently shown one.
func (t *toast) expire(msg toastExpiredMsg) {
	if msg.seq == t.seq {
		t.text = ""
	}
}

// render returns the styled toast line, or "" when nothing is shown.
func (t *toast) render() string {
	if t.text == "" {
		return ""
	}
	return theme.ToastStyle.Render(t.text)
}
