package ui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwlee/teamboard/internal/command"
	"github.com/jwlee/teamboard/internal/model"
	"github.com/jwlee/teamboard/internal/state"
)

type memPrefs map[string]string

func (m memPrefs) Get(key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}
func (m memPrefs) Set(key, value string) error { m[key] = value; return nil }
func (m memPrefs) Delete(key string) error     { delete(m, key); return nil }

// stubGateway satisfies command.Gateway for key-routing flows that must
// never reach the backend; any call hits the nil embed and panics.
type stubGateway struct{ command.Gateway }

func newDetailModel(t *testing.T, status string) (Model, *state.Store) {
	t.Helper()
	st := state.New(memPrefs{})
	st.SetAppData(model.Snapshot{
		Users: []model.User{{ID: 1, Name: model.TeamUserName}},
		Projects: []model.Project{
			{ID: 10, Name: "백엔드 개편", Priority: 1, Status: status},
		},
	})
	st.SetCurrentUser(st.User(1))
	m := New(command.New(st, stubGateway{}))
	st.OpenProjectID = 10
	m.taskCursor = -1
	return m, st
}

func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
		m = next.(Model)
	}
	return m, cmd
}

func TestTransitionNeedsConfirmation(t *testing.T) {
	m, st := newDetailModel(t, model.StatusActive)

	_, cmd := press(t, m, "t")
	if got := st.Project(10).Status; got != model.StatusActive {
		t.Fatalf("one keypress must not change status, got %q", got)
	}
	if cmd != nil {
		t.Fatal("one keypress must not dispatch the status change")
	}
	if st.TransitionArmed != model.StatusCompleted {
		t.Errorf("armed = %q, want %q", st.TransitionArmed, model.StatusCompleted)
	}
}

func TestTransitionConfirmApplies(t *testing.T) {
	m, st := newDetailModel(t, model.StatusActive)

	_, cmd := press(t, m, "t", "t")
	if got := st.Project(10).Status; got != model.StatusCompleted {
		t.Fatalf("status = %q, want %q", got, model.StatusCompleted)
	}
	if cmd == nil {
		t.Fatal("confirmed transition must dispatch the gateway command")
	}
	if st.TransitionArmed != "" {
		t.Errorf("confirming must disarm, got %q", st.TransitionArmed)
	}
}

func TestTransitionDisarmedByOtherKey(t *testing.T) {
	m, st := newDetailModel(t, model.StatusActive)

	_, cmd := press(t, m, "t", "j", "t")
	if got := st.Project(10).Status; got != model.StatusActive {
		t.Fatalf("interrupted arm must not apply, got %q", got)
	}
	if cmd != nil {
		t.Fatal("no command expected after a fresh re-arm")
	}
	if st.TransitionArmed != model.StatusCompleted {
		t.Errorf("armed = %q, want a fresh arm", st.TransitionArmed)
	}
}

func TestPauseNeedsConfirmation(t *testing.T) {
	m, st := newDetailModel(t, model.StatusActive)

	m2, _ := press(t, m, "p")
	if got := st.Project(10).Status; got != model.StatusActive {
		t.Fatalf("one keypress must not pause, got %q", got)
	}
	if st.TransitionArmed != model.StatusScheduled {
		t.Fatalf("armed = %q, want %q", st.TransitionArmed, model.StatusScheduled)
	}

	_, cmd := press(t, m2, "p")
	if got := st.Project(10).Status; got != model.StatusScheduled {
		t.Fatalf("status = %q, want %q", got, model.StatusScheduled)
	}
	if cmd == nil {
		t.Fatal("confirmed pause must dispatch the gateway command")
	}
}

func TestPauseDoesNotConfirmTransitionArm(t *testing.T) {
	m, st := newDetailModel(t, model.StatusActive)

	_, cmd := press(t, m, "t", "p")
	if got := st.Project(10).Status; got != model.StatusActive {
		t.Fatalf("switching targets must not apply, got %q", got)
	}
	if cmd != nil {
		t.Fatal("no command expected when the armed target changes")
	}
	if st.TransitionArmed != model.StatusScheduled {
		t.Errorf("armed = %q, want %q", st.TransitionArmed, model.StatusScheduled)
	}
}
