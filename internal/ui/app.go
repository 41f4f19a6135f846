package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwlee/teamboard/internal/api"
	"github.com/jwlee/teamboard/internal/command"
	"github.com/jwlee/teamboard/internal/model"
	"github.com/jwlee/teamboard/internal/state"
)

// View is the active top-level screen.
type View int

const (
	ViewBoard View = iota
	ViewCalendar
	ViewChart
)

// Model is the root Bubble Tea model: it routes keys to the active
// screen and overlay, dispatches mutations through the command layer,
// and applies the result messages back onto the store.
type Model struct {
	cmds  *command.Commands
	store *state.Store
	keys  *KeyMap
	help  help.Model

	layout Layout
	ready  bool

	view        View
	boardCursor int64
	taskCursor  int
	postCursor  int
	userCursor  int
	calCursor   time.Time
	legendFocus int

	usersOpen bool
	form      *formModel
	toast     toast

	now func() time.Time
}

// New creates the root model around an initialized store and command
// dispatcher.
func New(cmds *command.Commands) Model {
	return Model{
		cmds:        cmds,
		store:       cmds.Store(),
		keys:        DefaultKeyMap(),
		help:        help.New(),
		calCursor:   truncateDay(time.Now()),
		legendFocus: -1,
		now:         time.Now,
	}
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Init fetches the initial snapshot.
func (m Model) Init() tea.Cmd {
	return m.cmds.Refresh()
}

// Update routes messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = NewLayout(msg.Width, msg.Height)
		m.ready = true
		if m.form != nil {
			return m, m.form.Update(msg)
		}
		return m, nil

	case toastExpiredMsg:
		m.toast.expire(msg)
		return m, nil

	case command.FailedMsg:
		m.cmds.Rollback(msg)
		m.clampCursors()
		return m, m.toast.show(msg.Action + " failed: " + msg.Err.Error())

	case command.AppliedMsg:
		if msg.Notice != "" {
			return m, m.toast.show(msg.Notice)
		}
		return m, nil

	case command.SnapshotMsg:
		if msg.Err != nil {
			return m, m.toast.show("refresh failed: " + msg.Err.Error())
		}
		m.cmds.ApplySnapshot(msg.Snap)
		m.clampCursors()
		if msg.Notice != "" {
			return m, m.toast.show(msg.Notice)
		}
		return m, nil

	case command.TaskAddedMsg:
		m.cmds.ApplySnapshot(msg.Snap)
		m.clampCursors()
		if p := m.store.Project(m.store.OpenProjectID); p != nil {
			for i, t := range p.Tasks {
				if t.ID == msg.TaskID {
					m.taskCursor = i
					break
				}
			}
		}
		return m, nil

	case formCancelMsg:
		m.form = nil
		return m, nil
	case projectFormMsg:
		m.form = nil
		return m, m.applyProjectForm(msg)
	case taskFormMsg:
		m.form = nil
		return m, m.applyTaskForm(msg)
	case commentFormMsg:
		m.form = nil
		if msg.edit {
			return m, m.cmds.EditComment(msg.projectID, msg.commentID, msg.content)
		}
		return m, m.cmds.AddComment(msg.projectID, msg.content)
	case postFormMsg:
		m.form = nil
		if msg.edit {
			return m, m.cmds.UpdatePost(msg.postID, msg.title, msg.content)
		}
		return m, m.cmds.CreatePost(msg.title, msg.content)
	case scheduleFormMsg:
		m.form = nil
		return m, m.cmds.CreateSchedule(msg.date, msg.content, msg.typ)
	case userFormMsg:
		m.form = nil
		if msg.edit {
			return m, tea.Batch(
				m.cmds.RenameUser(msg.userID, msg.name),
				m.cmds.SetUserPosition(msg.userID, msg.position),
			)
		}
		return m, m.cmds.AddUser(msg.name, msg.position)
	}

	if m.form != nil {
		return m, m.form.Update(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(keyMsg)
	}
	return m, nil
}

// handleKey routes one keypress by overlay precedence: post view, user
// popup, sidebar, project details, then the active screen.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	// Any key that is not the delete key disarms a pending delete, and
	// any key outside the transition pair disarms a pending transition.
	if !key.Matches(msg, m.keys.Delete) {
		m.store.DeleteArmed = false
	}
	if !key.Matches(msg, m.keys.Transition) && !key.Matches(msg, m.keys.Pause) {
		m.store.TransitionArmed = ""
	}

	switch {
	case m.store.OpenPostID != 0:
		return m.handlePostKey(msg)
	case m.usersOpen:
		return m.handleUsersKey(msg)
	case m.store.SidebarOpen:
		return m.handleSidebarKey(msg)
	case m.store.OpenProjectID != 0:
		return m.handleDetailKey(msg)
	}
	return m.handleScreenKey(msg)
}

func (m Model) handleScreenKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		return m, m.cmds.Refresh()
	case key.Matches(msg, m.keys.Board):
		m.view = ViewBoard
		return m, nil
	case key.Matches(msg, m.keys.Calendar):
		m.view = ViewCalendar
		return m, nil
	case key.Matches(msg, m.keys.Chart):
		m.view = ViewChart
		return m, nil
	case key.Matches(msg, m.keys.Sidebar):
		m.store.SidebarOpen = true
		m.postCursor = 0
		if m.store.Data.HasNewPosts {
			return m, m.cmds.MarkPostsRead()
		}
		return m, nil
	case key.Matches(msg, m.keys.Users):
		m.usersOpen = true
		m.userCursor = 0
		return m, nil
	}

	switch m.view {
	case ViewBoard:
		return m.handleBoardKey(msg)
	case ViewCalendar:
		return m.handleCalendarKey(msg)
	case ViewChart:
		return m.handleChartKey(msg)
	}
	return m, nil
}

func (m Model) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		m.boardCursor = moveCursor(m.store, m.boardCursor, 1)
	case key.Matches(msg, m.keys.Up):
		m.boardCursor = moveCursor(m.store, m.boardCursor, -1)
	case key.Matches(msg, m.keys.Select):
		if m.store.Project(m.boardCursor) != nil {
			m.store.OpenProjectID = m.boardCursor
			m.taskCursor = -1
		}
	case key.Matches(msg, m.keys.NewProject):
		m.form = newProjectForm(m.store, nil)
		return m, m.form.Init()
	case key.Matches(msg, m.keys.CycleCategory):
		m.store.CategoryFilter = nextCategory(m.store)
		m.boardCursor = moveCursor(m.store, m.boardCursor, 0)
	case key.Matches(msg, m.keys.Delete):
		if m.store.Project(m.boardCursor) == nil {
			return m, nil
		}
		if !m.store.DeleteArmed {
			m.store.DeleteArmed = true
			return m, nil
		}
		m.store.DeleteArmed = false
		cmd := m.cmds.DeleteProject(m.boardCursor)
		m.clampCursors()
		return m, cmd
	}
	return m, nil
}

func (m Model) handleCalendarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "left" || msg.String() == "h":
		m.calCursor = m.calCursor.AddDate(0, 0, -1)
	case msg.String() == "right" || msg.String() == "l":
		m.calCursor = m.calCursor.AddDate(0, 0, 1)
	case key.Matches(msg, m.keys.Up):
		m.calCursor = m.calCursor.AddDate(0, 0, -7)
	case key.Matches(msg, m.keys.Down):
		m.calCursor = m.calCursor.AddDate(0, 0, 7)
	case msg.String() == "<":
		m.calCursor = m.calCursor.AddDate(0, -1, 0)
	case msg.String() == ">":
		m.calCursor = m.calCursor.AddDate(0, 1, 0)
	case key.Matches(msg, m.keys.Select):
		if m.legendFocus >= 0 {
			break
		}
		m.form = newScheduleForm(m.calCursor)
		return m, m.form.Init()
	case key.Matches(msg, m.keys.ToggleFilter):
		entries := legendEntries(m.store)
		m.legendFocus++
		if m.legendFocus >= len(entries) {
			m.legendFocus = -1
		}
	case msg.String() == " ":
		entries := legendEntries(m.store)
		if m.legendFocus >= 0 && m.legendFocus < len(entries) {
			entries[m.legendFocus].toggle(m.store)
		}
	case key.Matches(msg, m.keys.Delete):
		ids := schedulesOn(m.store, m.calCursor)
		if len(ids) == 0 {
			return m, nil
		}
		if !m.store.DeleteArmed {
			m.store.DeleteArmed = true
			return m, nil
		}
		m.store.DeleteArmed = false
		return m, m.cmds.DeleteSchedule(ids[0])
	case key.Matches(msg, m.keys.Back):
		m.legendFocus = -1
	}
	return m, nil
}

func (m Model) handleChartKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ExcludeTeam) {
		m.store.Chart.ExcludeTeam = !m.store.Chart.ExcludeTeam
	}
	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.store.Project(m.store.OpenProjectID)
	if p == nil {
		m.store.OpenProjectID = 0
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		m.store.OpenProjectID = 0
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.taskCursor < len(p.Tasks)-1 {
			m.taskCursor++
		}
	case key.Matches(msg, m.keys.Up):
		if m.taskCursor > -1 {
			m.taskCursor--
		}
	case key.Matches(msg, m.keys.NewItem):
		return m, m.cmds.AddTask(p.ID)
	case msg.String() == "e":
		if m.taskCursor >= 0 && m.taskCursor < len(p.Tasks) {
			m.form = newTaskForm(p.ID, p.Tasks[m.taskCursor])
		} else {
			m.form = newProjectForm(m.store, p)
		}
		return m, m.form.Init()
	case key.Matches(msg, m.keys.CycleCategory):
		m.form = newCommentForm(p.ID, 0, "")
		return m, m.form.Init()
	case msg.String() == "J":
		if m.taskCursor >= 0 && m.taskCursor < len(p.Tasks)-1 {
			cmd := m.cmds.MoveTask(p.ID, m.taskCursor, m.taskCursor+1)
			m.taskCursor++
			return m, cmd
		}
	case msg.String() == "K":
		if m.taskCursor > 0 {
			cmd := m.cmds.MoveTask(p.ID, m.taskCursor, m.taskCursor-1)
			m.taskCursor--
			return m, cmd
		}
	case key.Matches(msg, m.keys.Transition):
		var target string
		switch p.Status {
		case model.StatusScheduled:
			target = model.StatusActive
		case model.StatusActive:
			target = model.StatusCompleted
		case model.StatusCompleted:
			target = model.StatusActive
		}
		return m.armTransition(p, target)
	case key.Matches(msg, m.keys.Pause):
		if p.Status == model.StatusActive {
			return m.armTransition(p, model.StatusScheduled)
		}
		m.store.TransitionArmed = ""
	case key.Matches(msg, m.keys.Delete):
		if !m.store.DeleteArmed {
			m.store.DeleteArmed = true
			return m, nil
		}
		m.store.DeleteArmed = false
		if m.taskCursor >= 0 && m.taskCursor < len(p.Tasks) {
			cmd := m.cmds.DeleteTask(p.Tasks[m.taskCursor].ID)
			m.clampCursors()
			return m, cmd
		}
		return m, m.cmds.DeleteProject(p.ID)
	}
	return m, nil
}

// armTransition runs the two-step status change: the first keypress
// arms the target, the second with the same target confirms it.
func (m Model) armTransition(p *model.Project, target string) (tea.Model, tea.Cmd) {
	if target == "" {
		m.store.TransitionArmed = ""
		return m, nil
	}
	if m.store.TransitionArmed != target {
		m.store.TransitionArmed = target
		return m, nil
	}
	m.store.TransitionArmed = ""
	return m, m.cmds.SetProjectStatus(p.ID, target)
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	posts := m.store.Data.Posts
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Sidebar):
		m.store.SidebarOpen = false
	case key.Matches(msg, m.keys.Down):
		if m.postCursor < len(posts)-1 {
			m.postCursor++
		}
	case key.Matches(msg, m.keys.Up):
		if m.postCursor > 0 {
			m.postCursor--
		}
	case key.Matches(msg, m.keys.Select):
		if m.postCursor < len(posts) {
			m.store.OpenPostID = posts[m.postCursor].ID
		}
	case key.Matches(msg, m.keys.NewItem):
		m.form = newPostForm(nil)
		return m, m.form.Init()
	case key.Matches(msg, m.keys.Delete):
		if m.postCursor >= len(posts) {
			return m, nil
		}
		if !m.store.DeleteArmed {
			m.store.DeleteArmed = true
			return m, nil
		}
		m.store.DeleteArmed = false
		return m, m.cmds.DeletePost(posts[m.postCursor].ID)
	}
	return m, nil
}

func (m Model) handlePostKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	post := m.store.Post(m.store.OpenPostID)
	if post == nil {
		m.store.OpenPostID = 0
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Back):
		m.store.OpenPostID = 0
	case msg.String() == "e":
		m.form = newPostForm(post)
		return m, m.form.Init()
	case key.Matches(msg, m.keys.Delete):
		if !m.store.DeleteArmed {
			m.store.DeleteArmed = true
			return m, nil
		}
		m.store.DeleteArmed = false
		return m, m.cmds.DeletePost(post.ID)
	}
	return m, nil
}

func (m Model) handleUsersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	users := m.store.Data.Users
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Users):
		m.usersOpen = false
	case key.Matches(msg, m.keys.Down):
		if m.userCursor < len(users)-1 {
			m.userCursor++
		}
	case key.Matches(msg, m.keys.Up):
		if m.userCursor > 0 {
			m.userCursor--
		}
	case key.Matches(msg, m.keys.Select):
		if m.userCursor < len(users) {
			m.usersOpen = false
			return m, m.cmds.SwitchUser(users[m.userCursor].ID)
		}
	case key.Matches(msg, m.keys.NewItem):
		m.form = newUserForm(nil)
		return m, m.form.Init()
	case msg.String() == "e":
		if m.userCursor < len(users) && !users[m.userCursor].IsTeam() {
			m.form = newUserForm(&users[m.userCursor])
			return m, m.form.Init()
		}
	case key.Matches(msg, m.keys.Delete):
		if m.userCursor >= len(users) || users[m.userCursor].IsTeam() {
			return m, nil
		}
		if !m.store.DeleteArmed {
			m.store.DeleteArmed = true
			return m, nil
		}
		m.store.DeleteArmed = false
		return m, m.cmds.DeleteUser(users[m.userCursor].ID)
	}
	return m, nil
}

// applyProjectForm turns a submitted project form into commands: one
// create call, or one field-level mutation per changed field.
func (m Model) applyProjectForm(msg projectFormMsg) tea.Cmd {
	if !msg.edit {
		np := api.NewProject{
			Name:      msg.name,
			UserID:    msg.userID,
			Priority:  msg.priority,
			Category:  msg.category,
			StartDate: msg.startDate,
			Deadline:  msg.deadline,
		}
		for _, content := range msg.tasks {
			np.Tasks = append(np.Tasks, api.NewTask{Content: content})
		}
		return m.cmds.CreateProject(np)
	}

	p := m.store.Project(msg.projectID)
	if p == nil {
		return nil
	}
	var cmds []tea.Cmd
	if msg.name != p.Name {
		cmds = append(cmds, m.cmds.RenameProject(p.ID, msg.name))
	}
	if !sameID(msg.userID, p.UserID) {
		cmds = append(cmds, m.cmds.SetProjectAssignee(p.ID, msg.userID))
	}
	if msg.priority != p.Priority {
		cmds = append(cmds, m.cmds.SetProjectPriority(p.ID, msg.priority))
	}
	if msg.category != p.Category && msg.category != "" {
		cmds = append(cmds, m.cmds.SetProjectCategory(p.ID, msg.category))
	}
	if !msg.startDate.Equal(p.StartDate) {
		cmds = append(cmds, m.cmds.SetProjectStartDate(p.ID, msg.startDate))
	}
	if !msg.deadline.Equal(p.Deadline) {
		cmds = append(cmds, m.cmds.SetProjectDeadline(p.ID, msg.deadline))
	}
	if len(p.Tasks) == 0 && msg.progress != p.Progress {
		cmds = append(cmds, m.cmds.SetProjectProgress(p.ID, msg.progress))
	}
	return tea.Batch(cmds...)
}

// applyTaskForm dispatches one mutation per changed task field.
func (m Model) applyTaskForm(msg taskFormMsg) tea.Cmd {
	_, t := m.store.TaskParent(msg.taskID)
	if t == nil {
		return nil
	}
	var cmds []tea.Cmd
	if msg.content != t.Content {
		cmds = append(cmds, m.cmds.EditTaskContent(msg.taskID, msg.content))
	}
	if !msg.deadline.Equal(t.Deadline) {
		cmds = append(cmds, m.cmds.EditTaskDeadline(msg.taskID, msg.deadline))
	}
	if msg.progress != t.Progress {
		cmds = append(cmds, m.cmds.EditTaskProgress(msg.taskID, msg.progress))
	}
	return tea.Batch(cmds...)
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// clampCursors pulls every cursor back inside the current snapshot
// after a rollback or refresh shrank a list.
func (m *Model) clampCursors() {
	if m.store.Project(m.boardCursor) == nil {
		m.boardCursor = moveCursor(m.store, m.boardCursor, 0)
	}
	if p := m.store.Project(m.store.OpenProjectID); p != nil {
		if m.taskCursor >= len(p.Tasks) {
			m.taskCursor = len(p.Tasks) - 1
		}
	}
	if m.postCursor >= len(m.store.Data.Posts) {
		m.postCursor = max(len(m.store.Data.Posts)-1, 0)
	}
	if m.userCursor >= len(m.store.Data.Users) {
		m.userCursor = max(len(m.store.Data.Users)-1, 0)
	}
}

// View renders the active screen with any overlay on top.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	now := m.now()
	var content string
	switch {
	case m.form != nil:
		content = m.layout.Overlay(m.form.View())
	case m.store.OpenPostID != 0:
		if p := m.store.Post(m.store.OpenPostID); p != nil {
			content = m.layout.Overlay(renderPost(p, m.store.DeleteArmed))
		}
	case m.usersOpen:
		content = m.layout.Overlay(renderUserPopup(m.store, m.userCursor, m.store.DeleteArmed))
	case m.store.SidebarOpen:
		content = m.layout.Overlay(renderSidebar(m.store, m.postCursor))
	case m.store.OpenProjectID != 0:
		if p := m.store.Project(m.store.OpenProjectID); p != nil {
			content = m.layout.Overlay(renderDetail(m.store, p, m.taskCursor, now))
		}
	default:
		switch m.view {
		case ViewBoard:
			content = renderBoard(m.store, m.boardCursor, m.layout.ContentWidth(), now)
		case ViewCalendar:
			content = renderCalendar(m.store, m.calCursor, m.legendFocus, now)
		case ViewChart:
			content = renderChart(m.store)
		}
	}

	status := m.toast.render()
	if status == "" {
		status = m.help.View(m.keys)
	}

	return m.layout.RenderWithFrame(
		m.layout.RenderHeader("Teamboard", userBadge(m.store)),
		content,
		m.layout.RenderStatusBar(status),
	)
}
