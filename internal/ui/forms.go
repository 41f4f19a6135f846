package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/jwlee/teamboard/internal/model"
	"github.com/jwlee/teamboard/internal/state"
	"github.com/jwlee/teamboard/internal/theme"
)

// Form result messages, handled by the root model.

type projectFormMsg struct {
	edit      bool
	projectID int64
	name      string
	userID    *int64
	priority  int
	category  string
	startDate model.Date
	deadline  model.Date
	progress  int
	tasks     []string
}

type taskFormMsg struct {
	projectID int64
	taskID    int64
	content   string
	deadline  model.Date
	progress  int
}

type commentFormMsg struct {
	projectID int64
	commentID int64
	edit      bool
	content   string
}

type postFormMsg struct {
	edit    bool
	postID  int64
	title   string
	content string
}

type scheduleFormMsg struct {
	date    model.Date
	content string
	typ     string
}

type userFormMsg struct {
	edit     bool
	userID   int64
	name     string
	position string
}

type formCancelMsg struct{}

// formModel wraps one huh form together with the closure that turns its
// bindings into a result message. Bindings live on the heap so huh's
// Value() pointers survive Bubble Tea model copies.
type formModel struct {
	form   *huh.Form
	title  string
	submit func() tea.Msg
}

func (f *formModel) Init() tea.Cmd {
	return f.form.Init()
}

func (f *formModel) Update(msg tea.Msg) tea.Cmd {
	mdl, cmd := f.form.Update(msg)
	if hf, ok := mdl.(*huh.Form); ok {
		f.form = hf
	}
	if f.form.State == huh.StateCompleted {
		submit := f.submit
		return func() tea.Msg { return submit() }
	}
	if f.form.State == huh.StateAborted {
		return func() tea.Msg { return formCancelMsg{} }
	}
	return cmd
}

func (f *formModel) View() string {
	return theme.ModalStyle.Render(
		theme.SectionTitleStyle.Render(f.title) + "\n" + f.form.View())
}

type projectBindings struct {
	name     string
	userID   int64
	priority int
	category string
	start    string
	deadline string
	progress string
	tasks    string
}

// newProjectForm builds the create/edit form for a project. In edit
// mode the bindings are seeded from p and the initial-tasks field is
// omitted.
func newProjectForm(s *state.Store, p *model.Project) *formModel {
	fb := &projectBindings{priority: model.PriorityMedium}
	edit := p != nil
	var projectID int64
	if edit {
		projectID = p.ID
		fb.name = p.Name
		fb.priority = p.Priority
		fb.category = p.Category
		fb.start = p.StartDate.String()
		fb.deadline = p.Deadline.String()
		fb.progress = strconv.Itoa(p.Progress)
		if p.UserID != nil {
			fb.userID = *p.UserID
		}
	}

	userOpts := []huh.Option[int64]{huh.NewOption("미지정", int64(0))}
	for _, u := range s.Data.Users {
		userOpts = append(userOpts, huh.NewOption(u.Name, u.ID))
	}

	fields := []huh.Field{
		huh.NewInput().
			Title("Name").
			Value(&fb.name).
			Validate(validateRequired("name")),
		huh.NewSelect[int64]().
			Title("Assignee").
			Options(userOpts...).
			Value(&fb.userID),
		huh.NewSelect[int]().
			Title("Priority").
			Options(
				huh.NewOption("P1 - High", model.PriorityHigh),
				huh.NewOption("P2 - Medium", model.PriorityMedium),
				huh.NewOption("P3 - Low", model.PriorityLow),
			).
			Value(&fb.priority),
		huh.NewInput().
			Title("Category").
			Value(&fb.category),
		huh.NewInput().
			Title("Start date").
			Placeholder("YYYY-MM-DD (optional)").
			Value(&fb.start).
			Validate(validateOptionalDate),
		huh.NewInput().
			Title("Deadline").
			Placeholder("YYYY-MM-DD (optional)").
			Value(&fb.deadline).
			Validate(validateOptionalDate),
	}
	if edit && len(p.Tasks) == 0 {
		fields = append(fields, huh.NewInput().
			Title("Progress").
			Placeholder("0-100").
			Value(&fb.progress).
			Validate(validateOptionalInt))
	}
	if !edit {
		fields = append(fields, huh.NewText().
			Title("Initial tasks").
			Placeholder("one per line (optional)").
			Value(&fb.tasks))
	}

	title := "New Project"
	if edit {
		title = "Edit Project"
	}
	return &formModel{
		title: title,
		form:  huh.NewForm(huh.NewGroup(fields...)),
		submit: func() tea.Msg {
			msg := projectFormMsg{
				edit:      edit,
				projectID: projectID,
				name:      strings.TrimSpace(fb.name),
				priority:  fb.priority,
				category:  strings.TrimSpace(fb.category),
				startDate: parseDateOrZero(fb.start),
				deadline:  parseDateOrZero(fb.deadline),
				progress:  parseIntOrZero(fb.progress),
			}
			if fb.userID != 0 {
				id := fb.userID
				msg.userID = &id
			}
			for _, line := range strings.Split(fb.tasks, "\n") {
				if line = strings.TrimSpace(line); line != "" {
					msg.tasks = append(msg.tasks, line)
				}
			}
			return msg
		},
	}
}

// textLines sizes a textarea to the line count of its seeded content,
// clamped to 3..10, so multi-line tasks open fully visible.
func textLines(content string) int {
	n := strings.Count(content, "\n") + 1
	if n < 3 {
		n = 3
	}
	if n > 10 {
		n = 10
	}
	return n
}

type taskBindings struct {
	content  string
	deadline string
	progress string
}

// newTaskForm builds the edit form for one task.
func newTaskForm(projectID int64, t model.Task) *formModel {
	fb := &taskBindings{
		content:  t.Content,
		deadline: t.Deadline.String(),
		progress: strconv.Itoa(t.Progress),
	}
	return &formModel{
		title: "Edit Task",
		form: huh.NewForm(huh.NewGroup(
			huh.NewText().
				Title("Content").
				Lines(textLines(fb.content)).
				Value(&fb.content),
			huh.NewInput().
				Title("Deadline").
				Placeholder("YYYY-MM-DD (optional)").
				Value(&fb.deadline).
				Validate(validateOptionalDate),
			huh.NewInput().
				Title("Progress").
				Placeholder("0-100").
				Value(&fb.progress).
				Validate(validateOptionalInt),
		)),
		submit: func() tea.Msg {
			return taskFormMsg{
				projectID: projectID,
				taskID:    t.ID,
				content:   fb.content,
				deadline:  parseDateOrZero(fb.deadline),
				progress:  parseIntOrZero(fb.progress),
			}
		},
	}
}

// newCommentForm builds the add/edit form for a project comment.
func newCommentForm(projectID, commentID int64, content string) *formModel {
	fb := &struct{ content string }{content: content}
	edit := commentID != 0
	title := "New Comment"
	if edit {
		title = "Edit Comment"
	}
	return &formModel{
		title: title,
		form: huh.NewForm(huh.NewGroup(
			huh.NewText().
				Title("Comment").
				Value(&fb.content).
				Validate(validateRequired("comment")),
		)),
		submit: func() tea.Msg {
			return commentFormMsg{
				projectID: projectID,
				commentID: commentID,
				edit:      edit,
				content:   strings.TrimSpace(fb.content),
			}
		},
	}
}

type postBindings struct {
	title   string
	content string
}

// newPostForm builds the compose/edit form for a bulletin post.
func newPostForm(p *model.Post) *formModel {
	fb := &postBindings{}
	edit := p != nil
	var postID int64
	if edit {
		postID = p.ID
		fb.title = p.Title
		fb.content = p.Content
	}
	title := "New Post"
	if edit {
		title = "Edit Post"
	}
	return &formModel{
		title: title,
		form: huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&fb.title).
				Validate(validateRequired("title")),
			huh.NewText().
				Title("Content").
				Value(&fb.content).
				Validate(validateRequired("content")),
		)),
		submit: func() tea.Msg {
			return postFormMsg{
				edit:    edit,
				postID:  postID,
				title:   strings.TrimSpace(fb.title),
				content: strings.TrimSpace(fb.content),
			}
		},
	}
}

type scheduleBindings struct {
	content string
	typ     string
}

// newScheduleForm builds the new-schedule form for a calendar date.
func newScheduleForm(date time.Time) *formModel {
	fb := &scheduleBindings{typ: model.SchedulePersonal}
	day := model.DateOf(date)
	return &formModel{
		title: "New Schedule (" + day.String() + ")",
		form: huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Content").
				Value(&fb.content).
				Validate(validateRequired("content")),
			huh.NewSelect[string]().
				Title("Type").
				Options(
					huh.NewOption("개인", model.SchedulePersonal),
					huh.NewOption("팀", model.ScheduleTeam),
					huh.NewOption("회사", model.ScheduleCompany),
				).
				Value(&fb.typ),
		)),
		submit: func() tea.Msg {
			return scheduleFormMsg{
				date:    day,
				content: strings.TrimSpace(fb.content),
				typ:     fb.typ,
			}
		},
	}
}

type userBindings struct {
	name     string
	position string
}

// newUserForm builds the add/edit form for a user.
func newUserForm(u *model.User) *formModel {
	fb := &userBindings{}
	edit := u != nil
	var userID int64
	if edit {
		userID = u.ID
		fb.name = u.Name
		fb.position = u.Position
	}
	title := "New User"
	if edit {
		title = "Edit User"
	}
	return &formModel{
		title: title,
		form: huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&fb.name).
				Validate(validateRequired("name")),
			huh.NewInput().
				Title("Position").
				Value(&fb.position),
		)),
		submit: func() tea.Msg {
			return userFormMsg{
				edit:     edit,
				userID:   userID,
				name:     strings.TrimSpace(fb.name),
				position: strings.TrimSpace(fb.position),
			}
		},
	}
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validateOptionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("invalid date, use YYYY-MM-DD")
	}
	return nil
}

func validateOptionalInt(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 100 {
		return fmt.Errorf("enter a number between 0 and 100")
	}
	return nil
}

// parseDateOrZero is only reached after the field validator accepted
// the input, so the error can't fire.
func parseDateOrZero(s string) model.Date {
	d, _ := model.ParseDate(strings.TrimSpace(s))
	return d
}

func parseIntOrZero(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}
