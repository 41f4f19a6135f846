package command

import (
	"context"
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwlee/teamboard/internal/api"
	"github.com/jwlee/teamboard/internal/model"
	"github.com/jwlee/teamboard/internal/state"
)

var errBackend = errors.New("backend says no")

// fakeGateway is a scripted Gateway. With fail set, every mutating
// call returns errBackend. Calls are logged as "method(args)" strings.
type fakeGateway struct {
	fail     bool
	fetch    model.Snapshot
	fetchErr error
	calls    []string
}

func (g *fakeGateway) record(format string, args ...interface{}) error {
	g.calls = append(g.calls, fmt.Sprintf(format, args...))
	if g.fail {
		return errBackend
	}
	return nil
}

func (g *fakeGateway) FetchData(context.Context) (*model.Snapshot, error) {
	if g.fetchErr != nil {
		return nil, g.fetchErr
	}
	snap := g.fetch
	return &snap, nil
}

func (g *fakeGateway) AddUser(_ context.Context, name, position string) (int64, error) {
	return 99, g.record("AddUser(%s,%s)", name, position)
}
func (g *fakeGateway) UpdateUser(_ context.Context, id int64, _ api.UserPatch) error {
	return g.record("UpdateUser(%d)", id)
}
func (g *fakeGateway) DeleteUser(_ context.Context, id int64) error {
	return g.record("DeleteUser(%d)", id)
}
func (g *fakeGateway) CreateProject(_ context.Context, p api.NewProject) (int64, error) {
	return 99, g.record("CreateProject(%s)", p.Name)
}
func (g *fakeGateway) UpdateProject(_ context.Context, id int64, _ api.ProjectPatch) error {
	return g.record("UpdateProject(%d)", id)
}
func (g *fakeGateway) DeleteProject(_ context.Context, id int64) error {
	return g.record("DeleteProject(%d)", id)
}
func (g *fakeGateway) SetProjectStatus(_ context.Context, id int64, status string) error {
	return g.record("SetProjectStatus(%d,%s)", id, status)
}
func (g *fakeGateway) AddTask(_ context.Context, projectID int64) (int64, error) {
	return 999, g.record("AddTask(%d)", projectID)
}
func (g *fakeGateway) UpdateTask(_ context.Context, id int64, _ api.TaskPatch) error {
	return g.record("UpdateTask(%d)", id)
}
func (g *fakeGateway) DeleteTask(_ context.Context, id int64) error {
	return g.record("DeleteTask(%d)", id)
}
func (g *fakeGateway) ReorderTasks(_ context.Context, ids []int64) error {
	return g.record("ReorderTasks(%v)", ids)
}
func (g *fakeGateway) AddComment(_ context.Context, projectID int64, author, content string) error {
	return g.record("AddComment(%d,%s)", projectID, author)
}
func (g *fakeGateway) UpdateComment(_ context.Context, id int64, _ string) error {
	return g.record("UpdateComment(%d)", id)
}
func (g *fakeGateway) DeleteComment(_ context.Context, id int64) error {
	return g.record("DeleteComment(%d)", id)
}
func (g *fakeGateway) CreatePost(_ context.Context, p api.NewPost) error {
	return g.record("CreatePost(%s)", p.Title)
}
func (g *fakeGateway) UpdatePost(_ context.Context, id int64, _ api.NewPost) error {
	return g.record("UpdatePost(%d)", id)
}
func (g *fakeGateway) DeletePost(_ context.Context, id int64) error {
	return g.record("DeletePost(%d)", id)
}
func (g *fakeGateway) MarkPostsRead(_ context.Context, userID int64) error {
	return g.record("MarkPostsRead(%d)", userID)
}
func (g *fakeGateway) CreateSchedule(_ context.Context, s api.NewSchedule) error {
	return g.record("CreateSchedule(%s)", s.Content)
}
func (g *fakeGateway) DeleteSchedule(_ context.Context, id int64) error {
	return g.record("DeleteSchedule(%d)", id)
}

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

func ptr(v int64) *int64 { return &v }

func fixture() model.Snapshot {
	return model.Snapshot{
		Users: []model.User{
			{ID: 1, Name: model.TeamUserName},
			{ID: 2, Name: "김철수", Position: "과장"},
			{ID: 3, Name: "이영희", Position: "대리"},
		},
		Projects: []model.Project{
			{
				ID: 10, Name: "백엔드 개편", UserID: ptr(2), Priority: 2,
				Category: "개발", Status: model.StatusActive, Progress: 75,
				Tasks: []model.Task{
					{ID: 100, Content: "스키마 설계", Progress: 50},
					{ID: 101, Content: "마이그레이션", Progress: 100},
				},
				Comments: []model.Comment{
					{ID: 200, AuthorName: "이영희", Content: "확인했습니다"},
				},
			},
			{ID: 11, Name: "워크숍", UserID: ptr(1), Priority: 1, Status: model.StatusScheduled},
			{ID: 12, Name: "보고서", UserID: ptr(3), Priority: 3, Status: model.StatusCompleted, Progress: 100},
		},
		Posts: []model.Post{
			{ID: 20, Title: "공지", Content: "내용", UserID: 2},
			{ID: 21, Title: "회식", Content: "금요일", UserID: 3},
		},
		Schedules:   []model.Schedule{{ID: 30, UserID: 2, UserName: "김철수", Content: "휴가"}},
		HasNewPosts: true,
	}
}

// newTestCommands builds a command layer over the fixture with user 2
// acting.
func newTestCommands(gw *fakeGateway) (*Commands, *state.Store) {
	s := state.New(memPrefs{})
	s.SetAppData(fixture())
	s.SetCurrentUser(s.User(2))
	return New(s, gw), s
}

// run executes a tea.Cmd synchronously.
func run(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	return cmd()
}

func TestRenameProjectAppliesOptimistically(t *testing.T) {
	gw := &fakeGateway{}
	c, s := newTestCommands(gw)

	cmd := c.RenameProject(10, "백엔드 v2")
	if s.Project(10).Name != "백엔드 v2" {
		t.Fatal("rename must apply before the gateway call")
	}
	if len(gw.calls) != 0 {
		t.Fatal("gateway must not be called synchronously")
	}

	msg := run(t, cmd)
	applied, ok := msg.(AppliedMsg)
	if !ok {
		t.Fatalf("got %T", msg)
	}
	if applied.Notice != "" {
		t.Errorf("field edits carry no success toast, got %q", applied.Notice)
	}
	if len(gw.calls) != 1 || gw.calls[0] != "UpdateProject(10)" {
		t.Errorf("calls = %v", gw.calls)
	}
}

func TestSetCategoryRollsBackOnFailure(t *testing.T) {
	gw := &fakeGateway{fail: true}
	c, s := newTestCommands(gw)

	cmd := c.SetProjectCategory(10, "인프라")
	if s.Project(10).Category != "인프라" {
		t.Fatal("optimistic apply missing")
	}

	msg := run(t, cmd)
	failed, ok := msg.(FailedMsg)
	if !ok {
		t.Fatalf("got %T", msg)
	}
	if !errors.Is(failed.Err, errBackend) {
		t.Errorf("err = %v", failed.Err)
	}

	c.Rollback(failed)
	if got := s.Project(10).Category; got != "개발" {
		t.Errorf("after rollback category = %q, want 개발", got)
	}
}

func TestSetCategoryRejectsSentinel(t *testing.T) {
	gw := &fakeGateway{}
	c, s := newTestCommands(gw)
	if cmd := c.SetProjectCategory(10, model.CategoryAll); cmd != nil {
		t.Fatal("the no-filter sentinel must never become a stored category")
	}
	if s.Project(10).Category != "개발" {
		t.Fatal("state must be untouched")
	}
}

func TestNoopEditsReturnNoCommand(t *testing.T) {
	gw := &fakeGateway{}
	c, _ := newTestCommands(gw)

	if c.RenameProject(10, "백엔드 개편") != nil {
		t.Error("same name is a no-op")
	}
	if c.RenameProject(10, "   ") != nil {
		t.Error("blank name is rejected")
	}
	if c.SetProjectPriority(10, 2) != nil {
		t.Error("same priority is a no-op")
	}
	if c.SetProjectPriority(10, 7) != nil {
		t.Error("out-of-range priority is rejected")
	}
	if c.RenameProject(404, "유령") != nil {
		t.Error("unknown project is a no-op")
	}
	if len(gw.calls) != 0 {
		t.Errorf("no-ops must not reach the gateway: %v", gw.calls)
	}
}

func TestStatusMachineRejectsUnexposedEdges(t *testing.T) {
	gw := &fakeGateway{}
	c, s := newTestCommands(gw)

	// completed → scheduled is not an edge.
	if c.SetProjectStatus(12, model.StatusScheduled) != nil {
		t.Fatal("completed→scheduled must be rejected")
	}
	// scheduled → completed is not an edge.
	if c.SetProjectStatus(11, model.StatusCompleted) != nil {
		t.Fatal("scheduled→completed must be rejected")
	}
	if s.Project(12).Status != model.StatusCompleted {
		t.Fatal("state must be untouched")
	}

	cmd := c.SetProjectStatus(12, model.StatusActive)
	if s.Project(12).Status != model.StatusActive {
		t.Fatal("completed→active is a valid edge")
	}
	if _, ok := run(t, cmd).(AppliedMsg); !ok {
		t.Fatal("expected confirmation")
	}
}

func TestStatusRollback(t *testing.T) {
	gw := &fakeGateway{fail: true}
	c, s := newTestCommands(gw)

	cmd := c.SetProjectStatus(11, model.StatusActive)
	failed := run(t, cmd).(FailedMsg)
	c.Rollback(failed)
	if got := s.Project(11).Status; got != model.StatusScheduled {
		t.Errorf("status = %s, want scheduled back", got)
	}
}

func TestDeleteProjectRollbackKeepsPosition(t *testing.T) {
	gw := &fakeGateway{fail: true}
	c, s := newTestCommands(gw)
	s.OpenProjectID = 11

	cmd := c.DeleteProject(11)
	if len(s.Data.Projects) != 2 {
		t.Fatal("optimistic removal missing")
	}
	if s.OpenProjectID != 0 {
		t.Fatal("deleting the open project must close its modal")
	}

	failed := run(t, cmd).(FailedMsg)
	c.Rollback(failed)

	ids := make([]int64, len(s.Data.Projects))
	for i, p := range s.Data.Projects {
		ids[i] = p.ID
	}
	want := []int64{10, 11, 12}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("order after rollback = %v, want %v", ids, want)
		}
	}
}

func TestDeleteProjectRollbackSurvivesShrunkSnapshot(t *testing.T) {
	gw := &fakeGateway{fail: true}
	c, s := newTestCommands(gw)

	failed := run(t, c.DeleteProject(12)).(FailedMsg)

	// A refresh lands while the delete is in flight and installs a
	// shorter list than the one the delete spliced.
	shrunk := fixture()
	shrunk.Projects = shrunk.Projects[:1]
	c.ApplySnapshot(shrunk)

	c.Rollback(failed)
	if s.Project(12) == nil {
		t.Fatal("rollback must restore the deleted project")
	}
	if len(s.Data.Projects) != 2 {
		t.Errorf("projects = %d, want 2", len(s.Data.Projects))
	}
}

func TestDeleteProjectSuccessToast(t *testing.T) {
	gw := &fakeGateway{}
	c, _ := newTestCommands(gw)
	applied := run(t, c.DeleteProject(11)).(AppliedMsg)
	if applied.Notice != "Project deleted" {
		t.Errorf("notice = %q", applied.Notice)
	}
}

func TestEditTaskProgressRecomputesAggregate(t *testing.T) {
	gw := &fakeGateway{}
	c, s := newTestCommands(gw)

	cmd := c.EditTaskProgress(100, 100)
	p := s.Project(10)
	if p.Tasks[0].Progress != 100 {
		t.Fatal("task progress not applied")
	}
	if p.Progress != 100 {
		t.Fatalf("aggregate = %d, want 100", p.Progress)
	}

	run(t, cmd)
	// Both the task PUT and the recomputed project PUT ride the same
	// command.
	if len(gw.calls) != 2 || gw.calls[0] != "UpdateTask(100)" || gw.calls[1] != "UpdateProject(10)" {
		t.Errorf("calls = %v", gw.calls)
	}
}

func TestEditTaskProgressJointRollback(t *testing.T) {
	gw := &fakeGateway{fail: true}
	c, s := newTestCommands(gw)

	failed := run(t, c.EditTaskProgress(100, 100)).(FailedMsg)
	c.Rollback(failed)

	p := s.Project(10)
	if p.Tasks[0].Progress != 50 || p.Progress != 75 {
		t.Errorf("after rollback task=%d project=%d, want 50/75",
			p.Tasks[0].Progress, p.Progress)
	}
}

func TestDeleteLastTaskResetsAggregate(t *testing.T) {
	gw := &fakeGateway{}
	c, s := newTestCommands(gw)

	run(t, c.DeleteTask(100))
	run(t, c.DeleteTask(101))
	p := s.Project(10)
	if len(p.Tasks) != 0 {
		t.Fatal("tasks not removed")
	}
	if p.Progress != 0 {
		t.Errorf("losing the last task must reset progress, got %d", p.Progress)
	}
}

func TestDeleteTaskRollbackRestoresAggregate(t *testing.T) {
	gw := &fakeGateway{fail: true}
	c, s := newTestCommands(gw)

	failed := run(t, c.DeleteTask(101)).(FailedMsg)
	c.Rollback(failed)

	p := s.Project(10)
	if len(p.Tasks) != 2 || p.Tasks[1].ID != 101 {
		t.Fatalf("tasks after rollback = %+v", p.Tasks)
	}
	if p.Progress != 75 {
		t.Errorf("aggregate = %d, want 75", p.Progress)
	}
}

func TestOverlappingTaskDeleteRollbacks(t *testing.T) {
	gw := &fakeGateway{fail: true}
	c, s := newTestCommands(gw)

	cmdA := c.DeleteTask(101)
	cmdB := c.DeleteTask(100)
	if len(s.Project(10).Tasks) != 0 {
		t.Fatal("both deletes must apply optimistically")
	}

	c.Rollback(run(t, cmdA).(FailedMsg))
	c.Rollback(run(t, cmdB).(FailedMsg))

	p := s.Project(10)
	if len(p.Tasks) != 2 || p.Tasks[0].ID != 100 || p.Tasks[1].ID != 101 {
		t.Fatalf("tasks after rollbacks = %+v", p.Tasks)
	}
}

func TestMoveTaskSendsFullOrderAndRollsBack(t *testing.T) {
	gw := &fakeGateway{fail: true}
	c, s := newTestCommands(gw)

	cmd := c.MoveTask(10, 0, 1)
	p := s.Project(10)
	if p.Tasks[0].ID != 101 || p.Tasks[1].ID != 100 {
		t.Fatalf("optimistic order = %d,%d", p.Tasks[0].ID, p.Tasks[1].ID)
	}

	failed := run(t, cmd).(FailedMsg)
	if gw.calls[0] != "ReorderTasks([101 100])" {
		t.Errorf("payload = %v", gw.calls)
	}

	// Failure restores the retained prior order without refetching.
	c.Rollback(failed)
	if p.Tasks[0].ID != 100 || p.Tasks[1].ID != 101 {
		t.Fatalf("order after rollback = %d,%d", p.Tasks[0].ID, p.Tasks[1].ID)
	}
}

func TestStaleFailureSkipsRollback(t *testing.T) {
	gw := &fakeGateway{fail: true}
	c, s := newTestCommands(gw)

	// First write fails slowly; a second write to the same field lands
	// in the meantime.
	slow := c.RenameProject(10, "버전2")
	gw.fail = false
	fast := c.RenameProject(10, "버전3")

	fastMsg := run(t, fast)
	if _, ok := fastMsg.(AppliedMsg); !ok {
		t.Fatalf("fast write: got %T", fastMsg)
	}

	slowMsg := run(t, slow).(FailedMsg)
	c.Rollback(slowMsg)
	if got := s.Project(10).Name; got != "버전3" {
		t.Errorf("stale rollback clobbered the newer write: %q", got)
	}
}

func TestMarkPostsReadRollback(t *testing.T) {
	gw := &fakeGateway{fail: true}
	c, s := newTestCommands(gw)

	cmd := c.MarkPostsRead()
	if s.Data.HasNewPosts {
		t.Fatal("flag must clear optimistically")
	}
	failed := run(t, cmd).(FailedMsg)
	c.Rollback(failed)
	if !s.Data.HasNewPosts {
		t.Error("flag must return on failure")
	}
	// Idempotent: with the flag clear nothing happens.
	s.Data.HasNewPosts = false
	if c.MarkPostsRead() != nil {
		t.Error("no-op when nothing is unread")
	}
}

func TestEditCommentRollback(t *testing.T) {
	gw := &fakeGateway{fail: true}
	c, s := newTestCommands(gw)

	failed := run(t, c.EditComment(10, 200, "수정본")).(FailedMsg)
	c.Rollback(failed)
	if got := s.Project(10).Comments[0].Content; got != "확인했습니다" {
		t.Errorf("comment after rollback = %q", got)
	}
}

func TestCreateProjectRefreshesSnapshot(t *testing.T) {
	refreshed := fixture()
	refreshed.Projects = append(refreshed.Projects, model.Project{ID: 99, Name: "신규"})
	gw := &fakeGateway{fetch: refreshed}
	c, s := newTestCommands(gw)

	before := len(s.Data.Projects)
	cmd := c.CreateProject(api.NewProject{Name: "신규", Priority: 2})
	if len(s.Data.Projects) != before {
		t.Fatal("creations are not optimistic; ids are server-assigned")
	}

	msg := run(t, cmd)
	snap, ok := msg.(SnapshotMsg)
	if !ok {
		t.Fatalf("got %T", msg)
	}
	c.ApplySnapshot(snap.Snap)
	if s.Project(99) == nil {
		t.Error("refreshed snapshot must carry the new project")
	}
}

func TestAddTaskReturnsFocusTarget(t *testing.T) {
	refreshed := fixture()
	refreshed.Projects[0].Tasks = append(refreshed.Projects[0].Tasks, model.Task{ID: 999})
	gw := &fakeGateway{fetch: refreshed}
	c, _ := newTestCommands(gw)

	msg := run(t, c.AddTask(10))
	added, ok := msg.(TaskAddedMsg)
	if !ok {
		t.Fatalf("got %T", msg)
	}
	if added.TaskID != 999 {
		t.Errorf("task id = %d", added.TaskID)
	}
}

func TestAddUserRefreshSelectsNewcomer(t *testing.T) {
	refreshed := fixture()
	refreshed.Users = append(refreshed.Users, model.User{ID: 99, Name: "박신입"})
	gw := &fakeGateway{fetch: refreshed}
	c, s := newTestCommands(gw)

	s.Calendar.SelectedUsers = map[int64]bool{1: true, 2: true}

	snap := run(t, c.AddUser("박신입", "사원")).(SnapshotMsg)
	c.ApplySnapshot(snap.Snap)
	if !s.Calendar.SelectedUsers[99] {
		t.Error("new user must be calendar-selected after the refresh")
	}
}

func TestDeleteUserFallsBackToFirstRemaining(t *testing.T) {
	refreshed := fixture()
	refreshed.Users = refreshed.Users[:2] // user 3 gone
	gw := &fakeGateway{fetch: refreshed}
	c, s := newTestCommands(gw)
	s.SetCurrentUser(s.User(3))

	snap := run(t, c.DeleteUser(3)).(SnapshotMsg)
	if snap.Notice != "User deleted" {
		t.Errorf("notice = %q", snap.Notice)
	}
	c.ApplySnapshot(snap.Snap)

	current := s.CurrentUser()
	if current == nil || current.ID != 1 {
		t.Errorf("current after delete = %+v, want fallback to first user", current)
	}
	if id, ok := s.SavedUserID(); !ok || id != 1 {
		t.Errorf("fallback must persist, saved = %d %v", id, ok)
	}
}

func TestDeleteUserSentinelExempt(t *testing.T) {
	gw := &fakeGateway{}
	c, _ := newTestCommands(gw)
	if c.DeleteUser(1) != nil {
		t.Fatal("team sentinel must not be deletable")
	}
	if c.RenameUser(1, "다른이름") != nil {
		t.Fatal("team sentinel must not be renamable")
	}
}

func TestRenameUserSyncsActingCopy(t *testing.T) {
	gw := &fakeGateway{}
	c, s := newTestCommands(gw)

	run(t, c.RenameUser(2, "김철수2"))
	if got := s.CurrentUser().Name; got != "김철수2" {
		t.Errorf("acting copy = %q, must mirror the edit", got)
	}
}

func TestSwitchUserPersistsAndRefetches(t *testing.T) {
	gw := &fakeGateway{fetch: fixture()}
	c, s := newTestCommands(gw)

	cmd := c.SwitchUser(3)
	if got := s.CurrentUser(); got == nil || got.ID != 3 {
		t.Fatalf("current = %+v", got)
	}
	if id, _ := s.SavedUserID(); id != 3 {
		t.Errorf("saved id = %d", id)
	}
	// Unread state is per-user, so the snapshot is refetched.
	if _, ok := run(t, cmd).(SnapshotMsg); !ok {
		t.Error("expected a snapshot refetch")
	}
	// Switching to the acting user is a no-op.
	if c.SwitchUser(3) != nil {
		t.Error("no-op switch")
	}
}

func TestApplySnapshotClosesVanishedModals(t *testing.T) {
	gw := &fakeGateway{}
	c, s := newTestCommands(gw)
	s.OpenProjectID = 10
	s.OpenPostID = 20

	smaller := fixture()
	smaller.Projects = smaller.Projects[1:]
	smaller.Posts = smaller.Posts[1:]
	c.ApplySnapshot(smaller)

	if s.OpenProjectID != 0 {
		t.Error("open project vanished server-side; modal must close")
	}
	if s.OpenPostID != 0 {
		t.Error("open post vanished server-side; modal must close")
	}
}

func TestCreateScheduleValidation(t *testing.T) {
	gw := &fakeGateway{fetch: fixture()}
	c, s := newTestCommands(gw)

	day, _ := model.ParseDate("2026-03-10")
	if c.CreateSchedule(model.Date{}, "휴가", model.SchedulePersonal) != nil {
		t.Error("dateless schedule rejected")
	}
	if c.CreateSchedule(day, "  ", model.SchedulePersonal) != nil {
		t.Error("blank content rejected")
	}

	s.SetCurrentUser(nil)
	if c.CreateSchedule(day, "휴가", model.SchedulePersonal) != nil {
		t.Error("no acting user, no schedule")
	}
	s.SetCurrentUser(s.User(2))

	run(t, c.CreateSchedule(day, "휴가", "bogus-type"))
	if gw.calls[len(gw.calls)-1] != "CreateSchedule(휴가)" {
		t.Errorf("calls = %v", gw.calls)
	}
}

func TestDeleteScheduleRollback(t *testing.T) {
	gw := &fakeGateway{fail: true}
	c, s := newTestCommands(gw)

	failed := run(t, c.DeleteSchedule(30)).(FailedMsg)
	if len(s.Data.Schedules) != 0 {
		t.Fatal("optimistic removal missing")
	}
	c.Rollback(failed)
	if len(s.Data.Schedules) != 1 || s.Data.Schedules[0].ID != 30 {
		t.Errorf("schedules after rollback = %+v", s.Data.Schedules)
	}
}

func TestDeletePostClosesOwnModal(t *testing.T) {
	gw := &fakeGateway{}
	c, s := newTestCommands(gw)
	s.OpenPostID = 21

	applied := run(t, c.DeletePost(21)).(AppliedMsg)
	if applied.Notice != "Post deleted" {
		t.Errorf("notice = %q", applied.Notice)
	}
	if s.OpenPostID != 0 {
		t.Error("deleting the open post must close its view")
	}
}
