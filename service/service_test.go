package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ncobase/staffing/config"
	"github.com/ncobase/staffing/data"
	"github.com/ncobase/staffing/data/memory"
	"github.com/ncobase/staffing/data/repository"
	"github.com/ncobase/staffing/ecode"
	"github.com/ncobase/staffing/logging/logger"
	"github.com/ncobase/staffing/messaging/email"
	"github.com/ncobase/staffing/structs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to       string
	template email.Template
}

type mailbox struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *mailbox) SendTemplateEmail(to string, tmpl email.Template) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.sent = append(m.sent, sentMail{to: to, template: tmpl})
	return "msg-1", nil
}

func (m *mailbox) last() sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}

func newTestData() *data.Data {
	return &data.Data{
		TaskRepo:    memory.NewTaskRepository(),
		StaffRepo:   memory.NewStaffRepository(),
		RequestRepo: memory.NewRequestRepository(),
		ManagerRepo: memory.NewManagerRepository(),
	}
}

func newTestService(t *testing.T, d *data.Data) (*Service, *mailbox) {
	t.Helper()
	cfg := config.Default()
	cfg.Auth.JWT.Secret = "test-secret"
	box := &mailbox{}
	return NewService(cfg, d, nil, box, logger.NewNop()), box
}

func seedTask(t *testing.T, d *data.Data, id string, skills ...string) {
	t.Helper()
	_, err := d.TaskRepo.Create(context.Background(), &structs.Task{
		TaskID:         id,
		ProjectID:      "p1",
		TaskName:       "Task " + id,
		StartDate:      "2024-01-01",
		EndDate:        "2024-01-10",
		RequiredSkills: skills,
		Status:         structs.TaskStatusOpen,
	})
	require.NoError(t, err)
}

func seedStaff(t *testing.T, d *data.Data, email string, skills ...string) {
	t.Helper()
	_, err := d.StaffRepo.Create(context.Background(), &structs.StaffProfile{
		Email:      email,
		Name:       "Staff " + email,
		Skills:     skills,
		IsVerified: true,
	})
	require.NoError(t, err)
}

func assertCode(t *testing.T, err error, code int) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, ecode.Is(err, code), "want code %d, got %v", code, err)
}

func TestCreateTask(t *testing.T) {
	d := newTestData()
	svc, _ := newTestService(t, d)
	ctx := context.Background()

	body := &structs.CreateTaskBody{
		TaskID:         "T1",
		ProjectID:      "P1",
		TaskName:       "Build",
		StartDate:      "2024-01-01",
		EndDate:        "2024-01-10",
		RequiredSkills: []string{"go"},
	}
	task, err := svc.Task.CreateTask(ctx, body)
	require.NoError(t, err)
	assert.Equal(t, structs.TaskStatusOpen, task.Status)

	_, err = svc.Task.CreateTask(ctx, body)
	assertCode(t, err, ecode.Conflict)

	bad := *body
	bad.TaskID = "T2"
	bad.EndDate = "2024-01-01"
	_, err = svc.Task.CreateTask(ctx, &bad)
	assertCode(t, err, ecode.ParamErr)
}

func TestCreateRequestConflict(t *testing.T) {
	d := newTestData()
	svc, _ := newTestService(t, d)
	ctx := context.Background()
	seedTask(t, d, "T1", "go")

	req, err := svc.Request.CreateRequest(ctx, "T1", "a@x.io")
	require.NoError(t, err)
	assert.Equal(t, structs.RequestStatusPending, req.Status)
	assert.NotEmpty(t, req.ID)

	_, err = svc.Request.CreateRequest(ctx, "T1", "a@x.io")
	assertCode(t, err, ecode.Conflict)
	_, err = svc.Request.CreateRequest(ctx, "T1", "b@x.io")
	assertCode(t, err, ecode.Conflict)

	_, err = svc.Request.CreateRequest(ctx, "missing", "a@x.io")
	assertCode(t, err, ecode.NotFound)
}

func TestCreateRequestConcurrent(t *testing.T) {
	d := newTestData()
	svc, _ := newTestService(t, d)
	seedTask(t, d, "T1")

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			email := string(rune('a'+i)) + "@x.io"
			if _, err := svc.Request.CreateRequest(context.Background(), "T1", email); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, ok)
}

func TestAssignStaff(t *testing.T) {
	d := newTestData()
	svc, _ := newTestService(t, d)
	ctx := context.Background()
	seedTask(t, d, "T2", "go")
	seedStaff(t, d, "b@x.io", "go")

	req, err := svc.Task.AssignStaff(ctx, "T2", "b@x.io")
	require.NoError(t, err)
	assert.Equal(t, structs.RequestStatusAssigned, req.Status)

	task, err := d.TaskRepo.Get(ctx, "T2")
	require.NoError(t, err)
	assert.Equal(t, structs.TaskStatusAssigned, task.Status)

	_, err = svc.Request.CreateRequest(ctx, "T2", "c@x.io")
	assertCode(t, err, ecode.Conflict)

	_, err = svc.Task.AssignStaff(ctx, "T2", "b@x.io")
	assertCode(t, err, ecode.Conflict)
}

func TestAssignStaffUpdatesExistingRequest(t *testing.T) {
	d := newTestData()
	svc, _ := newTestService(t, d)
	ctx := context.Background()
	seedTask(t, d, "T1")
	seedStaff(t, d, "a@x.io")

	pending, err := svc.Request.CreateRequest(ctx, "T1", "a@x.io")
	require.NoError(t, err)

	assigned, err := svc.Task.AssignStaff(ctx, "T1", "a@x.io")
	require.NoError(t, err)
	assert.Equal(t, pending.ID, assigned.ID)

	all, err := d.RequestRepo.List(ctx, repository.RequestFilter{TaskID: "T1"})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, structs.RequestStatusAssigned, all[0].Status)
}

func TestAssignStaffPreconditions(t *testing.T) {
	d := newTestData()
	svc, _ := newTestService(t, d)
	ctx := context.Background()
	seedTask(t, d, "T1")

	_, err := svc.Task.AssignStaff(ctx, "missing", "a@x.io")
	assertCode(t, err, ecode.NotFound)

	_, err = svc.Task.AssignStaff(ctx, "T1", "nobody@x.io")
	assertCode(t, err, ecode.NotFound)

	task, err := d.TaskRepo.Get(ctx, "T1")
	require.NoError(t, err)
	assert.True(t, task.IsOpen())
}

type failingRequests struct {
	repository.RequestRepository
}

func (failingRequests) Create(context.Context, *structs.Request) (*structs.Request, error) {
	return nil, errors.New("write failed")
}

func TestAssignStaffReopensTaskOnFailure(t *testing.T) {
	d := newTestData()
	d.RequestRepo = failingRequests{memory.NewRequestRepository()}
	svc, _ := newTestService(t, d)
	ctx := context.Background()
	seedTask(t, d, "T1")
	seedStaff(t, d, "a@x.io")

	_, err := svc.Task.AssignStaff(ctx, "T1", "a@x.io")
	assertCode(t, err, ecode.ServerErr)

	task, err := d.TaskRepo.Get(ctx, "T1")
	require.NoError(t, err)
	assert.True(t, task.IsOpen())
}

func TestDecideRequest(t *testing.T) {
	d := newTestData()
	svc, _ := newTestService(t, d)
	ctx := context.Background()
	seedTask(t, d, "T1")

	_, err := svc.Request.DecideRequest(ctx, "T3", "c@x.io", "approve")
	assertCode(t, err, ecode.NotFound)

	_, err = svc.Request.CreateRequest(ctx, "T1", "a@x.io")
	require.NoError(t, err)

	req, err := svc.Request.DecideRequest(ctx, "T1", "a@x.io", "approve")
	require.NoError(t, err)
	assert.Equal(t, structs.RequestStatusApproved, req.Status)

	// Approval keeps the claim and leaves the task open.
	task, err := d.TaskRepo.Get(ctx, "T1")
	require.NoError(t, err)
	assert.True(t, task.IsOpen())
	_, err = svc.Request.CreateRequest(ctx, "T1", "b@x.io")
	assertCode(t, err, ecode.Conflict)

	_, err = svc.Request.DecideRequest(ctx, "T1", "a@x.io", "reject")
	assertCode(t, err, ecode.Conflict)
}

type untouchedRequests struct {
	repository.RequestRepository
	t *testing.T
}

func (r untouchedRequests) FindByTaskAndEmail(context.Context, string, string) (*structs.Request, error) {
	r.t.Fatal("request store read before the action was validated")
	return nil, nil
}

type untouchedTasks struct {
	repository.TaskRepository
	t *testing.T
}

func (r untouchedTasks) Get(context.Context, string) (*structs.Task, error) {
	r.t.Fatal("task store read before the action was validated")
	return nil, nil
}

func TestDecideRequestRejectsActionFirst(t *testing.T) {
	d := newTestData()
	d.RequestRepo = untouchedRequests{RequestRepository: d.RequestRepo, t: t}
	d.TaskRepo = untouchedTasks{TaskRepository: d.TaskRepo, t: t}
	svc, _ := newTestService(t, d)

	for _, action := range []string{"cancel", "", "approved"} {
		_, err := svc.Request.DecideRequest(context.Background(), "T4", "d@x.io", action)
		assertCode(t, err, ecode.ParamErr)
	}
}

// assigningTasks assigns the task right after the first read, as a
// concurrent AssignStaff would.
type assigningTasks struct {
	repository.TaskRepository
	once sync.Once
}

func (r *assigningTasks) Get(ctx context.Context, id string) (*structs.Task, error) {
	task, err := r.TaskRepository.Get(ctx, id)
	r.once.Do(func() {
		_ = r.TaskRepository.TransitionStatus(ctx, id, structs.TaskStatusOpen, structs.TaskStatusAssigned)
	})
	return task, err
}

func TestApproveRacingAssignment(t *testing.T) {
	d := newTestData()
	svc, _ := newTestService(t, d)
	ctx := context.Background()
	seedTask(t, d, "T1")

	_, err := svc.Request.CreateRequest(ctx, "T1", "a@x.io")
	require.NoError(t, err)

	svc.Request.tasks = &assigningTasks{TaskRepository: d.TaskRepo}
	_, err = svc.Request.DecideRequest(ctx, "T1", "a@x.io", "approve")
	assertCode(t, err, ecode.Conflict)

	req, err := d.RequestRepo.FindByTaskAndEmail(ctx, "T1", "a@x.io")
	require.NoError(t, err)
	assert.Equal(t, structs.RequestStatusPending, req.Status)
}

func TestRejectReleasesClaim(t *testing.T) {
	d := newTestData()
	svc, _ := newTestService(t, d)
	ctx := context.Background()
	seedTask(t, d, "T1")

	_, err := svc.Request.CreateRequest(ctx, "T1", "a@x.io")
	require.NoError(t, err)

	req, err := svc.Request.DecideRequest(ctx, "T1", "a@x.io", "Reject")
	require.NoError(t, err)
	assert.Equal(t, structs.RequestStatusRejected, req.Status)

	_, err = svc.Request.CreateRequest(ctx, "T1", "b@x.io")
	require.NoError(t, err)
}

func TestDecideOnAssignedTask(t *testing.T) {
	d := newTestData()
	svc, _ := newTestService(t, d)
	ctx := context.Background()
	seedTask(t, d, "T1")
	seedStaff(t, d, "b@x.io")

	_, err := svc.Request.CreateRequest(ctx, "T1", "a@x.io")
	require.NoError(t, err)
	_, err = svc.Task.AssignStaff(ctx, "T1", "b@x.io")
	require.NoError(t, err)

	_, err = svc.Request.DecideRequest(ctx, "T1", "a@x.io", "approve")
	assertCode(t, err, ecode.Conflict)

	svc.Request.policy = &config.Matching{AllowDecideOnAssigned: true}
	req, err := svc.Request.DecideRequest(ctx, "T1", "a@x.io", "approve")
	require.NoError(t, err)
	assert.Equal(t, structs.RequestStatusApproved, req.Status)
}

func TestRejectOnAssignedTask(t *testing.T) {
	d := newTestData()
	svc, _ := newTestService(t, d)
	ctx := context.Background()
	seedTask(t, d, "T1")
	seedStaff(t, d, "b@x.io")

	_, err := svc.Request.CreateRequest(ctx, "T1", "a@x.io")
	require.NoError(t, err)
	_, err = svc.Task.AssignStaff(ctx, "T1", "b@x.io")
	require.NoError(t, err)

	_, err = svc.Request.DecideRequest(ctx, "T1", "a@x.io", "reject")
	require.NoError(t, err)
}

func TestRankTasks(t *testing.T) {
	d := newTestData()
	svc, _ := newTestService(t, d)
	ctx := context.Background()
	seedTask(t, d, "T1", "go", "sql")
	seedTask(t, d, "T2", "go")
	seedTask(t, d, "T3", "rust")
	seedStaff(t, d, "a@x.io", "Go")

	_, err := svc.Request.CreateRequest(ctx, "T2", "a@x.io")
	require.NoError(t, err)
	_, err = svc.Request.CreateRequest(ctx, "T3", "a@x.io")
	require.NoError(t, err)
	_, err = svc.Request.DecideRequest(ctx, "T3", "a@x.io", "reject")
	require.NoError(t, err)

	matches, err := svc.Request.RankTasks(ctx, "a@x.io")
	require.NoError(t, err)
	require.Len(t, matches, 3)

	assert.Equal(t, "T2", matches[0].TaskID)
	assert.Equal(t, 100.0, matches[0].PercentageMatch)
	assert.True(t, matches[0].HasRequested)
	assert.Equal(t, "T1", matches[1].TaskID)
	assert.Equal(t, 50.0, matches[1].PercentageMatch)
	assert.Equal(t, "T3", matches[2].TaskID)
	assert.True(t, matches[2].IsRejected)
	assert.False(t, matches[2].HasRequested)

	_, err = svc.Request.RankTasks(ctx, "nobody@x.io")
	assertCode(t, err, ecode.NotFound)
}

func TestRankCandidates(t *testing.T) {
	d := newTestData()
	svc, _ := newTestService(t, d)
	ctx := context.Background()
	seedTask(t, d, "T1", "go", "sql")
	seedStaff(t, d, "a@x.io", "go")
	seedStaff(t, d, "b@x.io", "go", "sql")
	seedStaff(t, d, "c@x.io", "go", "sql")
	require.NoError(t, d.StaffRepo.UpdateAvailability(ctx, "c@x.io", &structs.DateRange{StartDate: "2024-02-01", EndDate: "2024-02-05"}))

	candidates, err := svc.Task.RankCandidates(ctx, "T1")
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "b@x.io", candidates[0].Email)
	assert.Equal(t, "a@x.io", candidates[1].Email)

	_, err = svc.Task.RankCandidates(ctx, "missing")
	assertCode(t, err, ecode.NotFound)
}

func TestListRequestsDropsIncompleteJoins(t *testing.T) {
	d := newTestData()
	svc, _ := newTestService(t, d)
	ctx := context.Background()
	seedTask(t, d, "T1", "go")
	seedTask(t, d, "T2", "go")
	seedStaff(t, d, "a@x.io", "go")

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, r := range []*structs.Request{
		{ID: "r1", TaskID: "T1", Email: "a@x.io", Status: structs.RequestStatusPending, CreatedAt: base},
		{ID: "r2", TaskID: "T2", Email: "a@x.io", Status: structs.RequestStatusApproved, CreatedAt: base.Add(time.Hour)},
		{ID: "r3", TaskID: "gone", Email: "a@x.io", Status: structs.RequestStatusPending, CreatedAt: base.Add(2 * time.Hour)},
		{ID: "r4", TaskID: "T1", Email: "ghost@x.io", Status: structs.RequestStatusPending, CreatedAt: base.Add(3 * time.Hour)},
	} {
		_, err := d.RequestRepo.Create(ctx, r)
		require.NoError(t, err, i)
	}

	views, err := svc.View.ListRequests(ctx)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "r2", views[0].RequestID)
	assert.Equal(t, "r1", views[1].RequestID)
	assert.Equal(t, "Task T2", views[0].Task.TaskName)
	assert.Equal(t, "Staff a@x.io", views[0].Staff.Name)

	pending, err := svc.View.ListPendingRequests(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "r1", pending[0].RequestID)
}

func TestListApprovedTasksPadsMissingTask(t *testing.T) {
	d := newTestData()
	svc, _ := newTestService(t, d)
	ctx := context.Background()
	seedTask(t, d, "T1", "go")

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, r := range []*structs.Request{
		{ID: "r1", TaskID: "T1", Email: "a@x.io", Status: structs.RequestStatusApproved, CreatedAt: base},
		{ID: "r2", TaskID: "gone", Email: "a@x.io", Status: structs.RequestStatusApproved, CreatedAt: base.Add(time.Hour)},
		{ID: "r3", TaskID: "T1", Email: "b@x.io", Status: structs.RequestStatusApproved, CreatedAt: base},
		{ID: "r4", TaskID: "T1", Email: "a@x.io", Status: structs.RequestStatusPending, CreatedAt: base},
	} {
		_, err := d.RequestRepo.Create(ctx, r)
		require.NoError(t, err)
	}

	approved, err := svc.View.ListApprovedTasks(ctx, "a@x.io")
	require.NoError(t, err)
	require.Len(t, approved, 2)

	assert.Equal(t, "gone", approved[0].TaskID)
	assert.Equal(t, "Unknown Task", approved[0].TaskName)
	assert.Equal(t, "N/A", approved[0].ProjectID)
	assert.Equal(t, "N/A", approved[0].StartDate)
	assert.Equal(t, []string{}, approved[0].RequiredSkills)

	assert.Equal(t, "T1", approved[1].TaskID)
	assert.Equal(t, "Task T1", approved[1].TaskName)
	assert.Equal(t, base, approved[1].RequestedAt)
}
