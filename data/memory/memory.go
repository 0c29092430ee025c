// Package memory implements the repository interfaces in process memory.
//
// Every write applies the same conditions as the MongoDB store under a
// mutex, so the service layer observes identical conflict behavior. Records
// are copied on the way in and out.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/ncobase/staffing/data/repository"
	"github.com/ncobase/staffing/structs"
)

type taskRepository struct {
	mu    sync.RWMutex
	tasks map[string]*structs.Task
}

// NewTaskRepository returns an empty in-memory task store.
func NewTaskRepository() repository.TaskRepository {
	return &taskRepository{tasks: make(map[string]*structs.Task)}
}

func copyTask(t *structs.Task) *structs.Task {
	c := *t
	c.RequiredSkills = slices.Clone(t.RequiredSkills)
	return &c
}

func (r *taskRepository) Create(_ context.Context, task *structs.Task) (*structs.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[task.TaskID]; ok {
		return nil, fmt.Errorf("task %s: %w", task.TaskID, repository.ErrDuplicate)
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}
	r.tasks[task.TaskID] = copyTask(task)
	return task, nil
}

func (r *taskRepository) Get(_ context.Context, taskID string) (*structs.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[taskID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyTask(t), nil
}

func (r *taskRepository) List(ctx context.Context) ([]*structs.Task, error) {
	return r.ListByStatus(ctx, "")
}

func (r *taskRepository) ListByStatus(_ context.Context, status structs.TaskStatus) ([]*structs.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]*structs.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		if status == "" || t.Status == status {
			tasks = append(tasks, copyTask(t))
		}
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].TaskID < tasks[j].TaskID
		}
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks, nil
}

func (r *taskRepository) TransitionStatus(_ context.Context, taskID string, from, to structs.TaskStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[taskID]
	if !ok || t.Status != from {
		return repository.ErrConditionFailed
	}
	t.Status = to
	return nil
}

type staffRepository struct {
	mu    sync.RWMutex
	staff map[string]*structs.StaffProfile
}

// NewStaffRepository returns an empty in-memory staff store.
func NewStaffRepository() repository.StaffRepository {
	return &staffRepository{staff: make(map[string]*structs.StaffProfile)}
}

func copyStaff(s *structs.StaffProfile) *structs.StaffProfile {
	c := *s
	c.Skills = slices.Clone(s.Skills)
	if s.Availability != nil {
		a := *s.Availability
		c.Availability = &a
	}
	return &c
}

func (r *staffRepository) Create(_ context.Context, staff *structs.StaffProfile) (*structs.StaffProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.staff[staff.Email]; ok {
		return nil, fmt.Errorf("staff %s: %w", staff.Email, repository.ErrDuplicate)
	}
	if staff.CreatedAt.IsZero() {
		staff.CreatedAt = time.Now().UTC()
	}
	r.staff[staff.Email] = copyStaff(staff)
	return staff, nil
}

func (r *staffRepository) Get(_ context.Context, email string) (*structs.StaffProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.staff[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyStaff(s), nil
}

func (r *staffRepository) List(_ context.Context) ([]*structs.StaffProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	staff := make([]*structs.StaffProfile, 0, len(r.staff))
	for _, s := range r.staff {
		staff = append(staff, copyStaff(s))
	}
	sort.SliceStable(staff, func(i, j int) bool {
		if staff[i].CreatedAt.Equal(staff[j].CreatedAt) {
			return staff[i].Email < staff[j].Email
		}
		return staff[i].CreatedAt.Before(staff[j].CreatedAt)
	})
	return staff, nil
}

func (r *staffRepository) MarkVerified(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.staff[email]
	if !ok {
		return repository.ErrNotFound
	}
	s.IsVerified = true
	s.OTP = ""
	s.OTPExpiresAt = time.Time{}
	return nil
}

func (r *staffRepository) UpdateAvailability(_ context.Context, email string, availability *structs.DateRange) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.staff[email]
	if !ok {
		return repository.ErrNotFound
	}
	if availability == nil {
		s.Availability = nil
		return nil
	}
	a := *availability
	s.Availability = &a
	return nil
}

type requestRepository struct {
	mu       sync.RWMutex
	requests map[string]*structs.Request
	claims   map[string]string // claim key -> request id
}

// NewRequestRepository returns an empty in-memory request store.
func NewRequestRepository() repository.RequestRepository {
	return &requestRepository{
		requests: make(map[string]*structs.Request),
		claims:   make(map[string]string),
	}
}

func copyRequest(r *structs.Request) *structs.Request {
	c := *r
	return &c
}

func (r *requestRepository) Create(_ context.Context, req *structs.Request) (*structs.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.requests[req.ID]; ok {
		return nil, fmt.Errorf("request %s: %w", req.ID, repository.ErrDuplicate)
	}
	if req.ClaimKey != "" {
		if _, ok := r.claims[req.ClaimKey]; ok {
			return nil, fmt.Errorf("request for task %s: %w", req.TaskID, repository.ErrDuplicate)
		}
		r.claims[req.ClaimKey] = req.ID
	}

	now := time.Now().UTC()
	if req.CreatedAt.IsZero() {
		req.CreatedAt = now
	}
	req.UpdatedAt = now
	r.requests[req.ID] = copyRequest(req)
	return req, nil
}

func (r *requestRepository) FindByTaskAndEmail(_ context.Context, taskID, email string) (*structs.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *structs.Request
	for _, req := range r.requests {
		if req.TaskID != taskID || req.Email != email {
			continue
		}
		if latest == nil || req.CreatedAt.After(latest.CreatedAt) ||
			(req.CreatedAt.Equal(latest.CreatedAt) && req.ID < latest.ID) {
			latest = req
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	return copyRequest(latest), nil
}

func (r *requestRepository) List(_ context.Context, filter repository.RequestFilter) ([]*structs.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	requests := make([]*structs.Request, 0)
	for _, req := range r.requests {
		if filter.TaskID != "" && req.TaskID != filter.TaskID {
			continue
		}
		if filter.Email != "" && req.Email != filter.Email {
			continue
		}
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		requests = append(requests, copyRequest(req))
	}
	sort.SliceStable(requests, func(i, j int) bool {
		if requests[i].CreatedAt.Equal(requests[j].CreatedAt) {
			return requests[i].ID < requests[j].ID
		}
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
	return requests, nil
}

func (r *requestRepository) UpdateStatus(_ context.Context, id string, from []structs.RequestStatus, to structs.RequestStatus, releaseClaim bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.requests[id]
	if !ok || !slices.Contains(from, req.Status) {
		return repository.ErrConditionFailed
	}
	req.Status = to
	req.UpdatedAt = time.Now().UTC()
	if releaseClaim && req.ClaimKey != "" {
		delete(r.claims, req.ClaimKey)
		req.ClaimKey = ""
	}
	return nil
}

type managerRepository struct {
	mu       sync.RWMutex
	managers map[string]*structs.Manager
}

// NewManagerRepository returns an empty in-memory manager store.
func NewManagerRepository() repository.ManagerRepository {
	return &managerRepository{managers: make(map[string]*structs.Manager)}
}

func (r *managerRepository) Create(_ context.Context, manager *structs.Manager) (*structs.Manager, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.managers[manager.Email]; ok {
		return nil, fmt.Errorf("manager %s: %w", manager.Email, repository.ErrDuplicate)
	}
	c := *manager
	r.managers[manager.Email] = &c
	return manager, nil
}

func (r *managerRepository) Get(_ context.Context, email string) (*structs.Manager, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.managers[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *m
	return &c, nil
}
