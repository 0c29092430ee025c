package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ncobase/staffing/data"
	"github.com/ncobase/staffing/data/repository"
	"github.com/ncobase/staffing/ecode"
	"github.com/ncobase/staffing/event"
	"github.com/ncobase/staffing/logging/logger"
	"github.com/ncobase/staffing/matching"
	"github.com/ncobase/staffing/structs"
)

// TaskService manages tasks and their assignment.
type TaskService struct {
	tasks    repository.TaskRepository
	staff    repository.StaffRepository
	requests repository.RequestRepository
	events   *emitter
	logger   *logger.Logger
}

// NewTaskService creates a new task service.
func NewTaskService(d *data.Data, events *emitter, logger *logger.Logger) *TaskService {
	return &TaskService{
		tasks:    d.TaskRepo,
		staff:    d.StaffRepo,
		requests: d.RequestRepo,
		events:   events,
		logger:   logger,
	}
}

// CreateTask posts a new open task.
func (s *TaskService) CreateTask(ctx context.Context, body *structs.CreateTaskBody) (*structs.Task, error) {
	window := structs.DateRange{StartDate: body.StartDate, EndDate: body.EndDate}
	if err := window.Validate(true); err != nil {
		return nil, ecode.Validation(err.Error())
	}
	if len(body.RequiredSkills) == 0 {
		return nil, ecode.Validation(ecode.FieldIsRequired("requiredSkills"))
	}

	task := &structs.Task{
		TaskID:         body.TaskID,
		ProjectID:      body.ProjectID,
		TaskName:       body.TaskName,
		StartDate:      body.StartDate,
		EndDate:        body.EndDate,
		RequiredSkills: body.RequiredSkills,
		Status:         structs.TaskStatusOpen,
		CreatedAt:      time.Now().UTC(),
	}

	created, err := s.tasks.Create(ctx, task)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ecode.ConflictErr(ecode.AlreadyExist("task " + body.TaskID))
		}
		return nil, internalError(ctx, s.logger, "create task", err)
	}

	s.events.emit(ctx, &event.Event{
		Type:          event.EventTypeTaskCreated,
		AggregateID:   created.TaskID,
		AggregateName: "task",
		Payload: map[string]any{
			"task_id":    created.TaskID,
			"project_id": created.ProjectID,
			"task_name":  created.TaskName,
		},
	})
	return created, nil
}

// ListTasks returns every task, newest first.
func (s *TaskService) ListTasks(ctx context.Context) ([]*structs.Task, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, internalError(ctx, s.logger, "list tasks", err)
	}
	return tasks, nil
}

// RankCandidates ranks every staff member against a task.
func (s *TaskService) RankCandidates(ctx context.Context, taskID string) ([]*structs.Candidate, error) {
	task, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		if isNotFound(err) {
			return nil, ecode.NotFoundErr("Task not found")
		}
		return nil, internalError(ctx, s.logger, "get task", err)
	}

	staff, err := s.staff.List(ctx)
	if err != nil {
		return nil, internalError(ctx, s.logger, "list staff", err)
	}
	return matching.RankCandidates(task, staff), nil
}

// AssignStaff grants an open task to a staff member directly. The task is
// moved to Assigned first; the staff member's request for the task is then
// marked assigned, or created when none exists. A failed request write
// reopens the task.
func (s *TaskService) AssignStaff(ctx context.Context, taskID, email string) (*structs.Request, error) {
	task, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		if isNotFound(err) {
			return nil, ecode.NotFoundErr("Task not found")
		}
		return nil, internalError(ctx, s.logger, "get task", err)
	}
	if !task.IsOpen() {
		return nil, ecode.ConflictErr("Task is not open for assignment")
	}

	if _, err := s.staff.Get(ctx, email); err != nil {
		if isNotFound(err) {
			return nil, ecode.NotFoundErr("Staff not found")
		}
		return nil, internalError(ctx, s.logger, "get staff", err)
	}

	err = s.tasks.TransitionStatus(ctx, taskID, structs.TaskStatusOpen, structs.TaskStatusAssigned)
	if err != nil {
		if errors.Is(err, repository.ErrConditionFailed) {
			return nil, ecode.ConflictErr("Task is not open for assignment")
		}
		return nil, internalError(ctx, s.logger, "assign task", err)
	}

	req, err := s.upsertAssigned(ctx, taskID, email)
	if err != nil {
		if rerr := s.tasks.TransitionStatus(ctx, taskID, structs.TaskStatusAssigned, structs.TaskStatusOpen); rerr != nil {
			s.logger.Error(ctx, "failed to reopen task after assignment failure", "task_id", taskID, "error", rerr)
		}
		return nil, internalError(ctx, s.logger, "record assignment", err)
	}

	s.logger.Info(ctx, "staff assigned", "task_id", taskID, "email", email, "request_id", req.ID)
	s.events.emit(ctx, &event.Event{
		Type:          event.EventTypeRequestAssigned,
		AggregateID:   req.ID,
		AggregateName: "request",
		Payload: map[string]any{
			"request_id": req.ID,
			"task_id":    taskID,
			"task_name":  task.TaskName,
			"email":      email,
		},
	})
	return req, nil
}

func (s *TaskService) upsertAssigned(ctx context.Context, taskID, email string) (*structs.Request, error) {
	existing, err := s.requests.FindByTaskAndEmail(ctx, taskID, email)
	switch {
	case err == nil:
		from := []structs.RequestStatus{
			structs.RequestStatusPending,
			structs.RequestStatusApproved,
			structs.RequestStatusRejected,
		}
		if err := s.requests.UpdateStatus(ctx, existing.ID, from, structs.RequestStatusAssigned, false); err != nil {
			return nil, err
		}
		existing.Status = structs.RequestStatusAssigned
		existing.UpdatedAt = time.Now().UTC()
		return existing, nil
	case isNotFound(err):
		return s.requests.Create(ctx, &structs.Request{
			ID:     uuid.NewString(),
			TaskID: taskID,
			Email:  email,
			Status: structs.RequestStatusAssigned,
		})
	default:
		return nil, err
	}
}
