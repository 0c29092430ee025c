package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ncobase/staffing/config"
	"github.com/ncobase/staffing/data"
	"github.com/ncobase/staffing/data/repository"
	"github.com/ncobase/staffing/ecode"
	"github.com/ncobase/staffing/event"
	"github.com/ncobase/staffing/logging/logger"
	"github.com/ncobase/staffing/matching"
	"github.com/ncobase/staffing/structs"
)

// RequestService manages staff claims on tasks and manager decisions.
type RequestService struct {
	tasks    repository.TaskRepository
	staff    repository.StaffRepository
	requests repository.RequestRepository
	policy   *config.Matching
	events   *emitter
	logger   *logger.Logger
}

// NewRequestService creates a new request service.
func NewRequestService(d *data.Data, policy *config.Matching, events *emitter, logger *logger.Logger) *RequestService {
	if policy == nil {
		policy = &config.Matching{}
	}
	return &RequestService{
		tasks:    d.TaskRepo,
		staff:    d.StaffRepo,
		requests: d.RequestRepo,
		policy:   policy,
		events:   events,
		logger:   logger,
	}
}

// RankTasks ranks the open tasks for a staff member and flags the ones
// they already claimed.
func (s *RequestService) RankTasks(ctx context.Context, email string) ([]*structs.TaskMatch, error) {
	staff, err := s.staff.Get(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, ecode.NotFoundErr("Staff not found")
		}
		return nil, internalError(ctx, s.logger, "get staff", err)
	}

	tasks, err := s.tasks.ListByStatus(ctx, structs.TaskStatusOpen)
	if err != nil {
		return nil, internalError(ctx, s.logger, "list open tasks", err)
	}

	own, err := s.requests.List(ctx, repository.RequestFilter{Email: email})
	if err != nil {
		return nil, internalError(ctx, s.logger, "list staff requests", err)
	}
	// Listing is newest first, so the first request seen per task wins.
	byTask := make(map[string]*structs.Request, len(own))
	for _, r := range own {
		if _, ok := byTask[r.TaskID]; !ok {
			byTask[r.TaskID] = r
		}
	}

	return matching.RankTasks(staff, tasks, byTask), nil
}

// CreateRequest records a pending claim by a staff member on an open task.
// Only one pending or approved claim may exist per task.
func (s *RequestService) CreateRequest(ctx context.Context, taskID, email string) (*structs.Request, error) {
	task, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		if isNotFound(err) {
			return nil, ecode.NotFoundErr("Task not found")
		}
		return nil, internalError(ctx, s.logger, "get task", err)
	}
	if !task.IsOpen() {
		return nil, ecode.ConflictErr("Task is not open for requests")
	}

	req, err := s.requests.Create(ctx, &structs.Request{
		ID:       uuid.NewString(),
		TaskID:   taskID,
		Email:    email,
		Status:   structs.RequestStatusPending,
		ClaimKey: taskID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ecode.ConflictErr("Task already requested")
		}
		return nil, internalError(ctx, s.logger, "create request", err)
	}

	s.events.emit(ctx, &event.Event{
		Type:          event.EventTypeRequestCreated,
		AggregateID:   req.ID,
		AggregateName: "request",
		Payload: map[string]any{
			"request_id": req.ID,
			"task_id":    taskID,
			"email":      email,
		},
	})
	return req, nil
}

// DecideRequest approves or rejects a pending request. The decision value
// is checked before anything is read. Rejection releases the task claim so
// other staff can request it.
func (s *RequestService) DecideRequest(ctx context.Context, taskID, email, action string) (*structs.Request, error) {
	status, ok := structs.ParseAction(action)
	if !ok {
		return nil, ecode.Validation("Invalid action. Must be either 'approve' or 'reject'")
	}

	req, err := s.requests.FindByTaskAndEmail(ctx, taskID, email)
	if err != nil {
		if isNotFound(err) {
			return nil, ecode.NotFoundErr("Request not found")
		}
		return nil, internalError(ctx, s.logger, "find request", err)
	}
	if req.Status != structs.RequestStatusPending {
		return nil, ecode.ConflictErr("Request has already been " + string(req.Status))
	}

	var task *structs.Task
	if status == structs.RequestStatusApproved {
		task, err = s.tasks.Get(ctx, taskID)
		switch {
		case err == nil:
			if !task.IsOpen() && !s.policy.AllowDecideOnAssigned {
				return nil, ecode.ConflictErr("Task has already been assigned")
			}
		case isNotFound(err):
		default:
			return nil, internalError(ctx, s.logger, "get task", err)
		}
	}

	release := status == structs.RequestStatusRejected
	err = s.requests.UpdateStatus(ctx, req.ID, []structs.RequestStatus{structs.RequestStatusPending}, status, release)
	if err != nil {
		if errors.Is(err, repository.ErrConditionFailed) {
			return nil, ecode.ConflictErr("Request is no longer pending")
		}
		return nil, internalError(ctx, s.logger, "update request", err)
	}
	if task != nil && !s.policy.AllowDecideOnAssigned {
		if err := s.revertIfAssigned(ctx, req.ID, taskID); err != nil {
			return nil, err
		}
	}
	req.Status = status
	if release {
		req.ClaimKey = ""
	}

	s.logger.Info(ctx, "request decided", "request_id", req.ID, "task_id", taskID, "status", status)

	evtType := event.EventTypeRequestApproved
	if status == structs.RequestStatusRejected {
		evtType = event.EventTypeRequestRejected
	}
	payload := map[string]any{
		"request_id": req.ID,
		"task_id":    taskID,
		"email":      email,
		"status":     string(status),
	}
	if task != nil {
		payload["task_name"] = task.TaskName
	}
	s.events.emit(ctx, &event.Event{
		Type:          evtType,
		AggregateID:   req.ID,
		AggregateName: "request",
		Payload:       payload,
	})
	return req, nil
}

// revertIfAssigned re-reads the task after an approval was written. An
// assignment that landed between the status check and the write turns the
// approval back into a pending request.
func (s *RequestService) revertIfAssigned(ctx context.Context, requestID, taskID string) error {
	task, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return internalError(ctx, s.logger, "get task", err)
	}
	if task.IsOpen() {
		return nil
	}

	err = s.requests.UpdateStatus(ctx, requestID,
		[]structs.RequestStatus{structs.RequestStatusApproved}, structs.RequestStatusPending, false)
	if err != nil && !errors.Is(err, repository.ErrConditionFailed) {
		return internalError(ctx, s.logger, "revert approval", err)
	}
	s.logger.Warn(ctx, "task assigned during approval, request left pending", "request_id", requestID, "task_id", taskID)
	return ecode.ConflictErr("Task has already been assigned")
}
