package service

import (
	"context"
	"sort"

	"github.com/ncobase/staffing/data"
	"github.com/ncobase/staffing/data/repository"
	"github.com/ncobase/staffing/logging/logger"
	"github.com/ncobase/staffing/structs"
)

// Placeholder values for an approved claim whose task record is gone.
const (
	unknownTaskName = "Unknown Task"
	unknownField    = "N/A"
)

// ViewService builds the joined request views.
type ViewService struct {
	tasks    repository.TaskRepository
	staff    repository.StaffRepository
	requests repository.RequestRepository
	logger   *logger.Logger
}

// NewViewService creates a new view service.
func NewViewService(d *data.Data, logger *logger.Logger) *ViewService {
	return &ViewService{
		tasks:    d.TaskRepo,
		staff:    d.StaffRepo,
		requests: d.RequestRepo,
		logger:   logger,
	}
}

// ListRequests returns every request joined with its staff member and
// task, newest first. Requests whose staff or task cannot be loaded are
// left out.
func (s *ViewService) ListRequests(ctx context.Context) ([]*structs.RequestView, error) {
	return s.listJoined(ctx, repository.RequestFilter{})
}

// ListPendingRequests is ListRequests restricted to pending requests.
func (s *ViewService) ListPendingRequests(ctx context.Context) ([]*structs.RequestView, error) {
	return s.listJoined(ctx, repository.RequestFilter{Status: structs.RequestStatusPending})
}

func (s *ViewService) listJoined(ctx context.Context, filter repository.RequestFilter) ([]*structs.RequestView, error) {
	requests, err := s.requests.List(ctx, filter)
	if err != nil {
		return nil, internalError(ctx, s.logger, "list requests", err)
	}

	staffCache := make(map[string]*structs.StaffProfile)
	taskCache := make(map[string]*structs.Task)

	views := make([]*structs.RequestView, 0, len(requests))
	for _, r := range requests {
		staff, ok := staffCache[r.Email]
		if !ok {
			staff, err = s.staff.Get(ctx, r.Email)
			if err != nil {
				if !isNotFound(err) {
					s.logger.Warn(ctx, "staff lookup failed, dropping request", "request_id", r.ID, "error", err)
				}
				staff = nil
			}
			staffCache[r.Email] = staff
		}
		task, ok := taskCache[r.TaskID]
		if !ok {
			task, err = s.tasks.Get(ctx, r.TaskID)
			if err != nil {
				if !isNotFound(err) {
					s.logger.Warn(ctx, "task lookup failed, dropping request", "request_id", r.ID, "error", err)
				}
				task = nil
			}
			taskCache[r.TaskID] = task
		}
		if staff == nil || task == nil {
			continue
		}

		views = append(views, &structs.RequestView{
			RequestID: r.ID,
			TaskID:    r.TaskID,
			Email:     r.Email,
			Status:    r.Status,
			CreatedAt: r.CreatedAt,
			Staff: &structs.StaffSummary{
				Name:   staff.Name,
				Email:  staff.Email,
				Skills: nonNil(staff.Skills),
			},
			Task: &structs.TaskSummary{
				TaskName:       task.TaskName,
				ProjectID:      task.ProjectID,
				StartDate:      task.StartDate,
				EndDate:        task.EndDate,
				RequiredSkills: nonNil(task.RequiredSkills),
			},
		})
	}

	sort.SliceStable(views, func(i, j int) bool {
		return views[i].CreatedAt.After(views[j].CreatedAt)
	})
	return views, nil
}

// ListApprovedTasks returns a staff member's approved claims with task
// details, newest first. A claim whose task is missing is kept with
// placeholder values.
func (s *ViewService) ListApprovedTasks(ctx context.Context, email string) ([]*structs.ApprovedTask, error) {
	requests, err := s.requests.List(ctx, repository.RequestFilter{
		Email:  email,
		Status: structs.RequestStatusApproved,
	})
	if err != nil {
		return nil, internalError(ctx, s.logger, "list approved requests", err)
	}

	out := make([]*structs.ApprovedTask, 0, len(requests))
	for _, r := range requests {
		item := &structs.ApprovedTask{
			TaskID:         r.TaskID,
			TaskName:       unknownTaskName,
			ProjectID:      unknownField,
			StartDate:      unknownField,
			EndDate:        unknownField,
			RequiredSkills: []string{},
			Status:         r.Status,
			RequestedAt:    r.CreatedAt,
		}

		task, err := s.tasks.Get(ctx, r.TaskID)
		switch {
		case err == nil:
			item.TaskName = task.TaskName
			item.ProjectID = task.ProjectID
			item.StartDate = task.StartDate
			item.EndDate = task.EndDate
			item.RequiredSkills = nonNil(task.RequiredSkills)
		case !isNotFound(err):
			s.logger.Warn(ctx, "task lookup failed, using placeholders", "task_id", r.TaskID, "error", err)
		}
		out = append(out, item)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RequestedAt.After(out[j].RequestedAt)
	})
	return out, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
