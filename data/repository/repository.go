// Package repository provides MongoDB-backed persistence for tasks, staff,
// requests and managers, along with the interfaces every store implements.
package repository

import (
	"context"
	"errors"

	"github.com/ncobase/staffing/structs"
)

// Storage errors shared by every implementation.
var (
	// ErrNotFound is returned when the addressed record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique key.
	ErrDuplicate = errors.New("record already exists")
	// ErrConditionFailed is returned when a conditional write finds the
	// record in an unexpected state.
	ErrConditionFailed = errors.New("condition check failed")
)

// TaskRepository defines the interface for task data operations.
type TaskRepository interface {
	Create(ctx context.Context, task *structs.Task) (*structs.Task, error)
	Get(ctx context.Context, taskID string) (*structs.Task, error)
	List(ctx context.Context) ([]*structs.Task, error)
	ListByStatus(ctx context.Context, status structs.TaskStatus) ([]*structs.Task, error)
	// TransitionStatus moves a task from one status to another only when it
	// currently holds the from status.
	TransitionStatus(ctx context.Context, taskID string, from, to structs.TaskStatus) error
}

// StaffRepository defines the interface for staff profile operations.
type StaffRepository interface {
	Create(ctx context.Context, staff *structs.StaffProfile) (*structs.StaffProfile, error)
	Get(ctx context.Context, email string) (*structs.StaffProfile, error)
	List(ctx context.Context) ([]*structs.StaffProfile, error)
	MarkVerified(ctx context.Context, email string) error
	UpdateAvailability(ctx context.Context, email string, availability *structs.DateRange) error
}

// RequestFilter narrows a request listing. Empty fields match everything.
type RequestFilter struct {
	TaskID string
	Email  string
	Status structs.RequestStatus
}

// RequestRepository defines the interface for request operations.
type RequestRepository interface {
	// Create inserts a request. A request carrying a claim key fails with
	// ErrDuplicate when another request already holds that key.
	Create(ctx context.Context, req *structs.Request) (*structs.Request, error)
	// FindByTaskAndEmail returns the latest request for the pair.
	FindByTaskAndEmail(ctx context.Context, taskID, email string) (*structs.Request, error)
	List(ctx context.Context, filter RequestFilter) ([]*structs.Request, error)
	// UpdateStatus sets the status of a request whose current status is one
	// of from, returning ErrConditionFailed otherwise. releaseClaim drops
	// the claim key in the same write.
	UpdateStatus(ctx context.Context, id string, from []structs.RequestStatus, to structs.RequestStatus, releaseClaim bool) error
}

// ManagerRepository defines the interface for manager account operations.
type ManagerRepository interface {
	Create(ctx context.Context, manager *structs.Manager) (*structs.Manager, error)
	Get(ctx context.Context, email string) (*structs.Manager, error)
}
