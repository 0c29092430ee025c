package structs

import (
	"strings"
	"time"
)

// RequestStatus is the lifecycle state of a request.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
	RequestStatusAssigned RequestStatus = "assigned"
)

// Request is one staff member's claim on one task.
type Request struct {
	ID     string        `bson:"_id" json:"requestId"`
	TaskID string        `bson:"task_id" json:"taskId"`
	Email  string        `bson:"email" json:"email"`
	Status RequestStatus `bson:"status" json:"status"`
	// ClaimKey holds the task id while a self-service claim is pending or
	// approved, and is empty otherwise. It is unique across requests.
	ClaimKey  string    `bson:"claim_key,omitempty" json:"-"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// IsActive reports whether the request still counts as a claim.
func (r *Request) IsActive() bool {
	return r.Status != RequestStatusRejected
}

// Action is a manager's decision on a pending request.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// ParseAction maps a decision value to the resulting status.
func ParseAction(s string) (RequestStatus, bool) {
	switch Action(strings.ToLower(strings.TrimSpace(s))) {
	case ActionApprove:
		return RequestStatusApproved, true
	case ActionReject:
		return RequestStatusRejected, true
	}
	return "", false
}

// CreateRequestBody is the staff request payload.
type CreateRequestBody struct {
	TaskID string `json:"taskId" binding:"required"`
}

// AssignBody is the manager direct-assignment payload.
type AssignBody struct {
	Email string `json:"email" binding:"required,email"`
}

// DecideBody is the manager decision payload.
type DecideBody struct {
	TaskID string `json:"taskId" binding:"required"`
	Email  string `json:"email" binding:"required,email"`
	Action string `json:"action" binding:"required"`
}
