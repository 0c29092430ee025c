package structs

import "time"

// Candidate is a staff member ranked against a task.
type Candidate struct {
	Email           string   `json:"email"`
	Name            string   `json:"name"`
	Skills          []string `json:"skills"`
	PercentageMatch float64  `json:"percentageMatch"`
}

// TaskMatch is an open task ranked against a staff member.
type TaskMatch struct {
	TaskID          string   `json:"taskId"`
	TaskName        string   `json:"taskName"`
	ProjectID       string   `json:"projectId"`
	RequiredSkills  []string `json:"requiredSkills"`
	StartDate       string   `json:"startDate"`
	EndDate         string   `json:"endDate"`
	PercentageMatch float64  `json:"percentageMatch"`
	HasRequested    bool     `json:"hasRequested"`
	IsRejected      bool     `json:"isRejected"`
}

// StaffSummary is the staff part of a joined request.
type StaffSummary struct {
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Skills []string `json:"skills"`
}

// TaskSummary is the task part of a joined request.
type TaskSummary struct {
	TaskName       string   `json:"taskName"`
	ProjectID      string   `json:"projectId"`
	StartDate      string   `json:"startDate"`
	EndDate        string   `json:"endDate"`
	RequiredSkills []string `json:"requiredSkills"`
}

// RequestView is a request joined with its staff member and task.
type RequestView struct {
	RequestID string        `json:"requestId"`
	TaskID    string        `json:"taskId"`
	Email     string        `json:"email"`
	Status    RequestStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	Staff     *StaffSummary `json:"staff"`
	Task      *TaskSummary  `json:"task"`
}

// ApprovedTask is an approved claim as seen by the staff member.
type ApprovedTask struct {
	TaskID         string        `json:"taskId"`
	TaskName       string        `json:"taskName"`
	ProjectID      string        `json:"projectId"`
	StartDate      string        `json:"startDate"`
	EndDate        string        `json:"endDate"`
	RequiredSkills []string      `json:"requiredSkills"`
	Status         RequestStatus `json:"status"`
	RequestedAt    time.Time     `json:"requestedAt"`
}
