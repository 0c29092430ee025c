package structs

import "time"

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskStatusOpen     TaskStatus = "Open"
	TaskStatusAssigned TaskStatus = "Assigned"
)

// Task is a unit of work posted by a manager.
type Task struct {
	TaskID         string     `bson:"_id" json:"taskId"`
	ProjectID      string     `bson:"project_id" json:"projectId"`
	TaskName       string     `bson:"task_name" json:"taskName"`
	StartDate      string     `bson:"start_date" json:"startDate"`
	EndDate        string     `bson:"end_date" json:"endDate"`
	RequiredSkills []string   `bson:"required_skills" json:"requiredSkills"`
	Status         TaskStatus `bson:"status" json:"status"`
	CreatedAt      time.Time  `bson:"created_at" json:"createdAt"`
}

// Window returns the task's schedule as a date range.
func (t *Task) Window() *DateRange {
	return &DateRange{StartDate: t.StartDate, EndDate: t.EndDate}
}

// IsOpen reports whether the task still accepts requests.
func (t *Task) IsOpen() bool {
	return t.Status == TaskStatusOpen
}

// CreateTaskBody is the manager's task creation payload.
type CreateTaskBody struct {
	TaskID         string   `json:"taskId" binding:"required"`
	ProjectID      string   `json:"projectId" binding:"required"`
	TaskName       string   `json:"taskName" binding:"required"`
	StartDate      string   `json:"startDate" binding:"required,date"`
	EndDate        string   `json:"endDate" binding:"required,date"`
	RequiredSkills []string `json:"requiredSkills" binding:"required,min=1,dive,required"`
}
