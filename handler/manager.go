package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/staffing/logging/logger"
	"github.com/ncobase/staffing/net/resp"
	"github.com/ncobase/staffing/service"
	"github.com/ncobase/staffing/structs"
)

// ManagerHandler handles requests made by authenticated managers.
type ManagerHandler struct {
	svc    *service.Service
	logger *logger.Logger
}

// NewManagerHandler creates a new manager handler.
func NewManagerHandler(svc *service.Service, logger *logger.Logger) *ManagerHandler {
	return &ManagerHandler{
		svc:    svc,
		logger: logger,
	}
}

// CreateTask posts a new task.
func (h *ManagerHandler) CreateTask(c *gin.Context) {
	var body structs.CreateTaskBody
	if !bindJSON(c, &body) {
		return
	}

	task, err := h.svc.Task.CreateTask(c.Request.Context(), &body)
	if err != nil {
		fail(c, err)
		return
	}

	resp.WithStatusCode(c.Writer, http.StatusCreated, gin.H{
		"message": "Task created successfully",
		"task":    task,
	})
}

// ListTasks returns every task, newest first.
func (h *ManagerHandler) ListTasks(c *gin.Context) {
	tasks, err := h.svc.Task.ListTasks(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	resp.Success(c.Writer, gin.H{
		"message": "Tasks retrieved successfully",
		"tasks":   tasks,
	})
}

// RankCandidates returns the staff ranked for a task.
func (h *ManagerHandler) RankCandidates(c *gin.Context) {
	staff, err := h.svc.Task.RankCandidates(c.Request.Context(), c.Param("task_id"))
	if err != nil {
		fail(c, err)
		return
	}

	resp.Success(c.Writer, gin.H{
		"message": "Staff retrieved successfully",
		"staff":   staff,
	})
}

// AssignStaff grants a task to a staff member directly.
func (h *ManagerHandler) AssignStaff(c *gin.Context) {
	var body structs.AssignBody
	if !bindJSON(c, &body) {
		return
	}

	req, err := h.svc.Task.AssignStaff(c.Request.Context(), c.Param("task_id"), body.Email)
	if err != nil {
		fail(c, err)
		return
	}

	resp.Success(c.Writer, gin.H{
		"message": "Staff assigned successfully",
		"request": req,
	})
}

// ListRequests returns every request with staff and task details.
func (h *ManagerHandler) ListRequests(c *gin.Context) {
	requests, err := h.svc.View.ListRequests(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	resp.Success(c.Writer, gin.H{
		"message":  "Staff requests retrieved successfully",
		"requests": requests,
	})
}

// ListPendingRequests returns the requests awaiting a decision.
func (h *ManagerHandler) ListPendingRequests(c *gin.Context) {
	requests, err := h.svc.View.ListPendingRequests(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	resp.Success(c.Writer, gin.H{
		"message":  "Pending requests retrieved successfully",
		"requests": requests,
	})
}

// DecideRequest approves or rejects a pending request.
func (h *ManagerHandler) DecideRequest(c *gin.Context) {
	var body structs.DecideBody
	if !bindJSON(c, &body) {
		return
	}

	req, err := h.svc.Request.DecideRequest(c.Request.Context(), body.TaskID, body.Email, body.Action)
	if err != nil {
		fail(c, err)
		return
	}

	resp.Success(c.Writer, gin.H{
		"message": "Request " + string(req.Status) + " successfully",
		"request": req,
	})
}
