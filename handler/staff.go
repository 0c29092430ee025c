package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/staffing/logging/logger"
	"github.com/ncobase/staffing/net/resp"
	"github.com/ncobase/staffing/service"
	"github.com/ncobase/staffing/structs"
)

// StaffHandler handles requests made by authenticated staff.
type StaffHandler struct {
	svc    *service.Service
	logger *logger.Logger
}

// NewStaffHandler creates a new staff handler.
func NewStaffHandler(svc *service.Service, logger *logger.Logger) *StaffHandler {
	return &StaffHandler{
		svc:    svc,
		logger: logger,
	}
}

// UpdateAvailability replaces the caller's availability window.
func (h *StaffHandler) UpdateAvailability(c *gin.Context) {
	var body structs.AvailabilityBody
	if !bindJSON(c, &body) {
		return
	}

	window := structs.DateRange{StartDate: body.StartDate, EndDate: body.EndDate}
	if err := h.svc.Account.UpdateAvailability(c.Request.Context(), caller(c), window); err != nil {
		fail(c, err)
		return
	}

	resp.Success(c.Writer, gin.H{
		"message":      "Availability updated successfully",
		"availability": window,
	})
}

// ListTasks returns the open tasks ranked for the caller.
func (h *StaffHandler) ListTasks(c *gin.Context) {
	tasks, err := h.svc.Request.RankTasks(c.Request.Context(), caller(c))
	if err != nil {
		fail(c, err)
		return
	}

	resp.Success(c.Writer, gin.H{
		"message": "Tasks retrieved successfully",
		"tasks":   tasks,
	})
}

// CreateRequest files a request for a task on behalf of the caller.
func (h *StaffHandler) CreateRequest(c *gin.Context) {
	var body structs.CreateRequestBody
	if !bindJSON(c, &body) {
		return
	}

	req, err := h.svc.Request.CreateRequest(c.Request.Context(), body.TaskID, caller(c))
	if err != nil {
		fail(c, err)
		return
	}

	resp.WithStatusCode(c.Writer, http.StatusCreated, gin.H{
		"message": "Request created successfully",
		"request": req,
	})
}

// ListApprovedTasks returns the caller's approved claims.
func (h *StaffHandler) ListApprovedTasks(c *gin.Context) {
	tasks, err := h.svc.View.ListApprovedTasks(c.Request.Context(), caller(c))
	if err != nil {
		fail(c, err)
		return
	}

	resp.Success(c.Writer, gin.H{
		"message": "Approved tasks retrieved successfully",
		"tasks":   tasks,
	})
}
