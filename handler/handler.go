// Package handler exposes the staffing HTTP API.
package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/ncobase/staffing/ctxutil"
	"github.com/ncobase/staffing/logging/logger"
	"github.com/ncobase/staffing/middleware"
	"github.com/ncobase/staffing/net/resp"
	"github.com/ncobase/staffing/service"
	"github.com/ncobase/staffing/structs"
)

// Handler aggregates all HTTP handlers.
type Handler struct {
	Account *AccountHandler
	Staff   *StaffHandler
	Manager *ManagerHandler

	svc    *service.Service
	logger *logger.Logger
}

// NewHandler creates a new handler instance with all sub-handlers
// initialized.
func NewHandler(svc *service.Service, logger *logger.Logger) *Handler {
	return &Handler{
		Account: NewAccountHandler(svc.Account, logger),
		Staff:   NewStaffHandler(svc, logger),
		Manager: NewManagerHandler(svc, logger),
		svc:     svc,
		logger:  logger,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	middleware.RegisterValidators()
	authn := middleware.AuthMiddleware(h.svc.Account, h.logger)

	api := r.Group("/api/v1")
	{
		staff := api.Group("/staff")
		{
			staff.POST("/register", h.Account.Register)
			staff.POST("/verify", h.Account.Verify)
			staff.POST("/login", h.Account.StaffLogin)

			authed := staff.Group("", authn, middleware.RequireRole(structs.RoleStaff))
			authed.PUT("/availability", h.Staff.UpdateAvailability)
			authed.GET("/tasks", h.Staff.ListTasks)
			authed.POST("/requests", h.Staff.CreateRequest)
			authed.GET("/approved-tasks", h.Staff.ListApprovedTasks)
		}

		manager := api.Group("/manager")
		{
			manager.POST("/login", h.Account.ManagerLogin)

			authed := manager.Group("", authn, middleware.RequireRole(structs.RoleManager))
			authed.POST("/tasks", h.Manager.CreateTask)
			authed.GET("/tasks", h.Manager.ListTasks)
			authed.GET("/tasks/:task_id/candidates", h.Manager.RankCandidates)
			authed.POST("/tasks/:task_id/assign", h.Manager.AssignStaff)
			authed.GET("/requests", h.Manager.ListRequests)
			authed.GET("/requests/pending", h.Manager.ListPendingRequests)
			authed.POST("/requests/decide", h.Manager.DecideRequest)
		}
	}
}

func fail(c *gin.Context, err error) {
	resp.Fail(c.Writer, resp.FromError(err))
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		resp.Fail(c.Writer, resp.BadRequest(middleware.BindingMessage(err)))
		return false
	}
	return true
}

func caller(c *gin.Context) string {
	return ctxutil.GetEmail(c.Request.Context())
}
