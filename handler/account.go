package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/staffing/logging/logger"
	"github.com/ncobase/staffing/net/resp"
	"github.com/ncobase/staffing/service"
	"github.com/ncobase/staffing/structs"
)

// AccountHandler handles registration and login requests.
type AccountHandler struct {
	account *service.AccountService
	logger  *logger.Logger
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(account *service.AccountService, logger *logger.Logger) *AccountHandler {
	return &AccountHandler{
		account: account,
		logger:  logger,
	}
}

// Register handles staff registration.
func (h *AccountHandler) Register(c *gin.Context) {
	var body structs.RegisterBody
	if !bindJSON(c, &body) {
		return
	}

	if err := h.account.Register(c.Request.Context(), &body); err != nil {
		fail(c, err)
		return
	}

	resp.WithStatusCode(c.Writer, http.StatusCreated, "Registration successful, OTP sent to email")
}

// Verify handles OTP verification.
func (h *AccountHandler) Verify(c *gin.Context) {
	var body structs.VerifyBody
	if !bindJSON(c, &body) {
		return
	}

	if err := h.account.VerifyOTP(c.Request.Context(), body.Email, body.OTP); err != nil {
		fail(c, err)
		return
	}

	resp.Success(c.Writer, "Email verified successfully")
}

// StaffLogin handles staff login.
func (h *AccountHandler) StaffLogin(c *gin.Context) {
	var body structs.LoginBody
	if !bindJSON(c, &body) {
		return
	}

	token, err := h.account.StaffLogin(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		fail(c, err)
		return
	}

	resp.Success(c.Writer, token)
}

// ManagerLogin handles manager login.
func (h *AccountHandler) ManagerLogin(c *gin.Context) {
	var body structs.LoginBody
	if !bindJSON(c, &body) {
		return
	}

	token, err := h.account.ManagerLogin(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		fail(c, err)
		return
	}

	resp.Success(c.Writer, token)
}
