package ecode

import "net/http"

// Business codes.
const (
	OK           = 0
	NoLogin      = -101
	AccessDenied = -403
	RequestErr   = -400
	ParamErr     = -401
	NotFound     = -404
	Conflict     = -409
	ServerErr    = -500
)

var messages = map[int]string{
	OK:           "ok",
	NoLogin:      "Account not logged in",
	AccessDenied: "Access denied",
	RequestErr:   "Invalid request",
	ParamErr:     "Invalid parameters",
	NotFound:     "Resource not found",
	Conflict:     "Resource conflict",
	ServerErr:    "Internal server error",
}

var statuses = map[int]int{
	OK:           http.StatusOK,
	NoLogin:      http.StatusUnauthorized,
	AccessDenied: http.StatusForbidden,
	RequestErr:   http.StatusBadRequest,
	ParamErr:     http.StatusBadRequest,
	NotFound:     http.StatusNotFound,
	Conflict:     http.StatusConflict,
	ServerErr:    http.StatusInternalServerError,
}

// Text returns the default message for a code.
func Text(code int) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return messages[ServerErr]
}

// ToHTTPStatus maps a business code to an HTTP status.
func ToHTTPStatus(code int) int {
	if status, ok := statuses[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
