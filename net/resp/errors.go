package resp

import (
	"net/http"

	"github.com/ncobase/staffing/ecode"
)

// BadRequest indicates a bad request.
func BadRequest(message string, data ...any) *Exception {
	return newException(http.StatusBadRequest, ecode.ParamErr, message, data...)
}

// UnAuthorized indicates that the request is unauthorized.
func UnAuthorized(message string, data ...any) *Exception {
	return newException(http.StatusUnauthorized, ecode.NoLogin, message, data...)
}

// Forbidden indicates access is forbidden.
func Forbidden(message string, data ...any) *Exception {
	return newException(http.StatusForbidden, ecode.AccessDenied, message, data...)
}

// NotFound indicates that the requested resource is not found.
func NotFound(message string, data ...any) *Exception {
	return newException(http.StatusNotFound, ecode.NotFound, message, data...)
}

// Conflict indicates a conflict error.
func Conflict(message string, data ...any) *Exception {
	return newException(http.StatusConflict, ecode.Conflict, message, data...)
}

// InternalServer indicates a server error.
func InternalServer(message string, data ...any) *Exception {
	return newException(http.StatusInternalServerError, ecode.ServerErr, message, data...)
}

// FromError converts a service error into a failure response.
func FromError(err error) *Exception {
	e := ecode.FromError(err)
	if e == nil {
		return nil
	}
	return newException(ecode.ToHTTPStatus(e.Code), e.Code, e.Message)
}
