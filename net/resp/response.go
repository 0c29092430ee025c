package resp

import (
	"encoding/json"
	"net/http"

	"github.com/ncobase/staffing/ecode"
)

// Exception is a failure body. Status selects the HTTP status and is not
// serialized.
type Exception struct {
	Status  int    `json:"-"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Errors  any    `json:"errors,omitempty"`
}

func (e *Exception) Error() string { return e.Message }

func newException(status, code int, message string, details ...any) *Exception {
	e := &Exception{Status: status, Code: code, Message: message}
	if len(details) > 0 {
		e.Errors = details[0]
	}
	return e
}

// Success writes a 200 response. See WithStatusCode.
func Success(w http.ResponseWriter, data ...any) {
	WithStatusCode(w, http.StatusOK, data...)
}

// WithStatusCode writes a success response. The payload is the body as is;
// a string payload becomes {"message": ...} and no payload {"message": "ok"}.
func WithStatusCode(w http.ResponseWriter, statusCode int, data ...any) {
	var body any = map[string]string{"message": "ok"}
	if len(data) > 0 && data[0] != nil {
		body = data[0]
		if msg, ok := body.(string); ok {
			body = map[string]string{"message": msg}
		}
	}
	writeJSON(w, statusCode, body)
}

// Fail writes a failure response. A nil exception is an internal error.
func Fail(w http.ResponseWriter, e *Exception) {
	if e == nil {
		e = newException(http.StatusInternalServerError, ecode.ServerErr, ecode.Text(ecode.ServerErr))
	}
	status := e.Status
	if status < http.StatusBadRequest {
		status = http.StatusBadRequest
	}
	if e.Code == 0 {
		e.Code = ecode.RequestErr
	}
	if e.Message == "" {
		e.Message = ecode.Text(e.Code)
	}
	writeJSON(w, status, e)
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, "Failed to encode JSON response", http.StatusInternalServerError)
	}
}
