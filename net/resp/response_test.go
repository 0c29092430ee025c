package resp

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ncobase/staffing/ecode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccessWritesPayload(t *testing.T) {
	w := httptest.NewRecorder()
	WithStatusCode(w, http.StatusCreated, map[string]string{"taskId": "T1"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "T1", body["taskId"])
}

func TestSuccessWithMessage(t *testing.T) {
	w := httptest.NewRecorder()
	Success(w, "Request approved successfully")

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Request approved successfully", body["message"])
}

func TestFailFromError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    int
		message string
	}{
		{"conflict", ecode.ConflictErr("task is not open"), http.StatusConflict, ecode.Conflict, "task is not open"},
		{"not found", ecode.NotFoundErr("request does not exist"), http.StatusNotFound, ecode.NotFound, "request does not exist"},
		{"validation", ecode.Validation("action invalid"), http.StatusBadRequest, ecode.ParamErr, "action invalid"},
		{"internal", errors.New("socket closed"), http.StatusInternalServerError, ecode.ServerErr, ecode.Text(ecode.ServerErr)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			Fail(w, FromError(tt.err))

			assert.Equal(t, tt.status, w.Code)
			var body Exception
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}

func TestFailNil(t *testing.T) {
	w := httptest.NewRecorder()
	Fail(w, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestFailCarriesDetails(t *testing.T) {
	w := httptest.NewRecorder()
	Fail(w, BadRequest("Invalid request body", map[string]string{"email": "required"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(ecode.ParamErr), body["code"])
	assert.Equal(t, map[string]any{"email": "required"}, body["errors"])
	assert.NotContains(t, body, "status")
}
