package ecode

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestFromError(t *testing.T) {
	wrapped := fmt.Errorf("lookup: %w", NotFoundErr("task does not exist"))

	e := FromError(wrapped)
	if e.Code != NotFound {
		t.Errorf("FromError().Code = %v, want %v", e.Code, NotFound)
	}
	if e.Message != "task does not exist" {
		t.Errorf("FromError().Message = %q, want %q", e.Message, "task does not exist")
	}

	raw := errors.New("connection reset")
	e = FromError(raw)
	if e.Code != ServerErr {
		t.Errorf("FromError(raw).Code = %v, want %v", e.Code, ServerErr)
	}
	if e.Message != Text(ServerErr) {
		t.Errorf("FromError(raw).Message = %q, want generic message", e.Message)
	}
	if !errors.Is(e, raw) {
		t.Error("FromError(raw) should keep the cause")
	}

	if FromError(nil) != nil {
		t.Error("FromError(nil) should be nil")
	}
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("create: %w", ConflictErr("task is not open"))
	if !Is(err, Conflict) {
		t.Error("Is(err, Conflict) = false, want true")
	}
	if Is(err, NotFound) {
		t.Error("Is(err, NotFound) = true, want false")
	}
	if Is(errors.New("plain"), Conflict) {
		t.Error("Is(plain, Conflict) = true, want false")
	}
}

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		code int
		want int
	}{
		{NoLogin, http.StatusUnauthorized},
		{AccessDenied, http.StatusForbidden},
		{ParamErr, http.StatusBadRequest},
		{NotFound, http.StatusNotFound},
		{Conflict, http.StatusConflict},
		{ServerErr, http.StatusInternalServerError},
		{-9999, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := ToHTTPStatus(tt.code); got != tt.want {
			t.Errorf("ToHTTPStatus(%d) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestMessages(t *testing.T) {
	if got := FieldIsRequired("email"); got != "email required" {
		t.Errorf("FieldIsRequired() = %q", got)
	}
	if got := NotExist(); got != "does not exist" {
		t.Errorf("NotExist() = %q", got)
	}
	if got := New(Conflict, "").Message; got != Text(Conflict) {
		t.Errorf("New() default message = %q", got)
	}
}
