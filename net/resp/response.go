package resp

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ncobase/classroom/ecode"
)

// Exception represents the error response structure.
type Exception struct {
	Status    int               `json:"status"`
	Code      ecode.Kind        `json:"code"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// NewException builds the body for a typed error
func NewException(e *ecode.Error) *Exception {
	if e == nil {
		e = ecode.Internal(nil)
	}
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	status := e.Status
	if status == 0 {
		status = e.Kind.Status()
	}
	return &Exception{
		Status:    status,
		Code:      e.Kind,
		Message:   e.Message,
		Errors:    e.Details,
		Timestamp: ts,
	}
}

// Success writes data with 200.
func Success(w http.ResponseWriter, data any) {
	WithStatusCode(w, http.StatusOK, data)
}

// Created writes data with 201.
func Created(w http.ResponseWriter, data any) {
	WithStatusCode(w, http.StatusCreated, data)
}

// WithStatusCode writes data with a custom status code.
func WithStatusCode(w http.ResponseWriter, statusCode int, data any) {
	if data == nil {
		data = map[string]string{"message": "ok"}
	}
	writeJSON(w, statusCode, data)
}

// Fail writes an error body. A nil exception is rendered as a 500.
func Fail(w http.ResponseWriter, ex *Exception) {
	if ex == nil {
		ex = NewException(nil)
	}
	writeJSON(w, ex.Status, ex)
}

// writeJSON sets headers before the status line, then encodes.
func writeJSON(w http.ResponseWriter, code int, res any) {
	body, err := json.Marshal(res)
	if err != nil {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("Failed to encode response"))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}
