package resp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/classroom/ecode"
	"github.com/ncobase/classroom/logging/logger"
)

var errStoreDown = errors.New("server selection timeout")

func storeClassifier(err error) *ecode.Error {
	if errors.Is(err, errStoreDown) {
		return ecode.Unavailable(err)
	}
	return nil
}

func newTestRouter(r *Responder, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(r.Middleware(), r.Recovery())
	engine.GET("/", handler)
	return engine
}

func serve(t *testing.T, engine *gin.Engine) (*httptest.ResponseRecorder, Exception) {
	t.Helper()
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	var body Exception
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return w, body
}

func TestResponderTypedErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		kind   ecode.Kind
	}{
		{"validation", ecode.Validation("", map[string]string{"email": "bad"}), 400, ecode.KindValidation},
		{"authentication", ecode.Authentication("Invalid credentials"), 401, ecode.KindAuthentication},
		{"authorization", ecode.Authorization("Insufficient permissions"), 403, ecode.KindAuthorization},
		{"not found", ecode.NotFound("Task"), 404, ecode.KindNotFound},
		{"duplicate", ecode.Duplicate("Email"), 409, ecode.KindDuplicate},
		{"wrapped", errors.Join(errors.New("ctx"), ecode.Duplicate("Username")), 409, ecode.KindDuplicate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResponder(logger.Discard())
			w, body := serve(t, newTestRouter(r, func(c *gin.Context) { Abort(c, tt.err) }))

			if w.Code != tt.status || body.Status != tt.status {
				t.Errorf("status = %d/%d, want %d", w.Code, body.Status, tt.status)
			}
			if body.Code != tt.kind {
				t.Errorf("code = %s, want %s", body.Code, tt.kind)
			}
			if body.Timestamp.IsZero() {
				t.Error("timestamp missing")
			}
			if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
				t.Errorf("Content-Type = %q", ct)
			}
		})
	}
}

func TestResponderValidationDetails(t *testing.T) {
	r := NewResponder(logger.Discard())
	details := map[string]string{"email": "invalid", "password": "weak"}
	_, body := serve(t, newTestRouter(r, func(c *gin.Context) {
		Abort(c, ecode.Validation("", details))
	}))

	if len(body.Errors) != 2 || body.Errors["password"] != "weak" {
		t.Errorf("errors = %v, want %v", body.Errors, details)
	}
}

func TestResponderUnknownErrorHidesDetail(t *testing.T) {
	var buf bytes.Buffer
	r := NewResponder(logger.NewWithWriter(&buf))
	var reported error
	r.report = func(_ context.Context, err error) { reported = err }

	secret := errors.New("dial tcp 10.0.0.3:27017: password=hunter2")
	w, body := serve(t, newTestRouter(r, func(c *gin.Context) { Abort(c, secret) }))

	if w.Code != http.StatusInternalServerError || body.Code != ecode.KindInternal {
		t.Fatalf("got %d %s, want 500 INTERNAL_ERROR", w.Code, body.Code)
	}
	if body.Message != "Internal server error" {
		t.Errorf("message = %q", body.Message)
	}
	if strings.Contains(w.Body.String(), "10.0.0.3") {
		t.Error("internal detail leaked into the body")
	}
	if !strings.Contains(buf.String(), "10.0.0.3") {
		t.Error("full error was not logged")
	}
	if !errors.Is(reported, secret) {
		t.Error("error was not reported")
	}
}

func TestResponderClassifiesUnavailable(t *testing.T) {
	r := NewResponder(logger.Discard(), storeClassifier)
	r.report = func(context.Context, error) { t.Error("unavailable store must not be reported as a crash") }

	w, body := serve(t, newTestRouter(r, func(c *gin.Context) {
		Abort(c, errors.Join(errors.New("find user"), errStoreDown))
	}))

	if w.Code != http.StatusServiceUnavailable || body.Code != ecode.KindUnavailable {
		t.Fatalf("got %d %s, want 503 DB_CONNECTION_ERROR", w.Code, body.Code)
	}
	if body.Message != "Database unavailable" {
		t.Errorf("message = %q", body.Message)
	}
}

func TestResponderRecoversPanics(t *testing.T) {
	r := NewResponder(logger.Discard())
	r.report = func(context.Context, error) {}

	w, body := serve(t, newTestRouter(r, func(c *gin.Context) { panic("nil map") }))
	if w.Code != http.StatusInternalServerError || body.Code != ecode.KindInternal {
		t.Errorf("got %d %s, want 500", w.Code, body.Code)
	}
}

func TestResponderLeavesWrittenResponses(t *testing.T) {
	r := NewResponder(logger.Discard())
	engine := newTestRouter(r, func(c *gin.Context) {
		Created(c.Writer, map[string]string{"id": "1"})
		_ = c.Error(errors.New("late"))
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", w.Code)
	}
	if strings.Contains(w.Body.String(), "INTERNAL_ERROR") {
		t.Error("error body appended to a written response")
	}
}

func TestSuccessWritesJSON(t *testing.T) {
	w := httptest.NewRecorder()
	Success(w, map[string]int{"total": 3})

	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
	if w.Header().Get("Content-Type") != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", w.Header().Get("Content-Type"))
	}
	if strings.TrimSpace(w.Body.String()) != `{"total":3}` {
		t.Errorf("body = %s", w.Body.String())
	}
}
