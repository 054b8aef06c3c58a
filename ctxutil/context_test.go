package ctxutil

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestEnsureTraceID(t *testing.T) {
	ctx, id := EnsureTraceID(context.Background())
	if id == "" {
		t.Fatal("expected a generated trace id")
	}

	again, same := EnsureTraceID(ctx)
	if same != id {
		t.Errorf("expected existing trace id %q to be kept, got %q", id, same)
	}
	if GetTraceID(again) != id {
		t.Errorf("trace id not readable from context")
	}
}

func TestValuesVisibleThroughGinContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	ctx := WithGinContext(context.Background(), c)
	ctx = SetUserID(ctx, "u1")
	_ = SetUserRole(ctx, "teacher")

	if v, ok := c.Get(userIDKey); !ok || v != "u1" {
		t.Errorf("expected user id on gin context, got %v", v)
	}
	// Role was only set through a discarded derived ctx, so it must come from gin.
	if got := GetUserRole(ctx); got != "teacher" {
		t.Errorf("expected role from gin context, got %q", got)
	}
}

func TestWithAsyncContextSurvivesParentCancel(t *testing.T) {
	parent, cancel := context.WithCancel(SetUserID(context.Background(), "u1"))
	ctx, stop := WithAsyncContext(parent, time.Second)
	defer stop()

	cancel()
	if ctx.Err() != nil {
		t.Fatalf("detached context cancelled with parent: %v", ctx.Err())
	}
	if GetUserID(ctx) != "u1" {
		t.Error("detached context lost parent values")
	}
}
