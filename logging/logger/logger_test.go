package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ncobase/classroom/ctxutil"
	"github.com/ncobase/classroom/logging/logger/config"
	"github.com/sirupsen/logrus"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	return entry
}

func TestLoggerKeyValuesAndTraceID(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf)

	ctx := ctxutil.SetTraceID(context.Background(), "trace-1")
	l.Info(ctx, "user registered", "user_id", "u1", "error", errors.New("boom"))

	entry := decodeLine(t, &buf)
	if entry["msg"] != "user registered" {
		t.Errorf("unexpected msg: %v", entry["msg"])
	}
	if entry["user_id"] != "u1" {
		t.Errorf("expected user_id field, got %v", entry["user_id"])
	}
	if entry["error"] != "boom" {
		t.Errorf("expected error rendered as string, got %v", entry["error"])
	}
	if entry[ctxutil.TraceIDKey] != "trace-1" {
		t.Errorf("expected trace id, got %v", entry[ctxutil.TraceIDKey])
	}
}

func TestLoggerMasksSecrets(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf)

	l.Warn(context.Background(), "login attempt",
		"email", "a@x.com",
		"password", "Abcdef1!",
		"body", map[string]any{"refreshToken": "abc.def.ghi", "page": 2},
	)

	entry := decodeLine(t, &buf)
	if entry["password"] != "******" {
		t.Errorf("password not masked: %v", entry["password"])
	}
	if entry["email"] != "a@x.com" {
		t.Errorf("email should be kept, got %v", entry["email"])
	}
	body, _ := entry["body"].(map[string]any)
	if body["refreshToken"] != "******" {
		t.Errorf("nested token not masked: %v", body["refreshToken"])
	}
	if body["page"] != float64(2) {
		t.Errorf("nested non secret changed: %v", body["page"])
	}
}

func TestLoggerOddKeyValues(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf)

	l.Error(context.Background(), "dangling", "only_key")

	entry := decodeLine(t, &buf)
	if entry["only_key"] != "(MISSING)" {
		t.Errorf("expected placeholder for missing value, got %v", entry["only_key"])
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, _, err := New(&config.Config{Level: "loud"}); err == nil {
		t.Error("expected error for unknown level")
	}

	l, cleanup, err := New(&config.Config{Level: "debug", Format: "text"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer cleanup()
	if !l.IsLevelEnabled(logrus.DebugLevel) {
		t.Error("debug should be enabled")
	}
}
