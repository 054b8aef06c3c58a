package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ncobase/classroom/logging/logger/config"
	"github.com/sirupsen/logrus"
)

// VersionKey is the field carrying the build version
const VersionKey = "version"

// Logger wraps logrus with context aware, key/value logging
type Logger struct {
	*logrus.Logger
	version      string
	logFile      *os.File
	desensitizer *Desensitizer
}

// New builds a Logger from configuration. The returned cleanup closes the
// log file when output is "file".
func New(c *config.Config) (*Logger, func(), error) {
	l := &Logger{Logger: logrus.New()}

	if c == nil {
		c = &config.Config{}
	}

	if err := l.SetLevelString(c.Level); err != nil {
		return nil, nil, err
	}

	switch c.Format {
	case "text":
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		l.SetFormatter(&logrus.JSONFormatter{})
	}

	switch c.Output {
	case "stderr":
		l.SetOutput(os.Stderr)
	case "file":
		if c.OutputFile == "" {
			return nil, nil, fmt.Errorf("logger: output_file is required when output is file")
		}
		if err := os.MkdirAll(filepath.Dir(c.OutputFile), 0o755); err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(c.OutputFile, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
		if err != nil {
			return nil, nil, err
		}
		l.logFile = f
		l.SetOutput(f)
	default:
		l.SetOutput(os.Stdout)
	}

	l.desensitizer = NewDesensitizer(c.Desensitization)

	return l, func() {
		if l.logFile != nil {
			_ = l.logFile.Close()
		}
	}, nil
}

// Discard returns a logger that drops everything, for tests.
func Discard() *Logger {
	l := &Logger{Logger: logrus.New(), desensitizer: NewDesensitizer(nil)}
	l.SetOutput(io.Discard)
	return l
}

// NewWithWriter returns a JSON logger writing to w.
func NewWithWriter(w io.Writer) *Logger {
	l := &Logger{Logger: logrus.New(), desensitizer: NewDesensitizer(nil)}
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetOutput(w)
	l.SetLevel(logrus.DebugLevel)
	return l
}

// SetVersion sets the version for logging
func (l *Logger) SetVersion(v string) {
	l.version = v
}

// SetLevelString parses and applies a level name, "" meaning info.
func (l *Logger) SetLevelString(level string) error {
	if level == "" {
		l.SetLevel(logrus.InfoLevel)
		return nil
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	l.SetLevel(lvl)
	return nil
}

// entryFromContext creates a new log entry with fields from context
func (l *Logger) entryFromContext(ctx context.Context, kv []any) *logrus.Entry {
	fields := logrus.Fields{}

	if traceID := getTraceID(ctx); traceID != "" {
		fields[traceKey] = traceID
	}
	if l.version != "" {
		fields[VersionKey] = l.version
	}

	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		if i+1 >= len(kv) {
			fields[key] = "(MISSING)"
			break
		}
		val := kv[i+1]
		if err, isErr := val.(error); isErr && err != nil {
			val = err.Error()
		}
		fields[key] = val
	}

	if l.desensitizer != nil {
		fields = l.desensitizer.DesensitizeFields(fields)
	}

	return l.WithFields(fields)
}

func (l *Logger) log(ctx context.Context, level logrus.Level, msg string, kv []any) {
	if !l.IsLevelEnabled(level) {
		return
	}
	l.entryFromContext(ctx, kv).Log(level, msg)
}

// Debug logs msg with key/value pairs at debug level.
func (l *Logger) Debug(ctx context.Context, msg string, kv ...any) {
	l.log(ctx, logrus.DebugLevel, msg, kv)
}

// Info logs msg with key/value pairs at info level.
func (l *Logger) Info(ctx context.Context, msg string, kv ...any) {
	l.log(ctx, logrus.InfoLevel, msg, kv)
}

// Warn logs msg with key/value pairs at warn level.
func (l *Logger) Warn(ctx context.Context, msg string, kv ...any) {
	l.log(ctx, logrus.WarnLevel, msg, kv)
}

// Error logs msg with key/value pairs at error level.
func (l *Logger) Error(ctx context.Context, msg string, kv ...any) {
	l.log(ctx, logrus.ErrorLevel, msg, kv)
}
