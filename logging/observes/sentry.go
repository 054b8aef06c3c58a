package observes

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/ncobase/classroom/ctxutil"
)

type SentryOptions struct {
	Dsn         string
	Name        string
	Release     string
	Environment string
}

// NewSentry initializes the global sentry client. A nil option or empty
// DSN leaves reporting disabled. The returned flush waits for buffered
// events on shutdown.
func NewSentry(opt *SentryOptions) (func(), error) {
	if opt == nil || opt.Dsn == "" {
		return func() {}, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              opt.Dsn,
		AttachStacktrace: true,
		ServerName:       opt.Name,
		Release:          opt.Release,
		Environment:      opt.Environment,
	})
	if err != nil {
		return nil, err
	}

	return func() { sentry.Flush(2 * time.Second) }, nil
}

// CaptureError reports err with the request trace id as a tag. It is a
// no-op when sentry was never initialized.
func CaptureError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	hub := sentry.CurrentHub().Clone()
	if traceID := ctxutil.GetTraceID(ctx); traceID != "" {
		hub.ConfigureScope(func(scope *sentry.Scope) {
			scope.SetTag("trace_id", traceID)
		})
	}
	hub.CaptureException(err)
}
