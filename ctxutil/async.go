package ctxutil

import (
	"context"
	"time"
)

// DefaultAsyncTimeout bounds work detached from a request
const DefaultAsyncTimeout = 5 * time.Second

// WithAsyncContext returns a context that keeps parent's values (trace id,
// principal) but is not cancelled with it. Use it for writes that must
// finish even if the client goes away.
func WithAsyncContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout == 0 {
		timeout = DefaultAsyncTimeout
	}
	return context.WithTimeout(context.WithoutCancel(parent), timeout)
}
