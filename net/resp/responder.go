package resp

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/classroom/ctxutil"
	"github.com/ncobase/classroom/ecode"
	"github.com/ncobase/classroom/logging/logger"
	"github.com/ncobase/classroom/logging/observes"
)

// Classifier maps an error family onto a typed error, or returns nil when
// err is not one of its family.
type Classifier func(err error) *ecode.Error

// Responder renders the error recorded on a request.
type Responder struct {
	log         *logger.Logger
	classifiers []Classifier
	report      func(ctx context.Context, err error)
}

// NewResponder creates a responder; classifiers run before typed errors
// are inspected.
func NewResponder(log *logger.Logger, classifiers ...Classifier) *Responder {
	if log == nil {
		log = logger.Discard()
	}
	return &Responder{
		log:         log,
		classifiers: classifiers,
		report:      observes.CaptureError,
	}
}

// Resolve maps any error onto the typed error sent to the client.
func (r *Responder) Resolve(err error) *ecode.Error {
	for _, classify := range r.classifiers {
		if e := classify(err); e != nil {
			return e
		}
	}
	if e, ok := ecode.As(err); ok {
		return e
	}
	return ecode.Internal(err)
}

// Render writes err as the response body and logs it.
func (r *Responder) Render(c *gin.Context, err error) {
	ctx := ctxutil.WithGinContext(c.Request.Context(), c)
	e := r.Resolve(err)

	switch {
	case e.Status >= http.StatusInternalServerError && e.Kind != ecode.KindUnavailable:
		r.log.Error(ctx, "request failed",
			"method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
		r.report(ctx, err)
	case e.Kind == ecode.KindUnavailable:
		r.log.Warn(ctx, "database unavailable",
			"method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
	default:
		r.log.Debug(ctx, "request rejected",
			"path", c.Request.URL.Path, "kind", string(e.Kind), "message", e.Message)
	}

	c.Abort()
	Fail(c.Writer, NewException(e))
}

// Middleware renders the last error recorded with Abort once the handler
// chain returns, unless a response was already written.
func (r *Responder) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		r.Render(c, c.Errors.Last().Err)
	}
}

// Recovery turns a handler panic into a 500 rendered by the middleware.
func (r *Responder) Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		Abort(c, fmt.Errorf("panic recovered: %v", recovered))
	})
}

// Abort records err for the responder and stops the handler chain.
func Abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
