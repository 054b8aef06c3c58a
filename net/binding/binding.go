package binding

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/classroom/ecode"
)

// JSON decodes the request body into dst. Malformed or oversized bodies
// fail with a validation error; field rules are checked by the services.
func JSON(c *gin.Context, dst any) error {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return nil
	}

	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return ecode.Validation("Request body too large", nil).Wrap(err)
	case errors.Is(err, io.EOF):
		return ecode.Validation("Request body is required", nil).Wrap(err)
	default:
		return ecode.Validation("Invalid request body", nil).Wrap(err)
	}
}

// LimitBody caps the request body at n bytes.
func LimitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if n > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}
