package middleware

import (
	"github.com/gin-gonic/gin"

	apperrors "inventory/internal/errors"
	"inventory/internal/logger"
)

// ErrorHandler renders the last error a handler attached with c.Error,
// unless the handler already wrote a response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		appErr, known := apperrors.Resolve(err)
		log := logger.Named("http").With("path", c.Request.URL.Path, "method", c.Request.Method)
		if !known {
			log.Errorw("unhandled error", "error", err)
		} else if appErr.Internal != nil {
			log.Errorw("request failed", "code", appErr.Code, "internal", appErr.Internal)
		}
		c.JSON(appErr.StatusCode, apperrors.Envelope{Error: appErr})
	}
}
