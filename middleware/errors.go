package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ZacIsrael/dev-camper-api/errs"
	"github.com/ZacIsrael/dev-camper-api/log"
)

// ErrorHandler renders the last error recorded with c.Error as
// {"success": false, "error": msg}.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status := errs.Status(err)
		if status >= http.StatusInternalServerError {
			log.Logger.Error("request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.String("requestId", c.GetString(requestIDKey)),
				zap.Error(err),
			)
		}
		c.JSON(status, gin.H{"success": false, "error": errs.Message(err)})
	}
}

// Recovery turns panics into a 500 response in the same envelope.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Logger.Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.Stack("stack"),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Server Error"})
	})
}

// NotFound answers unknown routes.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		_ = c.Error(errs.E(errs.ErrNotFound, "Route %s %s not found", c.Request.Method, c.Request.URL.Path))
	}
}

var errTooMany = errors.New("too many requests")
