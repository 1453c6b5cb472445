package middleware

import (
	"entrepotes-listings/internal/errors"
	"entrepotes-listings/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler turns the last error attached to the context into a JSON error
// body. Handlers that already wrote a response are left alone.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		appErr := errors.MapError(c.Errors.Last().Err)
		logger.GlobalLogger.Errorf("Request failed: request_id=%s, path=%s, method=%s, client_ip=%s, code=%s, error=%s",
			RequestID(c),
			c.Request.URL.Path,
			c.Request.Method,
			c.ClientIP(),
			appErr.Code,
			appErr.Error())

		if c.Writer.Written() {
			return
		}
		c.JSON(appErr.HTTPStatus, gin.H{
			"error": gin.H{
				"message": appErr.UserMessage,
				"code":    appErr.Code,
			},
		})
	}
}
