package middleware

import (
	"github.com/gin-gonic/gin"
)

// SecureHeaders sets the response headers shared by the page and the API.
// HSTS is only sent in production where TLS terminates in front of us.
func SecureHeaders(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		if production {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}
