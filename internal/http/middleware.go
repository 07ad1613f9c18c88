package http

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ternarybob/arbor"
)

// AdminAuthMiddleware checks the X-Admin-Token header against token.
func AdminAuthMiddleware(token string) gin.HandlerFunc {
	// An empty token would let every request through.
	if token == "" {
		panic("AdminAuthMiddleware: admin token not configured")
	}

	return func(c *gin.Context) {
		supplied := c.GetHeader("X-Admin-Token")
		if supplied == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Admin token required"})
			return
		}
		if subtle.ConstantTimeCompare([]byte(supplied), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden: Invalid admin token"})
			return
		}
		c.Next()
	}
}

// SecurityHeadersMiddleware adds basic security headers. The generated page
// carries its script and styles inline.
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")

		csp := "default-src 'self';"
		csp += " script-src 'self' 'unsafe-inline';"
		csp += " style-src 'self' 'unsafe-inline';"
		csp += " connect-src 'self' ws: wss:;"
		c.Header("Content-Security-Policy", csp)

		c.Next()
	}
}

// RequestLogger logs one line per request through arbor.
func RequestLogger(logger arbor.ILogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		status := c.Writer.Status()
		event := logger.Info()
		switch {
		case status >= 500:
			event = logger.Error()
		case status >= 400:
			event = logger.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Str("ip", c.ClientIP()).
			Dur("latency", time.Since(start)).
			Msg("HTTP request")
	}
}
