package middlewares

import (
	"github.com/gin-gonic/gin"
)

// LoggingMiddleware returns a gin middleware that logs requests,
// but can optionally skip logging for health check endpoints
func LoggingMiddleware(disableHealthcheckLog bool) gin.HandlerFunc {
	logger := gin.Logger()

	if !disableHealthcheckLog {
		return logger
	}

	return func(c *gin.Context) {
		// Skip logging for health check endpoint when disabled
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		logger(c)
	}
}

// CORSMiddleware adds the CORS headers the browser front-end relies on
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
