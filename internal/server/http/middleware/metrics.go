package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// RequestObserver records request counts and latency.
type RequestObserver interface {
	ObserveRequest(handler string, status int, elapsed time.Duration)
}

// Metrics reports every request under its route template.
func Metrics(observer RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		observer.ObserveRequest(route, c.Writer.Status(), time.Since(start))
	}
}
