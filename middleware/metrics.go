package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Bossppp/cozy-hotel-bookings/metrics"
)

// Metrics counts finished requests by method, route template and status.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.IncHTTPRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()))
	}
}
