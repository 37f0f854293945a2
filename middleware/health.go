package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthPath default liveness endpoint
const HealthPath = "/health"

// HealthHandler answers liveness probes with the process uptime
func HealthHandler(startedAt time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "alive",
			"uptime": time.Since(startedAt).Round(time.Second).String(),
		})
	}
}
