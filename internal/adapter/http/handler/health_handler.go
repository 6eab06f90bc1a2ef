package handler

import (
	"context"
	"net/http"
	"time"

	"cnc-fabbook/internal/core/ports"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports liveness plus the state of each wired dependency.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		deps := gin.H{}
		for _, checker := range checkers {
			if err := checker.Check(ctx); err != nil {
				deps[checker.Name()] = "unreachable"
				status = http.StatusServiceUnavailable
				continue
			}
			deps[checker.Name()] = "ok"
		}
		c.JSON(status, gin.H{
			"status":       statusWord(status),
			"time":         time.Now().UTC().Format(time.RFC3339),
			"dependencies": deps,
		})
	}
}

func statusWord(status int) string {
	if status == http.StatusOK {
		return "healthy"
	}
	return "degraded"
}
