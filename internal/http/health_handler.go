package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health maneja GET /api/health. Solo confirma que el proceso responde.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
