package utils

import (
	"github.com/gin-gonic/gin"
)

// JSONResponse sends a structured JSON response
func JSONResponse(c *gin.Context, status int, data any, message string) {
	c.JSON(status, gin.H{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

// JSONError sends a structured error response. Only the public message and the
// error kind leave the process; the wrapped error chain stays in the logs.
func JSONError(c *gin.Context, status int, kind string, message string) {
	c.JSON(status, gin.H{
		"status":  status,
		"message": message,
		"error":   kind,
	})
}
