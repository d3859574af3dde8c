package utils

import "github.com/gin-gonic/gin"

// Error writes the shared `{"error": <message>}` payload with the given
// status code.
func Error(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{
		"error": msg,
	})
}
