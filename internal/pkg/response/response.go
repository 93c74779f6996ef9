package response

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// CustomError accepts a string, an error or a field map as the message.
// Internal errors are never echoed to the client.
func CustomError(c *gin.Context, statusCode int, code string, message any) {
	switch m := message.(type) {
	case string:
		Error(c, statusCode, code, m)
	case map[string]string:
		ErrorWithDetails(c, statusCode, code, "Validation failed", m)
	case error:
		if statusCode >= 500 {
			_ = c.Error(m)
			Error(c, statusCode, code, "Internal server error")
			return
		}
		Error(c, statusCode, code, m.Error())
	default:
		Error(c, statusCode, code, fmt.Sprint(m))
	}
}
