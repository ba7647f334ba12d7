package utils

import "github.com/gin-gonic/gin"

func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

// JSONList adds the count field the list envelope carries.
func JSONList(c *gin.Context, code int, count int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "count": count, "data": data})
}

func JSONError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "error": message})
}
