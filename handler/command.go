package handler

import "github.com/gin-gonic/gin"

// command tags the request with the frontend command it serves, for the
// request log
func command(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("command", name)
		c.Next()
	}
}
