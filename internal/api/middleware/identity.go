package middleware

import "github.com/gin-gonic/gin"

// Identity propagates the caller id set by the upstream gateway. The engine
// does not authenticate; it only scopes data to the X-User-Id it is handed.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.GetHeader("X-User-Id"); id != "" {
			c.Set("user_id", id)
		}
		c.Next()
	}
}
