package middlewares

import "github.com/gin-gonic/gin"

// CORSMiddlewares allows the storefront SPA at origin. An empty origin
// reflects the caller's Origin header.
func CORSMiddlewares(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		allow := origin
		if allow == "" {
			allow = c.GetHeader("Origin")
		}
		if allow != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allow)
			c.Writer.Header().Set("Vary", "Origin")
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, X-Session-Token, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
