package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CacheControl marks anonymous GET responses as publicly cacheable for
// maxAge seconds. Authenticated or mutating requests get no-store; error
// responses override it with no-store as well.
func CacheControl(maxAge int) gin.HandlerFunc {
	public := fmt.Sprintf("public, max-age=%d", maxAge)
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet && c.GetHeader("Authorization") == "" && maxAge > 0 {
			c.Header("Cache-Control", public)
			c.Header("Vary", "Authorization")
		} else {
			c.Header("Cache-Control", "no-store")
		}
		c.Next()
	}
}
