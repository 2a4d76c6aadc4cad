package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/chvvasss/gastrotech-website-sub001/internal/shared/response"
)

// AdminGate guards the admin routes with a shared token. Real
// authentication lives in the surrounding platform; this is only the
// boundary check the import center needs.
func AdminGate(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// No token configured: development mode, gate is open.
		if token == "" {
			c.Next()
			return
		}

		provided := c.GetHeader("X-Admin-Token")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			response.Unauthorized(c, "invalid admin token")
			c.Abort()
			return
		}

		c.Next()
	}
}
