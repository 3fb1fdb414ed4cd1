package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const identityKey = "auth.user_id"

// RequireAuth rejects requests without a valid Bearer token and stores the
// verified user id in the request context for downstream handlers.
func RequireAuth(tokens *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Missing Authorization header",
			})
			return
		}

		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header must be a Bearer token",
			})
			return
		}

		userID, err := tokens.Verify(strings.TrimSpace(tokenString))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			return
		}

		c.Set(identityKey, userID)
		c.Next()
	}
}

// Identity returns the verified user id placed in the context by RequireAuth.
func Identity(c *gin.Context) (uint, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}
