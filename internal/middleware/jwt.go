package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"pizza_delivery/internal/utils" // JWT utility functions

	"github.com/gin-gonic/gin" // Gin web framework
)

// Context keys set by the auth middlewares
const (
	UsernameKey = "username"
	UserKey     = "user"
)

// AccessTokenMiddleware requires a valid access token and stores its subject in context
func AccessTokenMiddleware(tokens *utils.TokenService) gin.HandlerFunc {
	return bearerMiddleware(tokens.RequireAccess, "Token is invalid")
}

// RefreshTokenMiddleware requires a valid refresh token and stores its subject in context
func RefreshTokenMiddleware(tokens *utils.TokenService) gin.HandlerFunc {
	return bearerMiddleware(tokens.RequireRefresh, "Invalid refresh token")
}

func bearerMiddleware(require func(string) (string, error), invalidMsg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ") // Extract the token string
		subject, err := require(tokenStr)                     // Validate the token kind and signature
		if err != nil {
			// If validation fails, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": invalidMsg})
			return
		}
		c.Set(UsernameKey, subject) // Store username in context
		c.Next()                    // Proceed to the next handler
	}
}
