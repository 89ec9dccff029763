package middleware

import (
	"context"  // Request context
	"errors"   // Error matching
	"net/http" // HTTP status codes

	"pizza_delivery/internal/domain" // Importing domain models
	"pizza_delivery/internal/store"  // Credential store

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// UserFinder resolves a token subject to a user
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}

// CurrentUserMiddleware loads the user named by the token subject, run it after AccessTokenMiddleware
func CurrentUserMiddleware(users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.GetString(UsernameKey) // Get username from context
		if username == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		user, err := users.FindByUsername(c.Request.Context(), username)
		if errors.Is(err, store.ErrUserNotFound) {
			// The token outlived its user
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"username": username,    // Token subject
				"error":    err.Error(), // Error message
			}).Error("Failed to load current user")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
			return
		}
		c.Set(UserKey, user) // Store user in context
		c.Next()
	}
}

// CurrentUser returns the user stored by CurrentUserMiddleware
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(UserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok && user != nil
}
