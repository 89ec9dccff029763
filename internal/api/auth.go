package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes

	"pizza_delivery/internal/domain"     // Importing domain models
	"pizza_delivery/internal/middleware" // Context keys
	"pizza_delivery/internal/store"      // Credential store
	"pizza_delivery/internal/utils"      // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// Request struct for signup
type SignUpRequest struct {
	Username string `json:"username" binding:"required,max=25"`    // Username must be provided
	Email    string `json:"email" binding:"required,email,max=80"` // Email must be a valid address
	Password string `json:"password" binding:"required"`           // Password must be provided
	IsActive *bool  `json:"is_active"`                             // Defaults to true
	IsStaff  *bool  `json:"is_staff"`                              // Defaults to false
}

// Request struct for login
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// Response struct for login
type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`  // Short-lived access token
	RefreshToken string `json:"refresh_token"` // Long-lived refresh token
}

// Response struct for refresh
type AccessTokenResponse struct {
	AccessToken string `json:"access_token"` // Fresh access token
}

// AuthStatusHandler confirms the caller holds a valid access token
func AuthStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Hello world from auth route"})
	}
}

// SignUpHandler registers a new user
func SignUpHandler(users *store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignUpRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Hash the password
		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			// If hashing fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		user := domain.User{
			Username: req.Username,
			Email:    req.Email,
			Password: hash,
			IsActive: req.IsActive == nil || *req.IsActive, // Active unless told otherwise
			IsStaff:  req.IsStaff != nil && *req.IsStaff,   // Customer unless told otherwise
		}
		// Attempt to create the user in the database
		if err := users.Create(c.Request.Context(), &user); err != nil {
			switch {
			case errors.Is(err, store.ErrDuplicateEmail):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
			case errors.Is(err, store.ErrDuplicateUsername):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Username already registered"})
			default:
				logrus.WithFields(logrus.Fields{
					"username": req.Username, // Requested username
					"error":    err.Error(),  // Error message
				}).Error("Failed to create user")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			}
			return
		}
		// Log successful signup
		logrus.WithFields(logrus.Fields{
			"user_id":  user.ID,      // User ID
			"is_staff": user.IsStaff, // Role flag
			"type":     "signup",     // Event type
		}).Info("User registered")
		// The password hash is excluded from the JSON encoding
		c.JSON(http.StatusCreated, user)
	}
}

// LoginHandler authenticates a user and returns an access and a refresh token
func LoginHandler(users *store.UserStore, tokens *utils.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		user, err := users.FindByUsername(c.Request.Context(), req.Username) // Fetch user from database
		if err != nil && !errors.Is(err, store.ErrUserNotFound) {
			logrus.WithField("error", err.Error()).Error("Failed to load user for login")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
			return
		}
		// Unknown user and wrong password look the same to the caller
		if user == nil || !utils.CheckPassword(user.Password, req.Password) {
			logrus.WithField("username", req.Username).Warn("Login failed")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}
		access, err := tokens.IssueAccess(user.Username)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		refresh, err := tokens.IssueRefresh(user.Username)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		// Return the tokens in the response
		c.JSON(http.StatusOK, TokenPairResponse{AccessToken: access, RefreshToken: refresh})
	}
}

// RefreshHandler mints a new access token for the subject of a valid refresh token.
// The refresh token itself is not rotated.
func RefreshHandler(tokens *utils.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.GetString(middleware.UsernameKey) // Set by RefreshTokenMiddleware
		access, err := tokens.IssueAccess(username)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		c.JSON(http.StatusOK, AccessTokenResponse{AccessToken: access})
	}
}
