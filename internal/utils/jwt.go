package utils

import (
	"errors" // Sentinel errors
	"time"   // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
	"github.com/google/uuid"       // Token identifiers
)

// Token kinds stored in the "type" claim
const (
	AccessToken  = "access"
	RefreshToken = "refresh"
)

// ErrInvalidToken is returned for any token that fails validation
var ErrInvalidToken = errors.New("invalid token")

// JWT Claims
type Claims struct {
	Type                 string `json:"type"` // Token kind: access or refresh
	jwt.RegisteredClaims        // Standard JWT claims, Subject holds the username
}

// TokenService issues and validates access and refresh tokens signed with one secret
type TokenService struct {
	secret     []byte        // HMAC secret
	accessTTL  time.Duration // Access token lifetime
	refreshTTL time.Duration // Refresh token lifetime
	now        func() time.Time
}

// NewTokenService creates a TokenService
func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// IssueAccess creates a short-lived access token for subject
func (s *TokenService) IssueAccess(subject string) (string, error) {
	return s.issue(subject, AccessToken, s.accessTTL)
}

// IssueRefresh creates a long-lived refresh token for subject
func (s *TokenService) IssueRefresh(subject string) (string, error) {
	return s.issue(subject, RefreshToken, s.refreshTTL)
}

// RequireAccess validates an access token and returns its subject
func (s *TokenService) RequireAccess(tokenStr string) (string, error) {
	return s.require(tokenStr, AccessToken)
}

// RequireRefresh validates a refresh token and returns its subject
func (s *TokenService) RequireRefresh(tokenStr string) (string, error) {
	return s.require(tokenStr, RefreshToken)
}

func (s *TokenService) issue(subject, kind string, ttl time.Duration) (string, error) {
	now := s.now()
	// Set token claims
	claims := Claims{
		Type: kind, // Token kind
		// Standard claims
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),                 // Unique token id
			Subject:   subject,                          // Username
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)), // Expiry
			IssuedAt:  jwt.NewNumericDate(now),          // Issued at current time
			NotBefore: jwt.NewNumericDate(now),          // Valid from now on
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString(s.secret)                        // Sign the token with the secret
}

func (s *TokenService) require(tokenStr, kind string) (string, error) {
	claims, err := s.parse(tokenStr)
	if err != nil {
		return "", err
	}
	// Access and refresh tokens are not interchangeable
	if claims.Type != kind || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// parse parses and validates a JWT token string
func (s *TokenService) parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return s.secret, nil // Return the secret key for validation
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), // Reject alg switching
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	// Check for parsing errors
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	// Validate token and extract claims
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil // Return claims if valid
	}
	return nil, ErrInvalidToken
}
