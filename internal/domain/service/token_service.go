package service

import (
	"time"

	"github.com/google/uuid"
)

// TokenClaims is the validated content of a JWT issued by this service.
type TokenClaims struct {
	ProfileID uuid.UUID
	RoleID    *int
	TokenType string
}

// TokenService defines operations for issuing and validating session tokens.
type TokenService interface {
	// GenerateTokens creates a new access/refresh token pair for a profile.
	// The role id travels in the access token for stateless gating.
	GenerateTokens(profileID uuid.UUID, roleID *int) (accessToken string, refreshToken string, err error)

	// ValidateAccessToken checks an access token and returns its claims.
	ValidateAccessToken(tokenString string) (*TokenClaims, error)

	// ValidateRefreshToken checks a refresh token and returns its claims.
	ValidateRefreshToken(tokenString string) (*TokenClaims, error)

	// HashToken produces the storage hash of a refresh token.
	HashToken(tokenString string) string

	// GetRefreshTokenDuration returns the configured refresh token TTL.
	GetRefreshTokenDuration() time.Duration
}
