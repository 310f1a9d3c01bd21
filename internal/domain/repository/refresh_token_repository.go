package repository

import (
	"context"
	"errors"

	"classtrack/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrRefreshTokenNotFound is returned when a refresh token hash has no match.
var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// RefreshTokenRepository defines persistence operations for session tokens.
type RefreshTokenRepository interface {
	// CreateRefreshToken persists a new session token.
	CreateRefreshToken(ctx context.Context, token *entity.RefreshToken) error

	// FindRefreshTokenByHash retrieves an unexpired token by its hash.
	FindRefreshTokenByHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error)

	// DeleteRefreshTokenByHash removes a token by its hash.
	DeleteRefreshTokenByHash(ctx context.Context, tokenHash string) error

	// DeleteRefreshTokensByProfileID removes every session of a profile.
	DeleteRefreshTokensByProfileID(ctx context.Context, profileID uuid.UUID) error

	// CountActiveSessionsByProfileID counts unexpired tokens for a profile.
	CountActiveSessionsByProfileID(ctx context.Context, profileID uuid.UUID) (int, error)
}
