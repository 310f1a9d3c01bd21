package repository

import (
	"context"
	"errors"

	"classtrack/internal/domain/entity"
)

// ErrAuthNotFound is returned when no authentication matches the lookup.
var ErrAuthNotFound = errors.New("authentication not found")

// AuthRepository defines persistence operations for sign-in credentials.
type AuthRepository interface {
	// FindAuthentication looks up a credential by provider and the
	// provider's user identifier (the email for the email provider).
	FindAuthentication(ctx context.Context, provider entity.ProviderType, providerUserID string) (*entity.Authentication, error)

	// CreateAuthentication persists a new credential.
	CreateAuthentication(ctx context.Context, auth *entity.Authentication) error
}
