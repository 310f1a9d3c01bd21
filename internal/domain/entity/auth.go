package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProviderType identifies the sign-in path that created an authentication.
type ProviderType string

const (
	// ProviderTypeEmail is classic email + password authentication.
	ProviderTypeEmail ProviderType = "email"
	// ProviderTypeGoogle is Google Sign-In. Accounts created here are a
	// common source of duplicate profiles for the same person.
	ProviderTypeGoogle ProviderType = "google"
)

// Authentication links one sign-in credential to a Profile. A profile can
// hold several authentications; profile emails are deliberately not unique,
// so the same person signing in through two providers yields two profiles.
type Authentication struct {
	ID             uuid.UUID
	ProfileID      uuid.UUID
	Provider       ProviderType
	ProviderUserID string
	PasswordHash   string // Only set for the email provider.
	CreatedAt      time.Time
}

// RefreshToken is one active session for a profile.
type RefreshToken struct {
	ID        uuid.UUID
	ProfileID uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Device is a push-notification target registered by a profile.
type Device struct {
	ID        uuid.UUID
	ProfileID uuid.UUID
	FCMToken  string
	Platform  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
