// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"classtrack/internal/dedup"
	"classtrack/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrProfileNotFound is a domain-specific error returned when a profile is not found.
var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepository defines the standard operations for profile persistence.
// The application layer depends on this interface, not the concrete implementation.
type ProfileRepository interface {
	// FindByID retrieves a single profile by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error)

	// Create persists a new profile.
	Create(ctx context.Context, profile *entity.Profile) error

	// Update modifies an existing profile.
	Update(ctx context.Context, profile *entity.Profile) error

	// Upsert writes the profile keyed by id, recreating the row if it was
	// concurrently deleted. The merge executor relies on this when writing
	// resolved attributes onto the canonical target.
	Upsert(ctx context.Context, profile *entity.Profile) error

	// Delete removes the profile row by id. Deleting an absent row is not
	// an error; the returned bool reports whether a row was removed.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// ListIdentityKeys loads the minimal id/email/name projection of every
	// profile for duplicate grouping.
	ListIdentityKeys(ctx context.Context) ([]dedup.ProfileKeys, error)

	// ListMergeStats loads name and timestamps for the given profiles.
	// Activity counts are filled in separately by the activity repository.
	ListMergeStats(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]dedup.MemberStats, error)
}
