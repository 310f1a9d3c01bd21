package repository

import (
	"context"
	"errors"

	"classtrack/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrActivityNotFound is returned when an activity is not found.
var ErrActivityNotFound = errors.New("activity not found")

// ActivityRepository defines persistence operations for activity records.
type ActivityRepository interface {
	// FindByID retrieves a single activity.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Activity, error)

	// ListByOwner retrieves all activities owned by a profile, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Activity, error)

	// Create persists a new activity.
	Create(ctx context.Context, activity *entity.Activity) error

	// Update modifies an existing activity.
	Update(ctx context.Context, activity *entity.Activity) error

	// Delete removes an activity.
	Delete(ctx context.Context, id uuid.UUID) error

	// CountByOwners returns the activity count per owner for the given ids.
	// Owners with no activity are present with a zero count.
	CountByOwners(ctx context.Context, ownerIDs []uuid.UUID) (map[uuid.UUID]int64, error)

	// ReassignOwner re-parents every activity owned by fromID onto toID and
	// returns the number of rows moved. Moving zero rows is success.
	ReassignOwner(ctx context.Context, fromID, toID uuid.UUID) (int64, error)
}
