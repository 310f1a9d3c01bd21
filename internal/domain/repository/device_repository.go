package repository

import (
	"context"
	"errors"

	"classtrack/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrDuplicateDevice is returned when the same token is registered twice.
var ErrDuplicateDevice = errors.New("device already registered")

// DeviceRepository defines persistence operations for push-notification devices.
type DeviceRepository interface {
	// CreateDevice persists a new device registration.
	CreateDevice(ctx context.Context, device *entity.Device) error

	// ListActiveByProfile retrieves the active devices of a profile.
	ListActiveByProfile(ctx context.Context, profileID uuid.UUID) ([]*entity.Device, error)

	// DeactivateTokens marks the given FCM tokens inactive. Used after the
	// push service reports them invalid or unregistered.
	DeactivateTokens(ctx context.Context, tokens []string) error
}

// RoleRepository resolves role ids to named roles.
type RoleRepository interface {
	// FindByID retrieves a role by its integer id.
	FindByID(ctx context.Context, id int) (*entity.Role, error)

	// FindByName retrieves a role by its name.
	FindByName(ctx context.Context, name string) (*entity.Role, error)
}

// ErrRoleNotFound is returned when a role id or name has no match.
var ErrRoleNotFound = errors.New("role not found")
