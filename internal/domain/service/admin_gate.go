package service

import (
	"context"

	"github.com/google/uuid"
)

// Caller identifies the authenticated caller of an operation, as extracted
// from their access token by the delivery layer.
type Caller struct {
	ProfileID uuid.UUID
	RoleID    *int
}

// IsAnonymous reports whether no caller identity was resolved.
func (c Caller) IsAnonymous() bool {
	return c.ProfileID == uuid.Nil
}

// AdminGate confirms administrative privilege before any duplicate-resolution
// plan is built or executed. A caller passes when their role id equals the
// configured override id, or when the role id resolves to a name in the
// configured administrator set. Failure to resolve a role is a hard denial,
// never a silent allow.
type AdminGate interface {
	// RequireAdmin returns nil for administrators. It returns the domain
	// Unauthenticated error for anonymous callers and the Forbidden error
	// for everyone else.
	RequireAdmin(ctx context.Context, caller Caller) error
}
