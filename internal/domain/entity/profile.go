// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the core identity in the system, representing one account for a
// real person. The same person can end up with several Profile rows (one per
// sign-in path); the dedup subsystem folds those back together.
//
// Name, Email, RoleID and Class are pointers because absence matters: merge
// resolution prefers non-null values and grouping skips absent fields.
type Profile struct {
	ID        uuid.UUID  // Immutable primary key; never reused once deleted.
	Name      *string    // Display name, optional.
	Email     *string    // Contact email, optional, not unique across profiles.
	RoleID    *int       // Permission tier, optional.
	Class     *string    // Cohort/section label, optional.
	CreatedAt time.Time  // Used only as a merge tie-breaker.
	UpdatedAt time.Time  // Used only as a merge tie-breaker.
}

// NameValue returns the display name or "" when absent.
func (p *Profile) NameValue() string {
	if p == nil || p.Name == nil {
		return ""
	}

	return *p.Name
}

// EmailValue returns the email or "" when absent.
func (p *Profile) EmailValue() string {
	if p == nil || p.Email == nil {
		return ""
	}

	return *p.Email
}
