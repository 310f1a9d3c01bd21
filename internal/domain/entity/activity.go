package entity

import (
	"time"

	"github.com/google/uuid"
)

// ActivityStatus represents the lifecycle state of an activity record.
type ActivityStatus string

const (
	// ActivityStatusDraft indicates an activity still being edited.
	ActivityStatusDraft ActivityStatus = "draft"
	// ActivityStatusSubmitted indicates an activity handed in for review.
	ActivityStatusSubmitted ActivityStatus = "submitted"
	// ActivityStatusApproved indicates an activity accepted by staff.
	ActivityStatusApproved ActivityStatus = "approved"
)

// IsValid checks if the ActivityStatus is a valid value.
func (s ActivityStatus) IsValid() bool {
	switch s {
	case ActivityStatusDraft, ActivityStatusSubmitted, ActivityStatusApproved:
		return true
	default:
		return false
	}
}

// Activity is one unit of recorded work owned by exactly one Profile.
// Every field except OwnerID is opaque payload to the merge logic.
type Activity struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID // Foreign reference to exactly one Profile.
	Title     string
	Body      string
	Status    ActivityStatus
	Date      time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Comment is a remark left on an activity by a staff member or the owner.
type Comment struct {
	ID         uuid.UUID
	ActivityID uuid.UUID
	AuthorID   uuid.UUID
	Body       string
	CreatedAt  time.Time
}

// Attachment describes a file uploaded against an activity. The bytes live in
// the blob bucket under Key; this row is only the index entry.
type Attachment struct {
	ID          uuid.UUID
	ActivityID  uuid.UUID
	FileName    string
	ContentType string
	Size        int64
	Key         string
	CreatedAt   time.Time
}
