package repository

import (
	"context"

	"classtrack/internal/domain/entity"

	"github.com/google/uuid"
)

// CommentRepository defines persistence operations for activity comments.
type CommentRepository interface {
	// Create persists a new comment.
	Create(ctx context.Context, comment *entity.Comment) error

	// ListByActivity retrieves all comments on an activity, oldest first.
	ListByActivity(ctx context.Context, activityID uuid.UUID) ([]*entity.Comment, error)
}

// AttachmentRepository defines persistence operations for attachment index rows.
type AttachmentRepository interface {
	// Create persists a new attachment row.
	Create(ctx context.Context, attachment *entity.Attachment) error

	// FindByID retrieves a single attachment row.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Attachment, error)

	// ListByActivity retrieves all attachments on an activity.
	ListByActivity(ctx context.Context, activityID uuid.UUID) ([]*entity.Attachment, error)
}
