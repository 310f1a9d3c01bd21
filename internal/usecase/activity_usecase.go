package usecase

import (
	"context"
	"io"
	"time"

	"classtrack/internal/domain/entity"
	"classtrack/internal/domain/service"

	"github.com/google/uuid"
)

// CreateActivityInput defines the data required to record a new activity.
type CreateActivityInput struct {
	Title  string    `json:"title" validate:"required"`
	Body   string    `json:"body"`
	Status string    `json:"status"`
	Date   time.Time `json:"date"`
}

// UpdateActivityInput defines a partial activity update.
type UpdateActivityInput struct {
	Title  *string `json:"title"`
	Body   *string `json:"body"`
	Status *string `json:"status"`
}

// ActivityUsecase defines activity record operations. Reads and writes are
// gated on ownership; staff roles may read any activity.
type ActivityUsecase interface {
	CreateActivity(ctx context.Context, caller service.Caller, input *CreateActivityInput) (*entity.Activity, error)
	GetActivity(ctx context.Context, caller service.Caller, id uuid.UUID) (*entity.Activity, error)
	ListMyActivities(ctx context.Context, caller service.Caller) ([]*entity.Activity, error)
	UpdateActivity(ctx context.Context, caller service.Caller, id uuid.UUID, input *UpdateActivityInput) (*entity.Activity, error)
	DeleteActivity(ctx context.Context, caller service.Caller, id uuid.UUID) error
}

// AddCommentInput defines the data required to comment on an activity.
type AddCommentInput struct {
	Body string `json:"body" validate:"required"`
}

// CommentUsecase defines comment operations on activities. Adding a comment
// notifies the activity owner's registered devices, best-effort.
type CommentUsecase interface {
	AddComment(ctx context.Context, caller service.Caller, activityID uuid.UUID, input *AddCommentInput) (*entity.Comment, error)
	ListComments(ctx context.Context, caller service.Caller, activityID uuid.UUID) ([]*entity.Comment, error)
}

// UploadAttachmentInput describes one uploaded file.
type UploadAttachmentInput struct {
	FileName    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// AttachmentUsecase stores and serves files attached to activities.
type AttachmentUsecase interface {
	UploadAttachment(ctx context.Context, caller service.Caller, activityID uuid.UUID, input *UploadAttachmentInput) (*entity.Attachment, error)
	DownloadAttachment(ctx context.Context, caller service.Caller, id uuid.UUID) (*entity.Attachment, io.ReadCloser, error)
}

// DeviceInfo represents device information for registration
type DeviceInfo struct {
	FCMToken string `json:"fcm_token" validate:"required"`
	Platform string `json:"platform" validate:"required"`
}

// DeviceUsecase registers push notification targets.
type DeviceUsecase interface {
	RegisterDevice(ctx context.Context, profileID uuid.UUID, info *DeviceInfo) (*entity.Device, error)
}
