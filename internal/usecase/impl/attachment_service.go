package impl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"

	deliverycontext "classtrack/internal/delivery/context"
	"classtrack/internal/domain/entity"
	domainerrors "classtrack/internal/domain/errors"
	"classtrack/internal/domain/repository"
	"classtrack/internal/domain/service"
	"classtrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// maxAttachmentSize caps a single upload at 20 MiB.
const maxAttachmentSize = 20 << 20

// attachmentService implements the AttachmentUsecase interface.
type attachmentService struct {
	attachmentRepo repository.AttachmentRepository
	activityRepo   repository.ActivityRepository
	blobStore      service.BlobStore
	logger         *slog.Logger
}

// AttachmentServiceParams holds dependencies for AttachmentService, injected by Fx.
type AttachmentServiceParams struct {
	fx.In

	AttachmentRepo repository.AttachmentRepository
	ActivityRepo   repository.ActivityRepository
	BlobStore      service.BlobStore
	Logger         *slog.Logger
}

// NewAttachmentService is the constructor for attachmentService.
func NewAttachmentService(params AttachmentServiceParams) usecase.AttachmentUsecase {
	return &attachmentService{
		attachmentRepo: params.AttachmentRepo,
		activityRepo:   params.ActivityRepo,
		blobStore:      params.BlobStore,
		logger:         params.Logger,
	}
}

func (srv *attachmentService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// UploadAttachment stores the file bytes in the bucket and indexes them with
// an attachment row. Only the activity owner may upload.
func (srv *attachmentService) UploadAttachment(ctx context.Context, caller service.Caller, activityID uuid.UUID, input *usecase.UploadAttachmentInput) (*entity.Attachment, error) {
	if caller.IsAnonymous() {
		return nil, errors.Wrap(domainerrors.ErrUnauthenticated, "uploading requires a caller")
	}
	if input.FileName == "" {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "file name is required")
	}
	if input.Size <= 0 || input.Size > maxAttachmentSize {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "file size out of range")
	}

	activity, err := srv.activityRepo.FindByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, repository.ErrActivityNotFound) {
			return nil, errors.Wrap(domainerrors.ErrActivityNotFound, "activity not found")
		}

		return nil, errors.Wrap(err, "failed to find activity by id")
	}
	if activity.OwnerID != caller.ProfileID {
		return nil, errors.Wrap(domainerrors.ErrActivityOwnershipViolation, "activity belongs to another profile")
	}

	attachment := &entity.Attachment{
		ID:          uuid.New(),
		ActivityID:  activityID,
		FileName:    path.Base(input.FileName),
		ContentType: input.ContentType,
		Size:        input.Size,
	}
	attachment.Key = fmt.Sprintf("activities/%s/%s/%s", activityID, attachment.ID, attachment.FileName)

	if err := srv.blobStore.Write(ctx, attachment.Key, input.ContentType, io.LimitReader(input.Content, maxAttachmentSize)); err != nil {
		srv.log(ctx).Error("Failed to write attachment blob", slog.String("key", attachment.Key), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to write attachment blob")
	}

	if err := srv.attachmentRepo.Create(ctx, attachment); err != nil {
		// The index row failed; remove the orphaned blob.
		if cleanupErr := srv.blobStore.Delete(ctx, attachment.Key); cleanupErr != nil {
			srv.log(ctx).Warn("Failed to clean up orphaned blob", slog.String("key", attachment.Key), slog.Any("error", cleanupErr))
		}

		return nil, errors.Wrap(err, "failed to create attachment row")
	}

	srv.log(ctx).Info("Attachment uploaded",
		slog.Any("attachmentID", attachment.ID),
		slog.Any("activityID", activityID),
		slog.Int64("size", attachment.Size),
	)

	return attachment, nil
}

// DownloadAttachment opens the stored bytes of an attachment. Only the
// owner of the parent activity may download. The caller closes the reader.
func (srv *attachmentService) DownloadAttachment(ctx context.Context, caller service.Caller, id uuid.UUID) (*entity.Attachment, io.ReadCloser, error) {
	if caller.IsAnonymous() {
		return nil, nil, errors.Wrap(domainerrors.ErrUnauthenticated, "downloading requires a caller")
	}

	attachment, err := srv.attachmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, errors.Wrap(domainerrors.ErrNotFound, "attachment not found")
	}

	activity, err := srv.activityRepo.FindByID(ctx, attachment.ActivityID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to find parent activity")
	}
	if activity.OwnerID != caller.ProfileID {
		return nil, nil, errors.Wrap(domainerrors.ErrActivityOwnershipViolation, "activity belongs to another profile")
	}

	reader, err := srv.blobStore.Read(ctx, attachment.Key)
	if err != nil {
		srv.log(ctx).Error("Failed to read attachment blob", slog.String("key", attachment.Key), slog.Any("error", err))

		return nil, nil, errors.Wrap(err, "failed to read attachment blob")
	}

	return attachment, reader, nil
}
