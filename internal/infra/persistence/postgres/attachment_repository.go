package postgres

import (
	"context"

	"classtrack/internal/domain/entity"
	domainerrors "classtrack/internal/domain/errors"
	"classtrack/internal/domain/repository"
	"classtrack/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// attachmentRepository implements the repository.AttachmentRepository interface.
type attachmentRepository struct {
	db *gorm.DB
}

// NewAttachmentRepository is the constructor for attachmentRepository.
func NewAttachmentRepository(db *gorm.DB) repository.AttachmentRepository {
	return &attachmentRepository{
		db: db,
	}
}

// Create persists a new attachment row.
func (repo *attachmentRepository) Create(ctx context.Context, attachment *entity.Attachment) error {
	attachmentM := fromAttachmentDomain(attachment)

	if err := repo.db.WithContext(ctx).Create(attachmentM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return errors.Wrap(domainerrors.ErrActivityNotFound, "invalid activity reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create attachment")
	}

	attachment.CreatedAt = attachmentM.CreatedAt

	return nil
}

// FindByID retrieves a single attachment row.
func (repo *attachmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Attachment, error) {
	var attachmentM model.AttachmentModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&attachmentM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrap(domainerrors.ErrNotFound, "attachment not found")
		}

		return nil, errors.Wrap(err, "failed to find attachment by id")
	}

	return toAttachmentDomain(&attachmentM), nil
}

// ListByActivity retrieves all attachments on an activity.
func (repo *attachmentRepository) ListByActivity(ctx context.Context, activityID uuid.UUID) ([]*entity.Attachment, error) {
	var attachmentModels []*model.AttachmentModel

	if err := repo.db.WithContext(ctx).
		Where("activity_id = ?", activityID).
		Order("created_at ASC").
		Find(&attachmentModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list attachments by activity")
	}

	attachments := make([]*entity.Attachment, 0, len(attachmentModels))
	for _, attachmentM := range attachmentModels {
		attachments = append(attachments, toAttachmentDomain(attachmentM))
	}

	return attachments, nil
}

// --- Mapper Functions ---

func toAttachmentDomain(data *model.AttachmentModel) *entity.Attachment {
	if data == nil {
		return nil
	}

	return &entity.Attachment{
		ID:          data.ID,
		ActivityID:  data.ActivityID,
		FileName:    data.FileName,
		ContentType: data.ContentType,
		Size:        data.Size,
		Key:         data.Key,
		CreatedAt:   data.CreatedAt,
	}
}

func fromAttachmentDomain(data *entity.Attachment) *model.AttachmentModel {
	if data == nil {
		return nil
	}

	return &model.AttachmentModel{
		ID:          data.ID,
		ActivityID:  data.ActivityID,
		FileName:    data.FileName,
		ContentType: data.ContentType,
		Size:        data.Size,
		Key:         data.Key,
		CreatedAt:   data.CreatedAt,
	}
}
