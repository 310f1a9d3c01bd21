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

// activityRepository implements the repository.ActivityRepository interface.
type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository is the constructor for activityRepository.
func NewActivityRepository(db *gorm.DB) repository.ActivityRepository {
	return &activityRepository{
		db: db,
	}
}

// FindByID retrieves a single activity.
func (repo *activityRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Activity, error) {
	var activityM model.ActivityModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&activityM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrActivityNotFound
		}

		return nil, errors.Wrap(err, "failed to find activity by id")
	}

	return toActivityDomain(&activityM), nil
}

// ListByOwner retrieves all activities owned by a profile, newest first.
func (repo *activityRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Activity, error) {
	var activityModels []*model.ActivityModel

	if err := repo.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&activityModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list activities by owner")
	}

	activities := make([]*entity.Activity, 0, len(activityModels))
	for _, activityM := range activityModels {
		activities = append(activities, toActivityDomain(activityM))
	}

	return activities, nil
}

// Create persists a new activity.
func (repo *activityRepository) Create(ctx context.Context, activity *entity.Activity) error {
	activityM := fromActivityDomain(activity)

	if err := repo.db.WithContext(ctx).Create(activityM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return errors.Wrap(domainerrors.ErrProfileNotFound, "invalid owner reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create activity")
	}

	activity.ID = activityM.ID
	activity.CreatedAt = activityM.CreatedAt
	activity.UpdatedAt = activityM.UpdatedAt

	return nil
}

// Update modifies an existing activity.
func (repo *activityRepository) Update(ctx context.Context, activity *entity.Activity) error {
	activityM := fromActivityDomain(activity)

	result := repo.db.WithContext(ctx).
		Model(&model.ActivityModel{}).
		Where("id = ?", activity.ID).
		Select("Title", "Body", "Status", "Date").
		Updates(activityM)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update activity")
	}
	if result.RowsAffected == 0 {
		return repository.ErrActivityNotFound
	}

	return nil
}

// Delete removes an activity.
func (repo *activityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.ActivityModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete activity")
	}
	if result.RowsAffected == 0 {
		return repository.ErrActivityNotFound
	}

	return nil
}

// CountByOwners returns the activity count per owner for the given ids.
// Owners with no activity are present with a zero count.
func (repo *activityRepository) CountByOwners(ctx context.Context, ownerIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(ownerIDs))
	for _, ownerID := range ownerIDs {
		counts[ownerID] = 0
	}
	if len(ownerIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		OwnerID uuid.UUID
		Total   int64
	}

	if err := repo.db.WithContext(ctx).
		Model(&model.ActivityModel{}).
		Select("owner_id", "COUNT(*) AS total").
		Where("owner_id IN ?", ownerIDs).
		Group("owner_id").
		Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to count activities by owner")
	}

	for _, row := range rows {
		counts[row.OwnerID] = row.Total
	}

	return counts, nil
}

// ReassignOwner re-parents every activity owned by fromID onto toID and
// returns the number of rows moved. Moving zero rows is success.
func (repo *activityRepository) ReassignOwner(ctx context.Context, fromID, toID uuid.UUID) (int64, error) {
	result := repo.db.WithContext(ctx).
		Model(&model.ActivityModel{}).
		Where("owner_id = ?", fromID).
		Update("owner_id", toID)
	if result.Error != nil {
		return 0, domainerrors.NewDatabaseExecuteError(result.Error, "failed to reassign activity owner")
	}

	return result.RowsAffected, nil
}

// --- Mapper Functions ---

func toActivityDomain(data *model.ActivityModel) *entity.Activity {
	if data == nil {
		return nil
	}

	return &entity.Activity{
		ID:        data.ID,
		OwnerID:   data.OwnerID,
		Title:     data.Title,
		Body:      data.Body,
		Status:    entity.ActivityStatus(data.Status),
		Date:      data.Date,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

func fromActivityDomain(data *entity.Activity) *model.ActivityModel {
	if data == nil {
		return nil
	}

	return &model.ActivityModel{
		ID:        data.ID,
		OwnerID:   data.OwnerID,
		Title:     data.Title,
		Body:      data.Body,
		Status:    string(data.Status),
		Date:      data.Date,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}
