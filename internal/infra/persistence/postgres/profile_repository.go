package postgres

import (
	"context"

	"classtrack/internal/dedup"
	"classtrack/internal/domain/entity"
	domainerrors "classtrack/internal/domain/errors"
	"classtrack/internal/domain/repository"
	"classtrack/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// profileRepository implements the repository.ProfileRepository interface.
type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository is the constructor for profileRepository.
func NewProfileRepository(db *gorm.DB) repository.ProfileRepository {
	return &profileRepository{
		db: db,
	}
}

// FindByID retrieves a single profile by its unique ID.
func (repo *profileRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	var profileM model.ProfileModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&profileM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProfileNotFound
		}

		return nil, errors.Wrap(err, "failed to find profile by id")
	}

	return toProfileDomain(&profileM), nil
}

// Create persists a new profile.
func (repo *profileRepository) Create(ctx context.Context, profile *entity.Profile) error {
	profileM := fromProfileDomain(profile)

	if err := repo.db.WithContext(ctx).Create(profileM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return errors.Wrap(domainerrors.ErrProfileAlreadyExists, "profile already exists")
		}
		if isNotNullConstraintViolation(err) {
			return errors.Wrap(domainerrors.ErrValidationFailed, "missing required profile fields")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create profile")
	}

	profile.ID = profileM.ID
	profile.CreatedAt = profileM.CreatedAt
	profile.UpdatedAt = profileM.UpdatedAt

	return nil
}

// Update modifies an existing profile.
func (repo *profileRepository) Update(ctx context.Context, profile *entity.Profile) error {
	profileM := fromProfileDomain(profile)

	result := repo.db.WithContext(ctx).
		Model(&model.ProfileModel{}).
		Where("id = ?", profile.ID).
		Select("Name", "Email", "Class", "RoleID").
		Updates(profileM)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update profile")
	}
	if result.RowsAffected == 0 {
		return repository.ErrProfileNotFound
	}

	return nil
}

// Upsert writes the profile keyed by id, inserting the row when it does not
// exist. The merge executor relies on this to survive a concurrently deleted
// target.
func (repo *profileRepository) Upsert(ctx context.Context, profile *entity.Profile) error {
	profileM := fromProfileDomain(profile)

	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "email", "class", "role_id", "updated_at"}),
		}).
		Create(profileM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to upsert profile")
	}

	profile.CreatedAt = profileM.CreatedAt
	profile.UpdatedAt = profileM.UpdatedAt

	return nil
}

// Delete removes the profile row by id. Deleting an absent row is success;
// the returned bool reports whether a row was removed.
func (repo *profileRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.ProfileModel{})
	if result.Error != nil {
		return false, domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete profile")
	}

	return result.RowsAffected > 0, nil
}

// ListIdentityKeys loads the minimal id/email/name projection of every
// profile for duplicate grouping.
func (repo *profileRepository) ListIdentityKeys(ctx context.Context) ([]dedup.ProfileKeys, error) {
	var rows []model.ProfileModel

	if err := repo.db.WithContext(ctx).
		Select("id", "email", "name").
		Order("id").
		Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list profile identity keys")
	}

	keys := make([]dedup.ProfileKeys, 0, len(rows))
	for _, row := range rows {
		keys = append(keys, dedup.ProfileKeys{
			ID:    row.ID,
			Email: row.Email,
			Name:  row.Name,
		})
	}

	return keys, nil
}

// ListMergeStats loads name and timestamps for the given profiles. Activity
// counts are filled in separately by the activity repository.
func (repo *profileRepository) ListMergeStats(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]dedup.MemberStats, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]dedup.MemberStats{}, nil
	}

	var rows []model.ProfileModel

	if err := repo.db.WithContext(ctx).
		Select("id", "name", "created_at", "updated_at").
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list profile merge stats")
	}

	stats := make(map[uuid.UUID]dedup.MemberStats, len(rows))
	for _, row := range rows {
		stats[row.ID] = dedup.MemberStats{
			ID:        row.ID,
			Name:      row.Name,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		}
	}

	return stats, nil
}

// --- Mapper Functions ---

// toProfileDomain converts a GORM ProfileModel to a domain Profile entity.
func toProfileDomain(data *model.ProfileModel) *entity.Profile {
	if data == nil {
		return nil
	}

	return &entity.Profile{
		ID:        data.ID,
		Name:      data.Name,
		Email:     data.Email,
		Class:     data.Class,
		RoleID:    data.RoleID,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

// fromProfileDomain converts a domain Profile entity to a GORM ProfileModel.
func fromProfileDomain(data *entity.Profile) *model.ProfileModel {
	if data == nil {
		return nil
	}

	return &model.ProfileModel{
		ID:        data.ID,
		Name:      data.Name,
		Email:     data.Email,
		Class:     data.Class,
		RoleID:    data.RoleID,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}
