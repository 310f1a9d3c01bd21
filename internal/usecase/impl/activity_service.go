package impl

import (
	"context"
	"log/slog"

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

// activityService implements the ActivityUsecase interface.
type activityService struct {
	activityRepo repository.ActivityRepository
	roleRepo     repository.RoleRepository
	logger       *slog.Logger
}

// ActivityServiceParams holds dependencies for ActivityService, injected by Fx.
type ActivityServiceParams struct {
	fx.In

	ActivityRepo repository.ActivityRepository
	RoleRepo     repository.RoleRepository
	Logger       *slog.Logger
}

// NewActivityService is the constructor for activityService.
func NewActivityService(params ActivityServiceParams) usecase.ActivityUsecase {
	return &activityService{
		activityRepo: params.ActivityRepo,
		roleRepo:     params.RoleRepo,
		logger:       params.Logger,
	}
}

func (srv *activityService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateActivity records a new activity owned by the caller.
func (srv *activityService) CreateActivity(ctx context.Context, caller service.Caller, input *usecase.CreateActivityInput) (*entity.Activity, error) {
	if caller.IsAnonymous() {
		return nil, errors.Wrap(domainerrors.ErrUnauthenticated, "activity creation requires a caller")
	}

	status := entity.ActivityStatus(input.Status)
	if input.Status == "" {
		status = entity.ActivityStatusDraft
	}
	if !status.IsValid() {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "invalid activity status")
	}

	activity := &entity.Activity{
		OwnerID: caller.ProfileID,
		Title:   input.Title,
		Body:    input.Body,
		Status:  status,
		Date:    input.Date,
	}

	if err := srv.activityRepo.Create(ctx, activity); err != nil {
		srv.log(ctx).Error("Failed to create activity", slog.Any("ownerID", caller.ProfileID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create activity")
	}

	srv.log(ctx).Debug("Activity created", slog.Any("activityID", activity.ID), slog.Any("ownerID", activity.OwnerID))

	return activity, nil
}

// GetActivity retrieves one activity. Owners read their own records; staff
// roles may read any record.
func (srv *activityService) GetActivity(ctx context.Context, caller service.Caller, id uuid.UUID) (*entity.Activity, error) {
	activity, err := srv.loadActivity(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := srv.requireReadAccess(ctx, caller, activity); err != nil {
		return nil, err
	}

	return activity, nil
}

// ListMyActivities retrieves the caller's own activities, newest first.
func (srv *activityService) ListMyActivities(ctx context.Context, caller service.Caller) ([]*entity.Activity, error) {
	if caller.IsAnonymous() {
		return nil, errors.Wrap(domainerrors.ErrUnauthenticated, "listing activities requires a caller")
	}

	activities, err := srv.activityRepo.ListByOwner(ctx, caller.ProfileID)
	if err != nil {
		srv.log(ctx).Error("Failed to list activities", slog.Any("ownerID", caller.ProfileID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list activities by owner")
	}

	return activities, nil
}

// UpdateActivity applies a partial update to an activity the caller owns.
func (srv *activityService) UpdateActivity(ctx context.Context, caller service.Caller, id uuid.UUID, input *usecase.UpdateActivityInput) (*entity.Activity, error) {
	activity, err := srv.loadActivity(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := srv.requireOwnership(caller, activity); err != nil {
		return nil, err
	}

	if input.Title != nil {
		activity.Title = *input.Title
	}
	if input.Body != nil {
		activity.Body = *input.Body
	}
	if input.Status != nil {
		status := entity.ActivityStatus(*input.Status)
		if !status.IsValid() {
			return nil, errors.Wrap(domainerrors.ErrValidationFailed, "invalid activity status")
		}
		activity.Status = status
	}

	if err := srv.activityRepo.Update(ctx, activity); err != nil {
		srv.log(ctx).Error("Failed to update activity", slog.Any("activityID", id), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to update activity")
	}

	return activity, nil
}

// DeleteActivity removes an activity the caller owns.
func (srv *activityService) DeleteActivity(ctx context.Context, caller service.Caller, id uuid.UUID) error {
	activity, err := srv.loadActivity(ctx, id)
	if err != nil {
		return err
	}

	if err := srv.requireOwnership(caller, activity); err != nil {
		return err
	}

	if err := srv.activityRepo.Delete(ctx, id); err != nil {
		srv.log(ctx).Error("Failed to delete activity", slog.Any("activityID", id), slog.Any("error", err))

		return errors.Wrap(err, "failed to delete activity")
	}

	srv.log(ctx).Info("Activity deleted", slog.Any("activityID", id), slog.Any("ownerID", activity.OwnerID))

	return nil
}

func (srv *activityService) loadActivity(ctx context.Context, id uuid.UUID) (*entity.Activity, error) {
	activity, err := srv.activityRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrActivityNotFound) {
			return nil, errors.Wrap(domainerrors.ErrActivityNotFound, "activity not found")
		}

		return nil, errors.Wrap(err, "failed to find activity by id")
	}

	return activity, nil
}

func (srv *activityService) requireOwnership(caller service.Caller, activity *entity.Activity) error {
	if caller.IsAnonymous() {
		return errors.Wrap(domainerrors.ErrUnauthenticated, "activity access requires a caller")
	}
	if activity.OwnerID != caller.ProfileID {
		return errors.Wrap(domainerrors.ErrActivityOwnershipViolation, "activity belongs to another profile")
	}

	return nil
}

// requireReadAccess allows the owner, and staff roles, to read an activity.
func (srv *activityService) requireReadAccess(ctx context.Context, caller service.Caller, activity *entity.Activity) error {
	if caller.IsAnonymous() {
		return errors.Wrap(domainerrors.ErrUnauthenticated, "activity access requires a caller")
	}
	if activity.OwnerID == caller.ProfileID {
		return nil
	}

	staff, err := srv.isStaff(ctx, caller)
	if err != nil {
		return err
	}
	if !staff {
		return errors.Wrap(domainerrors.ErrActivityOwnershipViolation, "activity belongs to another profile")
	}

	return nil
}

// isStaff resolves the caller's role and reports whether it carries staff
// read access. A role that cannot be resolved denies access.
func (srv *activityService) isStaff(ctx context.Context, caller service.Caller) (bool, error) {
	if caller.RoleID == nil {
		return false, nil
	}

	role, err := srv.roleRepo.FindByID(ctx, *caller.RoleID)
	if err != nil {
		if errors.Is(err, repository.ErrRoleNotFound) {
			return false, nil
		}
		srv.log(ctx).Error("Failed to resolve caller role", slog.Int("roleID", *caller.RoleID), slog.Any("error", err))

		return false, errors.Wrap(err, "failed to resolve caller role")
	}

	return role.Name == entity.RoleNameTeacher || role.Name == entity.RoleNameAdmin, nil
}
