package impl

import (
	"context"
	"fmt"
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

// commentService implements the CommentUsecase interface.
type commentService struct {
	commentRepo     repository.CommentRepository
	activityRepo    repository.ActivityRepository
	deviceRepo      repository.DeviceRepository
	roleRepo        repository.RoleRepository
	notificationSvc service.NotificationService
	logger          *slog.Logger
}

// CommentServiceParams holds dependencies for CommentService, injected by Fx.
type CommentServiceParams struct {
	fx.In

	CommentRepo     repository.CommentRepository
	ActivityRepo    repository.ActivityRepository
	DeviceRepo      repository.DeviceRepository
	RoleRepo        repository.RoleRepository
	NotificationSvc service.NotificationService `optional:"true"`
	Logger          *slog.Logger
}

// NewCommentService is the constructor for commentService.
func NewCommentService(params CommentServiceParams) usecase.CommentUsecase {
	return &commentService{
		commentRepo:     params.CommentRepo,
		activityRepo:    params.ActivityRepo,
		deviceRepo:      params.DeviceRepo,
		roleRepo:        params.RoleRepo,
		notificationSvc: params.NotificationSvc,
		logger:          params.Logger,
	}
}

func (srv *commentService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// AddComment records a remark on an activity and notifies the owner's
// devices. The push is best-effort and never fails the comment itself.
func (srv *commentService) AddComment(ctx context.Context, caller service.Caller, activityID uuid.UUID, input *usecase.AddCommentInput) (*entity.Comment, error) {
	activity, err := srv.loadCommentTarget(ctx, caller, activityID)
	if err != nil {
		return nil, err
	}

	comment := &entity.Comment{
		ActivityID: activityID,
		AuthorID:   caller.ProfileID,
		Body:       input.Body,
	}

	if err := srv.commentRepo.Create(ctx, comment); err != nil {
		srv.log(ctx).Error("Failed to create comment", slog.Any("activityID", activityID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create comment")
	}

	if activity.OwnerID != caller.ProfileID {
		srv.notifyOwner(ctx, activity, comment)
	}

	return comment, nil
}

// ListComments retrieves the comments on an activity, oldest first.
func (srv *commentService) ListComments(ctx context.Context, caller service.Caller, activityID uuid.UUID) ([]*entity.Comment, error) {
	if _, err := srv.loadCommentTarget(ctx, caller, activityID); err != nil {
		return nil, err
	}

	comments, err := srv.commentRepo.ListByActivity(ctx, activityID)
	if err != nil {
		srv.log(ctx).Error("Failed to list comments", slog.Any("activityID", activityID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list comments by activity")
	}

	return comments, nil
}

// loadCommentTarget loads the activity and checks the caller may see it:
// the owner, or a staff role.
func (srv *commentService) loadCommentTarget(ctx context.Context, caller service.Caller, activityID uuid.UUID) (*entity.Activity, error) {
	if caller.IsAnonymous() {
		return nil, errors.Wrap(domainerrors.ErrUnauthenticated, "commenting requires a caller")
	}

	activity, err := srv.activityRepo.FindByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, repository.ErrActivityNotFound) {
			return nil, errors.Wrap(domainerrors.ErrActivityNotFound, "activity not found")
		}

		return nil, errors.Wrap(err, "failed to find activity by id")
	}

	if activity.OwnerID == caller.ProfileID {
		return activity, nil
	}

	staff, err := srv.callerIsStaff(ctx, caller)
	if err != nil {
		return nil, err
	}
	if !staff {
		return nil, errors.Wrap(domainerrors.ErrActivityOwnershipViolation, "activity belongs to another profile")
	}

	return activity, nil
}

func (srv *commentService) callerIsStaff(ctx context.Context, caller service.Caller) (bool, error) {
	if caller.RoleID == nil {
		return false, nil
	}

	role, err := srv.roleRepo.FindByID(ctx, *caller.RoleID)
	if err != nil {
		if errors.Is(err, repository.ErrRoleNotFound) {
			return false, nil
		}

		return false, errors.Wrap(err, "failed to resolve caller role")
	}

	return role.Name == entity.RoleNameTeacher || role.Name == entity.RoleNameAdmin, nil
}

// notifyOwner pushes a comment notification to the activity owner's active
// devices and deactivates any tokens the push service reports invalid.
func (srv *commentService) notifyOwner(ctx context.Context, activity *entity.Activity, comment *entity.Comment) {
	if srv.notificationSvc == nil {
		return
	}

	devices, err := srv.deviceRepo.ListActiveByProfile(ctx, activity.OwnerID)
	if err != nil {
		srv.log(ctx).Warn("Failed to list devices for comment notification", slog.Any("ownerID", activity.OwnerID), slog.Any("error", err))

		return
	}
	if len(devices) == 0 {
		return
	}

	tokens := make([]string, 0, len(devices))
	for _, device := range devices {
		tokens = append(tokens, device.FCMToken)
	}

	title := "New comment on your activity"
	body := fmt.Sprintf("%q received a new comment", activity.Title)
	data := map[string]string{
		"activity_id": activity.ID.String(),
		"comment_id":  comment.ID.String(),
	}

	successCount, failureCount, invalidTokens, err := srv.notificationSvc.SendBatchNotification(ctx, tokens, title, body, data)
	if err != nil {
		srv.log(ctx).Warn("Failed to send comment notification", slog.Any("activityID", activity.ID), slog.Any("error", err))

		return
	}

	srv.log(ctx).Debug("Comment notification sent",
		slog.Any("activityID", activity.ID),
		slog.Int("success", successCount),
		slog.Int("failure", failureCount),
	)

	if len(invalidTokens) > 0 {
		if err := srv.deviceRepo.DeactivateTokens(ctx, invalidTokens); err != nil {
			srv.log(ctx).Warn("Failed to deactivate invalid device tokens", slog.Int("count", len(invalidTokens)), slog.Any("error", err))
		}
	}
}
