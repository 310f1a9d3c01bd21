package impl

import (
	"context"
	"testing"

	"classtrack/internal/domain/entity"
	domainerrors "classtrack/internal/domain/errors"
	"classtrack/internal/domain/service"
	mockRepo "classtrack/internal/mocks/repository"
	mockSvc "classtrack/internal/mocks/service"
	"classtrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type commentServiceFixtures struct {
	service         usecase.CommentUsecase
	commentRepo     *mockRepo.MockCommentRepository
	activityRepo    *mockRepo.MockActivityRepository
	deviceRepo      *mockRepo.MockDeviceRepository
	roleRepo        *mockRepo.MockRoleRepository
	notificationSvc *mockSvc.MockNotificationService
}

func createTestCommentService(t *testing.T) commentServiceFixtures {
	commentRepo := mockRepo.NewMockCommentRepository(t)
	activityRepo := mockRepo.NewMockActivityRepository(t)
	deviceRepo := mockRepo.NewMockDeviceRepository(t)
	roleRepo := mockRepo.NewMockRoleRepository(t)
	notificationSvc := mockSvc.NewMockNotificationService(t)

	service := NewCommentService(CommentServiceParams{
		CommentRepo:     commentRepo,
		ActivityRepo:    activityRepo,
		DeviceRepo:      deviceRepo,
		RoleRepo:        roleRepo,
		NotificationSvc: notificationSvc,
		Logger:          newDiscardLogger(),
	})

	return commentServiceFixtures{
		service:         service,
		commentRepo:     commentRepo,
		activityRepo:    activityRepo,
		deviceRepo:      deviceRepo,
		roleRepo:        roleRepo,
		notificationSvc: notificationSvc,
	}
}

func TestCommentService_AddComment_OwnerSkipsNotification(t *testing.T) {
	fx := createTestCommentService(t)

	ctx := context.Background()
	caller := studentCaller()
	activityID := uuid.New()
	activity := &entity.Activity{ID: activityID, OwnerID: caller.ProfileID, Title: "Science fair"}

	fx.activityRepo.EXPECT().FindByID(ctx, activityID).Return(activity, nil)
	fx.commentRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Comment")).
		Run(func(ctx context.Context, comment *entity.Comment) {
			comment.ID = uuid.New()
		}).
		Return(nil)

	comment, err := fx.service.AddComment(ctx, caller, activityID, &usecase.AddCommentInput{Body: "Nice work"})

	require.NoError(t, err)
	require.NotNil(t, comment)
	assert.Equal(t, caller.ProfileID, comment.AuthorID)
	assert.Equal(t, activityID, comment.ActivityID)
}

func TestCommentService_AddComment_StaffNotifiesOwnerDevices(t *testing.T) {
	fx := createTestCommentService(t)

	ctx := context.Background()
	caller := service.Caller{ProfileID: uuid.New(), RoleID: intPtr(2)}
	ownerID := uuid.New()
	activityID := uuid.New()
	activity := &entity.Activity{ID: activityID, OwnerID: ownerID, Title: "Science fair"}

	fx.activityRepo.EXPECT().FindByID(ctx, activityID).Return(activity, nil)
	fx.roleRepo.EXPECT().
		FindByID(ctx, 2).
		Return(&entity.Role{ID: 2, Name: entity.RoleNameTeacher}, nil)
	fx.commentRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Comment")).
		Run(func(ctx context.Context, comment *entity.Comment) {
			comment.ID = uuid.New()
		}).
		Return(nil)

	fx.deviceRepo.EXPECT().
		ListActiveByProfile(ctx, ownerID).
		Return([]*entity.Device{
			{FCMToken: "token-a", IsActive: true},
			{FCMToken: "token-b", IsActive: true},
		}, nil)

	fx.notificationSvc.EXPECT().
		SendBatchNotification(ctx, []string{"token-a", "token-b"}, "New comment on your activity", mock.AnythingOfType("string"), mock.AnythingOfType("map[string]string")).
		Return(1, 1, []string{"token-b"}, nil)

	fx.deviceRepo.EXPECT().DeactivateTokens(ctx, []string{"token-b"}).Return(nil)

	comment, err := fx.service.AddComment(ctx, caller, activityID, &usecase.AddCommentInput{Body: "Please resubmit"})

	require.NoError(t, err)
	require.NotNil(t, comment)
}

func TestCommentService_AddComment_NotificationFailureDoesNotFailComment(t *testing.T) {
	fx := createTestCommentService(t)

	ctx := context.Background()
	caller := service.Caller{ProfileID: uuid.New(), RoleID: intPtr(2)}
	ownerID := uuid.New()
	activityID := uuid.New()
	activity := &entity.Activity{ID: activityID, OwnerID: ownerID, Title: "Science fair"}

	fx.activityRepo.EXPECT().FindByID(ctx, activityID).Return(activity, nil)
	fx.roleRepo.EXPECT().
		FindByID(ctx, 2).
		Return(&entity.Role{ID: 2, Name: entity.RoleNameTeacher}, nil)
	fx.commentRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Comment")).
		Return(nil)

	fx.deviceRepo.EXPECT().
		ListActiveByProfile(ctx, ownerID).
		Return([]*entity.Device{{FCMToken: "token-a", IsActive: true}}, nil)

	fx.notificationSvc.EXPECT().
		SendBatchNotification(ctx, []string{"token-a"}, mock.AnythingOfType("string"), mock.AnythingOfType("string"), mock.AnythingOfType("map[string]string")).
		Return(0, 0, nil, errors.New("messaging backend unavailable"))

	comment, err := fx.service.AddComment(ctx, caller, activityID, &usecase.AddCommentInput{Body: "Please resubmit"})

	require.NoError(t, err)
	require.NotNil(t, comment)
}

func TestCommentService_AddComment_NonOwnerStudentDenied(t *testing.T) {
	fx := createTestCommentService(t)

	ctx := context.Background()
	caller := studentCaller()
	activityID := uuid.New()
	activity := &entity.Activity{ID: activityID, OwnerID: uuid.New()}

	fx.activityRepo.EXPECT().FindByID(ctx, activityID).Return(activity, nil)
	fx.roleRepo.EXPECT().
		FindByID(ctx, 1).
		Return(&entity.Role{ID: 1, Name: entity.RoleNameStudent}, nil)

	comment, err := fx.service.AddComment(ctx, caller, activityID, &usecase.AddCommentInput{Body: "hi"})

	assert.Error(t, err)
	assert.Nil(t, comment)
	assert.True(t, errors.Is(err, domainerrors.ErrActivityOwnershipViolation))
}

func TestCommentService_ListComments_Owner(t *testing.T) {
	fx := createTestCommentService(t)

	ctx := context.Background()
	caller := studentCaller()
	activityID := uuid.New()
	activity := &entity.Activity{ID: activityID, OwnerID: caller.ProfileID}
	stored := []*entity.Comment{
		{ID: uuid.New(), ActivityID: activityID, Body: "First"},
		{ID: uuid.New(), ActivityID: activityID, Body: "Second"},
	}

	fx.activityRepo.EXPECT().FindByID(ctx, activityID).Return(activity, nil)
	fx.commentRepo.EXPECT().ListByActivity(ctx, activityID).Return(stored, nil)

	comments, err := fx.service.ListComments(ctx, caller, activityID)

	require.NoError(t, err)
	assert.Equal(t, stored, comments)
}

func TestCommentService_ListComments_Anonymous(t *testing.T) {
	fx := createTestCommentService(t)

	comments, err := fx.service.ListComments(context.Background(), service.Caller{}, uuid.New())

	assert.Error(t, err)
	assert.Nil(t, comments)
	assert.True(t, errors.Is(err, domainerrors.ErrUnauthenticated))
}
