package impl

import (
	"context"
	"testing"
	"time"

	"classtrack/internal/domain/entity"
	domainerrors "classtrack/internal/domain/errors"
	"classtrack/internal/domain/repository"
	"classtrack/internal/domain/service"
	mockRepo "classtrack/internal/mocks/repository"
	"classtrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type activityServiceFixtures struct {
	service      usecase.ActivityUsecase
	activityRepo *mockRepo.MockActivityRepository
	roleRepo     *mockRepo.MockRoleRepository
}

func createTestActivityService(t *testing.T) activityServiceFixtures {
	activityRepo := mockRepo.NewMockActivityRepository(t)
	roleRepo := mockRepo.NewMockRoleRepository(t)

	service := NewActivityService(ActivityServiceParams{
		ActivityRepo: activityRepo,
		RoleRepo:     roleRepo,
		Logger:       newDiscardLogger(),
	})

	return activityServiceFixtures{
		service:      service,
		activityRepo: activityRepo,
		roleRepo:     roleRepo,
	}
}

func studentCaller() service.Caller {
	return service.Caller{ProfileID: uuid.New(), RoleID: intPtr(1)}
}

func TestActivityService_CreateActivity_Success(t *testing.T) {
	fx := createTestActivityService(t)

	ctx := context.Background()
	caller := studentCaller()
	input := &usecase.CreateActivityInput{
		Title: "Science fair",
		Body:  "Built a volcano model",
		Date:  time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
	}

	fx.activityRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Activity")).
		Run(func(ctx context.Context, activity *entity.Activity) {
			activity.ID = uuid.New()
		}).
		Return(nil)

	activity, err := fx.service.CreateActivity(ctx, caller, input)

	require.NoError(t, err)
	require.NotNil(t, activity)
	assert.Equal(t, caller.ProfileID, activity.OwnerID)
	assert.Equal(t, input.Title, activity.Title)
	assert.Equal(t, entity.ActivityStatusDraft, activity.Status)
}

func TestActivityService_CreateActivity_Anonymous(t *testing.T) {
	fx := createTestActivityService(t)

	activity, err := fx.service.CreateActivity(context.Background(), service.Caller{}, &usecase.CreateActivityInput{Title: "x"})

	assert.Error(t, err)
	assert.Nil(t, activity)
	assert.True(t, errors.Is(err, domainerrors.ErrUnauthenticated))
}

func TestActivityService_CreateActivity_InvalidStatus(t *testing.T) {
	fx := createTestActivityService(t)

	input := &usecase.CreateActivityInput{Title: "x", Status: "archived"}
	activity, err := fx.service.CreateActivity(context.Background(), studentCaller(), input)

	assert.Error(t, err)
	assert.Nil(t, activity)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestActivityService_GetActivity_Owner(t *testing.T) {
	fx := createTestActivityService(t)

	ctx := context.Background()
	caller := studentCaller()
	activityID := uuid.New()
	stored := &entity.Activity{ID: activityID, OwnerID: caller.ProfileID, Title: "Science fair"}

	fx.activityRepo.EXPECT().FindByID(ctx, activityID).Return(stored, nil)

	activity, err := fx.service.GetActivity(ctx, caller, activityID)

	require.NoError(t, err)
	assert.Equal(t, stored, activity)
}

func TestActivityService_GetActivity_StaffReadsAnyRecord(t *testing.T) {
	fx := createTestActivityService(t)

	ctx := context.Background()
	caller := service.Caller{ProfileID: uuid.New(), RoleID: intPtr(2)}
	activityID := uuid.New()
	stored := &entity.Activity{ID: activityID, OwnerID: uuid.New(), Title: "Science fair"}

	fx.activityRepo.EXPECT().FindByID(ctx, activityID).Return(stored, nil)
	fx.roleRepo.EXPECT().
		FindByID(ctx, 2).
		Return(&entity.Role{ID: 2, Name: entity.RoleNameTeacher}, nil)

	activity, err := fx.service.GetActivity(ctx, caller, activityID)

	require.NoError(t, err)
	assert.Equal(t, stored, activity)
}

func TestActivityService_GetActivity_NonOwnerDenied(t *testing.T) {
	fx := createTestActivityService(t)

	ctx := context.Background()
	caller := studentCaller()
	activityID := uuid.New()
	stored := &entity.Activity{ID: activityID, OwnerID: uuid.New()}

	fx.activityRepo.EXPECT().FindByID(ctx, activityID).Return(stored, nil)
	fx.roleRepo.EXPECT().
		FindByID(ctx, 1).
		Return(&entity.Role{ID: 1, Name: entity.RoleNameStudent}, nil)

	activity, err := fx.service.GetActivity(ctx, caller, activityID)

	assert.Error(t, err)
	assert.Nil(t, activity)
	assert.True(t, errors.Is(err, domainerrors.ErrActivityOwnershipViolation))
}

func TestActivityService_GetActivity_RolelessNonOwnerDenied(t *testing.T) {
	fx := createTestActivityService(t)

	ctx := context.Background()
	caller := service.Caller{ProfileID: uuid.New()}
	activityID := uuid.New()
	stored := &entity.Activity{ID: activityID, OwnerID: uuid.New()}

	// Without a role there is no staff lookup; access is denied outright.
	fx.activityRepo.EXPECT().FindByID(ctx, activityID).Return(stored, nil)

	activity, err := fx.service.GetActivity(ctx, caller, activityID)

	assert.Error(t, err)
	assert.Nil(t, activity)
	assert.True(t, errors.Is(err, domainerrors.ErrActivityOwnershipViolation))
}

func TestActivityService_GetActivity_NotFound(t *testing.T) {
	fx := createTestActivityService(t)

	ctx := context.Background()
	activityID := uuid.New()

	fx.activityRepo.EXPECT().
		FindByID(ctx, activityID).
		Return(nil, repository.ErrActivityNotFound)

	activity, err := fx.service.GetActivity(ctx, studentCaller(), activityID)

	assert.Error(t, err)
	assert.Nil(t, activity)
	assert.True(t, errors.Is(err, domainerrors.ErrActivityNotFound))
}

func TestActivityService_UpdateActivity_Success(t *testing.T) {
	fx := createTestActivityService(t)

	ctx := context.Background()
	caller := studentCaller()
	activityID := uuid.New()
	stored := &entity.Activity{
		ID:      activityID,
		OwnerID: caller.ProfileID,
		Title:   "Draft title",
		Status:  entity.ActivityStatusDraft,
	}

	fx.activityRepo.EXPECT().FindByID(ctx, activityID).Return(stored, nil)
	fx.activityRepo.EXPECT().
		Update(ctx, mock.AnythingOfType("*entity.Activity")).
		Return(nil)

	input := &usecase.UpdateActivityInput{
		Title:  strPtr("Final title"),
		Status: strPtr(string(entity.ActivityStatusSubmitted)),
	}

	activity, err := fx.service.UpdateActivity(ctx, caller, activityID, input)

	require.NoError(t, err)
	assert.Equal(t, "Final title", activity.Title)
	assert.Equal(t, entity.ActivityStatusSubmitted, activity.Status)
}

func TestActivityService_UpdateActivity_NotOwner(t *testing.T) {
	fx := createTestActivityService(t)

	ctx := context.Background()
	activityID := uuid.New()
	stored := &entity.Activity{ID: activityID, OwnerID: uuid.New()}

	// Staff may read other profiles' activities but never mutate them.
	fx.activityRepo.EXPECT().FindByID(ctx, activityID).Return(stored, nil)

	activity, err := fx.service.UpdateActivity(ctx, studentCaller(), activityID, &usecase.UpdateActivityInput{})

	assert.Error(t, err)
	assert.Nil(t, activity)
	assert.True(t, errors.Is(err, domainerrors.ErrActivityOwnershipViolation))
}

func TestActivityService_DeleteActivity_Success(t *testing.T) {
	fx := createTestActivityService(t)

	ctx := context.Background()
	caller := studentCaller()
	activityID := uuid.New()
	stored := &entity.Activity{ID: activityID, OwnerID: caller.ProfileID}

	fx.activityRepo.EXPECT().FindByID(ctx, activityID).Return(stored, nil)
	fx.activityRepo.EXPECT().Delete(ctx, activityID).Return(nil)

	err := fx.service.DeleteActivity(ctx, caller, activityID)

	require.NoError(t, err)
}

func TestActivityService_ListMyActivities(t *testing.T) {
	fx := createTestActivityService(t)

	ctx := context.Background()
	caller := studentCaller()
	stored := []*entity.Activity{
		{ID: uuid.New(), OwnerID: caller.ProfileID, Title: "Newest"},
		{ID: uuid.New(), OwnerID: caller.ProfileID, Title: "Oldest"},
	}

	fx.activityRepo.EXPECT().ListByOwner(ctx, caller.ProfileID).Return(stored, nil)

	activities, err := fx.service.ListMyActivities(ctx, caller)

	require.NoError(t, err)
	assert.Equal(t, stored, activities)
}
