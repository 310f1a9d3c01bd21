package impl

import (
	"context"
	"testing"
	"time"

	"classtrack/config"
	"classtrack/internal/dedup"
	"classtrack/internal/domain/entity"
	domainerrors "classtrack/internal/domain/errors"
	"classtrack/internal/domain/repository"
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

// dedupServiceFixtures holds all test dependencies for dedup service tests.
type dedupServiceFixtures struct {
	service      usecase.DedupUsecase
	txManager    *mockRepo.MockTransactionManager
	profileRepo  *mockRepo.MockProfileRepository
	activityRepo *mockRepo.MockActivityRepository
	gate         *mockSvc.MockAdminGate
	publisher    *mockSvc.MockEventPublisher
}

func createTestDedupService(t *testing.T, cfg *config.Config) dedupServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	profileRepo := mockRepo.NewMockProfileRepository(t)
	activityRepo := mockRepo.NewMockActivityRepository(t)
	gate := mockSvc.NewMockAdminGate(t)
	publisher := mockSvc.NewMockEventPublisher(t)

	service := NewDedupService(DedupServiceParams{
		TxManager:    txManager,
		ProfileRepo:  profileRepo,
		ActivityRepo: activityRepo,
		Gate:         gate,
		Publisher:    publisher,
		Config:       cfg,
		Logger:       newDiscardLogger(),
	})

	return dedupServiceFixtures{
		service:      service,
		txManager:    txManager,
		profileRepo:  profileRepo,
		activityRepo: activityRepo,
		gate:         gate,
		publisher:    publisher,
	}
}

func adminCaller() service.Caller {
	return service.Caller{ProfileID: uuid.New(), RoleID: intPtr(1)}
}

func TestDedupService_FindDuplicateGroups_Forbidden(t *testing.T) {
	fx := createTestDedupService(t, nil)

	ctx := context.Background()
	caller := adminCaller()

	fx.gate.EXPECT().
		RequireAdmin(ctx, caller).
		Return(errors.Wrap(domainerrors.ErrForbidden, "caller is not an administrator"))

	groups, err := fx.service.FindDuplicateGroups(ctx, caller)

	assert.Error(t, err)
	assert.Nil(t, groups)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
}

func TestDedupService_FindDuplicateGroups_GroupsByEmail(t *testing.T) {
	fx := createTestDedupService(t, nil)

	ctx := context.Background()
	caller := adminCaller()

	dupA := uuid.New()
	dupB := uuid.New()
	keys := []dedup.ProfileKeys{
		{ID: dupA, Email: strPtr("Jane.Doe@school.edu"), Name: strPtr("Jane Doe")},
		{ID: dupB, Email: strPtr("jane.doe@school.edu"), Name: strPtr("jdoe")},
		{ID: uuid.New(), Email: strPtr("other@school.edu"), Name: strPtr("Someone Else")},
	}

	fx.gate.EXPECT().RequireAdmin(ctx, caller).Return(nil)
	fx.profileRepo.EXPECT().ListIdentityKeys(ctx).Return(keys, nil)

	groups, err := fx.service.FindDuplicateGroups(ctx, caller)

	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, dedup.MatchEmail, groups[0].Type)
	assert.Equal(t, "jane.doe@school.edu", groups[0].Key)
	assert.ElementsMatch(t, []uuid.UUID{dupA, dupB}, groups[0].MemberIDs)
}

func TestDedupService_FindDuplicateGroups_AliasOverridesFirst(t *testing.T) {
	sourceID := uuid.New()
	targetID := uuid.New()
	cfg := &config.Config{
		Dedup: &config.DedupConfig{
			AliasOverrides: []config.AliasOverride{
				{SourceID: sourceID.String(), TargetID: targetID.String()},
				{SourceID: "not-a-uuid", TargetID: targetID.String()}, // skipped
			},
		},
	}
	fx := createTestDedupService(t, cfg)

	ctx := context.Background()
	caller := adminCaller()

	keys := []dedup.ProfileKeys{
		{ID: sourceID, Name: strPtr("alias source")},
		{ID: targetID, Name: strPtr("Alias Target")},
	}

	fx.gate.EXPECT().RequireAdmin(ctx, caller).Return(nil)
	fx.profileRepo.EXPECT().ListIdentityKeys(ctx).Return(keys, nil)

	groups, err := fx.service.FindDuplicateGroups(ctx, caller)

	require.NoError(t, err)
	require.NotEmpty(t, groups)
	assert.Equal(t, dedup.MatchAlias, groups[0].Type)
	assert.Equal(t, []uuid.UUID{targetID, sourceID}, groups[0].MemberIDs)
}

func TestDedupService_PlanMerges_TargetHasMostActivity(t *testing.T) {
	fx := createTestDedupService(t, nil)

	ctx := context.Background()
	caller := adminCaller()

	busyID := uuid.New()
	idleID := uuid.New()
	groups := []dedup.Group{
		{Type: dedup.MatchEmail, Key: "jane.doe@school.edu", MemberIDs: []uuid.UUID{idleID, busyID}},
	}

	now := time.Now()
	stats := map[uuid.UUID]dedup.MemberStats{
		busyID: {ID: busyID, Name: strPtr("Jane Doe"), CreatedAt: now, UpdatedAt: now},
		idleID: {ID: idleID, Name: strPtr("jdoe"), CreatedAt: now, UpdatedAt: now},
	}

	fx.gate.EXPECT().RequireAdmin(ctx, caller).Return(nil)
	fx.profileRepo.EXPECT().
		ListMergeStats(ctx, mock.AnythingOfType("[]uuid.UUID")).
		Return(stats, nil)
	fx.activityRepo.EXPECT().
		CountByOwners(ctx, mock.AnythingOfType("[]uuid.UUID")).
		Return(map[uuid.UUID]int64{busyID: 7, idleID: 1}, nil)

	directives, err := fx.service.PlanMerges(ctx, caller, groups)

	require.NoError(t, err)
	require.Len(t, directives, 1)
	assert.Equal(t, busyID, directives[0].TargetID)
	assert.Equal(t, idleID, directives[0].SourceID)
	assert.Equal(t, dedup.MatchEmail, directives[0].Reason)
}

func TestDedupService_PlanMerges_EmptyGroups(t *testing.T) {
	fx := createTestDedupService(t, nil)

	ctx := context.Background()
	caller := adminCaller()

	fx.gate.EXPECT().RequireAdmin(ctx, caller).Return(nil)

	directives, err := fx.service.PlanMerges(ctx, caller, nil)

	require.NoError(t, err)
	assert.Empty(t, directives)
}

func TestDedupService_ApplyMerge_RejectsInvalidInput(t *testing.T) {
	sameID := uuid.New().String()

	cases := []struct {
		name  string
		input usecase.ApplyMergeInput
	}{
		{"missing source", usecase.ApplyMergeInput{TargetID: uuid.New().String()}},
		{"missing target", usecase.ApplyMergeInput{SourceID: uuid.New().String()}},
		{"malformed source", usecase.ApplyMergeInput{SourceID: "not-a-uuid", TargetID: uuid.New().String()}},
		{"malformed target", usecase.ApplyMergeInput{SourceID: uuid.New().String(), TargetID: "not-a-uuid"}},
		{"identical ids", usecase.ApplyMergeInput{SourceID: sameID, TargetID: sameID}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// No gate or store expectations: rejection happens first.
			fx := createTestDedupService(t, nil)

			result, err := fx.service.ApplyMerge(context.Background(), adminCaller(), tc.input)

			assert.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, errors.Is(err, domainerrors.ErrInvalidArgument))
		})
	}
}

func TestDedupService_ApplyMerge_MergesSourceIntoTarget(t *testing.T) {
	fx := createTestDedupService(t, nil)

	ctx := context.Background()
	caller := adminCaller()

	sourceID := uuid.New()
	targetID := uuid.New()

	source := &entity.Profile{
		ID:    sourceID,
		Name:  strPtr("Jane Doe"),
		Class: strPtr("3-B"),
	}
	target := &entity.Profile{
		ID:    targetID,
		Name:  strPtr("jdoe"),
		Email: strPtr("jane.doe@school.edu"),
	}

	fx.gate.EXPECT().RequireAdmin(ctx, caller).Return(nil)

	var upserted *entity.Profile
	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockProfileRepo := mockRepo.NewMockProfileRepository(t)
			mockActivityRepo := mockRepo.NewMockActivityRepository(t)

			mockFactory.EXPECT().ProfileRepo().Return(mockProfileRepo)
			mockFactory.EXPECT().ActivityRepo().Return(mockActivityRepo)

			mockActivityRepo.EXPECT().
				ReassignOwner(ctx, sourceID, targetID).
				Return(int64(3), nil)

			mockProfileRepo.EXPECT().FindByID(ctx, sourceID).Return(source, nil)
			mockProfileRepo.EXPECT().FindByID(ctx, targetID).Return(target, nil)

			mockProfileRepo.EXPECT().
				Upsert(ctx, mock.AnythingOfType("*entity.Profile")).
				Run(func(ctx context.Context, profile *entity.Profile) {
					upserted = profile
				}).
				Return(nil)

			mockProfileRepo.EXPECT().Delete(ctx, sourceID).Return(true, nil)

			_ = fn(mockFactory)
		}).
		Return(nil)

	fx.publisher.EXPECT().
		PublishMergeEvent(ctx, mock.AnythingOfType("*service.MergeEvent")).
		Return(nil)

	result, err := fx.service.ApplyMerge(ctx, caller, usecase.ApplyMergeInput{
		SourceID: sourceID.String(),
		TargetID: targetID.String(),
	})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, int64(3), result.MovedActivityCount)
	assert.True(t, result.DeletedSourceProfile)

	// The source's human-looking name wins over the target's login-style one;
	// every other attribute keeps the target's value when present.
	require.NotNil(t, upserted)
	assert.Equal(t, targetID, upserted.ID)
	assert.Equal(t, "Jane Doe", *upserted.Name)
	assert.Equal(t, "jane.doe@school.edu", *upserted.Email)
	assert.Equal(t, "3-B", *upserted.Class)
}

func TestDedupService_ApplyMerge_PreferSourceNameFlagForcesSource(t *testing.T) {
	fx := createTestDedupService(t, nil)

	ctx := context.Background()
	caller := adminCaller()

	sourceID := uuid.New()
	targetID := uuid.New()

	// Both names look human; the heuristic alone would keep the target's.
	source := &entity.Profile{ID: sourceID, Name: strPtr("Jane Austen")}
	target := &entity.Profile{ID: targetID, Name: strPtr("Jane Doe")}

	fx.gate.EXPECT().RequireAdmin(ctx, caller).Return(nil)

	var upserted *entity.Profile
	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockProfileRepo := mockRepo.NewMockProfileRepository(t)
			mockActivityRepo := mockRepo.NewMockActivityRepository(t)

			mockFactory.EXPECT().ProfileRepo().Return(mockProfileRepo)
			mockFactory.EXPECT().ActivityRepo().Return(mockActivityRepo)

			mockActivityRepo.EXPECT().ReassignOwner(ctx, sourceID, targetID).Return(int64(0), nil)
			mockProfileRepo.EXPECT().FindByID(ctx, sourceID).Return(source, nil)
			mockProfileRepo.EXPECT().FindByID(ctx, targetID).Return(target, nil)
			mockProfileRepo.EXPECT().
				Upsert(ctx, mock.AnythingOfType("*entity.Profile")).
				Run(func(ctx context.Context, profile *entity.Profile) {
					upserted = profile
				}).
				Return(nil)
			mockProfileRepo.EXPECT().Delete(ctx, sourceID).Return(true, nil)

			_ = fn(mockFactory)
		}).
		Return(nil)

	fx.publisher.EXPECT().
		PublishMergeEvent(ctx, mock.AnythingOfType("*service.MergeEvent")).
		Return(nil)

	result, err := fx.service.ApplyMerge(ctx, caller, usecase.ApplyMergeInput{
		SourceID:         sourceID.String(),
		TargetID:         targetID.String(),
		PreferSourceName: boolPtr(true),
	})

	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotNil(t, upserted)
	assert.Equal(t, "Jane Austen", *upserted.Name)
}

func TestDedupService_ApplyMerge_SecondRunIsNoOp(t *testing.T) {
	fx := createTestDedupService(t, nil)

	ctx := context.Background()
	caller := adminCaller()

	sourceID := uuid.New()
	targetID := uuid.New()
	target := &entity.Profile{ID: targetID, Name: strPtr("Jane Doe")}

	fx.gate.EXPECT().RequireAdmin(ctx, caller).Return(nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockProfileRepo := mockRepo.NewMockProfileRepository(t)
			mockActivityRepo := mockRepo.NewMockActivityRepository(t)

			mockFactory.EXPECT().ProfileRepo().Return(mockProfileRepo)
			mockFactory.EXPECT().ActivityRepo().Return(mockActivityRepo)

			// The first run already emptied and deleted the source.
			mockActivityRepo.EXPECT().ReassignOwner(ctx, sourceID, targetID).Return(int64(0), nil)
			mockProfileRepo.EXPECT().FindByID(ctx, sourceID).Return(nil, repository.ErrProfileNotFound)
			mockProfileRepo.EXPECT().FindByID(ctx, targetID).Return(target, nil)
			mockProfileRepo.EXPECT().
				Upsert(ctx, mock.AnythingOfType("*entity.Profile")).
				Return(nil)

			_ = fn(mockFactory)
		}).
		Return(nil)

	fx.publisher.EXPECT().
		PublishMergeEvent(ctx, mock.AnythingOfType("*service.MergeEvent")).
		Return(nil)

	result, err := fx.service.ApplyMerge(ctx, caller, usecase.ApplyMergeInput{
		SourceID: sourceID.String(),
		TargetID: targetID.String(),
	})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, int64(0), result.MovedActivityCount)
	assert.False(t, result.DeletedSourceProfile)
}

func TestDedupService_ApplyMerge_RollsBackOnUpsertFailure(t *testing.T) {
	fx := createTestDedupService(t, nil)

	ctx := context.Background()
	caller := adminCaller()

	sourceID := uuid.New()
	targetID := uuid.New()

	fx.gate.EXPECT().RequireAdmin(ctx, caller).Return(nil)

	writeErr := errors.New("write conflict")
	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Return(errors.Wrap(writeErr, "failed to write merged target profile"))

	result, err := fx.service.ApplyMerge(ctx, caller, usecase.ApplyMergeInput{
		SourceID: sourceID.String(),
		TargetID: targetID.String(),
	})

	// No audit event escapes a rolled-back merge.
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestDedupService_AutoMerge_SummarizesOutcomes(t *testing.T) {
	fx := createTestDedupService(t, nil)

	ctx := context.Background()
	caller := adminCaller()

	groupATarget := uuid.New()
	groupASource := uuid.New()
	groupBTarget := uuid.New()
	groupBSource := uuid.New()

	keys := []dedup.ProfileKeys{
		{ID: groupATarget, Email: strPtr("a@school.edu"), Name: strPtr("Alice Au")},
		{ID: groupASource, Email: strPtr("a@school.edu"), Name: strPtr("alice")},
		{ID: groupBTarget, Email: strPtr("b@school.edu"), Name: strPtr("Bob Bee")},
		{ID: groupBSource, Email: strPtr("b@school.edu"), Name: strPtr("bob")},
	}

	now := time.Now()
	stats := map[uuid.UUID]dedup.MemberStats{
		groupATarget: {ID: groupATarget, Name: strPtr("Alice Au"), CreatedAt: now, UpdatedAt: now},
		groupASource: {ID: groupASource, Name: strPtr("alice"), CreatedAt: now, UpdatedAt: now},
		groupBTarget: {ID: groupBTarget, Name: strPtr("Bob Bee"), CreatedAt: now, UpdatedAt: now},
		groupBSource: {ID: groupBSource, Name: strPtr("bob"), CreatedAt: now, UpdatedAt: now},
	}
	counts := map[uuid.UUID]int64{
		groupATarget: 5, groupASource: 1,
		groupBTarget: 4, groupBSource: 0,
	}

	fx.gate.EXPECT().RequireAdmin(ctx, caller).Return(nil)
	fx.profileRepo.EXPECT().ListIdentityKeys(ctx).Return(keys, nil)
	fx.profileRepo.EXPECT().
		ListMergeStats(ctx, mock.AnythingOfType("[]uuid.UUID")).
		Return(stats, nil)
	fx.activityRepo.EXPECT().
		CountByOwners(ctx, mock.AnythingOfType("[]uuid.UUID")).
		Return(counts, nil)

	// First directive merges cleanly; the second hits a transaction failure
	// and must not abort the pass.
	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockProfileRepo := mockRepo.NewMockProfileRepository(t)
			mockActivityRepo := mockRepo.NewMockActivityRepository(t)

			mockFactory.EXPECT().ProfileRepo().Return(mockProfileRepo)
			mockFactory.EXPECT().ActivityRepo().Return(mockActivityRepo)

			mockActivityRepo.EXPECT().ReassignOwner(ctx, groupASource, groupATarget).Return(int64(1), nil)
			mockProfileRepo.EXPECT().FindByID(ctx, groupASource).
				Return(&entity.Profile{ID: groupASource, Name: strPtr("alice")}, nil)
			mockProfileRepo.EXPECT().FindByID(ctx, groupATarget).
				Return(&entity.Profile{ID: groupATarget, Name: strPtr("Alice Au")}, nil)
			mockProfileRepo.EXPECT().Upsert(ctx, mock.AnythingOfType("*entity.Profile")).Return(nil)
			mockProfileRepo.EXPECT().Delete(ctx, groupASource).Return(true, nil)

			_ = fn(mockFactory)
		}).
		Return(nil).
		Once()
	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Return(errors.New("deadlock detected")).
		Once()

	fx.publisher.EXPECT().
		PublishMergeEvent(ctx, mock.AnythingOfType("*service.MergeEvent")).
		Return(nil).
		Once()

	summary, err := fx.service.AutoMerge(ctx, caller)

	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, 2, summary.Planned)
	assert.Equal(t, 1, summary.Merged)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Results, 2)

	assert.Equal(t, groupASource.String(), summary.Results[0].SourceID)
	assert.Equal(t, groupATarget.String(), summary.Results[0].TargetID)
	assert.Equal(t, int64(1), summary.Results[0].MovedActivityCount)
	assert.True(t, summary.Results[0].DeletedSourceProfile)
	assert.Empty(t, summary.Results[0].Error)

	assert.Equal(t, groupBSource.String(), summary.Results[1].SourceID)
	assert.Equal(t, groupBTarget.String(), summary.Results[1].TargetID)
	assert.Contains(t, summary.Results[1].Error, "deadlock")
}

func TestDedupService_AutoMerge_Forbidden(t *testing.T) {
	fx := createTestDedupService(t, nil)

	ctx := context.Background()
	caller := service.Caller{}

	fx.gate.EXPECT().
		RequireAdmin(ctx, caller).
		Return(errors.Wrap(domainerrors.ErrUnauthenticated, "no caller identity could be resolved"))

	summary, err := fx.service.AutoMerge(ctx, caller)

	assert.Error(t, err)
	assert.Nil(t, summary)
	assert.True(t, errors.Is(err, domainerrors.ErrUnauthenticated))
}
