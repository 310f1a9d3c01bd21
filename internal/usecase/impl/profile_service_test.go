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
	mockSvc "classtrack/internal/mocks/service"
	"classtrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// profileServiceFixtures holds all test dependencies for profile service tests.
type profileServiceFixtures struct {
	service          usecase.ProfileUsecase
	txManager        *mockRepo.MockTransactionManager
	profileRepo      *mockRepo.MockProfileRepository
	refreshTokenRepo *mockRepo.MockRefreshTokenRepository
	roleRepo         *mockRepo.MockRoleRepository
	hasher           *mockSvc.MockPasswordHasher
	tokenService     *mockSvc.MockTokenService
}

func createTestProfileService(t *testing.T, maxActiveSessions int) profileServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	profileRepo := mockRepo.NewMockProfileRepository(t)
	refreshTokenRepo := mockRepo.NewMockRefreshTokenRepository(t)
	roleRepo := mockRepo.NewMockRoleRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	tokenService := mockSvc.NewMockTokenService(t)

	service := NewProfileService(ProfileServiceParams{
		TxManager:        txManager,
		ProfileRepo:      profileRepo,
		RefreshTokenRepo: refreshTokenRepo,
		RoleRepo:         roleRepo,
		Hasher:           hasher,
		TokenService:     tokenService,
		Config:           newTestConfig(maxActiveSessions),
		Logger:           newDiscardLogger(),
	})

	return profileServiceFixtures{
		service:          service,
		txManager:        txManager,
		profileRepo:      profileRepo,
		refreshTokenRepo: refreshTokenRepo,
		roleRepo:         roleRepo,
		hasher:           hasher,
		tokenService:     tokenService,
	}
}

func TestProfileService_Register_Success(t *testing.T) {
	fx := createTestProfileService(t, 0)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Name:     "Test Student",
		Email:    "student@school.edu",
		Password: "Password123",
		Class:    "3-B",
	}

	fx.hasher.EXPECT().ValidatePasswordStrength(input.Password).Return(nil)
	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)
	fx.roleRepo.EXPECT().
		FindByName(ctx, entity.RoleNameStudent).
		Return(&entity.Role{ID: 1, Name: entity.RoleNameStudent}, nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockProfileRepo := mockRepo.NewMockProfileRepository(t)
			mockAuthRepo := mockRepo.NewMockAuthRepository(t)

			mockFactory.EXPECT().ProfileRepo().Return(mockProfileRepo)
			mockFactory.EXPECT().AuthRepo().Return(mockAuthRepo)

			mockAuthRepo.EXPECT().
				FindAuthentication(ctx, entity.ProviderTypeEmail, input.Email).
				Return(nil, repository.ErrAuthNotFound)

			mockProfileRepo.EXPECT().
				Create(ctx, mock.AnythingOfType("*entity.Profile")).
				Run(func(ctx context.Context, profile *entity.Profile) {
					profile.ID = uuid.New()
				}).
				Return(nil)

			mockAuthRepo.EXPECT().
				CreateAuthentication(ctx, mock.AnythingOfType("*entity.Authentication")).
				Return(nil)

			_ = fn(mockFactory)
		}).
		Return(nil)

	output, err := fx.service.Register(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, output)
	require.NotNil(t, output.Profile)
	assert.Equal(t, input.Email, *output.Profile.Email)
	assert.Equal(t, input.Name, *output.Profile.Name)
	assert.Equal(t, input.Class, *output.Profile.Class)
	require.NotNil(t, output.Profile.RoleID)
	assert.Equal(t, 1, *output.Profile.RoleID)
}

func TestProfileService_Register_WeakPassword(t *testing.T) {
	fx := createTestProfileService(t, 0)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Email:    "student@school.edu",
		Password: "short",
	}

	fx.hasher.EXPECT().
		ValidatePasswordStrength(input.Password).
		Return(errors.New("password must be at least 8 characters long"))

	output, err := fx.service.Register(ctx, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestProfileService_Register_EmailAlreadyRegistered(t *testing.T) {
	fx := createTestProfileService(t, 0)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Email:    "student@school.edu",
		Password: "Password123",
	}

	fx.hasher.EXPECT().ValidatePasswordStrength(input.Password).Return(nil)
	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)
	fx.roleRepo.EXPECT().
		FindByName(ctx, entity.RoleNameStudent).
		Return(&entity.Role{ID: 1, Name: entity.RoleNameStudent}, nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockAuthRepo := mockRepo.NewMockAuthRepository(t)

			mockFactory.EXPECT().AuthRepo().Return(mockAuthRepo)
			mockFactory.EXPECT().ProfileRepo().Return(mockRepo.NewMockProfileRepository(t))

			mockAuthRepo.EXPECT().
				FindAuthentication(ctx, entity.ProviderTypeEmail, input.Email).
				Return(&entity.Authentication{ProfileID: uuid.New()}, nil)

			_ = fn(mockFactory)
		}).
		Return(errors.Wrap(domainerrors.ErrProfileAlreadyExists, "email already registered"))

	output, err := fx.service.Register(ctx, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrProfileAlreadyExists))
}

func TestProfileService_Login_Success(t *testing.T) {
	fx := createTestProfileService(t, 0)

	ctx := context.Background()
	input := &usecase.LoginInput{
		Email:    "student@school.edu",
		Password: "Password123",
	}

	profileID := uuid.New()
	authRecord := &entity.Authentication{
		ProfileID:    profileID,
		Provider:     entity.ProviderTypeEmail,
		PasswordHash: "hashed_password",
	}
	profile := &entity.Profile{
		ID:     profileID,
		Email:  strPtr(input.Email),
		RoleID: intPtr(1),
	}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockAuthRepo := mockRepo.NewMockAuthRepository(t)

			mockFactory.EXPECT().AuthRepo().Return(mockAuthRepo)
			mockAuthRepo.EXPECT().
				FindAuthentication(ctx, entity.ProviderTypeEmail, input.Email).
				Return(authRecord, nil)

			_ = fn(mockFactory)
		}).
		Return(nil).
		Once()

	fx.hasher.EXPECT().Check(input.Password, authRecord.PasswordHash).Return(true)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockProfileRepo := mockRepo.NewMockProfileRepository(t)

			mockFactory.EXPECT().ProfileRepo().Return(mockProfileRepo)
			mockProfileRepo.EXPECT().FindByID(ctx, profileID).Return(profile, nil)

			_ = fn(mockFactory)
		}).
		Return(nil).
		Once()

	fx.tokenService.EXPECT().
		GenerateTokens(profileID, profile.RoleID).
		Return("access_token", "refresh_token", nil)
	fx.tokenService.EXPECT().HashToken("refresh_token").Return("refresh_token_hash")
	fx.tokenService.EXPECT().GetRefreshTokenDuration().Return(7 * 24 * time.Hour)

	fx.refreshTokenRepo.EXPECT().
		CreateRefreshToken(ctx, mock.AnythingOfType("*entity.RefreshToken")).
		Run(func(ctx context.Context, token *entity.RefreshToken) {
			assert.Equal(t, profileID, token.ProfileID)
			assert.Equal(t, "refresh_token_hash", token.TokenHash)
		}).
		Return(nil)

	output, err := fx.service.Login(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, "access_token", output.AccessToken)
	assert.Equal(t, "refresh_token", output.RefreshToken)
	assert.Equal(t, profile, output.Profile)
}

func TestProfileService_Login_WrongPassword(t *testing.T) {
	fx := createTestProfileService(t, 0)

	ctx := context.Background()
	input := &usecase.LoginInput{
		Email:    "student@school.edu",
		Password: "wrong",
	}

	authRecord := &entity.Authentication{
		ProfileID:    uuid.New(),
		PasswordHash: "hashed_password",
	}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockAuthRepo := mockRepo.NewMockAuthRepository(t)

			mockFactory.EXPECT().AuthRepo().Return(mockAuthRepo)
			mockAuthRepo.EXPECT().
				FindAuthentication(ctx, entity.ProviderTypeEmail, input.Email).
				Return(authRecord, nil)

			_ = fn(mockFactory)
		}).
		Return(nil)

	fx.hasher.EXPECT().Check(input.Password, authRecord.PasswordHash).Return(false)

	output, err := fx.service.Login(ctx, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestProfileService_Login_SessionLimitExceeded(t *testing.T) {
	fx := createTestProfileService(t, 2)

	ctx := context.Background()
	input := &usecase.LoginInput{
		Email:    "student@school.edu",
		Password: "Password123",
	}

	profileID := uuid.New()
	authRecord := &entity.Authentication{
		ProfileID:    profileID,
		PasswordHash: "hashed_password",
	}
	profile := &entity.Profile{ID: profileID, RoleID: intPtr(1)}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockAuthRepo := mockRepo.NewMockAuthRepository(t)

			mockFactory.EXPECT().AuthRepo().Return(mockAuthRepo)
			mockAuthRepo.EXPECT().
				FindAuthentication(ctx, entity.ProviderTypeEmail, input.Email).
				Return(authRecord, nil)

			_ = fn(mockFactory)
		}).
		Return(nil).
		Once()

	fx.hasher.EXPECT().Check(input.Password, authRecord.PasswordHash).Return(true)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockProfileRepo := mockRepo.NewMockProfileRepository(t)

			mockFactory.EXPECT().ProfileRepo().Return(mockProfileRepo)
			mockProfileRepo.EXPECT().FindByID(ctx, profileID).Return(profile, nil)

			_ = fn(mockFactory)
		}).
		Return(nil).
		Once()

	fx.tokenService.EXPECT().
		GenerateTokens(profileID, profile.RoleID).
		Return("access_token", "refresh_token", nil)

	fx.refreshTokenRepo.EXPECT().
		CountActiveSessionsByProfileID(ctx, profileID).
		Return(2, nil)

	output, err := fx.service.Login(ctx, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrSessionLimitExceeded))
}

func TestProfileService_RefreshToken_Success(t *testing.T) {
	fx := createTestProfileService(t, 0)

	ctx := context.Background()
	input := &usecase.RefreshTokenInput{RefreshToken: "refresh_token"}

	profileID := uuid.New()
	profile := &entity.Profile{ID: profileID, RoleID: intPtr(1)}

	fx.tokenService.EXPECT().
		ValidateRefreshToken(input.RefreshToken).
		Return(&service.TokenClaims{ProfileID: profileID}, nil)
	fx.tokenService.EXPECT().HashToken(input.RefreshToken).Return("refresh_token_hash")
	fx.tokenService.EXPECT().
		GenerateTokens(profileID, profile.RoleID).
		Return("new_access_token", "unused_refresh", nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockProfileRepo := mockRepo.NewMockProfileRepository(t)
			mockRefreshRepo := mockRepo.NewMockRefreshTokenRepository(t)

			mockFactory.EXPECT().ProfileRepo().Return(mockProfileRepo)
			mockFactory.EXPECT().RefreshTokenRepo().Return(mockRefreshRepo)

			mockRefreshRepo.EXPECT().
				FindRefreshTokenByHash(ctx, "refresh_token_hash").
				Return(&entity.RefreshToken{ProfileID: profileID}, nil)
			mockProfileRepo.EXPECT().FindByID(ctx, profileID).Return(profile, nil)

			_ = fn(mockFactory)
		}).
		Return(nil)

	output, err := fx.service.RefreshToken(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, "new_access_token", output.AccessToken)
}

func TestProfileService_RefreshToken_RevokedToken(t *testing.T) {
	fx := createTestProfileService(t, 0)

	ctx := context.Background()
	input := &usecase.RefreshTokenInput{RefreshToken: "revoked_token"}

	fx.tokenService.EXPECT().
		ValidateRefreshToken(input.RefreshToken).
		Return(&service.TokenClaims{ProfileID: uuid.New()}, nil)
	fx.tokenService.EXPECT().HashToken(input.RefreshToken).Return("revoked_hash")

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockRefreshRepo := mockRepo.NewMockRefreshTokenRepository(t)

			mockFactory.EXPECT().ProfileRepo().Return(mockRepo.NewMockProfileRepository(t))
			mockFactory.EXPECT().RefreshTokenRepo().Return(mockRefreshRepo)

			mockRefreshRepo.EXPECT().
				FindRefreshTokenByHash(ctx, "revoked_hash").
				Return(nil, repository.ErrRefreshTokenNotFound)

			_ = fn(mockFactory)
		}).
		Return(errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "refresh token not found or expired"))

	output, err := fx.service.RefreshToken(ctx, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))
}

func TestProfileService_Logout_Success(t *testing.T) {
	fx := createTestProfileService(t, 0)

	ctx := context.Background()
	input := &usecase.LogoutInput{RefreshToken: "refresh_token"}

	fx.tokenService.EXPECT().
		ValidateRefreshToken(input.RefreshToken).
		Return(&service.TokenClaims{ProfileID: uuid.New()}, nil)
	fx.tokenService.EXPECT().HashToken(input.RefreshToken).Return("refresh_token_hash")
	fx.refreshTokenRepo.EXPECT().DeleteRefreshTokenByHash(ctx, "refresh_token_hash").Return(nil)

	err := fx.service.Logout(ctx, input)

	require.NoError(t, err)
}

func TestProfileService_GetProfile_NotFound(t *testing.T) {
	fx := createTestProfileService(t, 0)

	ctx := context.Background()
	profileID := uuid.New()

	fx.profileRepo.EXPECT().
		FindByID(ctx, profileID).
		Return(nil, repository.ErrProfileNotFound)

	profile, err := fx.service.GetProfile(ctx, profileID)

	assert.Error(t, err)
	assert.Nil(t, profile)
	assert.True(t, errors.Is(err, domainerrors.ErrProfileNotFound))
}
