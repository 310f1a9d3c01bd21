package auth

import (
	"testing"

	"classtrack/config"
	"classtrack/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestTokenService(t *testing.T) service.TokenService {
	cfg := &config.Config{}
	cfg.SecretKey.Access = "access_secret"
	cfg.SecretKey.Refresh = "refresh_secret"

	svc, err := NewJWTService(cfg)
	require.NoError(t, err)

	return svc
}

func TestNewJWTService_MissingSecrets(t *testing.T) {
	svc, err := NewJWTService(&config.Config{})

	assert.Error(t, err)
	assert.Nil(t, svc)
}

func TestJWTService_GenerateAndValidateTokens(t *testing.T) {
	svc := createTestTokenService(t)

	profileID := uuid.New()
	roleID := 3

	accessToken, refreshToken, err := svc.GenerateTokens(profileID, &roleID)
	require.NoError(t, err)
	require.NotEmpty(t, accessToken)
	require.NotEmpty(t, refreshToken)

	accessClaims, err := svc.ValidateAccessToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, profileID, accessClaims.ProfileID)
	require.NotNil(t, accessClaims.RoleID)
	assert.Equal(t, roleID, *accessClaims.RoleID)

	refreshClaims, err := svc.ValidateRefreshToken(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, profileID, refreshClaims.ProfileID)
	// The role never travels in the refresh token.
	assert.Nil(t, refreshClaims.RoleID)
}

func TestJWTService_RejectsTokenTypeMismatch(t *testing.T) {
	svc := createTestTokenService(t)

	accessToken, refreshToken, err := svc.GenerateTokens(uuid.New(), nil)
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(refreshToken)
	assert.Error(t, err)

	_, err = svc.ValidateRefreshToken(accessToken)
	assert.Error(t, err)
}

func TestJWTService_RejectsTamperedToken(t *testing.T) {
	svc := createTestTokenService(t)

	accessToken, _, err := svc.GenerateTokens(uuid.New(), nil)
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(accessToken + "x")
	assert.Error(t, err)
}

func TestJWTService_HashTokenIsDeterministic(t *testing.T) {
	svc := createTestTokenService(t)

	first := svc.HashToken("refresh_token")
	second := svc.HashToken("refresh_token")
	other := svc.HashToken("another_token")

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
	assert.Len(t, first, 64)
}
