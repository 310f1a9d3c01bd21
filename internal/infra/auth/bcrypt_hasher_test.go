package auth

import (
	"testing"

	"classtrack/config"
	domainerrors "classtrack/internal/domain/errors"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestHasher() *bcryptHasher {
	cfg := &config.Config{Auth: &config.AuthConfig{BcryptCost: 4}}

	return NewBcryptHasher(cfg).(*bcryptHasher)
}

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	hasher := createTestHasher()

	hash, err := hasher.Hash("Sup3rSecret")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "Sup3rSecret", hash)

	assert.True(t, hasher.Check("Sup3rSecret", hash))
	assert.False(t, hasher.Check("WrongSecret", hash))
}

func TestBcryptHasher_ValidatePasswordStrength(t *testing.T) {
	hasher := createTestHasher()

	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{name: "valid password", password: "Sup3rSecret", wantErr: nil},
		{name: "too short", password: "Ab1", wantErr: domainerrors.ErrPasswordStrength},
		{name: "no uppercase", password: "sup3rsecret", wantErr: domainerrors.ErrPasswordStrength},
		{name: "no lowercase", password: "SUP3RSECRET", wantErr: domainerrors.ErrPasswordStrength},
		{name: "no digit", password: "SuperSecret", wantErr: domainerrors.ErrPasswordStrength},
		{name: "contains password", password: "MyPassword1", wantErr: domainerrors.ErrPasswordForbiddenWords},
		{name: "contains digit run", password: "Ab12345678", wantErr: domainerrors.ErrPasswordForbiddenWords},
		{name: "contains qwerty", password: "Qwerty1234", wantErr: domainerrors.ErrPasswordForbiddenWords},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := hasher.ValidatePasswordStrength(tt.password)
			if tt.wantErr == nil {
				assert.NoError(t, err)

				return
			}
			assert.True(t, errors.Is(err, tt.wantErr))
		})
	}
}
