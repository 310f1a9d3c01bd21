package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"classtrack/config"
	"classtrack/internal/domain/entity"
	domainerrors "classtrack/internal/domain/errors"
	"classtrack/internal/domain/repository"
	"classtrack/internal/domain/service"
	mockRepo "classtrack/internal/mocks/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func createTestAdminGate(t *testing.T, cfg *config.Config) (service.AdminGate, *mockRepo.MockRoleRepository) {
	roleRepo := mockRepo.NewMockRoleRepository(t)
	gate := NewAdminGate(AdminGateParams{
		RoleRepo: roleRepo,
		Config:   cfg,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	return gate, roleRepo
}

func roleIDPtr(id int) *int {
	return &id
}

func TestAdminGate_AnonymousCaller(t *testing.T) {
	gate, _ := createTestAdminGate(t, nil)

	err := gate.RequireAdmin(context.Background(), service.Caller{})

	assert.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUnauthenticated))
}

func TestAdminGate_CallerWithoutRole(t *testing.T) {
	gate, _ := createTestAdminGate(t, nil)

	err := gate.RequireAdmin(context.Background(), service.Caller{ProfileID: uuid.New()})

	assert.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
}

func TestAdminGate_OverrideRoleIDBypassesLookup(t *testing.T) {
	cfg := &config.Config{Admin: &config.AdminConfig{OverrideRoleID: roleIDPtr(99)}}
	gate, _ := createTestAdminGate(t, cfg)

	caller := service.Caller{ProfileID: uuid.New(), RoleID: roleIDPtr(99)}

	err := gate.RequireAdmin(context.Background(), caller)

	assert.NoError(t, err)
}

func TestAdminGate_AdminRoleNameAllowed(t *testing.T) {
	gate, roleRepo := createTestAdminGate(t, nil)

	ctx := context.Background()
	caller := service.Caller{ProfileID: uuid.New(), RoleID: roleIDPtr(3)}

	roleRepo.EXPECT().
		FindByID(ctx, 3).
		Return(&entity.Role{ID: 3, Name: entity.RoleNameAdmin}, nil)

	err := gate.RequireAdmin(ctx, caller)

	assert.NoError(t, err)
}

func TestAdminGate_ConfiguredRoleNamesReplaceDefault(t *testing.T) {
	cfg := &config.Config{Admin: &config.AdminConfig{AdminRoleNames: []string{"principal"}}}
	gate, roleRepo := createTestAdminGate(t, cfg)

	ctx := context.Background()

	roleRepo.EXPECT().
		FindByID(ctx, 3).
		Return(&entity.Role{ID: 3, Name: entity.RoleNameAdmin}, nil).
		Once()
	roleRepo.EXPECT().
		FindByID(ctx, 4).
		Return(&entity.Role{ID: 4, Name: "principal"}, nil).
		Once()

	// The default "admin" name is no longer privileged once names are configured.
	err := gate.RequireAdmin(ctx, service.Caller{ProfileID: uuid.New(), RoleID: roleIDPtr(3)})
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))

	err = gate.RequireAdmin(ctx, service.Caller{ProfileID: uuid.New(), RoleID: roleIDPtr(4)})
	assert.NoError(t, err)
}

func TestAdminGate_NonAdminRoleDenied(t *testing.T) {
	gate, roleRepo := createTestAdminGate(t, nil)

	ctx := context.Background()
	caller := service.Caller{ProfileID: uuid.New(), RoleID: roleIDPtr(1)}

	roleRepo.EXPECT().
		FindByID(ctx, 1).
		Return(&entity.Role{ID: 1, Name: entity.RoleNameStudent}, nil)

	err := gate.RequireAdmin(ctx, caller)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
}

func TestAdminGate_UnresolvableRoleDenies(t *testing.T) {
	gate, roleRepo := createTestAdminGate(t, nil)

	ctx := context.Background()
	caller := service.Caller{ProfileID: uuid.New(), RoleID: roleIDPtr(42)}

	roleRepo.EXPECT().
		FindByID(ctx, 42).
		Return(nil, repository.ErrRoleNotFound)

	err := gate.RequireAdmin(ctx, caller)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
}
