package auth

import (
	"context"
	"log/slog"
	"slices"

	"classtrack/config"
	"classtrack/internal/domain/entity"
	domainerrors "classtrack/internal/domain/errors"
	"classtrack/internal/domain/repository"
	"classtrack/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// adminGate implements the service.AdminGate interface against the role
// table plus the configured override.
type adminGate struct {
	overrideRoleID *int
	adminRoleNames []string
	roleRepo       repository.RoleRepository
	logger         *slog.Logger
}

// AdminGateParams holds dependencies for AdminGate, injected by Fx.
type AdminGateParams struct {
	fx.In

	RoleRepo repository.RoleRepository
	Config   *config.Config
	Logger   *slog.Logger
}

// NewAdminGate is the constructor for adminGate. Without explicit
// configuration, the "admin" role name is privileged.
func NewAdminGate(params AdminGateParams) service.AdminGate {
	gate := &adminGate{
		adminRoleNames: []string{entity.RoleNameAdmin},
		roleRepo:       params.RoleRepo,
		logger:         params.Logger,
	}
	if params.Config != nil && params.Config.Admin != nil {
		gate.overrideRoleID = params.Config.Admin.OverrideRoleID
		if len(params.Config.Admin.AdminRoleNames) > 0 {
			gate.adminRoleNames = params.Config.Admin.AdminRoleNames
		}
	}

	return gate
}

// RequireAdmin returns nil for administrators, the Unauthenticated error for
// anonymous callers and the Forbidden error for everyone else. A role id
// that cannot be resolved denies, never allows.
func (g *adminGate) RequireAdmin(ctx context.Context, caller service.Caller) error {
	if caller.IsAnonymous() {
		return errors.Wrap(domainerrors.ErrUnauthenticated, "administrative access requires a caller")
	}

	if caller.RoleID == nil {
		return errors.Wrap(domainerrors.ErrForbidden, "caller has no role")
	}

	if g.overrideRoleID != nil && *caller.RoleID == *g.overrideRoleID {
		return nil
	}

	role, err := g.roleRepo.FindByID(ctx, *caller.RoleID)
	if err != nil {
		if !errors.Is(err, repository.ErrRoleNotFound) {
			g.logger.Error("Role resolution failed during admin check",
				slog.Int("roleID", *caller.RoleID),
				slog.Any("error", err),
			)
		}

		return errors.Wrap(domainerrors.ErrForbidden, "caller role could not be resolved")
	}

	if !slices.Contains(g.adminRoleNames, role.Name) {
		return errors.Wrap(domainerrors.ErrForbidden, "caller role is not administrative")
	}

	return nil
}
