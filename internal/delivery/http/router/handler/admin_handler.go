package handler

import (
	"log/slog"
	"net/http"

	"classtrack/internal/dedup"
	deliverycontext "classtrack/internal/delivery/context"
	"classtrack/internal/delivery/http/response"
	"classtrack/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AdminHandler exposes the duplicate-identity operations to administrators.
// Authorization is enforced in the usecase layer, not here; the handlers only
// carry the caller identity through.
type AdminHandler struct {
	dedupUC usecase.DedupUsecase
	logger  *slog.Logger
}

// NewAdminHandler is the constructor for AdminHandler, injected by Fx.
func NewAdminHandler(dedupUC usecase.DedupUsecase, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		dedupUC: dedupUC,
		logger:  logger,
	}
}

// FindDuplicateGroups handles the request to scan for duplicate profiles.
func (h *AdminHandler) FindDuplicateGroups(c echo.Context) error {
	groups, err := h.dedupUC.FindDuplicateGroups(c.Request().Context(), deliverycontext.GetCaller(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, groups, "Duplicate groups retrieved successfully")
}

// planMergesRequest optionally carries pre-discovered groups. When Groups is
// empty the handler runs discovery itself before planning.
type planMergesRequest struct {
	Groups []dedup.Group `json:"groups"`
}

// PlanMerges handles the request to build a merge plan.
func (h *AdminHandler) PlanMerges(c echo.Context) error {
	var input planMergesRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid merge plan input")
	}

	ctx := c.Request().Context()
	caller := deliverycontext.GetCaller(c)

	groups := input.Groups
	if len(groups) == 0 {
		discovered, err := h.dedupUC.FindDuplicateGroups(ctx, caller)
		if err != nil {
			return errors.WithStack(err)
		}
		groups = discovered
	}

	directives, err := h.dedupUC.PlanMerges(ctx, caller, groups)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, directives, "Merge plan built successfully")
}

// ApplyMerge handles the request to apply one merge directive.
func (h *AdminHandler) ApplyMerge(c echo.Context) error {
	var input usecase.ApplyMergeInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid merge input")
	}

	result, err := h.dedupUC.ApplyMerge(c.Request().Context(), deliverycontext.GetCaller(c), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "Merge applied successfully")
}

// AutoMerge handles the request to discover, plan and apply every merge in
// one pass.
func (h *AdminHandler) AutoMerge(c echo.Context) error {
	summary, err := h.dedupUC.AutoMerge(c.Request().Context(), deliverycontext.GetCaller(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, summary, "Auto-merge completed")
}
