package handler

import (
	"log/slog"
	"net/http"

	deliverycontext "classtrack/internal/delivery/context"
	"classtrack/internal/delivery/http/response"
	"classtrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ActivityHandler holds dependencies for activity record handlers.
type ActivityHandler struct {
	activityUC usecase.ActivityUsecase
	commentUC  usecase.CommentUsecase
	logger     *slog.Logger
}

// NewActivityHandler is the constructor for ActivityHandler, injected by Fx.
func NewActivityHandler(activityUC usecase.ActivityUsecase, commentUC usecase.CommentUsecase, logger *slog.Logger) *ActivityHandler {
	return &ActivityHandler{
		activityUC: activityUC,
		commentUC:  commentUC,
		logger:     logger,
	}
}

// CreateActivity handles the request to record a new activity.
func (h *ActivityHandler) CreateActivity(c echo.Context) error {
	var input *usecase.CreateActivityInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid activity input")
	}
	if err := c.Validate(input); err != nil {
		return err
	}

	activity, err := h.activityUC.CreateActivity(c.Request().Context(), deliverycontext.GetCaller(c), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, activity, "Activity created successfully")
}

// GetActivity handles the request to read one activity.
func (h *ActivityHandler) GetActivity(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid activity id")
	}

	activity, err := h.activityUC.GetActivity(c.Request().Context(), deliverycontext.GetCaller(c), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, activity, "Activity retrieved successfully")
}

// ListMyActivities handles the request to list the caller's activities.
func (h *ActivityHandler) ListMyActivities(c echo.Context) error {
	activities, err := h.activityUC.ListMyActivities(c.Request().Context(), deliverycontext.GetCaller(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, activities, "Activities retrieved successfully")
}

// UpdateActivity handles the request to partially update an activity.
func (h *ActivityHandler) UpdateActivity(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid activity id")
	}

	var input *usecase.UpdateActivityInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid activity update input")
	}

	activity, err := h.activityUC.UpdateActivity(c.Request().Context(), deliverycontext.GetCaller(c), id, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, activity, "Activity updated successfully")
}

// DeleteActivity handles the request to remove an activity.
func (h *ActivityHandler) DeleteActivity(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid activity id")
	}

	if err := h.activityUC.DeleteActivity(c.Request().Context(), deliverycontext.GetCaller(c), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Activity deleted"}, "Activity deleted successfully")
}

// AddComment handles the request to comment on an activity.
func (h *ActivityHandler) AddComment(c echo.Context) error {
	activityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid activity id")
	}

	var input *usecase.AddCommentInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid comment input")
	}
	if err := c.Validate(input); err != nil {
		return err
	}

	comment, err := h.commentUC.AddComment(c.Request().Context(), deliverycontext.GetCaller(c), activityID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, comment, "Comment added successfully")
}

// ListComments handles the request to list an activity's comments.
func (h *ActivityHandler) ListComments(c echo.Context) error {
	activityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid activity id")
	}

	comments, err := h.commentUC.ListComments(c.Request().Context(), deliverycontext.GetCaller(c), activityID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, comments, "Comments retrieved successfully")
}
