package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	deliverycontext "classtrack/internal/delivery/context"
	"classtrack/internal/delivery/http/response"
	"classtrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AttachmentHandler holds dependencies for activity attachment handlers.
type AttachmentHandler struct {
	attachmentUC usecase.AttachmentUsecase
	logger       *slog.Logger
}

// NewAttachmentHandler is the constructor for AttachmentHandler, injected by Fx.
func NewAttachmentHandler(attachmentUC usecase.AttachmentUsecase, logger *slog.Logger) *AttachmentHandler {
	return &AttachmentHandler{
		attachmentUC: attachmentUC,
		logger:       logger,
	}
}

// UploadAttachment handles a multipart file upload onto an activity.
func (h *AttachmentHandler) UploadAttachment(c echo.Context) error {
	activityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid activity id")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Missing file field")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return errors.Wrap(err, "failed to open uploaded file")
	}
	defer file.Close()

	input := &usecase.UploadAttachmentInput{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(echo.HeaderContentType),
		Size:        fileHeader.Size,
		Content:     file,
	}

	attachment, err := h.attachmentUC.UploadAttachment(c.Request().Context(), deliverycontext.GetCaller(c), activityID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, attachment, "Attachment uploaded successfully")
}

// DownloadAttachment streams an attachment back to its owner.
func (h *AttachmentHandler) DownloadAttachment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("attachmentId"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid attachment id")
	}

	attachment, content, err := h.attachmentUC.DownloadAttachment(c.Request().Context(), deliverycontext.GetCaller(c), id)
	if err != nil {
		return errors.WithStack(err)
	}
	defer content.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", attachment.FileName))

	return c.Stream(http.StatusOK, attachment.ContentType, content)
}
