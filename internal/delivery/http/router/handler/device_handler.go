package handler

import (
	"log/slog"
	"net/http"

	deliverycontext "classtrack/internal/delivery/context"
	"classtrack/internal/delivery/http/response"
	"classtrack/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// DeviceHandler holds dependencies for push device registration handlers.
type DeviceHandler struct {
	deviceUC usecase.DeviceUsecase
	logger   *slog.Logger
}

// NewDeviceHandler is the constructor for DeviceHandler, injected by Fx.
func NewDeviceHandler(deviceUC usecase.DeviceUsecase, logger *slog.Logger) *DeviceHandler {
	return &DeviceHandler{
		deviceUC: deviceUC,
		logger:   logger,
	}
}

// RegisterDevice handles the request to register a push notification device.
func (h *DeviceHandler) RegisterDevice(c echo.Context) error {
	caller := deliverycontext.GetCaller(c)
	if caller.IsAnonymous() {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	var info *usecase.DeviceInfo
	if err := c.Bind(&info); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid device registration input")
	}
	if err := c.Validate(info); err != nil {
		return err
	}

	device, err := h.deviceUC.RegisterDevice(c.Request().Context(), caller.ProfileID, info)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, device, "Device registered successfully")
}
