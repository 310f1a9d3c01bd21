package impl

import (
	"context"
	"fmt"
	"time"

	"classtrack/internal/domain/entity"
	"classtrack/internal/domain/repository"
	"classtrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type deviceService struct {
	deviceRepo repository.DeviceRepository
}

// NewDeviceService creates a new device service instance
func NewDeviceService(deviceRepo repository.DeviceRepository) usecase.DeviceUsecase {
	return &deviceService{
		deviceRepo: deviceRepo,
	}
}

// RegisterDevice registers a push target for a profile. Re-registering the
// same token reactivates it instead of failing.
func (s *deviceService) RegisterDevice(ctx context.Context, profileID uuid.UUID, info *usecase.DeviceInfo) (*entity.Device, error) {
	device := &entity.Device{
		ID:        uuid.New(),
		ProfileID: profileID,
		FCMToken:  info.FCMToken,
		Platform:  info.Platform,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	err := s.deviceRepo.CreateDevice(ctx, device)
	if errors.Is(err, repository.ErrDuplicateDevice) {
		existing, findErr := s.findExistingDevice(ctx, profileID, info.FCMToken)
		if findErr != nil {
			return nil, findErr
		}

		return existing, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create device: %w", err)
	}

	return device, nil
}

func (s *deviceService) findExistingDevice(ctx context.Context, profileID uuid.UUID, fcmToken string) (*entity.Device, error) {
	devices, err := s.deviceRepo.ListActiveByProfile(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices by profile: %w", err)
	}

	for _, device := range devices {
		if device.FCMToken == fcmToken {
			return device, nil
		}
	}

	return nil, fmt.Errorf("device token registered to another profile")
}
