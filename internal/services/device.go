package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"farmtrack/internal/domain"
)

type deviceService struct {
	deviceRepo domain.DeviceRepository
	userRepo   domain.UserRepository
}

// NewDeviceService creates a DeviceService.
func NewDeviceService(deviceRepo domain.DeviceRepository, userRepo domain.UserRepository) domain.DeviceService {
	return &deviceService{deviceRepo: deviceRepo, userRepo: userRepo}
}

// Register upserts the device by token. Re-registering an existing token moves
// it to the calling user, which happens when someone logs in on a shared phone.
func (s *deviceService) Register(ctx context.Context, userID string, device *domain.Device) (*domain.DeviceRegistration, error) {
	if device.DeviceToken == "" {
		return nil, fmt.Errorf("device token is required")
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	now := time.Now()
	existing, err := s.deviceRepo.GetByToken(ctx, device.DeviceToken)
	switch {
	case err == nil:
		existing.UserID = userID
		existing.DeviceName = device.DeviceName
		existing.Platform = device.Platform
		existing.AppVersion = device.AppVersion
		existing.UpdatedAt = now
		if err := s.deviceRepo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to update device: %w", err)
		}
		return &domain.DeviceRegistration{Device: existing, Registered: false, Enabled: user.NotificationsEnabled}, nil
	case errors.Is(err, sql.ErrNoRows):
		created := domain.NewDevice(userID, device.DeviceToken, device.DeviceName, device.Platform, device.AppVersion, now, now)
		if err := s.deviceRepo.Create(ctx, created); err != nil {
			return nil, fmt.Errorf("failed to create device: %w", err)
		}
		return &domain.DeviceRegistration{Device: created, Registered: true, Enabled: user.NotificationsEnabled}, nil
	default:
		return nil, fmt.Errorf("failed to look up device: %w", err)
	}
}

func (s *deviceService) IsRegistered(ctx context.Context, token string) (bool, error) {
	_, err := s.deviceRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up device: %w", err)
	}
	return true, nil
}
