package domain

import (
	"context"
	"time"
)

// Device represents a mobile device registered for push notifications.
// swagger:model Device
type Device struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	DeviceToken string    `json:"device_token"`
	DeviceName  string    `json:"device_name"`
	Platform    string    `json:"platform"`
	AppVersion  string    `json:"app_version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewDevice returns a new Device. ID is set by the repository on create.
func NewDevice(userID, token, name, platform, appVersion string, createdAt, updatedAt time.Time) *Device {
	return &Device{
		UserID:      userID,
		DeviceToken: token,
		DeviceName:  name,
		Platform:    platform,
		AppVersion:  appVersion,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// DeviceRepository defines the interface for device storage.
type DeviceRepository interface {
	Create(ctx context.Context, device *Device) error
	GetByToken(ctx context.Context, token string) (*Device, error)
	Update(ctx context.Context, device *Device) error
	ListByUserID(ctx context.Context, userID string) ([]*Device, error)
}

// DeviceRegistration is the result of registering a device: whether a new row
// was created (false means an existing token was updated) and whether the
// owning user currently has notifications enabled.
type DeviceRegistration struct {
	Device     *Device `json:"device"`
	Registered bool    `json:"registered"`
	Enabled    bool    `json:"enabled"`
}

// DeviceService defines device registration operations.
type DeviceService interface {
	// Register creates the device or updates an existing row with the same token.
	Register(ctx context.Context, userID string, device *Device) (*DeviceRegistration, error)
	// IsRegistered reports whether a device token is known.
	IsRegistered(ctx context.Context, token string) (bool, error)
}
