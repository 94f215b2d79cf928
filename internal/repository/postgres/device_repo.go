package postgres

import (
	"context"
	"database/sql"

	"farmtrack/internal/domain"
)

type deviceRepository struct {
	DB *sql.DB
}

// NewDeviceRepository returns a domain.DeviceRepository implemented with Postgres.
func NewDeviceRepository(db *sql.DB) domain.DeviceRepository {
	return &deviceRepository{DB: db}
}

func (r *deviceRepository) Create(ctx context.Context, d *domain.Device) error {
	query := `
		INSERT INTO devices (user_id, device_token, device_name, platform, app_version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		d.UserID, d.DeviceToken, d.DeviceName, d.Platform, d.AppVersion, d.CreatedAt, d.UpdatedAt,
	).Scan(&d.ID)
}

func (r *deviceRepository) GetByToken(ctx context.Context, token string) (*domain.Device, error) {
	query := `
		SELECT id, user_id, device_token, device_name, platform, app_version, created_at, updated_at
		FROM devices
		WHERE device_token = $1
	`
	d := &domain.Device{}
	err := r.DB.QueryRowContext(ctx, query, token).Scan(
		&d.ID, &d.UserID, &d.DeviceToken, &d.DeviceName, &d.Platform, &d.AppVersion, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *deviceRepository) Update(ctx context.Context, d *domain.Device) error {
	query := `
		UPDATE devices
		SET user_id = $2, device_name = $3, platform = $4, app_version = $5, updated_at = $6
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, query, d.ID, d.UserID, d.DeviceName, d.Platform, d.AppVersion, d.UpdatedAt)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *deviceRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Device, error) {
	query := `
		SELECT id, user_id, device_token, device_name, platform, app_version, created_at, updated_at
		FROM devices
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	devices := make([]*domain.Device, 0)
	for rows.Next() {
		d := &domain.Device{}
		err := rows.Scan(&d.ID, &d.UserID, &d.DeviceToken, &d.DeviceName, &d.Platform, &d.AppVersion, &d.CreatedAt, &d.UpdatedAt)
		if err != nil {
			return nil, err
		}
		devices = append(devices, d)
	}
	return devices, rows.Err()
}
