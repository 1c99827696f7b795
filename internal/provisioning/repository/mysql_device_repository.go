package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/leadgrid/leadgrid/internal/database"
	apperrors "github.com/leadgrid/leadgrid/internal/errors"
	"github.com/leadgrid/leadgrid/internal/provisioning/domain"
)

// MySQLDeviceRepository implements Device persistence for MySQL.
type MySQLDeviceRepository struct {
	db *sql.DB
}

// NewMySQLDeviceRepository creates a new MySQL Device repository.
func NewMySQLDeviceRepository(db *sql.DB) *MySQLDeviceRepository {
	return &MySQLDeviceRepository{db: db}
}

// Create inserts a new Device.
func (m *MySQLDeviceRepository) Create(ctx context.Context, device *domain.Device) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO devices (id, tenant_id, name, status, last_seen_at, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		device.ID.String(),
		device.TenantID.String(),
		device.Name,
		device.Status,
		device.LastSeenAt,
		device.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create device")
	}
	return nil
}

// Get retrieves a Device by id within a tenant.
func (m *MySQLDeviceRepository) Get(
	ctx context.Context,
	tenantID, deviceID uuid.UUID,
) (*domain.Device, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, tenant_id, name, status, last_seen_at, created_at
			  FROM devices WHERE id = ? AND tenant_id = ?`

	return scanMySQLDevice(querier.QueryRowContext(ctx, query, deviceID.String(), tenantID.String()))
}

// GetByID retrieves a Device by id alone.
func (m *MySQLDeviceRepository) GetByID(ctx context.Context, deviceID uuid.UUID) (*domain.Device, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, tenant_id, name, status, last_seen_at, created_at
			  FROM devices WHERE id = ?`

	return scanMySQLDevice(querier.QueryRowContext(ctx, query, deviceID.String()))
}

// List retrieves a tenant's devices ordered by creation time.
func (m *MySQLDeviceRepository) List(
	ctx context.Context,
	tenantID uuid.UUID,
	offset, limit int,
) ([]*domain.Device, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, tenant_id, name, status, last_seen_at, created_at
			  FROM devices WHERE tenant_id = ?
			  ORDER BY created_at ASC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, tenantID.String(), limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list devices")
	}
	defer rows.Close()

	var devices []*domain.Device
	for rows.Next() {
		var (
			device      domain.Device
			rawID       string
			rawTenantID string
		)
		if err := rows.Scan(
			&rawID,
			&rawTenantID,
			&device.Name,
			&device.Status,
			&device.LastSeenAt,
			&device.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan device")
		}
		if device.ID, err = parseUUID(rawID); err != nil {
			return nil, err
		}
		if device.TenantID, err = parseUUID(rawTenantID); err != nil {
			return nil, err
		}
		devices = append(devices, &device)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate devices")
	}

	return devices, nil
}

// Delete removes a Device within a tenant.
func (m *MySQLDeviceRepository) Delete(ctx context.Context, tenantID, deviceID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(
		ctx,
		`DELETE FROM devices WHERE id = ? AND tenant_id = ?`,
		deviceID.String(),
		tenantID.String(),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete device")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read delete result")
	}
	if affected == 0 {
		return domain.ErrDeviceNotFound
	}
	return nil
}

// UpdateLastSeen records a heartbeat timestamp.
func (m *MySQLDeviceRepository) UpdateLastSeen(
	ctx context.Context,
	deviceID uuid.UUID,
	seenAt time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	_, err := querier.ExecContext(
		ctx,
		`UPDATE devices SET last_seen_at = ? WHERE id = ?`,
		seenAt,
		deviceID.String(),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update last seen")
	}
	return nil
}

// Rename updates a device's display name.
func (m *MySQLDeviceRepository) Rename(ctx context.Context, deviceID uuid.UUID, name string) error {
	querier := database.GetTx(ctx, m.db)

	_, err := querier.ExecContext(
		ctx,
		`UPDATE devices SET name = ? WHERE id = ?`,
		name,
		deviceID.String(),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to rename device")
	}
	return nil
}

func scanMySQLDevice(row *sql.Row) (*domain.Device, error) {
	var (
		device      domain.Device
		rawID       string
		rawTenantID string
	)
	err := row.Scan(
		&rawID,
		&rawTenantID,
		&device.Name,
		&device.Status,
		&device.LastSeenAt,
		&device.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDeviceNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get device")
	}

	if device.ID, err = parseUUID(rawID); err != nil {
		return nil, err
	}
	if device.TenantID, err = parseUUID(rawTenantID); err != nil {
		return nil, err
	}
	return &device, nil
}

// parseUUID converts a CHAR(36) column value back into a uuid.UUID.
func parseUUID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.Wrap(err, "failed to parse stored uuid")
	}
	return id, nil
}
