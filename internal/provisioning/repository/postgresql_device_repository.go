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

// PostgreSQLDeviceRepository implements Device persistence for PostgreSQL.
// All reads are tenant-scoped; a device id from another tenant behaves like a
// missing row.
type PostgreSQLDeviceRepository struct {
	db *sql.DB
}

// NewPostgreSQLDeviceRepository creates a new PostgreSQL Device repository.
func NewPostgreSQLDeviceRepository(db *sql.DB) *PostgreSQLDeviceRepository {
	return &PostgreSQLDeviceRepository{db: db}
}

// Create inserts a new Device.
func (p *PostgreSQLDeviceRepository) Create(ctx context.Context, device *domain.Device) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO devices (id, tenant_id, name, status, last_seen_at, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		device.ID,
		device.TenantID,
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

// Get retrieves a Device by id within a tenant. Returns ErrDeviceNotFound
// when the device does not exist or belongs to another tenant.
func (p *PostgreSQLDeviceRepository) Get(
	ctx context.Context,
	tenantID, deviceID uuid.UUID,
) (*domain.Device, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, tenant_id, name, status, last_seen_at, created_at
			  FROM devices WHERE id = $1 AND tenant_id = $2`

	return scanDevice(querier.QueryRowContext(ctx, query, deviceID, tenantID))
}

// GetByID retrieves a Device by id alone. Used by flows that carry no tenant
// context yet (claim, credential verification).
func (p *PostgreSQLDeviceRepository) GetByID(ctx context.Context, deviceID uuid.UUID) (*domain.Device, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, tenant_id, name, status, last_seen_at, created_at
			  FROM devices WHERE id = $1`

	return scanDevice(querier.QueryRowContext(ctx, query, deviceID))
}

// List retrieves a tenant's devices ordered by creation time.
func (p *PostgreSQLDeviceRepository) List(
	ctx context.Context,
	tenantID uuid.UUID,
	offset, limit int,
) ([]*domain.Device, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, tenant_id, name, status, last_seen_at, created_at
			  FROM devices WHERE tenant_id = $1
			  ORDER BY created_at ASC
			  OFFSET $2 LIMIT $3`

	rows, err := querier.QueryContext(ctx, query, tenantID, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list devices")
	}
	defer rows.Close()

	var devices []*domain.Device
	for rows.Next() {
		var device domain.Device
		if err := rows.Scan(
			&device.ID,
			&device.TenantID,
			&device.Name,
			&device.Status,
			&device.LastSeenAt,
			&device.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan device")
		}
		devices = append(devices, &device)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate devices")
	}

	return devices, nil
}

// Delete removes a Device within a tenant. Returns ErrDeviceNotFound when
// nothing was deleted.
func (p *PostgreSQLDeviceRepository) Delete(ctx context.Context, tenantID, deviceID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(
		ctx,
		`DELETE FROM devices WHERE id = $1 AND tenant_id = $2`,
		deviceID,
		tenantID,
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
func (p *PostgreSQLDeviceRepository) UpdateLastSeen(
	ctx context.Context,
	deviceID uuid.UUID,
	seenAt time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	_, err := querier.ExecContext(
		ctx,
		`UPDATE devices SET last_seen_at = $1 WHERE id = $2`,
		seenAt,
		deviceID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update last seen")
	}
	return nil
}

// Rename updates a device's display name.
func (p *PostgreSQLDeviceRepository) Rename(ctx context.Context, deviceID uuid.UUID, name string) error {
	querier := database.GetTx(ctx, p.db)

	_, err := querier.ExecContext(
		ctx,
		`UPDATE devices SET name = $1 WHERE id = $2`,
		name,
		deviceID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to rename device")
	}
	return nil
}

func scanDevice(row *sql.Row) (*domain.Device, error) {
	var device domain.Device
	err := row.Scan(
		&device.ID,
		&device.TenantID,
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
	return &device, nil
}
