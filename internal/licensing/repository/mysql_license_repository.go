package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/leadgrid/leadgrid/internal/database"
	apperrors "github.com/leadgrid/leadgrid/internal/errors"
	"github.com/leadgrid/leadgrid/internal/licensing/domain"
)

// MySQLLicenseRepository implements License persistence for MySQL.
type MySQLLicenseRepository struct {
	db *sql.DB
}

// NewMySQLLicenseRepository creates a new MySQL license repository.
func NewMySQLLicenseRepository(db *sql.DB) *MySQLLicenseRepository {
	return &MySQLLicenseRepository{db: db}
}

// Create inserts a new License.
func (m *MySQLLicenseRepository) Create(ctx context.Context, license *domain.License) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO licenses
			  (id, device_id, type, reference, purchased_at, starts_at, ends_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		license.ID.String(),
		license.DeviceID.String(),
		license.Type,
		license.Reference,
		license.PurchasedAt,
		license.StartsAt,
		license.EndsAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create license")
	}
	return nil
}

// ListByDevice retrieves all licenses of a device, oldest purchase first.
func (m *MySQLLicenseRepository) ListByDevice(
	ctx context.Context,
	deviceID uuid.UUID,
) ([]*domain.License, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, device_id, type, reference, purchased_at, starts_at, ends_at
			  FROM licenses
			  WHERE device_id = ?
			  ORDER BY purchased_at ASC`

	rows, err := querier.QueryContext(ctx, query, deviceID.String())
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list licenses")
	}
	defer rows.Close()

	var licenses []*domain.License
	for rows.Next() {
		var license domain.License
		err := rows.Scan(
			&license.ID,
			&license.DeviceID,
			&license.Type,
			&license.Reference,
			&license.PurchasedAt,
			&license.StartsAt,
			&license.EndsAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan license")
		}
		licenses = append(licenses, &license)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate licenses")
	}
	return licenses, nil
}

// Promote sets the license window as a single conditional write. Returns
// false when the license was already promoted.
func (m *MySQLLicenseRepository) Promote(
	ctx context.Context,
	licenseID uuid.UUID,
	startsAt time.Time,
	endsAt time.Time,
) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(
		ctx,
		`UPDATE licenses SET starts_at = ?, ends_at = ? WHERE id = ? AND starts_at IS NULL`,
		startsAt,
		endsAt,
		licenseID.String(),
	)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to promote license")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to read promote result")
	}
	return affected == 1, nil
}
