// Package repository implements licensing persistence for PostgreSQL and
// MySQL.
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

// PostgreSQLLicenseRepository implements License persistence for PostgreSQL.
type PostgreSQLLicenseRepository struct {
	db *sql.DB
}

// NewPostgreSQLLicenseRepository creates a new PostgreSQL license repository.
func NewPostgreSQLLicenseRepository(db *sql.DB) *PostgreSQLLicenseRepository {
	return &PostgreSQLLicenseRepository{db: db}
}

// Create inserts a new License.
func (p *PostgreSQLLicenseRepository) Create(ctx context.Context, license *domain.License) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO licenses
			  (id, device_id, type, reference, purchased_at, starts_at, ends_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		license.ID,
		license.DeviceID,
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
func (p *PostgreSQLLicenseRepository) ListByDevice(
	ctx context.Context,
	deviceID uuid.UUID,
) ([]*domain.License, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, device_id, type, reference, purchased_at, starts_at, ends_at
			  FROM licenses
			  WHERE device_id = $1
			  ORDER BY purchased_at ASC`

	rows, err := querier.QueryContext(ctx, query, deviceID)
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
// false when the license was already promoted, so a concurrent promotion
// cannot move the window.
func (p *PostgreSQLLicenseRepository) Promote(
	ctx context.Context,
	licenseID uuid.UUID,
	startsAt time.Time,
	endsAt time.Time,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(
		ctx,
		`UPDATE licenses SET starts_at = $1, ends_at = $2 WHERE id = $3 AND starts_at IS NULL`,
		startsAt,
		endsAt,
		licenseID,
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
