// Package repository implements provisioning persistence for PostgreSQL and
// MySQL. All repositories join an ambient transaction via database.GetTx.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/leadgrid/leadgrid/internal/database"
	apperrors "github.com/leadgrid/leadgrid/internal/errors"
	"github.com/leadgrid/leadgrid/internal/provisioning/domain"
)

// PostgreSQLTenantRepository implements Tenant persistence for PostgreSQL.
type PostgreSQLTenantRepository struct {
	db *sql.DB
}

// NewPostgreSQLTenantRepository creates a new PostgreSQL Tenant repository.
func NewPostgreSQLTenantRepository(db *sql.DB) *PostgreSQLTenantRepository {
	return &PostgreSQLTenantRepository{db: db}
}

// Create inserts a new Tenant.
func (p *PostgreSQLTenantRepository) Create(ctx context.Context, tenant *domain.Tenant) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO tenants (id, name, key_prefix, key_hash, created_at)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err := querier.ExecContext(
		ctx,
		query,
		tenant.ID,
		tenant.Name,
		tenant.KeyPrefix,
		tenant.KeyHash,
		tenant.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create tenant")
	}
	return nil
}

// GetByKeyPrefix retrieves a Tenant by its admin key prefix. Returns
// ErrTenantNotFound when no tenant matches.
func (p *PostgreSQLTenantRepository) GetByKeyPrefix(
	ctx context.Context,
	keyPrefix string,
) (*domain.Tenant, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, key_prefix, key_hash, created_at
			  FROM tenants WHERE key_prefix = $1`

	var tenant domain.Tenant
	err := querier.QueryRowContext(ctx, query, keyPrefix).Scan(
		&tenant.ID,
		&tenant.Name,
		&tenant.KeyPrefix,
		&tenant.KeyHash,
		&tenant.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTenantNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get tenant")
	}

	return &tenant, nil
}
