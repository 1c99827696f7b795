package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/leadgrid/leadgrid/internal/database"
	apperrors "github.com/leadgrid/leadgrid/internal/errors"
	"github.com/leadgrid/leadgrid/internal/provisioning/domain"
)

// MySQLTenantRepository implements Tenant persistence for MySQL. UUIDs are
// stored as CHAR(36) strings.
type MySQLTenantRepository struct {
	db *sql.DB
}

// NewMySQLTenantRepository creates a new MySQL Tenant repository.
func NewMySQLTenantRepository(db *sql.DB) *MySQLTenantRepository {
	return &MySQLTenantRepository{db: db}
}

// Create inserts a new Tenant.
func (m *MySQLTenantRepository) Create(ctx context.Context, tenant *domain.Tenant) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO tenants (id, name, key_prefix, key_hash, created_at)
			  VALUES (?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		tenant.ID.String(),
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

// GetByKeyPrefix retrieves a Tenant by its admin key prefix.
func (m *MySQLTenantRepository) GetByKeyPrefix(
	ctx context.Context,
	keyPrefix string,
) (*domain.Tenant, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, name, key_prefix, key_hash, created_at
			  FROM tenants WHERE key_prefix = ?`

	var (
		tenant domain.Tenant
		rawID  string
	)
	err := querier.QueryRowContext(ctx, query, keyPrefix).Scan(
		&rawID,
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

	if tenant.ID, err = parseUUID(rawID); err != nil {
		return nil, err
	}
	return &tenant, nil
}
