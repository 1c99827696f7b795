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

// PostgreSQLCredentialRepository implements Credential persistence for
// PostgreSQL.
type PostgreSQLCredentialRepository struct {
	db *sql.DB
}

// NewPostgreSQLCredentialRepository creates a new PostgreSQL credential
// repository.
func NewPostgreSQLCredentialRepository(db *sql.DB) *PostgreSQLCredentialRepository {
	return &PostgreSQLCredentialRepository{db: db}
}

// Create inserts a new Credential.
func (p *PostgreSQLCredentialRepository) Create(ctx context.Context, credential *domain.Credential) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO credentials
			  (id, device_id, prefix, secret_hash, status, last_used_at, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		credential.ID,
		credential.DeviceID,
		credential.Prefix,
		credential.SecretHash,
		credential.Status,
		credential.LastUsedAt,
		credential.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create credential")
	}
	return nil
}

// GetByPrefix retrieves a Credential by its display prefix.
func (p *PostgreSQLCredentialRepository) GetByPrefix(
	ctx context.Context,
	prefix string,
) (*domain.Credential, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, device_id, prefix, secret_hash, status, last_used_at, created_at
			  FROM credentials WHERE prefix = $1`

	var credential domain.Credential
	err := querier.QueryRowContext(ctx, query, prefix).Scan(
		&credential.ID,
		&credential.DeviceID,
		&credential.Prefix,
		&credential.SecretHash,
		&credential.Status,
		&credential.LastUsedAt,
		&credential.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCredentialNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get credential")
	}

	return &credential, nil
}

// RevokeByDevice flips all ACTIVE credentials of a device to REVOKED.
// Returns the number revoked so callers can report the side effect.
func (p *PostgreSQLCredentialRepository) RevokeByDevice(
	ctx context.Context,
	deviceID uuid.UUID,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(
		ctx,
		`UPDATE credentials SET status = $1 WHERE device_id = $2 AND status = $3`,
		domain.CredentialStatusRevoked,
		deviceID,
		domain.CredentialStatusActive,
	)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to revoke credentials")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to read revoke result")
	}
	return affected, nil
}

// RevokeByID flips a single credential to REVOKED.
func (p *PostgreSQLCredentialRepository) RevokeByID(ctx context.Context, credentialID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(
		ctx,
		`UPDATE credentials SET status = $1 WHERE id = $2`,
		domain.CredentialStatusRevoked,
		credentialID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to revoke credential")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read revoke result")
	}
	if affected == 0 {
		return domain.ErrCredentialNotFound
	}
	return nil
}

// UpdateLastUsed records the verification side effect.
func (p *PostgreSQLCredentialRepository) UpdateLastUsed(
	ctx context.Context,
	credentialID uuid.UUID,
	usedAt time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	_, err := querier.ExecContext(
		ctx,
		`UPDATE credentials SET last_used_at = $1 WHERE id = $2`,
		usedAt,
		credentialID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update last used")
	}
	return nil
}
