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

// MySQLCredentialRepository implements Credential persistence for MySQL.
type MySQLCredentialRepository struct {
	db *sql.DB
}

// NewMySQLCredentialRepository creates a new MySQL credential repository.
func NewMySQLCredentialRepository(db *sql.DB) *MySQLCredentialRepository {
	return &MySQLCredentialRepository{db: db}
}

// Create inserts a new Credential.
func (m *MySQLCredentialRepository) Create(ctx context.Context, credential *domain.Credential) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO credentials
			  (id, device_id, prefix, secret_hash, status, last_used_at, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		credential.ID.String(),
		credential.DeviceID.String(),
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
func (m *MySQLCredentialRepository) GetByPrefix(
	ctx context.Context,
	prefix string,
) (*domain.Credential, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, device_id, prefix, secret_hash, status, last_used_at, created_at
			  FROM credentials WHERE prefix = ?`

	var (
		credential  domain.Credential
		rawID       string
		rawDeviceID string
	)
	err := querier.QueryRowContext(ctx, query, prefix).Scan(
		&rawID,
		&rawDeviceID,
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

	if credential.ID, err = parseUUID(rawID); err != nil {
		return nil, err
	}
	if credential.DeviceID, err = parseUUID(rawDeviceID); err != nil {
		return nil, err
	}
	return &credential, nil
}

// RevokeByDevice flips all ACTIVE credentials of a device to REVOKED.
func (m *MySQLCredentialRepository) RevokeByDevice(
	ctx context.Context,
	deviceID uuid.UUID,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(
		ctx,
		`UPDATE credentials SET status = ? WHERE device_id = ? AND status = ?`,
		domain.CredentialStatusRevoked,
		deviceID.String(),
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
func (m *MySQLCredentialRepository) RevokeByID(ctx context.Context, credentialID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(
		ctx,
		`UPDATE credentials SET status = ? WHERE id = ?`,
		domain.CredentialStatusRevoked,
		credentialID.String(),
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
func (m *MySQLCredentialRepository) UpdateLastUsed(
	ctx context.Context,
	credentialID uuid.UUID,
	usedAt time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	_, err := querier.ExecContext(
		ctx,
		`UPDATE credentials SET last_used_at = ? WHERE id = ?`,
		usedAt,
		credentialID.String(),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update last used")
	}
	return nil
}
