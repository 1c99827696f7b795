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

// MySQLTokenRepository implements ProvisioningToken persistence for MySQL.
type MySQLTokenRepository struct {
	db *sql.DB
}

// NewMySQLTokenRepository creates a new MySQL token repository.
func NewMySQLTokenRepository(db *sql.DB) *MySQLTokenRepository {
	return &MySQLTokenRepository{db: db}
}

// Create inserts a new ProvisioningToken.
func (m *MySQLTokenRepository) Create(ctx context.Context, token *domain.ProvisioningToken) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO provisioning_tokens
			  (id, device_id, token_hash, status, created_at, expires_at, used_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		token.ID.String(),
		token.DeviceID.String(),
		token.TokenHash,
		token.Status,
		token.CreatedAt,
		token.ExpiresAt,
		token.UsedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create provisioning token")
	}
	return nil
}

// GetActiveByDevice retrieves the device's ACTIVE token.
func (m *MySQLTokenRepository) GetActiveByDevice(
	ctx context.Context,
	deviceID uuid.UUID,
) (*domain.ProvisioningToken, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, device_id, token_hash, status, created_at, expires_at, used_at
			  FROM provisioning_tokens
			  WHERE device_id = ? AND status = ?`

	return scanMySQLToken(querier.QueryRowContext(ctx, query, deviceID.String(), domain.TokenStatusActive))
}

// GetByTokenHash retrieves a token by its hash regardless of status.
func (m *MySQLTokenRepository) GetByTokenHash(
	ctx context.Context,
	tokenHash string,
) (*domain.ProvisioningToken, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, device_id, token_hash, status, created_at, expires_at, used_at
			  FROM provisioning_tokens
			  WHERE token_hash = ?`

	return scanMySQLToken(querier.QueryRowContext(ctx, query, tokenHash))
}

// RevokeActiveByDevice flips any ACTIVE token of the device to REVOKED.
func (m *MySQLTokenRepository) RevokeActiveByDevice(
	ctx context.Context,
	deviceID uuid.UUID,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(
		ctx,
		`UPDATE provisioning_tokens SET status = ? WHERE device_id = ? AND status = ?`,
		domain.TokenStatusRevoked,
		deviceID.String(),
		domain.TokenStatusActive,
	)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to revoke provisioning tokens")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to read revoke result")
	}
	return affected, nil
}

// MarkUsed flips a token ACTIVE→USED as a single conditional write.
func (m *MySQLTokenRepository) MarkUsed(
	ctx context.Context,
	tokenID uuid.UUID,
	usedAt time.Time,
) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(
		ctx,
		`UPDATE provisioning_tokens SET status = ?, used_at = ? WHERE id = ? AND status = ?`,
		domain.TokenStatusUsed,
		usedAt,
		tokenID.String(),
		domain.TokenStatusActive,
	)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to mark token used")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to read mark used result")
	}
	return affected == 1, nil
}

// DeleteFinishedBefore removes USED, REVOKED and expired tokens created
// before the cutoff.
func (m *MySQLTokenRepository) DeleteFinishedBefore(
	ctx context.Context,
	cutoff time.Time,
	dryRun bool,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	if dryRun {
		var count int64
		err := querier.QueryRowContext(
			ctx,
			`SELECT COUNT(*) FROM provisioning_tokens
			 WHERE created_at < ? AND (status <> ? OR expires_at < ?)`,
			cutoff,
			domain.TokenStatusActive,
			cutoff,
		).Scan(&count)
		if err != nil {
			return 0, apperrors.Wrap(err, "failed to count finished tokens")
		}
		return count, nil
	}

	result, err := querier.ExecContext(
		ctx,
		`DELETE FROM provisioning_tokens
		 WHERE created_at < ? AND (status <> ? OR expires_at < ?)`,
		cutoff,
		domain.TokenStatusActive,
		cutoff,
	)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete finished tokens")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to read delete result")
	}
	return affected, nil
}

func scanMySQLToken(row *sql.Row) (*domain.ProvisioningToken, error) {
	var (
		token       domain.ProvisioningToken
		rawID       string
		rawDeviceID string
	)
	err := row.Scan(
		&rawID,
		&rawDeviceID,
		&token.TokenHash,
		&token.Status,
		&token.CreatedAt,
		&token.ExpiresAt,
		&token.UsedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get provisioning token")
	}

	if token.ID, err = parseUUID(rawID); err != nil {
		return nil, err
	}
	if token.DeviceID, err = parseUUID(rawDeviceID); err != nil {
		return nil, err
	}
	return &token, nil
}
