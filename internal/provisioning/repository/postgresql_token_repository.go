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

// PostgreSQLTokenRepository implements ProvisioningToken persistence for
// PostgreSQL.
type PostgreSQLTokenRepository struct {
	db *sql.DB
}

// NewPostgreSQLTokenRepository creates a new PostgreSQL token repository.
func NewPostgreSQLTokenRepository(db *sql.DB) *PostgreSQLTokenRepository {
	return &PostgreSQLTokenRepository{db: db}
}

// Create inserts a new ProvisioningToken.
func (p *PostgreSQLTokenRepository) Create(ctx context.Context, token *domain.ProvisioningToken) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO provisioning_tokens
			  (id, device_id, token_hash, status, created_at, expires_at, used_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		token.ID,
		token.DeviceID,
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

// GetActiveByDevice retrieves the device's ACTIVE token. Returns
// ErrTokenNotFound when none exists; expiry is the caller's concern.
func (p *PostgreSQLTokenRepository) GetActiveByDevice(
	ctx context.Context,
	deviceID uuid.UUID,
) (*domain.ProvisioningToken, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, device_id, token_hash, status, created_at, expires_at, used_at
			  FROM provisioning_tokens
			  WHERE device_id = $1 AND status = $2`

	return scanToken(querier.QueryRowContext(ctx, query, deviceID, domain.TokenStatusActive))
}

// GetByTokenHash retrieves a token by its hash regardless of status.
func (p *PostgreSQLTokenRepository) GetByTokenHash(
	ctx context.Context,
	tokenHash string,
) (*domain.ProvisioningToken, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, device_id, token_hash, status, created_at, expires_at, used_at
			  FROM provisioning_tokens
			  WHERE token_hash = $1`

	return scanToken(querier.QueryRowContext(ctx, query, tokenHash))
}

// RevokeActiveByDevice flips any ACTIVE token of the device to REVOKED.
// Returns the number of tokens revoked (0 or, with a broken invariant, more).
func (p *PostgreSQLTokenRepository) RevokeActiveByDevice(
	ctx context.Context,
	deviceID uuid.UUID,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(
		ctx,
		`UPDATE provisioning_tokens SET status = $1 WHERE device_id = $2 AND status = $3`,
		domain.TokenStatusRevoked,
		deviceID,
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

// MarkUsed flips a token ACTIVE→USED as a single conditional write. Returns
// false when the token was no longer ACTIVE, which is how exactly one of two
// concurrent redemptions wins.
func (p *PostgreSQLTokenRepository) MarkUsed(
	ctx context.Context,
	tokenID uuid.UUID,
	usedAt time.Time,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(
		ctx,
		`UPDATE provisioning_tokens SET status = $1, used_at = $2 WHERE id = $3 AND status = $4`,
		domain.TokenStatusUsed,
		usedAt,
		tokenID,
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

// DeleteFinishedBefore removes USED and REVOKED tokens, plus expired ones,
// created before the cutoff. Used by the maintenance command.
func (p *PostgreSQLTokenRepository) DeleteFinishedBefore(
	ctx context.Context,
	cutoff time.Time,
	dryRun bool,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	if dryRun {
		var count int64
		err := querier.QueryRowContext(
			ctx,
			`SELECT COUNT(*) FROM provisioning_tokens
			 WHERE created_at < $1 AND (status <> $2 OR expires_at < $1)`,
			cutoff,
			domain.TokenStatusActive,
		).Scan(&count)
		if err != nil {
			return 0, apperrors.Wrap(err, "failed to count finished tokens")
		}
		return count, nil
	}

	result, err := querier.ExecContext(
		ctx,
		`DELETE FROM provisioning_tokens
		 WHERE created_at < $1 AND (status <> $2 OR expires_at < $1)`,
		cutoff,
		domain.TokenStatusActive,
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

func scanToken(row *sql.Row) (*domain.ProvisioningToken, error) {
	var token domain.ProvisioningToken
	err := row.Scan(
		&token.ID,
		&token.DeviceID,
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
	return &token, nil
}
