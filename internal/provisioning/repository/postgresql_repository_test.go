package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadgrid/leadgrid/internal/provisioning/domain"
)

func TestPostgreSQLTokenRepository_MarkUsed(t *testing.T) {
	tokenID := uuid.Must(uuid.NewV7())
	now := time.Now().UTC()

	t.Run("flips an active token exactly once", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("UPDATE provisioning_tokens SET status = .+ used_at = .+ WHERE id = .+ AND status = ").
			WithArgs(string(domain.TokenStatusUsed), now, tokenID, string(domain.TokenStatusActive)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewPostgreSQLTokenRepository(db)
		ok, err := repo.MarkUsed(context.Background(), tokenID, now)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports loss when the row was no longer active", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("UPDATE provisioning_tokens").
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewPostgreSQLTokenRepository(db)
		ok, err := repo.MarkUsed(context.Background(), tokenID, now)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestPostgreSQLTokenRepository_GetByTokenHash(t *testing.T) {
	tokenID := uuid.Must(uuid.NewV7())
	deviceID := uuid.Must(uuid.NewV7())
	now := time.Now().UTC()

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows([]string{
			"id", "device_id", "token_hash", "status", "created_at", "expires_at", "used_at",
		}).AddRow(tokenID, deviceID, "hash-1", string(domain.TokenStatusActive), now, now.Add(15*time.Minute), nil)

		mock.ExpectQuery("SELECT .+ FROM provisioning_tokens").
			WithArgs("hash-1").
			WillReturnRows(rows)

		repo := NewPostgreSQLTokenRepository(db)
		token, err := repo.GetByTokenHash(context.Background(), "hash-1")
		require.NoError(t, err)
		assert.Equal(t, tokenID, token.ID)
		assert.Equal(t, deviceID, token.DeviceID)
		assert.Equal(t, domain.TokenStatusActive, token.Status)
		assert.Nil(t, token.UsedAt)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT .+ FROM provisioning_tokens").
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		repo := NewPostgreSQLTokenRepository(db)
		_, err = repo.GetByTokenHash(context.Background(), "missing")
		assert.ErrorIs(t, err, domain.ErrTokenNotFound)
	})
}

func TestPostgreSQLTokenRepository_RevokeActiveByDevice(t *testing.T) {
	deviceID := uuid.Must(uuid.NewV7())

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE provisioning_tokens SET status = ").
		WithArgs(string(domain.TokenStatusRevoked), deviceID, string(domain.TokenStatusActive)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPostgreSQLTokenRepository(db)
	count, err := repo.RevokeActiveByDevice(context.Background(), deviceID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLTokenRepository_DeleteFinishedBefore(t *testing.T) {
	cutoff := time.Now().UTC().Add(-7 * 24 * time.Hour)

	t.Run("dry run counts only", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM provisioning_tokens`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(12)))

		repo := NewPostgreSQLTokenRepository(db)
		count, err := repo.DeleteFinishedBefore(context.Background(), cutoff, true)
		require.NoError(t, err)
		assert.Equal(t, int64(12), count)
	})

	t.Run("delete", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("DELETE FROM provisioning_tokens").
			WillReturnResult(sqlmock.NewResult(0, 12))

		repo := NewPostgreSQLTokenRepository(db)
		count, err := repo.DeleteFinishedBefore(context.Background(), cutoff, false)
		require.NoError(t, err)
		assert.Equal(t, int64(12), count)
	})
}

func TestPostgreSQLDeviceRepository_Get(t *testing.T) {
	tenantID := uuid.Must(uuid.NewV7())
	deviceID := uuid.Must(uuid.NewV7())
	now := time.Now().UTC()

	t.Run("tenant scoped lookup", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows([]string{
			"id", "tenant_id", "name", "status", "last_seen_at", "created_at",
		}).AddRow(deviceID, tenantID, "booth-scanner", string(domain.DeviceStatusActive), nil, now)

		mock.ExpectQuery("SELECT .+ FROM devices WHERE id = .+ AND tenant_id = ").
			WithArgs(deviceID, tenantID).
			WillReturnRows(rows)

		repo := NewPostgreSQLDeviceRepository(db)
		device, err := repo.Get(context.Background(), tenantID, deviceID)
		require.NoError(t, err)
		assert.Equal(t, "booth-scanner", device.Name)
		assert.Nil(t, device.LastSeenAt)
	})

	t.Run("wrong tenant behaves like missing", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT .+ FROM devices").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		repo := NewPostgreSQLDeviceRepository(db)
		_, err = repo.Get(context.Background(), uuid.Must(uuid.NewV7()), deviceID)
		assert.ErrorIs(t, err, domain.ErrDeviceNotFound)
	})
}

func TestPostgreSQLDeviceRepository_Delete(t *testing.T) {
	tenantID := uuid.Must(uuid.NewV7())
	deviceID := uuid.Must(uuid.NewV7())

	t.Run("deleted", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("DELETE FROM devices").
			WithArgs(deviceID, tenantID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewPostgreSQLDeviceRepository(db)
		assert.NoError(t, repo.Delete(context.Background(), tenantID, deviceID))
	})

	t.Run("missing row", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("DELETE FROM devices").
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewPostgreSQLDeviceRepository(db)
		err = repo.Delete(context.Background(), tenantID, deviceID)
		assert.ErrorIs(t, err, domain.ErrDeviceNotFound)
	})
}

func TestPostgreSQLCredentialRepository_GetByPrefix(t *testing.T) {
	credentialID := uuid.Must(uuid.NewV7())
	deviceID := uuid.Must(uuid.NewV7())
	now := time.Now().UTC()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"id", "device_id", "prefix", "secret_hash", "status", "last_used_at", "created_at",
	}).AddRow(credentialID, deviceID, "lgk_ab12cd34", "argon-hash", string(domain.CredentialStatusActive), nil, now)

	mock.ExpectQuery("SELECT .+ FROM credentials WHERE prefix = ").
		WithArgs("lgk_ab12cd34").
		WillReturnRows(rows)

	repo := NewPostgreSQLCredentialRepository(db)
	credential, err := repo.GetByPrefix(context.Background(), "lgk_ab12cd34")
	require.NoError(t, err)
	assert.Equal(t, credentialID, credential.ID)
	assert.Equal(t, "argon-hash", credential.SecretHash)
}

func TestPostgreSQLCredentialRepository_RevokeByDevice(t *testing.T) {
	deviceID := uuid.Must(uuid.NewV7())

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE credentials SET status = ").
		WithArgs(string(domain.CredentialStatusRevoked), deviceID, string(domain.CredentialStatusActive)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPostgreSQLCredentialRepository(db)
	count, err := repo.RevokeByDevice(context.Background(), deviceID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestPostgreSQLTenantRepository_GetByKeyPrefix(t *testing.T) {
	tenantID := uuid.Must(uuid.NewV7())
	now := time.Now().UTC()

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows([]string{"id", "name", "key_prefix", "key_hash", "created_at"}).
			AddRow(tenantID, "Acme Expo", "lga_99fe01ab", "argon-hash", now)

		mock.ExpectQuery("SELECT .+ FROM tenants WHERE key_prefix = ").
			WithArgs("lga_99fe01ab").
			WillReturnRows(rows)

		repo := NewPostgreSQLTenantRepository(db)
		tenant, err := repo.GetByKeyPrefix(context.Background(), "lga_99fe01ab")
		require.NoError(t, err)
		assert.Equal(t, "Acme Expo", tenant.Name)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT .+ FROM tenants").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		repo := NewPostgreSQLTenantRepository(db)
		_, err = repo.GetByKeyPrefix(context.Background(), "lga_missing")
		assert.ErrorIs(t, err, domain.ErrTenantNotFound)
	})
}
