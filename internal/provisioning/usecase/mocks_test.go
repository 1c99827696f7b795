package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/leadgrid/leadgrid/internal/provisioning/domain"
)

// mockTenantRepository is a mock implementation of TenantRepository for testing.
type mockTenantRepository struct {
	mock.Mock
}

func (m *mockTenantRepository) Create(ctx context.Context, tenant *domain.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *mockTenantRepository) GetByKeyPrefix(ctx context.Context, prefix string) (*domain.Tenant, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}

// mockDeviceRepository is a mock implementation of DeviceRepository for testing.
type mockDeviceRepository struct {
	mock.Mock
}

func (m *mockDeviceRepository) Create(ctx context.Context, device *domain.Device) error {
	args := m.Called(ctx, device)
	return args.Error(0)
}

func (m *mockDeviceRepository) Get(ctx context.Context, tenantID, deviceID uuid.UUID) (*domain.Device, error) {
	args := m.Called(ctx, tenantID, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Device), args.Error(1)
}

func (m *mockDeviceRepository) GetByID(ctx context.Context, deviceID uuid.UUID) (*domain.Device, error) {
	args := m.Called(ctx, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Device), args.Error(1)
}

func (m *mockDeviceRepository) List(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]*domain.Device, error) {
	args := m.Called(ctx, tenantID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Device), args.Error(1)
}

func (m *mockDeviceRepository) Delete(ctx context.Context, tenantID, deviceID uuid.UUID) error {
	args := m.Called(ctx, tenantID, deviceID)
	return args.Error(0)
}

func (m *mockDeviceRepository) UpdateLastSeen(ctx context.Context, deviceID uuid.UUID, seenAt time.Time) error {
	args := m.Called(ctx, deviceID, seenAt)
	return args.Error(0)
}

func (m *mockDeviceRepository) Rename(ctx context.Context, deviceID uuid.UUID, name string) error {
	args := m.Called(ctx, deviceID, name)
	return args.Error(0)
}

// mockTokenRepository is a mock implementation of TokenRepository for testing.
type mockTokenRepository struct {
	mock.Mock
}

func (m *mockTokenRepository) Create(ctx context.Context, token *domain.ProvisioningToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *mockTokenRepository) GetActiveByDevice(ctx context.Context, deviceID uuid.UUID) (*domain.ProvisioningToken, error) {
	args := m.Called(ctx, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProvisioningToken), args.Error(1)
}

func (m *mockTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.ProvisioningToken, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProvisioningToken), args.Error(1)
}

func (m *mockTokenRepository) RevokeActiveByDevice(ctx context.Context, deviceID uuid.UUID) (int64, error) {
	args := m.Called(ctx, deviceID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTokenRepository) MarkUsed(ctx context.Context, tokenID uuid.UUID, usedAt time.Time) (bool, error) {
	args := m.Called(ctx, tokenID, usedAt)
	return args.Bool(0), args.Error(1)
}

func (m *mockTokenRepository) DeleteFinishedBefore(ctx context.Context, cutoff time.Time, dryRun bool) (int64, error) {
	args := m.Called(ctx, cutoff, dryRun)
	return args.Get(0).(int64), args.Error(1)
}

// mockCredentialRepository is a mock implementation of CredentialRepository for testing.
type mockCredentialRepository struct {
	mock.Mock
}

func (m *mockCredentialRepository) Create(ctx context.Context, credential *domain.Credential) error {
	args := m.Called(ctx, credential)
	return args.Error(0)
}

func (m *mockCredentialRepository) GetByPrefix(ctx context.Context, prefix string) (*domain.Credential, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Credential), args.Error(1)
}

func (m *mockCredentialRepository) RevokeByDevice(ctx context.Context, deviceID uuid.UUID) (int64, error) {
	args := m.Called(ctx, deviceID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCredentialRepository) RevokeByID(ctx context.Context, credentialID uuid.UUID) error {
	args := m.Called(ctx, credentialID)
	return args.Error(0)
}

func (m *mockCredentialRepository) UpdateLastUsed(ctx context.Context, credentialID uuid.UUID, usedAt time.Time) error {
	args := m.Called(ctx, credentialID, usedAt)
	return args.Error(0)
}

// mockTokenService is a mock implementation of service.TokenService for testing.
type mockTokenService struct {
	mock.Mock
}

func (m *mockTokenService) GenerateToken() (string, string, error) {
	args := m.Called()
	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockTokenService) HashToken(plainToken string) string {
	args := m.Called(plainToken)
	return args.String(0)
}

// mockKeyService is a mock implementation of service.KeyService for testing.
type mockKeyService struct {
	mock.Mock
}

func (m *mockKeyService) GenerateKey(scheme string) (string, string, string, error) {
	args := m.Called(scheme)
	return args.String(0), args.String(1), args.String(2), args.Error(3)
}

func (m *mockKeyService) SplitKey(plainKey string) (string, string, error) {
	args := m.Called(plainKey)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockKeyService) CompareSecret(plainSecret, secretHash string) bool {
	args := m.Called(plainSecret, secretHash)
	return args.Bool(0)
}

// passthroughTxManager runs the transactional function directly, without a
// database. Wrapping behavior is covered by the database package tests.
type passthroughTxManager struct{}

func (passthroughTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// mockBusinessMetrics records business metric calls for assertion.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(ctx context.Context, domain, operation string, duration time.Duration, status string) {
	m.Called(ctx, domain, operation, duration, status)
}
