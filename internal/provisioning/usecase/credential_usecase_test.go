package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/leadgrid/leadgrid/internal/provisioning/domain"
	provService "github.com/leadgrid/leadgrid/internal/provisioning/service"
)

func activeCredential(deviceID uuid.UUID) *domain.Credential {
	return &domain.Credential{
		ID:         uuid.Must(uuid.NewV7()),
		DeviceID:   deviceID,
		Prefix:     "lgk_ab12cd34",
		SecretHash: "argon-hash",
		Status:     domain.CredentialStatusActive,
		CreatedAt:  time.Now().UTC(),
	}
}

func TestCredentialUseCase_Issue(t *testing.T) {
	ctx := context.Background()
	deviceID := uuid.Must(uuid.NewV7())

	t.Run("Success_RevokesPreviousCredentialInSameTransaction", func(t *testing.T) {
		mockCredentialRepo := &mockCredentialRepository{}
		mockKeySvc := &mockKeyService{}

		mockKeySvc.On("GenerateKey", provService.SchemeCredential).
			Return("lgk_new.secret", "lgk_new", "argon-hash", nil)
		mockCredentialRepo.On("RevokeByDevice", ctx, deviceID).Return(int64(1), nil)
		mockCredentialRepo.On("Create", ctx, mock.MatchedBy(func(credential *domain.Credential) bool {
			return credential.DeviceID == deviceID && credential.Prefix == "lgk_new"
		})).Return(nil)

		useCase := NewCredentialUseCase(mockCredentialRepo, &mockDeviceRepository{}, mockKeySvc, passthroughTxManager{})
		issued, err := useCase.Issue(ctx, deviceID)

		require.NoError(t, err)
		assert.Equal(t, "lgk_new.secret", issued.PlainCredential)
		assert.Equal(t, "lgk_new", issued.Prefix)
		mockCredentialRepo.AssertExpectations(t)
	})
}

func TestCredentialUseCase_Verify(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.Must(uuid.NewV7())

	t.Run("Success_ReturnsDeviceAndTouchesLastUsed", func(t *testing.T) {
		device := activeDevice(tenantID)
		credential := activeCredential(device.ID)

		mockCredentialRepo := &mockCredentialRepository{}
		mockDeviceRepo := &mockDeviceRepository{}
		mockKeySvc := &mockKeyService{}

		mockKeySvc.On("SplitKey", "lgk_ab12cd34.secret").Return("lgk_ab12cd34", "secret", nil)
		mockCredentialRepo.On("GetByPrefix", ctx, "lgk_ab12cd34").Return(credential, nil)
		mockKeySvc.On("CompareSecret", "secret", "argon-hash").Return(true)
		mockDeviceRepo.On("GetByID", ctx, device.ID).Return(device, nil)
		mockCredentialRepo.On("UpdateLastUsed", ctx, credential.ID, mock.AnythingOfType("time.Time")).
			Return(nil)

		useCase := NewCredentialUseCase(mockCredentialRepo, mockDeviceRepo, mockKeySvc, passthroughTxManager{})
		got, err := useCase.Verify(ctx, "lgk_ab12cd34.secret")

		require.NoError(t, err)
		assert.Equal(t, device.ID, got.ID)
		mockCredentialRepo.AssertExpectations(t)
	})

	t.Run("Success_LastUsedBookkeepingFailureIsIgnored", func(t *testing.T) {
		device := activeDevice(tenantID)
		credential := activeCredential(device.ID)

		mockCredentialRepo := &mockCredentialRepository{}
		mockDeviceRepo := &mockDeviceRepository{}
		mockKeySvc := &mockKeyService{}

		mockKeySvc.On("SplitKey", "lgk_ab12cd34.secret").Return("lgk_ab12cd34", "secret", nil)
		mockCredentialRepo.On("GetByPrefix", ctx, "lgk_ab12cd34").Return(credential, nil)
		mockKeySvc.On("CompareSecret", "secret", "argon-hash").Return(true)
		mockDeviceRepo.On("GetByID", ctx, device.ID).Return(device, nil)
		mockCredentialRepo.On("UpdateLastUsed", ctx, credential.ID, mock.AnythingOfType("time.Time")).
			Return(assert.AnError)

		useCase := NewCredentialUseCase(mockCredentialRepo, mockDeviceRepo, mockKeySvc, passthroughTxManager{})
		_, err := useCase.Verify(ctx, "lgk_ab12cd34.secret")

		assert.NoError(t, err)
	})

	t.Run("Error_MalformedKey", func(t *testing.T) {
		mockKeySvc := &mockKeyService{}
		mockKeySvc.On("SplitKey", "garbage").Return("", "", assert.AnError)

		useCase := NewCredentialUseCase(&mockCredentialRepository{}, &mockDeviceRepository{}, mockKeySvc, passthroughTxManager{})
		_, err := useCase.Verify(ctx, "garbage")

		assert.ErrorIs(t, err, domain.ErrInvalidCredential)
	})

	t.Run("Error_UnknownPrefix", func(t *testing.T) {
		mockCredentialRepo := &mockCredentialRepository{}
		mockKeySvc := &mockKeyService{}

		mockKeySvc.On("SplitKey", "lgk_unknown.secret").Return("lgk_unknown", "secret", nil)
		mockCredentialRepo.On("GetByPrefix", ctx, "lgk_unknown").
			Return(nil, domain.ErrCredentialNotFound)

		useCase := NewCredentialUseCase(mockCredentialRepo, &mockDeviceRepository{}, mockKeySvc, passthroughTxManager{})
		_, err := useCase.Verify(ctx, "lgk_unknown.secret")

		assert.ErrorIs(t, err, domain.ErrInvalidCredential)
	})

	t.Run("Error_WrongSecret", func(t *testing.T) {
		device := activeDevice(tenantID)
		credential := activeCredential(device.ID)

		mockCredentialRepo := &mockCredentialRepository{}
		mockKeySvc := &mockKeyService{}

		mockKeySvc.On("SplitKey", "lgk_ab12cd34.wrong").Return("lgk_ab12cd34", "wrong", nil)
		mockCredentialRepo.On("GetByPrefix", ctx, "lgk_ab12cd34").Return(credential, nil)
		mockKeySvc.On("CompareSecret", "wrong", "argon-hash").Return(false)

		useCase := NewCredentialUseCase(mockCredentialRepo, &mockDeviceRepository{}, mockKeySvc, passthroughTxManager{})
		_, err := useCase.Verify(ctx, "lgk_ab12cd34.wrong")

		assert.ErrorIs(t, err, domain.ErrInvalidCredential)
	})

	t.Run("Error_RevokedCredential", func(t *testing.T) {
		device := activeDevice(tenantID)
		credential := activeCredential(device.ID)
		credential.Status = domain.CredentialStatusRevoked

		mockCredentialRepo := &mockCredentialRepository{}
		mockKeySvc := &mockKeyService{}

		mockKeySvc.On("SplitKey", "lgk_ab12cd34.secret").Return("lgk_ab12cd34", "secret", nil)
		mockCredentialRepo.On("GetByPrefix", ctx, "lgk_ab12cd34").Return(credential, nil)

		useCase := NewCredentialUseCase(mockCredentialRepo, &mockDeviceRepository{}, mockKeySvc, passthroughTxManager{})
		_, err := useCase.Verify(ctx, "lgk_ab12cd34.secret")

		assert.ErrorIs(t, err, domain.ErrInvalidCredential)
		mockKeySvc.AssertNotCalled(t, "CompareSecret", mock.Anything, mock.Anything)
	})

	t.Run("Error_DisabledDevice", func(t *testing.T) {
		device := activeDevice(tenantID)
		device.Status = domain.DeviceStatusDisabled
		credential := activeCredential(device.ID)

		mockCredentialRepo := &mockCredentialRepository{}
		mockDeviceRepo := &mockDeviceRepository{}
		mockKeySvc := &mockKeyService{}

		mockKeySvc.On("SplitKey", "lgk_ab12cd34.secret").Return("lgk_ab12cd34", "secret", nil)
		mockCredentialRepo.On("GetByPrefix", ctx, "lgk_ab12cd34").Return(credential, nil)
		mockKeySvc.On("CompareSecret", "secret", "argon-hash").Return(true)
		mockDeviceRepo.On("GetByID", ctx, device.ID).Return(device, nil)

		useCase := NewCredentialUseCase(mockCredentialRepo, mockDeviceRepo, mockKeySvc, passthroughTxManager{})
		_, err := useCase.Verify(ctx, "lgk_ab12cd34.secret")

		assert.ErrorIs(t, err, domain.ErrInvalidCredential)
	})
}

func TestTenantUseCase_Authenticate(t *testing.T) {
	ctx := context.Background()

	tenant := &domain.Tenant{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      "Acme Expo",
		KeyPrefix: "lga_99fe01ab",
		KeyHash:   "argon-hash",
		CreatedAt: time.Now().UTC(),
	}

	t.Run("Success", func(t *testing.T) {
		mockTenantRepo := &mockTenantRepository{}
		mockKeySvc := &mockKeyService{}

		mockKeySvc.On("SplitKey", "lga_99fe01ab.secret").Return("lga_99fe01ab", "secret", nil)
		mockTenantRepo.On("GetByKeyPrefix", ctx, "lga_99fe01ab").Return(tenant, nil)
		mockKeySvc.On("CompareSecret", "secret", "argon-hash").Return(true)

		useCase := NewTenantUseCase(mockTenantRepo, mockKeySvc)
		got, err := useCase.Authenticate(ctx, "lga_99fe01ab.secret")

		require.NoError(t, err)
		assert.Equal(t, tenant.ID, got.ID)
	})

	t.Run("Error_UnknownPrefixAndWrongSecretAreIndistinguishable", func(t *testing.T) {
		mockTenantRepo := &mockTenantRepository{}
		mockKeySvc := &mockKeyService{}

		mockKeySvc.On("SplitKey", "lga_unknown.secret").Return("lga_unknown", "secret", nil)
		mockTenantRepo.On("GetByKeyPrefix", ctx, "lga_unknown").
			Return(nil, domain.ErrTenantNotFound)

		mockKeySvc.On("SplitKey", "lga_99fe01ab.wrong").Return("lga_99fe01ab", "wrong", nil)
		mockTenantRepo.On("GetByKeyPrefix", ctx, "lga_99fe01ab").Return(tenant, nil)
		mockKeySvc.On("CompareSecret", "wrong", "argon-hash").Return(false)

		useCase := NewTenantUseCase(mockTenantRepo, mockKeySvc)

		_, unknownErr := useCase.Authenticate(ctx, "lga_unknown.secret")
		_, wrongErr := useCase.Authenticate(ctx, "lga_99fe01ab.wrong")

		assert.ErrorIs(t, unknownErr, domain.ErrInvalidCredential)
		assert.ErrorIs(t, wrongErr, domain.ErrInvalidCredential)
		assert.Equal(t, unknownErr, wrongErr)
	})
}

func TestTenantUseCase_Create(t *testing.T) {
	ctx := context.Background()

	mockTenantRepo := &mockTenantRepository{}
	mockKeySvc := &mockKeyService{}

	mockKeySvc.On("GenerateKey", provService.SchemeAdminKey).
		Return("lga_99fe01ab.secret", "lga_99fe01ab", "argon-hash", nil)
	mockTenantRepo.On("Create", ctx, mock.MatchedBy(func(tenant *domain.Tenant) bool {
		return tenant.Name == "Acme Expo" && tenant.KeyPrefix == "lga_99fe01ab" && tenant.KeyHash == "argon-hash"
	})).Return(nil)

	useCase := NewTenantUseCase(mockTenantRepo, mockKeySvc)
	tenant, plainKey, err := useCase.Create(ctx, "Acme Expo")

	require.NoError(t, err)
	assert.Equal(t, "lga_99fe01ab.secret", plainKey)
	assert.Equal(t, "Acme Expo", tenant.Name)
	mockTenantRepo.AssertExpectations(t)
}
