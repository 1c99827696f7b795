package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/leadgrid/leadgrid/internal/provisioning/domain"
)

func TestClaimUseCaseWithMetrics_Redeem(t *testing.T) {
	ctx := context.Background()

	t.Run("RecordsSuccess", func(t *testing.T) {
		inner := &mockClaimUseCase{}
		m := &mockBusinessMetrics{}

		input := &domain.RedeemInput{Token: "plain-token"}
		output := &domain.RedeemOutput{DeviceID: uuid.Must(uuid.NewV7())}

		inner.On("Redeem", ctx, input).Return(output, nil)
		m.On("RecordOperation", ctx, "provisioning", "claim_redeem", "success").Return()
		m.On("RecordDuration", ctx, "provisioning", "claim_redeem", mock.AnythingOfType("time.Duration"), "success").Return()

		decorated := NewClaimUseCaseWithMetrics(inner, m)
		got, err := decorated.Redeem(ctx, input)

		assert.NoError(t, err)
		assert.Equal(t, output, got)
		m.AssertExpectations(t)
	})

	t.Run("RecordsError", func(t *testing.T) {
		inner := &mockClaimUseCase{}
		m := &mockBusinessMetrics{}

		input := &domain.RedeemInput{Token: "dead-token"}

		inner.On("Redeem", ctx, input).Return(nil, domain.ErrInvalidProvisionToken)
		m.On("RecordOperation", ctx, "provisioning", "claim_redeem", "error").Return()
		m.On("RecordDuration", ctx, "provisioning", "claim_redeem", mock.AnythingOfType("time.Duration"), "error").Return()

		decorated := NewClaimUseCaseWithMetrics(inner, m)
		_, err := decorated.Redeem(ctx, input)

		assert.ErrorIs(t, err, domain.ErrInvalidProvisionToken)
		m.AssertExpectations(t)
	})
}

func TestDeviceUseCaseWithMetrics_Heartbeat(t *testing.T) {
	ctx := context.Background()
	deviceID := uuid.Must(uuid.NewV7())

	inner := &mockDeviceUseCase{}
	m := &mockBusinessMetrics{}

	view := &domain.DeviceView{
		Device:          &domain.Device{ID: deviceID},
		ConnectionState: domain.ConnectionStateConnected,
	}

	inner.On("Heartbeat", ctx, deviceID).Return(view, nil)
	m.On("RecordOperation", ctx, "provisioning", "device_heartbeat", "success").Return()
	m.On("RecordDuration", ctx, "provisioning", "device_heartbeat", mock.AnythingOfType("time.Duration"), "success").Return()

	decorated := NewDeviceUseCaseWithMetrics(inner, m)
	got, err := decorated.Heartbeat(ctx, deviceID)
	assert.NoError(t, err)
	assert.Equal(t, view, got)
	m.AssertExpectations(t)
}

// mockClaimUseCase is a mock implementation of ClaimUseCase for testing.
type mockClaimUseCase struct {
	mock.Mock
}

func (m *mockClaimUseCase) Redeem(ctx context.Context, input *domain.RedeemInput) (*domain.RedeemOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RedeemOutput), args.Error(1)
}

// mockDeviceUseCase is a mock implementation of DeviceUseCase for testing.
type mockDeviceUseCase struct {
	mock.Mock
}

func (m *mockDeviceUseCase) Create(ctx context.Context, input *domain.CreateDeviceInput) (*domain.Device, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Device), args.Error(1)
}

func (m *mockDeviceUseCase) Get(ctx context.Context, tenantID, deviceID uuid.UUID) (*domain.DeviceView, error) {
	args := m.Called(ctx, tenantID, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeviceView), args.Error(1)
}

func (m *mockDeviceUseCase) List(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]*domain.DeviceView, error) {
	args := m.Called(ctx, tenantID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DeviceView), args.Error(1)
}

func (m *mockDeviceUseCase) Delete(ctx context.Context, tenantID, deviceID uuid.UUID) (*domain.DeleteDeviceOutput, error) {
	args := m.Called(ctx, tenantID, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeleteDeviceOutput), args.Error(1)
}

func (m *mockDeviceUseCase) Heartbeat(ctx context.Context, deviceID uuid.UUID) (*domain.DeviceView, error) {
	args := m.Called(ctx, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeviceView), args.Error(1)
}
