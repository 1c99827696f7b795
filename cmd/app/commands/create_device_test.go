package commands

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/leadgrid/leadgrid/internal/provisioning/domain"
)

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

func TestRunCreateDevice(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	tenantID := uuid.Must(uuid.NewV7())
	device := &domain.Device{
		ID:        uuid.Must(uuid.NewV7()),
		TenantID:  tenantID,
		Name:      "booth-7",
		Status:    domain.DeviceStatusActive,
		CreatedAt: time.Now().UTC(),
	}

	t.Run("text-output", func(t *testing.T) {
		mockUseCase := &mockDeviceUseCase{}
		mockUseCase.On("Create", ctx, &domain.CreateDeviceInput{
			TenantID: tenantID,
			Name:     "booth-7",
		}).Return(device, nil)

		var out bytes.Buffer
		err := RunCreateDevice(ctx, mockUseCase, logger, &out, tenantID.String(), "booth-7", "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), device.ID.String())
		require.Contains(t, out.String(), "booth-7")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("json-output", func(t *testing.T) {
		mockUseCase := &mockDeviceUseCase{}
		mockUseCase.On("Create", ctx, mock.Anything).Return(device, nil)

		var out bytes.Buffer
		err := RunCreateDevice(ctx, mockUseCase, logger, &out, tenantID.String(), "booth-7", "json")

		require.NoError(t, err)
		require.Contains(t, out.String(), `"name": "booth-7"`)
		require.Contains(t, out.String(), device.ID.String())
		mockUseCase.AssertExpectations(t)
	})

	t.Run("invalid-tenant-id", func(t *testing.T) {
		mockUseCase := &mockDeviceUseCase{}
		err := RunCreateDevice(ctx, mockUseCase, logger, &bytes.Buffer{}, "not-a-uuid", "booth-7", "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid tenant id")
		mockUseCase.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("empty-name", func(t *testing.T) {
		mockUseCase := &mockDeviceUseCase{}
		err := RunCreateDevice(ctx, mockUseCase, logger, &bytes.Buffer{}, tenantID.String(), "", "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "device name must not be empty")
		mockUseCase.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}
