package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/leadgrid/leadgrid/internal/licensing/domain"
	provdomain "github.com/leadgrid/leadgrid/internal/provisioning/domain"
)

type mockLicenseRepository struct {
	mock.Mock
}

func (m *mockLicenseRepository) Create(ctx context.Context, license *domain.License) error {
	args := m.Called(ctx, license)
	return args.Error(0)
}

func (m *mockLicenseRepository) ListByDevice(ctx context.Context, deviceID uuid.UUID) ([]*domain.License, error) {
	args := m.Called(ctx, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.License), args.Error(1)
}

func (m *mockLicenseRepository) Promote(ctx context.Context, licenseID uuid.UUID, startsAt, endsAt time.Time) (bool, error) {
	args := m.Called(ctx, licenseID, startsAt, endsAt)
	return args.Bool(0), args.Error(1)
}

type mockDeviceFinder struct {
	mock.Mock
}

func (m *mockDeviceFinder) GetByID(ctx context.Context, id uuid.UUID) (*provdomain.Device, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provdomain.Device), args.Error(1)
}

type mockCheckoutService struct {
	mock.Mock
}

func (m *mockCheckoutService) CheckoutURL(deviceID uuid.UUID, licenseType domain.LicenseType) (string, error) {
	args := m.Called(deviceID, licenseType)
	return args.String(0), args.Error(1)
}
