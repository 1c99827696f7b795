// Package usecase implements licensing business logic.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/leadgrid/leadgrid/internal/licensing/domain"
	provdomain "github.com/leadgrid/leadgrid/internal/provisioning/domain"
)

// LicenseRepository defines License persistence.
type LicenseRepository interface {
	Create(ctx context.Context, license *domain.License) error
	ListByDevice(ctx context.Context, deviceID uuid.UUID) ([]*domain.License, error)
	// Promote sets the license window; returns false when the license was
	// already promoted.
	Promote(ctx context.Context, licenseID uuid.UUID, startsAt, endsAt time.Time) (bool, error)
}

// DeviceFinder looks up devices across tenant boundaries. The billing
// webhook identifies devices by ID only; it carries no tenant context.
type DeviceFinder interface {
	GetByID(ctx context.Context, id uuid.UUID) (*provdomain.Device, error)
}

// LicenseUseCase defines licensing operations.
type LicenseUseCase interface {
	// State reports the derived license state of a device.
	State(ctx context.Context, deviceID uuid.UUID) (*domain.StateView, error)

	// Entitle returns the device's active license, promoting the oldest
	// pending one when no window is running. Returns ErrNoActiveLicense when
	// the device has neither.
	Entitle(ctx context.Context, deviceID uuid.UUID) (*domain.License, error)

	// Checkout returns the payment collaborator URL for purchasing a license.
	Checkout(ctx context.Context, deviceID uuid.UUID, licenseType domain.LicenseType) (string, error)

	// CreateFromWebhook records a completed purchase reported by the billing
	// collaborator. The license starts pending; its window opens on first
	// entitled use.
	CreateFromWebhook(ctx context.Context, deviceID uuid.UUID, licenseType domain.LicenseType, reference string) (*domain.License, error)
}
