package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/leadgrid/leadgrid/internal/licensing/domain"
	licService "github.com/leadgrid/leadgrid/internal/licensing/service"
)

// licenseUseCase implements LicenseUseCase.
type licenseUseCase struct {
	licenseRepo     LicenseRepository
	deviceFinder    DeviceFinder
	checkoutService licService.CheckoutService
}

// NewLicenseUseCase creates a new license use case.
func NewLicenseUseCase(
	licenseRepo LicenseRepository,
	deviceFinder DeviceFinder,
	checkoutService licService.CheckoutService,
) LicenseUseCase {
	return &licenseUseCase{
		licenseRepo:     licenseRepo,
		deviceFinder:    deviceFinder,
		checkoutService: checkoutService,
	}
}

// State reports the derived license state of a device. The state is computed
// fresh from the stored licenses on every call; nothing here is cached or
// written back.
func (l *licenseUseCase) State(ctx context.Context, deviceID uuid.UUID) (*domain.StateView, error) {
	licenses, err := l.licenseRepo.ListByDevice(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	view := domain.ComputeState(licenses, time.Now().UTC())
	return &view, nil
}

// Entitle returns the device's active license. When no window is running but
// a pending license exists, the oldest one is promoted: its window opens now
// and runs for the catalog duration of its type.
//
// Promotion is a conditional write on the unstarted row, so two concurrent
// calls promote exactly once; the loser re-reads and picks up the winner's
// window.
func (l *licenseUseCase) Entitle(ctx context.Context, deviceID uuid.UUID) (*domain.License, error) {
	licenses, err := l.licenseRepo.ListByDevice(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	view := domain.ComputeState(licenses, now)
	if view.Active != nil {
		return view.Active, nil
	}
	if view.PendingCount == 0 {
		return nil, domain.ErrNoActiveLicense
	}

	head := pendingHead(licenses)
	startsAt := now
	endsAt := now.Add(head.Type.Duration())

	promoted, err := l.licenseRepo.Promote(ctx, head.ID, startsAt, endsAt)
	if err != nil {
		return nil, err
	}
	if promoted {
		head.StartsAt = &startsAt
		head.EndsAt = &endsAt
		return head, nil
	}

	// Lost a promotion race; the winner's window is now in storage.
	licenses, err = l.licenseRepo.ListByDevice(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	view = domain.ComputeState(licenses, time.Now().UTC())
	if view.Active == nil {
		return nil, domain.ErrNoActiveLicense
	}
	return view.Active, nil
}

// Checkout returns the payment collaborator URL for purchasing a license of
// the given type for the device.
func (l *licenseUseCase) Checkout(
	ctx context.Context,
	deviceID uuid.UUID,
	licenseType domain.LicenseType,
) (string, error) {
	if !licenseType.Valid() {
		return "", domain.ErrUnknownLicenseType
	}
	if _, err := l.deviceFinder.GetByID(ctx, deviceID); err != nil {
		return "", err
	}
	return l.checkoutService.CheckoutURL(deviceID, licenseType)
}

// CreateFromWebhook records a completed purchase. The license is stored
// pending, with no window; the window opens when Entitle first promotes it.
func (l *licenseUseCase) CreateFromWebhook(
	ctx context.Context,
	deviceID uuid.UUID,
	licenseType domain.LicenseType,
	reference string,
) (*domain.License, error) {
	if !licenseType.Valid() {
		return nil, domain.ErrUnknownLicenseType
	}
	if _, err := l.deviceFinder.GetByID(ctx, deviceID); err != nil {
		return nil, err
	}

	license := &domain.License{
		ID:          uuid.Must(uuid.NewV7()),
		DeviceID:    deviceID,
		Type:        licenseType,
		Reference:   reference,
		PurchasedAt: time.Now().UTC(),
	}
	if err := l.licenseRepo.Create(ctx, license); err != nil {
		return nil, err
	}
	return license, nil
}

// pendingHead returns the oldest pending license by purchase time. Callers
// check PendingCount first, so the slice always has one.
func pendingHead(licenses []*domain.License) *domain.License {
	var head *domain.License
	for _, license := range licenses {
		if !license.Pending() {
			continue
		}
		if head == nil || license.PurchasedAt.Before(head.PurchasedAt) {
			head = license
		}
	}
	return head
}
