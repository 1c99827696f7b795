package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/leadgrid/leadgrid/internal/licensing/domain"
	"github.com/leadgrid/leadgrid/internal/metrics"
)

// licenseUseCaseWithMetrics decorates LicenseUseCase with metrics
// instrumentation.
type licenseUseCaseWithMetrics struct {
	next    LicenseUseCase
	metrics metrics.BusinessMetrics
}

// NewLicenseUseCaseWithMetrics wraps a LicenseUseCase with metrics recording.
func NewLicenseUseCaseWithMetrics(useCase LicenseUseCase, m metrics.BusinessMetrics) LicenseUseCase {
	return &licenseUseCaseWithMetrics{next: useCase, metrics: m}
}

// State records metrics for license state reads.
func (l *licenseUseCaseWithMetrics) State(
	ctx context.Context,
	deviceID uuid.UUID,
) (*domain.StateView, error) {
	start := time.Now()
	view, err := l.next.State(ctx, deviceID)

	status := "success"
	if err != nil {
		status = "error"
	}

	l.metrics.RecordOperation(ctx, "licensing", "license_state", status)
	l.metrics.RecordDuration(ctx, "licensing", "license_state", time.Since(start), status)

	return view, err
}

// Entitle records metrics for entitlement checks.
func (l *licenseUseCaseWithMetrics) Entitle(
	ctx context.Context,
	deviceID uuid.UUID,
) (*domain.License, error) {
	start := time.Now()
	license, err := l.next.Entitle(ctx, deviceID)

	status := "success"
	if err != nil {
		status = "error"
	}

	l.metrics.RecordOperation(ctx, "licensing", "license_entitle", status)
	l.metrics.RecordDuration(ctx, "licensing", "license_entitle", time.Since(start), status)

	return license, err
}

// Checkout records metrics for checkout URL requests.
func (l *licenseUseCaseWithMetrics) Checkout(
	ctx context.Context,
	deviceID uuid.UUID,
	licenseType domain.LicenseType,
) (string, error) {
	start := time.Now()
	checkoutURL, err := l.next.Checkout(ctx, deviceID, licenseType)

	status := "success"
	if err != nil {
		status = "error"
	}

	l.metrics.RecordOperation(ctx, "licensing", "license_checkout", status)
	l.metrics.RecordDuration(ctx, "licensing", "license_checkout", time.Since(start), status)

	return checkoutURL, err
}

// CreateFromWebhook records metrics for billing webhook purchases.
func (l *licenseUseCaseWithMetrics) CreateFromWebhook(
	ctx context.Context,
	deviceID uuid.UUID,
	licenseType domain.LicenseType,
	reference string,
) (*domain.License, error) {
	start := time.Now()
	license, err := l.next.CreateFromWebhook(ctx, deviceID, licenseType, reference)

	status := "success"
	if err != nil {
		status = "error"
	}

	l.metrics.RecordOperation(ctx, "licensing", "license_webhook", status)
	l.metrics.RecordDuration(ctx, "licensing", "license_webhook", time.Since(start), status)

	return license, err
}
