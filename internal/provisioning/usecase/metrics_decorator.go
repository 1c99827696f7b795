package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/leadgrid/leadgrid/internal/metrics"
	"github.com/leadgrid/leadgrid/internal/provisioning/domain"
)

// tokenUseCaseWithMetrics decorates TokenUseCase with metrics instrumentation.
type tokenUseCaseWithMetrics struct {
	next    TokenUseCase
	metrics metrics.BusinessMetrics
}

// NewTokenUseCaseWithMetrics wraps a TokenUseCase with metrics recording.
func NewTokenUseCaseWithMetrics(useCase TokenUseCase, m metrics.BusinessMetrics) TokenUseCase {
	return &tokenUseCaseWithMetrics{next: useCase, metrics: m}
}

// CreateOrReturn records metrics for token create operations.
func (t *tokenUseCaseWithMetrics) CreateOrReturn(
	ctx context.Context,
	tenantID, deviceID uuid.UUID,
) (*domain.CreateTokenOutput, error) {
	start := time.Now()
	output, err := t.next.CreateOrReturn(ctx, tenantID, deviceID)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "provisioning", "token_create", status)
	t.metrics.RecordDuration(ctx, "provisioning", "token_create", time.Since(start), status)

	return output, err
}

// Rotate records metrics for token rotation operations.
func (t *tokenUseCaseWithMetrics) Rotate(
	ctx context.Context,
	tenantID, deviceID uuid.UUID,
) (*domain.MintedToken, error) {
	start := time.Now()
	minted, err := t.next.Rotate(ctx, tenantID, deviceID)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "provisioning", "token_rotate", status)
	t.metrics.RecordDuration(ctx, "provisioning", "token_rotate", time.Since(start), status)

	return minted, err
}

// Status records metrics for token status operations.
func (t *tokenUseCaseWithMetrics) Status(
	ctx context.Context,
	tenantID, deviceID uuid.UUID,
) (*domain.TokenMetadata, error) {
	start := time.Now()
	metadata, err := t.next.Status(ctx, tenantID, deviceID)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "provisioning", "token_status", status)
	t.metrics.RecordDuration(ctx, "provisioning", "token_status", time.Since(start), status)

	return metadata, err
}

// DeleteFinished records metrics for token cleanup operations.
func (t *tokenUseCaseWithMetrics) DeleteFinished(
	ctx context.Context,
	olderThan time.Duration,
	dryRun bool,
) (int64, error) {
	start := time.Now()
	count, err := t.next.DeleteFinished(ctx, olderThan, dryRun)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "provisioning", "token_cleanup", status)
	t.metrics.RecordDuration(ctx, "provisioning", "token_cleanup", time.Since(start), status)

	return count, err
}

// claimUseCaseWithMetrics decorates ClaimUseCase with metrics instrumentation.
type claimUseCaseWithMetrics struct {
	next    ClaimUseCase
	metrics metrics.BusinessMetrics
}

// NewClaimUseCaseWithMetrics wraps a ClaimUseCase with metrics recording.
func NewClaimUseCaseWithMetrics(useCase ClaimUseCase, m metrics.BusinessMetrics) ClaimUseCase {
	return &claimUseCaseWithMetrics{next: useCase, metrics: m}
}

// Redeem records metrics for claim operations.
func (c *claimUseCaseWithMetrics) Redeem(
	ctx context.Context,
	input *domain.RedeemInput,
) (*domain.RedeemOutput, error) {
	start := time.Now()
	output, err := c.next.Redeem(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "provisioning", "claim_redeem", status)
	c.metrics.RecordDuration(ctx, "provisioning", "claim_redeem", time.Since(start), status)

	return output, err
}

// deviceUseCaseWithMetrics decorates DeviceUseCase with metrics instrumentation.
type deviceUseCaseWithMetrics struct {
	next    DeviceUseCase
	metrics metrics.BusinessMetrics
}

// NewDeviceUseCaseWithMetrics wraps a DeviceUseCase with metrics recording.
func NewDeviceUseCaseWithMetrics(useCase DeviceUseCase, m metrics.BusinessMetrics) DeviceUseCase {
	return &deviceUseCaseWithMetrics{next: useCase, metrics: m}
}

// Create records metrics for device creation operations.
func (d *deviceUseCaseWithMetrics) Create(
	ctx context.Context,
	input *domain.CreateDeviceInput,
) (*domain.Device, error) {
	start := time.Now()
	device, err := d.next.Create(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	d.metrics.RecordOperation(ctx, "provisioning", "device_create", status)
	d.metrics.RecordDuration(ctx, "provisioning", "device_create", time.Since(start), status)

	return device, err
}

// Get records metrics for device retrieval operations.
func (d *deviceUseCaseWithMetrics) Get(
	ctx context.Context,
	tenantID, deviceID uuid.UUID,
) (*domain.DeviceView, error) {
	start := time.Now()
	view, err := d.next.Get(ctx, tenantID, deviceID)

	status := "success"
	if err != nil {
		status = "error"
	}

	d.metrics.RecordOperation(ctx, "provisioning", "device_get", status)
	d.metrics.RecordDuration(ctx, "provisioning", "device_get", time.Since(start), status)

	return view, err
}

// List records metrics for device list operations.
func (d *deviceUseCaseWithMetrics) List(
	ctx context.Context,
	tenantID uuid.UUID,
	offset, limit int,
) ([]*domain.DeviceView, error) {
	start := time.Now()
	views, err := d.next.List(ctx, tenantID, offset, limit)

	status := "success"
	if err != nil {
		status = "error"
	}

	d.metrics.RecordOperation(ctx, "provisioning", "device_list", status)
	d.metrics.RecordDuration(ctx, "provisioning", "device_list", time.Since(start), status)

	return views, err
}

// Delete records metrics for device deletion operations.
func (d *deviceUseCaseWithMetrics) Delete(
	ctx context.Context,
	tenantID, deviceID uuid.UUID,
) (*domain.DeleteDeviceOutput, error) {
	start := time.Now()
	output, err := d.next.Delete(ctx, tenantID, deviceID)

	status := "success"
	if err != nil {
		status = "error"
	}

	d.metrics.RecordOperation(ctx, "provisioning", "device_delete", status)
	d.metrics.RecordDuration(ctx, "provisioning", "device_delete", time.Since(start), status)

	return output, err
}

// Heartbeat records metrics for device heartbeat operations.
func (d *deviceUseCaseWithMetrics) Heartbeat(ctx context.Context, deviceID uuid.UUID) (*domain.DeviceView, error) {
	start := time.Now()
	view, err := d.next.Heartbeat(ctx, deviceID)

	status := "success"
	if err != nil {
		status = "error"
	}

	d.metrics.RecordOperation(ctx, "provisioning", "device_heartbeat", status)
	d.metrics.RecordDuration(ctx, "provisioning", "device_heartbeat", time.Since(start), status)

	return view, err
}

// credentialUseCaseWithMetrics decorates CredentialUseCase with metrics
// instrumentation.
type credentialUseCaseWithMetrics struct {
	next    CredentialUseCase
	metrics metrics.BusinessMetrics
}

// NewCredentialUseCaseWithMetrics wraps a CredentialUseCase with metrics
// recording.
func NewCredentialUseCaseWithMetrics(useCase CredentialUseCase, m metrics.BusinessMetrics) CredentialUseCase {
	return &credentialUseCaseWithMetrics{next: useCase, metrics: m}
}

// Issue records metrics for credential issuance operations.
func (c *credentialUseCaseWithMetrics) Issue(
	ctx context.Context,
	deviceID uuid.UUID,
) (*domain.IssuedCredential, error) {
	start := time.Now()
	issued, err := c.next.Issue(ctx, deviceID)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "provisioning", "credential_issue", status)
	c.metrics.RecordDuration(ctx, "provisioning", "credential_issue", time.Since(start), status)

	return issued, err
}

// Verify records metrics for credential verification operations.
func (c *credentialUseCaseWithMetrics) Verify(
	ctx context.Context,
	plainKey string,
) (*domain.Device, error) {
	start := time.Now()
	device, err := c.next.Verify(ctx, plainKey)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "provisioning", "credential_verify", status)
	c.metrics.RecordDuration(ctx, "provisioning", "credential_verify", time.Since(start), status)

	return device, err
}

// Revoke records metrics for credential revocation operations.
func (c *credentialUseCaseWithMetrics) Revoke(
	ctx context.Context,
	deviceID uuid.UUID,
) (int64, error) {
	start := time.Now()
	count, err := c.next.Revoke(ctx, deviceID)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "provisioning", "credential_revoke", status)
	c.metrics.RecordDuration(ctx, "provisioning", "credential_revoke", time.Since(start), status)

	return count, err
}

// resendUseCaseWithMetrics decorates ResendUseCase with metrics
// instrumentation.
type resendUseCaseWithMetrics struct {
	next    ResendUseCase
	metrics metrics.BusinessMetrics
}

// NewResendUseCaseWithMetrics wraps a ResendUseCase with metrics recording.
func NewResendUseCaseWithMetrics(useCase ResendUseCase, m metrics.BusinessMetrics) ResendUseCase {
	return &resendUseCaseWithMetrics{next: useCase, metrics: m}
}

// Resend records metrics for token resend operations.
func (r *resendUseCaseWithMetrics) Resend(
	ctx context.Context,
	tenantID, deviceID uuid.UUID,
	email string,
) (*domain.ResendOutput, error) {
	start := time.Now()
	output, err := r.next.Resend(ctx, tenantID, deviceID, email)

	status := "success"
	if err != nil {
		status = "error"
	}

	r.metrics.RecordOperation(ctx, "provisioning", "token_resend", status)
	r.metrics.RecordDuration(ctx, "provisioning", "token_resend", time.Since(start), status)

	return output, err
}
