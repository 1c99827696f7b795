package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/leadgrid/leadgrid/internal/config"
	"github.com/leadgrid/leadgrid/internal/database"
	"github.com/leadgrid/leadgrid/internal/provisioning/domain"
)

// deviceUseCase implements DeviceUseCase.
type deviceUseCase struct {
	config         *config.Config
	deviceRepo     DeviceRepository
	tokenRepo      TokenRepository
	credentialRepo CredentialRepository
	txManager      database.TxManager
}

// NewDeviceUseCase creates a new device use case.
func NewDeviceUseCase(
	cfg *config.Config,
	deviceRepo DeviceRepository,
	tokenRepo TokenRepository,
	credentialRepo CredentialRepository,
	txManager database.TxManager,
) DeviceUseCase {
	return &deviceUseCase{
		config:         cfg,
		deviceRepo:     deviceRepo,
		tokenRepo:      tokenRepo,
		credentialRepo: credentialRepo,
		txManager:      txManager,
	}
}

// Create registers a device under a tenant. The device starts with no
// heartbeat and no credential; provisioning happens through a token claim.
func (d *deviceUseCase) Create(
	ctx context.Context,
	input *domain.CreateDeviceInput,
) (*domain.Device, error) {
	device := &domain.Device{
		ID:        uuid.Must(uuid.NewV7()),
		TenantID:  input.TenantID,
		Name:      input.Name,
		Status:    domain.DeviceStatusActive,
		CreatedAt: time.Now().UTC(),
	}

	if err := d.deviceRepo.Create(ctx, device); err != nil {
		return nil, err
	}
	return device, nil
}

// Get retrieves a device with its connection state derived at read time.
func (d *deviceUseCase) Get(
	ctx context.Context,
	tenantID, deviceID uuid.UUID,
) (*domain.DeviceView, error) {
	device, err := d.deviceRepo.Get(ctx, tenantID, deviceID)
	if err != nil {
		return nil, err
	}
	return d.view(device, time.Now().UTC()), nil
}

// List retrieves a tenant's devices with derived connection states.
func (d *deviceUseCase) List(
	ctx context.Context,
	tenantID uuid.UUID,
	offset, limit int,
) ([]*domain.DeviceView, error) {
	devices, err := d.deviceRepo.List(ctx, tenantID, offset, limit)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	views := make([]*domain.DeviceView, len(devices))
	for i, device := range devices {
		views[i] = d.view(device, now)
	}
	return views, nil
}

// Delete removes a device. Its credential and any active provisioning token
// are revoked in the same transaction, so a deleted device can neither
// authenticate nor be claimed.
func (d *deviceUseCase) Delete(
	ctx context.Context,
	tenantID, deviceID uuid.UUID,
) (*domain.DeleteDeviceOutput, error) {
	// Tenant scoping happens here; inside the transaction the device ID is
	// already verified to belong to the tenant.
	device, err := d.deviceRepo.Get(ctx, tenantID, deviceID)
	if err != nil {
		return nil, err
	}

	var revoked int64
	err = d.txManager.WithTx(ctx, func(ctx context.Context) error {
		revoked, err = d.credentialRepo.RevokeByDevice(ctx, device.ID)
		if err != nil {
			return err
		}
		if _, err := d.tokenRepo.RevokeActiveByDevice(ctx, device.ID); err != nil {
			return err
		}
		return d.deviceRepo.Delete(ctx, tenantID, device.ID)
	})
	if err != nil {
		return nil, err
	}

	return &domain.DeleteDeviceOutput{CredentialRevoked: revoked > 0}, nil
}

// Heartbeat records that a device checked in and returns its refreshed view.
func (d *deviceUseCase) Heartbeat(ctx context.Context, deviceID uuid.UUID) (*domain.DeviceView, error) {
	now := time.Now().UTC()
	if err := d.deviceRepo.UpdateLastSeen(ctx, deviceID, now); err != nil {
		return nil, err
	}

	device, err := d.deviceRepo.GetByID(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	return d.view(device, now), nil
}

func (d *deviceUseCase) view(device *domain.Device, now time.Time) *domain.DeviceView {
	return &domain.DeviceView{
		Device: device,
		ConnectionState: domain.ComputeConnectionState(
			device.LastSeenAt,
			now,
			d.config.DeviceOnlineThreshold,
			d.config.DeviceStaleThreshold,
		),
	}
}
