package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/leadgrid/leadgrid/internal/database"
	"github.com/leadgrid/leadgrid/internal/provisioning/domain"
	provService "github.com/leadgrid/leadgrid/internal/provisioning/service"
)

// credentialUseCase implements CredentialUseCase.
type credentialUseCase struct {
	credentialRepo CredentialRepository
	deviceRepo     DeviceRepository
	keyService     provService.KeyService
	txManager      database.TxManager
}

// NewCredentialUseCase creates a new credential use case.
func NewCredentialUseCase(
	credentialRepo CredentialRepository,
	deviceRepo DeviceRepository,
	keyService provService.KeyService,
	txManager database.TxManager,
) CredentialUseCase {
	return &credentialUseCase{
		credentialRepo: credentialRepo,
		deviceRepo:     deviceRepo,
		keyService:     keyService,
		txManager:      txManager,
	}
}

// Issue mints a credential for the device, revoking any previous one in the
// same transaction. A device holds at most one ACTIVE credential.
func (c *credentialUseCase) Issue(
	ctx context.Context,
	deviceID uuid.UUID,
) (*domain.IssuedCredential, error) {
	plainKey, prefix, secretHash, err := c.keyService.GenerateKey(provService.SchemeCredential)
	if err != nil {
		return nil, err
	}

	credential := domain.NewCredential(deviceID, prefix, secretHash, time.Now().UTC())

	err = c.txManager.WithTx(ctx, func(ctx context.Context) error {
		if _, err := c.credentialRepo.RevokeByDevice(ctx, deviceID); err != nil {
			return err
		}
		return c.credentialRepo.Create(ctx, credential)
	})
	if err != nil {
		return nil, err
	}

	return &domain.IssuedCredential{
		ID:              credential.ID,
		Prefix:          prefix,
		PlainCredential: plainKey,
	}, nil
}

// Verify authenticates a plaintext credential and returns the device it
// belongs to.
//
// All failure modes collapse into ErrInvalidCredential: a malformed key, an
// unknown prefix, a wrong secret, a revoked credential and a disabled device
// are indistinguishable to the caller. The prefix lookup narrows the Argon2id
// comparison to a single row, so verification cost doesn't grow with the
// credential table.
func (c *credentialUseCase) Verify(ctx context.Context, plainKey string) (*domain.Device, error) {
	prefix, secret, err := c.keyService.SplitKey(plainKey)
	if err != nil {
		return nil, domain.ErrInvalidCredential
	}

	credential, err := c.credentialRepo.GetByPrefix(ctx, prefix)
	if err != nil {
		if errors.Is(err, domain.ErrCredentialNotFound) {
			return nil, domain.ErrInvalidCredential
		}
		return nil, err
	}

	if credential.Status != domain.CredentialStatusActive {
		return nil, domain.ErrInvalidCredential
	}

	if !c.keyService.CompareSecret(secret, credential.SecretHash) {
		return nil, domain.ErrInvalidCredential
	}

	device, err := c.deviceRepo.GetByID(ctx, credential.DeviceID)
	if err != nil {
		if errors.Is(err, domain.ErrDeviceNotFound) {
			return nil, domain.ErrInvalidCredential
		}
		return nil, err
	}

	if device.Status != domain.DeviceStatusActive {
		return nil, domain.ErrInvalidCredential
	}

	// Best effort; an authenticated request must not fail on bookkeeping.
	_ = c.credentialRepo.UpdateLastUsed(ctx, credential.ID, time.Now().UTC())

	return device, nil
}

// Revoke revokes the device's active credentials.
func (c *credentialUseCase) Revoke(ctx context.Context, deviceID uuid.UUID) (int64, error) {
	return c.credentialRepo.RevokeByDevice(ctx, deviceID)
}
