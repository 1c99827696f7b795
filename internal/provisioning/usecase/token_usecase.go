package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/leadgrid/leadgrid/internal/config"
	"github.com/leadgrid/leadgrid/internal/database"
	"github.com/leadgrid/leadgrid/internal/provisioning/domain"
	provService "github.com/leadgrid/leadgrid/internal/provisioning/service"
)

// tokenUseCase implements TokenUseCase.
type tokenUseCase struct {
	config       *config.Config
	deviceRepo   DeviceRepository
	tokenRepo    TokenRepository
	tokenService provService.TokenService
	txManager    database.TxManager
}

// NewTokenUseCase creates a new provisioning token use case.
func NewTokenUseCase(
	cfg *config.Config,
	deviceRepo DeviceRepository,
	tokenRepo TokenRepository,
	tokenService provService.TokenService,
	txManager database.TxManager,
) TokenUseCase {
	return &tokenUseCase{
		config:       cfg,
		deviceRepo:   deviceRepo,
		tokenRepo:    tokenRepo,
		tokenService: tokenService,
		txManager:    txManager,
	}
}

// CreateOrReturn mints a provisioning token for the device, unless an
// unexpired ACTIVE one already exists.
//
// The two outcomes are deliberately asymmetric: a fresh mint carries the
// plaintext token and claim URL, an existing token is reported as metadata
// only. The plaintext was shown once at its own mint and is not recoverable
// from the stored hash.
//
// An expired ACTIVE token does not count as existing; it is revoked and
// replaced in the same transaction as the new mint.
func (t *tokenUseCase) CreateOrReturn(
	ctx context.Context,
	tenantID, deviceID uuid.UUID,
) (*domain.CreateTokenOutput, error) {
	device, err := t.deviceRepo.Get(ctx, tenantID, deviceID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	existing, err := t.tokenRepo.GetActiveByDevice(ctx, device.ID)
	switch {
	case err == nil:
		if !existing.Expired(now) {
			return &domain.CreateTokenOutput{
				Existing: &domain.TokenMetadata{
					Status:    existing.Status,
					CreatedAt: existing.CreatedAt,
					ExpiresAt: existing.ExpiresAt,
				},
			}, nil
		}
	case !errors.Is(err, domain.ErrTokenNotFound):
		return nil, err
	}

	minted, err := t.mint(ctx, device.ID)
	if err != nil {
		return nil, err
	}
	return &domain.CreateTokenOutput{Minted: minted}, nil
}

// Rotate revokes any ACTIVE token and mints a fresh one. Unlike
// CreateOrReturn it always mints, which is the recovery path when the
// plaintext of a still-active token has been lost.
func (t *tokenUseCase) Rotate(
	ctx context.Context,
	tenantID, deviceID uuid.UUID,
) (*domain.MintedToken, error) {
	device, err := t.deviceRepo.Get(ctx, tenantID, deviceID)
	if err != nil {
		return nil, err
	}
	return t.mint(ctx, device.ID)
}

// mint revokes any ACTIVE token of the device and creates a new one inside a
// single transaction, preserving the at-most-one-ACTIVE-token invariant even
// under concurrent rotations.
func (t *tokenUseCase) mint(ctx context.Context, deviceID uuid.UUID) (*domain.MintedToken, error) {
	plainToken, tokenHash, err := t.tokenService.GenerateToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	token := &domain.ProvisioningToken{
		ID:        uuid.Must(uuid.NewV7()),
		DeviceID:  deviceID,
		TokenHash: tokenHash,
		Status:    domain.TokenStatusActive,
		CreatedAt: now,
		ExpiresAt: now.Add(t.config.ProvisionTokenTTL),
	}

	err = t.txManager.WithTx(ctx, func(ctx context.Context) error {
		if _, err := t.tokenRepo.RevokeActiveByDevice(ctx, deviceID); err != nil {
			return err
		}
		return t.tokenRepo.Create(ctx, token)
	})
	if err != nil {
		return nil, err
	}

	return &domain.MintedToken{
		PlainToken: plainToken,
		ClaimURL:   domain.ClaimURL(t.config.PublicBaseURL, plainToken),
		Metadata: domain.TokenMetadata{
			Status:    token.Status,
			CreatedAt: token.CreatedAt,
			ExpiresAt: token.ExpiresAt,
		},
	}, nil
}

// Status reports the metadata of the device's ACTIVE token.
func (t *tokenUseCase) Status(
	ctx context.Context,
	tenantID, deviceID uuid.UUID,
) (*domain.TokenMetadata, error) {
	device, err := t.deviceRepo.Get(ctx, tenantID, deviceID)
	if err != nil {
		return nil, err
	}

	token, err := t.tokenRepo.GetActiveByDevice(ctx, device.ID)
	if err != nil {
		return nil, err
	}

	return &domain.TokenMetadata{
		Status:    token.Status,
		CreatedAt: token.CreatedAt,
		ExpiresAt: token.ExpiresAt,
	}, nil
}

// DeleteFinished removes finished tokens older than the retention period.
func (t *tokenUseCase) DeleteFinished(
	ctx context.Context,
	olderThan time.Duration,
	dryRun bool,
) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	return t.tokenRepo.DeleteFinishedBefore(ctx, cutoff, dryRun)
}
