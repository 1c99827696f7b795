package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/leadgrid/leadgrid/internal/config"
	"github.com/leadgrid/leadgrid/internal/database"
	"github.com/leadgrid/leadgrid/internal/provisioning/domain"
	provService "github.com/leadgrid/leadgrid/internal/provisioning/service"
)

// claimUseCase implements ClaimUseCase.
type claimUseCase struct {
	config         *config.Config
	tokenRepo      TokenRepository
	deviceRepo     DeviceRepository
	credentialRepo CredentialRepository
	tokenService   provService.TokenService
	keyService     provService.KeyService
	txManager      database.TxManager
	recentClaims   *claimResultCache
}

// NewClaimUseCase creates a new claim use case.
func NewClaimUseCase(
	cfg *config.Config,
	tokenRepo TokenRepository,
	deviceRepo DeviceRepository,
	credentialRepo CredentialRepository,
	tokenService provService.TokenService,
	keyService provService.KeyService,
	txManager database.TxManager,
) ClaimUseCase {
	return &claimUseCase{
		config:         cfg,
		tokenRepo:      tokenRepo,
		deviceRepo:     deviceRepo,
		credentialRepo: credentialRepo,
		tokenService:   tokenService,
		keyService:     keyService,
		txManager:      txManager,
		recentClaims:   newClaimResultCache(cfg.ClaimRetryWindow),
	}
}

// Redeem exchanges a one-time provisioning token for a device credential.
//
// The flow:
//  1. Normalize the pasted value (raw token, full claim URL, or fragment
//     form) into the bare token.
//  2. Look the token up by hash. Unknown, revoked, used and expired tokens
//     all collapse into ErrInvalidProvisionToken; a claimer learns nothing
//     about why a token is dead.
//  3. Inside one transaction, conditionally flip the token ACTIVE→USED and
//     issue the credential. The conditional flip is the arbiter: of two
//     concurrent redemptions exactly one sees rowsAffected==1, the other
//     gets ErrInvalidProvisionToken and no credential exists for it.
//  4. On success, remember the result under the client's idempotency key so
//     a retry within the retry window replays the same credential.
//
// Expiry wins over status: a token past ExpiresAt is rejected even while the
// row still says ACTIVE.
func (c *claimUseCase) Redeem(
	ctx context.Context,
	input *domain.RedeemInput,
) (*domain.RedeemOutput, error) {
	plainToken := domain.NormalizeClaimToken(input.Token)
	if plainToken == "" {
		return nil, domain.ErrInvalidProvisionToken
	}

	tokenHash := c.tokenService.HashToken(plainToken)

	if cached, ok := c.recentClaims.Get(tokenHash, input.IdempotencyKey); ok {
		return cached, nil
	}

	token, err := c.tokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			return nil, domain.ErrInvalidProvisionToken
		}
		return nil, err
	}

	now := time.Now().UTC()
	if !token.Redeemable(now) {
		return nil, domain.ErrInvalidProvisionToken
	}

	device, err := c.deviceRepo.GetByID(ctx, token.DeviceID)
	if err != nil {
		if errors.Is(err, domain.ErrDeviceNotFound) {
			return nil, domain.ErrInvalidProvisionToken
		}
		return nil, err
	}
	if device.Status != domain.DeviceStatusActive {
		return nil, domain.ErrInvalidProvisionToken
	}

	plainKey, prefix, secretHash, err := c.keyService.GenerateKey(provService.SchemeCredential)
	if err != nil {
		return nil, err
	}

	credential := domain.NewCredential(device.ID, prefix, secretHash, now)

	err = c.txManager.WithTx(ctx, func(ctx context.Context) error {
		won, err := c.tokenRepo.MarkUsed(ctx, token.ID, now)
		if err != nil {
			return err
		}
		if !won {
			return domain.ErrInvalidProvisionToken
		}

		// A re-provisioned device must not keep an older working key.
		if _, err := c.credentialRepo.RevokeByDevice(ctx, device.ID); err != nil {
			return err
		}
		return c.credentialRepo.Create(ctx, credential)
	})
	if err != nil {
		return nil, err
	}

	if input.DeviceName != "" && input.DeviceName != device.Name {
		// Claim-time rename is best-effort; the credential already exists.
		_ = c.renameDevice(ctx, device, input.DeviceName)
	}

	output := &domain.RedeemOutput{
		DeviceID:        device.ID,
		PlainCredential: plainKey,
		Prefix:          prefix,
	}
	c.recentClaims.Put(tokenHash, input.IdempotencyKey, output)

	return output, nil
}

func (c *claimUseCase) renameDevice(ctx context.Context, device *domain.Device, name string) error {
	device.Name = name
	return c.deviceRepo.Rename(ctx, device.ID, name)
}
