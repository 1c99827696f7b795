// Package usecase defines business logic interfaces for device provisioning.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/leadgrid/leadgrid/internal/provisioning/domain"
)

// TenantRepository defines persistence operations for tenants.
// Implementations must support transaction-aware operations via context
// propagation.
type TenantRepository interface {
	// Create stores a new tenant in the repository.
	Create(ctx context.Context, tenant *domain.Tenant) error

	// GetByKeyPrefix retrieves a tenant by its admin key prefix. Returns
	// ErrTenantNotFound if not found.
	GetByKeyPrefix(ctx context.Context, prefix string) (*domain.Tenant, error)
}

// DeviceRepository defines persistence operations for devices.
// Implementations must support transaction-aware operations via context
// propagation.
type DeviceRepository interface {
	// Create stores a new device in the repository.
	Create(ctx context.Context, device *domain.Device) error

	// Get retrieves a device scoped to a tenant. Returns ErrDeviceNotFound
	// if the device doesn't exist or belongs to a different tenant.
	Get(ctx context.Context, tenantID, deviceID uuid.UUID) (*domain.Device, error)

	// GetByID retrieves a device without tenant scoping. Only internal
	// callers that already hold a verified credential use this.
	GetByID(ctx context.Context, deviceID uuid.UUID) (*domain.Device, error)

	// List retrieves a tenant's devices with pagination.
	List(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]*domain.Device, error)

	// Delete removes a device scoped to a tenant. Returns ErrDeviceNotFound
	// if nothing was deleted.
	Delete(ctx context.Context, tenantID, deviceID uuid.UUID) error

	// UpdateLastSeen records a heartbeat timestamp.
	UpdateLastSeen(ctx context.Context, deviceID uuid.UUID, seenAt time.Time) error

	// Rename updates a device's display name.
	Rename(ctx context.Context, deviceID uuid.UUID, name string) error
}

// TokenRepository defines persistence operations for provisioning tokens.
// Implementations must support transaction-aware operations via context
// propagation.
type TokenRepository interface {
	// Create stores a new provisioning token.
	Create(ctx context.Context, token *domain.ProvisioningToken) error

	// GetActiveByDevice retrieves the device's ACTIVE token. Returns
	// ErrTokenNotFound if none exists.
	GetActiveByDevice(ctx context.Context, deviceID uuid.UUID) (*domain.ProvisioningToken, error)

	// GetByTokenHash retrieves a token by its hash regardless of status.
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.ProvisioningToken, error)

	// RevokeActiveByDevice flips any ACTIVE token of the device to REVOKED
	// and returns how many were flipped.
	RevokeActiveByDevice(ctx context.Context, deviceID uuid.UUID) (int64, error)

	// MarkUsed flips a token ACTIVE→USED as a single conditional write and
	// reports whether this caller won the flip.
	MarkUsed(ctx context.Context, tokenID uuid.UUID, usedAt time.Time) (bool, error)

	// DeleteFinishedBefore removes finished tokens created before the cutoff.
	DeleteFinishedBefore(ctx context.Context, cutoff time.Time, dryRun bool) (int64, error)
}

// CredentialRepository defines persistence operations for device credentials.
// Implementations must support transaction-aware operations via context
// propagation.
type CredentialRepository interface {
	// Create stores a new credential.
	Create(ctx context.Context, credential *domain.Credential) error

	// GetByPrefix retrieves a credential by its display prefix. Returns
	// ErrCredentialNotFound if not found.
	GetByPrefix(ctx context.Context, prefix string) (*domain.Credential, error)

	// RevokeByDevice flips the device's ACTIVE credentials to REVOKED and
	// returns how many were flipped.
	RevokeByDevice(ctx context.Context, deviceID uuid.UUID) (int64, error)

	// RevokeByID revokes a single credential.
	RevokeByID(ctx context.Context, credentialID uuid.UUID) error

	// UpdateLastUsed records when a credential last authenticated a request.
	UpdateLastUsed(ctx context.Context, credentialID uuid.UUID, usedAt time.Time) error
}

// TenantUseCase defines business logic for tenant onboarding and admin key
// authentication.
type TenantUseCase interface {
	// Create registers a tenant and mints its admin key. The plain key is
	// only returned once; the stored copy is an Argon2id hash.
	Create(ctx context.Context, name string) (*domain.Tenant, string, error)

	// Authenticate resolves an admin key to its tenant. Returns
	// ErrInvalidCredential for unknown prefixes, wrong secrets and malformed
	// keys alike, to prevent enumeration.
	Authenticate(ctx context.Context, plainKey string) (*domain.Tenant, error)
}

// DeviceUseCase defines business logic for device lifecycle management.
type DeviceUseCase interface {
	// Create registers a device under a tenant.
	Create(ctx context.Context, input *domain.CreateDeviceInput) (*domain.Device, error)

	// Get retrieves a device with its derived connection state.
	Get(ctx context.Context, tenantID, deviceID uuid.UUID) (*domain.DeviceView, error)

	// List retrieves a tenant's devices with derived connection states.
	List(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]*domain.DeviceView, error)

	// Delete removes a device, revoking its credential and any active
	// provisioning token in the same transaction.
	Delete(ctx context.Context, tenantID, deviceID uuid.UUID) (*domain.DeleteDeviceOutput, error)

	// Heartbeat records that a device checked in and returns its refreshed
	// view.
	Heartbeat(ctx context.Context, deviceID uuid.UUID) (*domain.DeviceView, error)
}

// TokenUseCase defines business logic for provisioning token issuance.
type TokenUseCase interface {
	// CreateOrReturn mints a provisioning token for the device, or, when an
	// unexpired ACTIVE token already exists, returns its metadata without
	// re-exposing the secret.
	CreateOrReturn(ctx context.Context, tenantID, deviceID uuid.UUID) (*domain.CreateTokenOutput, error)

	// Rotate revokes any ACTIVE token and mints a fresh one, atomically.
	Rotate(ctx context.Context, tenantID, deviceID uuid.UUID) (*domain.MintedToken, error)

	// Status reports the metadata of the device's most recent ACTIVE token.
	// Returns ErrTokenNotFound when the device has none.
	Status(ctx context.Context, tenantID, deviceID uuid.UUID) (*domain.TokenMetadata, error)

	// DeleteFinished removes USED, REVOKED and expired tokens older than
	// the retention period. Used by the maintenance command.
	DeleteFinished(ctx context.Context, olderThan time.Duration, dryRun bool) (int64, error)
}

// ResendUseCase delivers a provisioning token through the notification
// dispatcher.
type ResendUseCase interface {
	// Resend rotates the device's provisioning token and sends the fresh
	// claim URL to the given address. The previous plaintext is not
	// recoverable, so resending always mints.
	Resend(ctx context.Context, tenantID, deviceID uuid.UUID, email string) (*domain.ResendOutput, error)
}

// ClaimUseCase defines the public redemption flow.
type ClaimUseCase interface {
	// Redeem exchanges a one-time provisioning token for a device
	// credential. Exactly one of two concurrent redemptions of the same
	// token succeeds; a retry carrying the same idempotency key within the
	// retry window replays the original result instead of failing.
	Redeem(ctx context.Context, input *domain.RedeemInput) (*domain.RedeemOutput, error)
}

// CredentialUseCase defines credential issuance and verification.
type CredentialUseCase interface {
	// Issue mints a credential for the device, revoking any previous one.
	Issue(ctx context.Context, deviceID uuid.UUID) (*domain.IssuedCredential, error)

	// Verify authenticates a plaintext credential and returns the device it
	// belongs to. Returns ErrInvalidCredential for unknown prefixes, wrong
	// secrets, revoked credentials and disabled devices alike.
	Verify(ctx context.Context, plainKey string) (*domain.Device, error)

	// Revoke revokes the device's active credentials and returns how many
	// were revoked.
	Revoke(ctx context.Context, deviceID uuid.UUID) (int64, error)
}
