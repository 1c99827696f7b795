package domain

import (
	"time"

	"github.com/google/uuid"
)

// Credential is the long-lived API key a device presents on every request
// after provisioning. The prefix is safe to display and log; the secret is
// stored as an Argon2id hash and shown in plaintext exactly once, at issuance.
type Credential struct {
	ID         uuid.UUID
	DeviceID   uuid.UUID
	Prefix     string
	SecretHash string
	Status     CredentialStatus
	LastUsedAt *time.Time
	CreatedAt  time.Time
}

// NewCredential builds an ACTIVE credential for a device.
func NewCredential(deviceID uuid.UUID, prefix, secretHash string, now time.Time) *Credential {
	return &Credential{
		ID:         uuid.Must(uuid.NewV7()),
		DeviceID:   deviceID,
		Prefix:     prefix,
		SecretHash: secretHash,
		Status:     CredentialStatusActive,
		CreatedAt:  now,
	}
}

// Inputs and outputs of the provisioning operations.

// CreateDeviceInput holds the parameters for registering a device.
type CreateDeviceInput struct {
	TenantID uuid.UUID
	Name     string
}

// TokenMetadata is the secret-free view of a provisioning token, the only
// form in which an existing token is ever reported back.
type TokenMetadata struct {
	Status    TokenStatus
	CreatedAt time.Time
	ExpiresAt time.Time
}

// MintedToken is the one-time full view returned when a token is minted.
type MintedToken struct {
	PlainToken string
	ClaimURL   string
	Metadata   TokenMetadata
}

// CreateTokenOutput is the result of the idempotent create operation: either
// a fresh mint (Minted set) or the metadata of a still-active token.
type CreateTokenOutput struct {
	Minted   *MintedToken
	Existing *TokenMetadata
}

// RedeemInput holds a claim request.
type RedeemInput struct {
	Token          string
	DeviceName     string
	IdempotencyKey string
}

// RedeemOutput is the result of a successful claim.
type RedeemOutput struct {
	DeviceID        uuid.UUID
	PlainCredential string
	Prefix          string
}

// IssuedCredential is the one-time full view returned at issuance.
type IssuedCredential struct {
	ID              uuid.UUID
	Prefix          string
	PlainCredential string
}

// DeleteDeviceOutput reports the credential side effect of a device deletion.
type DeleteDeviceOutput struct {
	CredentialRevoked bool
}

// ResendOutput reports how a resent token was delivered. With a real
// transport the plaintext goes out through it and PlainToken/ClaimURL stay
// empty; on the logging fallback the old token is already rotated away, so
// the fresh plaintext rides along in the output for the operator to deliver
// by hand.
type ResendOutput struct {
	Transport     string
	MissingConfig []string
	PlainToken    string
	ClaimURL      string
	Metadata      TokenMetadata
}
