// Package domain defines the provisioning domain models: tenants, capture
// devices, one-time provisioning tokens and the long-lived API credentials
// those tokens are exchanged for.
package domain

// DeviceStatus is the administrative state of a capture device.
type DeviceStatus string

const (
	// DeviceStatusActive marks a device that may authenticate and report in.
	DeviceStatusActive DeviceStatus = "ACTIVE"

	// DeviceStatusDisabled marks a device that has been administratively shut off.
	DeviceStatusDisabled DeviceStatus = "DISABLED"
)

// TokenStatus is the stored lifecycle state of a provisioning token.
// Expiry is evaluated against ExpiresAt at read time and is never stored as a
// transition.
type TokenStatus string

const (
	// TokenStatusActive marks the single redeemable token of a device.
	TokenStatusActive TokenStatus = "ACTIVE"

	// TokenStatusRevoked marks a token invalidated by rotation or explicit revoke.
	TokenStatusRevoked TokenStatus = "REVOKED"

	// TokenStatusUsed marks a token that was successfully redeemed.
	TokenStatusUsed TokenStatus = "USED"
)

// CredentialStatus is the lifecycle state of a device API credential.
type CredentialStatus string

const (
	// CredentialStatusActive marks a credential that passes verification.
	CredentialStatusActive CredentialStatus = "ACTIVE"

	// CredentialStatusRevoked marks a credential that fails verification
	// permanently. There is no resurrection.
	CredentialStatusRevoked CredentialStatus = "REVOKED"
)

// ConnectionState is the derived connectivity classification of a device.
type ConnectionState string

const (
	// ConnectionStateConnected means the device reported in recently.
	ConnectionStateConnected ConnectionState = "CONNECTED"

	// ConnectionStateStale means the device was seen, but not recently.
	ConnectionStateStale ConnectionState = "STALE"

	// ConnectionStateNever means the device has no usable heartbeat.
	ConnectionStateNever ConnectionState = "NEVER"
)
