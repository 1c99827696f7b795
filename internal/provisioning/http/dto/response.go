package dto

import (
	"time"

	licdto "github.com/leadgrid/leadgrid/internal/licensing/http/dto"
	"github.com/leadgrid/leadgrid/internal/provisioning/domain"
)

// DeviceResponse represents a device in API responses. ConnectionState is
// derived from the last heartbeat at read time and never stored.
type DeviceResponse struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Status          string     `json:"status"`
	ConnectionState string     `json:"connection_state"`
	LastSeenAt      *time.Time `json:"last_seen_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// MapDeviceViewToResponse converts a device view to an API response.
func MapDeviceViewToResponse(view *domain.DeviceView) DeviceResponse {
	return DeviceResponse{
		ID:              view.Device.ID.String(),
		Name:            view.Device.Name,
		Status:          string(view.Device.Status),
		ConnectionState: string(view.ConnectionState),
		LastSeenAt:      view.Device.LastSeenAt,
		CreatedAt:       view.Device.CreatedAt,
	}
}

// ListDevicesResponse represents a paginated list of devices.
type ListDevicesResponse struct {
	Devices []DeviceResponse `json:"devices"`
}

// MapDeviceViewsToListResponse converts device views to a list API response.
func MapDeviceViewsToListResponse(views []*domain.DeviceView) ListDevicesResponse {
	responses := make([]DeviceResponse, 0, len(views))
	for _, view := range views {
		responses = append(responses, MapDeviceViewToResponse(view))
	}
	return ListDevicesResponse{Devices: responses}
}

// CreatedDeviceResponse represents a freshly registered device.
type CreatedDeviceResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// MapDeviceToCreatedResponse converts a new device to an API response.
func MapDeviceToCreatedResponse(device *domain.Device) CreatedDeviceResponse {
	return CreatedDeviceResponse{
		ID:        device.ID.String(),
		Name:      device.Name,
		Status:    string(device.Status),
		CreatedAt: device.CreatedAt,
	}
}

// DeleteDeviceResponse reports the side effects of a device deletion.
type DeleteDeviceResponse struct {
	CredentialRevoked bool `json:"credential_revoked"`
}

// TokenMetadataResponse is the secret-free view of a provisioning token.
type TokenMetadataResponse struct {
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MapTokenMetadataToResponse converts token metadata to an API response.
func MapTokenMetadataToResponse(metadata *domain.TokenMetadata) TokenMetadataResponse {
	return TokenMetadataResponse{
		Status:    string(metadata.Status),
		CreatedAt: metadata.CreatedAt,
		ExpiresAt: metadata.ExpiresAt,
	}
}

// MintedTokenResponse is the one-time full view of a freshly minted token.
// SECURITY: the token is only returned once; afterwards only metadata is
// available.
type MintedTokenResponse struct {
	Token     string    `json:"token"`
	ClaimURL  string    `json:"claim_url"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MapMintedTokenToResponse converts a minted token to an API response.
func MapMintedTokenToResponse(minted *domain.MintedToken) MintedTokenResponse {
	return MintedTokenResponse{
		Token:     minted.PlainToken,
		ClaimURL:  minted.ClaimURL,
		Status:    string(minted.Metadata.Status),
		CreatedAt: minted.Metadata.CreatedAt,
		ExpiresAt: minted.Metadata.ExpiresAt,
	}
}

// ClaimResponse contains the result of a successful redemption.
// SECURITY: the credential is only returned once.
type ClaimResponse struct {
	DeviceID   string `json:"device_id"`
	Credential string `json:"credential"`
	Prefix     string `json:"prefix"`
}

// MapRedeemOutputToResponse converts a redemption result to an API response.
func MapRedeemOutputToResponse(output *domain.RedeemOutput) ClaimResponse {
	return ClaimResponse{
		DeviceID:   output.DeviceID.String(),
		Credential: output.PlainCredential,
		Prefix:     output.Prefix,
	}
}

// ResendTokenResponse reports how a resent token was delivered. With a real
// transport the token travels through it and plain_token/claim_url are
// omitted; on the logging fallback they carry the fresh plaintext so the
// operator can still deliver it.
type ResendTokenResponse struct {
	Transport     string                `json:"transport"`
	MissingConfig []string              `json:"missing_config,omitempty"`
	PlainToken    string                `json:"plain_token,omitempty"`
	ClaimURL      string                `json:"claim_url,omitempty"`
	Token         TokenMetadataResponse `json:"token"`
}

// MapResendOutputToResponse converts a resend result to an API response.
func MapResendOutputToResponse(output *domain.ResendOutput) ResendTokenResponse {
	return ResendTokenResponse{
		Transport:     output.Transport,
		MissingConfig: output.MissingConfig,
		PlainToken:    output.PlainToken,
		ClaimURL:      output.ClaimURL,
		Token:         MapTokenMetadataToResponse(&output.Metadata),
	}
}

// HeartbeatResponse reports the device's state after a check-in.
type HeartbeatResponse struct {
	ConnectionState string                      `json:"connection_state"`
	License         licdto.LicenseStateResponse `json:"license"`
}
