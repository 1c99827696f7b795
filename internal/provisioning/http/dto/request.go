// Package dto provides data transfer objects for provisioning HTTP requests
// and responses.
package dto

import (
	validation "github.com/jellydator/validation"
	"github.com/jellydator/validation/is"

	customValidation "github.com/leadgrid/leadgrid/internal/validation"
)

// CreateDeviceRequest contains the parameters for registering a device.
type CreateDeviceRequest struct {
	Name string `json:"name"`
}

// Validate checks if the create device request is valid.
func (r *CreateDeviceRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
	)
}

// ClaimRequest contains a provisioning token redemption. Token accepts either
// the bare token or the full claim URL the tenant was shown; the server
// normalizes both forms.
type ClaimRequest struct {
	Token          string `json:"token"`
	DeviceName     string `json:"device_name"`
	IdempotencyKey string `json:"idempotency_key"`
}

// Validate checks if the claim request is valid.
func (r *ClaimRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Token,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 2048),
		),
		validation.Field(&r.DeviceName,
			validation.Length(0, 255),
		),
		validation.Field(&r.IdempotencyKey,
			validation.Length(0, 255),
		),
	)
}

// ResendTokenRequest contains the delivery address for a token resend.
type ResendTokenRequest struct {
	Email string `json:"email"`
}

// Validate checks if the resend request is valid.
func (r *ResendTokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email,
			validation.Required,
			is.EmailFormat,
		),
	)
}
