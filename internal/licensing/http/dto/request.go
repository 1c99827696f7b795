// Package dto provides data transfer objects for licensing HTTP requests and
// responses.
package dto

import (
	validation "github.com/jellydator/validation"
	"github.com/jellydator/validation/is"

	customValidation "github.com/leadgrid/leadgrid/internal/validation"
)

// CheckoutRequest contains the parameters for starting a license purchase.
type CheckoutRequest struct {
	Type string `json:"type"`
}

// Validate checks if the checkout request is valid.
func (r *CheckoutRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Type,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 64),
		),
	)
}

// WebhookRequest contains a completed purchase reported by the billing
// collaborator.
type WebhookRequest struct {
	DeviceID  string `json:"device_id"`
	Type      string `json:"type"`
	Reference string `json:"reference"`
}

// Validate checks if the webhook request is valid.
func (r *WebhookRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.DeviceID,
			validation.Required,
			is.UUID,
		),
		validation.Field(&r.Type,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 64),
		),
		validation.Field(&r.Reference,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
	)
}
