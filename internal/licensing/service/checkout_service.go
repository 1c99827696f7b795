// Package service provides licensing helpers with no persistence concerns.
package service

import (
	"net/url"

	"github.com/google/uuid"

	apperrors "github.com/leadgrid/leadgrid/internal/errors"
	"github.com/leadgrid/leadgrid/internal/licensing/domain"
)

// CheckoutService builds checkout URLs at the external payment collaborator.
type CheckoutService interface {
	// CheckoutURL returns the URL the buyer is redirected to for purchasing
	// a license of the given type for the device.
	CheckoutURL(deviceID uuid.UUID, licenseType domain.LicenseType) (string, error)
}

type checkoutService struct {
	baseURL string
}

// NewCheckoutService creates a CheckoutService pointing at the payment
// collaborator's base URL.
func NewCheckoutService(baseURL string) CheckoutService {
	return &checkoutService{baseURL: baseURL}
}

// CheckoutURL builds the redirect URL. The purchase itself happens at the
// collaborator; the result comes back through the billing webhook.
func (c *checkoutService) CheckoutURL(deviceID uuid.UUID, licenseType domain.LicenseType) (string, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to parse checkout base URL")
	}

	values := base.Query()
	values.Set("device_id", deviceID.String())
	values.Set("type", string(licenseType))
	base.RawQuery = values.Encode()

	return base.String(), nil
}
