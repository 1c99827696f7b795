package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/leadgrid/leadgrid/internal/licensing/domain"
)

// LicenseResponse represents one license in responses.
type LicenseResponse struct {
	ID          uuid.UUID  `json:"id"`
	Type        string     `json:"type"`
	Reference   string     `json:"reference"`
	PurchasedAt time.Time  `json:"purchased_at"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
}

// LicenseStateResponse represents the derived license state of a device.
type LicenseStateResponse struct {
	Active          *LicenseResponse  `json:"active"`
	Anomalies       []LicenseResponse `json:"anomalies,omitempty"`
	PendingCount    int               `json:"pending_count"`
	PendingNextType string            `json:"pending_next_type,omitempty"`
	ExpiredCount    int               `json:"expired_count"`
}

// CheckoutResponse carries the payment collaborator redirect URL.
type CheckoutResponse struct {
	CheckoutURL string `json:"checkout_url"`
}

// MapLicenseToResponse converts a License to its response representation.
func MapLicenseToResponse(license *domain.License) LicenseResponse {
	return LicenseResponse{
		ID:          license.ID,
		Type:        string(license.Type),
		Reference:   license.Reference,
		PurchasedAt: license.PurchasedAt,
		StartsAt:    license.StartsAt,
		EndsAt:      license.EndsAt,
	}
}

// MapStateViewToResponse converts a StateView to its response representation.
func MapStateViewToResponse(view *domain.StateView) LicenseStateResponse {
	resp := LicenseStateResponse{
		PendingCount:    view.PendingCount,
		PendingNextType: string(view.PendingNextType),
		ExpiredCount:    view.ExpiredCount,
	}
	if view.Active != nil {
		active := MapLicenseToResponse(view.Active)
		resp.Active = &active
	}
	for _, anomaly := range view.Anomalies {
		resp.Anomalies = append(resp.Anomalies, MapLicenseToResponse(anomaly))
	}
	return resp
}
