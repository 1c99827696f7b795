package domain

import (
	"github.com/leadgrid/leadgrid/internal/errors"
)

// Licensing errors.
var (
	// ErrLicenseNotFound indicates no license matches the lookup.
	ErrLicenseNotFound = errors.Wrap(errors.ErrNotFound, "license not found")

	// ErrNoActiveLicense indicates a device has neither an active license nor
	// a pending one to promote.
	ErrNoActiveLicense = errors.Wrap(errors.ErrPaymentRequired, "no active license")

	// ErrUnknownLicenseType indicates a license type outside the catalog.
	ErrUnknownLicenseType = errors.Wrap(errors.ErrInvalidInput, "unknown license type")
)
