package domain

import (
	"github.com/leadgrid/leadgrid/internal/errors"
)

// Provisioning errors.
var (
	// ErrTenantNotFound indicates no tenant matches the presented admin key.
	ErrTenantNotFound = errors.Wrap(errors.ErrNotFound, "tenant not found")

	// ErrDeviceNotFound indicates a device was not found within the caller's tenant.
	ErrDeviceNotFound = errors.Wrap(errors.ErrNotFound, "device not found")

	// ErrTokenNotFound indicates no provisioning token matches the lookup.
	ErrTokenNotFound = errors.Wrap(errors.ErrNotFound, "provisioning token not found")

	// ErrCredentialNotFound indicates no credential matches the lookup.
	ErrCredentialNotFound = errors.Wrap(errors.ErrNotFound, "credential not found")

	// ErrInvalidProvisionToken indicates a claim presented a token that is
	// unknown, expired, revoked or already used. Redemption races surface the
	// same error: only the first conditional flip succeeds.
	ErrInvalidProvisionToken = errors.Wrap(errors.ErrConflict, "invalid provisioning token")

	// ErrInvalidCredential indicates a request presented a missing, unknown or
	// revoked API credential.
	ErrInvalidCredential = errors.Wrap(errors.ErrUnauthenticated, "invalid credential")
)
