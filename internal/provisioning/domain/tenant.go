package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is an exhibitor account. Every device, token, credential and license
// lookup is scoped to exactly one tenant.
type Tenant struct {
	ID        uuid.UUID
	Name      string
	KeyPrefix string
	KeyHash   string
	CreatedAt time.Time
}
