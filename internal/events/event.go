// Package events exposes the event catalog to capture devices. The catalog
// itself is managed elsewhere in the product; this package only reads the
// slice of it devices need for selection.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is one selectable event of a tenant.
type Event struct {
	ID       uuid.UUID
	TenantID uuid.UUID
	Name     string
	StartsAt time.Time
	EndsAt   time.Time
}

// EventSource lists the events a tenant's devices can capture leads for.
type EventSource interface {
	// ListActive returns the tenant's events whose windows contain now,
	// earliest start first.
	ListActive(ctx context.Context, tenantID uuid.UUID, now time.Time) ([]*Event, error)
}
