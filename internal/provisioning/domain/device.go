package domain

import (
	"time"

	"github.com/google/uuid"
)

// Device is a physical capture device owned by exactly one tenant.
type Device struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	Name       string
	Status     DeviceStatus
	LastSeenAt *time.Time
	CreatedAt  time.Time
}

// DeviceView pairs a device with its connection state as derived at read
// time.
type DeviceView struct {
	Device          *Device
	ConnectionState ConnectionState
}

// ComputeConnectionState derives a device's connectivity classification from
// its last heartbeat. It is never persisted; callers recompute it from the raw
// timestamp on every read, which avoids cached-status drift.
//
// A heartbeat within onlineThreshold is CONNECTED, within staleThreshold
// STALE. Heartbeats older than staleThreshold are treated the same as no
// heartbeat at all.
func ComputeConnectionState(
	lastSeenAt *time.Time,
	now time.Time,
	onlineThreshold, staleThreshold time.Duration,
) ConnectionState {
	if lastSeenAt == nil {
		return ConnectionStateNever
	}

	age := now.Sub(*lastSeenAt)
	switch {
	case age <= onlineThreshold:
		return ConnectionStateConnected
	case age <= staleThreshold:
		return ConnectionStateStale
	default:
		return ConnectionStateNever
	}
}
