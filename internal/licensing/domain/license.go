// Package domain defines licensing entities and the license state computer.
package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// LicenseType identifies an entry of the license catalog. The catalog is
// deliberately small and fixed; durations count from first use, not from
// purchase.
type LicenseType string

const (
	// LicenseTypeEvent5D covers a single short event.
	LicenseTypeEvent5D LicenseType = "EVENT_5D"

	// LicenseTypeFair30D covers a trade-fair season.
	LicenseTypeFair30D LicenseType = "FAIR_30D"

	// LicenseTypeYear365D covers a full year.
	LicenseTypeYear365D LicenseType = "YEAR_365D"
)

// Duration returns the entitlement window length of the license type.
func (t LicenseType) Duration() time.Duration {
	switch t {
	case LicenseTypeEvent5D:
		return 5 * 24 * time.Hour
	case LicenseTypeFair30D:
		return 30 * 24 * time.Hour
	case LicenseTypeYear365D:
		return 365 * 24 * time.Hour
	default:
		return 0
	}
}

// Valid reports whether the type is part of the catalog.
func (t LicenseType) Valid() bool {
	return t.Duration() > 0
}

// License is a purchased entitlement belonging to one device. Its window
// [StartsAt, EndsAt) stays undetermined until the license is promoted on
// first entitled use; a purchased-but-unstarted license has both set to nil.
//
// License rows are created by the billing collaborator and promoted exactly
// once; they are never otherwise mutated.
type License struct {
	ID          uuid.UUID
	DeviceID    uuid.UUID
	Type        LicenseType
	Reference   string
	PurchasedAt time.Time
	StartsAt    *time.Time
	EndsAt      *time.Time
}

// Active reports whether now falls within the license window.
func (l *License) Active(now time.Time) bool {
	return l.StartsAt != nil && l.EndsAt != nil &&
		!now.Before(*l.StartsAt) && now.Before(*l.EndsAt)
}

// Pending reports whether the license was purchased but its window is still
// undetermined.
func (l *License) Pending() bool {
	return l.StartsAt == nil
}

// Expired reports whether the license window has fully elapsed.
func (l *License) Expired(now time.Time) bool {
	return l.StartsAt != nil && l.EndsAt != nil && !now.Before(*l.EndsAt)
}

// StateView is the derived entitlement classification of one device's
// licenses at a given instant. It is computed fresh per request and never
// persisted.
type StateView struct {
	// Active is the canonical active license, nil when the device has none.
	Active *License

	// Anomalies lists active licenses whose windows overlap the canonical
	// one. Overlap means storage violated the single-active invariant; the
	// extras are surfaced, never merged or dropped.
	Anomalies []*License

	// PendingCount is the number of purchased licenses awaiting first use.
	PendingCount int

	// PendingNextType is the type of the head of the FIFO pending queue,
	// "" when the queue is empty.
	PendingNextType LicenseType

	// ExpiredCount is the number of fully elapsed licenses.
	ExpiredCount int
}

// ComputeState partitions a device's licenses into active, pending and
// expired at the given instant.
//
// Pending licenses queue FIFO by purchase time. When storage yields more
// than one active window the one with the latest EndsAt is canonical and the
// rest are flagged as anomalies.
func ComputeState(licenses []*License, now time.Time) StateView {
	var view StateView
	var actives []*License
	var pending []*License

	for _, license := range licenses {
		switch {
		case license.Active(now):
			actives = append(actives, license)
		case license.Pending():
			pending = append(pending, license)
		case license.Expired(now):
			view.ExpiredCount++
		}
	}

	if len(actives) > 0 {
		sort.Slice(actives, func(i, j int) bool {
			return actives[i].EndsAt.After(*actives[j].EndsAt)
		})
		view.Active = actives[0]
		view.Anomalies = actives[1:]
	}

	sort.Slice(pending, func(i, j int) bool {
		return pending[i].PurchasedAt.Before(pending[j].PurchasedAt)
	})
	view.PendingCount = len(pending)
	if len(pending) > 0 {
		view.PendingNextType = pending[0].Type
	}

	return view
}
