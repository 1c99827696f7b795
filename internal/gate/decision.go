// Package gate is the client-side session gate SDK for device front ends.
// Every screen re-runs the same ordered decision on mount and focus; the
// decision procedure itself is a pure function so each screen behaves
// identically.
package gate

import "errors"

// State is a screen the gate can send the device to.
type State string

const (
	StateProvision   State = "PROVISION"
	StateLicense     State = "LICENSE"
	StateEventSelect State = "EVENT_SELECT"
	StateReady       State = "READY"
	StateError       State = "ERROR"
)

// Item is one eligible selection (an active event, a form) from an ok
// response.
type Item struct {
	ID   string
	Name string
}

// Result is the most recent API outcome a screen observed, normalized from
// the response envelope by Client. Items is filled by the screen after
// decoding the payload.
type Result struct {
	// OK reports a 2xx envelope with ok:true.
	OK bool
	// Status is the HTTP status, 0 when no response arrived.
	Status int
	// Code is the envelope error code, "" on success.
	Code string
	// Message is the envelope error message.
	Message string
	// TraceID correlates the response with server logs.
	TraceID string
	// Err is the transport failure when no response arrived. ErrTimeout
	// when the bounded timeout elapsed.
	Err error
	// Items are the eligible items of an ok response.
	Items []Item
}

// Local is the device-side state the decision depends on.
type Local struct {
	// HasCredential reports a locally stored device credential.
	HasCredential bool
	// LastSelectedID is the remembered selection hint, "" when none.
	LastSelectedID string
}

// Decision is the gate's verdict: the next state plus the side effects the
// screen must apply before navigating.
type Decision struct {
	State State

	// ClearCredential orders the local credential and session data wiped
	// before navigating, so a half-revoked session cannot be replayed.
	ClearCredential bool

	// AutoSelected is the single eligible item, persisted and advanced past
	// without user interaction.
	AutoSelected *Item
	// PersistSelection orders AutoSelected stored before navigating.
	PersistSelection bool

	// SelectionHint is the remembered selection when it is still eligible;
	// shown pre-highlighted in the picker, never auto-applied.
	SelectionHint string

	// RetryOnly marks screens that expose a manual retry and nothing
	// automatic.
	RetryOnly bool
	// ReprovisionOffered marks the empty state's re-provision escape hatch.
	ReprovisionOffered bool

	// Timeout distinguishes the timeout variant of ERROR from a generic
	// network failure.
	Timeout bool

	// Message and TraceID surface the server error so a human can search
	// logs from the error screen.
	Message string
	TraceID string
}

// Error codes the gate pattern-matches on. It never invents codes; anything
// unrecognized degrades to the generic error screen.
const (
	codeUnauthenticated   = "UNAUTHENTICATED"
	codeInvalidCredential = "INVALID_CREDENTIAL"
	codePaymentRequired   = "PAYMENT_REQUIRED"
)

// Decide applies the ordered gate check. The precedence is fixed; every
// screen runs these steps in this order and nothing else:
//
//  1. no stored credential                  → PROVISION
//  2. 401 / invalid-credential code         → clear credential, PROVISION
//  3. 402 / payment-required code           → LICENSE
//  4. any other failure                     → ERROR, manual retry only
//  5. ok, zero eligible items               → empty state with retry and
//     re-provision
//  6. ok, exactly one item                  → auto-select, persist, advance
//  7. ok, multiple items                    → picker, remembered hint if
//     still eligible
func Decide(res Result, local Local) Decision {
	if !local.HasCredential {
		return Decision{State: StateProvision, ClearCredential: true}
	}

	if res.Status == 401 || res.Code == codeUnauthenticated || res.Code == codeInvalidCredential {
		return Decision{State: StateProvision, ClearCredential: true}
	}

	if res.Status == 402 || res.Code == codePaymentRequired {
		return Decision{State: StateLicense}
	}

	if !res.OK {
		return Decision{
			State:     StateError,
			RetryOnly: true,
			Timeout:   errors.Is(res.Err, ErrTimeout),
			Message:   res.Message,
			TraceID:   res.TraceID,
		}
	}

	switch len(res.Items) {
	case 0:
		return Decision{
			State:              StateEventSelect,
			RetryOnly:          true,
			ReprovisionOffered: true,
		}
	case 1:
		item := res.Items[0]
		return Decision{
			State:            StateReady,
			AutoSelected:     &item,
			PersistSelection: true,
		}
	default:
		return Decision{
			State:         StateEventSelect,
			SelectionHint: eligibleHint(local.LastSelectedID, res.Items),
		}
	}
}

// eligibleHint returns the remembered selection only while it is still in
// the eligible list.
func eligibleHint(lastSelectedID string, items []Item) string {
	if lastSelectedID == "" {
		return ""
	}
	for _, item := range items {
		if item.ID == lastSelectedID {
			return lastSelectedID
		}
	}
	return ""
}
