package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProvisioningToken is a short-lived, one-time secret used to bootstrap a
// device credential. Only the SHA-256 hash of the secret is stored; the
// plaintext exists once, at mint time. At most one token per device is ACTIVE
// at any instant.
type ProvisioningToken struct {
	ID        uuid.UUID
	DeviceID  uuid.UUID
	TokenHash string
	Status    TokenStatus
	CreatedAt time.Time
	ExpiresAt time.Time
	UsedAt    *time.Time
}

// Expired reports whether the token is past its expiry. Checked at read and
// claim time regardless of the stored status flag.
func (t *ProvisioningToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// Redeemable reports whether a claim may succeed against this token.
func (t *ProvisioningToken) Redeemable(now time.Time) bool {
	return t.Status == TokenStatusActive && !t.Expired(now)
}

// ClaimURL embeds a plaintext token in a scannable URL. The same value works
// typed manually (raw) or scanned (URL); NormalizeClaimToken accepts both.
func ClaimURL(baseURL, plainToken string) string {
	return fmt.Sprintf("%s/claim?token=%s", strings.TrimRight(baseURL, "/"), url.QueryEscape(plainToken))
}

// NormalizeClaimToken extracts the raw token value from whatever form the
// claiming device submits: the bare value, a claim URL with the token in the
// query, or a URL carrying it in the fragment. Surrounding whitespace is
// ignored. Returns the empty string when nothing usable is present.
func NormalizeClaimToken(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return ""
	}

	if !strings.Contains(s, "://") {
		return s
	}

	u, err := url.Parse(s)
	if err != nil {
		return ""
	}

	if token := u.Query().Get("token"); token != "" {
		return token
	}
	if u.Fragment != "" {
		return u.Fragment
	}

	// Fall back to the last path segment for bare /claim/<token> URLs.
	if idx := strings.LastIndex(u.Path, "/"); idx >= 0 {
		if seg := u.Path[idx+1:]; seg != "" && seg != "claim" {
			return seg
		}
	}

	return ""
}
