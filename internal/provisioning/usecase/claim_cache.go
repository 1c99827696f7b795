package usecase

import (
	"sync"
	"time"

	"github.com/leadgrid/leadgrid/internal/provisioning/domain"
)

// claimResultCache remembers successful redemptions for a short window so a
// client that lost the response to a network failure can retry with the same
// idempotency key and receive the original credential instead of a conflict.
//
// Entries are keyed by (token hash, idempotency key): a replay must present
// both the same token and the same key, so a second device that somehow got
// hold of the token still cannot pull the credential out of the cache.
//
// The cache is in-memory and per-process. A retry that lands on another
// replica misses the cache and gets the conflict, which is an accepted
// trade-off: the window is seconds wide and the client's recovery path for a
// conflict is the tenant re-rotating the token.
type claimResultCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[claimKey]claimEntry
}

type claimKey struct {
	tokenHash      string
	idempotencyKey string
}

type claimEntry struct {
	output    domain.RedeemOutput
	expiresAt time.Time
}

func newClaimResultCache(ttl time.Duration) *claimResultCache {
	return &claimResultCache{
		ttl:     ttl,
		entries: make(map[claimKey]claimEntry),
	}
}

// Get returns the cached redemption result, if any and not yet expired.
func (c *claimResultCache) Get(tokenHash, idempotencyKey string) (*domain.RedeemOutput, bool) {
	if idempotencyKey == "" {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := claimKey{tokenHash: tokenHash, idempotencyKey: idempotencyKey}
	entry, ok := c.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}

	output := entry.output
	return &output, true
}

// Put stores a redemption result. No-op when the client sent no idempotency
// key; such clients opted out of replay.
func (c *claimResultCache) Put(tokenHash, idempotencyKey string, output *domain.RedeemOutput) {
	if idempotencyKey == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}

	c.entries[claimKey{tokenHash: tokenHash, idempotencyKey: idempotencyKey}] = claimEntry{
		output:    *output,
		expiresAt: now.Add(c.ttl),
	}
}
