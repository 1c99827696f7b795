// Package service provides secret generation and hashing for provisioning
// tokens and API keys. Provisioning tokens are hashed with SHA-256 (they are
// high-entropy and looked up by hash); API key secrets are hashed with
// Argon2id and looked up by their display prefix.
package service

// TokenService generates and hashes one-time provisioning tokens.
type TokenService interface {
	// GenerateToken creates a new random token, returning the plaintext and
	// its hash. The plaintext is never stored.
	GenerateToken() (plainToken string, tokenHash string, err error)

	// HashToken hashes a plaintext token for lookup.
	HashToken(plainToken string) string
}

// KeyService generates and verifies prefixed API keys. The same mechanism
// backs device credentials (scheme "lgk") and tenant admin keys (scheme "lga").
type KeyService interface {
	// GenerateKey creates a new key for the given scheme. Returns the full
	// plaintext key (shown once), its display-safe prefix and the Argon2id
	// hash of the secret part.
	GenerateKey(scheme string) (plainKey string, prefix string, secretHash string, err error)

	// SplitKey separates an incoming plaintext key into prefix and secret.
	SplitKey(plainKey string) (prefix string, secret string, err error)

	// CompareSecret performs a constant-time comparison of a plaintext secret
	// against its stored hash.
	CompareSecret(plainSecret string, secretHash string) bool
}

// Key schemes.
const (
	// SchemeCredential prefixes device API credentials.
	SchemeCredential = "lgk"

	// SchemeAdminKey prefixes tenant admin keys.
	SchemeAdminKey = "lga"
)
