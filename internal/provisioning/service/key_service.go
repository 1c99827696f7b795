package service

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/allisson/go-pwdhash"

	apperrors "github.com/leadgrid/leadgrid/internal/errors"
)

// keyService implements KeyService using Argon2id for secret hashing.
//
// Key format: <scheme>_<prefix>.<secret>. The prefix is 8 hex characters and
// safe to display, log and index; the secret is 32 random bytes, base64
// URL-encoded, stored only as an Argon2id hash.
type keyService struct {
	hasher *pwdhash.PasswordHasher
}

// NewKeyService creates a KeyService using Argon2id with the moderate policy.
func NewKeyService() KeyService {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyModerate),
	)
	if err != nil {
		// Only reachable with an invalid policy constant.
		panic(err)
	}

	return &keyService{hasher: hasher}
}

// GenerateKey creates a new prefixed key for the given scheme.
func (k *keyService) GenerateKey(scheme string) (string, string, string, error) {
	prefixBytes := make([]byte, 4)
	if _, err := rand.Read(prefixBytes); err != nil {
		return "", "", "", apperrors.Wrap(err, "failed to generate key prefix")
	}

	secretBytes := make([]byte, 32)
	if _, err := rand.Read(secretBytes); err != nil {
		return "", "", "", apperrors.Wrap(err, "failed to generate key secret")
	}

	prefix := fmt.Sprintf("%s_%s", scheme, hex.EncodeToString(prefixBytes))
	secret := base64.RawURLEncoding.EncodeToString(secretBytes)

	secretHash, err := k.hasher.Hash([]byte(secret))
	if err != nil {
		return "", "", "", apperrors.Wrap(err, "failed to hash key secret")
	}

	return fmt.Sprintf("%s.%s", prefix, secret), prefix, secretHash, nil
}

// SplitKey separates a plaintext key into its prefix and secret parts.
func (k *keyService) SplitKey(plainKey string) (string, string, error) {
	prefix, secret, found := strings.Cut(plainKey, ".")
	if !found || prefix == "" || secret == "" {
		return "", "", apperrors.Wrap(apperrors.ErrUnauthenticated, "malformed key")
	}
	return prefix, secret, nil
}

// CompareSecret performs a constant-time comparison of a plaintext secret
// against its Argon2id hash.
func (k *keyService) CompareSecret(plainSecret string, secretHash string) bool {
	ok, err := k.hasher.Verify([]byte(plainSecret), secretHash)
	if err != nil {
		return false
	}
	return ok
}
