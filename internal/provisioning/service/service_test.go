package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_GenerateToken(t *testing.T) {
	svc := NewTokenService()

	plain, hash, err := svc.GenerateToken()
	require.NoError(t, err)
	assert.NotEmpty(t, plain)
	assert.Len(t, hash, 64) // hex SHA-256
	assert.Equal(t, hash, svc.HashToken(plain))
	assert.NotContains(t, hash, plain)
}

func TestTokenService_GenerateToken_Unique(t *testing.T) {
	svc := NewTokenService()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		plain, _, err := svc.GenerateToken()
		require.NoError(t, err)
		assert.False(t, seen[plain], "token collision")
		seen[plain] = true
	}
}

func TestKeyService_GenerateKey(t *testing.T) {
	svc := NewKeyService()

	plain, prefix, secretHash, err := svc.GenerateKey(SchemeCredential)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(plain, "lgk_"))
	assert.True(t, strings.HasPrefix(plain, prefix+"."))
	assert.NotContains(t, secretHash, strings.SplitN(plain, ".", 2)[1])

	splitPrefix, secret, err := svc.SplitKey(plain)
	require.NoError(t, err)
	assert.Equal(t, prefix, splitPrefix)
	assert.True(t, svc.CompareSecret(secret, secretHash))
}

func TestKeyService_AdminScheme(t *testing.T) {
	svc := NewKeyService()

	plain, prefix, _, err := svc.GenerateKey(SchemeAdminKey)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(plain, "lga_"))
	assert.True(t, strings.HasPrefix(prefix, "lga_"))
}

func TestKeyService_CompareSecret_WrongSecret(t *testing.T) {
	svc := NewKeyService()

	_, _, secretHash, err := svc.GenerateKey(SchemeCredential)
	require.NoError(t, err)

	assert.False(t, svc.CompareSecret("wrong-secret", secretHash))
	assert.False(t, svc.CompareSecret("", secretHash))
}

func TestKeyService_SplitKey_Malformed(t *testing.T) {
	svc := NewKeyService()

	for _, input := range []string{"", "noseparator", ".secretonly", "prefixonly."} {
		_, _, err := svc.SplitKey(input)
		assert.Error(t, err, "input %q", input)
	}
}
