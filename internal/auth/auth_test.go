package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSignup(t *testing.T) {
	assert.NoError(t, ValidateSignup("alice", "alice@example.com", "secret1"))

	// Bad username
	assert.Error(t, ValidateSignup("al", "alice@example.com", "secret1"))
	assert.Error(t, ValidateSignup("has spaces", "alice@example.com", "secret1"))
	// Bad email
	assert.Error(t, ValidateSignup("alice", "not-an-email", "secret1"))
	// Bad password
	assert.Error(t, ValidateSignup("alice", "alice@example.com", "short"))
}

func TestValidateSignup_PasswordLimitIsBytes(t *testing.T) {
	// 72 ASCII bytes is the longest input bcrypt accepts.
	assert.NoError(t, ValidateSignup("alice", "alice@example.com", strings.Repeat("a", 72)))
	assert.Error(t, ValidateSignup("alice", "alice@example.com", strings.Repeat("a", 73)))

	// 40 cyrillic runes are 80 bytes, past what bcrypt can hash.
	multibyte := strings.Repeat("ж", 40)
	require.Greater(t, len(multibyte), 72)
	assert.ErrorIs(t, ValidateSignup("alice", "alice@example.com", multibyte), ErrInvalidInput)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)

	assert.True(t, CheckPassword(hash, "secret1"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateToken(secret, 42, time.Hour)
	require.NoError(t, err)

	userID, err := ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken([]byte("secret-a"), 42, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken([]byte("secret-b"), token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestParseToken_Expired(t *testing.T) {
	secret := []byte("test-secret")
	token, err := GenerateToken(secret, 42, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(secret, token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := ParseToken([]byte("test-secret"), "not.a.token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
