package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	v := NewBcryptVerifier()
	assert.NoError(t, v.Verify(hash, "correct horse battery"))
	assert.ErrorIs(t, v.Verify(hash, "wrong password"), ErrPasswordMismatch)
}

func TestHashPasswordTooShort(t *testing.T) {
	_, err := HashPassword("short")
	require.Error(t, err)
}

func TestVerifyGarbageHash(t *testing.T) {
	v := NewBcryptVerifier()
	assert.ErrorIs(t, v.Verify("not-a-bcrypt-hash", "anything"), ErrPasswordMismatch)
}
