package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter2-but-longer")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2-but-longer", hash)

	assert.True(t, CheckPassword("hunter2-but-longer", hash))
	assert.False(t, CheckPassword("wrong-password", hash))
	assert.False(t, CheckPassword("", hash))
}

func TestHashPasswordIsSalted(t *testing.T) {
	first, err := HashPassword("same-plaintext")
	require.NoError(t, err)
	second, err := HashPassword("same-plaintext")
	require.NoError(t, err)

	// Same plaintext, different salt, different hash string.
	assert.NotEqual(t, first, second)
	assert.True(t, CheckPassword("same-plaintext", first))
	assert.True(t, CheckPassword("same-plaintext", second))
}

func TestSignAndParseSessionToken(t *testing.T) {
	signed, err := SignSessionToken("some-session-token", "secret")
	require.NoError(t, err)

	token, err := ParseSessionToken(signed, "secret")
	require.NoError(t, err)
	assert.Equal(t, "some-session-token", token)

	_, err = ParseSessionToken(signed, "other-secret")
	assert.Error(t, err)

	_, err = ParseSessionToken("not-a-signed-token", "secret")
	assert.Error(t, err)
}
