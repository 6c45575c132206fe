package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("correct horse battery")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", hash)

	assert.True(t, Verify("correct horse battery", hash))
	assert.False(t, Verify("wrong password", hash))
	assert.False(t, Verify("correct horse battery", "not-a-bcrypt-hash"))
}

func TestValidateLength(t *testing.T) {
	assert.False(t, Validate(""))
	assert.False(t, Validate("short"))
	assert.False(t, Validate("1234567"))
	assert.True(t, Validate("12345678"))
	assert.True(t, Validate("a perfectly fine password"))
}

func TestHashTokenDeterministic(t *testing.T) {
	a := HashToken("refresh-token-value")
	b := HashToken("refresh-token-value")
	c := HashToken("another-token")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	// hex-encoded SHA256
	assert.Len(t, a, 64)
}
