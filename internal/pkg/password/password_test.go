package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	assert.True(t, Verify("secret123", hash))
	assert.False(t, Verify("wrong-password", hash))
	assert.False(t, Verify("", hash))
}

func TestHashUsesFreshSalt(t *testing.T) {
	a, err := Hash("secret123")
	require.NoError(t, err)
	b, err := Hash("secret123")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, Verify("secret123", a))
	assert.True(t, Verify("secret123", b))
}

func TestVerifyMalformedBlobFailsClosed(t *testing.T) {
	assert.False(t, Verify("secret123", ""))
	assert.False(t, Verify("secret123", "not-base64!!!"))
	assert.False(t, Verify("secret123", "dG9vLXNob3J0")) // valid base64, wrong length
}
