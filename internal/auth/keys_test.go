package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadKeyPairRoundTrip(t *testing.T) {
	generated, privB64, pubB64, err := GenerateKeyPair()
	require.NoError(t, err)

	loaded, err := LoadKeyPair(privB64, pubB64)
	require.NoError(t, err)
	assert.True(t, generated.Private.Equal(loaded.Private))
	assert.True(t, generated.Public.Equal(loaded.Public))

	t.Run("padded input is accepted", func(t *testing.T) {
		_, err := LoadKeyPair(privB64+"==", pubB64+"=")
		assert.NoError(t, err)
	})

	t.Run("public only yields verify-only pair", func(t *testing.T) {
		pair, err := LoadKeyPair("", pubB64)
		require.NoError(t, err)
		assert.Nil(t, pair.Private)
		assert.NotNil(t, pair.Public)
	})
}

func TestLoadKeyPairRejectsBadInput(t *testing.T) {
	_, privB64, pubB64, err := GenerateKeyPair()
	require.NoError(t, err)
	_, _, otherPubB64, err := GenerateKeyPair()
	require.NoError(t, err)

	_, err = LoadKeyPair(privB64, "")
	assert.Error(t, err)

	_, err = LoadKeyPair(privB64, "!!not-base64!!")
	assert.Error(t, err)

	_, err = LoadKeyPair(pubB64, pubB64)
	assert.Error(t, err)

	_, err = LoadKeyPair(privB64, otherPubB64)
	assert.ErrorIs(t, err, ErrInvalidKey)
}
