package common

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeRandHexString(t *testing.T) {
	tok, err := MakeRandHexString(16)
	require.NoError(t, err)
	assert.Len(t, tok, 32)

	raw, err := hex.DecodeString(tok)
	require.NoError(t, err)
	assert.Len(t, raw, 16)

	other, err := MakeRandHexString(16)
	require.NoError(t, err)
	assert.NotEqual(t, tok, other, "lock tokens must not repeat")

	empty, err := MakeRandHexString(0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGenerateRandByteArray(t *testing.T) {
	salt := GenerateRandByteArray(16)
	require.Len(t, salt, 16)
	assert.NotEqual(t, salt, GenerateRandByteArray(16))
	assert.Empty(t, GenerateRandByteArray(0))
}

func TestWipeByteArray(t *testing.T) {
	pw := []byte("correct horse")
	WipeByteArray(pw)
	assert.Equal(t, make([]byte, len("correct horse")), pw)

	assert.NotPanics(t, func() { WipeByteArray(nil) })
}
