package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprint(t *testing.T) {
	k1 := mustKey(t, testDigest)
	k2 := mustKey(t, strings.Repeat("cd", 32))

	a, err := Fingerprint(k1, "day 1", "2024-01-01")
	require.NoError(t, err)
	b, err := Fingerprint(k1, "day 1", "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)

	other, err := Fingerprint(k2, "day 1", "2024-01-01")
	require.NoError(t, err)
	assert.NotEqual(t, a, other, "fingerprints must be key-bound")

	split1, _ := Fingerprint(k1, "ab", "c")
	split2, _ := Fingerprint(k1, "a", "bc")
	assert.NotEqual(t, split1, split2)
}

func TestFingerprint_NoKey(t *testing.T) {
	_, err := Fingerprint(nil, "x")
	assert.Error(t, err)
}
