package app

import (
	"testing"

	"gatekeeper/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasher_Derive_Deterministic(t *testing.T) {
	h := NewHasher()
	salt, err := h.GenerateSalt()
	require.NoError(t, err)

	first := h.Derive("wonderland123", salt)
	second := h.Derive("wonderland123", salt)

	assert.Len(t, first, 32)
	assert.Equal(t, first, second)
}

func TestHasher_Derive_SaltChangesDigest(t *testing.T) {
	h := NewHasher()
	saltA, err := h.GenerateSalt()
	require.NoError(t, err)
	saltB, err := h.GenerateSalt()
	require.NoError(t, err)

	require.NotEqual(t, saltA, saltB)
	assert.NotEqual(t, h.Derive("same-password", saltA), h.Derive("same-password", saltB))
}

func TestHasher_GenerateSalt_Length(t *testing.T) {
	h := NewHasher()
	salt, err := h.GenerateSalt()
	require.NoError(t, err)
	assert.Len(t, salt, 16)
}

func TestHasher_Verify(t *testing.T) {
	h := NewHasher()
	salt, err := h.GenerateSalt()
	require.NoError(t, err)
	digest := h.Derive("correct horse", salt)

	ok, err := h.Verify("correct horse", salt, digest)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("wrong horse", salt, digest)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasher_Verify_CorruptStoredData(t *testing.T) {
	h := NewHasher()
	salt, err := h.GenerateSalt()
	require.NoError(t, err)
	digest := h.Derive("pw", salt)

	_, err = h.Verify("pw", salt[:5], digest)
	assert.ErrorIs(t, err, domain.ErrDataCorruption)

	_, err = h.Verify("pw", salt, digest[:7])
	assert.ErrorIs(t, err, domain.ErrDataCorruption)
}
