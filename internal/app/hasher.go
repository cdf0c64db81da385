package app

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"

	"gatekeeper/internal/domain"

	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2-HMAC-SHA256 parameters. The iteration count is the whole point:
// deriving a digest must stay deliberately slow so stolen digests are
// expensive to brute-force. Do not swap this for a fast hash.
const (
	hashIterations = 100_000
	saltLength     = 16
	digestLength   = 32
)

// Hasher derives and verifies password digests.
type Hasher struct{}

// NewHasher creates a password hasher with the fixed PBKDF2 parameters.
func NewHasher() *Hasher {
	return &Hasher{}
}

// GenerateSalt returns a fresh 16-byte random salt.
func (h *Hasher) GenerateSalt() ([]byte, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

// Derive computes the digest for (password, salt). Deterministic: the same
// inputs always yield the same 32-byte digest.
func (h *Hasher) Derive(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, hashIterations, digestLength, sha256.New)
}

// Verify recomputes the digest for the candidate password and compares it to
// the stored digest in constant time, so the comparison leaks nothing about
// where the first mismatching byte occurs. A stored salt or digest of the
// wrong length means the record was corrupted in storage and is reported as
// such rather than treated as a plain mismatch.
func (h *Hasher) Verify(password string, salt, expected []byte) (bool, error) {
	if len(salt) != saltLength {
		return false, fmt.Errorf("%w: salt is %d bytes, want %d", domain.ErrDataCorruption, len(salt), saltLength)
	}
	if len(expected) != digestLength {
		return false, fmt.Errorf("%w: digest is %d bytes, want %d", domain.ErrDataCorruption, len(expected), digestLength)
	}
	computed := h.Derive(password, salt)
	return subtle.ConstantTimeCompare(computed, expected) == 1, nil
}
