package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HMACSHA256 computes deterministic keyed hashes. Deterministic output makes
// it suitable for lookup keys, unlike bcrypt whose output is salted.
type HMACSHA256 struct {
	key []byte
}

// NewHMACSHA256 creates a HMACSHA256 hasher with the given secret key.
func NewHMACSHA256(key []byte) *HMACSHA256 {
	return &HMACSHA256{key: key}
}

// Hash computes the hex-encoded HMAC-SHA256 of the given plain text.
func (h *HMACSHA256) Hash(plain string) (string, error) {
	mac := hmac.New(sha256.New, h.key)
	mac.Write([]byte(plain))

	return hex.EncodeToString(mac.Sum(nil)), nil
}

// Verify reports whether plain hashes to hashed, in constant time.
func (h *HMACSHA256) Verify(hashed, plain string) bool {
	computed, err := h.Hash(plain)
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(hashed), []byte(computed)) == 1
}
