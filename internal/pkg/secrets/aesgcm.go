package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Ciphertext layout (binary):
// [0..1]   uint16 version (currently 1)
// [2..13]  12-byte nonce
// [14..]   gcm.Seal output (ciphertext + tag)
const ciphertextVersion uint16 = 1

const (
	nonceSize = 12
	keyLen    = 32
)

var (
	// ErrNotConfigured indicates a missing key provider.
	ErrNotConfigured = errors.New("secrets: encryptor not configured")
	// ErrPlaintextEmpty indicates an empty plaintext input.
	ErrPlaintextEmpty = errors.New("secrets: plaintext is empty")
	// ErrInvalidKeyLength indicates the key is not 32 bytes.
	ErrInvalidKeyLength = errors.New("secrets: invalid key length")
	// ErrCiphertextTooShort indicates a truncated ciphertext.
	ErrCiphertextTooShort = errors.New("secrets: ciphertext too short")
	// ErrUnsupportedVersion indicates an unknown ciphertext version.
	ErrUnsupportedVersion = errors.New("secrets: unsupported ciphertext version")
	// ErrDecryptFailed indicates decryption failure.
	ErrDecryptFailed = errors.New("secrets: decrypt failed")
	// ErrMissingStaticKey indicates an unset static key.
	ErrMissingStaticKey = errors.New("secrets: missing static key")
)

// AESGCM implements Encryptor using AES-256-GCM.
type AESGCM struct {
	keys KeyProvider
}

// NewAESGCM constructs an AES-256-GCM encryptor.
func NewAESGCM(keys KeyProvider) *AESGCM {
	return &AESGCM{keys: keys}
}

// Encrypt seals plaintext, binding the result to scope via AAD.
func (e *AESGCM) Encrypt(plaintext []byte, scope Scope) ([]byte, error) {
	if e == nil || e.keys == nil {
		return nil, ErrNotConfigured
	}
	if len(plaintext) == 0 {
		return nil, ErrPlaintextEmpty
	}

	gcm, err := e.aead(scope)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("secrets: nonce generation failed: %w", err)
	}

	sealed := gcm.Seal(nil, nonce, plaintext, scopeAAD(scope))

	out := make([]byte, 2+nonceSize+len(sealed))
	binary.BigEndian.PutUint16(out[0:2], ciphertextVersion)
	copy(out[2:2+nonceSize], nonce)
	copy(out[2+nonceSize:], sealed)

	return out, nil
}

// Decrypt opens ciphertext, requiring the same scope it was sealed with.
func (e *AESGCM) Decrypt(ciphertext []byte, scope Scope) ([]byte, error) {
	if e == nil || e.keys == nil {
		return nil, ErrNotConfigured
	}
	if len(ciphertext) < 2+nonceSize+1 {
		return nil, ErrCiphertextTooShort
	}

	version := binary.BigEndian.Uint16(ciphertext[0:2])
	if version != ciphertextVersion {
		return nil, fmt.Errorf("secrets: ciphertext version %d: %w", version, ErrUnsupportedVersion)
	}

	gcm, err := e.aead(scope)
	if err != nil {
		return nil, err
	}

	nonce := ciphertext[2 : 2+nonceSize]
	sealed := ciphertext[2+nonceSize:]

	plain, err := gcm.Open(nil, nonce, sealed, scopeAAD(scope))
	if err != nil {
		// Do not leak whether the key, scope, or payload was wrong.
		return nil, ErrDecryptFailed
	}

	return plain, nil
}

func (e *AESGCM) aead(scope Scope) (cipher.AEAD, error) {
	key, err := e.keys.Key(scope)
	if err != nil {
		return nil, fmt.Errorf("secrets: key provider error: %w", err)
	}
	if len(key) != keyLen {
		return nil, fmt.Errorf("secrets: key length %d, want %d: %w", len(key), keyLen, ErrInvalidKeyLength)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("secrets: aes init failed: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("secrets: gcm init failed: %w", err)
	}

	return gcm, nil
}

// scopeAAD hashes a canonical form of the scope. Hashing keeps the AAD a
// fixed length and avoids separator ambiguity between fields.
func scopeAAD(s Scope) []byte {
	canonical := fmt.Sprintf("account=%d\npurpose=%s\n", s.AccountID, s.Purpose)
	sum := sha256.Sum256([]byte(canonical))

	return sum[:]
}

// StaticKeyProvider returns the same key for every scope. Suitable for a
// single-key deployment; swap in a KMS-backed provider for rotation.
type StaticKeyProvider struct {
	KeyBytes []byte
}

// Key returns a copy of the static key.
func (p StaticKeyProvider) Key(_ Scope) ([]byte, error) {
	if len(p.KeyBytes) == 0 {
		return nil, ErrMissingStaticKey
	}

	k := make([]byte, len(p.KeyBytes))
	copy(k, p.KeyBytes)

	return k, nil
}
