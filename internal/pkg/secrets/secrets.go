// Package secrets encrypts TOTP secrets at rest.
package secrets

// Purpose identifies what kind of secret a ciphertext protects.
type Purpose string

const (
	// PurposePrimary scopes encryption to an account's primary login secret.
	PurposePrimary Purpose = "primary_secret"
	// PurposeService scopes encryption to stored service secrets.
	PurposeService Purpose = "service_secret"
)

// Scope binds a ciphertext to its owner and purpose. It is fed into the
// cipher as additional authenticated data, so a ciphertext copied to
// another account row or column fails to decrypt.
type Scope struct {
	AccountID int64
	Purpose   Purpose
}

// Encryptor encrypts and decrypts secrets bound to a scope.
type Encryptor interface {
	Encrypt(plaintext []byte, scope Scope) (ciphertext []byte, err error)
	Decrypt(ciphertext []byte, scope Scope) (plaintext []byte, err error)
}

// KeyProvider supplies raw AES keys. Keys must be 32 bytes for AES-256.
type KeyProvider interface {
	Key(scope Scope) ([]byte, error)
}
