package hash

import (
	"golang.org/x/crypto/bcrypt"
)

// Bcrypt hashes passwords using the bcrypt algorithm.
//
// An optional pepper is appended to the plain text before hashing. The
// pepper is a process-wide secret and is not stored with the hash.
type Bcrypt struct {
	cost   int
	pepper string
}

// BcryptOption configures a Bcrypt instance.
type BcryptOption func(*Bcrypt)

// WithCost overrides the bcrypt cost factor.
func WithCost(cost int) BcryptOption {
	return func(b *Bcrypt) {
		b.cost = cost
	}
}

// WithPepper sets a secret pepper appended to every password.
func WithPepper(pepper string) BcryptOption {
	return func(b *Bcrypt) {
		b.pepper = pepper
	}
}

// NewBcrypt creates a Bcrypt hasher with the default cost.
func NewBcrypt(opts ...BcryptOption) *Bcrypt {
	b := &Bcrypt{cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(b)
	}

	if b.cost < bcrypt.MinCost || b.cost > bcrypt.MaxCost {
		b.cost = bcrypt.DefaultCost
	}

	return b
}

// Hash computes the bcrypt hash of the given plain text.
func (b *Bcrypt) Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain+b.pepper), b.cost)
	if err != nil {
		return "", err
	}

	return string(hashed), nil
}

// Verify reports whether plain matches the stored bcrypt hash.
func (b *Bcrypt) Verify(hashed, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain+b.pepper)) == nil
}
