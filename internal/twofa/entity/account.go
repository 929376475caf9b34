package entity

import "time"

// Account is a registered user with a primary login secret.
type Account struct {
	ID        int64
	Username  string
	CreatedAt time.Time
}

// AccountCredentials carries the sensitive columns needed to authenticate
// an account. Password is a bcrypt hash; Secret is the AES-GCM ciphertext
// of the primary TOTP secret.
type AccountCredentials struct {
	ID         int64
	Username   string
	Password   string
	Secret     []byte
	KeyVersion int16
	CreatedAt  time.Time
}

// NewAccount is the data required to create an account.
type NewAccount struct {
	ID         int64
	Username   string
	Password   string
	Secret     []byte
	KeyVersion int16
}
