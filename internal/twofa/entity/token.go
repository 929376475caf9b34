package entity

import "time"

// ServiceToken is a stored one-time password secret for a third-party
// service. Secret is AES-GCM ciphertext; it never leaves the usecase layer
// in plain form except through export.
type ServiceToken struct {
	ID          int64
	AccountID   int64
	ServiceName string
	Secret      []byte
	KeyVersion  int16
	CreatedAt   time.Time
}
