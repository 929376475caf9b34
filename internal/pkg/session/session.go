// Package session stores server-side login sessions for the two-step
// verification gate.
//
// A session is created once the password check succeeds and is promoted to
// fully verified after the one-time code check. The browser only ever holds
// an opaque random token; all state lives server side.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"
)

// ErrNotFound is returned when no session exists for a token.
var ErrNotFound = errors.New("session not found")

// ErrInvalidTransition is returned when a stage transition is not allowed.
var ErrInvalidTransition = errors.New("invalid session stage transition")

// Stage is the verification stage of a session.
type Stage string

const (
	// StagePasswordOK means the password was verified but the one-time
	// code was not yet provided.
	StagePasswordOK Stage = "password_ok"
	// StageFullyVerified means both factors were verified.
	StageFullyVerified Stage = "fully_verified"
)

// Valid reports whether the stage is one of the known values.
func (s Stage) Valid() bool {
	return s == StagePasswordOK || s == StageFullyVerified
}

// Verified reports whether the stage grants access to protected resources.
func (s Stage) Verified() bool {
	return s == StageFullyVerified
}

// Session is the server-side state attached to an opaque token.
type Session struct {
	AccountID int64     `json:"account_id"`
	Username  string    `json:"username"`
	Stage     Stage     `json:"stage"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Promote advances the session to the fully verified stage. Only a
// password-verified session can be promoted.
func (s Session) Promote() (Session, error) {
	if s.Stage != StagePasswordOK {
		return Session{}, ErrInvalidTransition
	}

	s.Stage = StageFullyVerified

	return s, nil
}

// Store persists sessions keyed by opaque tokens.
type Store interface {
	// Create stores a new session under the token.
	Create(ctx context.Context, token string, sess Session) error
	// Get returns the session for the token, or ErrNotFound.
	Get(ctx context.Context, token string) (Session, error)
	// Update replaces the session for the token, keeping its expiry.
	Update(ctx context.Context, token string, sess Session) error
	// Delete removes the session. Deleting a missing session is not an error.
	Delete(ctx context.Context, token string) error
}

const tokenBytes = 32

// NewToken returns a fresh opaque session token. The token carries no
// meaning; it is only a lookup handle.
func NewToken() (string, error) {
	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(raw), nil
}
