// Package otp implements time-based one-time password operations.
package otp

import (
	"encoding/base32"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// OTP defines the contract for TOTP operations.
type OTP interface {
	// Generate creates a fresh secret and its provisioning URI for an account.
	Generate(accountName string) (secret string, uri string, err error)
	// URI builds a provisioning URI for an existing secret.
	URI(accountName, secret string) (string, error)
	// Validate checks whether a code is valid for the secret at the given time.
	Validate(code, secret string, at time.Time) bool
	// GenerateCode creates a code for the given secret and time.
	GenerateCode(secret string, at time.Time) (string, error)
}

// TOTP implements OTP using the algorithm from RFC 6238.
//
// Codes are compared in constant time by the underlying library, and
// validation accepts codes from adjacent time steps within the configured
// skew so slight clock drift between server and authenticator app does not
// lock users out.
type TOTP struct {
	issuer string
	period uint
	skew   uint
	digits otp.Digits
}

// NewTOTP constructs a TOTP instance with sensible defaults.
//
// If digits is not 6 or 8 it falls back to 6. A zero period uses the common
// 30-second step, a zero skew accepts one step either side.
func NewTOTP(issuer string, period, skew uint, digits otp.Digits) *TOTP {
	if digits != otp.DigitsSix && digits != otp.DigitsEight {
		digits = otp.DigitsSix
	}

	if period == 0 {
		period = 30
	}

	if skew == 0 {
		skew = 1
	}

	return &TOTP{
		issuer: issuer,
		period: period,
		skew:   skew,
		digits: digits,
	}
}

// Generate creates a fresh secret and its provisioning URI for an account.
//
// The secret is 10 random bytes, which encodes to 16 base32 characters
// without padding.
func (o *TOTP) Generate(accountName string) (secret string, uri string, err error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      o.issuer,
		AccountName: accountName,
		Period:      o.period,
		SecretSize:  10,
		Digits:      o.digits,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", "", err
	}

	return key.Secret(), key.URL(), nil
}

// URI builds a provisioning URI for an existing base32-encoded secret.
func (o *TOTP) URI(accountName, secret string) (string, error) {
	raw, err := DecodeSecret(secret)
	if err != nil {
		return "", err
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      o.issuer,
		AccountName: accountName,
		Period:      o.period,
		Secret:      raw,
		Digits:      o.digits,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", err
	}

	return key.URL(), nil
}

// Validate checks whether a code is valid for the secret at the given time.
func (o *TOTP) Validate(code, secret string, at time.Time) bool {
	rv, err := totp.ValidateCustom(code, secret, at, totp.ValidateOpts{
		Period:    o.period,
		Skew:      o.skew,
		Digits:    o.digits,
		Algorithm: otp.AlgorithmSHA1,
	})

	return rv && err == nil
}

// GenerateCode creates a code for the given secret and time.
func (o *TOTP) GenerateCode(secret string, at time.Time) (string, error) {
	return totp.GenerateCodeCustom(secret, at, totp.ValidateOpts{
		Period:    o.period,
		Skew:      o.skew,
		Digits:    o.digits,
		Algorithm: otp.AlgorithmSHA1,
	})
}

// DecodeSecret decodes a base32 secret, tolerating lowercase input and
// missing padding as authenticator apps commonly produce both.
func DecodeSecret(secret string) ([]byte, error) {
	normalized := strings.TrimRight(strings.ToUpper(secret), "=")

	return base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(normalized)
}
