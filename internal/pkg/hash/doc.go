// Package hash provides password hashing and keyed message authentication.
//
// Bcrypt is used for stored account passwords, HMACSHA256 for deriving
// opaque lookup keys (e.g., session identifiers) that must never be stored
// in plain form.
package hash
