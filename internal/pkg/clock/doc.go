// Package clock abstracts the system clock behind a tiny interface so that
// time-dependent logic (TOTP windows, session expiry) can be tested with a
// fixed instant.
package clock
