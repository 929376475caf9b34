package hash

// Hash abstracts a one-way hash with verification.
type Hash interface {
	// Hash computes the hash of the given plain text.
	Hash(plain string) (string, error)

	// Verify reports whether plain matches the previously produced hash.
	Verify(hashed, plain string) bool
}
