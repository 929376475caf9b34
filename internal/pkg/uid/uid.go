// Package uid provides unique identifier generators.
package uid

// NumberID generates numeric unique identifiers.
type NumberID interface {
	Generate() int64
}

// StringID generates string unique identifiers.
type StringID interface {
	Generate() string
}
