// Package validator validates request inputs declared with struct tags.
package validator

// Validator validates structs using declarative rules.
type Validator interface {
	Validate(data any) error
}
