package validator

import (
	"errors"
	"testing"
)

type registerInput struct {
	Username string `validate:"required,alphanum,min=3,max=32"`
	Password string `validate:"required,password"`
}

type tokenInput struct {
	ServiceName string `validate:"required,servicename"`
	Secret      string `validate:"required,base32secret"`
	Code        string `validate:"omitempty,otpcode"`
}

func mustValidator(t *testing.T) *V10Validator {
	t.Helper()

	v, err := NewV10Validator()
	if err != nil {
		t.Fatalf("NewV10Validator() error = %v", err)
	}

	return v
}

func TestV10Validator_Valid(t *testing.T) {
	v := mustValidator(t)

	if err := v.Validate(registerInput{Username: "alice", Password: "longenough"}); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if err := v.Validate(tokenInput{ServiceName: "github", Secret: "JBSWY3DPEHPK3PXP", Code: "123456"}); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestV10Validator_Invalid(t *testing.T) {
	v := mustValidator(t)

	tests := []struct {
		name  string
		input any
		field string
	}{
		{name: "missing username", input: registerInput{Password: "longenough"}, field: "username"},
		{name: "short password", input: registerInput{Username: "alice", Password: "short"}, field: "password"},
		{name: "bad service name", input: tokenInput{ServiceName: "///", Secret: "JBSWY3DPEHPK3PXP"}, field: "service_name"},
		{name: "bad secret", input: tokenInput{ServiceName: "github", Secret: "not base32 !!"}, field: "secret"},
		{name: "bad code", input: tokenInput{ServiceName: "github", Secret: "JBSWY3DPEHPK3PXP", Code: "12"}, field: "code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.input)
			if err == nil {
				t.Fatal("Validate() error = nil")
			}

			var verr V10ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error type = %T", err)
			}
			if _, ok := verr.Values()[tt.field]; !ok {
				t.Errorf("Values() = %v, want key %q", verr.Values(), tt.field)
			}
		})
	}
}
