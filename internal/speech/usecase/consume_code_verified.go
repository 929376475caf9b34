package usecase

import (
	"context"
	"log/slog"
	"strings"
)

type ConsumeCodeVerifiedInput struct {
	AccountID int64  `validate:"required,gt=0"`
	Username  string `validate:"required"`
	Code      string `validate:"required,otpcode"`
}

// ConsumeCodeVerified reads a verified code aloud. The announcement is a
// courtesy; failures are logged and the message is not redelivered, since
// the verification itself already succeeded.
func (s *Usecase) ConsumeCodeVerified(ctx context.Context, in ConsumeCodeVerifiedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeCodeVerified")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	if err := s.speaker.Speak(ctx, spokenCode(in.Code)); err != nil {
		slog.WarnContext(ctx, "failed to speak verified code", "account_id", in.AccountID, "error", err)
	}

	return nil
}

// spokenCode spaces the digits out so the synthesizer reads them one by
// one instead of as a single number.
func spokenCode(code string) string {
	digits := strings.Split(code, "")

	return "Your verification code is " + strings.Join(digits, ", ")
}
