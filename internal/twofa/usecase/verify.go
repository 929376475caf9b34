package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ioshacker22/2FA-authentication/internal/pkg/goerror"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/secrets"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/session"
)

type VerifyInput struct {
	Code string `validate:"required,otpcode"`
}

type VerifyOutput struct {
	Stage session.Stage
}

// Verify checks a one-time code against the account's primary secret and
// promotes the session to fully verified. A successful check also announces
// the code on the messaging bus; that announcement is best effort and never
// changes the verification outcome.
func (s *Usecase) Verify(ctx context.Context, in VerifyInput) (*VerifyOutput, error) {
	ctx, span := s.startSpan(ctx, "Verify")
	defer span.End()

	auth, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	// A wrong-length or non-numeric code is a failed verification, not a
	// validation error. The caller learns nothing beyond "not valid", and
	// the store is never touched for codes that cannot possibly match.
	if err := s.validator.Validate(in); err != nil {
		slog.WarnContext(ctx, "one-time code rejected", "account_id", auth.Session.AccountID)
		return nil, goerror.NewBusiness("Invalid one-time code", goerror.CodeUnauthorized)
	}

	account, err := s.repoDB.GetAccountByID(ctx, auth.Session.AccountID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "session account no longer exists", "account_id", auth.Session.AccountID)
		return nil, goerror.NewBusiness("Account not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get account by id", "account_id", auth.Session.AccountID, "error", err)
		return nil, goerror.NewServer(err)
	}

	secret, err := s.encryptor.Decrypt(account.Secret, secrets.Scope{
		AccountID: account.ID,
		Purpose:   secrets.PurposePrimary,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to decrypt primary secret", "account_id", account.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !s.totp.Validate(in.Code, string(secret), s.clock.Now()) {
		slog.WarnContext(ctx, "one-time code rejected", "account_id", account.ID)
		return nil, goerror.NewBusiness("Invalid one-time code", goerror.CodeUnauthorized)
	}

	promoted, err := auth.Session.Promote()
	if err != nil && !errors.Is(err, session.ErrInvalidTransition) {
		return nil, goerror.NewServer(err)
	}
	if err == nil {
		if err := s.sessions.Update(ctx, auth.Token, promoted); err != nil {
			slog.ErrorContext(ctx, "failed to promote session", "account_id", account.ID, "error", err)
			return nil, goerror.NewServer(err)
		}
	} else {
		// Re-verifying an already verified session is harmless.
		promoted = auth.Session
	}

	s.announceCodeVerified(ctx, CodeVerifiedEvent{
		AccountID: account.ID,
		Username:  account.Username,
		Code:      in.Code,
	})

	return &VerifyOutput{Stage: promoted.Stage}, nil
}

// announceCodeVerified publishes the verified code without blocking the
// caller. The request context may be gone by the time the publish runs, so
// the goroutine carries its values but not its cancellation.
func (s *Usecase) announceCodeVerified(ctx context.Context, msg CodeVerifiedEvent) {
	s.goroutine.Go(context.WithoutCancel(ctx), func(ctx context.Context) error {
		if err := s.repoMessaging.PublishCodeVerified(ctx, msg); err != nil {
			slog.WarnContext(ctx, "failed to publish code verified", "account_id", msg.AccountID, "error", err)
		}

		return nil
	})
}
