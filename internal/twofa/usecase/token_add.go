package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ioshacker22/2FA-authentication/internal/pkg/goerror"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/secrets"
	"github.com/ioshacker22/2FA-authentication/internal/twofa/entity"
)

type AddTokenInput struct {
	ServiceName string `validate:"required,servicename"`
	Secret      string `validate:"omitempty,base32secret"`
}

type AddTokenOutput struct {
	ID          int64
	ServiceName string
	Secret      string
}

// AddToken stores a service secret for the verified account. The secret is
// normalized to uppercase unpadded base32 before encryption so later code
// generation and export are deterministic. When no secret is supplied a
// fresh one is generated and returned so the caller can enroll it.
func (s *Usecase) AddToken(ctx context.Context, in AddTokenInput) (*AddTokenOutput, error) {
	ctx, span := s.startSpan(ctx, "AddToken")
	defer span.End()

	auth, err := s.verified(ctx)
	if err != nil {
		return nil, err
	}

	in.ServiceName = strings.TrimSpace(in.ServiceName)
	in.Secret = normalizeSecret(in.Secret)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if in.Secret == "" {
		generated, _, err := s.totp.Generate(in.ServiceName)
		if err != nil {
			slog.ErrorContext(ctx, "failed to generate service secret", "error", err)
			return nil, goerror.NewServer(err)
		}
		in.Secret = normalizeSecret(generated)
	}

	accountID := auth.Session.AccountID
	sealed, err := s.encryptor.Encrypt([]byte(in.Secret), secrets.Scope{
		AccountID: accountID,
		Purpose:   secrets.PurposeService,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to encrypt service secret", "account_id", accountID, "error", err)
		return nil, goerror.NewServer(err)
	}

	token := entity.ServiceToken{
		ID:          s.uid.Generate(),
		AccountID:   accountID,
		ServiceName: in.ServiceName,
		Secret:      sealed,
		KeyVersion:  s.keyVersion(),
	}

	if err := s.repoDB.CreateServiceToken(ctx, token); err != nil {
		if errors.Is(err, goerror.ErrConflict) {
			return nil, goerror.NewBusiness("Service already registered", goerror.CodeConflict)
		}

		slog.ErrorContext(ctx, "failed to repo create service token", "account_id", accountID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &AddTokenOutput{
		ID:          token.ID,
		ServiceName: token.ServiceName,
		Secret:      in.Secret,
	}, nil
}

// normalizeSecret uppercases a base32 secret and strips whitespace and
// padding, matching how authenticator apps present secrets to users.
func normalizeSecret(secret string) string {
	secret = strings.ToUpper(strings.TrimSpace(secret))
	secret = strings.ReplaceAll(secret, " ", "")

	return strings.TrimRight(secret, "=")
}
