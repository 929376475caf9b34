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

type RegisterInput struct {
	Username string `validate:"required,min=3,max=64,alphanum"`
	Password string `validate:"required,password"`
}

type RegisterOutput struct {
	Secret          string
	ProvisioningURI string
	QRCodePNG       string
}

// Register creates an account with a fresh primary secret. The secret and
// its provisioning QR code are returned once so the user can enroll an
// authenticator app; only the ciphertext survives in storage.
func (s *Usecase) Register(ctx context.Context, in RegisterInput) (*RegisterOutput, error) {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	// Usernames are case sensitive; Alice1 and alice1 are distinct accounts.
	in.Username = strings.TrimSpace(in.Username)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	_, err := s.repoDB.GetAccountByUsername(ctx, in.Username)
	if err == nil {
		return nil, goerror.NewBusiness("Username already registered", goerror.CodeConflict)
	}
	if !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get account by username", "username", in.Username, "error", err)
		return nil, goerror.NewServer(err)
	}

	hashedPassword, err := s.bcrypt.Hash(in.Password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return nil, goerror.NewServer(err)
	}

	secret, uri, err := s.totp.Generate(in.Username)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate primary secret", "error", err)
		return nil, goerror.NewServer(err)
	}

	newAccountID := s.uid.Generate()
	sealed, err := s.encryptor.Encrypt([]byte(secret), secrets.Scope{
		AccountID: newAccountID,
		Purpose:   secrets.PurposePrimary,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to encrypt primary secret", "error", err)
		return nil, goerror.NewServer(err)
	}

	// Render before the insert. A failed render must not claim the
	// username with a secret the user never saw.
	png, err := s.qr.Base64PNG(uri)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render provisioning qr code", "username", in.Username, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoDB.CreateAccount(ctx, entity.NewAccount{
		ID:         newAccountID,
		Username:   in.Username,
		Password:   hashedPassword,
		Secret:     sealed,
		KeyVersion: s.keyVersion(),
	}); err != nil {
		if errors.Is(err, goerror.ErrConflict) {
			return nil, goerror.NewBusiness("Username already registered", goerror.CodeConflict)
		}

		slog.ErrorContext(ctx, "failed to repo create account", "username", in.Username, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &RegisterOutput{
		Secret:          secret,
		ProvisioningURI: uri,
		QRCodePNG:       png,
	}, nil
}

func (s *Usecase) keyVersion() int16 {
	v := s.cfg.GetInt("modules.twofa.encryption_key_version")
	if v <= 0 {
		v = 1
	}

	return int16(v)
}
