package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ioshacker22/2FA-authentication/internal/pkg/backup"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/goerror"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/secrets"
	"github.com/ioshacker22/2FA-authentication/internal/twofa/entity"
)

type ImportTokensInput struct {
	Archive []byte
}

// importEntry mirrors the archive entry shape with the same rules AddToken
// applies, so a restore cannot smuggle in values the API would reject.
type importEntry struct {
	Service string `validate:"required,servicename"`
	Secret  string `validate:"required,base32secret"`
}

type ImportTokensOutput struct {
	Imported int
}

// ImportTokens restores service secrets from a backup archive. Every entry
// is validated before anything is written, and the restore replaces the
// account's stored tokens in a single transaction, so a bad archive leaves
// existing data untouched.
func (s *Usecase) ImportTokens(ctx context.Context, in ImportTokensInput) (*ImportTokensOutput, error) {
	ctx, span := s.startSpan(ctx, "ImportTokens")
	defer span.End()

	auth, err := s.verified(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := backup.Decode(in.Archive)
	if errors.Is(err, backup.ErrMalformed) {
		return nil, goerror.NewInvalidFormat(err.Error())
	}
	if err != nil {
		return nil, goerror.NewServer(err)
	}

	accountID := auth.Session.AccountID
	tokens := make([]entity.ServiceToken, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		service := strings.TrimSpace(entry.Service)
		secret := normalizeSecret(entry.Secret)

		if err := s.validator.Validate(importEntry{Service: service, Secret: secret}); err != nil {
			return nil, goerror.NewInvalidFormat("entry for service " + entry.Service + " is invalid")
		}
		if _, dup := seen[service]; dup {
			return nil, goerror.NewInvalidFormat("archive lists service " + service + " more than once")
		}
		seen[service] = struct{}{}

		sealed, err := s.encryptor.Encrypt([]byte(secret), secrets.Scope{
			AccountID: accountID,
			Purpose:   secrets.PurposeService,
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to encrypt imported secret", "account_id", accountID, "error", err)
			return nil, goerror.NewServer(err)
		}

		tokens = append(tokens, entity.ServiceToken{
			ID:          s.uid.Generate(),
			AccountID:   accountID,
			ServiceName: service,
			Secret:      sealed,
			KeyVersion:  s.keyVersion(),
		})
	}

	if err := s.repoDB.ReplaceServiceTokens(ctx, accountID, tokens); err != nil {
		slog.ErrorContext(ctx, "failed to repo replace service tokens", "account_id", accountID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ImportTokensOutput{Imported: len(tokens)}, nil
}
