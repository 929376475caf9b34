package usecase

import (
	"context"
	"log/slog"

	"github.com/ioshacker22/2FA-authentication/internal/pkg/backup"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/goerror"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/secrets"
)

type ExportTokensOutput struct {
	Archive []byte
}

// ExportTokens serializes every stored service secret into the portable
// backup format. The output round-trips byte for byte through ImportTokens.
func (s *Usecase) ExportTokens(ctx context.Context) (*ExportTokensOutput, error) {
	ctx, span := s.startSpan(ctx, "ExportTokens")
	defer span.End()

	auth, err := s.verified(ctx)
	if err != nil {
		return nil, err
	}

	accountID := auth.Session.AccountID
	tokens, err := s.repoDB.GetServiceTokens(ctx, accountID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get service tokens", "account_id", accountID, "error", err)
		return nil, goerror.NewServer(err)
	}

	entries := make([]backup.Entry, 0, len(tokens))
	for _, token := range tokens {
		secret, err := s.encryptor.Decrypt(token.Secret, secrets.Scope{
			AccountID: accountID,
			Purpose:   secrets.PurposeService,
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to decrypt service secret", "token_id", token.ID, "error", err)
			return nil, goerror.NewServer(err)
		}

		entries = append(entries, backup.Entry{
			Service: token.ServiceName,
			Secret:  string(secret),
		})
	}

	archive, err := backup.Encode(entries)
	if err != nil {
		slog.ErrorContext(ctx, "failed to encode backup", "account_id", accountID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ExportTokensOutput{Archive: archive}, nil
}
