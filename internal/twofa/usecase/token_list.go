package usecase

import (
	"context"
	"log/slog"

	"github.com/ioshacker22/2FA-authentication/internal/pkg/goerror"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/secrets"
)

type ListTokensOutput struct {
	Tokens []ServiceCode
}

// ServiceCode is a stored service plus its current one-time code.
type ServiceCode struct {
	ID          int64
	ServiceName string
	Code        string
}

// ListTokens returns every stored service with the code valid right now.
// Codes roll over with the time step, so the list is a live view rather
// than stored data.
func (s *Usecase) ListTokens(ctx context.Context) (*ListTokensOutput, error) {
	ctx, span := s.startSpan(ctx, "ListTokens")
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

	now := s.clock.Now()
	out := make([]ServiceCode, 0, len(tokens))
	for _, token := range tokens {
		secret, err := s.encryptor.Decrypt(token.Secret, secrets.Scope{
			AccountID: accountID,
			Purpose:   secrets.PurposeService,
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to decrypt service secret", "token_id", token.ID, "error", err)
			return nil, goerror.NewServer(err)
		}

		code, err := s.totp.GenerateCode(string(secret), now)
		if err != nil {
			slog.ErrorContext(ctx, "failed to generate code", "token_id", token.ID, "error", err)
			return nil, goerror.NewServer(err)
		}

		out = append(out, ServiceCode{
			ID:          token.ID,
			ServiceName: token.ServiceName,
			Code:        code,
		})
	}

	return &ListTokensOutput{Tokens: out}, nil
}
