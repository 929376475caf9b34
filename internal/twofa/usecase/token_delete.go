package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ioshacker22/2FA-authentication/internal/pkg/goerror"
)

type DeleteTokenInput struct {
	ID int64 `validate:"required,gt=0"`
}

// DeleteToken removes a stored service secret. Deleting a token that
// belongs to another account is refused, and the refusal is distinct from
// the token not existing so a caller probing ids learns nothing extra.
func (s *Usecase) DeleteToken(ctx context.Context, in DeleteTokenInput) error {
	ctx, span := s.startSpan(ctx, "DeleteToken")
	defer span.End()

	auth, err := s.verified(ctx)
	if err != nil {
		return err
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	token, err := s.repoDB.GetServiceTokenByID(ctx, in.ID)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("Token not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get service token", "token_id", in.ID, "error", err)
		return goerror.NewServer(err)
	}

	if token.AccountID != auth.Session.AccountID {
		slog.WarnContext(ctx, "token delete refused", "token_id", in.ID, "account_id", auth.Session.AccountID)
		return goerror.NewBusiness("Token belongs to another account", goerror.CodeForbidden)
	}

	if err := s.repoDB.DeleteServiceToken(ctx, in.ID); err != nil {
		slog.ErrorContext(ctx, "failed to repo delete service token", "token_id", in.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
