package usecase

import (
	"context"
	"log/slog"

	"github.com/ioshacker22/2FA-authentication/internal/pkg/goerror"
)

// Logout destroys the current session. Any stage of session can log out,
// including one that never finished the second factor.
func (s *Usecase) Logout(ctx context.Context) error {
	ctx, span := s.startSpan(ctx, "Logout")
	defer span.End()

	auth, err := s.authenticated(ctx)
	if err != nil {
		return err
	}

	if err := s.sessions.Delete(ctx, auth.Token); err != nil {
		slog.ErrorContext(ctx, "failed to delete session", "account_id", auth.Session.AccountID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
