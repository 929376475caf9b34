package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ioshacker22/2FA-authentication/internal/pkg/goerror"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/session"
)

type LoginInput struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

type LoginOutput struct {
	SessionToken string
	Stage        session.Stage
}

// Login verifies the password and opens a half-authenticated session. The
// session stays at the password stage until Verify confirms a one-time
// code; protected resources reject it until then.
func (s *Usecase) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	username := strings.TrimSpace(in.Username)
	account, err := s.repoDB.GetAccountByUsername(ctx, username)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "account not found", "username", username)
		return nil, goerror.NewBusiness("Invalid username or password", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get account by username", "username", username, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !s.bcrypt.Verify(account.Password, in.Password) {
		slog.WarnContext(ctx, "account password mismatch", "account_id", account.ID)
		return nil, goerror.NewBusiness("Invalid username or password", goerror.CodeUnauthorized)
	}

	token, err := session.NewToken()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate session token", "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	sess := session.Session{
		AccountID: account.ID,
		Username:  account.Username,
		Stage:     session.StagePasswordOK,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.GetMinute("modules.twofa.session_ttl_minutes")),
	}

	if err := s.sessions.Create(ctx, token, sess); err != nil {
		slog.ErrorContext(ctx, "failed to create session", "account_id", account.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &LoginOutput{
		SessionToken: token,
		Stage:        sess.Stage,
	}, nil
}
