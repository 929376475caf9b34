package inbound

import (
	"context"

	"github.com/ioshacker22/2FA-authentication/internal/speech/usecase"
)

type uc interface {
	ConsumeCodeVerified(ctx context.Context, in usecase.ConsumeCodeVerifiedInput) error
}
