package usecase

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/ioshacker22/2FA-authentication/internal/pkg/config"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/instrument"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/validator"
)

type speaker interface {
	Speak(ctx context.Context, text string) error
}

// Usecase turns verified codes into spoken announcements.
type Usecase struct {
	speaker   speaker
	validator validator.Validator
	cfg       config.Config
	ins       instrument.Instrumentation
}

type Dependency struct {
	Speaker    speaker
	Validator  validator.Validator
	Config     config.Config
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		speaker:   dep.Speaker,
		validator: dep.Validator,
		cfg:       dep.Config,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("speech.usecase").Start(ctx, name)
}
