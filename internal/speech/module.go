package speech

import (
	"context"

	"github.com/ioshacker22/2FA-authentication/internal/pkg/config"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/goroutine"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/instrument"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/messaging"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/uid"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/validator"
	"github.com/ioshacker22/2FA-authentication/internal/speech/inbound"
	"github.com/ioshacker22/2FA-authentication/internal/speech/outbound/tts"
	"github.com/ioshacker22/2FA-authentication/internal/speech/usecase"
)

type Dependency struct {
	Goroutine  *goroutine.Manager         `validate:"required"`
	Messaging  messaging.Messaging        `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UUID       uid.StringID               `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(ctx context.Context, dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	speaker, err := tts.New(
		dep.Config.GetString("modules.speech.tts_base_url"),
		dep.Instrument,
		tts.WithVoice(dep.Config.GetString("modules.speech.tts_voice")),
	)
	if err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		Speaker:    speaker,
		Validator:  dep.Validator,
		Config:     dep.Config,
		Instrument: dep.Instrument,
	})

	inbound.RegisterMQConsumer(ctx, dep.Config, dep.Goroutine, dep.Messaging, dep.UUID, uc, dep.Instrument)

	return nil
}
