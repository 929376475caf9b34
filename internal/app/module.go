package app

import (
	"log/slog"
	"os"

	"github.com/ioshacker22/2FA-authentication/internal/speech"
	"github.com/ioshacker22/2FA-authentication/internal/twofa"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.twofa.enabled") {
		if err := twofa.New(twofa.Dependency{
			Config:     a.config,
			Instrument: a.ins,
			UID:        a.uid,
			Bcrypt:     a.bcrypt,
			Encryptor:  a.encryptor,
			Clock:      a.clock,
			Validator:  a.validator,
			Router:     a.router,
			Totp:       a.totp,
			QR:         a.qr,
			DBConn:     a.dbConn,
			Sessions:   a.sessions,
			RateLimit:  a.limiter,
			Messaging:  a.messaging,
			Goroutine:  a.goroutine,
		}); err != nil {
			slog.Error("failed to init module twofa", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.speech.enabled") {
		if err := speech.New(a.ctx, speech.Dependency{
			Goroutine:  a.goroutine,
			Messaging:  a.messaging,
			Config:     a.config,
			Instrument: a.ins,
			UUID:       a.uuid,
			Validator:  a.validator,
		}); err != nil {
			slog.Error("failed to init module speech", "error", err)
			os.Exit(1)
		}
	}
}
