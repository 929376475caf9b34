package twofa

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ioshacker22/2FA-authentication/internal/pkg/clock"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/config"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/goroutine"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/hash"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/instrument"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/messaging"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/otp"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/qr"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/ratelimit"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/router"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/secrets"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/session"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/uid"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/validator"
	"github.com/ioshacker22/2FA-authentication/internal/twofa/inbound"
	"github.com/ioshacker22/2FA-authentication/internal/twofa/outbound/db"
	"github.com/ioshacker22/2FA-authentication/internal/twofa/outbound/mq"
	"github.com/ioshacker22/2FA-authentication/internal/twofa/usecase"
)

type Dependency struct {
	DBConn     *pgxpool.Pool              `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Messaging  messaging.Messaging        `validate:"required"`
	Sessions   session.Store              `validate:"required"`
	RateLimit  ratelimit.Limiter          `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	Bcrypt     hash.Hash                  `validate:"required"`
	Encryptor  secrets.Encryptor          `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Totp       otp.OTP                    `validate:"required"`
	QR         qr.Generator               `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbTwofa := db.NewDB(dep.DBConn, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        dbTwofa,
		RepoMessaging: repoMsg,
		Sessions:      dep.Sessions,
		Validator:     dep.Validator,
		Config:        dep.Config,
		Bcrypt:        dep.Bcrypt,
		Encryptor:     dep.Encryptor,
		UID:           dep.UID,
		Totp:          dep.Totp,
		QR:            dep.QR,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
		Goroutine:     dep.Goroutine,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc, dep.RateLimit)

	return nil
}
