package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

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
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	bcrypt    hash.Hash
	hmac      hash.Hash
	uid       uid.NumberID
	uuid      uid.StringID
	totp      otp.OTP
	qr        qr.Generator
	encryptor secrets.Encryptor

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	sessions  session.Store
	limiter   ratelimit.Limiter
	messaging messaging.Messaging

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initSecrets()
	app.initDatabase()
	app.initCache()
	app.initMessaging()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
