package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/nats-io/nats.go"
	libOTP "github.com/pquerna/otp"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/sethvargo/go-retry"

	"github.com/ioshacker22/2FA-authentication/internal/app/migrations"
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

func (a *App) initConfig() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "/config/config.yaml"
		if os.Getenv("LOCAL") == "true" {
			path = "./config/config.yaml"
		}
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("app.tz"))

	a.config = cfg
}

func (a *App) initInstrument() {
	ins, err := instrument.New(context.Background(), &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
	})
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}
	a.ins = ins
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.goroutine = goroutine.NewManager(a.config.GetInt("app.server.max_goroutine"))
	a.bcrypt = hash.NewBcrypt(
		hash.WithCost(a.config.GetInt("hash.bcrypt.cost")),
		hash.WithPepper(a.config.GetString("hash.bcrypt.pepper")),
	)

	validator, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = validator

	snow, err := uid.NewSnowflake()
	if err != nil {
		slog.Error("failed to init uid number snowflake", "error", err)
		os.Exit(1)
	}
	a.uid = snow

	a.totp = otp.NewTOTP(
		a.config.GetString("twofa.totp.issuer"),
		uint(a.config.GetInt("twofa.totp.period")),
		uint(a.config.GetInt("twofa.totp.skew")),
		libOTP.DigitsSix,
	)

	a.qr = qr.NewEncoder(a.config.GetInt("twofa.qr.size"))
}

// initSecrets loads the keys everything else depends on. The service is
// useless without them, so a missing or malformed key stops startup.
func (a *App) initSecrets() {
	hmacSecret := a.config.GetString("hash.hmac.secret")
	if hmacSecret == "" {
		slog.Error("failed to init session keyer, hash.hmac.secret is required")
		os.Exit(1)
	}
	a.hmac = hash.NewHMACSHA256([]byte(hmacSecret))

	rawKey := a.config.GetBinary("twofa.encryption_key")
	if len(rawKey) == 0 {
		slog.Error("failed to init secret encryptor, twofa.encryption_key is required")
		os.Exit(1)
	}
	if len(rawKey) != 32 {
		slog.Error("failed to init secret encryptor, key must be 32 bytes (AES-256)")
		os.Exit(1)
	}
	a.encryptor = secrets.NewAESGCM(secrets.StaticKeyProvider{KeyBytes: rawKey})
}

func (a *App) initDatabase() {
	config, err := pgxpool.ParseConfig(a.config.GetString("database.url"))
	if err != nil {
		slog.Error("failed to parse DB connection string.", "error", err)
		os.Exit(1)
	}

	config.MaxConns = int32(a.config.GetInt("database.pool.max_conns"))
	config.MinConns = int32(a.config.GetInt("database.pool.min_conns"))
	config.MaxConnLifetime = a.config.GetSecond("database.pool.max_conn_lifetime_seconds")
	config.MaxConnIdleTime = a.config.GetSecond("database.pool.max_conn_idle_seconds")
	config.HealthCheckPeriod = a.config.GetSecond("database.pool.health_check_period_seconds")

	pool, err := pgxpool.NewWithConfig(a.ctx, config)
	if err != nil {
		slog.Error("failed to create DB connection pool", "error", err)
		os.Exit(1)
	}

	pingCtx, cancel := context.WithTimeout(a.ctx, 30*time.Second)
	defer cancel()
	backoff := retry.WithMaxRetries(5, retry.NewExponential(time.Second))
	if err := retry.Do(pingCtx, backoff, func(ctx context.Context) error {
		return retry.RetryableError(pool.Ping(ctx))
	}); err != nil {
		slog.Error("failed to ping DB", "error", err)
		os.Exit(1)
	}

	a.dbConn = pool
	a.migrateDatabase()
}

func (a *App) migrateDatabase() {
	if !a.config.GetBool("database.migrate") {
		return
	}

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		slog.Error("failed to set migration dialect", "error", err)
		os.Exit(1)
	}

	db := stdlib.OpenDBFromPool(a.dbConn)
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("failed to close migration connection", "error", err)
		}
	}()

	if err := goose.Up(db, "."); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
}

func (a *App) initCache() {
	opt, err := redis.ParseURL(a.config.GetString("redis.url"))
	if err != nil {
		slog.Error("failed to parse redis url", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Error("failed to init redis", "error", err)
		os.Exit(1)
	}

	a.cacheConn = rdb
	a.sessions = session.NewRedisStore(rdb, a.hmac, a.config.GetMinute("modules.twofa.session_ttl_minutes"))

	a.limiter = ratelimit.Noop{}
	if a.config.GetBool("ratelimit.enabled") {
		a.limiter = ratelimit.NewFixedWindow(rdb,
			a.config.GetInt64("ratelimit.limit"),
			a.config.GetSecond("ratelimit.window_seconds"),
		)
	}
}

func (a *App) initMessaging() {
	driver := a.config.GetString("messaging.driver")
	client, err := messaging.NewFromDriver(driver, messaging.FactoryOptions{
		NATS: messaging.NATSConfig{
			URL: a.config.GetString("messaging.nats.url"),
			Options: []nats.Option{
				nats.Name(a.config.GetString("messaging.nats.name")),
				nats.MaxReconnects(a.config.GetInt("messaging.nats.max_reconnects")),
				nats.Timeout(a.config.GetSecond("messaging.nats.timeout_seconds")),
				nats.ReconnectWait(a.config.GetSecond("messaging.nats.reconnect_wait_seconds")),
				nats.PingInterval(a.config.GetSecond("messaging.nats.ping_interval_seconds")),
				nats.MaxPingsOutstanding(a.config.GetInt("messaging.nats.max_pings_outstanding")),
				nats.RetryOnFailedConnect(a.config.GetBool("messaging.nats.retry_on_failed_connect")),
			},
		},
	})
	if err != nil {
		slog.Error("failed to init messaging", "error", err, "driver", driver)
		os.Exit(1)
	}

	a.messaging = client
}

func (a *App) initHTTPServer() {
	a.router = router.NewRouter(router.Config{
		Config:     a.config,
		UUID:       a.uuid,
		Sessions:   a.sessions,
		Instrument: a.ins,
	})

	routerWithCORS := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("app.server.cors"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           routerWithCORS,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "Messaging",
			fn: func(context.Context) error {
				return a.messaging.Close()
			},
		},
		{
			name: "Redis",
			fn: func(context.Context) error {
				return a.cacheConn.Close()
			},
		},
		{
			name: "Database",
			fn: func(context.Context) error {
				a.dbConn.Close()

				return nil
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
	}
}
