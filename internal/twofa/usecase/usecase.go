package usecase

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/ioshacker22/2FA-authentication/internal/pkg/clock"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/config"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/goerror"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/goroutine"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/hash"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/instrument"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/otp"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/qr"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/secrets"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/session"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/uid"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/validator"
	"github.com/ioshacker22/2FA-authentication/internal/twofa/entity"
)

// CodeVerifiedEvent is published after a successful one-time code check.
type CodeVerifiedEvent struct {
	AccountID int64
	Username  string
	Code      string
}

type repoMessaging interface {
	PublishCodeVerified(ctx context.Context, msg CodeVerifiedEvent) error
}

type repoDB interface {
	GetAccountByUsername(ctx context.Context, username string) (*entity.AccountCredentials, error)
	GetAccountByID(ctx context.Context, id int64) (*entity.AccountCredentials, error)
	CreateAccount(ctx context.Context, account entity.NewAccount) error

	GetServiceTokens(ctx context.Context, accountID int64) ([]entity.ServiceToken, error)
	GetServiceTokenByID(ctx context.Context, id int64) (*entity.ServiceToken, error)
	CreateServiceToken(ctx context.Context, token entity.ServiceToken) error
	DeleteServiceToken(ctx context.Context, id int64) error
	ReplaceServiceTokens(ctx context.Context, accountID int64, tokens []entity.ServiceToken) error
}

// Usecase implements the two-factor companion operations.
type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	sessions      session.Store
	validator     validator.Validator
	cfg           config.Config
	bcrypt        hash.Hash
	encryptor     secrets.Encryptor
	uid           uid.NumberID
	totp          otp.OTP
	qr            qr.Generator
	clock         clock.Clocker
	ins           instrument.Instrumentation
	goroutine     *goroutine.Manager
}

// Dependency lists everything a Usecase needs.
type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	Sessions      session.Store
	Validator     validator.Validator
	Config        config.Config
	Bcrypt        hash.Hash
	Encryptor     secrets.Encryptor
	UID           uid.NumberID
	Totp          otp.OTP
	QR            qr.Generator
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
	Goroutine     *goroutine.Manager
}

// New constructs a Usecase from its dependencies.
func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		sessions:      dep.Sessions,
		validator:     dep.Validator,
		cfg:           dep.Config,
		bcrypt:        dep.Bcrypt,
		encryptor:     dep.Encryptor,
		uid:           dep.UID,
		totp:          dep.Totp,
		qr:            dep.QR,
		clock:         dep.Clock,
		ins:           dep.Instrument,
		goroutine:     dep.Goroutine,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("twofa.usecase").Start(ctx, name)
}

// authenticated returns the request's session or an unauthorized error.
func (s *Usecase) authenticated(ctx context.Context) (session.Auth, error) {
	auth, ok := session.GetAuth(ctx)
	if !ok {
		return session.Auth{}, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	return auth, nil
}

// verified returns the request's fully verified session or an unauthorized
// error. Token operations must never run on a half-authenticated session.
func (s *Usecase) verified(ctx context.Context) (session.Auth, error) {
	auth, err := s.authenticated(ctx)
	if err != nil {
		return session.Auth{}, err
	}

	if !auth.Session.Stage.Verified() {
		return session.Auth{}, goerror.NewBusiness("Two-factor verification required", goerror.CodeUnauthorized)
	}

	return auth, nil
}
