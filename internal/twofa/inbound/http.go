package inbound

import (
	"context"

	"github.com/ioshacker22/2FA-authentication/internal/pkg/ratelimit"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/router"
	"github.com/ioshacker22/2FA-authentication/internal/twofa/usecase"
)

type uc interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*usecase.RegisterOutput, error)
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error)
	Verify(ctx context.Context, in usecase.VerifyInput) (*usecase.VerifyOutput, error)
	Logout(ctx context.Context) error

	AddToken(ctx context.Context, in usecase.AddTokenInput) (*usecase.AddTokenOutput, error)
	ListTokens(ctx context.Context) (*usecase.ListTokensOutput, error)
	DeleteToken(ctx context.Context, in usecase.DeleteTokenInput) error
	ExportTokens(ctx context.Context) (*usecase.ExportTokensOutput, error)
	ImportTokens(ctx context.Context, in usecase.ImportTokensInput) (*usecase.ImportTokensOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc, limiter ratelimit.Limiter) {
	end := &HTTPEndpoint{uc: uc}
	limited := router.RateLimit(limiter)

	// Account & session gate
	r.POST("/api/v1/twofa/register", end.Register, limited)
	r.POST("/api/v1/twofa/login", end.Login, limited)
	r.POST("/api/v1/twofa/verify", end.Verify, limited)
	r.POST("/api/v1/twofa/logout", end.Logout)

	// Stored service tokens (need fully verified session)
	r.GET("/api/v1/twofa/tokens", end.ListTokens, router.RequireVerified)
	r.POST("/api/v1/twofa/tokens", end.AddToken, router.RequireVerified)
	r.DELETE("/api/v1/twofa/tokens/:id", end.DeleteToken, router.RequireVerified)
	r.GETRaw("/api/v1/twofa/tokens/export", end.exportHandler(), router.RequireVerified)
	r.POST("/api/v1/twofa/tokens/import", end.ImportTokens, router.RequireVerified)
}
