package inbound

import (
	"io"
	"net/http"

	"github.com/samber/lo"

	"github.com/ioshacker22/2FA-authentication/internal/pkg/goerror"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/router"
	"github.com/ioshacker22/2FA-authentication/internal/twofa/usecase"
)

const maxArchiveBytes = 1 << 20

// HTTPEndpoint exposes HTTP handlers for the two-factor companion workflows.
type HTTPEndpoint struct {
	uc uc
}

// Register creates an account and returns its enrollment material.
// @Summary Register account
// @Description Creates an account with a fresh primary secret. The secret, provisioning URI and QR code are returned once.
// @Tags TwoFA, Account
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration payload"
// @Success 200 {object} router.successResponse{data=RegisterResponse} "Enrollment material"
// @Failure 409 {object} router.errorResponse "Username already registered"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/twofa/register [post]
func (h *HTTPEndpoint) Register(r *router.Request) (any, error) {
	var req RegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Register(r.Context(), usecase.RegisterInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}

	return RegisterResponse{
		Secret:          resp.Secret,
		ProvisioningURI: resp.ProvisioningURI,
		QRCodePNG:       resp.QRCodePNG,
	}, nil
}

// Login verifies the password and opens a half-authenticated session.
// @Summary Authenticate with password
// @Description Validates credentials and opens a session at the password stage. The one-time code must be verified before protected resources open up.
// @Tags TwoFA, Authentication
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login payload"
// @Success 200 {object} router.successResponse{data=LoginResponse} "Session token and stage"
// @Failure 401 {object} router.errorResponse "Invalid credentials"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/twofa/login [post]
func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Login(r.Context(), usecase.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}

	return LoginResponse{
		SessionToken: resp.SessionToken,
		Stage:        string(resp.Stage),
	}, nil
}

// Verify checks a one-time code and promotes the session.
// @Summary Verify one-time code
// @Description Checks the code against the primary secret and promotes the session to fully verified.
// @Tags TwoFA, Authentication
// @Accept json
// @Produce json
// @Param request body VerifyRequest true "Verification payload"
// @Success 200 {object} router.successResponse{data=VerifyResponse} "New session stage"
// @Failure 401 {object} router.errorResponse "Invalid one-time code"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/twofa/verify [post]
func (h *HTTPEndpoint) Verify(r *router.Request) (any, error) {
	var req VerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Verify(r.Context(), usecase.VerifyInput{Code: req.Code})
	if err != nil {
		return nil, err
	}

	return VerifyResponse{Stage: string(resp.Stage)}, nil
}

// Logout destroys the current session.
// @Summary Log out
// @Description Deletes the server-side session. Works at any session stage.
// @Tags TwoFA, Authentication
// @Produce json
// @Success 200 {object} router.successResponse "Logout result"
// @Failure 401 {object} router.errorResponse "No session"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/twofa/logout [post]
func (h *HTTPEndpoint) Logout(r *router.Request) (any, error) {
	if err := h.uc.Logout(r.Context()); err != nil {
		return nil, err
	}

	return LogoutResponse{}, nil
}

// AddToken stores a service secret.
// @Summary Add service token
// @Description Stores a named base32 secret for a third-party service. A fresh secret is generated when none is supplied.
// @Tags TwoFA, Tokens
// @Accept json
// @Produce json
// @Param request body AddTokenRequest true "Token payload"
// @Success 200 {object} router.successResponse{data=AddTokenResponse} "Stored token"
// @Failure 401 {object} router.errorResponse "Session not fully verified"
// @Failure 409 {object} router.errorResponse "Service already registered"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/twofa/tokens [post]
func (h *HTTPEndpoint) AddToken(r *router.Request) (any, error) {
	var req AddTokenRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.AddToken(r.Context(), usecase.AddTokenInput{
		ServiceName: req.ServiceName,
		Secret:      req.Secret,
	})
	if err != nil {
		return nil, err
	}

	return AddTokenResponse{
		ID:          resp.ID,
		ServiceName: resp.ServiceName,
		Secret:      resp.Secret,
	}, nil
}

// ListTokens returns every stored service with its current code.
// @Summary List service tokens
// @Description Returns all stored services with the one-time code valid right now.
// @Tags TwoFA, Tokens
// @Produce json
// @Success 200 {object} router.successResponse{data=ListTokensResponse} "Stored tokens and codes"
// @Failure 401 {object} router.errorResponse "Session not fully verified"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/twofa/tokens [get]
func (h *HTTPEndpoint) ListTokens(r *router.Request) (any, error) {
	resp, err := h.uc.ListTokens(r.Context())
	if err != nil {
		return nil, err
	}

	tokens := lo.Map(resp.Tokens, func(token usecase.ServiceCode, _ int) TokenCode {
		return TokenCode{
			ID:          token.ID,
			ServiceName: token.ServiceName,
			Code:        token.Code,
		}
	})

	return ListTokensResponse{Tokens: tokens}, nil
}

// DeleteToken removes a stored service secret.
// @Summary Delete service token
// @Description Deletes a stored token. Tokens of other accounts are refused.
// @Tags TwoFA, Tokens
// @Produce json
// @Param id path int true "Token ID"
// @Success 204 "Deleted"
// @Failure 401 {object} router.errorResponse "Session not fully verified"
// @Failure 403 {object} router.errorResponse "Token belongs to another account"
// @Failure 404 {object} router.errorResponse "Token not found"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/twofa/tokens/{id} [delete]
func (h *HTTPEndpoint) DeleteToken(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, goerror.NewInvalidFormat("token id must be a number")
	}

	if err := h.uc.DeleteToken(r.Context(), usecase.DeleteTokenInput{ID: id}); err != nil {
		return nil, err
	}

	return nil, nil
}

// ImportTokens restores service secrets from an uploaded backup archive.
// @Summary Import token backup
// @Description Restores stored services from a backup file. The restore replaces existing tokens and rejects malformed archives without changing anything.
// @Tags TwoFA, Tokens
// @Accept mpfd
// @Produce json
// @Param file formData file true "Backup archive"
// @Success 200 {object} router.successResponse{data=ImportTokensResponse} "Import result"
// @Failure 400 {object} router.errorResponse "Malformed archive"
// @Failure 401 {object} router.errorResponse "Session not fully verified"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/twofa/tokens/import [post]
func (h *HTTPEndpoint) ImportTokens(r *router.Request) (any, error) {
	file, err := r.StreamSingleFile("file")
	if err != nil {
		return nil, err
	}
	defer file.Close()

	archive, err := io.ReadAll(io.LimitReader(file, maxArchiveBytes))
	if err != nil {
		return nil, goerror.NewServer(err)
	}

	resp, err := h.uc.ImportTokens(r.Context(), usecase.ImportTokensInput{Archive: archive})
	if err != nil {
		return nil, err
	}

	return ImportTokensResponse{Imported: resp.Imported}, nil
}

// exportHandler writes the backup archive as a file download. The body is
// the exact archive bytes, not the JSON envelope, so a later import
// round-trips byte for byte.
func (h *HTTPEndpoint) exportHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.uc.ExportTokens(r.Context())
		if err != nil {
			router.WriteError(r.Context(), w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="twofa-backup.json"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(resp.Archive)
	})
}
