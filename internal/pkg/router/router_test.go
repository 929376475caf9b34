package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ioshacker22/2FA-authentication/internal/pkg/clock"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/goerror"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/instrument"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/session"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/uid"
)

func testRouter(t *testing.T) (*Router, *session.MemoryStore) {
	t.Helper()

	store := session.NewMemoryStore(clock.New(), time.Hour)
	ro := NewRouter(Config{
		UUID:       uid.NewUUID(),
		Sessions:   store,
		Instrument: instrument.NewNoop(),
	})

	return ro, store
}

func seedSession(t *testing.T, store *session.MemoryStore, stage session.Stage) string {
	t.Helper()

	token, err := session.NewToken()
	if err != nil {
		t.Fatalf("NewToken() error = %v", err)
	}
	err = store.Create(t.Context(), token, session.Session{
		AccountID: 1,
		Username:  "alice",
		Stage:     stage,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	return token
}

func TestRouter_PublicEndpoint(t *testing.T) {
	ro, _ := testRouter(t)
	ro.POST("/api/v1/twofa/login", func(r *Request) (any, error) {
		return map[string]string{"ok": "yes"}, nil
	})

	rec := httptest.NewRecorder()
	ro.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/twofa/login", strings.NewReader(`{}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Message string         `json:"message"`
		Data    map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid envelope: %v", err)
	}
	if body.Data["ok"] != "yes" {
		t.Errorf("data = %v", body.Data)
	}
}

func TestRouter_ProtectedWithoutSession(t *testing.T) {
	ro, _ := testRouter(t)
	ro.GET("/api/v1/twofa/tokens", func(r *Request) (any, error) {
		return nil, nil
	})

	rec := httptest.NewRecorder()
	ro.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/twofa/tokens", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRouter_ProtectedWithSession(t *testing.T) {
	ro, store := testRouter(t)
	ro.GET("/api/v1/twofa/tokens", func(r *Request) (any, error) {
		auth, ok := session.GetAuth(r.Context())
		if !ok {
			t.Error("expected session in context")
		}
		return map[string]string{"user": auth.Session.Username}, nil
	})

	token := seedSession(t, store, session.StageFullyVerified)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/twofa/tokens", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	ro.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_RequireVerified(t *testing.T) {
	ro, store := testRouter(t)
	ro.GET("/api/v1/twofa/tokens", func(r *Request) (any, error) {
		return map[string]string{}, nil
	}, RequireVerified)

	token := seedSession(t, store, session.StagePasswordOK)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/twofa/tokens", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})

	rec := httptest.NewRecorder()
	ro.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 for password_ok session", rec.Code)
	}
}

func TestRouter_ErrorEnvelope(t *testing.T) {
	ro, _ := testRouter(t)
	ro.POST("/api/v1/twofa/register", func(r *Request) (any, error) {
		return nil, goerror.NewBusiness("username already taken", goerror.CodeConflict)
	})

	rec := httptest.NewRecorder()
	ro.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/twofa/register", strings.NewReader(`{}`)))

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid envelope: %v", err)
	}
	if body.Message != "username already taken" {
		t.Errorf("message = %q", body.Message)
	}
}

func TestRouter_PanicRecovered(t *testing.T) {
	ro, _ := testRouter(t)
	ro.POST("/api/v1/twofa/register", func(r *Request) (any, error) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	ro.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/twofa/register", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestRequest_DecodeBody(t *testing.T) {
	in := struct {
		Username string `json:"username"`
	}{}

	req := &Request{Request: httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"alice"}`))}
	if err := req.DecodeBody(&in); err != nil {
		t.Fatalf("DecodeBody() error = %v", err)
	}
	if in.Username != "alice" {
		t.Errorf("Username = %q", in.Username)
	}

	req = &Request{Request: httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"unknown":1}`))}
	if err := req.DecodeBody(&in); err == nil {
		t.Error("DecodeBody() error = nil for unknown field")
	}
}
