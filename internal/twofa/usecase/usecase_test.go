package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	potp "github.com/pquerna/otp"

	"github.com/ioshacker22/2FA-authentication/internal/pkg/backup"
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
	"github.com/ioshacker22/2FA-authentication/internal/pkg/validator"
	"github.com/ioshacker22/2FA-authentication/internal/twofa/entity"
)

type fakeDB struct {
	mu       sync.Mutex
	accounts map[int64]*entity.AccountCredentials
	tokens   map[int64]entity.ServiceToken
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		accounts: map[int64]*entity.AccountCredentials{},
		tokens:   map[int64]entity.ServiceToken{},
	}
}

func (f *fakeDB) GetAccountByUsername(_ context.Context, username string) (*entity.AccountCredentials, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, acc := range f.accounts {
		if acc.Username == username {
			cp := *acc
			return &cp, nil
		}
	}

	return nil, goerror.ErrNotFound
}

func (f *fakeDB) GetAccountByID(_ context.Context, id int64) (*entity.AccountCredentials, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	acc, ok := f.accounts[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	cp := *acc

	return &cp, nil
}

func (f *fakeDB) CreateAccount(_ context.Context, account entity.NewAccount) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, acc := range f.accounts {
		if acc.Username == account.Username {
			return goerror.ErrConflict
		}
	}

	f.accounts[account.ID] = &entity.AccountCredentials{
		ID:         account.ID,
		Username:   account.Username,
		Password:   account.Password,
		Secret:     account.Secret,
		KeyVersion: account.KeyVersion,
		CreatedAt:  time.Now(),
	}

	return nil
}

func (f *fakeDB) GetServiceTokens(_ context.Context, accountID int64) ([]entity.ServiceToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []entity.ServiceToken
	for _, token := range f.tokens {
		if token.AccountID == accountID {
			out = append(out, token)
		}
	}

	return out, nil
}

func (f *fakeDB) GetServiceTokenByID(_ context.Context, id int64) (*entity.ServiceToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	token, ok := f.tokens[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	return &token, nil
}

func (f *fakeDB) CreateServiceToken(_ context.Context, token entity.ServiceToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.tokens {
		if existing.AccountID == token.AccountID && existing.ServiceName == token.ServiceName {
			return goerror.ErrConflict
		}
	}

	f.tokens[token.ID] = token

	return nil
}

func (f *fakeDB) DeleteServiceToken(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.tokens, id)

	return nil
}

func (f *fakeDB) ReplaceServiceTokens(_ context.Context, accountID int64, tokens []entity.ServiceToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for id, token := range f.tokens {
		if token.AccountID == accountID {
			delete(f.tokens, id)
		}
	}

	for _, token := range tokens {
		f.tokens[token.ID] = token
	}

	return nil
}

type fakeMessaging struct {
	mu     sync.Mutex
	events []CodeVerifiedEvent
}

func (f *fakeMessaging) PublishCodeVerified(_ context.Context, msg CodeVerifiedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.events = append(f.events, msg)

	return nil
}

func (f *fakeMessaging) published() []CodeVerifiedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]CodeVerifiedEvent(nil), f.events...)
}

type seqID struct {
	mu   sync.Mutex
	next int64
}

func (s *seqID) Generate() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++

	return s.next
}

type fixture struct {
	uc        *Usecase
	dep       Dependency
	db        *fakeDB
	mq        *fakeMessaging
	sessions  session.Store
	totp      otp.OTP
	clk       *clock.Fixed
	goroutine *goroutine.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("NewV10Validator() error = %v", err)
	}

	cfg, err := config.NewViperFromBytes("yaml", []byte(`
modules:
  twofa:
    session_ttl_minutes: 30
    encryption_key_version: 1
`))
	if err != nil {
		t.Fatalf("NewViperFromBytes() error = %v", err)
	}
	t.Cleanup(func() { cfg.Close() })

	clk := &clock.Fixed{At: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	db := newFakeDB()
	mq := &fakeMessaging{}
	sessions := session.NewMemoryStore(clk, 30*time.Minute)
	totp := otp.NewTOTP("TwoFA", 30, 1, potp.DigitsSix)
	gm := goroutine.NewManager(4)

	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}

	dep := Dependency{
		RepoDB:        db,
		RepoMessaging: mq,
		Sessions:      sessions,
		Validator:     v,
		Config:        cfg,
		Bcrypt:        hash.NewBcrypt(hash.WithCost(4)),
		Encryptor:     secrets.NewAESGCM(secrets.StaticKeyProvider{KeyBytes: key}),
		UID:           &seqID{},
		Totp:          totp,
		QR:            qr.NewEncoder(128),
		Clock:         clk,
		Instrument:    instrument.NewNoop(),
		Goroutine:     gm,
	}

	return &fixture{uc: New(dep), dep: dep, db: db, mq: mq, sessions: sessions, totp: totp, clk: clk, goroutine: gm}
}

// loginVerified registers an account, logs in, passes the code check and
// returns a context carrying the fully verified session.
func (f *fixture) loginVerified(t *testing.T, username, password string) context.Context {
	t.Helper()

	ctx := t.Context()
	reg, err := f.uc.Register(ctx, RegisterInput{Username: username, Password: password})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	out, err := f.uc.Login(ctx, LoginInput{Username: username, Password: password})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	sess, err := f.sessions.Get(ctx, out.SessionToken)
	if err != nil {
		t.Fatalf("sessions.Get() error = %v", err)
	}
	ctx = session.SetAuth(ctx, session.Auth{Token: out.SessionToken, Session: sess})

	code, err := f.totp.GenerateCode(reg.Secret, f.clk.Now())
	if err != nil {
		t.Fatalf("GenerateCode() error = %v", err)
	}

	vOut, err := f.uc.Verify(ctx, VerifyInput{Code: code})
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if vOut.Stage != session.StageFullyVerified {
		t.Fatalf("Verify() stage = %q, want %q", vOut.Stage, session.StageFullyVerified)
	}

	sess, err = f.sessions.Get(ctx, out.SessionToken)
	if err != nil {
		t.Fatalf("sessions.Get() after verify error = %v", err)
	}

	return session.SetAuth(t.Context(), session.Auth{Token: out.SessionToken, Session: sess})
}

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	out, err := f.uc.Register(ctx, RegisterInput{Username: "Alice1", Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if out.Secret == "" || out.ProvisioningURI == "" || out.QRCodePNG == "" {
		t.Errorf("Register() output incomplete: %+v", out)
	}

	_, err = f.uc.Register(ctx, RegisterInput{Username: "Alice1", Password: "hunter2hunter2"})
	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeConflict {
		t.Errorf("Register() duplicate error = %v, want conflict", err)
	}
}

func TestRegister_CaseSensitiveUsernames(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	// Usernames match exactly; a case variant is a different account.
	if _, err := f.uc.Register(ctx, RegisterInput{Username: "Alice1", Password: "hunter2hunter2"}); err != nil {
		t.Fatalf("Register(Alice1) error = %v", err)
	}
	if _, err := f.uc.Register(ctx, RegisterInput{Username: "alice1", Password: "letmein-letmein"}); err != nil {
		t.Fatalf("Register(alice1) error = %v", err)
	}

	out, err := f.uc.Login(ctx, LoginInput{Username: "alice1", Password: "letmein-letmein"})
	if err != nil {
		t.Fatalf("Login(alice1) error = %v", err)
	}

	sess, err := f.sessions.Get(ctx, out.SessionToken)
	if err != nil {
		t.Fatalf("sessions.Get() error = %v", err)
	}
	if sess.Username != "alice1" {
		t.Errorf("session username = %q, want %q", sess.Username, "alice1")
	}

	// Each must carry its own password.
	var gerr *goerror.Error
	_, err = f.uc.Login(ctx, LoginInput{Username: "Alice1", Password: "letmein-letmein"})
	if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeUnauthorized {
		t.Errorf("Login(Alice1) with alice1's password error = %v, want unauthorized", err)
	}
}

type failingQR struct{}

func (failingQR) PNG(string) ([]byte, error)       { return nil, errors.New("render failed") }
func (failingQR) Base64PNG(string) (string, error) { return "", errors.New("render failed") }

func TestRegister_QRFailureLeavesUsernameFree(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	dep := f.dep
	dep.QR = failingQR{}
	broken := New(dep)

	if _, err := broken.Register(ctx, RegisterInput{Username: "quentin", Password: "hunter2hunter2"}); err == nil {
		t.Fatal("Register() error = nil with failing QR renderer")
	}

	// The failed registration must not claim the username.
	if _, err := f.uc.Register(ctx, RegisterInput{Username: "quentin", Password: "hunter2hunter2"}); err != nil {
		t.Errorf("Register() retry error = %v", err)
	}
}

func TestRegister_WeakPassword(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Register(t.Context(), RegisterInput{Username: "bob", Password: "short"})
	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeInvalidInput {
		t.Errorf("Register() error = %v, want invalid input", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	if _, err := f.uc.Register(ctx, RegisterInput{Username: "carol", Password: "hunter2hunter2"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, err := f.uc.Login(ctx, LoginInput{Username: "carol", Password: "wrong-password"})
	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeUnauthorized {
		t.Errorf("Login() error = %v, want unauthorized", err)
	}

	_, err = f.uc.Login(ctx, LoginInput{Username: "nobody", Password: "whatever-pass"})
	if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeUnauthorized {
		t.Errorf("Login() unknown user error = %v, want unauthorized", err)
	}
}

func TestLogin_OpensPasswordStageSession(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	if _, err := f.uc.Register(ctx, RegisterInput{Username: "dave", Password: "hunter2hunter2"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	out, err := f.uc.Login(ctx, LoginInput{Username: "dave", Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if out.Stage != session.StagePasswordOK {
		t.Errorf("Login() stage = %q, want %q", out.Stage, session.StagePasswordOK)
	}

	sess, err := f.sessions.Get(ctx, out.SessionToken)
	if err != nil {
		t.Fatalf("sessions.Get() error = %v", err)
	}

	// A half-authenticated session must not reach token operations.
	authCtx := session.SetAuth(ctx, session.Auth{Token: out.SessionToken, Session: sess})
	_, err = f.uc.ListTokens(authCtx)
	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeUnauthorized {
		t.Errorf("ListTokens() before verify error = %v, want unauthorized", err)
	}
}

func TestVerify_WrongCode(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	if _, err := f.uc.Register(ctx, RegisterInput{Username: "erin", Password: "hunter2hunter2"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	out, err := f.uc.Login(ctx, LoginInput{Username: "erin", Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	sess, _ := f.sessions.Get(ctx, out.SessionToken)
	authCtx := session.SetAuth(ctx, session.Auth{Token: out.SessionToken, Session: sess})

	_, err = f.uc.Verify(authCtx, VerifyInput{Code: "000000"})
	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeUnauthorized {
		t.Errorf("Verify() error = %v, want unauthorized", err)
	}

	sess, _ = f.sessions.Get(ctx, out.SessionToken)
	if sess.Stage != session.StagePasswordOK {
		t.Errorf("session stage after failed verify = %q, want %q", sess.Stage, session.StagePasswordOK)
	}
}

func TestVerify_MalformedCode(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	if _, err := f.uc.Register(ctx, RegisterInput{Username: "fiona", Password: "hunter2hunter2"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	out, err := f.uc.Login(ctx, LoginInput{Username: "fiona", Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	sess, _ := f.sessions.Get(ctx, out.SessionToken)
	authCtx := session.SetAuth(ctx, session.Auth{Token: out.SessionToken, Session: sess})

	// Wrong-length and non-numeric codes fail the same way a wrong code
	// does; the failure mode reveals nothing about the code's shape.
	for _, code := range []string{"12345", "1234567", "abc123", ""} {
		_, err := f.uc.Verify(authCtx, VerifyInput{Code: code})
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeUnauthorized {
			t.Errorf("Verify(%q) error = %v, want unauthorized", code, err)
		}
	}

	sess, _ = f.sessions.Get(ctx, out.SessionToken)
	if sess.Stage != session.StagePasswordOK {
		t.Errorf("session stage after malformed codes = %q, want %q", sess.Stage, session.StagePasswordOK)
	}
}

func TestVerify_PublishesCode(t *testing.T) {
	f := newFixture(t)

	f.loginVerified(t, "frank", "hunter2hunter2")

	if err := f.goroutine.Wait(); err != nil {
		t.Fatalf("goroutine.Wait() error = %v", err)
	}

	events := f.mq.published()
	if len(events) != 1 {
		t.Fatalf("published events = %d, want 1", len(events))
	}
	if events[0].Username != "frank" || len(events[0].Code) != 6 {
		t.Errorf("published event = %+v", events[0])
	}
}

func TestVerify_SkewedCode(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	reg, err := f.uc.Register(ctx, RegisterInput{Username: "grace", Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	out, err := f.uc.Login(ctx, LoginInput{Username: "grace", Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	sess, _ := f.sessions.Get(ctx, out.SessionToken)
	authCtx := session.SetAuth(ctx, session.Auth{Token: out.SessionToken, Session: sess})

	// Code from the previous 30-second step is still accepted.
	code, err := f.totp.GenerateCode(reg.Secret, f.clk.Now().Add(-30*time.Second))
	if err != nil {
		t.Fatalf("GenerateCode() error = %v", err)
	}
	if _, err := f.uc.Verify(authCtx, VerifyInput{Code: code}); err != nil {
		t.Errorf("Verify() skewed code error = %v", err)
	}
}

func TestLogout(t *testing.T) {
	f := newFixture(t)

	ctx := f.loginVerified(t, "heidi", "hunter2hunter2")
	if err := f.uc.Logout(ctx); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}

	auth, _ := session.GetAuth(ctx)
	if _, err := f.sessions.Get(t.Context(), auth.Token); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("sessions.Get() after logout error = %v, want %v", err, session.ErrNotFound)
	}
}

func TestTokenLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := f.loginVerified(t, "ivan", "hunter2hunter2")

	added, err := f.uc.AddToken(ctx, AddTokenInput{ServiceName: "github", Secret: "jbswy3dpehpk3pxp"})
	if err != nil {
		t.Fatalf("AddToken() error = %v", err)
	}

	list, err := f.uc.ListTokens(ctx)
	if err != nil {
		t.Fatalf("ListTokens() error = %v", err)
	}
	if len(list.Tokens) != 1 {
		t.Fatalf("ListTokens() = %d tokens, want 1", len(list.Tokens))
	}
	if list.Tokens[0].ServiceName != "github" || len(list.Tokens[0].Code) != 6 {
		t.Errorf("ListTokens()[0] = %+v", list.Tokens[0])
	}

	want, err := f.totp.GenerateCode("JBSWY3DPEHPK3PXP", f.clk.Now())
	if err != nil {
		t.Fatalf("GenerateCode() error = %v", err)
	}
	if list.Tokens[0].Code != want {
		t.Errorf("ListTokens() code = %q, want %q", list.Tokens[0].Code, want)
	}

	if err := f.uc.DeleteToken(ctx, DeleteTokenInput{ID: added.ID}); err != nil {
		t.Fatalf("DeleteToken() error = %v", err)
	}

	list, err = f.uc.ListTokens(ctx)
	if err != nil {
		t.Fatalf("ListTokens() error = %v", err)
	}
	if len(list.Tokens) != 0 {
		t.Errorf("ListTokens() after delete = %d tokens, want 0", len(list.Tokens))
	}
}

func TestAddToken_GeneratedSecret(t *testing.T) {
	f := newFixture(t)
	ctx := f.loginVerified(t, "nancy", "hunter2hunter2")

	added, err := f.uc.AddToken(ctx, AddTokenInput{ServiceName: "dropbox"})
	if err != nil {
		t.Fatalf("AddToken() error = %v", err)
	}
	if added.Secret == "" {
		t.Fatal("AddToken() generated secret is empty")
	}

	// The stored secret must produce the same code the caller can compute
	// from the returned value.
	want, err := f.totp.GenerateCode(added.Secret, f.clk.Now())
	if err != nil {
		t.Fatalf("GenerateCode() error = %v", err)
	}

	list, err := f.uc.ListTokens(ctx)
	if err != nil {
		t.Fatalf("ListTokens() error = %v", err)
	}
	if len(list.Tokens) != 1 || list.Tokens[0].Code != want {
		t.Errorf("ListTokens() = %+v, want code %q", list.Tokens, want)
	}
}

func TestAddToken_DuplicateService(t *testing.T) {
	f := newFixture(t)
	ctx := f.loginVerified(t, "judy", "hunter2hunter2")

	if _, err := f.uc.AddToken(ctx, AddTokenInput{ServiceName: "aws", Secret: "JBSWY3DPEHPK3PXP"}); err != nil {
		t.Fatalf("AddToken() error = %v", err)
	}

	_, err := f.uc.AddToken(ctx, AddTokenInput{ServiceName: "aws", Secret: "GEZDGNBVGY3TQOJQ"})
	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeConflict {
		t.Errorf("AddToken() duplicate error = %v, want conflict", err)
	}
}

func TestAddToken_InvalidSecret(t *testing.T) {
	f := newFixture(t)
	ctx := f.loginVerified(t, "kyle", "hunter2hunter2")

	_, err := f.uc.AddToken(ctx, AddTokenInput{ServiceName: "gitlab", Secret: "not!base32"})
	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeInvalidInput {
		t.Errorf("AddToken() error = %v, want invalid input", err)
	}
}

func TestDeleteToken_NotOwner(t *testing.T) {
	f := newFixture(t)

	ownerCtx := f.loginVerified(t, "mallory", "hunter2hunter2")
	added, err := f.uc.AddToken(ownerCtx, AddTokenInput{ServiceName: "github", Secret: "JBSWY3DPEHPK3PXP"})
	if err != nil {
		t.Fatalf("AddToken() error = %v", err)
	}

	otherCtx := f.loginVerified(t, "oscar", "hunter2hunter2")
	err = f.uc.DeleteToken(otherCtx, DeleteTokenInput{ID: added.ID})
	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeForbidden {
		t.Errorf("DeleteToken() error = %v, want forbidden", err)
	}

	// The token must survive the refused delete.
	if _, err := f.db.GetServiceTokenByID(t.Context(), added.ID); err != nil {
		t.Errorf("token missing after refused delete: %v", err)
	}
}

func TestDeleteToken_NotFound(t *testing.T) {
	f := newFixture(t)
	ctx := f.loginVerified(t, "peggy", "hunter2hunter2")

	err := f.uc.DeleteToken(ctx, DeleteTokenInput{ID: 99999})
	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeNotFound {
		t.Errorf("DeleteToken() error = %v, want not found", err)
	}
}

func TestExportImport_RoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := f.loginVerified(t, "trent", "hunter2hunter2")

	seed := []AddTokenInput{
		{ServiceName: "github", Secret: "JBSWY3DPEHPK3PXP"},
		{ServiceName: "aws", Secret: "GEZDGNBVGY3TQOJQ"},
	}
	for _, in := range seed {
		if _, err := f.uc.AddToken(ctx, in); err != nil {
			t.Fatalf("AddToken(%q) error = %v", in.ServiceName, err)
		}
	}

	exported, err := f.uc.ExportTokens(ctx)
	if err != nil {
		t.Fatalf("ExportTokens() error = %v", err)
	}

	entries, err := backup.Decode(exported.Archive)
	if err != nil {
		t.Fatalf("backup.Decode() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("exported entries = %d, want 2", len(entries))
	}

	imported, err := f.uc.ImportTokens(ctx, ImportTokensInput{Archive: exported.Archive})
	if err != nil {
		t.Fatalf("ImportTokens() error = %v", err)
	}
	if imported.Imported != 2 {
		t.Errorf("ImportTokens() imported = %d, want 2", imported.Imported)
	}

	// Export of the restored state is byte-identical modulo entry order,
	// which the replace keeps stable through the archive.
	again, err := f.uc.ExportTokens(ctx)
	if err != nil {
		t.Fatalf("ExportTokens() after import error = %v", err)
	}
	reEntries, err := backup.Decode(again.Archive)
	if err != nil {
		t.Fatalf("backup.Decode() after import error = %v", err)
	}
	if len(reEntries) != 2 {
		t.Errorf("re-exported entries = %d, want 2", len(reEntries))
	}
}

func TestImportTokens_Malformed(t *testing.T) {
	f := newFixture(t)
	ctx := f.loginVerified(t, "victor", "hunter2hunter2")

	if _, err := f.uc.AddToken(ctx, AddTokenInput{ServiceName: "keep", Secret: "JBSWY3DPEHPK3PXP"}); err != nil {
		t.Fatalf("AddToken() error = %v", err)
	}

	cases := []string{
		`not json`,
		`{"tokens":[{"service":"x"}]}`,
		`{"tokens":[{"service":"x","secret":"JBSWY3DPEHPK3PXP","extra":1}]}`,
		`{"tokens":[{"service":"x","secret":"not!base32"}]}`,
		`{"tokens":[{"service":"","secret":"JBSWY3DPEHPK3PXP"}]}`,
		`{"tokens":[{"service":"x","secret":"JBSWY3DPEHPK3PXP"},{"service":"x","secret":"GEZDGNBVGY3TQOJQ"}]}`,
	}
	for _, raw := range cases {
		_, err := f.uc.ImportTokens(ctx, ImportTokensInput{Archive: []byte(raw)})
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeInvalidFormat {
			t.Errorf("ImportTokens(%s) error = %v, want invalid format", raw, err)
		}
	}

	// A rejected archive must leave stored tokens untouched.
	list, err := f.uc.ListTokens(ctx)
	if err != nil {
		t.Fatalf("ListTokens() error = %v", err)
	}
	if len(list.Tokens) != 1 || list.Tokens[0].ServiceName != "keep" {
		t.Errorf("ListTokens() after bad import = %+v", list.Tokens)
	}
}

func TestOperations_RequireSession(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	checks := map[string]func() error{
		"Verify": func() error {
			_, err := f.uc.Verify(ctx, VerifyInput{Code: "123456"})
			return err
		},
		"Logout": func() error { return f.uc.Logout(ctx) },
		"AddToken": func() error {
			_, err := f.uc.AddToken(ctx, AddTokenInput{ServiceName: "x", Secret: "JBSWY3DPEHPK3PXP"})
			return err
		},
		"ListTokens": func() error {
			_, err := f.uc.ListTokens(ctx)
			return err
		},
		"DeleteToken": func() error { return f.uc.DeleteToken(ctx, DeleteTokenInput{ID: 1}) },
		"ExportTokens": func() error {
			_, err := f.uc.ExportTokens(ctx)
			return err
		},
		"ImportTokens": func() error {
			_, err := f.uc.ImportTokens(ctx, ImportTokensInput{Archive: []byte(`{"tokens":[]}`)})
			return err
		},
	}

	for name, fn := range checks {
		err := fn()
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeUnauthorized {
			t.Errorf("%s without session error = %v, want unauthorized", name, err)
		}
	}
}
