package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/ioshacker22/2FA-authentication/internal/pkg/config"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/instrument"
	"github.com/ioshacker22/2FA-authentication/internal/pkg/validator"
)

type fakeSpeaker struct {
	texts []string
	err   error
}

func (f *fakeSpeaker) Speak(_ context.Context, text string) error {
	f.texts = append(f.texts, text)
	return f.err
}

func newSpeechFixture(t *testing.T, sp *fakeSpeaker) *Usecase {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("NewV10Validator() error = %v", err)
	}

	cfg, err := config.NewViperFromBytes("yaml", []byte(`{}`))
	if err != nil {
		t.Fatalf("NewViperFromBytes() error = %v", err)
	}
	t.Cleanup(func() { cfg.Close() })

	return New(Dependency{
		Speaker:    sp,
		Validator:  v,
		Config:     cfg,
		Instrument: instrument.NewNoop(),
	})
}

func TestConsumeCodeVerified(t *testing.T) {
	sp := &fakeSpeaker{}
	uc := newSpeechFixture(t, sp)

	err := uc.ConsumeCodeVerified(t.Context(), ConsumeCodeVerifiedInput{
		AccountID: 1,
		Username:  "alice",
		Code:      "123456",
	})
	if err != nil {
		t.Fatalf("ConsumeCodeVerified() error = %v", err)
	}

	if len(sp.texts) != 1 {
		t.Fatalf("Speak() calls = %d, want 1", len(sp.texts))
	}
	want := "Your verification code is 1, 2, 3, 4, 5, 6"
	if sp.texts[0] != want {
		t.Errorf("Speak() text = %q, want %q", sp.texts[0], want)
	}
}

func TestConsumeCodeVerified_InvalidPayloadDropped(t *testing.T) {
	sp := &fakeSpeaker{}
	uc := newSpeechFixture(t, sp)

	err := uc.ConsumeCodeVerified(t.Context(), ConsumeCodeVerifiedInput{
		AccountID: 1,
		Username:  "alice",
		Code:      "12",
	})
	if err != nil {
		t.Fatalf("ConsumeCodeVerified() error = %v", err)
	}
	if len(sp.texts) != 0 {
		t.Errorf("Speak() calls = %d, want 0", len(sp.texts))
	}
}

func TestConsumeCodeVerified_SpeakerFailureIsSwallowed(t *testing.T) {
	sp := &fakeSpeaker{err: errors.New("synth down")}
	uc := newSpeechFixture(t, sp)

	err := uc.ConsumeCodeVerified(t.Context(), ConsumeCodeVerifiedInput{
		AccountID: 1,
		Username:  "alice",
		Code:      "654321",
	})
	if err != nil {
		t.Errorf("ConsumeCodeVerified() error = %v, want nil", err)
	}
}
