package tts

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/ioshacker22/2FA-authentication/internal/pkg/instrument"
)

func TestNew_RequiresBaseURL(t *testing.T) {
	if _, err := New("", instrument.NewNoop()); err != ErrMissingBaseURL {
		t.Errorf("New() error = %v, want %v", err, ErrMissingBaseURL)
	}
}

func TestSpeak(t *testing.T) {
	var got speakRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/speak" {
			t.Errorf("path = %q, want /speak", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := New(srv.URL, instrument.NewNoop(), WithVoice("en-US"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := c.Speak(t.Context(), "Your verification code is 1, 2, 3"); err != nil {
		t.Fatalf("Speak() error = %v", err)
	}
	if got.Text != "Your verification code is 1, 2, 3" || got.Voice != "en-US" {
		t.Errorf("request = %+v", got)
	}
}

func TestSpeak_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := New(srv.URL, instrument.NewNoop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := c.Speak(t.Context(), "hello"); err != nil {
		t.Fatalf("Speak() error = %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestSpeak_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c, err := New(srv.URL, instrument.NewNoop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := c.Speak(t.Context(), "hello"); err == nil {
		t.Fatal("Speak() error = nil, want error")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}
