// Package tts sends text to an external speech synthesis service.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/otel/codes"

	"github.com/ioshacker22/2FA-authentication/internal/pkg/instrument"
)

// ErrMissingBaseURL is returned when no synthesizer endpoint is configured.
var ErrMissingBaseURL = errors.New("tts base url is required")

type speakRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice,omitempty"`
}

// Client speaks text through an HTTP speech synthesis service.
type Client struct {
	baseURL string
	voice   string
	http    *http.Client
	ins     instrument.Instrumentation
}

type Option func(*Client)

// WithVoice selects the synthesizer voice.
func WithVoice(voice string) Option {
	return func(c *Client) { c.voice = voice }
}

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, ins instrument.Instrumentation, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, ErrMissingBaseURL
	}

	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		ins:     ins,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Speak submits text for synthesis. Transient failures are retried with
// backoff; the synthesizer plays the audio on its own output, so the
// response body is discarded.
func (c *Client) Speak(ctx context.Context, text string) (err error) {
	ctx, span := c.ins.Tracer("speech.outbound.tts").Start(ctx, "Speak")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	body, err := json.Marshal(speakRequest{Text: text, Voice: c.voice})
	if err != nil {
		return err
	}

	backoff := retry.WithMaxRetries(3, retry.NewExponential(200*time.Millisecond))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/speak", bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer func() {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
		}()

		if resp.StatusCode >= http.StatusInternalServerError {
			return retry.RetryableError(fmt.Errorf("tts responded %d", resp.StatusCode))
		}
		if resp.StatusCode >= http.StatusBadRequest {
			return fmt.Errorf("tts responded %d", resp.StatusCode)
		}

		return nil
	})
}
