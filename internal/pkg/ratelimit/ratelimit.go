// Package ratelimit throttles repeated requests per key using Redis.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrLimited is returned when a key has exhausted its allowance for the
// current window.
var ErrLimited = errors.New("rate limit exceeded")

// Limiter decides whether a keyed request may proceed.
type Limiter interface {
	// Allow records one hit for key and returns ErrLimited when the key
	// is over its allowance.
	Allow(ctx context.Context, key string) error
}

// FixedWindow implements Limiter with a fixed time window counter in Redis.
//
// The first hit in a window creates the counter with the window TTL;
// subsequent hits increment it. The counter and its window expire together,
// so bursts reset cleanly.
type FixedWindow struct {
	client redis.Cmdable
	prefix string
	limit  int64
	window time.Duration
}

// NewFixedWindow creates a fixed-window limiter allowing limit hits per
// window for each key.
func NewFixedWindow(client redis.Cmdable, limit int64, window time.Duration) *FixedWindow {
	if limit < 1 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}

	return &FixedWindow{
		client: client,
		prefix: "ratelimit:",
		limit:  limit,
		window: window,
	}
}

// Allow records one hit for key and returns ErrLimited when over allowance.
func (f *FixedWindow) Allow(ctx context.Context, key string) error {
	fk := f.prefix + key

	// INCR and EXPIRE travel in one MULTI/EXEC so a counter can never be
	// created without a window. EXPIRE NX leaves an existing window alone,
	// and also heals any counter that somehow lost its TTL.
	var incr *redis.IntCmd
	_, err := f.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, fk)
		pipe.ExpireNX(ctx, fk, f.window)

		return nil
	})
	if err != nil {
		return fmt.Errorf("ratelimit: recording hit: %w", err)
	}

	if incr.Val() > f.limit {
		return ErrLimited
	}

	return nil
}

// Noop allows everything. Used when rate limiting is disabled.
type Noop struct{}

// Allow always succeeds.
func (Noop) Allow(context.Context, string) error {
	return nil
}
