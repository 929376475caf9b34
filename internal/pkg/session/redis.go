package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ioshacker22/2FA-authentication/internal/pkg/hash"
)

const keyPrefix = "session:"

// RedisStore keeps sessions in Redis with a TTL.
//
// Tokens are hashed with a keyed hash before being used as Redis keys, so a
// leaked Redis dump does not yield usable session tokens.
type RedisStore struct {
	client redis.Cmdable
	keyer  hash.Hash
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client redis.Cmdable, keyer hash.Hash, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, keyer: keyer, ttl: ttl}
}

func (s *RedisStore) key(token string) (string, error) {
	hashed, err := s.keyer.Hash(token)
	if err != nil {
		return "", fmt.Errorf("session: hashing token: %w", err)
	}

	return keyPrefix + hashed, nil
}

// Create stores a new session under the token with the configured TTL.
func (s *RedisStore) Create(ctx context.Context, token string, sess Session) error {
	key, err := s.key(token)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session: encoding session: %w", err)
	}

	if err := s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("session: storing session: %w", err)
	}

	return nil
}

// Get returns the session for the token, or ErrNotFound.
func (s *RedisStore) Get(ctx context.Context, token string) (Session, error) {
	key, err := s.key(token)
	if err != nil {
		return Session{}, err
	}

	payload, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("session: loading session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return Session{}, fmt.Errorf("session: decoding session: %w", err)
	}

	return sess, nil
}

// Update replaces the session for the token, keeping its remaining TTL.
func (s *RedisStore) Update(ctx context.Context, token string, sess Session) error {
	key, err := s.key(token)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session: encoding session: %w", err)
	}

	ok, err := s.client.SetXX(ctx, key, payload, redis.KeepTTL).Result()
	if err != nil {
		return fmt.Errorf("session: updating session: %w", err)
	}
	if !ok {
		return ErrNotFound
	}

	return nil
}

// Delete removes the session. Deleting a missing session is not an error.
func (s *RedisStore) Delete(ctx context.Context, token string) error {
	key, err := s.key(token)
	if err != nil {
		return err
	}

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("session: deleting session: %w", err)
	}

	return nil
}
