package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ResetCodeStore implements ports.ResetCodeStore backed by Redis. Expiry is
// delegated to the key TTL, so an expired code simply reads as absent.
type ResetCodeStore struct {
	client *goredis.Client
	prefix string
}

// NewResetCodeStore creates a new Redis-backed reset code store.
func NewResetCodeStore(client *goredis.Client) *ResetCodeStore {
	return &ResetCodeStore{
		client: client,
		prefix: "pwreset:",
	}
}

// Set stores the reset payload for the phone number, replacing any pending one.
func (s *ResetCodeStore) Set(ctx context.Context, phone string, payload []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.prefix+phone, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis reset code set: %w", err)
	}
	return nil
}

// Get returns nil, nil when no code is pending for the phone number.
func (s *ResetCodeStore) Get(ctx context.Context, phone string) ([]byte, error) {
	payload, err := s.client.Get(ctx, s.prefix+phone).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis reset code get: %w", err)
	}
	return payload, nil
}

// Delete removes a pending code after a successful reset.
func (s *ResetCodeStore) Delete(ctx context.Context, phone string) error {
	if err := s.client.Del(ctx, s.prefix+phone).Err(); err != nil {
		return fmt.Errorf("redis reset code delete: %w", err)
	}
	return nil
}
