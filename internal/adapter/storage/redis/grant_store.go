package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// GrantStore implements ports.GrantStore using Redis SET NX, so a purchase
// transaction can be consumed for download at most once across instances.
type GrantStore struct {
	client *goredis.Client
	prefix string
}

// NewGrantStore creates a new Redis-backed download grant store.
func NewGrantStore(client *goredis.Client) *GrantStore {
	return &GrantStore{
		client: client,
		prefix: "dlgrant:",
	}
}

// Consume atomically marks the transaction id consumed. Returns true on the
// first call within ttl, false on every later call.
func (s *GrantStore) Consume(ctx context.Context, transactionID int64, ttl time.Duration) (bool, error) {
	key := s.prefix + strconv.FormatInt(transactionID, 10)
	result, err := s.client.SetArgs(ctx, key, 1, goredis.SetArgs{
		Mode: "NX",
		TTL:  ttl,
	}).Result()
	if err != nil {
		if err == goredis.Nil {
			// Key already exists, the grant was already spent
			return false, nil
		}
		return false, fmt.Errorf("redis grant consume: %w", err)
	}
	return result == "OK", nil
}
