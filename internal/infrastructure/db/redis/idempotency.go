package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultIdempotencyTTL = 24 * time.Hour

// claimAttempts bounds the SETNX/GET loop when the bound key expires in between.
const claimAttempts = 3

// releaseScript deletes the key only while it still holds the caller's product id.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// IdempotencyStore maps Idempotency-Key headers to the product they created.
// Key format: idempotency:product:<key>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore uses defaultIdempotencyTTL when ttl is not positive.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Claim binds key to productID with SETNX. When the key is already bound the
// existing id is returned with claimed=false.
func (s *IdempotencyStore) Claim(ctx context.Context, key, productID string) (string, bool, error) {
	k := s.key(key)
	for range claimAttempts {
		ok, err := s.client.SetNX(ctx, k, productID, s.ttl).Result()
		if err != nil {
			return "", false, fmt.Errorf("idempotency claim: %w", err)
		}
		if ok {
			return productID, true, nil
		}

		bound, err := s.client.Get(ctx, k).Result()
		if errors.Is(err, redis.Nil) {
			// expired between SETNX and GET
			continue
		}
		if err != nil {
			return "", false, fmt.Errorf("idempotency claim: %w", err)
		}
		return bound, false, nil
	}
	return "", false, fmt.Errorf("idempotency claim: key %q kept expiring", key)
}

// Release removes the binding if it still points at productID.
func (s *IdempotencyStore) Release(ctx context.Context, key, productID string) error {
	if err := releaseScript.Run(ctx, s.client, []string{s.key(key)}, productID).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(key string) string {
	return "idempotency:product:" + key
}
