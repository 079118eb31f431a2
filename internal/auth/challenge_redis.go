package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const challengeKeyPrefix = "otp:v1:"

// consumeScript compares and deletes in one round trip so that only a single
// verification can consume a given challenge, across all server instances.
var consumeScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    redis.call("DEL", KEYS[1])
    return 1
end
return 0
`)

// RedisChallengeStore backs the challenge map with Redis for multi-instance
// deployments. With a zero TTL challenges persist until consumed or
// superseded, matching the in-memory store.
type RedisChallengeStore struct {
	client *redis.Client
	digits int
	ttl    time.Duration
}

// NewRedisChallengeStore builds a redis-backed challenge store.
func NewRedisChallengeStore(client *redis.Client, digits int, ttl time.Duration) *RedisChallengeStore {
	return &RedisChallengeStore{client: client, digits: digits, ttl: ttl}
}

// Issue generates a fresh code for the phone number, replacing any
// outstanding one.
func (s *RedisChallengeStore) Issue(ctx context.Context, phoneNumber string) (string, error) {
	code := GenerateCode(s.digits)
	if err := s.client.Set(ctx, challengeKeyPrefix+phoneNumber, code, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store challenge: %w", err)
	}
	return code, nil
}

// Verify consumes the stored challenge when the submitted code matches.
func (s *RedisChallengeStore) Verify(ctx context.Context, phoneNumber, code string) (bool, error) {
	n, err := consumeScript.Run(ctx, s.client, []string{challengeKeyPrefix + phoneNumber}, code).Int()
	if err != nil {
		return false, fmt.Errorf("consume challenge: %w", err)
	}
	return n == 1, nil
}
