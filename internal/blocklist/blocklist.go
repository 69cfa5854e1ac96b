// Package blocklist records revoked token identifiers until their natural
// expiry. Entries live in a shared Redis instance so a revocation performed
// by one process is immediately visible to every other one.
package blocklist

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Blocklist is the revocation contract the verification pipeline depends on.
// Absence of an entry, including absence due to TTL expiry, means "not revoked".
type Blocklist interface {
	Revoke(ctx context.Context, tokenID string) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	Close() error
}

const keyPrefix = "token:blocklist:"

type RedisBlocklist struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to Redis at redisURL (e.g. redis://:pass@host:6379/0) and
// pings it so a bad address fails at startup rather than on first revocation.
func NewRedis(ctx context.Context, redisURL string, ttl time.Duration) (*RedisBlocklist, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisBlocklist{client: client, ttl: ttl}, nil
}

// Revoke inserts the token identifier with the configured TTL. The value is
// irrelevant; key existence alone is the signal. Revoking twice only refreshes
// the TTL, which never extends past the token's own lifetime in practice.
func (b *RedisBlocklist) Revoke(ctx context.Context, tokenID string) error {
	if err := b.client.Set(ctx, keyPrefix+tokenID, "", b.ttl).Err(); err != nil {
		return fmt.Errorf("revoke token %s: %w", tokenID, err)
	}
	return nil
}

func (b *RedisBlocklist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := b.client.Exists(ctx, keyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("check token %s: %w", tokenID, err)
	}
	return n > 0, nil
}

func (b *RedisBlocklist) Close() error {
	return b.client.Close()
}
