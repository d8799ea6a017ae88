package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// TokenDenylist implements ports.TokenDenylist. Revoked JWT ids are kept
// until the token would have expired anyway.
type TokenDenylist struct {
	client goredis.UniversalClient
	prefix string
}

func NewTokenDenylist(client goredis.UniversalClient) *TokenDenylist {
	return &TokenDenylist{
		client: client,
		prefix: "revoked:",
	}
}

// Revoke marks tokenID as revoked for ttl. A non-positive ttl is a no-op.
func (d *TokenDenylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	err := d.client.SetArgs(ctx, d.prefix+tokenID, 1, goredis.SetArgs{
		Mode: "NX",
		TTL:  ttl,
	}).Err()
	if err != nil && err != goredis.Nil {
		return fmt.Errorf("redis revoke token: %w", err)
	}
	return nil
}

func (d *TokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.client.Exists(ctx, d.prefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("redis check revoked token: %w", err)
	}
	return n > 0, nil
}
