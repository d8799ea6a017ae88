package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// PersonCache implements ports.PersonCache, mapping a platform person id
// to the person's primary email.
type PersonCache struct {
	client goredis.UniversalClient
	prefix string
}

func NewPersonCache(client goredis.UniversalClient) *PersonCache {
	return &PersonCache{
		client: client,
		prefix: "person:email:",
	}
}

// Get returns "" and no error on a miss.
func (c *PersonCache) Get(ctx context.Context, personID string) (string, error) {
	val, err := c.client.Get(ctx, c.prefix+personID).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("redis person cache get: %w", err)
	}
	return val, nil
}

func (c *PersonCache) Set(ctx context.Context, personID string, email string, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+personID, email, ttl).Err(); err != nil {
		return fmt.Errorf("redis person cache set: %w", err)
	}
	return nil
}
