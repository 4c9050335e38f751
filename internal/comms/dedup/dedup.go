// Package dedup provides idempotency keys for webhook delivery, backed
// by redis. Gateways redeliver webhooks on timeouts, so every payload
// carries a natural key that is claimed exactly once.
package dedup

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "webhook:dedup:"

type Deduper struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a deduper. TTL bounds how long a key blocks redelivery;
// 24h covers the retry windows of the gateways in use.
func New(client *redis.Client, ttl time.Duration) *Deduper {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Deduper{client: client, ttl: ttl}
}

// Claim reports whether this call is the first to see the key. A nil
// deduper claims everything, so webhook handling still works without
// redis at the cost of duplicate suppression.
func (d *Deduper) Claim(ctx context.Context, key string) (bool, error) {
	if d == nil || d.client == nil {
		return true, nil
	}
	return d.client.SetNX(ctx, keyPrefix+key, 1, d.ttl).Result()
}
