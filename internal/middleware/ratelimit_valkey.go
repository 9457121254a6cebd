// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// rateLimitKeyPrefix is the Valkey key prefix for request counters.
const rateLimitKeyPrefix = "ratelimit:"

// ValkeyRateLimiter counts requests per client in fixed windows stored in
// Valkey, so the budget is shared by every server instance.
type ValkeyRateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	now    func() time.Time
}

var _ Limiter = (*ValkeyRateLimiter)(nil)

// NewValkeyRateLimiter creates a limiter allowing limit requests per window.
func NewValkeyRateLimiter(client *redis.Client, limit int, window time.Duration) *ValkeyRateLimiter {
	return &ValkeyRateLimiter{client: client, limit: limit, window: window, now: time.Now}
}

// Allow increments the client's counter for the current window. Requests
// are allowed when Valkey cannot be reached.
func (l *ValkeyRateLimiter) Allow(ctx context.Context, key string) bool {
	k := l.windowKey(key)

	pipe := l.client.TxPipeline()
	count := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		slog.Warn("rate limit check failed", "key", key, "error", err)
		return true
	}
	return count.Val() <= int64(l.limit)
}

// windowKey names the counter for key in the current window.
func (l *ValkeyRateLimiter) windowKey(key string) string {
	slot := l.now().UnixNano() / int64(l.window)
	return rateLimitKeyPrefix + key + ":" + strconv.FormatInt(slot, 10)
}
