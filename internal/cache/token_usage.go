package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenUsage tracks vendor API token spend inside a fixed minute
// window so workers can throttle before the provider does.
type TokenUsage struct {
	Provider string
	Used     int64
	Limit    int
}

// Remaining reports how many tokens are left in the current window.
func (u TokenUsage) Remaining() int64 {
	left := int64(u.Limit) - u.Used
	if left < 0 {
		return 0
	}
	return left
}

func tokenKey(provider string, now time.Time) string {
	return fmt.Sprintf("tokens:%s:%s", provider, now.UTC().Format("200601021504"))
}

// ConsumeTokens records n tokens against the provider's current minute
// window. Returns the usage after the increment. With caching disabled
// the counter is a no-op and reports zero usage.
func ConsumeTokens(ctx context.Context, provider string, n int, limit int) (TokenUsage, error) {
	usage := TokenUsage{Provider: provider, Limit: limit}
	if !Enabled() || n <= 0 {
		return usage, nil
	}
	key := buildKey(tokenKey(provider, time.Now()))
	used, err := redisClient.IncrBy(ctx, key, int64(n)).Result()
	if err != nil {
		return usage, err
	}
	// Two windows of slack so a straddling read still sees the count.
	redisClient.Expire(ctx, key, 2*time.Minute)
	usage.Used = used
	return usage, nil
}

// TokensUsed reads the provider's spend in the current minute window.
func TokensUsed(ctx context.Context, provider string, limit int) (TokenUsage, error) {
	usage := TokenUsage{Provider: provider, Limit: limit}
	if !Enabled() {
		return usage, nil
	}
	key := buildKey(tokenKey(provider, time.Now()))
	used, err := redisClient.Get(ctx, key).Int64()
	if err == redis.Nil {
		return usage, nil
	}
	if err != nil {
		return usage, err
	}
	usage.Used = used
	return usage, nil
}
