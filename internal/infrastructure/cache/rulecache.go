// Package cache holds the redis tier shared by every instance of the service.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/casework-hq/casework/internal/domain/permission"
	"github.com/casework-hq/casework/internal/shared/logger"
)

const (
	ruleCacheKeyPrefix = "permission:rules:"
	defaultRuleTTL     = 10 * time.Minute
)

var _ permission.RuleLoader = (*RedisRuleCache)(nil)

// RedisRuleCache is a read-through RuleLoader decorator. Redis failures are
// logged and the request falls through to the wrapped loader.
type RedisRuleCache struct {
	client *redis.Client
	next   permission.RuleLoader
	ttl    time.Duration
	logger logger.Interface
}

func NewRedisRuleCache(client *redis.Client, next permission.RuleLoader, ttl time.Duration, logger logger.Interface) *RedisRuleCache {
	if ttl <= 0 {
		ttl = defaultRuleTTL
	}
	return &RedisRuleCache{
		client: client,
		next:   next,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *RedisRuleCache) LoadRules(ctx context.Context, accountSID string) (permission.RawRules, error) {
	key := ruleCacheKey(accountSID)

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var raw permission.RawRules
		jsonErr := json.Unmarshal(data, &raw)
		if jsonErr == nil {
			return raw, nil
		}
		c.logger.Warnw("discarding corrupt cached rules", "account_sid", accountSID, "error", jsonErr)
	case errors.Is(err, redis.Nil):
	default:
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.logger.Warnw("rule cache read failed", "account_sid", accountSID, "error", err)
	}

	raw, err := c.next.LoadRules(ctx, accountSID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(raw); err != nil {
		c.logger.Warnw("failed to encode rules for cache", "account_sid", accountSID, "error", err)
	} else if err := c.client.Set(ctx, key, data, c.ttlWithJitter()).Err(); err != nil {
		c.logger.Warnw("rule cache write failed", "account_sid", accountSID, "error", err)
	}

	return raw, nil
}

// InvalidateRules drops the cached rules of an account.
func (c *RedisRuleCache) InvalidateRules(ctx context.Context, accountSID string) error {
	if err := c.client.Del(ctx, ruleCacheKey(accountSID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached rules: %w", err)
	}
	return nil
}

// ttlWithJitter spreads expiry over [ttl, ttl*1.2) so instances do not reload
// together.
func (c *RedisRuleCache) ttlWithJitter() time.Duration {
	jitter := int64(c.ttl / 5)
	if jitter <= 0 {
		return c.ttl
	}
	return c.ttl + time.Duration(rand.Int64N(jitter))
}

func ruleCacheKey(accountSID string) string {
	return ruleCacheKeyPrefix + accountSID
}
