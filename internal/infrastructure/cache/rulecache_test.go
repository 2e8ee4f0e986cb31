package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casework-hq/casework/internal/domain/permission"
	"github.com/casework-hq/casework/internal/shared/logger"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return mr, client
}

type countingLoader struct {
	calls int
	rules permission.RawRules
	err   error
}

func (l *countingLoader) LoadRules(_ context.Context, _ string) (permission.RawRules, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	return l.rules, nil
}

func testRules() permission.RawRules {
	return permission.RawRules{
		"viewCase":  {{"everyone"}},
		"closeCase": {{"isSupervisor"}, {"isCreator", "isCaseOpen"}},
	}
}

func TestRedisRuleCache_ReadThrough(t *testing.T) {
	mr, client := setupTestRedis(t)
	next := &countingLoader{rules: testRules()}
	cache := NewRedisRuleCache(client, next, time.Minute, logger.NewNop())
	ctx := context.Background()

	first, err := cache.LoadRules(ctx, "AC1")
	require.NoError(t, err)
	second, err := cache.LoadRules(ctx, "AC1")
	require.NoError(t, err)

	assert.Equal(t, testRules(), first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, next.calls)

	ttl := mr.TTL("permission:rules:AC1")
	assert.GreaterOrEqual(t, ttl, time.Minute)
	assert.Less(t, ttl, time.Minute+12*time.Second)
}

func TestRedisRuleCache_Invalidate(t *testing.T) {
	mr, client := setupTestRedis(t)
	next := &countingLoader{rules: testRules()}
	cache := NewRedisRuleCache(client, next, time.Minute, logger.NewNop())
	ctx := context.Background()

	_, err := cache.LoadRules(ctx, "AC1")
	require.NoError(t, err)
	require.NoError(t, cache.InvalidateRules(ctx, "AC1"))
	assert.False(t, mr.Exists("permission:rules:AC1"))

	_, err = cache.LoadRules(ctx, "AC1")
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestRedisRuleCache_MissingRulesAreNotCached(t *testing.T) {
	mr, client := setupTestRedis(t)
	next := &countingLoader{err: fmt.Errorf("%w: AC1", permission.ErrRulesNotFound)}
	cache := NewRedisRuleCache(client, next, time.Minute, logger.NewNop())

	_, err := cache.LoadRules(context.Background(), "AC1")
	assert.ErrorIs(t, err, permission.ErrRulesNotFound)
	assert.False(t, mr.Exists("permission:rules:AC1"))
}

func TestRedisRuleCache_CorruptEntryIsReplaced(t *testing.T) {
	mr, client := setupTestRedis(t)
	require.NoError(t, mr.Set("permission:rules:AC1", "{not json"))
	next := &countingLoader{rules: testRules()}
	cache := NewRedisRuleCache(client, next, time.Minute, logger.NewNop())

	raw, err := cache.LoadRules(context.Background(), "AC1")
	require.NoError(t, err)
	assert.Equal(t, testRules(), raw)
	assert.Equal(t, 1, next.calls)

	stored, err := mr.Get("permission:rules:AC1")
	require.NoError(t, err)
	assert.Contains(t, stored, "closeCase")
}

func TestRedisRuleCache_RedisDownFallsThrough(t *testing.T) {
	mr, client := setupTestRedis(t)
	next := &countingLoader{rules: testRules()}
	cache := NewRedisRuleCache(client, next, time.Minute, logger.NewNop())
	mr.Close()

	raw, err := cache.LoadRules(context.Background(), "AC1")
	require.NoError(t, err)
	assert.Equal(t, testRules(), raw)

	assert.Error(t, cache.InvalidateRules(context.Background(), "AC1"))
}
