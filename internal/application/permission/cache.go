package permission

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/casework-hq/casework/internal/domain/permission"
	"github.com/casework-hq/casework/internal/shared/logger"
)

type cachedRuleSet struct {
	rules    *permission.RuleSet
	loadedAt time.Time
}

// RuleSetCache holds compiled rule sets per account. Concurrent misses for the
// same account share a single load, and only fully compiled rule sets are ever
// published. A zero TTL keeps entries until they are invalidated. A load that
// was already running when its account was invalidated still answers its own
// callers but is not cached.
type RuleSetCache struct {
	loader  permission.RuleLoader
	catalog *permission.Catalog
	ttl     time.Duration
	now     func() time.Time
	logger  logger.Interface

	mu      sync.RWMutex
	entries map[string]cachedRuleSet
	group   singleflight.Group

	// generations counts invalidations per account.
	generations map[string]uint64
}

func NewRuleSetCache(
	loader permission.RuleLoader,
	catalog *permission.Catalog,
	ttl time.Duration,
	logger logger.Interface,
) *RuleSetCache {
	return &RuleSetCache{
		loader:      loader,
		catalog:     catalog,
		ttl:         ttl,
		now:         time.Now,
		logger:      logger,
		entries:     make(map[string]cachedRuleSet),
		generations: make(map[string]uint64),
	}
}

// Get returns the rule set of an account, loading and compiling it on a miss.
func (c *RuleSetCache) Get(ctx context.Context, accountSID string) (*permission.RuleSet, error) {
	if accountSID == "" {
		return nil, fmt.Errorf("%w: empty account", permission.ErrRulesNotFound)
	}

	c.mu.RLock()
	entry, ok := c.entries[accountSID]
	c.mu.RUnlock()
	if ok && !c.expired(entry) {
		return entry.rules, nil
	}

	return c.load(ctx, accountSID)
}

// Refresh reloads the rule set of an account regardless of its cache state.
func (c *RuleSetCache) Refresh(ctx context.Context, accountSID string) (*permission.RuleSet, error) {
	c.Invalidate(accountSID)
	return c.load(ctx, accountSID)
}

// Invalidate drops the cached rule set of an account.
func (c *RuleSetCache) Invalidate(accountSID string) {
	c.mu.Lock()
	delete(c.entries, accountSID)
	c.generations[accountSID]++
	c.mu.Unlock()
	c.group.Forget(accountSID)
}

func (c *RuleSetCache) load(ctx context.Context, accountSID string) (*permission.RuleSet, error) {
	ch := c.group.DoChan(accountSID, func() (any, error) {
		c.mu.RLock()
		generation := c.generations[accountSID]
		c.mu.RUnlock()

		// The load is shared, so one caller giving up must not fail the rest.
		raw, err := c.loader.LoadRules(context.WithoutCancel(ctx), accountSID)
		if err != nil {
			return nil, err
		}
		rules, err := permission.CompileRules(raw, c.catalog)
		if err != nil {
			return nil, fmt.Errorf("compile rules for account %s: %w", accountSID, err)
		}

		c.mu.Lock()
		current := c.generations[accountSID] == generation
		if current {
			c.entries[accountSID] = cachedRuleSet{rules: rules, loadedAt: c.now()}
		}
		c.mu.Unlock()

		if !current {
			c.logger.Debugw("rule set invalidated while loading, not caching", "account_sid", accountSID)
			return rules, nil
		}

		c.logger.Infow("rule set loaded",
			"account_sid", accountSID,
			"actions", len(rules.Actions()),
		)
		return rules, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			if !errors.Is(res.Err, permission.ErrRulesNotFound) {
				c.logger.Errorw("failed to load rule set", "account_sid", accountSID, "error", res.Err)
			}
			return nil, res.Err
		}
		return res.Val.(*permission.RuleSet), nil
	}
}

func (c *RuleSetCache) expired(entry cachedRuleSet) bool {
	return c.ttl > 0 && c.now().Sub(entry.loadedAt) >= c.ttl
}
