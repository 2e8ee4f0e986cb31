package http

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	apppermission "github.com/casework-hq/casework/internal/application/permission"
	"github.com/casework-hq/casework/internal/domain/permission"
	"github.com/casework-hq/casework/internal/infrastructure/auth"
	"github.com/casework-hq/casework/internal/infrastructure/cache"
	"github.com/casework-hq/casework/internal/infrastructure/config"
	"github.com/casework-hq/casework/internal/infrastructure/metrics"
	infrapermission "github.com/casework-hq/casework/internal/infrastructure/permission"
	"github.com/casework-hq/casework/internal/interfaces/http/middleware"
	sharedConfig "github.com/casework-hq/casework/internal/shared/config"
	"github.com/casework-hq/casework/internal/shared/logger"
	"github.com/casework-hq/casework/internal/shared/services/markdown"
)

// permissionServices holds the authorization stack shared by guards and
// history redaction.
type permissionServices struct {
	catalog    *permission.Catalog
	ruleCache  *apppermission.RuleSetCache
	authorizer *apppermission.Authorizer
	guards     *apppermission.GuardFactory
}

// ============================================================
// Section 1: Infrastructure
// ============================================================

func (c *Container) initInfrastructure() {
	cfg := c.cfg

	c.repos = newRepositories(c.db)
	c.renderer = markdown.NewMarkdownService()

	c.jwtSvc = auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.Issuer, cfg.Auth.JWT.AccessExpMinutes)
	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, c.log.Named("auth"))
	c.gateMiddleware = middleware.NewGateMiddleware(c.metrics, c.log.Named("gate"))
}

// ============================================================
// Section 2: Authorization
// ============================================================

func (c *Container) initPermissions() error {
	loader, err := NewRuleLoader(c.cfg, c.db, c.redis, c.metrics, c.log)
	if err != nil {
		return err
	}

	catalog := permission.NewDefaultCatalog()
	ruleCache := apppermission.NewRuleSetCache(loader, catalog, c.cfg.Permissions.CacheTTL(), c.log.Named("rules"))
	authorizer := apppermission.NewAuthorizer(ruleCache, permission.NewEngine(c.log.Named("engine")), c.log.Named("authorizer"))

	c.perms = &permissionServices{
		catalog:    catalog,
		ruleCache:  ruleCache,
		authorizer: authorizer,
		guards:     apppermission.NewGuardFactory(c.repos.targetRepo, authorizer, c.log.Named("guard")),
	}

	c.log.Infow("authorization configured",
		"rule_source", c.cfg.Permissions.Source,
		"redis_cache", c.redis != nil && c.cfg.Permissions.RedisCache,
		"cache_ttl", c.cfg.Permissions.CacheTTL(),
	)
	return nil
}

// NewRuleLoader builds the rule source selected by configuration: YAML files
// or the casbin policy table, optionally behind the shared redis cache. m may
// be nil.
func NewRuleLoader(
	cfg *config.Config,
	db *gorm.DB,
	redisClient *redis.Client,
	m *metrics.Metrics,
	log logger.Interface,
) (permission.RuleLoader, error) {
	var loader permission.RuleLoader
	switch cfg.Permissions.Source {
	case sharedConfig.RuleSourceFile:
		loader = infrapermission.NewFileRuleSource(cfg.Permissions.RulesDir)
	case sharedConfig.RuleSourceDatabase:
		store, err := infrapermission.NewCasbinRuleStore(db, log.Named("rulestore"))
		if err != nil {
			return nil, err
		}
		loader = store
	default:
		return nil, fmt.Errorf("unknown permission source %q", cfg.Permissions.Source)
	}

	if cfg.Permissions.RedisCache && redisClient != nil {
		loader = cache.NewRedisRuleCache(redisClient, loader, cfg.Permissions.CacheTTL(), log.Named("rulecache"))
	}

	if m == nil {
		return loader, nil
	}
	next := loader
	return permission.RuleLoaderFunc(func(ctx context.Context, accountSID string) (permission.RawRules, error) {
		raw, err := next.LoadRules(ctx, accountSID)
		m.ObserveRuleLoad(err)
		return raw, err
	}), nil
}
