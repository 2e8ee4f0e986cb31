package http

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/casework-hq/casework/internal/infrastructure/auth"
	"github.com/casework-hq/casework/internal/infrastructure/config"
	"github.com/casework-hq/casework/internal/infrastructure/metrics"
	"github.com/casework-hq/casework/internal/interfaces/http/middleware"
	"github.com/casework-hq/casework/internal/shared/logger"
	"github.com/casework-hq/casework/internal/shared/services/markdown"
)

// Container holds the infrastructure components, repositories, use cases,
// handlers and middlewares of the HTTP service, wired together.
type Container struct {
	// Core infrastructure
	engine  *gin.Engine
	db      *gorm.DB
	cfg     *config.Config
	log     logger.Interface
	redis   *redis.Client
	metrics *metrics.Metrics

	// Repositories
	repos *repositories

	// Authorization
	perms *permissionServices

	// Use cases
	ucs *allUseCases

	// Handlers
	hdlrs *allHandlers

	// Middlewares
	authMiddleware *middleware.AuthMiddleware
	gateMiddleware *middleware.GateMiddleware

	jwtSvc   *auth.JWTService
	renderer markdown.MarkdownService
}

// NewContainer wires the service. redisClient may be nil when no redis tier
// is configured.
func NewContainer(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine:  gin.New(),
		db:      db,
		cfg:     cfg,
		log:     log,
		redis:   redisClient,
		metrics: metrics.New(),
	}

	// Section 1: Infrastructure - repositories, auth, rendering
	c.initInfrastructure()

	// Section 2: Authorization - rule sources, rule cache, guards
	if err := c.initPermissions(); err != nil {
		return nil, err
	}

	// Section 3: Use cases and history assembly
	c.initUseCases()

	// Section 4: Handlers and middlewares
	c.initHandlers()

	return c, nil
}

// NewRedisClient creates the redis client and checks the connection.
func NewRedisClient(ctx context.Context, cfg *config.Config, log logger.Interface) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Infow("redis connection established", "addr", cfg.Redis.GetAddr())

	return client, nil
}

// Engine returns the configured gin engine.
func (c *Container) Engine() *gin.Engine {
	return c.engine
}

// Shutdown releases resources owned by the container.
func (c *Container) Shutdown() {
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close redis client", "error", err)
		}
	}
}
