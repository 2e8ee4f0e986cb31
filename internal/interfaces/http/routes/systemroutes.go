package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/casework-hq/casework/internal/interfaces/http/handlers"
	"github.com/casework-hq/casework/internal/interfaces/http/middleware"
	"github.com/casework-hq/casework/internal/shared/authorization"
)

type SystemRouteConfig struct {
	HealthHandler  *handlers.HealthHandler
	Metrics        http.Handler
	GateMiddleware *middleware.GateMiddleware
}

// SetupSystemRoutes registers the unauthenticated operational endpoints.
// They still pass the gate, with an explicit public guard.
func SetupSystemRoutes(engine *gin.Engine, config *SystemRouteConfig) {
	system := NewGuardedGroup(&engine.RouterGroup, config.GateMiddleware)

	system.GET("/health", config.HealthHandler.HealthCheck, authorization.PublicGuard())
	if config.Metrics != nil {
		system.GET("/metrics", gin.WrapH(config.Metrics), authorization.PublicGuard())
	}
}
