package http

import (
	"github.com/gin-gonic/gin"

	"github.com/casework-hq/casework/internal/interfaces/http/middleware"
	"github.com/casework-hq/casework/internal/interfaces/http/routes"
	"github.com/casework-hq/casework/internal/shared/errors"
	"github.com/casework-hq/casework/internal/shared/utils"
)

// SetupRoutes installs global middleware and registers every route.
func (c *Container) SetupRoutes() {
	engine := c.engine

	engine.Use(middleware.Recovery(c.log))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger(c.log.Named("http"), c.metrics))
	engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))
	engine.Use(middleware.SecurityHeaders())

	routes.SetupSystemRoutes(engine, &routes.SystemRouteConfig{
		HealthHandler:  c.hdlrs.healthHandler,
		Metrics:        c.metrics.Handler(),
		GateMiddleware: c.gateMiddleware,
	})

	routes.SetupCaseRoutes(engine, &routes.CaseRouteConfig{
		CaseHandler:    c.hdlrs.caseHandler,
		SectionHandler: c.hdlrs.sectionHandler,
		HistoryHandler: c.hdlrs.historyHandler,
		Guards:         c.perms.guards,
		AuthMiddleware: c.authMiddleware,
		GateMiddleware: c.gateMiddleware,
	})

	engine.NoRoute(func(ctx *gin.Context) {
		utils.ErrorResponseWithError(ctx, errors.NewNotFoundError("route not found"))
	})
}
