package http

import (
	"context"

	"github.com/casework-hq/casework/internal/interfaces/http/handlers"
	casehandlers "github.com/casework-hq/casework/internal/interfaces/http/handlers/cases"
)

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	healthHandler *handlers.HealthHandler

	caseHandler    *casehandlers.CaseHandler
	sectionHandler *casehandlers.SectionHandler
	historyHandler *casehandlers.HistoryHandler
}

// ============================================================
// Section 4: Handlers
// ============================================================

func (c *Container) initHandlers() {
	ucs := c.ucs
	log := c.log

	checks := map[string]handlers.HealthCheckFunc{
		"database": func(ctx context.Context) error {
			sqlDB, err := c.db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if c.redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return c.redis.Ping(ctx).Err()
		}
	}

	c.hdlrs = &allHandlers{
		healthHandler: handlers.NewHealthHandler(checks, log.Named("health")),
		caseHandler: casehandlers.NewCaseHandler(
			ucs.createCaseUC, ucs.changeStatusUC, ucs.updateOverviewUC, ucs.connectContactUC,
			c.renderer, log,
		),
		sectionHandler: casehandlers.NewSectionHandler(ucs.addSectionUC, ucs.updateSectionUC, ucs.deleteSectionUC, log),
		historyHandler: casehandlers.NewHistoryHandler(ucs.listActivitiesUC, ucs.getTimelineUC, c.cfg.History.MaxPageSize, log),
	}
}
