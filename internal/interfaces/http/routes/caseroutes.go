package routes

import (
	"github.com/gin-gonic/gin"

	apppermission "github.com/casework-hq/casework/internal/application/permission"
	"github.com/casework-hq/casework/internal/domain/permission"
	casehandlers "github.com/casework-hq/casework/internal/interfaces/http/handlers/cases"
	"github.com/casework-hq/casework/internal/interfaces/http/middleware"
	"github.com/casework-hq/casework/internal/shared/authorization"
)

type CaseRouteConfig struct {
	CaseHandler    *casehandlers.CaseHandler
	SectionHandler *casehandlers.SectionHandler
	HistoryHandler *casehandlers.HistoryHandler
	Guards         *apppermission.GuardFactory
	AuthMiddleware *middleware.AuthMiddleware
	GateMiddleware *middleware.GateMiddleware
}

func SetupCaseRoutes(engine *gin.Engine, config *CaseRouteConfig) {
	group := engine.Group("/cases")
	group.Use(config.AuthMiddleware.RequireAuth())
	cases := NewGuardedGroup(group, config.GateMiddleware)

	guards := config.Guards
	caseParam := apppermission.ParamTargetID("id")
	canView := guards.ForTarget(permission.TargetKindCase, caseParam, apppermission.StaticAction(permission.ActionViewCase))

	// Collection operations (no ID parameter)
	cases.POST("",
		config.CaseHandler.CreateCase,
		authorization.AuthenticatedGuard())
	cases.POST("/timeline",
		config.HistoryHandler.GetTimelines,
		guards.ForTargets(permission.TargetKindCase,
			apppermission.PayloadTargetIDs("caseIds"),
			apppermission.StaticAction(permission.ActionViewCase)))

	// Case document
	cases.GET("/:id",
		config.CaseHandler.GetCase,
		canView)
	cases.PATCH("/:id/status",
		config.CaseHandler.ChangeStatus,
		guards.ForTarget(permission.TargetKindCase, caseParam, apppermission.CaseStatusActions))
	cases.PATCH("/:id/overview",
		config.CaseHandler.UpdateOverview,
		guards.ForTarget(permission.TargetKindCase, caseParam, apppermission.CaseOverviewActions))
	cases.POST("/:id/contacts",
		config.CaseHandler.ConnectContact,
		authorization.RequireAll(
			guards.ForTarget(permission.TargetKindCase, caseParam,
				apppermission.StaticAction(permission.ActionUpdateCaseContacts)),
			guards.ForTarget(permission.TargetKindContact, apppermission.PayloadTargetID("contactId"),
				apppermission.StaticAction(permission.ActionAddContactToCase)),
		))

	// Case sections
	cases.POST("/:id/sections/:sectionType",
		config.SectionHandler.AddSection,
		guards.ForTarget(permission.TargetKindCase, caseParam, apppermission.SectionActions(permission.SectionVerbAdd)))
	cases.PUT("/:id/sections/:sectionType/:sectionId",
		config.SectionHandler.UpdateSection,
		guards.ForTarget(permission.TargetKindCase, caseParam, apppermission.SectionActions(permission.SectionVerbEdit)))
	cases.DELETE("/:id/sections/:sectionType/:sectionId",
		config.SectionHandler.DeleteSection,
		guards.ForTarget(permission.TargetKindCase, caseParam, apppermission.StaticAction(permission.ActionDeleteCaseSection)))

	// History
	cases.GET("/:id/timeline",
		config.HistoryHandler.GetTimeline,
		canView)
	cases.GET("/:id/activities",
		config.HistoryHandler.ListActivities,
		canView)
}
