package cases

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/casework-hq/casework/internal/application/cases/usecases"
	"github.com/casework-hq/casework/internal/interfaces/http/middleware"
	"github.com/casework-hq/casework/internal/shared/constants"
	"github.com/casework-hq/casework/internal/shared/logger"
	"github.com/casework-hq/casework/internal/shared/utils"
)

// HistoryHandler serves case history: the legacy activity list and the
// merged section and contact timeline.
type HistoryHandler struct {
	listActivitiesUC ListCaseActivitiesExecutor
	getTimelineUC    GetCaseTimelineExecutor
	maxPageSize      int
	logger           logger.Interface
}

func NewHistoryHandler(
	listActivitiesUC ListCaseActivitiesExecutor,
	getTimelineUC GetCaseTimelineExecutor,
	maxPageSize int,
	logger logger.Interface,
) *HistoryHandler {
	return &HistoryHandler{
		listActivitiesUC: listActivitiesUC,
		getTimelineUC:    getTimelineUC,
		maxPageSize:      maxPageSize,
		logger:           logger,
	}
}

// ListActivities handles GET /cases/:id/activities
func (h *HistoryHandler) ListActivities(c *gin.Context) {
	caseID, err := utils.ParseUintParam(c, "id", "case")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	user, _ := middleware.UserFrom(c)
	result, err := h.listActivitiesUC.Execute(c.Request.Context(), usecases.ListCaseActivitiesQuery{
		CaseID: caseID,
		Viewer: user,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetTimeline handles GET /cases/:id/timeline
func (h *HistoryHandler) GetTimeline(c *gin.Context) {
	caseID, err := utils.ParseUintParam(c, "id", "case")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	page := utils.ParseLimitOffset(c, h.maxPageSize)
	user, _ := middleware.UserFrom(c)

	result, err := h.getTimelineUC.Execute(c.Request.Context(), usecases.GetCaseTimelineQuery{
		CaseIDs:         []uint{caseID},
		SectionTypes:    parseSectionTypes(c),
		IncludeContacts: parseIncludeContacts(c),
		Limit:           page.Limit,
		Offset:          page.Offset,
		Viewer:          user,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.PageSuccessResponse(c, result.Entries, result.Count, page)
}

// GetTimelines handles POST /cases/timeline. The guard has already checked
// viewCase on every listed case.
func (h *HistoryHandler) GetTimelines(c *gin.Context) {
	var req TimelineRequest
	if err := bindJSON(c, &req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	page := utils.NormalizeLimitOffset(req.Limit, req.Offset, constants.DefaultLimit, h.maxPageSize)
	user, _ := middleware.UserFrom(c)

	result, err := h.getTimelineUC.Execute(c.Request.Context(), usecases.GetCaseTimelineQuery{
		CaseIDs:         req.CaseIDs,
		SectionTypes:    req.SectionTypes,
		IncludeContacts: req.IncludeContacts,
		Limit:           page.Limit,
		Offset:          page.Offset,
		Viewer:          user,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.PageSuccessResponse(c, result.Entries, result.Count, page)
}
