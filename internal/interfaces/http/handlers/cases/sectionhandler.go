package cases

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/casework-hq/casework/internal/application/cases/usecases"
	apppermission "github.com/casework-hq/casework/internal/application/permission"
	"github.com/casework-hq/casework/internal/interfaces/http/middleware"
	"github.com/casework-hq/casework/internal/shared/logger"
	"github.com/casework-hq/casework/internal/shared/utils"
)

const sectionIDParam = "sectionId"

type SectionHandler struct {
	addSectionUC    AddCaseSectionExecutor
	updateSectionUC UpdateCaseSectionExecutor
	deleteSectionUC DeleteCaseSectionExecutor
	logger          logger.Interface
}

func NewSectionHandler(
	addSectionUC AddCaseSectionExecutor,
	updateSectionUC UpdateCaseSectionExecutor,
	deleteSectionUC DeleteCaseSectionExecutor,
	logger logger.Interface,
) *SectionHandler {
	return &SectionHandler{
		addSectionUC:    addSectionUC,
		updateSectionUC: updateSectionUC,
		deleteSectionUC: deleteSectionUC,
		logger:          logger,
	}
}

// AddSection handles POST /cases/:id/sections/:sectionType
func (h *SectionHandler) AddSection(c *gin.Context) {
	caseID, err := utils.ParseUintParam(c, "id", "case")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req CaseSectionRequest
	if err := bindJSON(c, &req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	user, _ := middleware.UserFrom(c)
	result, err := h.addSectionUC.Execute(c.Request.Context(), usecases.AddCaseSectionCommand{
		CaseID:         caseID,
		AccountSID:     user.AccountSID,
		SectionType:    c.Param(apppermission.SectionTypeParam),
		SectionID:      req.SectionID,
		EventTimestamp: req.eventTimestamp(),
		Payload:        req.Payload,
		CreatedBy:      user.WorkerSID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Case section created successfully")
}

// UpdateSection handles PUT /cases/:id/sections/:sectionType/:sectionId
func (h *SectionHandler) UpdateSection(c *gin.Context) {
	caseID, err := utils.ParseUintParam(c, "id", "case")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req CaseSectionRequest
	if err := bindJSON(c, &req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	user, _ := middleware.UserFrom(c)
	result, err := h.updateSectionUC.Execute(c.Request.Context(), usecases.UpdateCaseSectionCommand{
		CaseID:         caseID,
		AccountSID:     user.AccountSID,
		SectionType:    c.Param(apppermission.SectionTypeParam),
		SectionID:      c.Param(sectionIDParam),
		EventTimestamp: req.eventTimestamp(),
		Payload:        req.Payload,
		UpdatedBy:      user.WorkerSID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Case section updated successfully", result)
}

// DeleteSection handles DELETE /cases/:id/sections/:sectionType/:sectionId
func (h *SectionHandler) DeleteSection(c *gin.Context) {
	caseID, err := utils.ParseUintParam(c, "id", "case")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	user, _ := middleware.UserFrom(c)
	err = h.deleteSectionUC.Execute(c.Request.Context(), usecases.DeleteCaseSectionCommand{
		CaseID:      caseID,
		AccountSID:  user.AccountSID,
		SectionType: c.Param(apppermission.SectionTypeParam),
		SectionID:   c.Param(sectionIDParam),
		DeletedBy:   user.WorkerSID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}
