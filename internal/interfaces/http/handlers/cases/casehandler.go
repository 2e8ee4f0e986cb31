package cases

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/casework-hq/casework/internal/application/cases/dto"
	"github.com/casework-hq/casework/internal/application/cases/usecases"
	apppermission "github.com/casework-hq/casework/internal/application/permission"
	casedomain "github.com/casework-hq/casework/internal/domain/cases"
	"github.com/casework-hq/casework/internal/domain/permission"
	"github.com/casework-hq/casework/internal/interfaces/http/middleware"
	"github.com/casework-hq/casework/internal/shared/errors"
	"github.com/casework-hq/casework/internal/shared/logger"
	"github.com/casework-hq/casework/internal/shared/utils"
)

// CaseHandler serves the case document. Every route sits behind a guard that
// already loaded and authorized the case.
type CaseHandler struct {
	createCaseUC     CreateCaseExecutor
	changeStatusUC   ChangeCaseStatusExecutor
	updateOverviewUC UpdateCaseOverviewExecutor
	connectContactUC ConnectContactExecutor
	renderer         dto.Renderer
	logger           logger.Interface
}

func NewCaseHandler(
	createCaseUC CreateCaseExecutor,
	changeStatusUC ChangeCaseStatusExecutor,
	updateOverviewUC UpdateCaseOverviewExecutor,
	connectContactUC ConnectContactExecutor,
	renderer dto.Renderer,
	logger logger.Interface,
) *CaseHandler {
	return &CaseHandler{
		createCaseUC:     createCaseUC,
		changeStatusUC:   changeStatusUC,
		updateOverviewUC: updateOverviewUC,
		connectContactUC: connectContactUC,
		renderer:         renderer,
		logger:           logger,
	}
}

// CreateCase handles POST /cases
func (h *CaseHandler) CreateCase(c *gin.Context) {
	var req CreateCaseRequest
	if err := bindJSON(c, &req); err != nil {
		h.logger.Warnw("invalid request body for create case", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	user, _ := middleware.UserFrom(c)
	result, err := h.createCaseUC.Execute(c.Request.Context(), req.ToCommand(user))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Case created successfully")
}

// GetCase handles GET /cases/:id
func (h *CaseHandler) GetCase(c *gin.Context) {
	kase, err := guardedCase(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", dto.ToCaseDTO(kase, h.renderer))
}

// ChangeStatus handles PATCH /cases/:id/status
func (h *CaseHandler) ChangeStatus(c *gin.Context) {
	caseID, err := utils.ParseUintParam(c, "id", "case")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req ChangeCaseStatusRequest
	if err := bindJSON(c, &req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	user, _ := middleware.UserFrom(c)
	cmd, err := req.ToCommand(caseID, user)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.changeStatusUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Case status updated successfully", result.Case)
}

// UpdateOverview handles PATCH /cases/:id/overview
func (h *CaseHandler) UpdateOverview(c *gin.Context) {
	caseID, err := utils.ParseUintParam(c, "id", "case")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateCaseOverviewRequest
	if err := bindJSON(c, &req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	user, _ := middleware.UserFrom(c)
	cmd, err := req.ToCommand(caseID, user)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.updateOverviewUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Case overview updated successfully", result)
}

// ConnectContact handles POST /cases/:id/contacts
func (h *CaseHandler) ConnectContact(c *gin.Context) {
	caseID, err := utils.ParseUintParam(c, "id", "case")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req ConnectContactRequest
	if err := bindJSON(c, &req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	user, _ := middleware.UserFrom(c)
	result, err := h.connectContactUC.Execute(c.Request.Context(), usecases.ConnectContactCommand{
		CaseID:      caseID,
		AccountSID:  user.AccountSID,
		ContactID:   req.ContactID,
		ConnectedBy: user.WorkerSID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Contact connected successfully", result)
}

// guardedCase returns the case the route guard loaded.
func guardedCase(c *gin.Context) (*casedomain.Case, error) {
	req, ok := middleware.RequestFrom(c)
	if !ok {
		return nil, errors.NewInternalError("authorization context missing")
	}
	kase, ok := apppermission.TargetFrom[*casedomain.Case](req, permission.TargetKindCase)
	if !ok {
		return nil, errors.NewInternalError("authorized case missing from request")
	}
	return kase, nil
}

// bindJSON decodes the body and checks its validate tags. Both failures are
// validation errors.
func bindJSON(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return errors.NewValidationError("invalid request body", err.Error())
	}
	return utils.ValidateStruct(obj)
}
