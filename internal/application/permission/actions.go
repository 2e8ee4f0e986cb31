package permission

import (
	"fmt"
	"slices"

	"github.com/casework-hq/casework/internal/domain/permission"
	"github.com/casework-hq/casework/internal/shared/authorization"
	apperrors "github.com/casework-hq/casework/internal/shared/errors"
)

const (
	// SectionTypeParam is the path parameter holding a case section type.
	SectionTypeParam = "sectionType"

	caseStatusClosed = "closed"
)

var overviewFieldActions = map[string]permission.Action{
	"summary":       permission.ActionEditCaseOverview,
	"childIsAtRisk": permission.ActionEditChildIsAtRisk,
	"followUpDate":  permission.ActionEditFollowUpDate,
}

// StaticAction always checks the same action.
func StaticAction(action permission.Action) ActionFunc {
	return func(*authorization.Request, permission.Target) ([]permission.Action, error) {
		return []permission.Action{action}, nil
	}
}

// CaseStatusActions derives the action of a status change from the requested
// status in the payload and the case's current status.
func CaseStatusActions(req *authorization.Request, target permission.Target) ([]permission.Action, error) {
	next, _ := req.Payload["status"].(string)
	if next == "" {
		return nil, apperrors.NewValidationError("status is required")
	}

	current := ""
	if sb, ok := target.(permission.StatusBearer); ok {
		current = sb.StatusValue()
	}

	switch {
	case next == caseStatusClosed:
		return []permission.Action{permission.ActionCloseCase}, nil
	case current == caseStatusClosed:
		return []permission.Action{permission.ActionReopenCase}, nil
	default:
		return []permission.Action{permission.ActionCaseStatusTransition}, nil
	}
}

// CaseOverviewActions derives one action per overview field present in the
// payload. Fields without a dedicated action need editCaseOverview.
func CaseOverviewActions(req *authorization.Request, _ permission.Target) ([]permission.Action, error) {
	var actions []permission.Action
	for field := range req.Payload {
		action, ok := overviewFieldActions[field]
		if !ok {
			action = permission.ActionEditCaseOverview
		}
		if !slices.Contains(actions, action) {
			actions = append(actions, action)
		}
	}
	slices.Sort(actions)
	return actions, nil
}

// SectionActions derives the add or edit action of the section type named by
// the sectionType path parameter.
func SectionActions(verb permission.SectionVerb) ActionFunc {
	return func(req *authorization.Request, _ permission.Target) ([]permission.Action, error) {
		sectionType := req.Param(SectionTypeParam)
		action, err := permission.SectionAction(sectionType, verb)
		if err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("unsupported section type %q", sectionType))
		}
		return []permission.Action{action}, nil
	}
}
