package cases

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/casework-hq/casework/internal/application/cases/usecases"
	casedomain "github.com/casework-hq/casework/internal/domain/cases"
	vo "github.com/casework-hq/casework/internal/domain/cases/valueobjects"
	"github.com/casework-hq/casework/internal/domain/permission"
	"github.com/casework-hq/casework/internal/shared/errors"
)

type CreateCaseRequest struct {
	Summary        string `json:"summary" validate:"max=5000"`
	ChildIsAtRisk  bool   `json:"childIsAtRisk"`
	TwilioWorkerID string `json:"twilioWorkerId" validate:"max=64"`
}

func (r *CreateCaseRequest) ToCommand(user permission.User) usecases.CreateCaseCommand {
	return usecases.CreateCaseCommand{
		AccountSID:     user.AccountSID,
		TwilioWorkerID: r.TwilioWorkerID,
		CreatedBy:      user.WorkerSID,
		Summary:        r.Summary,
		ChildIsAtRisk:  r.ChildIsAtRisk,
	}
}

type ChangeCaseStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (r *ChangeCaseStatusRequest) ToCommand(caseID uint, user permission.User) (usecases.ChangeCaseStatusCommand, error) {
	status, err := vo.NewCaseStatus(r.Status)
	if err != nil {
		return usecases.ChangeCaseStatusCommand{}, errors.NewValidationError(err.Error())
	}
	return usecases.ChangeCaseStatusCommand{
		CaseID:     caseID,
		AccountSID: user.AccountSID,
		NewStatus:  status,
		ChangedBy:  user.WorkerSID,
	}, nil
}

// UpdateCaseOverviewRequest carries the overview fields to change. An empty
// followUpDate clears the date.
type UpdateCaseOverviewRequest struct {
	Summary       *string `json:"summary" validate:"omitempty,max=5000"`
	ChildIsAtRisk *bool   `json:"childIsAtRisk"`
	FollowUpDate  *string `json:"followUpDate"`
}

func (r *UpdateCaseOverviewRequest) ToCommand(caseID uint, user permission.User) (usecases.UpdateCaseOverviewCommand, error) {
	update := casedomain.OverviewUpdate{
		Summary:       r.Summary,
		ChildIsAtRisk: r.ChildIsAtRisk,
	}
	if r.FollowUpDate != nil {
		if strings.TrimSpace(*r.FollowUpDate) == "" {
			update.ClearFollowUpDate = true
		} else {
			d, err := time.Parse(time.RFC3339, *r.FollowUpDate)
			if err != nil {
				return usecases.UpdateCaseOverviewCommand{}, errors.NewValidationError("followUpDate must be an RFC 3339 timestamp")
			}
			update.FollowUpDate = &d
		}
	}
	return usecases.UpdateCaseOverviewCommand{
		CaseID:     caseID,
		AccountSID: user.AccountSID,
		Update:     update,
		UpdatedBy:  user.WorkerSID,
	}, nil
}

type ConnectContactRequest struct {
	ContactID uint `json:"contactId" validate:"required"`
}

type CaseSectionRequest struct {
	SectionID      string         `json:"sectionId" validate:"omitempty,max=64"`
	EventTimestamp *time.Time     `json:"eventTimestamp"`
	Payload        map[string]any `json:"sectionTypeSpecificData"`
}

func (r *CaseSectionRequest) eventTimestamp() time.Time {
	if r.EventTimestamp == nil {
		return time.Time{}
	}
	return r.EventTimestamp.UTC()
}

// TimelineRequest is the body of the multi-case timeline query.
type TimelineRequest struct {
	CaseIDs         []uint   `json:"caseIds" validate:"required,min=1,max=100,dive,min=1"`
	SectionTypes    []string `json:"sectionTypes" validate:"max=20"`
	IncludeContacts bool     `json:"includeContacts"`
	Limit           int      `json:"limit"`
	Offset          int      `json:"offset" validate:"min=0"`
}

// parseSectionTypes reads the comma separated sectionTypes query parameter.
// "*" or an empty value selects every type.
func parseSectionTypes(c *gin.Context) []string {
	raw := strings.TrimSpace(c.Query("sectionTypes"))
	if raw == "" || raw == "*" {
		return nil
	}
	var types []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			types = append(types, t)
		}
	}
	return types
}

func parseIncludeContacts(c *gin.Context) bool {
	v, err := strconv.ParseBool(c.DefaultQuery("includeContacts", "false"))
	return err == nil && v
}
