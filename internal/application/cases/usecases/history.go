package usecases

import (
	"context"

	"github.com/casework-hq/casework/internal/application/cases/dto"
	apphistory "github.com/casework-hq/casework/internal/application/history"
	"github.com/casework-hq/casework/internal/domain/history"
	"github.com/casework-hq/casework/internal/domain/permission"
	"github.com/casework-hq/casework/internal/shared/errors"
	"github.com/casework-hq/casework/internal/shared/logger"
)

type ListCaseActivitiesQuery struct {
	CaseID uint
	Viewer permission.User
}

// ListCaseActivitiesUseCase returns the legacy activity list of a case,
// derived from its audit snapshots.
type ListCaseActivitiesUseCase struct {
	activities ActivityReader
	checker    Checker
	renderer   dto.Renderer
	logger     logger.Interface
}

func NewListCaseActivitiesUseCase(
	activities ActivityReader,
	checker Checker,
	renderer dto.Renderer,
	logger logger.Interface,
) *ListCaseActivitiesUseCase {
	return &ListCaseActivitiesUseCase{
		activities: activities,
		checker:    checker,
		renderer:   renderer,
		logger:     logger,
	}
}

func (uc *ListCaseActivitiesUseCase) Execute(ctx context.Context, q ListCaseActivitiesQuery) ([]*dto.ActivityDTO, error) {
	if q.CaseID == 0 {
		return nil, errors.NewValidationError("case ID is required")
	}

	activities, err := uc.activities.Activities(ctx, q.CaseID)
	if err != nil {
		uc.logger.Errorw("failed to list case activities", "case_id", q.CaseID, "error", err)
		return nil, errors.WrapInternal("failed to list case activities", err)
	}

	for _, a := range activities {
		c, ok := a.Contact()
		if !ok {
			continue
		}
		allowed, err := uc.checker.Can(ctx, q.Viewer, permission.ActionViewContact, c)
		if err != nil {
			uc.logger.Warnw("contact permission check failed, redacting", "contact_id", c.ID, "error", err)
		}
		if !allowed {
			a.RedactContact()
		}
	}

	return dto.ToActivityDTOs(activities, uc.renderer), nil
}

// Timeline assembles a merged, paginated timeline.
type Timeline interface {
	Assemble(ctx context.Context, q apphistory.TimelineQuery, viewer permission.User) (*history.TimelinePage, error)
}

type GetCaseTimelineQuery struct {
	CaseIDs         []uint
	SectionTypes    []string
	IncludeContacts bool
	Limit           int
	Offset          int
	Viewer          permission.User
}

type GetCaseTimelineResult struct {
	Entries []dto.TimelineEntryDTO
	Count   int
}

type GetCaseTimelineUseCase struct {
	timeline    Timeline
	renderer    dto.Renderer
	maxPageSize int
	logger      logger.Interface
}

func NewGetCaseTimelineUseCase(timeline Timeline, renderer dto.Renderer, maxPageSize int, logger logger.Interface) *GetCaseTimelineUseCase {
	return &GetCaseTimelineUseCase{
		timeline:    timeline,
		renderer:    renderer,
		maxPageSize: maxPageSize,
		logger:      logger,
	}
}

func (uc *GetCaseTimelineUseCase) Execute(ctx context.Context, q GetCaseTimelineQuery) (*GetCaseTimelineResult, error) {
	if len(q.CaseIDs) == 0 {
		return nil, errors.NewValidationError("at least one case ID is required")
	}
	if q.Limit <= 0 || q.Offset < 0 {
		return nil, errors.NewValidationError("invalid pagination parameters")
	}
	if uc.maxPageSize > 0 && q.Limit > uc.maxPageSize {
		return nil, errors.NewValidationError("limit exceeds maximum page size")
	}

	page, err := uc.timeline.Assemble(ctx, apphistory.TimelineQuery{
		CaseIDs:         q.CaseIDs,
		SectionTypes:    q.SectionTypes,
		IncludeContacts: q.IncludeContacts,
		Page:            history.Page{Limit: q.Limit, Offset: q.Offset},
	}, q.Viewer)
	if err != nil {
		if errors.IsAppError(err) {
			return nil, err
		}
		return nil, errors.WrapInternal("failed to assemble timeline", err)
	}

	uc.logger.Debugw("timeline assembled", "case_ids", q.CaseIDs, "entries", len(page.Entries), "count", page.Count)

	return &GetCaseTimelineResult{
		Entries: dto.ToTimelineEntryDTOs(page.Entries, uc.renderer),
		Count:   page.Count,
	}, nil
}
