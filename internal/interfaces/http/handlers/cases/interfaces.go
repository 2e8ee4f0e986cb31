package cases

import (
	"context"

	"github.com/casework-hq/casework/internal/application/cases/dto"
	"github.com/casework-hq/casework/internal/application/cases/usecases"
)

type CreateCaseExecutor interface {
	Execute(ctx context.Context, cmd usecases.CreateCaseCommand) (*dto.CaseDTO, error)
}

type ChangeCaseStatusExecutor interface {
	Execute(ctx context.Context, cmd usecases.ChangeCaseStatusCommand) (*usecases.ChangeCaseStatusResult, error)
}

type UpdateCaseOverviewExecutor interface {
	Execute(ctx context.Context, cmd usecases.UpdateCaseOverviewCommand) (*dto.CaseDTO, error)
}

type ConnectContactExecutor interface {
	Execute(ctx context.Context, cmd usecases.ConnectContactCommand) (*dto.CaseDTO, error)
}

type AddCaseSectionExecutor interface {
	Execute(ctx context.Context, cmd usecases.AddCaseSectionCommand) (*dto.SectionDTO, error)
}

type UpdateCaseSectionExecutor interface {
	Execute(ctx context.Context, cmd usecases.UpdateCaseSectionCommand) (*dto.SectionDTO, error)
}

type DeleteCaseSectionExecutor interface {
	Execute(ctx context.Context, cmd usecases.DeleteCaseSectionCommand) error
}

type ListCaseActivitiesExecutor interface {
	Execute(ctx context.Context, q usecases.ListCaseActivitiesQuery) ([]*dto.ActivityDTO, error)
}

type GetCaseTimelineExecutor interface {
	Execute(ctx context.Context, q usecases.GetCaseTimelineQuery) (*usecases.GetCaseTimelineResult, error)
}
