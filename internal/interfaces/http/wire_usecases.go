package http

import (
	"github.com/casework-hq/casework/internal/application/cases/usecases"
	apphistory "github.com/casework-hq/casework/internal/application/history"
	sharedConfig "github.com/casework-hq/casework/internal/shared/config"
)

// allUseCases holds all use case instances used by the application.
type allUseCases struct {
	createCaseUC     *usecases.CreateCaseUseCase
	changeStatusUC   *usecases.ChangeCaseStatusUseCase
	updateOverviewUC *usecases.UpdateCaseOverviewUseCase
	connectContactUC *usecases.ConnectContactUseCase

	addSectionUC    *usecases.AddCaseSectionUseCase
	updateSectionUC *usecases.UpdateCaseSectionUseCase
	deleteSectionUC *usecases.DeleteCaseSectionUseCase

	listActivitiesUC *usecases.ListCaseActivitiesUseCase
	getTimelineUC    *usecases.GetCaseTimelineUseCase
}

// ============================================================
// Section 3: Use cases
// ============================================================

func (c *Container) initUseCases() {
	repos := c.repos
	log := c.log
	snapshots := c.cfg.History.Mode == sharedConfig.HistoryModeSnapshots

	snapshotSource := apphistory.NewSnapshotSource(repos.caseRepo, repos.contactRepo, log.Named("history"))

	// Snapshot mode derives contacts from the case document, so the contact
	// source is only merged in alongside sections.
	var assembler *apphistory.Assembler
	if snapshots {
		assembler = apphistory.NewAssembler(c.perms.authorizer, log.Named("timeline"), snapshotSource)
	} else {
		assembler = apphistory.NewAssembler(c.perms.authorizer, log.Named("timeline"),
			apphistory.NewSectionSource(repos.sectionRepo),
			apphistory.NewContactSource(repos.contactRepo),
		)
	}

	c.ucs = &allUseCases{
		createCaseUC:     usecases.NewCreateCaseUseCase(repos.caseRepo, c.renderer, log),
		changeStatusUC:   usecases.NewChangeCaseStatusUseCase(repos.caseRepo, c.renderer, log),
		updateOverviewUC: usecases.NewUpdateCaseOverviewUseCase(repos.caseRepo, c.renderer, log),
		connectContactUC: usecases.NewConnectContactUseCase(repos.caseRepo, repos.contactRepo, repos.txManager, c.renderer, log),

		addSectionUC:    usecases.NewAddCaseSectionUseCase(repos.caseRepo, repos.sectionRepo, repos.txManager, snapshots, log),
		updateSectionUC: usecases.NewUpdateCaseSectionUseCase(repos.sectionRepo, log),
		deleteSectionUC: usecases.NewDeleteCaseSectionUseCase(repos.sectionRepo, log),

		listActivitiesUC: usecases.NewListCaseActivitiesUseCase(snapshotSource, c.perms.authorizer, c.renderer, log),
		getTimelineUC:    usecases.NewGetCaseTimelineUseCase(assembler, c.renderer, c.cfg.History.MaxPageSize, log),
	}

	log.Infow("case history configured", "mode", c.cfg.History.Mode, "max_page_size", c.cfg.History.MaxPageSize)
}
