package http

import (
	"gorm.io/gorm"

	"github.com/casework-hq/casework/internal/infrastructure/repository"
	shareddb "github.com/casework-hq/casework/internal/shared/db"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	caseRepo    *repository.CaseRepository
	sectionRepo *repository.CaseSectionRepository
	contactRepo *repository.ContactRepository
	targetRepo  *repository.TargetRepository
	txManager   *shareddb.TransactionManager
}

func newRepositories(db *gorm.DB) *repositories {
	caseRepo := repository.NewCaseRepository(db)
	contactRepo := repository.NewContactRepository(db)

	return &repositories{
		caseRepo:    caseRepo,
		sectionRepo: repository.NewCaseSectionRepository(db),
		contactRepo: contactRepo,
		targetRepo:  repository.NewTargetRepository(caseRepo, contactRepo),
		txManager:   shareddb.NewTransactionManager(db),
	}
}
