package permission

import (
	"context"
	"fmt"

	"github.com/casework-hq/casework/internal/domain/permission"
	"github.com/casework-hq/casework/internal/shared/logger"
)

// RuleImporter validates and stores the rules of one account.
type RuleImporter interface {
	ImportRules(ctx context.Context, accountSID string, raw permission.RawRules) (*permission.RuleSet, error)
}

// RuleSync copies every per-account rules file into a rule store.
type RuleSync struct {
	source   *FileRuleSource
	importer RuleImporter
	logger   logger.Interface
}

func NewRuleSync(source *FileRuleSource, importer RuleImporter, logger logger.Interface) *RuleSync {
	return &RuleSync{
		source:   source,
		importer: importer,
		logger:   logger,
	}
}

// SyncAll parses every account file before importing any of them and stops
// at the first failure.
func (s *RuleSync) SyncAll(ctx context.Context) (int, error) {
	s.logger.Infow("syncing rule files")

	accounts, err := s.source.Accounts()
	if err != nil {
		return 0, err
	}

	pending := make(map[string]permission.RawRules, len(accounts))
	for _, account := range accounts {
		raw, err := s.source.LoadRules(ctx, account)
		if err != nil {
			return 0, fmt.Errorf("account %s: %w", account, err)
		}
		pending[account] = raw
	}

	imported := 0
	for _, account := range accounts {
		if err := ctx.Err(); err != nil {
			return imported, err
		}
		if _, err := s.importer.ImportRules(ctx, account, pending[account]); err != nil {
			return imported, fmt.Errorf("account %s: %w", account, err)
		}
		imported++
	}

	s.logger.Infow("rule files synced", "accounts", imported)
	return imported, nil
}
