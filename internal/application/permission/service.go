package permission

import (
	"context"
	"fmt"

	"github.com/casework-hq/casework/internal/domain/permission"
	"github.com/casework-hq/casework/internal/shared/logger"
)

// RuleWriter persists the policy of an account, replacing any previous one.
type RuleWriter interface {
	SaveRules(ctx context.Context, accountSID string, raw permission.RawRules) error
}

// RuleInvalidator drops a cached copy of an account policy.
type RuleInvalidator interface {
	InvalidateRules(ctx context.Context, accountSID string) error
}

// Service manages stored policies: validation against the catalogues, import
// and cache invalidation.
type Service struct {
	catalog      *permission.Catalog
	writer       RuleWriter
	cache        *RuleSetCache
	invalidators []RuleInvalidator
	logger       logger.Interface
}

func NewService(
	catalog *permission.Catalog,
	writer RuleWriter,
	cache *RuleSetCache,
	logger logger.Interface,
	invalidators ...RuleInvalidator,
) *Service {
	return &Service{
		catalog:      catalog,
		writer:       writer,
		cache:        cache,
		invalidators: invalidators,
		logger:       logger,
	}
}

// CheckRules compiles raw rules without storing them.
func (s *Service) CheckRules(raw permission.RawRules) (*permission.RuleSet, error) {
	return permission.CompileRules(raw, s.catalog)
}

// ImportRules validates and stores the policy of an account, then drops every
// cached copy so the next request sees it.
func (s *Service) ImportRules(ctx context.Context, accountSID string, raw permission.RawRules) (*permission.RuleSet, error) {
	if accountSID == "" {
		return nil, fmt.Errorf("account SID is required")
	}

	rules, err := s.CheckRules(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid rules for account %s: %w", accountSID, err)
	}

	if err := s.writer.SaveRules(ctx, accountSID, rules.Raw()); err != nil {
		return nil, fmt.Errorf("failed to save rules: %w", err)
	}

	for _, inv := range s.invalidators {
		if err := inv.InvalidateRules(ctx, accountSID); err != nil {
			s.logger.Warnw("failed to invalidate cached rules", "account_sid", accountSID, "error", err)
		}
	}
	if s.cache != nil {
		s.cache.Invalidate(accountSID)
	}

	s.logger.Infow("rules imported", "account_sid", accountSID, "actions", len(rules.Actions()))
	return rules, nil
}
