package permission

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casework-hq/casework/internal/domain/permission"
	"github.com/casework-hq/casework/internal/shared/logger"
)

func TestService_ImportRules(t *testing.T) {
	var saved permission.RawRules
	writer := &mockRuleWriter{
		SaveRulesFunc: func(ctx context.Context, accountSID string, raw permission.RawRules) error {
			saved = raw
			return nil
		},
	}
	loader := &mockRuleLoader{
		LoadRulesFunc: func(ctx context.Context, accountSID string) (permission.RawRules, error) {
			if saved == nil {
				return viewRules, nil
			}
			return saved, nil
		},
	}
	cache := newTestCache(loader, 0)
	redis := &mockInvalidator{}
	svc := NewService(permission.NewDefaultCatalog(), writer, cache, logger.NewNop(), redis)

	before, err := cache.Get(context.Background(), "AC1")
	require.NoError(t, err)
	assert.Nil(t, before.ConditionSets(permission.ActionCloseCase))

	_, err = svc.ImportRules(context.Background(), "AC1", permission.RawRules{
		"closeCase": {{"isSupervisor"}, {"isCreator", "isCaseOpen"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"AC1"}, redis.invalidated)

	after, err := cache.Get(context.Background(), "AC1")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"isSupervisor"}, {"isCreator", "isCaseOpen"}}, after.ConditionSets(permission.ActionCloseCase))
}

func TestService_ImportRejectsInvalidRules(t *testing.T) {
	writer := &mockRuleWriter{
		SaveRulesFunc: func(context.Context, string, permission.RawRules) error {
			t.Fatal("invalid rules must not be saved")
			return nil
		},
	}
	svc := NewService(permission.NewDefaultCatalog(), writer, nil, logger.NewNop())

	_, err := svc.ImportRules(context.Background(), "AC1", permission.RawRules{"viewCase": {{"isAstronaut"}}})
	assert.ErrorIs(t, err, permission.ErrUnknownCondition)

	_, err = svc.ImportRules(context.Background(), "AC1", permission.RawRules{"flyCase": {{"everyone"}}})
	assert.ErrorIs(t, err, permission.ErrUnknownAction)

	_, err = svc.ImportRules(context.Background(), "", permission.RawRules{})
	assert.Error(t, err)
}
