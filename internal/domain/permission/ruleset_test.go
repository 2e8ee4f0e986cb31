package permission

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileRules(t *testing.T) {
	catalog := NewDefaultCatalog()

	tests := []struct {
		name    string
		raw     RawRules
		wantErr error
	}{
		{
			name: "valid rules",
			raw: RawRules{
				"viewCase":  {{"everyone"}},
				"closeCase": {{"isSupervisor"}, {"isCreator", "isCaseOpen"}},
			},
		},
		{
			name:    "unknown action",
			raw:     RawRules{"deleteEverything": {{"everyone"}}},
			wantErr: ErrUnknownAction,
		},
		{
			name:    "unknown condition",
			raw:     RawRules{"viewCase": {{"isAstronaut"}}},
			wantErr: ErrUnknownCondition,
		},
		{
			name:    "bad family parameter",
			raw:     RawRules{"viewCase": {{"createdHoursAgo:soon"}}},
			wantErr: ErrUnknownCondition,
		},
		{
			name:    "empty condition set",
			raw:     RawRules{"viewCase": {{}}},
			wantErr: ErrMalformedRules,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs, err := CompileRules(tt.raw, catalog)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Nil(t, rs)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, rs)
		})
	}
}

func TestCompileRules_NilCatalog(t *testing.T) {
	_, err := CompileRules(RawRules{}, nil)
	assert.True(t, errors.Is(err, ErrMalformedRules))
}

func TestRuleSet_Introspection(t *testing.T) {
	raw := RawRules{
		"viewCase":  {{"everyone"}},
		"closeCase": {{"isSupervisor"}, {"isCreator", "isCaseOpen"}},
	}
	rs, err := CompileRules(raw, NewDefaultCatalog())
	require.NoError(t, err)

	assert.Equal(t, []Action{ActionCloseCase, ActionViewCase}, rs.Actions())
	assert.Equal(t, [][]string{{"isSupervisor"}, {"isCreator", "isCaseOpen"}}, rs.ConditionSets(ActionCloseCase))
	assert.Nil(t, rs.ConditionSets(ActionReopenCase))
	assert.Equal(t, raw, rs.Raw())

	sets := rs.ConditionSets(ActionViewCase)
	sets[0][0] = "isSupervisor"
	assert.Equal(t, [][]string{{"everyone"}}, rs.ConditionSets(ActionViewCase), "returned slices must be copies")
}
