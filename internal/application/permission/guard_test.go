package permission

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casework-hq/casework/internal/domain/cases"
	vo "github.com/casework-hq/casework/internal/domain/cases/valueobjects"
	"github.com/casework-hq/casework/internal/domain/permission"
	"github.com/casework-hq/casework/internal/shared/authorization"
	apperrors "github.com/casework-hq/casework/internal/shared/errors"
	"github.com/casework-hq/casework/internal/shared/logger"
)

func loaderFor(targets ...*stubTarget) *mockTargetLoader {
	return &mockTargetLoader{
		GetTargetByIDFunc: func(ctx context.Context, kind permission.TargetKind, id string, accountSID string) (permission.Target, error) {
			for _, t := range targets {
				if t.kind == kind && t.id == id {
					return t, nil
				}
			}
			return nil, nil
		},
	}
}

func allow(actions ...permission.Action) *mockChecker {
	return &mockChecker{
		CanFunc: func(ctx context.Context, user permission.User, action permission.Action, target permission.Target) (bool, error) {
			for _, a := range actions {
				if a == action {
					return true, nil
				}
			}
			return false, nil
		},
	}
}

func caseRequest(id string, payload map[string]any) *authorization.Request {
	return authorization.NewRequest(
		permission.NewUser("AC1", "W1", nil, false),
		"PATCH", "/cases/"+id,
		map[string]string{"id": id, "sectionType": "note"},
		payload,
	)
}

func TestGuardFactory_ForTarget(t *testing.T) {
	open := &stubTarget{kind: permission.TargetKindCase, id: "1", status: "open"}
	byID := ParamTargetID("id")

	tests := []struct {
		name       string
		checker    *mockChecker
		actions    ActionFunc
		id         string
		wantPermit bool
		wantErr    func(error) bool
	}{
		{
			name:       "allowed action permits",
			checker:    allow(permission.ActionViewCase),
			actions:    StaticAction(permission.ActionViewCase),
			id:         "1",
			wantPermit: true,
		},
		{
			name:    "denied action blocks without error",
			checker: allow(),
			actions: StaticAction(permission.ActionViewCase),
			id:      "1",
		},
		{
			name:    "every generated action must pass",
			checker: allow(permission.ActionEditCaseOverview),
			actions: func(*authorization.Request, permission.Target) ([]permission.Action, error) {
				return []permission.Action{permission.ActionEditCaseOverview, permission.ActionEditChildIsAtRisk}, nil
			},
			id: "1",
		},
		{
			name:    "no generated actions blocks",
			checker: allow(permission.ActionViewCase),
			actions: func(*authorization.Request, permission.Target) ([]permission.Action, error) { return nil, nil },
			id:      "1",
		},
		{
			name:    "missing target is not found",
			checker: allow(permission.ActionViewCase),
			actions: StaticAction(permission.ActionViewCase),
			id:      "404",
			wantErr: apperrors.IsNotFoundError,
		},
		{
			name:    "missing id is a validation error",
			checker: allow(permission.ActionViewCase),
			actions: StaticAction(permission.ActionViewCase),
			id:      "",
			wantErr: apperrors.IsValidationError,
		},
		{
			name: "unknown action denies",
			checker: &mockChecker{CanFunc: func(context.Context, permission.User, permission.Action, permission.Target) (bool, error) {
				return false, fmt.Errorf("%w: \"bogus\"", permission.ErrUnknownAction)
			}},
			actions: StaticAction("bogus"),
			id:      "1",
		},
		{
			name: "configuration error is internal",
			checker: &mockChecker{CanFunc: func(context.Context, permission.User, permission.Action, permission.Target) (bool, error) {
				return false, permission.ErrTargetKindMismatch
			}},
			actions: StaticAction(permission.ActionViewContact),
			id:      "1",
			wantErr: apperrors.IsInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory := NewGuardFactory(loaderFor(open), tt.checker, logger.NewNop())
			req := caseRequest(tt.id, nil)

			decision, err := authorization.Evaluate(context.Background(), req,
				factory.ForTarget(permission.TargetKindCase, byID, tt.actions))

			assert.Equal(t, tt.wantPermit, decision.Permitted)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, tt.wantErr(err), "unexpected error %v", err)
			} else {
				assert.NoError(t, err)
			}

			stored, ok := TargetFrom[*stubTarget](req, permission.TargetKindCase)
			assert.Equal(t, tt.wantPermit, ok)
			if ok {
				assert.Same(t, open, stored)
			}
		})
	}
}

func TestGuardFactory_LoaderFailureIsInternal(t *testing.T) {
	loader := &mockTargetLoader{
		GetTargetByIDFunc: func(context.Context, permission.TargetKind, string, string) (permission.Target, error) {
			return nil, errors.New("connection refused")
		},
	}
	factory := NewGuardFactory(loader, allow(permission.ActionViewCase), logger.NewNop())

	decision, err := authorization.Evaluate(context.Background(), caseRequest("1", nil),
		factory.ForTarget(permission.TargetKindCase, ParamTargetID("id"), StaticAction(permission.ActionViewCase)))

	assert.False(t, decision.Permitted)
	assert.True(t, apperrors.IsInternalError(err))
}

func TestGuardFactory_NoPermitAfterCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	checker := &mockChecker{
		CanFunc: func(context.Context, permission.User, permission.Action, permission.Target) (bool, error) {
			cancel()
			return true, nil
		},
	}
	open := &stubTarget{kind: permission.TargetKindCase, id: "1", status: "open"}
	factory := NewGuardFactory(loaderFor(open), checker, logger.NewNop())

	decision, err := authorization.Evaluate(ctx, caseRequest("1", nil),
		factory.ForTarget(permission.TargetKindCase, ParamTargetID("id"), StaticAction(permission.ActionViewCase)))

	assert.False(t, decision.Permitted)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGuardFactory_ForTargets(t *testing.T) {
	t1 := &stubTarget{kind: permission.TargetKindCase, id: "1"}
	t2 := &stubTarget{kind: permission.TargetKindCase, id: "2"}
	ids := func(ids ...string) TargetIDsFunc {
		return func(*authorization.Request) ([]string, error) { return ids, nil }
	}
	onlyCase1 := &mockChecker{
		CanFunc: func(_ context.Context, _ permission.User, _ permission.Action, target permission.Target) (bool, error) {
			return target.TargetID() == "1", nil
		},
	}

	factory := NewGuardFactory(loaderFor(t1, t2), allow(permission.ActionViewCase), logger.NewNop())
	req := caseRequest("1", nil)
	decision, err := authorization.Evaluate(context.Background(), req,
		factory.ForTargets(permission.TargetKindCase, ids("1", "2"), StaticAction(permission.ActionViewCase)))
	require.NoError(t, err)
	assert.True(t, decision.Permitted)
	assert.Len(t, TargetsFrom(req, permission.TargetKindCase), 2)

	factory = NewGuardFactory(loaderFor(t1, t2), onlyCase1, logger.NewNop())
	decision, err = authorization.Evaluate(context.Background(), caseRequest("1", nil),
		factory.ForTargets(permission.TargetKindCase, ids("1", "2"), StaticAction(permission.ActionViewCase)))
	require.NoError(t, err)
	assert.False(t, decision.Permitted)

	decision, err = authorization.Evaluate(context.Background(), caseRequest("1", nil),
		factory.ForTargets(permission.TargetKindCase, ids(), StaticAction(permission.ActionViewCase)))
	require.NoError(t, err)
	assert.False(t, decision.Permitted)
}

// A counsellor closing an open case that a supervisor opened on their behalf.
func TestCloseCaseScenario(t *testing.T) {
	rules := permission.RawRules{
		"viewCase":  {{"everyone"}},
		"closeCase": {{"isSupervisor"}, {"isCreator", "isCaseOpen"}},
	}
	cache := NewRuleSetCache(
		permission.RuleLoaderFunc(func(context.Context, string) (permission.RawRules, error) { return rules, nil }),
		permission.NewDefaultCatalog(), 0, logger.NewNop(),
	)
	authz := NewAuthorizer(cache, permission.NewEngine(logger.NewNop()), logger.NewNop())

	now := time.Now().UTC()
	caseWithStatus := func(status vo.CaseStatus) *cases.Case {
		c, err := cases.ReconstructCase(7, "AC1", status, "W1", "S1", "S1", cases.CaseInfo{}, nil, now, now)
		require.NoError(t, err)
		return c
	}

	tests := []struct {
		name       string
		user       permission.User
		status     vo.CaseStatus
		newStatus  string
		wantPermit bool
	}{
		{name: "creator closes open case", user: permission.NewUser("AC1", "W1", nil, false), status: vo.StatusOpen, newStatus: "closed", wantPermit: true},
		{name: "other worker cannot close", user: permission.NewUser("AC1", "W2", nil, false), status: vo.StatusOpen, newStatus: "closed"},
		{name: "submitting account is not the creator", user: permission.NewUser("AC1", "S1", nil, false), status: vo.StatusOpen, newStatus: "closed"},
		{name: "supervisor closes any case", user: permission.NewUser("AC1", "W2", []string{"supervisor"}, false), status: vo.StatusInProgress, newStatus: "closed", wantPermit: true},
		{name: "creator cannot reopen without a rule", user: permission.NewUser("AC1", "W1", nil, false), status: vo.StatusClosed, newStatus: "open"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := caseWithStatus(tt.status)
			loader := &mockTargetLoader{
				GetTargetByIDFunc: func(_ context.Context, kind permission.TargetKind, id string, accountSID string) (permission.Target, error) {
					if kind == permission.TargetKindCase && id == "7" && accountSID == "AC1" {
						return target, nil
					}
					return nil, nil
				},
			}
			factory := NewGuardFactory(loader, authz, logger.NewNop())
			req := authorization.NewRequest(tt.user, "PATCH", "/cases/7/status",
				map[string]string{"id": "7"}, map[string]any{"status": tt.newStatus})

			decision, err := authorization.Evaluate(context.Background(), req,
				factory.ForTarget(permission.TargetKindCase, ParamTargetID("id"), CaseStatusActions))

			require.NoError(t, err)
			assert.Equal(t, tt.wantPermit, decision.Permitted)
		})
	}
}

func TestPayloadTargetIDs(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
		want    []string
		wantErr bool
	}{
		{name: "numbers and strings", payload: map[string]any{"caseIds": []any{float64(1), "2", float64(1)}}, want: []string{"1", "2"}},
		{name: "missing", payload: map[string]any{}, wantErr: true},
		{name: "empty list", payload: map[string]any{"caseIds": []any{}}, wantErr: true},
		{name: "fractional", payload: map[string]any{"caseIds": []any{1.5}}, wantErr: true},
		{name: "negative", payload: map[string]any{"caseIds": []any{float64(-3)}}, wantErr: true},
		{name: "object", payload: map[string]any{"caseIds": []any{map[string]any{}}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, err := PayloadTargetIDs("caseIds")(caseRequest("1", tt.payload))
			if tt.wantErr {
				assert.True(t, apperrors.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestPayloadTargetID(t *testing.T) {
	id, err := PayloadTargetID("contactId")(caseRequest("1", map[string]any{"contactId": float64(42)}))
	require.NoError(t, err)
	assert.Equal(t, "42", id)

	_, err = PayloadTargetID("contactId")(caseRequest("1", map[string]any{"contactId": " "}))
	assert.True(t, apperrors.IsValidationError(err))
}
