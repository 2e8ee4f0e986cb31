package permission

import (
	"context"
	"errors"

	"github.com/casework-hq/casework/internal/domain/permission"
	"github.com/casework-hq/casework/internal/shared/logger"
)

// RuleSetProvider resolves the active rule set of an account.
type RuleSetProvider interface {
	Get(ctx context.Context, accountSID string) (*permission.RuleSet, error)
}

// Authorizer answers "may this user do this to that" for the user's own
// account policy.
type Authorizer struct {
	rules  RuleSetProvider
	engine *permission.Engine
	logger logger.Interface
}

func NewAuthorizer(rules RuleSetProvider, engine *permission.Engine, logger logger.Interface) *Authorizer {
	return &Authorizer{
		rules:  rules,
		engine: engine,
		logger: logger,
	}
}

// Can evaluates action against target. An account without a policy denies
// every action. Other errors are configuration or infrastructure failures and
// always come with a false result.
func (a *Authorizer) Can(ctx context.Context, user permission.User, action permission.Action, target permission.Target) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	rules, err := a.rules.Get(ctx, user.AccountSID)
	if err != nil {
		if errors.Is(err, permission.ErrRulesNotFound) {
			a.logger.Warnw("no rule set for account, denying",
				"account_sid", user.AccountSID,
				"action", action,
			)
			return false, nil
		}
		return false, err
	}

	return a.engine.Can(user, rules, action, target)
}
