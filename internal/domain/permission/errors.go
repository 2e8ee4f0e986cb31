package permission

import "errors"

// Configuration errors. These indicate a broken policy or deployment and are
// never returned for an ordinary denial.
var (
	ErrUnknownAction      = errors.New("unknown action")
	ErrUnknownCondition   = errors.New("unknown condition")
	ErrTargetKindMismatch = errors.New("action does not apply to target kind")
	ErrMalformedRules     = errors.New("malformed rule set")
)

// ErrRulesNotFound is returned by rule loaders when an account has no policy.
var ErrRulesNotFound = errors.New("no rules configured for account")
