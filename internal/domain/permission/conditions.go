package permission

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ConditionContext carries request-independent inputs to conditions.
type ConditionContext struct {
	Now time.Time
}

// Condition is a named predicate over a user and a target. Conditions must not
// mutate their arguments.
type Condition func(user User, target Target, cc ConditionContext) (bool, error)

// ConditionFactory builds a condition from the parameter of a parameterised
// name such as "createdHoursAgo:12".
type ConditionFactory func(param string) (Condition, error)

const (
	ConditionEveryone        = "everyone"
	ConditionIsSupervisor    = "isSupervisor"
	ConditionIsCreator       = "isCreator"
	ConditionIsOwner         = "isOwner"
	ConditionIsCaseOpen      = "isCaseOpen"
	ConditionIsSystemUser    = "isSystemUser"
	ConditionCreatedHoursAgo = "createdHoursAgo"
	ConditionCreatedDaysAgo  = "createdDaysAgo"

	familySeparator = ":"
	closedStatus    = "closed"
)

// Catalog is the registry of named conditions available to rule sets. It is
// populated at startup and is read-only afterwards, which makes it safe for
// concurrent Resolve calls.
type Catalog struct {
	conditions map[string]Condition
	families   map[string]ConditionFactory
}

func NewCatalog() *Catalog {
	return &Catalog{
		conditions: make(map[string]Condition),
		families:   make(map[string]ConditionFactory),
	}
}

// NewDefaultCatalog returns a catalog holding the built-in conditions.
func NewDefaultCatalog() *Catalog {
	c := NewCatalog()
	c.mustRegister(ConditionEveryone, everyone)
	c.mustRegister(ConditionIsSupervisor, isSupervisor)
	c.mustRegister(ConditionIsCreator, isCreator)
	c.mustRegister(ConditionIsOwner, isOwner)
	c.mustRegister(ConditionIsCaseOpen, isCaseOpen)
	c.mustRegister(ConditionIsSystemUser, isSystemUser)
	c.mustRegisterFamily(ConditionCreatedHoursAgo, createdWithin(time.Hour))
	c.mustRegisterFamily(ConditionCreatedDaysAgo, createdWithin(24*time.Hour))
	return c
}

func (c *Catalog) Register(name string, cond Condition) error {
	if name == "" || strings.Contains(name, familySeparator) {
		return fmt.Errorf("invalid condition name %q", name)
	}
	if cond == nil {
		return fmt.Errorf("condition %q is nil", name)
	}
	if _, exists := c.conditions[name]; exists {
		return fmt.Errorf("condition %q is already registered", name)
	}
	c.conditions[name] = cond
	return nil
}

func (c *Catalog) RegisterFamily(prefix string, factory ConditionFactory) error {
	if prefix == "" || strings.Contains(prefix, familySeparator) {
		return fmt.Errorf("invalid condition family %q", prefix)
	}
	if factory == nil {
		return fmt.Errorf("condition family %q has no factory", prefix)
	}
	if _, exists := c.families[prefix]; exists {
		return fmt.Errorf("condition family %q is already registered", prefix)
	}
	c.families[prefix] = factory
	return nil
}

// Resolve looks a condition up by name. Parameterised names are built through
// their family factory.
func (c *Catalog) Resolve(name string) (Condition, error) {
	if cond, ok := c.conditions[name]; ok {
		return cond, nil
	}

	prefix, param, found := strings.Cut(name, familySeparator)
	if found {
		if factory, ok := c.families[prefix]; ok {
			cond, err := factory(param)
			if err != nil {
				return nil, fmt.Errorf("%w: %q: %v", ErrUnknownCondition, name, err)
			}
			return cond, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownCondition, name)
}

func (c *Catalog) mustRegister(name string, cond Condition) {
	if err := c.Register(name, cond); err != nil {
		panic(err)
	}
}

func (c *Catalog) mustRegisterFamily(prefix string, factory ConditionFactory) {
	if err := c.RegisterFamily(prefix, factory); err != nil {
		panic(err)
	}
}

func everyone(User, Target, ConditionContext) (bool, error) {
	return true, nil
}

func isSupervisor(user User, _ Target, _ ConditionContext) (bool, error) {
	return user.IsSupervisor(), nil
}

func isSystemUser(user User, _ Target, _ ConditionContext) (bool, error) {
	return user.IsSystemUser, nil
}

func isCreator(user User, target Target, _ ConditionContext) (bool, error) {
	c, ok := target.(Creatable)
	if !ok {
		return false, fmt.Errorf("%s target does not record a creator", target.TargetKind())
	}
	return user.WorkerSID != "" && c.CreatorID() == user.WorkerSID, nil
}

func isOwner(user User, target Target, _ ConditionContext) (bool, error) {
	o, ok := target.(Owned)
	if !ok {
		return false, fmt.Errorf("%s target has no owner", target.TargetKind())
	}
	return user.WorkerSID != "" && o.OwnerID() == user.WorkerSID, nil
}

func isCaseOpen(_ User, target Target, _ ConditionContext) (bool, error) {
	if target.TargetKind() != TargetKindCase {
		return false, fmt.Errorf("isCaseOpen evaluated against %s target", target.TargetKind())
	}
	s, ok := target.(StatusBearer)
	if !ok {
		return false, fmt.Errorf("case target has no status")
	}
	return s.StatusValue() != closedStatus, nil
}

// createdWithin builds conditions that hold while the target is younger than
// param units.
func createdWithin(unit time.Duration) ConditionFactory {
	return func(param string) (Condition, error) {
		n, err := strconv.Atoi(param)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("expected a positive integer, got %q", param)
		}
		limit := time.Duration(n) * unit

		return func(_ User, target Target, cc ConditionContext) (bool, error) {
			t, ok := target.(Timestamped)
			if !ok {
				return false, fmt.Errorf("%s target has no creation time", target.TargetKind())
			}
			return cc.Now.Sub(t.CreatedAt()) < limit, nil
		}, nil
	}
}
