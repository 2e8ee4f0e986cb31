package permission

import "fmt"

// TargetKind identifies the kind of entity an action is performed on.
type TargetKind string

const (
	TargetKindCase    TargetKind = "case"
	TargetKindContact TargetKind = "contact"
)

func (k TargetKind) String() string {
	return string(k)
}

func (k TargetKind) IsValid() bool {
	return k == TargetKindCase || k == TargetKindContact
}

// Action is a named operation subject to authorization. Every action belongs
// to exactly one TargetKind.
type Action string

const (
	ActionViewCase             Action = "viewCase"
	ActionCloseCase            Action = "closeCase"
	ActionReopenCase           Action = "reopenCase"
	ActionCaseStatusTransition Action = "caseStatusTransition"
	ActionEditCaseOverview     Action = "editCaseOverview"
	ActionAddNote              Action = "addNote"
	ActionEditNote             Action = "editNote"
	ActionAddReferral          Action = "addReferral"
	ActionEditReferral         Action = "editReferral"
	ActionAddHousehold         Action = "addHousehold"
	ActionEditHousehold        Action = "editHousehold"
	ActionAddPerpetrator       Action = "addPerpetrator"
	ActionEditPerpetrator      Action = "editPerpetrator"
	ActionAddIncident          Action = "addIncident"
	ActionEditIncident         Action = "editIncident"
	ActionAddDocument          Action = "addDocument"
	ActionEditDocument         Action = "editDocument"
	ActionEditChildIsAtRisk    Action = "editChildIsAtRisk"
	ActionEditFollowUpDate     Action = "editFollowUpDate"
	ActionUpdateCaseContacts   Action = "updateCaseContacts"
	ActionDeleteCaseSection    Action = "deleteCaseSection"

	ActionViewContact            Action = "viewContact"
	ActionEditContact            Action = "editContact"
	ActionViewExternalTranscript Action = "viewExternalTranscript"
	ActionViewRecording          Action = "viewRecording"
	ActionAddContactToCase       Action = "addContactToCase"
	ActionRemoveContactFromCase  Action = "removeContactFromCase"
)

var actionKinds = map[Action]TargetKind{
	ActionViewCase:             TargetKindCase,
	ActionCloseCase:            TargetKindCase,
	ActionReopenCase:           TargetKindCase,
	ActionCaseStatusTransition: TargetKindCase,
	ActionEditCaseOverview:     TargetKindCase,
	ActionAddNote:              TargetKindCase,
	ActionEditNote:             TargetKindCase,
	ActionAddReferral:          TargetKindCase,
	ActionEditReferral:         TargetKindCase,
	ActionAddHousehold:         TargetKindCase,
	ActionEditHousehold:        TargetKindCase,
	ActionAddPerpetrator:       TargetKindCase,
	ActionEditPerpetrator:      TargetKindCase,
	ActionAddIncident:          TargetKindCase,
	ActionEditIncident:         TargetKindCase,
	ActionAddDocument:          TargetKindCase,
	ActionEditDocument:         TargetKindCase,
	ActionEditChildIsAtRisk:    TargetKindCase,
	ActionEditFollowUpDate:     TargetKindCase,
	ActionUpdateCaseContacts:   TargetKindCase,
	ActionDeleteCaseSection:    TargetKindCase,

	ActionViewContact:            TargetKindContact,
	ActionEditContact:            TargetKindContact,
	ActionViewExternalTranscript: TargetKindContact,
	ActionViewRecording:          TargetKindContact,
	ActionAddContactToCase:       TargetKindContact,
	ActionRemoveContactFromCase:  TargetKindContact,
}

// SectionVerb distinguishes adding a case section from editing one.
type SectionVerb string

const (
	SectionVerbAdd  SectionVerb = "add"
	SectionVerbEdit SectionVerb = "edit"
)

var sectionActions = map[string]map[SectionVerb]Action{
	"note":        {SectionVerbAdd: ActionAddNote, SectionVerbEdit: ActionEditNote},
	"referral":    {SectionVerbAdd: ActionAddReferral, SectionVerbEdit: ActionEditReferral},
	"household":   {SectionVerbAdd: ActionAddHousehold, SectionVerbEdit: ActionEditHousehold},
	"perpetrator": {SectionVerbAdd: ActionAddPerpetrator, SectionVerbEdit: ActionEditPerpetrator},
	"incident":    {SectionVerbAdd: ActionAddIncident, SectionVerbEdit: ActionEditIncident},
	"document":    {SectionVerbAdd: ActionAddDocument, SectionVerbEdit: ActionEditDocument},
}

// ParseAction resolves an action name against the closed catalogue.
func ParseAction(name string) (Action, error) {
	a := Action(name)
	if _, ok := actionKinds[a]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
	return a, nil
}

// SectionAction returns the action guarding the given verb on a section type.
func SectionAction(sectionType string, verb SectionVerb) (Action, error) {
	verbs, ok := sectionActions[sectionType]
	if !ok {
		return "", fmt.Errorf("%w: no %s action for section type %q", ErrUnknownAction, verb, sectionType)
	}
	a, ok := verbs[verb]
	if !ok {
		return "", fmt.Errorf("%w: no %s action for section type %q", ErrUnknownAction, verb, sectionType)
	}
	return a, nil
}

// ActionsForKind lists every catalogued action of a target kind.
func ActionsForKind(kind TargetKind) []Action {
	var actions []Action
	for a, k := range actionKinds {
		if k == kind {
			actions = append(actions, a)
		}
	}
	return actions
}

func (a Action) String() string {
	return string(a)
}

func (a Action) IsValid() bool {
	_, ok := actionKinds[a]
	return ok
}

// Kind returns the target kind the action applies to, or "" when the action
// is not catalogued.
func (a Action) Kind() TargetKind {
	return actionKinds[a]
}
