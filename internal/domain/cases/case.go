package cases

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	vo "github.com/casework-hq/casework/internal/domain/cases/valueobjects"
	"github.com/casework-hq/casework/internal/domain/permission"
	"github.com/casework-hq/casework/internal/shared/biztime"
)

const maxSummaryLength = 5000

// Case is a helpline case. Every mutation goes through a method so that the
// repository can record the change as an audit snapshot pair.
type Case struct {
	id             uint
	accountSID     string
	status         vo.CaseStatus
	twilioWorkerID string
	createdBy      string
	updatedBy      string
	info           CaseInfo
	contactIDs     []uint
	createdAt      time.Time
	updatedAt      time.Time
}

func NewCase(accountSID, twilioWorkerID, createdBy string, info CaseInfo) (*Case, error) {
	if accountSID == "" {
		return nil, fmt.Errorf("account SID is required")
	}
	if createdBy == "" {
		return nil, fmt.Errorf("creator is required")
	}
	if len(info.Summary) > maxSummaryLength {
		return nil, fmt.Errorf("summary exceeds maximum length of %d characters", maxSummaryLength)
	}
	if twilioWorkerID == "" {
		twilioWorkerID = createdBy
	}

	now := biztime.NowUTC()
	return &Case{
		accountSID:     accountSID,
		status:         vo.StatusOpen,
		twilioWorkerID: twilioWorkerID,
		createdBy:      createdBy,
		info:           info.Clone(),
		contactIDs:     []uint{},
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

func ReconstructCase(
	id uint,
	accountSID string,
	status vo.CaseStatus,
	twilioWorkerID string,
	createdBy string,
	updatedBy string,
	info CaseInfo,
	contactIDs []uint,
	createdAt, updatedAt time.Time,
) (*Case, error) {
	if id == 0 {
		return nil, fmt.Errorf("case ID cannot be zero")
	}
	if accountSID == "" {
		return nil, fmt.Errorf("account SID is required")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status")
	}
	if contactIDs == nil {
		contactIDs = []uint{}
	}

	return &Case{
		id:             id,
		accountSID:     accountSID,
		status:         status,
		twilioWorkerID: twilioWorkerID,
		createdBy:      createdBy,
		updatedBy:      updatedBy,
		info:           info,
		contactIDs:     contactIDs,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}, nil
}

func (c *Case) ID() uint {
	return c.id
}

func (c *Case) AccountSID() string {
	return c.accountSID
}

func (c *Case) Status() vo.CaseStatus {
	return c.status
}

func (c *Case) TwilioWorkerID() string {
	return c.twilioWorkerID
}

func (c *Case) CreatedBy() string {
	return c.createdBy
}

func (c *Case) UpdatedBy() string {
	return c.updatedBy
}

// Info returns a copy of the case document.
func (c *Case) Info() CaseInfo {
	return c.info.Clone()
}

func (c *Case) ContactIDs() []uint {
	return slices.Clone(c.contactIDs)
}

func (c *Case) CreatedAt() time.Time {
	return c.createdAt
}

func (c *Case) UpdatedAt() time.Time {
	return c.updatedAt
}

func (c *Case) TargetKind() permission.TargetKind {
	return permission.TargetKindCase
}

func (c *Case) TargetID() string {
	return strconv.FormatUint(uint64(c.id), 10)
}

// CreatorID is the worker the case was opened for. isCreator compares against
// it rather than createdBy, so a case a supervisor submits on a counsellor's
// behalf belongs to the counsellor.
func (c *Case) CreatorID() string {
	return c.twilioWorkerID
}

// OwnerID is the worker the case is assigned to.
func (c *Case) OwnerID() string {
	return c.twilioWorkerID
}

func (c *Case) StatusValue() string {
	return c.status.String()
}

func (c *Case) SetID(id uint) error {
	if c.id != 0 {
		return fmt.Errorf("case ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("case ID cannot be zero")
	}
	c.id = id
	return nil
}

func (c *Case) ChangeStatus(newStatus vo.CaseStatus, changedBy string) error {
	if !newStatus.IsValid() {
		return fmt.Errorf("invalid status: %s", newStatus)
	}
	if !c.status.CanTransitionTo(newStatus) {
		return fmt.Errorf("cannot transition from %s to %s", c.status, newStatus)
	}
	c.status = newStatus
	c.touch(changedBy)
	return nil
}

// OverviewUpdate holds the overview fields a caller wants to change. Nil
// fields are left untouched. ClearFollowUpDate removes the date.
type OverviewUpdate struct {
	Summary           *string
	ChildIsAtRisk     *bool
	FollowUpDate      *time.Time
	ClearFollowUpDate bool
}

// ChangedFields lists the overview fields a request touches, by their JSON
// names.
func (u OverviewUpdate) ChangedFields() []string {
	var fields []string
	if u.Summary != nil {
		fields = append(fields, "summary")
	}
	if u.ChildIsAtRisk != nil {
		fields = append(fields, "childIsAtRisk")
	}
	if u.FollowUpDate != nil || u.ClearFollowUpDate {
		fields = append(fields, "followUpDate")
	}
	return fields
}

func (c *Case) UpdateOverview(u OverviewUpdate, updatedBy string) error {
	if len(u.ChangedFields()) == 0 {
		return fmt.Errorf("no overview fields to update")
	}
	if u.Summary != nil {
		if len(*u.Summary) > maxSummaryLength {
			return fmt.Errorf("summary exceeds maximum length of %d characters", maxSummaryLength)
		}
		c.info.Summary = *u.Summary
	}
	if u.ChildIsAtRisk != nil {
		c.info.ChildIsAtRisk = *u.ChildIsAtRisk
	}
	switch {
	case u.ClearFollowUpDate:
		c.info.FollowUpDate = nil
	case u.FollowUpDate != nil:
		d := u.FollowUpDate.UTC()
		c.info.FollowUpDate = &d
	}
	c.touch(updatedBy)
	return nil
}

func (c *Case) AddNote(note Note, addedBy string) error {
	if note.Text == "" {
		return fmt.Errorf("note text is required")
	}
	if note.TwilioWorkerID == "" {
		note.TwilioWorkerID = addedBy
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = biztime.NowUTC()
	}
	c.info.Notes = append(c.info.Notes, note)
	c.touch(addedBy)
	return nil
}

func (c *Case) AddReferral(referral Referral, addedBy string) error {
	if referral.ReferredTo == "" {
		return fmt.Errorf("referral destination is required")
	}
	if referral.Date.IsZero() {
		return fmt.Errorf("referral date is required")
	}
	c.info.Referrals = append(c.info.Referrals, referral)
	c.touch(addedBy)
	return nil
}

func (c *Case) ConnectContact(contactID uint, connectedBy string) error {
	if contactID == 0 {
		return fmt.Errorf("contact ID is required")
	}
	if slices.Contains(c.contactIDs, contactID) {
		return fmt.Errorf("contact %d is already connected", contactID)
	}
	c.contactIDs = append(c.contactIDs, contactID)
	c.touch(connectedBy)
	return nil
}

// Snapshot captures the current state of the case.
func (c *Case) Snapshot() *CaseSnapshot {
	return &CaseSnapshot{
		Status:         c.status.String(),
		TwilioWorkerID: c.twilioWorkerID,
		Info:           c.info.Clone(),
		ContactIDs:     slices.Clone(c.contactIDs),
		CreatedBy:      c.createdBy,
		UpdatedBy:      c.updatedBy,
		CreatedAt:      c.createdAt,
		UpdatedAt:      c.updatedAt,
	}
}

func (c *Case) touch(by string) {
	c.updatedBy = by
	c.updatedAt = biztime.NowUTC()
}
