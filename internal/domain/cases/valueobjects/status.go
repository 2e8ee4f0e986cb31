package valueobjects

import (
	"fmt"
	"slices"
)

type CaseStatus string

const (
	StatusOpen       CaseStatus = "open"
	StatusInProgress CaseStatus = "inProgress"
	StatusClosed     CaseStatus = "closed"
)

var validCaseStatuses = map[CaseStatus]bool{
	StatusOpen:       true,
	StatusInProgress: true,
	StatusClosed:     true,
}

var caseStatusTransitions = map[CaseStatus][]CaseStatus{
	StatusOpen: {
		StatusInProgress,
		StatusClosed,
	},
	StatusInProgress: {
		StatusOpen,
		StatusClosed,
	},
	StatusClosed: {
		StatusOpen,
		StatusInProgress,
	},
}

func (s CaseStatus) String() string {
	return string(s)
}

func (s CaseStatus) IsValid() bool {
	return validCaseStatuses[s]
}

func (s CaseStatus) CanTransitionTo(next CaseStatus) bool {
	return slices.Contains(caseStatusTransitions[s], next)
}

func (s CaseStatus) IsClosed() bool {
	return s == StatusClosed
}

func NewCaseStatus(s string) (CaseStatus, error) {
	cs := CaseStatus(s)
	if !cs.IsValid() {
		return "", fmt.Errorf("invalid case status: %s", s)
	}
	return cs, nil
}
