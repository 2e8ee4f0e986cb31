package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaseStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to CaseStatus
		want     bool
	}{
		{StatusOpen, StatusClosed, true},
		{StatusOpen, StatusInProgress, true},
		{StatusInProgress, StatusClosed, true},
		{StatusClosed, StatusOpen, true},
		{StatusOpen, StatusOpen, false},
		{StatusClosed, StatusClosed, false},
		{CaseStatus("archived"), StatusOpen, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestNewCaseStatus(t *testing.T) {
	s, err := NewCaseStatus("inProgress")
	assert.NoError(t, err)
	assert.Equal(t, StatusInProgress, s)
	assert.False(t, s.IsClosed())

	_, err = NewCaseStatus("in_progress")
	assert.Error(t, err)
}
