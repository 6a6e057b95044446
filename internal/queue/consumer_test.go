package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/civicease/complaint-service/internal/lifecycle"
)

func TestFormatEventLine(t *testing.T) {
	line := FormatEventLine(ComplaintEvent{
		ComplaintID:  12,
		Token:        "CMP-1700000000000-AB12CD",
		Action:       lifecycle.ActionAccept,
		Status:       lifecycle.StatusInProgress,
		DepartmentID: 3,
		ActorID:      55,
		ActorRole:    lifecycle.RoleContractor,
		Message:      "Work started by contractor",
		OccurredAt:   "2026-08-30T10:00:00Z",
	})

	assert.Contains(t, line, "complaint_id=12")
	assert.Contains(t, line, "token=CMP-1700000000000-AB12CD")
	assert.Contains(t, line, "status=in_progress")
	assert.Contains(t, line, "actor=55 (contractor)")
	assert.True(t, line[len(line)-1] == '\n')
}
