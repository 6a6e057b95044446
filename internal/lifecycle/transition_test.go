package lifecycle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicease/complaint-service/internal/lifecycle"
)

// TestHappyPath walks a complaint through the full successful lifecycle
// and checks the status produced by every step.
func TestHappyPath(t *testing.T) {
	steps := []struct {
		action lifecycle.Action
		want   lifecycle.Status
	}{
		{lifecycle.ActionRegister, lifecycle.StatusPending},
		{lifecycle.ActionAssignSubAdmin, lifecycle.StatusAssignedToSubAdmin},
		{lifecycle.ActionAssignContractor, lifecycle.StatusAssignedToContractor},
		{lifecycle.ActionAccept, lifecycle.StatusInProgress},
		{lifecycle.ActionComplete, lifecycle.StatusCompleted},
		{lifecycle.ActionFeedbackSatisfied, lifecycle.StatusClosed},
	}

	var cur lifecycle.Status
	for _, s := range steps {
		next, err := lifecycle.Next(cur, s.action)
		require.NoError(t, err, "action %s from %s", s.action, cur)
		assert.Equal(t, s.want, next)
		cur = next
	}
	assert.True(t, cur.IsTerminal())
}

// TestUnsatisfiedFeedbackReopens verifies that negative feedback always
// yields reopened, never closed.
func TestUnsatisfiedFeedbackReopens(t *testing.T) {
	next, err := lifecycle.Next(lifecycle.StatusCompleted, lifecycle.ActionFeedbackUnsatisfied)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusReopened, next)
	assert.False(t, next.IsTerminal(), "reopened must stay eligible for authority closure")
}

// TestIllegalTransitions enumerates transitions the table must refuse.
func TestIllegalTransitions(t *testing.T) {
	cases := []struct {
		name   string
		from   lifecycle.Status
		action lifecycle.Action
	}{
		{"feedback before completion", lifecycle.StatusInProgress, lifecycle.ActionFeedbackSatisfied},
		{"complete without acceptance", lifecycle.StatusAssignedToContractor, lifecycle.ActionComplete},
		{"accept before contractor assignment", lifecycle.StatusAssignedToSubAdmin, lifecycle.ActionAccept},
		{"assign sub-admin twice", lifecycle.StatusAssignedToSubAdmin, lifecycle.ActionAssignSubAdmin},
		{"assign contractor from pending", lifecycle.StatusPending, lifecycle.ActionAssignContractor},
		{"reject after acceptance", lifecycle.StatusInProgress, lifecycle.ActionReject},
		{"feedback on closed complaint", lifecycle.StatusClosed, lifecycle.ActionFeedbackSatisfied},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := lifecycle.Next(tc.from, tc.action)
			assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)
		})
	}
}

// TestAuthorityCloseFromAnyNonTerminal checks the override path.
func TestAuthorityCloseFromAnyNonTerminal(t *testing.T) {
	open := []lifecycle.Status{
		lifecycle.StatusPending,
		lifecycle.StatusAssignedToSubAdmin,
		lifecycle.StatusAssignedToContractor,
		lifecycle.StatusInProgress,
		lifecycle.StatusCompleted,
		lifecycle.StatusReopened,
		lifecycle.StatusContractorRejected,
	}
	for _, s := range open {
		next, err := lifecycle.Next(s, lifecycle.ActionAuthorityClose)
		require.NoError(t, err, "from %s", s)
		assert.Equal(t, lifecycle.StatusClosedByAuthority, next)
	}

	for _, s := range []lifecycle.Status{lifecycle.StatusClosed, lifecycle.StatusClosedByAuthority} {
		_, err := lifecycle.Next(s, lifecycle.ActionAuthorityClose)
		assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition, "from %s", s)
	}
}

// TestReassignAfterRejection verifies that a contractor rejection hands
// control back to the sub-admin instead of being a dead end.
func TestReassignAfterRejection(t *testing.T) {
	next, err := lifecycle.Next(lifecycle.StatusContractorRejected, lifecycle.ActionAssignContractor)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusAssignedToContractor, next)

	cs, err := lifecycle.NextContractorStatus(lifecycle.ContractorRejected, lifecycle.ActionAssignContractor)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.ContractorPending, cs)
}

// TestActorRules pins the role allowed for every action.
func TestActorRules(t *testing.T) {
	allowed := map[lifecycle.Action][]lifecycle.Role{
		lifecycle.ActionRegister:            {lifecycle.RoleCitizen},
		lifecycle.ActionAssignSubAdmin:      {lifecycle.RoleAdmin},
		lifecycle.ActionAssignContractor:    {lifecycle.RoleSubAdmin},
		lifecycle.ActionAccept:              {lifecycle.RoleContractor},
		lifecycle.ActionReject:              {lifecycle.RoleContractor},
		lifecycle.ActionComplete:            {lifecycle.RoleContractor},
		lifecycle.ActionFeedbackSatisfied:   {lifecycle.RoleCitizen},
		lifecycle.ActionFeedbackUnsatisfied: {lifecycle.RoleCitizen},
		lifecycle.ActionAuthorityClose:      {lifecycle.RoleAdmin, lifecycle.RoleSubAdmin},
	}
	all := []lifecycle.Role{
		lifecycle.RoleCitizen, lifecycle.RoleContractor,
		lifecycle.RoleSubAdmin, lifecycle.RoleAdmin,
	}
	for action, roles := range allowed {
		ok := map[lifecycle.Role]bool{}
		for _, r := range roles {
			ok[r] = true
		}
		for _, r := range all {
			err := lifecycle.CheckActor(r, action)
			if ok[r] {
				assert.NoError(t, err, "%s should be allowed to %s", r, action)
			} else {
				assert.ErrorIs(t, err, lifecycle.ErrWrongActor, "%s must not %s", r, action)
			}
		}
	}
}

// TestContractorStatusOrdering ensures the contractor side only moves
// pending->accepted, pending->rejected or accepted->completed.
func TestContractorStatusOrdering(t *testing.T) {
	cs, err := lifecycle.NextContractorStatus(lifecycle.ContractorPending, lifecycle.ActionAccept)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.ContractorAccepted, cs)

	cs, err = lifecycle.NextContractorStatus(lifecycle.ContractorPending, lifecycle.ActionReject)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.ContractorRejected, cs)

	cs, err = lifecycle.NextContractorStatus(lifecycle.ContractorAccepted, lifecycle.ActionComplete)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.ContractorCompleted, cs)

	// No jumping straight to completed and no moving backwards.
	_, err = lifecycle.NextContractorStatus(lifecycle.ContractorPending, lifecycle.ActionComplete)
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)
	_, err = lifecycle.NextContractorStatus(lifecycle.ContractorCompleted, lifecycle.ActionAccept)
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)
	_, err = lifecycle.NextContractorStatus(lifecycle.ContractorRejected, lifecycle.ActionAccept)
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)
}

// TestStatusValidation covers the enum helpers handlers rely on.
func TestStatusValidation(t *testing.T) {
	assert.True(t, lifecycle.Status("pending").Valid())
	assert.False(t, lifecycle.Status("priority_updated").Valid(), "pseudo status is not a state")
	assert.False(t, lifecycle.Status("").Valid())

	assert.True(t, lifecycle.Priority("urgent").Valid())
	assert.False(t, lifecycle.Priority("critical").Valid())

	assert.True(t, lifecycle.Role("subadmin").Valid())
	assert.False(t, lifecycle.Role("owner").Valid())
}
