// Package lifecycle encodes the complaint status state machine and the
// role rules attached to every transition.  It is a pure package: no
// storage, no HTTP.  Handlers consult it before touching the database so
// that an illegal transition or a wrong actor never results in a write.
package lifecycle

import (
	"errors"
	"fmt"
)

// Action enumerates the lifecycle operations a caller can request.
type Action string

const (
	ActionRegister         Action = "register"          // citizen files a new complaint
	ActionAssignSubAdmin   Action = "assign_subadmin"   // admin routes to a department sub-admin
	ActionAssignContractor Action = "assign_contractor" // sub-admin proposes a contractor
	ActionAccept           Action = "accept"            // contractor accepts the assignment
	ActionReject           Action = "reject"            // contractor declines the assignment
	ActionComplete         Action = "complete"          // contractor documents finished work
	ActionFeedbackSatisfied   Action = "feedback_satisfied"   // citizen closes with positive feedback
	ActionFeedbackUnsatisfied Action = "feedback_unsatisfied" // citizen reopens with negative feedback
	ActionAuthorityClose   Action = "authority_close"   // admin/sub-admin force close with a reason
)

// Transition errors.  Handlers map ErrInvalidTransition to 400 and
// ErrWrongActor to 403.
var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrWrongActor        = errors.New("actor role not allowed for this action")
)

// rule describes a single row of the transition table: the states the
// action may fire from, the state it lands in, and the roles allowed to
// perform it.
type rule struct {
	from   []Status
	to     Status
	actors []Role
}

// transitions is the authoritative state machine.  assign_contractor is
// legal both from assigned_to_subadmin and from contractor_rejected so
// a sub-admin can re-route a complaint after a contractor declines it.
var transitions = map[Action]rule{
	ActionRegister: {
		from:   nil, // no prior state: a registration creates the complaint
		to:     StatusPending,
		actors: []Role{RoleCitizen},
	},
	ActionAssignSubAdmin: {
		from:   []Status{StatusPending},
		to:     StatusAssignedToSubAdmin,
		actors: []Role{RoleAdmin},
	},
	ActionAssignContractor: {
		from:   []Status{StatusAssignedToSubAdmin, StatusContractorRejected},
		to:     StatusAssignedToContractor,
		actors: []Role{RoleSubAdmin},
	},
	ActionAccept: {
		from:   []Status{StatusAssignedToContractor},
		to:     StatusInProgress,
		actors: []Role{RoleContractor},
	},
	ActionReject: {
		from:   []Status{StatusAssignedToContractor},
		to:     StatusContractorRejected,
		actors: []Role{RoleContractor},
	},
	ActionComplete: {
		from:   []Status{StatusInProgress},
		to:     StatusCompleted,
		actors: []Role{RoleContractor},
	},
	ActionFeedbackSatisfied: {
		from:   []Status{StatusCompleted},
		to:     StatusClosed,
		actors: []Role{RoleCitizen},
	},
	ActionFeedbackUnsatisfied: {
		from:   []Status{StatusCompleted},
		to:     StatusReopened,
		actors: []Role{RoleCitizen},
	},
	ActionAuthorityClose: {
		from:   nil, // any non-terminal state, handled in Next
		to:     StatusClosedByAuthority,
		actors: []Role{RoleAdmin, RoleSubAdmin},
	},
}

// Next validates that action may fire from the current status and
// returns the resulting status.  For ActionRegister the current status
// is ignored (the complaint does not exist yet).  ActionAuthorityClose
// is special-cased: it fires from any non-terminal state.
func Next(current Status, action Action) (Status, error) {
	r, ok := transitions[action]
	if !ok {
		return "", fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, action)
	}
	switch action {
	case ActionRegister:
		return r.to, nil
	case ActionAuthorityClose:
		if current.IsTerminal() {
			return "", fmt.Errorf("%w: complaint already %s", ErrInvalidTransition, current)
		}
		return r.to, nil
	}
	for _, s := range r.from {
		if s == current {
			return r.to, nil
		}
	}
	return "", fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, r.to)
}

// CheckActor verifies that role may perform action.  Ownership checks
// (the contractor must be the assignee, the sub-admin must own the
// department, the citizen must be the complainant) are enforced by the
// handlers on top of this role gate.
func CheckActor(role Role, action Action) error {
	r, ok := transitions[action]
	if !ok {
		return fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, action)
	}
	for _, a := range r.actors {
		if a == role {
			return nil
		}
	}
	return fmt.Errorf("%w: %s cannot %s", ErrWrongActor, role, action)
}

// NextContractorStatus returns the assignment contractor_status that the
// given action produces, or "" when the action does not touch it.
// The only legal orderings are pending->accepted, pending->rejected and
// accepted->completed; everything else fails.
func NextContractorStatus(current ContractorStatus, action Action) (ContractorStatus, error) {
	switch action {
	case ActionAssignContractor:
		// Assigning (or re-assigning after a rejection) always resets
		// the contractor's answer.
		return ContractorPending, nil
	case ActionAccept:
		if current != ContractorPending {
			return "", fmt.Errorf("%w: contractor status %s -> accepted", ErrInvalidTransition, current)
		}
		return ContractorAccepted, nil
	case ActionReject:
		if current != ContractorPending {
			return "", fmt.Errorf("%w: contractor status %s -> rejected", ErrInvalidTransition, current)
		}
		return ContractorRejected, nil
	case ActionComplete:
		if current != ContractorAccepted {
			return "", fmt.Errorf("%w: contractor status %s -> completed", ErrInvalidTransition, current)
		}
		return ContractorCompleted, nil
	}
	return "", nil
}
