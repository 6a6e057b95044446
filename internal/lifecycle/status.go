package lifecycle

// Status enumerates every state a complaint can be in.  The values are
// stored verbatim in the complaints.status column and in timeline
// entries, so they must never be renamed once data exists.
type Status string

const (
	StatusPending             Status = "pending"                // freshly registered, waiting for the main admin
	StatusAssignedToSubAdmin  Status = "assigned_to_subadmin"   // routed to a department sub-admin
	StatusAssignedToContractor Status = "assigned_to_contractor" // contractor proposed, awaiting their response
	StatusInProgress          Status = "in_progress"            // contractor accepted and started work
	StatusCompleted           Status = "completed"              // contractor documented the finished work
	StatusClosed              Status = "closed"                 // citizen satisfied, lifecycle finished
	StatusReopened            Status = "reopened"               // citizen unsatisfied after completion
	StatusClosedByAuthority   Status = "closed_by_authority"    // admin/sub-admin override with a reason
	StatusContractorRejected  Status = "contractor_rejected"    // contractor declined, back with the sub-admin
)

// PseudoStatusPriorityUpdated is not a complaint state.  It only ever
// appears in timeline entries recording a priority change, which leaves
// the actual status untouched.
const PseudoStatusPriorityUpdated = "priority_updated"

// Valid reports whether s is a known complaint status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAssignedToSubAdmin, StatusAssignedToContractor,
		StatusInProgress, StatusCompleted, StatusClosed, StatusReopened,
		StatusClosedByAuthority, StatusContractorRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further lifecycle action may move the
// complaint out of s.  Reopened is deliberately not terminal: authority
// closure remains available for reopened complaints.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusClosed, StatusClosedByAuthority:
		return true
	}
	return false
}

// Role enumerates the actor kinds known to the system.  Stored in
// users.role and in the JWT "role" claim.
type Role string

const (
	RoleCitizen    Role = "citizen"
	RoleContractor Role = "contractor"
	RoleSubAdmin   Role = "subadmin"
	RoleAdmin      Role = "admin"
)

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleContractor, RoleSubAdmin, RoleAdmin:
		return true
	}
	return false
}

// ContractorStatus tracks the contractor's side of an assignment.
type ContractorStatus string

const (
	ContractorPending   ContractorStatus = "pending"
	ContractorAccepted  ContractorStatus = "accepted"
	ContractorRejected  ContractorStatus = "rejected"
	ContractorCompleted ContractorStatus = "completed"
)

// Priority levels for complaints.  New complaints default to normal.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

// Valid reports whether p is a known priority level.
func (p Priority) Valid() bool {
	switch p {
	case PriorityUrgent, PriorityHigh, PriorityNormal, PriorityLow:
		return true
	}
	return false
}
