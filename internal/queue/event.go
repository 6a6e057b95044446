// Package queue defines the message payloads exchanged over the broker
// and the background consumer that materializes them into a local
// notification log.
package queue

import "github.com/civicease/complaint-service/internal/lifecycle"

// ComplaintEventQueue is the durable queue carrying lifecycle events.
const ComplaintEventQueue = "complaint.events"

// ComplaintEvent is published after every successful lifecycle
// transition.  It carries enough information for downstream consumers
// (notification log, SMS gateway, analytics) to act without querying
// the primary database.  This event stream replaces the fixed-interval
// dashboard polling of the original system.
type ComplaintEvent struct {
	ComplaintID  uint64           `json:"complaint_id"`
	Token        string           `json:"token"`
	Action       lifecycle.Action `json:"action"`
	Status       lifecycle.Status `json:"status"`
	DepartmentID uint64           `json:"department_id"`
	ActorID      uint64           `json:"actor_id"`
	ActorRole    lifecycle.Role   `json:"actor_role"`
	Message      string           `json:"message"`
	OccurredAt   string           `json:"occurred_at"` // RFC3339 UTC
}
