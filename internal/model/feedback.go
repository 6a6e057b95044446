package model

import "time"

// Feedback is the citizen's one-time verdict on completed work, keyed
// 1:1 by complaint ID.  Satisfied feedback closes the complaint,
// unsatisfied feedback reopens it.  There is no update endpoint; the
// record is immutable after creation.
type Feedback struct {
	ComplaintID uint64    // feedback.complaint_id (primary key)
	CitizenID   uint64    // feedback.citizen_id
	Rating      int       // feedback.rating (1-5)
	Comment     string    // feedback.comment
	Satisfied   bool      // feedback.satisfied
	SubmittedAt time.Time // feedback.submitted_at
}
