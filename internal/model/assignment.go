package model

import (
	"time"

	"github.com/civicease/complaint-service/internal/lifecycle"
)

// Assignment records which sub-admin and contractor are handling a
// complaint and their work terms.  It is keyed 1:1 by complaint ID,
// created lazily on the first assignment action and never deleted.
// Fields accumulate across the workflow: the admin fills the sub-admin
// block, the sub-admin fills the contractor block, the contractor fills
// the completion block.
type Assignment struct {
	ComplaintID           uint64                     // assignments.complaint_id (primary key)
	SubAdminID            *uint64                    // assignments.sub_admin_id
	SubAdminName          *string                    // assignments.sub_admin_name
	SubAdminAssignedAt    *time.Time                 // assignments.sub_admin_assigned_at
	ContractorID          *uint64                    // assignments.contractor_id
	ContractorName        *string                    // assignments.contractor_name
	ContractorPhone       *string                    // assignments.contractor_phone
	ContractorAssignedAt  *time.Time                 // assignments.contractor_assigned_at
	EstimatedFees         *float64                   // assignments.estimated_fees
	EstimatedTime         *string                    // assignments.estimated_time
	AssignmentDescription *string                    // assignments.assignment_description
	ContractorStatus      lifecycle.ContractorStatus // assignments.contractor_status ("" until a contractor is assigned)
	WorkStartedAt         *time.Time                 // assignments.work_started_at
	RejectedAt            *time.Time                 // assignments.rejected_at
	CompletedAt           *time.Time                 // assignments.completed_at
	CompletionNotes       *string                    // assignments.completion_notes
	CompletionPhotos      []string                   // assignments.completion_photos (JSON text)
	CreatedAt             time.Time                  // assignments.created_at
	UpdatedAt             time.Time                  // assignments.updated_at
}
