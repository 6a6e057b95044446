package model

import (
	"time"

	"github.com/civicease/complaint-service/internal/lifecycle"
)

// Complaint is a citizen-filed service request tracked through a fixed
// lifecycle.  Complaints are never physically deleted; terminal states
// are closed, closed_by_authority and (until re-assignment)
// contractor_rejected.  The citizen name/phone and department name are
// denormalized so list views need no joins against users.
//
// Fields:
//  ID             – primary key identifier.
//  Token          – human-readable globally unique reference
//                   (CMP-<unix-ms>-<6 alnum>), shown to the citizen.
//  CitizenID      – user who filed the complaint.
//  CitizenName    – denormalized citizen name.
//  CitizenPhone   – denormalized citizen phone.
//  DepartmentID   – department the complaint targets.
//  DepartmentName – denormalized department name.
//  ComplaintType  – free-form category chosen by the citizen.
//  Description    – what is wrong.
//  Location       – free text location description.
//  Latitude       – optional map coordinate.
//  Longitude      – optional map coordinate.
//  Photos         – image URIs attached by the citizen.
//  Status         – current lifecycle state.
//  Priority       – urgent|high|normal|low, admin-controlled.
//  ClosureReason  – reason given on authority closure (nullable).
//  ClosedBy       – user who force-closed the complaint (nullable).
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – refreshed on every mutation.
type Complaint struct {
	ID             uint64             // complaints.id
	Token          string             // complaints.token
	CitizenID      uint64             // complaints.citizen_id
	CitizenName    string             // complaints.citizen_name
	CitizenPhone   string             // complaints.citizen_phone
	DepartmentID   uint64             // complaints.department_id
	DepartmentName string             // joined from departments.name
	ComplaintType  string             // complaints.complaint_type
	Description    string             // complaints.description
	Location       string             // complaints.location
	Latitude       *float64           // complaints.latitude (nullable)
	Longitude      *float64           // complaints.longitude (nullable)
	Photos         []string           // complaints.photos (JSON text)
	Status         lifecycle.Status   // complaints.status
	Priority       lifecycle.Priority // complaints.priority
	ClosureReason  *string            // complaints.closure_reason (nullable)
	ClosedBy       *uint64            // complaints.closed_by (nullable)
	CreatedAt      time.Time          // complaints.created_at
	UpdatedAt      time.Time          // complaints.updated_at
	Timeline       []TimelineEntry    // loaded from complaint_timeline
}

// TimelineEntry is one row of a complaint's append-only audit log.  The
// first entry is written when the complaint is registered and every
// status change appends exactly one more.  Entries are ordered by their
// auto-increment ID.
type TimelineEntry struct {
	ID          uint64    // complaint_timeline.id
	ComplaintID uint64    // complaint_timeline.complaint_id
	Status      string    // complaint_timeline.status (lifecycle status or priority_updated)
	Message     string    // complaint_timeline.message
	CreatedAt   time.Time // complaint_timeline.created_at
}
