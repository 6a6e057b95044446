package model

import "time"

// Department represents a municipal department that complaints are
// routed to.  Thirteen default departments are seeded at first boot;
// the main admin can add more.  Departments are never deleted.
//
// Fields:
//  ID                – primary key identifier.
//  Name              – unique department name.
//  CustomerCarePhone – helpline phone number.
//  CustomerCareEmail – helpline email address.
//  SubAdminID        – user ID of the managing sub-admin (nil until assigned).
//  SubAdminName      – denormalized sub-admin name (nil until assigned).
//  CreatedAt         – creation timestamp.
//  UpdatedAt         – last update timestamp.
type Department struct {
	ID                uint64    // departments.id
	Name              string    // departments.name
	CustomerCarePhone string    // departments.customer_care_phone
	CustomerCareEmail string    // departments.customer_care_email
	SubAdminID        *uint64   // departments.sub_admin_id (nullable)
	SubAdminName      *string   // departments.sub_admin_name (nullable)
	CreatedAt         time.Time // departments.created_at
	UpdatedAt         time.Time // departments.updated_at
}
