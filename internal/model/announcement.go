package model

import "time"

// Announcement is a public notice published by the admin or a
// sub-admin.  Only active announcements are shown to the public; the
// publishing roles see all of them.
//
// Fields:
//  ID            – primary key identifier.
//  Title         – headline.
//  Message       – body text.
//  Priority      – normal|high, controls display prominence.
//  IsActive      – whether the announcement is publicly visible.
//  CreatedBy     – user who published it.
//  CreatedByName – denormalized publisher name.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Announcement struct {
	ID            uint64    // announcements.id
	Title         string    // announcements.title
	Message       string    // announcements.message
	Priority      string    // announcements.priority
	IsActive      bool      // announcements.is_active
	CreatedBy     uint64    // announcements.created_by
	CreatedByName string    // announcements.created_by_name
	CreatedAt     time.Time // announcements.created_at
	UpdatedAt     time.Time // announcements.updated_at
}
