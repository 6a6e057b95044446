// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios and map
// them onto the HTTP error taxonomy: ErrForbidden becomes 403,
// not-found sentinels become 404 and ErrConflict becomes 409.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own, e.g. a contractor responding to an
// assignment that belongs to a different contractor.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a write cannot proceed because of
// existing state, such as submitting feedback twice for one complaint.
var ErrConflict = errors.New("conflict")

// Entity not-found sentinels.  sql.ErrNoRows is translated at the
// repository boundary so handlers never import database/sql semantics.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDepartmentNotFound = errors.New("department not found")
	ErrComplaintNotFound  = errors.New("complaint not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrFeedbackNotFound   = errors.New("feedback not found")
	ErrAnnouncementNotFound = errors.New("announcement not found")
)

// ErrEmailExists is returned by UserRepo.Create on a duplicate email.
var ErrEmailExists = errors.New("email already exists")
