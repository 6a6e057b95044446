package model

import (
	"time"

	"github.com/civicease/complaint-service/internal/lifecycle"
)

// User represents an application user record as stored in the `users`
// table.  One table holds all four roles; the role-specific columns are
// nullable and only populated for the roles that use them (aadhaar and
// address for citizens and contractors, work types and serviced
// departments for contractors, department for sub-admins).
//
// Fields:
//  ID             – primary key identifier of the user.
//  Email          – unique email address.
//  PasswordHash   – bcrypt hashed password.
//  Name           – display name.
//  Phone          – contact phone number.
//  Role           – one of citizen|contractor|subadmin|admin.
//  Aadhaar        – national ID (citizens and contractors, nullable).
//  Address        – postal address (citizens and contractors, nullable).
//  WorkTypes      – kinds of work a contractor performs (nullable).
//  Departments    – department names a contractor serves (nullable).
//  DepartmentID   – owning department for sub-admins (nullable).
//  DepartmentName – denormalized department name for sub-admins.
//  CreatedAt      – timestamp of creation.
//  UpdatedAt      – timestamp of last update.
type User struct {
	ID             uint64         // users.id
	Email          string         // users.email
	PasswordHash   string         // users.password_hash
	Name           string         // users.name
	Phone          string         // users.phone
	Role           lifecycle.Role // users.role
	Aadhaar        *string        // users.aadhaar (nullable)
	Address        *string        // users.address (nullable)
	WorkTypes      []string       // users.work_types (JSON text, nullable)
	Departments    []string       // users.departments (JSON text, nullable)
	DepartmentID   *uint64        // users.department_id (nullable)
	DepartmentName *string        // users.department_name (nullable)
	CreatedAt      time.Time      // users.created_at
	UpdatedAt      time.Time      // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry and
// revocation.  The plain token is not stored; only its SHA-256 hash.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
