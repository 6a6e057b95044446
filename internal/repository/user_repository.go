package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/civicease/complaint-service/internal/lifecycle"
	"github.com/civicease/complaint-service/internal/model"
	"github.com/civicease/complaint-service/internal/utils"
)

// UserRepo persists application users of all four roles.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// NewUserParams carries everything a signup endpoint collects.  The
// role-specific fields are left nil for roles that do not use them.
type NewUserParams struct {
	Email          string
	Password       string
	Name           string
	Phone          string
	Role           lifecycle.Role
	Aadhaar        *string
	Address        *string
	WorkTypes      []string
	Departments    []string
	DepartmentID   *uint64
	DepartmentName *string
}

// Create inserts a user and returns its ID.  The email is normalized to
// lower case; a duplicate yields ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, p NewUserParams, bcryptCost int) (uint64, error) {
	email := strings.ToLower(strings.TrimSpace(p.Email))
	hash, err := utils.HashPassword(p.Password, bcryptCost)
	if err != nil {
		return 0, err
	}
	workTypes, err := marshalStrings(p.WorkTypes)
	if err != nil {
		return 0, err
	}
	departments, err := marshalStrings(p.Departments)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO users
		   (email, password_hash, name, phone, role, aadhaar, address,
		    work_types, departments, department_id, department_name)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		email, hash, p.Name, p.Phone, string(p.Role), p.Aadhaar, p.Address,
		workTypes, departments, p.DepartmentID, p.DepartmentName)
	if err != nil {
		// MySQL duplicate-key error code is 1062.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

const userColumns = `id, email, password_hash, name, phone, role, aadhaar, address,
	 work_types, departments, department_id, department_name, created_at, updated_at`

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email=? LIMIT 1`, email)
	return scanUser(row)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id=? LIMIT 1`, id)
	return scanUser(row)
}

// ListByRole returns all users holding the given role, newest first.
// Backs the /contractors and /subadmins directory endpoints.
func (r *UserRepo) ListByRole(ctx context.Context, role lifecycle.Role) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE role=? ORDER BY created_at DESC`, string(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateDepartment reassigns a sub-admin to another department.  Only
// the admin endpoint calls this; all other user fields are immutable
// after signup.
func (r *UserRepo) UpdateDepartment(ctx context.Context, userID uint64, deptID uint64, deptName string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET department_id=?, department_name=? WHERE id=? AND role=?`,
		deptID, deptName, userID, string(lifecycle.RoleSubAdmin))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// rowScanner lets scanUser work for both QueryRow and Query results.
type rowScanner interface{ Scan(dest ...any) error }

func scanUser(row rowScanner) (model.User, error) {
	var (
		u           model.User
		role        string
		workTypes   sql.NullString
		departments sql.NullString
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Phone, &role,
		&u.Aadhaar, &u.Address, &workTypes, &departments,
		&u.DepartmentID, &u.DepartmentName, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, ErrUserNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	u.Role = lifecycle.Role(role)
	if u.WorkTypes, err = unmarshalStrings(workTypes); err != nil {
		return model.User{}, err
	}
	if u.Departments, err = unmarshalStrings(departments); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// marshalStrings serializes a string slice to a JSON TEXT column value,
// mapping an empty slice to NULL.
func marshalStrings(ss []string) (any, error) {
	if len(ss) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(ss)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func unmarshalStrings(ns sql.NullString) ([]string, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	var ss []string
	if err := json.Unmarshal([]byte(ns.String), &ss); err != nil {
		return nil, err
	}
	return ss, nil
}
