package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/civicease/complaint-service/internal/model"
)

// DepartmentRepo persists municipal departments.  Departments are never
// deleted; the only mutation after creation is sub-admin assignment.
type DepartmentRepo struct{ DB *sql.DB }

func NewDepartmentRepo(db *sql.DB) *DepartmentRepo { return &DepartmentRepo{DB: db} }

// DefaultDepartments is the fixed seed list installed at first boot.
// Names double as unique keys, which is what makes re-seeding
// idempotent.
var DefaultDepartments = []string{
	"Waste Management Department",
	"Water Supply and Drainage Department",
	"Roads and Transportation Department",
	"Streetlight and Electricity Maintenance",
	"Public Health and Sanitation Department",
	"Garden and Parks Department",
	"Building and Construction Department",
	"Environmental and Pollution Control Department",
	"Fire and Emergency Services",
	"Public Works Department (PWD)",
	"Water Drainage (Sewage) Department",
	"Solid Waste Recycling Department",
	"Public Grievance and Feedback Cell",
}

// DefaultCareEmail derives the helpline address used when a department
// is created without an explicit one, e.g.
// "wastemanagementdepartment@civicease.gov".
func DefaultCareEmail(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "")) + "@civicease.gov"
}

// Seed installs the default departments.  INSERT IGNORE on the unique
// name key makes a second boot a no-op, so the seeded list never
// duplicates.
func (r *DepartmentRepo) Seed(ctx context.Context) error {
	for _, name := range DefaultDepartments {
		_, err := r.DB.ExecContext(ctx,
			`INSERT IGNORE INTO departments (name, customer_care_phone, customer_care_email)
			 VALUES (?, '1800-XXX-XXXX', ?)`,
			name, DefaultCareEmail(name))
		if err != nil {
			return err
		}
	}
	return nil
}

const departmentColumns = `id, name, customer_care_phone, customer_care_email,
	 sub_admin_id, sub_admin_name, created_at, updated_at`

// List returns every department in creation order.
func (r *DepartmentRepo) List(ctx context.Context) ([]model.Department, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+departmentColumns+` FROM departments ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	depts := []model.Department{}
	for rows.Next() {
		var d model.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.CustomerCarePhone, &d.CustomerCareEmail,
			&d.SubAdminID, &d.SubAdminName, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		depts = append(depts, d)
	}
	return depts, rows.Err()
}

// GetByID fetches a single department.
func (r *DepartmentRepo) GetByID(ctx context.Context, id uint64) (model.Department, error) {
	var d model.Department
	err := r.DB.QueryRowContext(ctx,
		`SELECT `+departmentColumns+` FROM departments WHERE id=? LIMIT 1`, id).
		Scan(&d.ID, &d.Name, &d.CustomerCarePhone, &d.CustomerCareEmail,
			&d.SubAdminID, &d.SubAdminName, &d.CreatedAt, &d.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Department{}, ErrDepartmentNotFound
	}
	return d, err
}

// Create inserts an admin-defined department.  A duplicate name yields
// ErrConflict.
func (r *DepartmentRepo) Create(ctx context.Context, name, carePhone, careEmail string) (model.Department, error) {
	if carePhone == "" {
		carePhone = "1800-XXX-XXXX"
	}
	if careEmail == "" {
		careEmail = DefaultCareEmail(name)
	}
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO departments (name, customer_care_phone, customer_care_email) VALUES (?,?,?)`,
		name, carePhone, careEmail)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return model.Department{}, ErrConflict
		}
		return model.Department{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Department{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// AssignSubAdmin records the department's managing sub-admin back
// reference after a sub-admin signup.
func (r *DepartmentRepo) AssignSubAdmin(ctx context.Context, deptID, subAdminID uint64, subAdminName string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE departments SET sub_admin_id=?, sub_admin_name=? WHERE id=?`,
		subAdminID, subAdminName, deptID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrDepartmentNotFound
	}
	return nil
}
