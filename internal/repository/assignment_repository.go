package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/civicease/complaint-service/internal/lifecycle"
	"github.com/civicease/complaint-service/internal/model"
)

// AssignmentRepo persists the 1:1 assignment record of a complaint.
// The row is created lazily on the first assignment action and fields
// accumulate as the workflow progresses; nothing is ever deleted.
type AssignmentRepo struct{ DB *sql.DB }

func NewAssignmentRepo(db *sql.DB) *AssignmentRepo { return &AssignmentRepo{DB: db} }

const assignmentColumns = `complaint_id, sub_admin_id, sub_admin_name, sub_admin_assigned_at,
	 contractor_id, contractor_name, contractor_phone, contractor_assigned_at,
	 estimated_fees, estimated_time, assignment_description, contractor_status,
	 work_started_at, rejected_at, completed_at, completion_notes, completion_photos,
	 created_at, updated_at`

// GetByComplaint returns the assignment for a complaint, or
// ErrAssignmentNotFound when no assignment action has happened yet.
func (r *AssignmentRepo) GetByComplaint(ctx context.Context, complaintID uint64) (model.Assignment, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+assignmentColumns+` FROM assignments WHERE complaint_id=? LIMIT 1`, complaintID)
	return scanAssignment(row)
}

// GetByComplaintTx reads the assignment under an open transaction with
// a row lock, so contractor responses cannot race each other.
func (r *AssignmentRepo) GetByComplaintTx(ctx context.Context, tx *sql.Tx, complaintID uint64) (model.Assignment, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+assignmentColumns+` FROM assignments WHERE complaint_id=? LIMIT 1 FOR UPDATE`, complaintID)
	return scanAssignment(row)
}

func scanAssignment(row rowScanner) (model.Assignment, error) {
	var (
		a      model.Assignment
		cs     sql.NullString
		photos sql.NullString
	)
	err := row.Scan(&a.ComplaintID, &a.SubAdminID, &a.SubAdminName, &a.SubAdminAssignedAt,
		&a.ContractorID, &a.ContractorName, &a.ContractorPhone, &a.ContractorAssignedAt,
		&a.EstimatedFees, &a.EstimatedTime, &a.AssignmentDescription, &cs,
		&a.WorkStartedAt, &a.RejectedAt, &a.CompletedAt, &a.CompletionNotes, &photos,
		&a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Assignment{}, ErrAssignmentNotFound
	}
	if err != nil {
		return model.Assignment{}, err
	}
	if cs.Valid {
		a.ContractorStatus = lifecycle.ContractorStatus(cs.String)
	}
	if a.CompletionPhotos, err = unmarshalStrings(photos); err != nil {
		return model.Assignment{}, err
	}
	return a, nil
}

// SetSubAdminTx upserts the assignment row with the sub-admin block.
// Called by the admin's assign-subadmin transition.
func (r *AssignmentRepo) SetSubAdminTx(ctx context.Context, tx *sql.Tx, complaintID, subAdminID uint64, subAdminName string) error {
	now := time.Now().UTC()
	_, err := tx.ExecContext(ctx,
		`INSERT INTO assignments (complaint_id, sub_admin_id, sub_admin_name, sub_admin_assigned_at)
		 VALUES (?,?,?,?)
		 ON DUPLICATE KEY UPDATE
		   sub_admin_id=VALUES(sub_admin_id),
		   sub_admin_name=VALUES(sub_admin_name),
		   sub_admin_assigned_at=VALUES(sub_admin_assigned_at)`,
		complaintID, subAdminID, subAdminName, now)
	return err
}

// ContractorAssignmentParams is the sub-admin's work order.
type ContractorAssignmentParams struct {
	ContractorID    uint64
	ContractorName  string
	ContractorPhone string
	EstimatedFees   *float64
	EstimatedTime   *string
	Description     *string
}

// SetContractorTx upserts the contractor block and resets
// contractor_status to pending.  Re-assignment after a rejection goes
// through the same path and wipes the previous answer.
func (r *AssignmentRepo) SetContractorTx(ctx context.Context, tx *sql.Tx, complaintID uint64, p ContractorAssignmentParams) error {
	now := time.Now().UTC()
	_, err := tx.ExecContext(ctx,
		`INSERT INTO assignments
		   (complaint_id, contractor_id, contractor_name, contractor_phone,
		    contractor_assigned_at, estimated_fees, estimated_time,
		    assignment_description, contractor_status)
		 VALUES (?,?,?,?,?,?,?,?,?)
		 ON DUPLICATE KEY UPDATE
		   contractor_id=VALUES(contractor_id),
		   contractor_name=VALUES(contractor_name),
		   contractor_phone=VALUES(contractor_phone),
		   contractor_assigned_at=VALUES(contractor_assigned_at),
		   estimated_fees=VALUES(estimated_fees),
		   estimated_time=VALUES(estimated_time),
		   assignment_description=VALUES(assignment_description),
		   contractor_status=VALUES(contractor_status),
		   work_started_at=NULL, rejected_at=NULL`,
		complaintID, p.ContractorID, p.ContractorName, p.ContractorPhone,
		now, p.EstimatedFees, p.EstimatedTime, p.Description,
		string(lifecycle.ContractorPending))
	return err
}

// SetContractorResponseTx records an accept or reject answer.
func (r *AssignmentRepo) SetContractorResponseTx(ctx context.Context, tx *sql.Tx, complaintID uint64, status lifecycle.ContractorStatus) error {
	now := time.Now().UTC()
	var q string
	switch status {
	case lifecycle.ContractorAccepted:
		q = `UPDATE assignments SET contractor_status=?, work_started_at=? WHERE complaint_id=?`
	case lifecycle.ContractorRejected:
		q = `UPDATE assignments SET contractor_status=?, rejected_at=? WHERE complaint_id=?`
	default:
		return ErrConflict
	}
	res, err := tx.ExecContext(ctx, q, string(status), now, complaintID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAssignmentNotFound
	}
	return nil
}

// SetCompletionTx records the contractor's completion documentation.
func (r *AssignmentRepo) SetCompletionTx(ctx context.Context, tx *sql.Tx, complaintID uint64, notes string, photos []string) error {
	photoJSON, err := marshalStrings(photos)
	if err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE assignments
		 SET contractor_status=?, completed_at=?, completion_notes=?, completion_photos=?
		 WHERE complaint_id=?`,
		string(lifecycle.ContractorCompleted), time.Now().UTC(), notes, photoJSON, complaintID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAssignmentNotFound
	}
	return nil
}
