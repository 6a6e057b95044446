package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/civicease/complaint-service/internal/lifecycle"
	"github.com/civicease/complaint-service/internal/model"
)

// ComplaintRepo provides persistence for complaints and their
// append-only timeline.  Transition writes are offered as ...Tx
// variants so a handler can update the complaint row, the timeline and
// the assignment row inside one transaction; the original system wrote
// these as independent KV puts and could leave them inconsistent.
type ComplaintRepo struct{ db *sql.DB }

func NewComplaintRepo(db *sql.DB) *ComplaintRepo { return &ComplaintRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// that span the complaint, timeline and assignment tables.
func (r *ComplaintRepo) DB() *sql.DB { return r.db }

// NewComplaintParams carries the citizen's submission.
type NewComplaintParams struct {
	Token         string
	CitizenID     uint64
	CitizenName   string
	CitizenPhone  string
	DepartmentID  uint64
	ComplaintType string
	Description   string
	Location      string
	Latitude      *float64
	Longitude     *float64
	Photos        []string
}

// CreateTx inserts a complaint in status pending together with its
// first timeline entry.  The timeline is never empty after creation;
// both rows commit or neither does.
func (r *ComplaintRepo) CreateTx(ctx context.Context, tx *sql.Tx, p NewComplaintParams) (uint64, error) {
	photos, err := marshalStrings(p.Photos)
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO complaints
		   (token, citizen_id, citizen_name, citizen_phone, department_id,
		    complaint_type, description, location, latitude, longitude, photos, status, priority)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		p.Token, p.CitizenID, p.CitizenName, p.CitizenPhone, p.DepartmentID,
		p.ComplaintType, p.Description, p.Location, p.Latitude, p.Longitude, photos,
		string(lifecycle.StatusPending), string(lifecycle.PriorityNormal))
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	complaintID := uint64(id)
	if err := r.AppendTimelineTx(ctx, tx, complaintID,
		string(lifecycle.StatusPending), "Complaint registered successfully"); err != nil {
		return 0, err
	}
	return complaintID, nil
}

// complaintColumns joins departments for the denormalized name every
// view displays.
const complaintSelect = `SELECT c.id, c.token, c.citizen_id, c.citizen_name, c.citizen_phone,
	   c.department_id, COALESCE(d.name, ''), c.complaint_type, c.description,
	   c.location, c.latitude, c.longitude, c.photos, c.status, c.priority,
	   c.closure_reason, c.closed_by, c.created_at, c.updated_at
	FROM complaints c
	LEFT JOIN departments d ON d.id = c.department_id`

// GetByID returns a complaint with its full timeline loaded.
func (r *ComplaintRepo) GetByID(ctx context.Context, id uint64) (model.Complaint, error) {
	row := r.db.QueryRowContext(ctx, complaintSelect+` WHERE c.id=? LIMIT 1`, id)
	c, err := scanComplaint(row)
	if err != nil {
		return model.Complaint{}, err
	}
	c.Timeline, err = r.loadTimeline(ctx, c.ID)
	return c, err
}

// GetByIDTx is GetByID inside an open transaction, without the
// timeline.  Transition handlers use it to re-read the current status
// under the transaction before validating the state machine step.
func (r *ComplaintRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Complaint, error) {
	row := tx.QueryRowContext(ctx, complaintSelect+` WHERE c.id=? LIMIT 1 FOR UPDATE`, id)
	return scanComplaint(row)
}

// ListByCitizen returns the citizen's own complaints, newest first.
func (r *ComplaintRepo) ListByCitizen(ctx context.Context, citizenID uint64) ([]model.Complaint, error) {
	return r.list(ctx, ` WHERE c.citizen_id=? ORDER BY c.created_at DESC, c.id DESC`, citizenID)
}

// ListByDepartment returns every complaint targeting the department,
// regardless of status.  Sub-admins see the whole department, not only
// what was routed to them.
func (r *ComplaintRepo) ListByDepartment(ctx context.Context, deptID uint64) ([]model.Complaint, error) {
	return r.list(ctx, ` WHERE c.department_id=? ORDER BY c.created_at DESC, c.id DESC`, deptID)
}

// ListByContractor returns complaints whose assignment names the
// contractor, newest first.
func (r *ComplaintRepo) ListByContractor(ctx context.Context, contractorID uint64) ([]model.Complaint, error) {
	rows, err := r.db.QueryContext(ctx, complaintSelect+`
		JOIN assignments a ON a.complaint_id = c.id
		WHERE a.contractor_id=? ORDER BY c.created_at DESC, c.id DESC`, contractorID)
	if err != nil {
		return nil, err
	}
	return collectComplaints(rows)
}

// ListAll returns every complaint, newest first.  Admin only.
func (r *ComplaintRepo) ListAll(ctx context.Context) ([]model.Complaint, error) {
	return r.list(ctx, ` ORDER BY c.created_at DESC, c.id DESC`)
}

func (r *ComplaintRepo) list(ctx context.Context, tail string, args ...any) ([]model.Complaint, error) {
	rows, err := r.db.QueryContext(ctx, complaintSelect+tail, args...)
	if err != nil {
		return nil, err
	}
	return collectComplaints(rows)
}

func collectComplaints(rows *sql.Rows) ([]model.Complaint, error) {
	defer rows.Close()
	complaints := []model.Complaint{}
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		complaints = append(complaints, c)
	}
	return complaints, rows.Err()
}

func scanComplaint(row rowScanner) (model.Complaint, error) {
	var (
		c        model.Complaint
		photos   sql.NullString
		status   string
		priority string
	)
	err := row.Scan(&c.ID, &c.Token, &c.CitizenID, &c.CitizenName, &c.CitizenPhone,
		&c.DepartmentID, &c.DepartmentName, &c.ComplaintType, &c.Description,
		&c.Location, &c.Latitude, &c.Longitude, &photos, &status, &priority,
		&c.ClosureReason, &c.ClosedBy, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Complaint{}, ErrComplaintNotFound
	}
	if err != nil {
		return model.Complaint{}, err
	}
	c.Status = lifecycle.Status(status)
	c.Priority = lifecycle.Priority(priority)
	if c.Photos, err = unmarshalStrings(photos); err != nil {
		return model.Complaint{}, err
	}
	return c, nil
}

// UpdateStatusTx moves the complaint to its new status and appends the
// matching timeline entry.  Every transition goes through here, so the
// invariant "one timeline entry per status change, entry status equals
// new status" holds by construction.
func (r *ComplaintRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status lifecycle.Status, message string) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE complaints SET status=?, updated_at=UTC_TIMESTAMP() WHERE id=?`,
		string(status), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrComplaintNotFound
	}
	return r.AppendTimelineTx(ctx, tx, id, string(status), message)
}

// SetClosureTx records the authority-closure fields alongside the
// status change performed by UpdateStatusTx.
func (r *ComplaintRepo) SetClosureTx(ctx context.Context, tx *sql.Tx, id uint64, reason string, closedBy uint64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE complaints SET closure_reason=?, closed_by=? WHERE id=?`,
		reason, closedBy, id)
	return err
}

// UpdatePriority sets the priority without touching the status, and
// appends a priority_updated timeline entry.  Runs in its own small
// transaction because the two writes must land together.
func (r *ComplaintRepo) UpdatePriority(ctx context.Context, id uint64, priority lifecycle.Priority, message string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	res, err := tx.ExecContext(ctx,
		`UPDATE complaints SET priority=?, updated_at=UTC_TIMESTAMP() WHERE id=?`,
		string(priority), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrComplaintNotFound
	}
	if err := r.AppendTimelineTx(ctx, tx, id, lifecycle.PseudoStatusPriorityUpdated, message); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// AppendTimelineTx adds one audit-log row for the complaint.
func (r *ComplaintRepo) AppendTimelineTx(ctx context.Context, tx *sql.Tx, complaintID uint64, status, message string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO complaint_timeline (complaint_id, status, message, created_at)
		 VALUES (?,?,?,?)`,
		complaintID, status, message, time.Now().UTC())
	return err
}

// loadTimeline returns the audit log in append order.
func (r *ComplaintRepo) loadTimeline(ctx context.Context, complaintID uint64) ([]model.TimelineEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, complaint_id, status, message, created_at
		 FROM complaint_timeline WHERE complaint_id=? ORDER BY id`, complaintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := []model.TimelineEntry{}
	for rows.Next() {
		var e model.TimelineEntry
		if err := rows.Scan(&e.ID, &e.ComplaintID, &e.Status, &e.Message, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
