package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/civicease/complaint-service/internal/model"
)

// FeedbackRepo persists the citizen's one-time verdict on completed
// work.  The complaint_id primary key enforces immutability: a second
// submission hits the duplicate key and is reported as ErrConflict.
type FeedbackRepo struct{ DB *sql.DB }

func NewFeedbackRepo(db *sql.DB) *FeedbackRepo { return &FeedbackRepo{DB: db} }

// CreateTx inserts the feedback row within the transition transaction
// that also closes or reopens the complaint.
func (r *FeedbackRepo) CreateTx(ctx context.Context, tx *sql.Tx, f model.Feedback) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO feedback (complaint_id, citizen_id, rating, comment, satisfied, submitted_at)
		 VALUES (?,?,?,?,?,?)`,
		f.ComplaintID, f.CitizenID, f.Rating, f.Comment, f.Satisfied, time.Now().UTC())
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "1062") {
		return ErrConflict
	}
	return err
}

// GetByComplaint returns the feedback for a complaint if it exists.
func (r *FeedbackRepo) GetByComplaint(ctx context.Context, complaintID uint64) (model.Feedback, error) {
	var f model.Feedback
	err := r.DB.QueryRowContext(ctx,
		`SELECT complaint_id, citizen_id, rating, comment, satisfied, submitted_at
		 FROM feedback WHERE complaint_id=? LIMIT 1`, complaintID).
		Scan(&f.ComplaintID, &f.CitizenID, &f.Rating, &f.Comment, &f.Satisfied, &f.SubmittedAt)
	if err == sql.ErrNoRows {
		return model.Feedback{}, ErrFeedbackNotFound
	}
	return f, err
}

// ExistsTx reports whether feedback has already been submitted, checked
// under the transition transaction before the status change.
func (r *FeedbackRepo) ExistsTx(ctx context.Context, tx *sql.Tx, complaintID uint64) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx,
		`SELECT 1 FROM feedback WHERE complaint_id=? LIMIT 1`, complaintID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}
