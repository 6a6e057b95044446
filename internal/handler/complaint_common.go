package handler

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/civicease/complaint-service/internal/repository"
)

// ComplaintHandler groups the repositories needed to run the complaint
// lifecycle.  All methods assume JWT authentication and role validation
// have already been performed by middleware; ownership checks (the
// citizen owns the complaint, the contractor is the assignee, the
// sub-admin manages the department) happen here.  Transition writes run
// inside a single transaction so the complaint row, its timeline and
// the assignment row can never drift apart.
type ComplaintHandler struct {
	Complaints  *repository.ComplaintRepo
	Assignments *repository.AssignmentRepo
	Feedbacks   *repository.FeedbackRepo
	Users       *repository.UserRepo
	Departments *repository.DepartmentRepo
}

func NewComplaintHandler(c *repository.ComplaintRepo, a *repository.AssignmentRepo, f *repository.FeedbackRepo, u *repository.UserRepo, d *repository.DepartmentRepo) *ComplaintHandler {
	if c == nil || a == nil || f == nil || u == nil || d == nil {
		panic("nil repository passed to NewComplaintHandler")
	}
	return &ComplaintHandler{Complaints: c, Assignments: a, Feedbacks: f, Users: u, Departments: d}
}

// begin opens a transaction on the shared database handle with the
// usual committed-flag rollback pattern.  Callers defer the returned
// cleanup and set *committed after a successful Commit.
func (h *ComplaintHandler) begin(ctx context.Context) (*sql.Tx, *bool, func(), error) {
	tx, err := h.Complaints.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, nil, err
	}
	committed := false
	cleanup := func() {
		if !committed {
			_ = tx.Rollback()
		}
	}
	return tx, &committed, cleanup, nil
}

// respondComplaint re-reads the complaint with its timeline and renders
// it inside the success envelope.  Used as the response of every
// transition endpoint.
func (h *ComplaintHandler) respondComplaint(c echo.Context, ctx context.Context, id uint64) error {
	cmp, err := h.Complaints.GetByID(ctx, id)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "load complaint failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "complaint": viewComplaint(cmp)})
}
