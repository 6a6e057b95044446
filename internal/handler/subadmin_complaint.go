package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/civicease/complaint-service/internal/lifecycle"
	"github.com/civicease/complaint-service/internal/repository"
)

type assignContractorReq struct {
	ContractorID  uint64   `json:"contractor_id"`
	EstimatedFees *float64 `json:"estimated_fees"`
	EstimatedTime string   `json:"estimated_time"`
	Description   string   `json:"description"`
}

// AssignContractor handles POST /v1/complaints/:id/assign-contractor.
// The sub-admin managing the complaint's department proposes a
// contractor with the work terms.  The same endpoint re-assigns after a
// rejection; the previous contractor answer is wiped and the contractor
// status returns to pending.
func (h *ComplaintHandler) AssignContractor(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := pathID(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid complaint id")
	}
	var req assignContractorReq
	if err := c.Bind(&req); err != nil || req.ContractorID == 0 {
		return jsonError(c, http.StatusBadRequest, "contractor_id required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	contractor, err := h.Users.GetByID(ctx, req.ContractorID)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return jsonError(c, http.StatusNotFound, "contractor not found")
		}
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	if contractor.Role != lifecycle.RoleContractor {
		return jsonError(c, http.StatusBadRequest, "user is not a contractor")
	}
	caller, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "load user failed")
	}

	tx, committed, cleanup, err := h.begin(ctx)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "begin tx failed")
	}
	defer cleanup()

	cmp, err := h.Complaints.GetByIDTx(ctx, tx, id)
	if err != nil {
		if err == repository.ErrComplaintNotFound {
			return jsonError(c, http.StatusNotFound, "complaint not found")
		}
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	if caller.DepartmentID == nil || *caller.DepartmentID != cmp.DepartmentID {
		return jsonError(c, http.StatusForbidden, "not your department")
	}
	next, err := lifecycle.Next(cmp.Status, lifecycle.ActionAssignContractor)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err.Error())
	}

	params := repository.ContractorAssignmentParams{
		ContractorID:    contractor.ID,
		ContractorName:  contractor.Name,
		ContractorPhone: contractor.Phone,
		EstimatedFees:   req.EstimatedFees,
	}
	if t := strings.TrimSpace(req.EstimatedTime); t != "" {
		params.EstimatedTime = &t
	}
	if d := strings.TrimSpace(req.Description); d != "" {
		params.Description = &d
	}

	message := fmt.Sprintf("Assigned to contractor %s", contractor.Name)
	if err := h.Assignments.SetContractorTx(ctx, tx, id, params); err != nil {
		return jsonError(c, http.StatusInternalServerError, "save assignment failed")
	}
	if err := h.Complaints.UpdateStatusTx(ctx, tx, id, next, message); err != nil {
		return jsonError(c, http.StatusInternalServerError, "update status failed")
	}
	if err := tx.Commit(); err != nil {
		return jsonError(c, http.StatusInternalServerError, "commit failed")
	}
	*committed = true

	publishTransition(cmp, lifecycle.ActionAssignContractor, next, uid, lifecycle.RoleSubAdmin, message)
	return h.respondComplaint(c, ctx, id)
}
