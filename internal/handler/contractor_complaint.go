package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/civicease/complaint-service/internal/lifecycle"
	"github.com/civicease/complaint-service/internal/repository"
)

type contractorResponseReq struct {
	Response string `json:"response"` // accept | reject
}

type completeReq struct {
	Notes  string   `json:"notes"`
	Photos []string `json:"photos"`
}

// Respond handles POST /v1/complaints/:id/contractor-response.  The assigned
// contractor accepts or rejects the work order.  Accepting moves the
// complaint to in_progress; rejecting hands it back to the sub-admin
// for re-assignment.
func (h *ComplaintHandler) Respond(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := pathID(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid complaint id")
	}
	var req contractorResponseReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid body")
	}

	var (
		action  lifecycle.Action
		message string
	)
	switch strings.ToLower(strings.TrimSpace(req.Response)) {
	case "accept":
		action = lifecycle.ActionAccept
		message = "Work started by contractor"
	case "reject":
		action = lifecycle.ActionReject
		message = "Contractor rejected the assignment"
	default:
		return jsonError(c, http.StatusBadRequest, "response must be accept or reject")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

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
	asg, err := h.Assignments.GetByComplaintTx(ctx, tx, id)
	if err != nil {
		if err == repository.ErrAssignmentNotFound {
			return jsonError(c, http.StatusNotFound, "assignment not found")
		}
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	if asg.ContractorID == nil || *asg.ContractorID != uid {
		return jsonError(c, http.StatusForbidden, "not your assignment")
	}

	next, err := lifecycle.Next(cmp.Status, action)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err.Error())
	}
	cs, err := lifecycle.NextContractorStatus(asg.ContractorStatus, action)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err.Error())
	}

	if err := h.Assignments.SetContractorResponseTx(ctx, tx, id, cs); err != nil {
		return jsonError(c, http.StatusInternalServerError, "save response failed")
	}
	if err := h.Complaints.UpdateStatusTx(ctx, tx, id, next, message); err != nil {
		return jsonError(c, http.StatusInternalServerError, "update status failed")
	}
	if err := tx.Commit(); err != nil {
		return jsonError(c, http.StatusInternalServerError, "commit failed")
	}
	*committed = true

	publishTransition(cmp, action, next, uid, lifecycle.RoleContractor, message)
	return h.respondComplaint(c, ctx, id)
}

// Complete handles POST /v1/complaints/:id/complete.  The assigned
// contractor documents the finished work; the complaint moves to
// completed and waits for citizen feedback.
func (h *ComplaintHandler) Complete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := pathID(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid complaint id")
	}
	var req completeReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

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
	asg, err := h.Assignments.GetByComplaintTx(ctx, tx, id)
	if err != nil {
		if err == repository.ErrAssignmentNotFound {
			return jsonError(c, http.StatusNotFound, "assignment not found")
		}
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	if asg.ContractorID == nil || *asg.ContractorID != uid {
		return jsonError(c, http.StatusForbidden, "not your assignment")
	}

	next, err := lifecycle.Next(cmp.Status, lifecycle.ActionComplete)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err.Error())
	}
	if _, err := lifecycle.NextContractorStatus(asg.ContractorStatus, lifecycle.ActionComplete); err != nil {
		return jsonError(c, http.StatusBadRequest, err.Error())
	}

	message := "Work completed by contractor"
	if err := h.Assignments.SetCompletionTx(ctx, tx, id, strings.TrimSpace(req.Notes), req.Photos); err != nil {
		return jsonError(c, http.StatusInternalServerError, "save completion failed")
	}
	if err := h.Complaints.UpdateStatusTx(ctx, tx, id, next, message); err != nil {
		return jsonError(c, http.StatusInternalServerError, "update status failed")
	}
	if err := tx.Commit(); err != nil {
		return jsonError(c, http.StatusInternalServerError, "commit failed")
	}
	*committed = true

	publishTransition(cmp, lifecycle.ActionComplete, next, uid, lifecycle.RoleContractor, message)
	return h.respondComplaint(c, ctx, id)
}
