package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/civicease/complaint-service/internal/lifecycle"
	"github.com/civicease/complaint-service/internal/repository"
)

type assignSubAdminReq struct {
	SubAdminID uint64 `json:"sub_admin_id"`
}

type priorityReq struct {
	Priority string `json:"priority"`
}

type closeReq struct {
	Reason string `json:"reason"`
}

// AssignSubAdmin handles POST /v1/complaints/:id/assign-subadmin.  The
// admin routes a pending complaint to the sub-admin managing its
// department.
func (h *ComplaintHandler) AssignSubAdmin(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := pathID(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid complaint id")
	}
	var req assignSubAdminReq
	if err := c.Bind(&req); err != nil || req.SubAdminID == 0 {
		return jsonError(c, http.StatusBadRequest, "sub_admin_id required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	sub, err := h.Users.GetByID(ctx, req.SubAdminID)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return jsonError(c, http.StatusNotFound, "sub-admin not found")
		}
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	if sub.Role != lifecycle.RoleSubAdmin {
		return jsonError(c, http.StatusBadRequest, "user is not a sub-admin")
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
	// The sub-admin must manage the department the complaint targets.
	if sub.DepartmentID == nil || *sub.DepartmentID != cmp.DepartmentID {
		return jsonError(c, http.StatusBadRequest, "sub-admin does not manage this department")
	}
	next, err := lifecycle.Next(cmp.Status, lifecycle.ActionAssignSubAdmin)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err.Error())
	}

	deptName := cmp.DepartmentName
	message := fmt.Sprintf("Assigned to %s (%s)", sub.Name, deptName)
	if err := h.Assignments.SetSubAdminTx(ctx, tx, id, sub.ID, sub.Name); err != nil {
		return jsonError(c, http.StatusInternalServerError, "save assignment failed")
	}
	if err := h.Complaints.UpdateStatusTx(ctx, tx, id, next, message); err != nil {
		return jsonError(c, http.StatusInternalServerError, "update status failed")
	}
	if err := tx.Commit(); err != nil {
		return jsonError(c, http.StatusInternalServerError, "commit failed")
	}
	*committed = true

	publishTransition(cmp, lifecycle.ActionAssignSubAdmin, next, uid, lifecycle.RoleAdmin, message)
	return h.respondComplaint(c, ctx, id)
}

// UpdatePriority handles PATCH /v1/complaints/:id/priority.  Priority
// is admin-controlled metadata; changing it never moves the status, it
// only appends a priority_updated timeline entry.
func (h *ComplaintHandler) UpdatePriority(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid complaint id")
	}
	var req priorityReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid body")
	}
	p := lifecycle.Priority(strings.ToLower(strings.TrimSpace(req.Priority)))
	if !p.Valid() {
		return jsonError(c, http.StatusBadRequest, "priority must be urgent, high, normal or low")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	message := fmt.Sprintf("Priority set to %s", p)
	if err := h.Complaints.UpdatePriority(ctx, id, p, message); err != nil {
		if err == repository.ErrComplaintNotFound {
			return jsonError(c, http.StatusNotFound, "complaint not found")
		}
		return jsonError(c, http.StatusInternalServerError, "update priority failed")
	}
	return h.respondComplaint(c, ctx, id)
}

// Close handles POST /v1/complaints/:id/close.  Admin or sub-admin
// force-closes a complaint with a reason from any non-terminal state.
// A sub-admin may only close complaints of their own department.
func (h *ComplaintHandler) Close(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, "unauthorized")
	}
	role, err := getRole(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, "unauthorized")
	}
	if err := lifecycle.CheckActor(role, lifecycle.ActionAuthorityClose); err != nil {
		return jsonError(c, http.StatusForbidden, "forbidden")
	}
	id, err := pathID(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid complaint id")
	}
	var req closeReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Reason) == "" {
		return jsonError(c, http.StatusBadRequest, "reason required")
	}
	reason := strings.TrimSpace(req.Reason)

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
	if role == lifecycle.RoleSubAdmin {
		u, err := h.Users.GetByID(ctx, uid)
		if err != nil {
			return jsonError(c, http.StatusInternalServerError, "load user failed")
		}
		if u.DepartmentID == nil || *u.DepartmentID != cmp.DepartmentID {
			return jsonError(c, http.StatusForbidden, "not your department")
		}
	}
	next, err := lifecycle.Next(cmp.Status, lifecycle.ActionAuthorityClose)
	if err != nil {
		if errors.Is(err, lifecycle.ErrInvalidTransition) {
			return jsonError(c, http.StatusBadRequest, err.Error())
		}
		return jsonError(c, http.StatusInternalServerError, "transition failed")
	}

	message := fmt.Sprintf("Closed by %s: %s", role, reason)
	if err := h.Complaints.SetClosureTx(ctx, tx, id, reason, uid); err != nil {
		return jsonError(c, http.StatusInternalServerError, "save closure failed")
	}
	if err := h.Complaints.UpdateStatusTx(ctx, tx, id, next, message); err != nil {
		return jsonError(c, http.StatusInternalServerError, "update status failed")
	}
	if err := tx.Commit(); err != nil {
		return jsonError(c, http.StatusInternalServerError, "commit failed")
	}
	*committed = true

	publishTransition(cmp, lifecycle.ActionAuthorityClose, next, uid, role, message)
	return h.respondComplaint(c, ctx, id)
}
