package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/civicease/complaint-service/internal/lifecycle"
	"github.com/civicease/complaint-service/internal/model"
	"github.com/civicease/complaint-service/internal/repository"
)

// List handles GET /v1/complaints.  The result set depends on the
// caller's role: citizens see their own complaints, contractors their
// assignments, sub-admins their department and the admin everything.
// Always newest first.
func (h *ComplaintHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, "unauthorized")
	}
	role, err := getRole(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, "unauthorized")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	var cmps []model.Complaint
	switch role {
	case lifecycle.RoleCitizen:
		cmps, err = h.Complaints.ListByCitizen(ctx, uid)
	case lifecycle.RoleContractor:
		cmps, err = h.Complaints.ListByContractor(ctx, uid)
	case lifecycle.RoleSubAdmin:
		var u model.User
		u, err = h.Users.GetByID(ctx, uid)
		if err == nil {
			if u.DepartmentID == nil {
				return jsonError(c, http.StatusForbidden, "no department assigned")
			}
			cmps, err = h.Complaints.ListByDepartment(ctx, *u.DepartmentID)
		}
	case lifecycle.RoleAdmin:
		cmps, err = h.Complaints.ListAll(ctx)
	default:
		return jsonError(c, http.StatusForbidden, "forbidden")
	}
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"complaints": viewComplaints(cmps)})
}

// Detail handles GET /v1/complaints/:id.  It returns the complaint
// with its timeline, plus the assignment and feedback records when they
// exist.  Visibility follows the same ownership rules as List; a caller
// outside the complaint's audience gets 403, not 404, so existence is
// still signalled to authenticated users.
func (h *ComplaintHandler) Detail(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, "unauthorized")
	}
	role, err := getRole(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := pathID(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid complaint id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	cmp, err := h.Complaints.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrComplaintNotFound {
			return jsonError(c, http.StatusNotFound, "complaint not found")
		}
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}

	asg, asgErr := h.Assignments.GetByComplaint(ctx, id)
	if asgErr != nil && asgErr != repository.ErrAssignmentNotFound {
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}

	switch role {
	case lifecycle.RoleCitizen:
		if cmp.CitizenID != uid {
			return jsonError(c, http.StatusForbidden, "not your complaint")
		}
	case lifecycle.RoleContractor:
		if asgErr != nil || asg.ContractorID == nil || *asg.ContractorID != uid {
			return jsonError(c, http.StatusForbidden, "not your assignment")
		}
	case lifecycle.RoleSubAdmin:
		u, err := h.Users.GetByID(ctx, uid)
		if err != nil {
			return jsonError(c, http.StatusInternalServerError, "load user failed")
		}
		if u.DepartmentID == nil || *u.DepartmentID != cmp.DepartmentID {
			return jsonError(c, http.StatusForbidden, "not your department")
		}
	case lifecycle.RoleAdmin:
		// sees everything
	default:
		return jsonError(c, http.StatusForbidden, "forbidden")
	}

	resp := echo.Map{"complaint": viewComplaint(cmp)}
	if asgErr == nil {
		resp["assignment"] = viewAssignment(asg)
	}
	if fb, err := h.Feedbacks.GetByComplaint(ctx, id); err == nil {
		resp["feedback"] = viewFeedback(fb)
	} else if err != repository.ErrFeedbackNotFound {
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, resp)
}
