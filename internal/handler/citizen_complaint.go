package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/civicease/complaint-service/internal/lifecycle"
	"github.com/civicease/complaint-service/internal/model"
	"github.com/civicease/complaint-service/internal/repository"
	"github.com/civicease/complaint-service/internal/utils"
)

type createComplaintReq struct {
	DepartmentID  uint64   `json:"department_id"`
	ComplaintType string   `json:"complaint_type"`
	Description   string   `json:"description"`
	Location      string   `json:"location"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	Photos        []string `json:"photos"`
}

type feedbackReq struct {
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	Satisfied bool   `json:"satisfied"`
}

// Create handles POST /v1/complaints.  The citizen files a complaint
// against a department; it starts in status pending with a fresh
// reference token and its first timeline entry.
func (h *ComplaintHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, "unauthorized")
	}
	var req createComplaintReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid body")
	}
	req.ComplaintType = strings.TrimSpace(req.ComplaintType)
	req.Description = strings.TrimSpace(req.Description)
	req.Location = strings.TrimSpace(req.Location)
	if req.DepartmentID == 0 || req.ComplaintType == "" || req.Description == "" || req.Location == "" {
		return jsonError(c, http.StatusBadRequest, "department_id, complaint_type, description and location required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, err := h.Departments.GetByID(ctx, req.DepartmentID); err != nil {
		if err == repository.ErrDepartmentNotFound {
			return jsonError(c, http.StatusNotFound, "department not found")
		}
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	citizen, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "load user failed")
	}

	tx, committed, cleanup, err := h.begin(ctx)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "begin tx failed")
	}
	defer cleanup()

	token, err := utils.NewComplaintToken()
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "generate token failed")
	}
	id, err := h.Complaints.CreateTx(ctx, tx, repository.NewComplaintParams{
		Token:         token,
		CitizenID:     uid,
		CitizenName:   citizen.Name,
		CitizenPhone:  citizen.Phone,
		DepartmentID:  req.DepartmentID,
		ComplaintType: req.ComplaintType,
		Description:   req.Description,
		Location:      req.Location,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		Photos:        req.Photos,
	})
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "create complaint failed")
	}
	if err := tx.Commit(); err != nil {
		return jsonError(c, http.StatusInternalServerError, "commit failed")
	}
	*committed = true

	cmp, err := h.Complaints.GetByID(ctx, id)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "load complaint failed")
	}
	publishTransition(cmp, lifecycle.ActionRegister, lifecycle.StatusPending,
		uid, lifecycle.RoleCitizen, "Complaint registered successfully")
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "complaint": viewComplaint(cmp)})
}

// Feedback handles POST /v1/complaints/:id/feedback.  Only the filing
// citizen may submit it, only once, and only while the complaint is in
// status completed.  A satisfied verdict closes the complaint; an
// unsatisfied one reopens it.
func (h *ComplaintHandler) Feedback(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := pathID(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid complaint id")
	}
	var req feedbackReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid body")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return jsonError(c, http.StatusBadRequest, "rating must be 1-5")
	}
	action := lifecycle.ActionFeedbackSatisfied
	message := "Complaint closed with feedback"
	if !req.Satisfied {
		action = lifecycle.ActionFeedbackUnsatisfied
		message = "Complaint reopened - citizen not satisfied"
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
	if cmp.CitizenID != uid {
		return jsonError(c, http.StatusForbidden, "not your complaint")
	}
	next, err := lifecycle.Next(cmp.Status, action)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err.Error())
	}
	if exists, err := h.Feedbacks.ExistsTx(ctx, tx, id); err != nil {
		return jsonError(c, http.StatusInternalServerError, "query failed")
	} else if exists {
		return jsonError(c, http.StatusConflict, "feedback already submitted")
	}

	if err := h.Feedbacks.CreateTx(ctx, tx, model.Feedback{
		ComplaintID: id,
		CitizenID:   uid,
		Rating:      req.Rating,
		Comment:     strings.TrimSpace(req.Comment),
		Satisfied:   req.Satisfied,
	}); err != nil {
		if err == repository.ErrConflict {
			return jsonError(c, http.StatusConflict, "feedback already submitted")
		}
		return jsonError(c, http.StatusInternalServerError, "save feedback failed")
	}
	if err := h.Complaints.UpdateStatusTx(ctx, tx, id, next, message); err != nil {
		return jsonError(c, http.StatusInternalServerError, "update status failed")
	}
	if err := tx.Commit(); err != nil {
		return jsonError(c, http.StatusInternalServerError, "commit failed")
	}
	*committed = true

	publishTransition(cmp, action, next, uid, lifecycle.RoleCitizen, message)
	return h.respondComplaint(c, ctx, id)
}
