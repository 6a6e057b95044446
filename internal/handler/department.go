package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/civicease/complaint-service/internal/repository"
)

// DepartmentHandler serves the public department list and the admin's
// create endpoint.
type DepartmentHandler struct {
	Departments *repository.DepartmentRepo
}

func NewDepartmentHandler(d *repository.DepartmentRepo) *DepartmentHandler {
	return &DepartmentHandler{Departments: d}
}

type createDepartmentReq struct {
	Name              string `json:"name"`
	CustomerCarePhone string `json:"customer_care_phone"`
	CustomerCareEmail string `json:"customer_care_email"`
}

type departmentView struct {
	ID                uint64  `json:"id"`
	Name              string  `json:"name"`
	CustomerCarePhone string  `json:"customer_care_phone"`
	CustomerCareEmail string  `json:"customer_care_email"`
	SubAdminID        *uint64 `json:"sub_admin_id,omitempty"`
	SubAdminName      *string `json:"sub_admin_name,omitempty"`
}

// List handles GET /v1/departments.  Public; sits behind the response
// cache since the list changes rarely.
func (h *DepartmentHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	depts, err := h.Departments.List(ctx)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	out := make([]departmentView, 0, len(depts))
	for _, d := range depts {
		out = append(out, departmentView{
			ID: d.ID, Name: d.Name,
			CustomerCarePhone: d.CustomerCarePhone,
			CustomerCareEmail: d.CustomerCareEmail,
			SubAdminID:        d.SubAdminID,
			SubAdminName:      d.SubAdminName,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"departments": out})
}

// Create handles POST /v1/departments.  Admin only.  Care phone and
// email fall back to the seeded defaults when omitted.
func (h *DepartmentHandler) Create(c echo.Context) error {
	var req createDepartmentReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		return jsonError(c, http.StatusBadRequest, "name required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	d, err := h.Departments.Create(ctx, strings.TrimSpace(req.Name),
		strings.TrimSpace(req.CustomerCarePhone), strings.TrimSpace(req.CustomerCareEmail))
	if err != nil {
		if err == repository.ErrConflict {
			return jsonError(c, http.StatusConflict, "department already exists")
		}
		return jsonError(c, http.StatusInternalServerError, "create department failed")
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "department": departmentView{
		ID: d.ID, Name: d.Name,
		CustomerCarePhone: d.CustomerCarePhone,
		CustomerCareEmail: d.CustomerCareEmail,
	}})
}
