package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/civicease/complaint-service/internal/lifecycle"
	"github.com/civicease/complaint-service/internal/model"
	"github.com/civicease/complaint-service/internal/repository"
)

// DirectoryHandler serves the user directories the assignment screens
// need (contractors for sub-admins, sub-admins for the admin) and the
// admin's sub-admin department reassignment.
type DirectoryHandler struct {
	Users       *repository.UserRepo
	Departments *repository.DepartmentRepo
}

func NewDirectoryHandler(u *repository.UserRepo, d *repository.DepartmentRepo) *DirectoryHandler {
	return &DirectoryHandler{Users: u, Departments: d}
}

type contractorView struct {
	ID          uint64   `json:"id"`
	Name        string   `json:"name"`
	Phone       string   `json:"phone"`
	Email       string   `json:"email"`
	WorkTypes   []string `json:"work_types,omitempty"`
	Departments []string `json:"departments,omitempty"`
}

type subAdminView struct {
	ID             uint64  `json:"id"`
	Name           string  `json:"name"`
	Phone          string  `json:"phone"`
	Email          string  `json:"email"`
	DepartmentID   *uint64 `json:"department_id,omitempty"`
	DepartmentName *string `json:"department_name,omitempty"`
}

// Contractors handles GET /v1/contractors.
func (h *DirectoryHandler) Contractors(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	users, err := h.Users.ListByRole(ctx, lifecycle.RoleContractor)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	out := make([]contractorView, 0, len(users))
	for _, u := range users {
		out = append(out, contractorView{
			ID: u.ID, Name: u.Name, Phone: u.Phone, Email: u.Email,
			WorkTypes: u.WorkTypes, Departments: u.Departments,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"contractors": out})
}

// SubAdmins handles GET /v1/subadmins.  Admin only.
func (h *DirectoryHandler) SubAdmins(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	users, err := h.Users.ListByRole(ctx, lifecycle.RoleSubAdmin)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"subadmins": viewSubAdmins(users)})
}

type reassignDepartmentReq struct {
	DepartmentID uint64 `json:"department_id"`
}

// ReassignDepartment handles PATCH /v1/subadmins/:id/department.  Admin
// only.  Moving a sub-admin to another department is the single user
// mutation permitted after signup; both the user row and the
// department's sub_admin back reference are updated.
func (h *DirectoryHandler) ReassignDepartment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid sub-admin id")
	}
	var req reassignDepartmentReq
	if err := c.Bind(&req); err != nil || req.DepartmentID == 0 {
		return jsonError(c, http.StatusBadRequest, "department_id required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	sub, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return jsonError(c, http.StatusNotFound, "sub-admin not found")
		}
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	if sub.Role != lifecycle.RoleSubAdmin {
		return jsonError(c, http.StatusBadRequest, "user is not a sub-admin")
	}
	dept, err := h.Departments.GetByID(ctx, req.DepartmentID)
	if err != nil {
		if err == repository.ErrDepartmentNotFound {
			return jsonError(c, http.StatusNotFound, "department not found")
		}
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}

	if err := h.Users.UpdateDepartment(ctx, sub.ID, dept.ID, dept.Name); err != nil {
		if err == repository.ErrUserNotFound {
			return jsonError(c, http.StatusNotFound, "sub-admin not found")
		}
		return jsonError(c, http.StatusInternalServerError, "update failed")
	}
	if err := h.Departments.AssignSubAdmin(ctx, dept.ID, sub.ID, sub.Name); err != nil {
		return jsonError(c, http.StatusInternalServerError, "link department failed")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "subadmin": subAdminView{
		ID: sub.ID, Name: sub.Name, Phone: sub.Phone, Email: sub.Email,
		DepartmentID: &dept.ID, DepartmentName: &dept.Name,
	}})
}

func viewSubAdmins(users []model.User) []subAdminView {
	out := make([]subAdminView, 0, len(users))
	for _, u := range users {
		out = append(out, subAdminView{
			ID: u.ID, Name: u.Name, Phone: u.Phone, Email: u.Email,
			DepartmentID: u.DepartmentID, DepartmentName: u.DepartmentName,
		})
	}
	return out
}
