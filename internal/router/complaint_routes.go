package router

import (
	"github.com/labstack/echo/v4"

	"github.com/civicease/complaint-service/internal/handler"
	"github.com/civicease/complaint-service/internal/lifecycle"
	"github.com/civicease/complaint-service/internal/middleware"
)

// RegisterComplaints registers the complaint workflow endpoints.  Every
// route requires a valid JWT; the role gates mirror the lifecycle's
// actor rules and the handlers enforce ownership on top.
func RegisterComplaints(e *echo.Echo, h *handler.ComplaintHandler, dir *handler.DirectoryHandler, jwtSecret string) {
	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))

	// Any authenticated role: the handler filters by role.
	auth.GET("/complaints", h.List)
	auth.GET("/complaints/:id", h.Detail)
	auth.GET("/contractors", dir.Contractors)

	// Citizen actions.
	citizen := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(lifecycle.RoleCitizen),
	)
	citizen.POST("/complaints", h.Create)
	citizen.POST("/complaints/:id/feedback", h.Feedback)

	// Admin actions.
	admin := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(lifecycle.RoleAdmin),
	)
	admin.POST("/complaints/:id/assign-subadmin", h.AssignSubAdmin)
	admin.PATCH("/complaints/:id/priority", h.UpdatePriority)
	admin.GET("/subadmins", dir.SubAdmins)
	admin.PATCH("/subadmins/:id/department", dir.ReassignDepartment)

	// Sub-admin actions.
	subadmin := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(lifecycle.RoleSubAdmin),
	)
	subadmin.POST("/complaints/:id/assign-contractor", h.AssignContractor)

	// Contractor actions.
	contractor := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(lifecycle.RoleContractor),
	)
	contractor.POST("/complaints/:id/contractor-response", h.Respond)
	contractor.POST("/complaints/:id/complete", h.Complete)

	// Authority close is shared between admin and sub-admin; the
	// department ownership check for sub-admins lives in the handler.
	authority := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(lifecycle.RoleAdmin, lifecycle.RoleSubAdmin),
	)
	authority.POST("/complaints/:id/close", h.Close)
}
