package router

import (
	"github.com/labstack/echo/v4"

	"github.com/civicease/complaint-service/internal/handler"
	"github.com/civicease/complaint-service/internal/lifecycle"
	"github.com/civicease/complaint-service/internal/middleware"
)

// RegisterAnnouncements registers the management side of announcements
// and the admin's department creation.  The public read endpoints are
// registered by RegisterPublic.
func RegisterAnnouncements(e *echo.Echo, a *handler.AnnouncementHandler, d *handler.DepartmentHandler, jwtSecret string) {
	publishers := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(lifecycle.RoleAdmin, lifecycle.RoleSubAdmin),
	)
	publishers.GET("/announcements/all", a.ListAll)
	publishers.POST("/announcements", a.Save)
	publishers.DELETE("/announcements/:id", a.Delete)

	admin := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(lifecycle.RoleAdmin),
	)
	admin.POST("/departments", d.Create)
}
