// Package router wires HTTP routes to their handlers and middleware.
// Registration is split per audience: public, auth, complaint workflow
// and announcements.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/civicease/complaint-service/internal/handler"
	"github.com/civicease/complaint-service/internal/lifecycle"
	"github.com/civicease/complaint-service/internal/middleware"
)

// RegisterPublic registers the unauthenticated endpoints: the health
// probe, the department directory and active announcements.  The
// optional cache middleware is applied to the two browse endpoints
// since both change rarely.
func RegisterPublic(e *echo.Echo, d *handler.DepartmentHandler, a *handler.AnnouncementHandler, cache echo.MiddlewareFunc) {
	e.GET("/health", handler.Health)

	mws := []echo.MiddlewareFunc{}
	if cache != nil {
		mws = append(mws, cache)
	}
	e.GET("/v1/departments", d.List, mws...)
	e.GET("/v1/announcements", a.ListActive, mws...)
}

// RegisterAuth registers the authentication endpoints.  Signup, login
// and the refresh flows are public; sub-admin signup requires an admin
// session and create-admin is gated by a shared secret inside the
// handler.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/signup", a.Signup)
	g.POST("/create-admin", a.CreateAdmin)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout accepts a refresh token in the body without a JWT; a
	// bearer token alone revokes every session, so the middleware is
	// applied but failures inside it are tolerated by sending the
	// refresh token instead.
	g.POST("/logout", a.Logout)
	e.POST("/v1/logout", a.Logout, middleware.JWTAuth(jwtSecret))

	g.POST("/signup-subadmin", a.SignupSubAdmin,
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(lifecycle.RoleAdmin))

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/profile", a.Profile)
}
