package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/civicease/complaint-service/internal/lifecycle"
)

// RequireRole returns a middleware that enforces that the authenticated
// user holds one of the specified lifecycle roles.  It assumes JWTAuth
// has already stored the role claim in the context under "role".  A
// missing or disallowed role aborts the request with 403 Forbidden;
// the fine-grained ownership checks (is this the assignee, does the
// sub-admin own the department) stay in the handlers.
func RequireRole(roles ...lifecycle.Role) echo.MiddlewareFunc {
	allowed := make(map[lifecycle.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			v := c.Get("role")
			role, ok := v.(string)
			if !ok || !allowed[lifecycle.Role(role)] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
