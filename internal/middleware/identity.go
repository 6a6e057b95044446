package middleware

// identity.go provides the caller-identification helper shared by the
// cache and rate-limit middlewares.  Unlike the auth middleware it
// never fails: unauthenticated requests are keyed as "anon".

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// callerKey returns a stable string identifying the authenticated user
// for cache and rate-limit keys, or "anon" for guests.
func callerKey(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case uint64:
		return strconv.FormatUint(v, 10)
	case string:
		if v != "" {
			return v
		}
	}
	return "anon"
}
