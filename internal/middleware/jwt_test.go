package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicease/complaint-service/internal/lifecycle"
	"github.com/civicease/complaint-service/internal/middleware"
	"github.com/civicease/complaint-service/internal/utils"
)

const testSecret = "unit-test-secret"

// invoke runs a request through the given middlewares and a terminal
// handler that records the context values the middleware injected.
func invoke(t *testing.T, authHeader string, mws ...echo.MiddlewareFunc) (*httptest.ResponseRecorder, uint64, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/complaints", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotID uint64
	var gotRole string
	h := func(c echo.Context) error {
		gotID, _ = c.Get("user_id").(uint64)
		gotRole, _ = c.Get("role").(string)
		return c.NoContent(http.StatusOK)
	}
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	require.NoError(t, h(c))
	return rec, gotID, gotRole
}

func TestJWTAuthValidToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 42, lifecycle.RoleSubAdmin, 5)
	require.NoError(t, err)

	rec, id, role := invoke(t, "Bearer "+tok.Token, middleware.JWTAuth(testSecret))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(42), id)
	assert.Equal(t, "subadmin", role)
}

func TestJWTAuthMissingHeader(t *testing.T) {
	rec, _, _ := invoke(t, "", middleware.JWTAuth(testSecret))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing bearer token")
}

func TestJWTAuthWrongSecret(t *testing.T) {
	tok, err := utils.NewAccessToken("other-secret", 42, lifecycle.RoleCitizen, 5)
	require.NoError(t, err)

	rec, _, _ := invoke(t, "Bearer "+tok.Token, middleware.JWTAuth(testSecret))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsUnknownRole(t *testing.T) {
	// A token minted with a role outside the closed enum must not pass.
	tok, err := utils.NewAccessToken(testSecret, 7, lifecycle.Role("owner"), 5)
	require.NoError(t, err)

	rec, _, _ := invoke(t, "Bearer "+tok.Token, middleware.JWTAuth(testSecret))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRoleAllows(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 9, lifecycle.RoleAdmin, 5)
	require.NoError(t, err)

	rec, _, role := invoke(t, "Bearer "+tok.Token,
		middleware.JWTAuth(testSecret),
		middleware.RequireRole(lifecycle.RoleAdmin, lifecycle.RoleSubAdmin))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", role)
}

func TestRequireRoleBlocksOtherRoles(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 9, lifecycle.RoleCitizen, 5)
	require.NoError(t, err)

	rec, _, _ := invoke(t, "Bearer "+tok.Token,
		middleware.JWTAuth(testSecret),
		middleware.RequireRole(lifecycle.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleWithoutAuthContext(t *testing.T) {
	// RequireRole on its own (no JWTAuth ran) must refuse.
	rec, _, _ := invoke(t, "", middleware.RequireRole(lifecycle.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
