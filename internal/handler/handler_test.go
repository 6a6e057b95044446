package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicease/complaint-service/internal/config"
)

// newCtx builds an echo context for a JSON request, optionally
// pre-seeding the identity values the JWT middleware would set.
func newCtx(t *testing.T, method, path, body string, uid uint64, role string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if uid != 0 {
		c.Set("user_id", uid)
		c.Set("role", role)
	}
	return c, rec
}

func TestHealth(t *testing.T) {
	c, rec := newCtx(t, http.MethodGet, "/health", "", 0, "")
	require.NoError(t, Health(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.NotEmpty(t, resp["timestamp"])
}

func TestCreateComplaintRequiresFields(t *testing.T) {
	h := &ComplaintHandler{}
	c, rec := newCtx(t, http.MethodPost, "/v1/complaints",
		`{"department_id":1,"complaint_type":"","description":"x","location":"y"}`,
		7, "citizen")
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "required")
}

func TestCreateComplaintUnauthenticated(t *testing.T) {
	h := &ComplaintHandler{}
	c, rec := newCtx(t, http.MethodPost, "/v1/complaints", `{}`, 0, "")
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFeedbackRejectsBadRating(t *testing.T) {
	h := &ComplaintHandler{}
	c, rec := newCtx(t, http.MethodPost, "/v1/complaints/3/feedback",
		`{"rating":9,"satisfied":true}`, 7, "citizen")
	c.SetParamNames("id")
	c.SetParamValues("3")
	require.NoError(t, h.Feedback(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "rating must be 1-5")
}

func TestContractorResponseMustBeAcceptOrReject(t *testing.T) {
	h := &ComplaintHandler{}
	c, rec := newCtx(t, http.MethodPost, "/v1/complaints/3/contractor-response",
		`{"response":"maybe"}`, 7, "contractor")
	c.SetParamNames("id")
	c.SetParamValues("3")
	require.NoError(t, h.Respond(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "accept or reject")
}

func TestUpdatePriorityRejectsUnknownLevel(t *testing.T) {
	h := &ComplaintHandler{}
	c, rec := newCtx(t, http.MethodPatch, "/v1/complaints/3/priority",
		`{"priority":"asap"}`, 1, "admin")
	c.SetParamNames("id")
	c.SetParamValues("3")
	require.NoError(t, h.UpdatePriority(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "priority")
}

func TestCloseRequiresReason(t *testing.T) {
	h := &ComplaintHandler{}
	c, rec := newCtx(t, http.MethodPost, "/v1/complaints/3/close",
		`{"reason":"  "}`, 1, "admin")
	c.SetParamNames("id")
	c.SetParamValues("3")
	require.NoError(t, h.Close(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "reason required")
}

func TestCloseForbiddenForCitizen(t *testing.T) {
	h := &ComplaintHandler{}
	c, rec := newCtx(t, http.MethodPost, "/v1/complaints/3/close",
		`{"reason":"duplicate"}`, 7, "citizen")
	c.SetParamNames("id")
	c.SetParamValues("3")
	require.NoError(t, h.Close(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSignupRejectsPrivilegedRoles(t *testing.T) {
	h := &AuthHandler{}
	c, rec := newCtx(t, http.MethodPost, "/v1/auth/signup",
		`{"email":"a@b.c","password":"pw","name":"A","role":"admin"}`, 0, "")
	require.NoError(t, h.Signup(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "citizen or contractor")
}

func TestCreateAdminWrongSecret(t *testing.T) {
	h := &AuthHandler{Cfg: config.Config{AdminSecretKey: "right"}}
	c, rec := newCtx(t, http.MethodPost, "/v1/auth/create-admin",
		`{"secret_key":"wrong","email":"a@b.c","password":"pw","name":"A"}`, 0, "")
	require.NoError(t, h.CreateAdmin(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid secret key")
}

func TestAnnouncementSaveValidation(t *testing.T) {
	h := &AnnouncementHandler{}
	c, rec := newCtx(t, http.MethodPost, "/v1/announcements",
		`{"title":"","message":"body"}`, 1, "admin")
	require.NoError(t, h.Save(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newCtx(t, http.MethodPost, "/v1/announcements",
		`{"title":"t","message":"m","priority":"critical"}`, 1, "admin")
	require.NoError(t, h.Save(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "normal or high")
}
