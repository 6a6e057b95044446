package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/civicease/complaint-service/internal/config"
	"github.com/civicease/complaint-service/internal/lifecycle"
	"github.com/civicease/complaint-service/internal/repository"
	"github.com/civicease/complaint-service/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg         config.Config
	Users       *repository.UserRepo
	Tokens      *repository.TokenRepo
	Departments *repository.DepartmentRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo, d *repository.DepartmentRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t, Departments: d}
}

// ----- DTOs -----

type signupReq struct {
	Email       string   `json:"email"`
	Password    string   `json:"password"`
	Name        string   `json:"name"`
	Phone       string   `json:"phone"`
	Role        string   `json:"role"` // citizen | contractor
	Aadhaar     string   `json:"aadhaar"`
	Address     string   `json:"address"`
	WorkTypes   []string `json:"work_types"`  // contractor only
	Departments []string `json:"departments"` // contractor only
}

type subAdminSignupReq struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	DepartmentID uint64 `json:"department_id"`
}

type createAdminReq struct {
	SecretKey string `json:"secret_key"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}
type authResp struct {
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

// issuePair creates and persists an access/refresh pair for a user.
func (h *AuthHandler) issuePair(ctx context.Context, uid uint64, role lifecycle.Role) (utils.AccessToken, utils.RefreshToken, error) {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, uid, role, h.Cfg.AccessTTLMin)
	if err != nil {
		return utils.AccessToken{}, utils.RefreshToken{}, err
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return utils.AccessToken{}, utils.RefreshToken{}, err
	}
	if err := h.Tokens.StoreRefresh(ctx, uid, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return utils.AccessToken{}, utils.RefreshToken{}, err
	}
	return access, refresh, nil
}

// Signup registers a citizen or contractor and returns tokens
// immediately.  Sub-admin and admin accounts are created through their
// own gated endpoints.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" || strings.TrimSpace(req.Name) == "" {
		return jsonError(c, http.StatusBadRequest, "email, password and name required")
	}
	role := lifecycle.Role(strings.ToLower(strings.TrimSpace(req.Role)))
	if role == "" {
		role = lifecycle.RoleCitizen
	}
	if role != lifecycle.RoleCitizen && role != lifecycle.RoleContractor {
		return jsonError(c, http.StatusBadRequest, "role must be citizen or contractor")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	p := repository.NewUserParams{
		Email:    req.Email,
		Password: req.Password,
		Name:     strings.TrimSpace(req.Name),
		Phone:    strings.TrimSpace(req.Phone),
		Role:     role,
	}
	if req.Aadhaar != "" {
		p.Aadhaar = &req.Aadhaar
	}
	if req.Address != "" {
		p.Address = &req.Address
	}
	if role == lifecycle.RoleContractor {
		p.WorkTypes = req.WorkTypes
		p.Departments = req.Departments
	}

	uid, err := h.Users.Create(ctx, p, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			return jsonError(c, http.StatusConflict, "email already exists")
		}
		return jsonError(c, http.StatusInternalServerError, "create user failed")
	}

	access, refresh, err := h.issuePair(ctx, uid, role)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "issue tokens failed")
	}
	return c.JSON(http.StatusCreated, authResp{
		User:    userPart{ID: uid, Email: req.Email, Name: p.Name, Role: string(role)},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
	})
}

// SignupSubAdmin creates a sub-admin bound to a department.  Admin
// only.  The department's sub_admin back reference is updated so the
// directory shows who manages it.
func (h *AuthHandler) SignupSubAdmin(c echo.Context) error {
	var req subAdminSignupReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" || strings.TrimSpace(req.Name) == "" || req.DepartmentID == 0 {
		return jsonError(c, http.StatusBadRequest, "email, password, name and department_id required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	dept, err := h.Departments.GetByID(ctx, req.DepartmentID)
	if err != nil {
		if err == repository.ErrDepartmentNotFound {
			return jsonError(c, http.StatusNotFound, "department not found")
		}
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}

	name := strings.TrimSpace(req.Name)
	uid, err := h.Users.Create(ctx, repository.NewUserParams{
		Email:          req.Email,
		Password:       req.Password,
		Name:           name,
		Phone:          strings.TrimSpace(req.Phone),
		Role:           lifecycle.RoleSubAdmin,
		DepartmentID:   &dept.ID,
		DepartmentName: &dept.Name,
	}, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			return jsonError(c, http.StatusConflict, "email already exists")
		}
		return jsonError(c, http.StatusInternalServerError, "create user failed")
	}
	if err := h.Departments.AssignSubAdmin(ctx, dept.ID, uid, name); err != nil {
		return jsonError(c, http.StatusInternalServerError, "link department failed")
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"user": userPart{ID: uid, Email: req.Email, Name: name, Role: string(lifecycle.RoleSubAdmin)},
		"department": echo.Map{"id": dept.ID, "name": dept.Name},
	})
}

// CreateAdmin creates the main admin account.  The endpoint is public
// but gated by a shared secret so it can be used for first-boot
// provisioning without an existing admin session.
func (h *AuthHandler) CreateAdmin(c echo.Context) error {
	var req createAdminReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid body")
	}
	if req.SecretKey != h.Cfg.AdminSecretKey {
		return jsonError(c, http.StatusForbidden, "invalid secret key")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" || strings.TrimSpace(req.Name) == "" {
		return jsonError(c, http.StatusBadRequest, "email, password and name required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	uid, err := h.Users.Create(ctx, repository.NewUserParams{
		Email:    req.Email,
		Password: req.Password,
		Name:     strings.TrimSpace(req.Name),
		Phone:    strings.TrimSpace(req.Phone),
		Role:     lifecycle.RoleAdmin,
	}, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			return jsonError(c, http.StatusConflict, "email already exists")
		}
		return jsonError(c, http.StatusInternalServerError, "create user failed")
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"user": userPart{ID: uid, Email: req.Email, Name: strings.TrimSpace(req.Name), Role: string(lifecycle.RoleAdmin)},
	})
}

// Login verifies credentials and returns a new token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return jsonError(c, http.StatusBadRequest, "email/password required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return jsonError(c, http.StatusUnauthorized, "invalid credentials")
		}
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return jsonError(c, http.StatusUnauthorized, "invalid credentials")
	}

	access, refresh, err := h.issuePair(ctx, u.ID, u.Role)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "issue tokens failed")
	}
	return c.JSON(http.StatusOK, authResp{
		User:    userPart{ID: u.ID, Email: u.Email, Name: u.Name, Role: string(u.Role)},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp},
	})
}

// Refresh validates a refresh token by hash, revokes it and issues a
// new pair (rotation).
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return jsonError(c, http.StatusBadRequest, "refresh_token required")
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, "invalid refresh")
	}
	_ = h.Tokens.RevokeByHash(ctx, hash)

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "load user failed")
	}

	access, refresh, err := h.issuePair(ctx, u.ID, u.Role)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "issue tokens failed")
	}
	return c.JSON(http.StatusOK, authResp{
		User:    userPart{ID: u.ID, Email: u.Email, Name: u.Name, Role: string(u.Role)},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp},
	})
}

// RefreshAccess returns a fresh access token without rotating the
// refresh token.
func (h *AuthHandler) RefreshAccess(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return jsonError(c, http.StatusBadRequest, "refresh_token required")
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, "invalid refresh")
	}
	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return jsonError(c, http.StatusUnauthorized, "invalid refresh")
		}
		return jsonError(c, http.StatusInternalServerError, "load user failed")
	}
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "issue access failed")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access": tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// Logout revokes a single session (refresh_token in body) or, when
// called with a valid bearer token and no body token, every session of
// the current user.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	_ = c.Bind(&req)
	refreshToken := strings.TrimSpace(req.RefreshToken)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if refreshToken != "" {
		hash := utils.HashRefreshRaw(refreshToken)
		if _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
			return jsonError(c, http.StatusUnauthorized, "invalid refresh token")
		}
		if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
			return jsonError(c, http.StatusInternalServerError, "logout failed")
		}
		return c.NoContent(http.StatusNoContent)
	}

	// No body token: fall back to the JWT middleware identity and
	// revoke everything.
	uid, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "refresh_token required")
	}
	if err := h.Tokens.RevokeAllForUser(ctx, uid); err != nil {
		return jsonError(c, http.StatusInternalServerError, "logout failed")
	}
	return c.NoContent(http.StatusNoContent)
}

// Profile returns the authenticated user's own record.
func (h *AuthHandler) Profile(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, "unauthorized")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return jsonError(c, http.StatusNotFound, "user not found")
		}
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}

	resp := echo.Map{
		"id":    u.ID,
		"email": u.Email,
		"name":  u.Name,
		"phone": u.Phone,
		"role":  string(u.Role),
	}
	if u.Aadhaar != nil {
		resp["aadhaar"] = *u.Aadhaar
	}
	if u.Address != nil {
		resp["address"] = *u.Address
	}
	if len(u.WorkTypes) > 0 {
		resp["work_types"] = u.WorkTypes
	}
	if len(u.Departments) > 0 {
		resp["departments"] = u.Departments
	}
	if u.DepartmentID != nil {
		resp["department_id"] = *u.DepartmentID
	}
	if u.DepartmentName != nil {
		resp["department_name"] = *u.DepartmentName
	}
	return c.JSON(http.StatusOK, resp)
}
