package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/civicease/complaint-service/internal/model"
	"github.com/civicease/complaint-service/internal/repository"
)

// AnnouncementHandler manages public notices.  Admin and sub-admins
// publish them; everyone can read the active ones.
type AnnouncementHandler struct {
	Announcements *repository.AnnouncementRepo
	Users         *repository.UserRepo
}

func NewAnnouncementHandler(a *repository.AnnouncementRepo, u *repository.UserRepo) *AnnouncementHandler {
	return &AnnouncementHandler{Announcements: a, Users: u}
}

type saveAnnouncementReq struct {
	ID       uint64 `json:"id"` // 0 creates, non-zero updates
	Title    string `json:"title"`
	Message  string `json:"message"`
	Priority string `json:"priority"` // normal | high
	IsActive *bool  `json:"is_active"`
}

type announcementView struct {
	ID            uint64    `json:"id"`
	Title         string    `json:"title"`
	Message       string    `json:"message"`
	Priority      string    `json:"priority"`
	IsActive      bool      `json:"is_active"`
	CreatedByName string    `json:"created_by_name"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func viewAnnouncements(anns []model.Announcement) []announcementView {
	out := make([]announcementView, 0, len(anns))
	for _, a := range anns {
		out = append(out, announcementView{
			ID: a.ID, Title: a.Title, Message: a.Message,
			Priority: a.Priority, IsActive: a.IsActive,
			CreatedByName: a.CreatedByName,
			CreatedAt:     a.CreatedAt, UpdatedAt: a.UpdatedAt,
		})
	}
	return out
}

// ListActive handles GET /v1/announcements.  Public.
func (h *AnnouncementHandler) ListActive(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	anns, err := h.Announcements.ListActive(ctx)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"announcements": viewAnnouncements(anns)})
}

// ListAll handles GET /v1/announcements/all for the publishing roles,
// inactive notices included.
func (h *AnnouncementHandler) ListAll(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	anns, err := h.Announcements.ListAll(ctx)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"announcements": viewAnnouncements(anns)})
}

// Save handles POST /v1/announcements.  A zero ID creates a new
// announcement, a non-zero ID updates the existing one.
func (h *AnnouncementHandler) Save(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, "unauthorized")
	}
	var req saveAnnouncementReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid body")
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Message = strings.TrimSpace(req.Message)
	if req.Title == "" || req.Message == "" {
		return jsonError(c, http.StatusBadRequest, "title and message required")
	}
	priority := strings.ToLower(strings.TrimSpace(req.Priority))
	if priority == "" {
		priority = "normal"
	}
	if priority != "normal" && priority != "high" {
		return jsonError(c, http.StatusBadRequest, "priority must be normal or high")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	var saved model.Announcement
	if req.ID == 0 {
		active := true // new announcements go live unless told otherwise
		if req.IsActive != nil {
			active = *req.IsActive
		}
		author, err := h.Users.GetByID(ctx, uid)
		if err != nil {
			return jsonError(c, http.StatusInternalServerError, "load user failed")
		}
		saved, err = h.Announcements.Create(ctx, model.Announcement{
			Title: req.Title, Message: req.Message, Priority: priority,
			IsActive: active, CreatedBy: uid, CreatedByName: author.Name,
		})
		if err != nil {
			return jsonError(c, http.StatusInternalServerError, "create announcement failed")
		}
		views := viewAnnouncements([]model.Announcement{saved})
		return c.JSON(http.StatusCreated, echo.Map{"success": true, "announcement": views[0]})
	}

	// On update an omitted is_active keeps the stored value, so editing
	// an inactive announcement's text does not republish it.
	existing, err := h.Announcements.GetByID(ctx, req.ID)
	if err != nil {
		if err == repository.ErrAnnouncementNotFound {
			return jsonError(c, http.StatusNotFound, "announcement not found")
		}
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	active := existing.IsActive
	if req.IsActive != nil {
		active = *req.IsActive
	}
	saved, err = h.Announcements.Update(ctx, model.Announcement{
		ID: req.ID, Title: req.Title, Message: req.Message,
		Priority: priority, IsActive: active,
	})
	if err != nil {
		if err == repository.ErrAnnouncementNotFound {
			return jsonError(c, http.StatusNotFound, "announcement not found")
		}
		return jsonError(c, http.StatusInternalServerError, "update announcement failed")
	}
	views := viewAnnouncements([]model.Announcement{saved})
	return c.JSON(http.StatusOK, echo.Map{"success": true, "announcement": views[0]})
}

// Delete handles DELETE /v1/announcements/:id.
func (h *AnnouncementHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid announcement id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Announcements.Delete(ctx, id); err != nil {
		if err == repository.ErrAnnouncementNotFound {
			return jsonError(c, http.StatusNotFound, "announcement not found")
		}
		return jsonError(c, http.StatusInternalServerError, "delete announcement failed")
	}
	return c.NoContent(http.StatusNoContent)
}
