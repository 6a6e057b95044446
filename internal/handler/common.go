package handler

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/civicease/complaint-service/internal/lifecycle"
	"github.com/civicease/complaint-service/internal/model"
	"github.com/civicease/complaint-service/internal/queue"
	queue_publisher "github.com/civicease/complaint-service/internal/service"
)

// dbTimeout bounds every database call made from a handler.
const dbTimeout = 5 * time.Second

// getUserID extracts the authenticated user's ID placed into the
// context by the JWT middleware.
func getUserID(c echo.Context) (uint64, error) {
	if v, ok := c.Get("user_id").(uint64); ok && v != 0 {
		return v, nil
	}
	return 0, errors.New("invalid user_id in context")
}

// getRole extracts the authenticated user's role from the context.
func getRole(c echo.Context) (lifecycle.Role, error) {
	if v, ok := c.Get("role").(string); ok {
		r := lifecycle.Role(v)
		if r.Valid() {
			return r, nil
		}
	}
	return "", errors.New("invalid role in context")
}

// pathID parses the numeric :id path parameter.
func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// ----- shared view DTOs -----
//
// Model structs carry no JSON tags; handlers render views instead so
// internals like password hashes never leak into responses.

type timelineView struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type complaintView struct {
	ID             uint64         `json:"id"`
	Token          string         `json:"token"`
	CitizenID      uint64         `json:"citizen_id"`
	CitizenName    string         `json:"citizen_name"`
	CitizenPhone   string         `json:"citizen_phone"`
	DepartmentID   uint64         `json:"department_id"`
	DepartmentName string         `json:"department_name"`
	ComplaintType  string         `json:"complaint_type"`
	Description    string         `json:"description"`
	Location       string         `json:"location"`
	Latitude       *float64       `json:"latitude,omitempty"`
	Longitude      *float64       `json:"longitude,omitempty"`
	Photos         []string       `json:"photos,omitempty"`
	Status         string         `json:"status"`
	Priority       string         `json:"priority"`
	ClosureReason  *string        `json:"closure_reason,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	Timeline       []timelineView `json:"timeline,omitempty"`
}

func viewComplaint(m model.Complaint) complaintView {
	v := complaintView{
		ID:             m.ID,
		Token:          m.Token,
		CitizenID:      m.CitizenID,
		CitizenName:    m.CitizenName,
		CitizenPhone:   m.CitizenPhone,
		DepartmentID:   m.DepartmentID,
		DepartmentName: m.DepartmentName,
		ComplaintType:  m.ComplaintType,
		Description:    m.Description,
		Location:       m.Location,
		Latitude:       m.Latitude,
		Longitude:      m.Longitude,
		Photos:         m.Photos,
		Status:         string(m.Status),
		Priority:       string(m.Priority),
		ClosureReason:  m.ClosureReason,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	for _, e := range m.Timeline {
		v.Timeline = append(v.Timeline, timelineView{
			Status: e.Status, Message: e.Message, CreatedAt: e.CreatedAt,
		})
	}
	return v
}

func viewComplaints(ms []model.Complaint) []complaintView {
	out := make([]complaintView, 0, len(ms))
	for _, m := range ms {
		out = append(out, viewComplaint(m))
	}
	return out
}

type assignmentView struct {
	SubAdminID            *uint64    `json:"sub_admin_id,omitempty"`
	SubAdminName          *string    `json:"sub_admin_name,omitempty"`
	SubAdminAssignedAt    *time.Time `json:"sub_admin_assigned_at,omitempty"`
	ContractorID          *uint64    `json:"contractor_id,omitempty"`
	ContractorName        *string    `json:"contractor_name,omitempty"`
	ContractorPhone       *string    `json:"contractor_phone,omitempty"`
	ContractorAssignedAt  *time.Time `json:"contractor_assigned_at,omitempty"`
	EstimatedFees         *float64   `json:"estimated_fees,omitempty"`
	EstimatedTime         *string    `json:"estimated_time,omitempty"`
	AssignmentDescription *string    `json:"assignment_description,omitempty"`
	ContractorStatus      string     `json:"contractor_status,omitempty"`
	WorkStartedAt         *time.Time `json:"work_started_at,omitempty"`
	RejectedAt            *time.Time `json:"rejected_at,omitempty"`
	CompletedAt           *time.Time `json:"completed_at,omitempty"`
	CompletionNotes       *string    `json:"completion_notes,omitempty"`
	CompletionPhotos      []string   `json:"completion_photos,omitempty"`
}

func viewAssignment(a model.Assignment) assignmentView {
	return assignmentView{
		SubAdminID:            a.SubAdminID,
		SubAdminName:          a.SubAdminName,
		SubAdminAssignedAt:    a.SubAdminAssignedAt,
		ContractorID:          a.ContractorID,
		ContractorName:        a.ContractorName,
		ContractorPhone:       a.ContractorPhone,
		ContractorAssignedAt:  a.ContractorAssignedAt,
		EstimatedFees:         a.EstimatedFees,
		EstimatedTime:         a.EstimatedTime,
		AssignmentDescription: a.AssignmentDescription,
		ContractorStatus:      string(a.ContractorStatus),
		WorkStartedAt:         a.WorkStartedAt,
		RejectedAt:            a.RejectedAt,
		CompletedAt:           a.CompletedAt,
		CompletionNotes:       a.CompletionNotes,
		CompletionPhotos:      a.CompletionPhotos,
	}
}

type feedbackView struct {
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment"`
	Satisfied   bool      `json:"satisfied"`
	SubmittedAt time.Time `json:"submitted_at"`
}

func viewFeedback(f model.Feedback) feedbackView {
	return feedbackView{
		Rating: f.Rating, Comment: f.Comment,
		Satisfied: f.Satisfied, SubmittedAt: f.SubmittedAt,
	}
}

// publishTransition sends a lifecycle event to the broker without
// blocking the HTTP response.  Publish failures are logged by the
// publisher and otherwise ignored; the database is the source of truth.
func publishTransition(cmp model.Complaint, action lifecycle.Action, status lifecycle.Status, actorID uint64, actorRole lifecycle.Role, message string) {
	ev := queue.ComplaintEvent{
		ComplaintID:  cmp.ID,
		Token:        cmp.Token,
		Action:       action,
		Status:       status,
		DepartmentID: cmp.DepartmentID,
		ActorID:      actorID,
		ActorRole:    actorRole,
		Message:      message,
		OccurredAt:   time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queue_publisher.PublishComplaintEvent(ctx, ev)
	}()
}

// jsonError is a tiny wrapper so every handler reports failures in the
// same {"error": msg} shape.
func jsonError(c echo.Context, code int, msg string) error {
	return c.JSON(code, echo.Map{"error": msg})
}
