package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicease/complaint-service/internal/repository"
)

// Tests in this file drive full handler flows against a mocked
// database, covering the branches that plain request validation cannot
// reach: duplicate feedback, priority updates and sub-admin
// reassignment.

var complaintColumns = []string{
	"id", "token", "citizen_id", "citizen_name", "citizen_phone",
	"department_id", "department_name", "complaint_type", "description",
	"location", "latitude", "longitude", "photos", "status", "priority",
	"closure_reason", "closed_by", "created_at", "updated_at",
}

func completedComplaintRow(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(complaintColumns).AddRow(
		3, "CMP-1700000000000-AB12CD", 7, "Asha", "999", 1,
		"Waste Management Department", "garbage", "overflowing bin",
		"ward 4", nil, nil, nil, "completed", "normal", nil, nil, now, now)
}

func newMockDB(t *testing.T) (*repository.ComplaintRepo, *repository.AssignmentRepo, *repository.FeedbackRepo, *repository.UserRepo, *repository.DepartmentRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return repository.NewComplaintRepo(db), repository.NewAssignmentRepo(db),
		repository.NewFeedbackRepo(db), repository.NewUserRepo(db),
		repository.NewDepartmentRepo(db), mock
}

// A second feedback submission must be rejected with 409 before any
// status or feedback write happens; the transaction rolls back and the
// complaint stays as it was.
func TestFeedbackSecondSubmissionRejected(t *testing.T) {
	complaints, assignments, feedbacks, users, departments, mock := newMockDB(t)
	h := NewComplaintHandler(complaints, assignments, feedbacks, users, departments)

	now := time.Now().UTC()
	mock.ExpectBegin()
	mock.ExpectQuery("FROM complaints").WillReturnRows(completedComplaintRow(now))
	mock.ExpectQuery("SELECT 1 FROM feedback").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectRollback()

	c, rec := newCtx(t, http.MethodPost, "/v1/complaints/3/feedback",
		`{"rating":5,"comment":"late but done","satisfied":true}`, 7, "citizen")
	c.SetParamNames("id")
	c.SetParamValues("3")
	require.NoError(t, h.Feedback(c))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "feedback already submitted")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Priority updates append a priority_updated entry, leave the status
// untouched and come back wrapped in the success envelope.
func TestUpdatePriorityKeepsStatusAndWrapsResponse(t *testing.T) {
	complaints, assignments, feedbacks, users, departments, mock := newMockDB(t)
	h := NewComplaintHandler(complaints, assignments, feedbacks, users, departments)

	now := time.Now().UTC()
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE complaints SET priority").
		WithArgs("high", 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO complaint_timeline").
		WithArgs(3, "priority_updated", "Priority set to high", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("FROM complaints").WillReturnRows(
		sqlmock.NewRows(complaintColumns).AddRow(
			3, "CMP-1700000000000-AB12CD", 7, "Asha", "999", 1,
			"Waste Management Department", "garbage", "overflowing bin",
			"ward 4", nil, nil, nil, "pending", "high", nil, nil, now, now))
	mock.ExpectQuery("FROM complaint_timeline").WillReturnRows(
		sqlmock.NewRows([]string{"id", "complaint_id", "status", "message", "created_at"}).
			AddRow(1, 3, "pending", "Complaint registered successfully", now).
			AddRow(2, 3, "priority_updated", "Priority set to high", now))

	c, rec := newCtx(t, http.MethodPatch, "/v1/complaints/3/priority",
		`{"priority":"high"}`, 1, "admin")
	c.SetParamNames("id")
	c.SetParamValues("3")
	require.NoError(t, h.UpdatePriority(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"success":true`)
	assert.Contains(t, body, `"priority":"high"`)
	assert.Contains(t, body, `"status":"pending"`)
	assert.Contains(t, body, "priority_updated")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The admin can move a sub-admin to another department; both the user
// row and the department back reference are rewritten.
func TestReassignSubAdminDepartment(t *testing.T) {
	_, _, _, users, departments, mock := newMockDB(t)
	h := &DirectoryHandler{Users: users, Departments: departments}

	now := time.Now().UTC()
	mock.ExpectQuery("FROM users").WillReturnRows(
		sqlmock.NewRows([]string{
			"id", "email", "password_hash", "name", "phone", "role",
			"aadhaar", "address", "work_types", "departments",
			"department_id", "department_name", "created_at", "updated_at",
		}).AddRow(9, "sam@city.gov", "x", "Sam", "555", "subadmin",
			nil, nil, nil, nil, 1, "Waste Management Department", now, now))
	mock.ExpectQuery("FROM departments").WillReturnRows(
		sqlmock.NewRows([]string{
			"id", "name", "customer_care_phone", "customer_care_email",
			"sub_admin_id", "sub_admin_name", "created_at", "updated_at",
		}).AddRow(2, "Roads and Transportation Department",
			"1800-XXX-XXXX", "roads@civicease.gov", nil, nil, now, now))
	mock.ExpectExec("UPDATE users SET department_id").
		WithArgs(2, "Roads and Transportation Department", 9, "subadmin").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE departments SET sub_admin_id").
		WithArgs(9, "Sam", 2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := newCtx(t, http.MethodPatch, "/v1/subadmins/9/department",
		`{"department_id":2}`, 1, "admin")
	c.SetParamNames("id")
	c.SetParamValues("9")
	require.NoError(t, h.ReassignDepartment(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"success":true`)
	assert.Contains(t, body, "Roads and Transportation Department")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Editing an inactive announcement without sending is_active must not
// republish it.
func TestAnnouncementUpdateKeepsStoredActiveFlag(t *testing.T) {
	_, _, _, users, _, mock := newMockDB(t)
	anns := repository.NewAnnouncementRepo(users.DB)
	h := &AnnouncementHandler{Announcements: anns, Users: users}

	now := time.Now().UTC()
	annCols := []string{
		"id", "title", "message", "priority", "is_active",
		"created_by", "created_by_name", "created_at", "updated_at",
	}
	mock.ExpectQuery("FROM announcements").WillReturnRows(
		sqlmock.NewRows(annCols).AddRow(5, "Water cut", "Old text", "normal", false, 1, "Admin", now, now))
	mock.ExpectExec("UPDATE announcements").
		WithArgs("Water cut", "New text", "normal", false, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM announcements").WillReturnRows(
		sqlmock.NewRows(annCols).AddRow(5, "Water cut", "New text", "normal", false, 1, "Admin", now, now))

	c, rec := newCtx(t, http.MethodPost, "/v1/announcements",
		`{"id":5,"title":"Water cut","message":"New text"}`, 1, "admin")
	require.NoError(t, h.Save(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"is_active":false`)
	assert.Contains(t, body, `"success":true`)
	assert.NoError(t, mock.ExpectationsWereMet())
}
