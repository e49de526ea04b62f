package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"

	"crankslist/internal/approval"
	"crankslist/models"
)

func newAdminApp(t *testing.T) (*fiber.App, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, cleanup := setupMockDB(t)

	handler := NewAdminHandler(db, approval.NewStore(db))
	app := fiber.New()
	admin := app.Group("/api/admin", withTestUser(1, "admin@example.com"), handler.RequireAdmin)
	admin.Get("/users", handler.GetUsers)
	admin.Post("/users/:id/approve", handler.ApproveUser)
	admin.Post("/users/:id/reject", handler.RejectUser)

	return app, mock, cleanup
}

func expectAdminCheck(mock sqlmock.Sqlmock, isAdmin bool) {
	count := 0
	if isAdmin {
		count = 1
	}
	mock.
		ExpectQuery(`SELECT count\(\*\) FROM "admins"`).
		WithArgs(uint(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(count))
}

func TestRequireAdminForbidden(t *testing.T) {
	app, mock, cleanup := newAdminApp(t)
	defer cleanup()

	expectAdminCheck(mock, false)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	mustStatus(t, resp.StatusCode, http.StatusForbidden)
}

func TestGetUsersPartitionsByStatus(t *testing.T) {
	app, mock, cleanup := newAdminApp(t)
	defer cleanup()

	expectAdminCheck(mock, true)
	mock.
		ExpectQuery(`SELECT \* FROM "user_profiles"`).
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "user_id", "email", "approval_status"}).
				AddRow(1, 10, "a@example.com", models.ApprovalPending).
				AddRow(2, 11, "b@example.com", models.ApprovalApproved).
				AddRow(3, 12, "c@example.com", models.ApprovalRejected).
				AddRow(4, 13, "d@example.com", models.ApprovalPending),
		)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	expectHTTP200(t, resp.StatusCode)

	var out struct {
		Pending  []models.UserProfile `json:"pending"`
		Approved []models.UserProfile `json:"approved"`
		Rejected []models.UserProfile `json:"rejected"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if len(out.Pending) != 2 || len(out.Approved) != 1 || len(out.Rejected) != 1 {
		t.Fatalf("unexpected partition sizes: %d/%d/%d",
			len(out.Pending), len(out.Approved), len(out.Rejected))
	}
}

func TestApproveUserRecordsAudit(t *testing.T) {
	app, mock, cleanup := newAdminApp(t)
	defer cleanup()

	expectAdminCheck(mock, true)
	mock.
		ExpectQuery(`SELECT \* FROM "user_profiles" WHERE "user_profiles"\."id" = \$1`).
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "user_id", "approval_status"}).
				AddRow(5, 10, models.ApprovalPending),
		)
	mock.
		ExpectExec(`UPDATE "user_profiles" SET`).
		WithArgs(models.ApprovalApproved, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), 5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest(http.MethodPost, "/api/admin/users/5/approve", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	expectHTTP200(t, resp.StatusCode)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestApproveRejectedUserConflicts(t *testing.T) {
	app, mock, cleanup := newAdminApp(t)
	defer cleanup()

	expectAdminCheck(mock, true)
	mock.
		ExpectQuery(`SELECT \* FROM "user_profiles" WHERE "user_profiles"\."id" = \$1`).
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "user_id", "approval_status"}).
				AddRow(5, 10, models.ApprovalRejected),
		)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/users/5/approve", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	mustStatus(t, resp.StatusCode, http.StatusConflict)
}

func TestRejectUserDefaultsReason(t *testing.T) {
	app, mock, cleanup := newAdminApp(t)
	defer cleanup()

	expectAdminCheck(mock, true)
	mock.
		ExpectQuery(`SELECT \* FROM "user_profiles" WHERE "user_profiles"\."id" = \$1`).
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "user_id", "approval_status"}).
				AddRow(5, 10, models.ApprovalPending),
		)
	mock.
		ExpectExec(`UPDATE "user_profiles" SET`).
		WithArgs(models.ApprovalRejected, "No reason provided", sqlmock.AnyArg(), 5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	payload, _ := json.Marshal(map[string]string{"reason": ""})
	req := httptest.NewRequest(http.MethodPost, "/api/admin/users/5/reject", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	expectHTTP200(t, resp.StatusCode)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}
