package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"

	"crankslist/internal/ws"
)

func newContactApp(t *testing.T) (*fiber.App, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, cleanup := setupMockDB(t)

	hub := ws.NewHub()
	go hub.Run()

	handler := NewMessageHandler(db, hub)
	app := fiber.New()
	app.Post("/api/contact-seller", handler.ContactSeller)
	app.Get("/api/messages", withTestUser(7, "seller@example.com"), handler.GetMessages)
	app.Patch("/api/messages/:id/read", withTestUser(7, "seller@example.com"), handler.MarkRead)
	app.Get("/api/messages/unread-count", withTestUser(7, "seller@example.com"), handler.UnreadCount)

	return app, mock, cleanup
}

func TestContactSellerMissingFields(t *testing.T) {
	app, _, cleanup := newContactApp(t)
	defer cleanup()

	body := map[string]any{
		"bikeId":     12,
		"bikeTitle":  "Trek Domane",
		"buyerName":  "Jane",
		"buyerEmail": "jane@example.com",
		// message and sellerEmail missing
	}
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/contact-seller", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	mustStatus(t, resp.StatusCode, http.StatusBadRequest)

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if out["error"] != "Missing required fields" {
		t.Fatalf("expected missing-fields error, got %v", out["error"])
	}
}

func TestContactSellerResolvesRecipientFromListing(t *testing.T) {
	app, mock, cleanup := newContactApp(t)
	defer cleanup()

	mock.
		ExpectQuery(`SELECT \* FROM "bikes" WHERE "bikes"\."id" = \$1`).
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "title", "seller_email"}).
				AddRow(12, "Trek Domane", "seller@example.com"),
		)

	// Recipient and subject must come from the stored listing, not the body.
	mock.
		ExpectQuery(`INSERT INTO "messages"`).
		WithArgs(
			sqlmock.AnyArg(), // bike_id
			"Jane",
			"jane@example.com",
			"seller@example.com",
			"Interest in: Trek Domane",
			"Is this still available?",
			sqlmock.AnyArg(), // is_read
			sqlmock.AnyArg(), // created_at
		).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(33))

	body := map[string]any{
		"bikeId":      12,
		"bikeTitle":   "Trek Domane",
		"buyerName":   "Jane",
		"buyerEmail":  "jane@example.com",
		"message":     "Is this still available?",
		"sellerEmail": "spoofed@attacker.example", // ignored in favor of the stored value
	}
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/contact-seller", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	expectHTTP200(t, resp.StatusCode)

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if out["success"] != true {
		t.Fatalf("expected success true, got %v", out["success"])
	}
	if id, _ := out["messageId"].(float64); id != 33 {
		t.Fatalf("expected messageId 33, got %v", out["messageId"])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestContactSellerListingLookupFails(t *testing.T) {
	app, mock, cleanup := newContactApp(t)
	defer cleanup()

	mock.
		ExpectQuery(`SELECT \* FROM "bikes" WHERE "bikes"\."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	body := map[string]any{
		"bikeId":      99,
		"bikeTitle":   "Gone Bike",
		"buyerName":   "Jane",
		"buyerEmail":  "jane@example.com",
		"message":     "Hello",
		"sellerEmail": "seller@example.com",
	}
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/contact-seller", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	mustStatus(t, resp.StatusCode, http.StatusInternalServerError)

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if out["error"] != "Failed to send message" {
		t.Fatalf("expected send failure error, got %v", out["error"])
	}
}

func TestMarkReadTransition(t *testing.T) {
	app, mock, cleanup := newContactApp(t)
	defer cleanup()

	mock.
		ExpectQuery(`SELECT \* FROM "messages" WHERE "messages"\."id" = \$1`).
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "recipient_email", "is_read"}).
				AddRow(33, "seller@example.com", false),
		)
	mock.
		ExpectExec(`UPDATE "messages" SET "is_read"`).
		WithArgs(true, 33, false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest(http.MethodPatch, "/api/messages/33/read", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	expectHTTP200(t, resp.StatusCode)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestMarkReadAlreadyReadIsNoOp(t *testing.T) {
	app, mock, cleanup := newContactApp(t)
	defer cleanup()

	// No UPDATE expectation: a read message must not be written again.
	mock.
		ExpectQuery(`SELECT \* FROM "messages" WHERE "messages"\."id" = \$1`).
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "recipient_email", "is_read"}).
				AddRow(33, "seller@example.com", true),
		)

	req := httptest.NewRequest(http.MethodPatch, "/api/messages/33/read", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	expectHTTP200(t, resp.StatusCode)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestMarkReadWrongRecipient(t *testing.T) {
	app, mock, cleanup := newContactApp(t)
	defer cleanup()

	mock.
		ExpectQuery(`SELECT \* FROM "messages" WHERE "messages"\."id" = \$1`).
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "recipient_email", "is_read"}).
				AddRow(33, "other@example.com", false),
		)

	req := httptest.NewRequest(http.MethodPatch, "/api/messages/33/read", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	mustStatus(t, resp.StatusCode, http.StatusForbidden)
}

func TestUnreadCount(t *testing.T) {
	app, mock, cleanup := newContactApp(t)
	defer cleanup()

	mock.
		ExpectQuery(`SELECT count\(\*\) FROM "messages"`).
		WithArgs("seller@example.com", false).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	req := httptest.NewRequest(http.MethodGet, "/api/messages/unread-count", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	expectHTTP200(t, resp.StatusCode)

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if count, _ := out["count"].(float64); count != 4 {
		t.Fatalf("expected count 4, got %v", out["count"])
	}
}

func TestInboxEmptyRendersEmptyArray(t *testing.T) {
	app, mock, cleanup := newContactApp(t)
	defer cleanup()

	mock.
		ExpectQuery(`SELECT \* FROM "messages" WHERE recipient_email = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	req := httptest.NewRequest(http.MethodGet, "/api/messages", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	expectHTTP200(t, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("io.ReadAll: %v", err)
	}
	if !bytes.Contains(raw, []byte(`"data":[]`)) {
		t.Fatalf("expected empty inbox to render as [], got %s", raw)
	}
}

func TestInboxDegradesToEmptyOnReadFailure(t *testing.T) {
	app, mock, cleanup := newContactApp(t)
	defer cleanup()

	mock.
		ExpectQuery(`SELECT \* FROM "messages" WHERE recipient_email = \$1`).
		WillReturnError(errDatabaseDown)

	req := httptest.NewRequest(http.MethodGet, "/api/messages", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	expectHTTP200(t, resp.StatusCode)

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if count, _ := out["count"].(float64); count != 0 {
		t.Fatalf("expected empty inbox, got count %v", out["count"])
	}
}
