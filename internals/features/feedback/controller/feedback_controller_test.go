package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/TheOGApplePie/wmcc-admin-dashboard/internals/features/feedback/model"
)

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.CommunityFeedbackModel{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	ctl := NewFeedbackController(db)
	app := fiber.New()
	app.Post("/api/public/feedback", ctl.Submit)
	app.Get("/api/a/feedback", ctl.List)
	app.Delete("/api/a/feedback/:id", ctl.Delete)
	return app, db
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func TestFeedbackSubmit(t *testing.T) {
	app, db := setupApp(t)

	resp := postJSON(t, app, "/api/public/feedback", fiber.Map{
		"name":    "Amina Khan",
		"email":   "Amina@Example.org",
		"message": "The parking situation on Fridays needs attention.",
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var stored model.CommunityFeedbackModel
	if err := db.First(&stored).Error; err != nil {
		t.Fatalf("load feedback: %v", err)
	}
	if stored.FeedbackEmail != "amina@example.org" {
		t.Errorf("email not normalized: %q", stored.FeedbackEmail)
	}
	if stored.FeedbackTelephone != nil {
		t.Errorf("telephone should be nil, got %v", *stored.FeedbackTelephone)
	}
}

func TestFeedbackSubmitValidation(t *testing.T) {
	app, db := setupApp(t)

	cases := []fiber.Map{
		{"name": "A", "email": "a@example.org", "message": "long enough message here"}, // name too short
		{"name": "Amina", "email": "not-an-email", "message": "long enough message here"},
		{"name": "Amina", "email": "a@example.org", "message": "short"},
		{"name": "Amina", "email": "a@example.org", "message": "long enough message here", "telephone": "555-1234"}, // not E.164
	}
	for i, body := range cases {
		resp := postJSON(t, app, "/api/public/feedback", body)
		if resp.StatusCode != fiber.StatusUnprocessableEntity {
			t.Errorf("case %d: status = %d, want 422", i, resp.StatusCode)
		}
	}

	var n int64
	if err := db.Model(&model.CommunityFeedbackModel{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("%d rows stored from invalid submissions", n)
	}
}

func TestFeedbackListAndDelete(t *testing.T) {
	app, db := setupApp(t)

	for i := 0; i < 3; i++ {
		resp := postJSON(t, app, "/api/public/feedback", fiber.Map{
			"name":    "Resident",
			"email":   "resident@example.org",
			"message": fmt.Sprintf("Feedback entry number %d with enough length.", i),
		})
		if resp.StatusCode != fiber.StatusCreated {
			t.Fatalf("seed %d: status = %d", i, resp.StatusCode)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/a/feedback?per_page=2", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("list status = %d, want 200", resp.StatusCode)
	}
	var body struct {
		Success    bool `json:"success"`
		Data       []struct {
			ID string `json:"id"`
		} `json:"data"`
		Pagination struct {
			Total      int64 `json:"total"`
			TotalPages int   `json:"total_pages"`
		} `json:"pagination"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if !body.Success || len(body.Data) != 2 || body.Pagination.Total != 3 || body.Pagination.TotalPages != 2 {
		t.Fatalf("unexpected list body: %+v", body)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/a/feedback/"+body.Data[0].ID, nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("delete status = %d, want 200", resp.StatusCode)
	}

	var n int64
	if err := db.Model(&model.CommunityFeedbackModel{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Errorf("rows left = %d, want 2", n)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/a/feedback/"+body.Data[0].ID, nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("double delete status = %d, want 404", resp.StatusCode)
	}
}
