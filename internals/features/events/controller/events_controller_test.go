package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/TheOGApplePie/wmcc-admin-dashboard/internals/features/events/model"
)

// fakePosterService records calls; no bucket in unit tests.
type fakePosterService struct {
	uploads int
	deletes []string
}

func (f *fakePosterService) UploadPoster(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	f.uploads++
	return "https://bucket.example.org/posters/fake.webp", nil
}

func (f *fakePosterService) DeleteByPublicURL(ctx context.Context, publicURL string) error {
	f.deletes = append(f.deletes, publicURL)
	return nil
}

func setupEventApp(t *testing.T) (*fiber.App, *gorm.DB, *fakePosterService) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.RecurrenceRuleModel{}, &model.EventModel{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	posters := &fakePosterService{}
	ctl := NewEventController(db, posters)
	app := fiber.New()
	app.Post("/api/a/events", ctl.Create)
	app.Put("/api/a/events/:id", ctl.Update)
	app.Delete("/api/a/events/:id", ctl.Delete)
	app.Get("/api/a/events", ctl.List)
	app.Get("/api/a/events/:id", ctl.GetByID)
	return app, db, posters
}

func postForm(t *testing.T, app *fiber.App, method, path string, fields map[string]string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

type eventEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		Events []struct {
			ID               string  `json:"id"`
			Title            string  `json:"title"`
			StartDate        string  `json:"start_date"`
			IsRecurring      bool    `json:"is_recurring"`
			RecurrenceRuleID *string `json:"recurrence_rule_id"`
		} `json:"events"`
		Warnings []string `json:"warnings"`
	} `json:"data"`
}

func decodeEvents(t *testing.T, resp *http.Response) eventEnvelope {
	t.Helper()
	var body eventEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return body
}

func weeklyForm(count string) map[string]string {
	return map[string]string{
		"title":           "Weekly halaqa",
		"description":     "Study circle",
		"location":        "Main hall",
		"start_date":      "2026-10-06T19:00:00Z", // a Tuesday
		"end_date":        "2026-10-06T20:00:00Z",
		"is_recurring":    "true",
		"recurrence_rule": `{"frequency":"week","interval":1,"by_weekdays":["TU"],"count":` + count + `}`,
	}
}

func TestEventCreateRecurring(t *testing.T) {
	app, db, _ := setupEventApp(t)

	resp := postForm(t, app, http.MethodPost, "/api/a/events", weeklyForm("4"))
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	body := decodeEvents(t, resp)
	if len(body.Data.Events) != 4 {
		t.Fatalf("created %d instances, want 4", len(body.Data.Events))
	}
	for i, ev := range body.Data.Events {
		if !ev.IsRecurring || ev.RecurrenceRuleID == nil {
			t.Errorf("instance %d missing recurrence state: %+v", i, ev)
		}
	}

	var n int64
	if err := db.Model(&model.EventModel{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 4 {
		t.Errorf("rows in db = %d, want 4", n)
	}
}

func TestEventCreateValidation(t *testing.T) {
	app, db, _ := setupEventApp(t)

	// recurring without a rule
	fields := weeklyForm("4")
	delete(fields, "recurrence_rule")
	if resp := postForm(t, app, http.MethodPost, "/api/a/events", fields); resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Errorf("missing rule status = %d, want 422", resp.StatusCode)
	}

	// end before start
	fields = weeklyForm("4")
	fields["end_date"] = "2026-10-06T18:00:00Z"
	if resp := postForm(t, app, http.MethodPost, "/api/a/events", fields); resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Errorf("end before start status = %d, want 422", resp.StatusCode)
	}

	// unparseable date
	fields = weeklyForm("4")
	fields["start_date"] = "next tuesday"
	if resp := postForm(t, app, http.MethodPost, "/api/a/events", fields); resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("bad date status = %d, want 400", resp.StatusCode)
	}

	var n int64
	if err := db.Model(&model.EventModel{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("%d rows stored from invalid requests", n)
	}
}

func TestEventUpdateScopeAll(t *testing.T) {
	app, db, _ := setupEventApp(t)

	created := decodeEvents(t, postForm(t, app, http.MethodPost, "/api/a/events", weeklyForm("4")))
	if len(created.Data.Events) != 4 {
		t.Fatalf("seed created %d instances", len(created.Data.Events))
	}
	oldRuleID := *created.Data.Events[0].RecurrenceRuleID

	fields := weeklyForm("6")
	fields["title"] = "Weekly halaqa (new time)"
	resp := postForm(t, app, http.MethodPut, "/api/a/events/"+created.Data.Events[0].ID+"?scope=all", fields)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("update status = %d, want 200", resp.StatusCode)
	}
	updated := decodeEvents(t, resp)
	if len(updated.Data.Events) != 6 {
		t.Fatalf("regenerated %d instances, want 6", len(updated.Data.Events))
	}
	for _, ev := range updated.Data.Events {
		if *ev.RecurrenceRuleID != oldRuleID {
			t.Errorf("rule id changed: %s != %s", *ev.RecurrenceRuleID, oldRuleID)
		}
		if ev.Title != "Weekly halaqa (new time)" {
			t.Errorf("title not applied: %q", ev.Title)
		}
	}

	var n int64
	if err := db.Model(&model.EventModel{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 6 {
		t.Errorf("rows in db = %d, want 6", n)
	}
}

func TestEventDeleteScopes(t *testing.T) {
	app, db, _ := setupEventApp(t)

	created := decodeEvents(t, postForm(t, app, http.MethodPost, "/api/a/events", weeklyForm("4")))
	if len(created.Data.Events) != 4 {
		t.Fatalf("seed created %d instances", len(created.Data.Events))
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/a/events/"+created.Data.Events[1].ID+"?scope=single", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("single delete status = %d", resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/a/events/"+created.Data.Events[0].ID+"?scope=all", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("all delete status = %d", resp.StatusCode)
	}

	var n int64
	if err := db.Model(&model.EventModel{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("rows left = %d, want 0", n)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/a/events/"+created.Data.Events[0].ID, nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("deleting a deleted event status = %d, want 404", resp.StatusCode)
	}
}

func TestEventCreateMonthDayWarning(t *testing.T) {
	app, _, _ := setupEventApp(t)

	fields := map[string]string{
		"title":           "Month-end board meeting",
		"location":        "Board room",
		"start_date":      "2026-10-31T18:00:00Z",
		"end_date":        "2026-10-31T19:00:00Z",
		"is_recurring":    "true",
		"recurrence_rule": `{"frequency":"month","interval":1,"by_month_day":31,"count":4}`,
	}
	resp := postForm(t, app, http.MethodPost, "/api/a/events", fields)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	body := decodeEvents(t, resp)
	if len(body.Data.Events) != 4 {
		t.Errorf("created %d instances, want 4", len(body.Data.Events))
	}
	if len(body.Data.Warnings) != 1 {
		t.Errorf("warnings = %v, want exactly one", body.Data.Warnings)
	}
}
