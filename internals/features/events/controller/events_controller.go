package controller

import (
	"errors"
	"log"
	"mime/multipart"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/TheOGApplePie/wmcc-admin-dashboard/internals/features/events/dto"
	"github.com/TheOGApplePie/wmcc-admin-dashboard/internals/features/events/model"
	"github.com/TheOGApplePie/wmcc-admin-dashboard/internals/features/events/service"
	helper "github.com/TheOGApplePie/wmcc-admin-dashboard/internals/helpers"
	osshelper "github.com/TheOGApplePie/wmcc-admin-dashboard/internals/helpers/oss"
)

type EventController struct {
	DB       *gorm.DB
	Series   *service.SeriesService
	Posters  osshelper.PosterService
	Validate *validator.Validate
}

func NewEventController(db *gorm.DB, posters osshelper.PosterService) *EventController {
	return &EventController{
		DB:       db,
		Series:   service.NewSeriesService(db),
		Posters:  posters,
		Validate: validator.New(),
	}
}

// =============================
// Admin: create
// =============================

// POST /api/a/events (multipart/form-data)
func (ctl *EventController) Create(c *fiber.Ctx) error {
	req, posterFile, err := parseEventForm(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	fieldErrs, warnings := ctl.validateRequest(req)
	if fieldErrs != nil {
		return helper.JsonValidationError(c, fieldErrs)
	}

	base := req.ToModel()
	if posterFile != nil {
		url, err := ctl.Posters.UploadPoster(c.UserContext(), posterFile)
		if err != nil {
			log.Printf("[OSS] poster upload failed: %v", err)
			return helper.JsonError(c, fiber.StatusBadGateway, "Poster upload failed")
		}
		base.EventPosterURL = url
	}

	var rule *model.RecurrenceRuleModel
	if req.IsRecurring {
		rule = req.Recurrence.ToModel()
	}

	instances, err := ctl.Series.CreateSeries(c.UserContext(), base, rule)
	if err != nil {
		return seriesError(c, err)
	}
	return helper.JsonCreated(c, "Event created", seriesPayload(instances, warnings))
}

// =============================
// Admin: update
// =============================

// PUT /api/a/events/:id?scope=single|future|all (multipart/form-data)
func (ctl *EventController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid event id")
	}
	scope := service.ParseScope(c.Query("scope", "single"))

	req, posterFile, err := parseEventForm(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	fieldErrs, warnings := ctl.validateRequest(req)
	if fieldErrs != nil {
		return helper.JsonValidationError(c, fieldErrs)
	}

	var existing model.EventModel
	if err := ctl.DB.WithContext(c.UserContext()).
		First(&existing, "event_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Event not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load event")
	}

	updated := req.ToModel()
	updated.EventPosterURL = existing.EventPosterURL
	if posterFile != nil {
		url, err := ctl.Posters.UploadPoster(c.UserContext(), posterFile)
		if err != nil {
			log.Printf("[OSS] poster upload failed: %v", err)
			return helper.JsonError(c, fiber.StatusBadGateway, "Poster upload failed")
		}
		if old := existing.EventPosterURL; old != "" && old != url {
			if err := ctl.Posters.DeleteByPublicURL(c.UserContext(), old); err != nil {
				log.Printf("[OSS] stale poster delete failed (%s): %v", old, err)
			}
		}
		updated.EventPosterURL = url
	}

	var rule *model.RecurrenceRuleModel
	if req.IsRecurring {
		rule = req.Recurrence.ToModel()
	}

	instances, err := ctl.Series.EditSeries(c.UserContext(), id, updated, scope, rule)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Event not found")
		}
		return seriesError(c, err)
	}
	return helper.JsonUpdated(c, "Event updated", seriesPayload(instances, warnings))
}

// =============================
// Admin: delete
// =============================

// DELETE /api/a/events/:id?scope=single|future|all
func (ctl *EventController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid event id")
	}
	scope := service.ParseScope(c.Query("scope", "single"))

	var existing model.EventModel
	if err := ctl.DB.WithContext(c.UserContext()).
		First(&existing, "event_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Event not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load event")
	}

	affected, err := ctl.Series.DeleteSeries(c.UserContext(), id, scope,
		existing.EventRecurrenceRuleID, &existing.EventStartDate)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete event")
	}

	// Poster objects are shared by every sibling; only drop the object
	// once the series no longer references it.
	if existing.EventPosterURL != "" && (scope == service.ScopeAll || existing.EventRecurrenceRuleID == nil) {
		if err := ctl.Posters.DeleteByPublicURL(c.UserContext(), existing.EventPosterURL); err != nil {
			log.Printf("[OSS] poster delete failed (%s): %v", existing.EventPosterURL, err)
		}
	}

	return helper.JsonDeleted(c, "Event deleted", fiber.Map{"deleted_count": affected})
}

// =============================
// Shared reads
// =============================

// GET /api/a/events/:id and /api/public/events/:id
func (ctl *EventController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid event id")
	}
	var ev model.EventModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Preload("EventRecurrenceRule").
		First(&ev, "event_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Event not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load event")
	}
	return helper.JsonOK(c, "OK", dto.ToEventResponse(&ev))
}

// GET /api/a/events and /api/public/events
// ?search= matches the title; ?start_date= / ?end_date= (RFC 3339 or
// YYYY-MM-DD) bound the instance start.
func (ctl *EventController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.WithContext(c.UserContext()).Model(&model.EventModel{})

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		q = q.Where("event_title ILIKE ?", "%"+search+"%")
	}
	if from, ok := parseDateParam(c.Query("start_date")); ok {
		q = q.Where("event_start_date >= ?", from)
	}
	if to, ok := parseDateParam(c.Query("end_date")); ok {
		// a bare date means "through the end of that day"
		if len(strings.TrimSpace(c.Query("end_date"))) == len("2006-01-02") {
			to = to.AddDate(0, 0, 1)
		}
		q = q.Where("event_start_date < ?", to)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count events")
	}

	var events []model.EventModel
	if err := q.Preload("EventRecurrenceRule").
		Order("event_start_date ASC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&events).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to list events")
	}

	pg := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	pg.Count = len(events)
	return helper.JsonList(c, "OK", dto.ToEventResponses(events), &pg)
}

// GET /api/public/events/upcoming
// Landing-page feed: instances that have not ended yet, soonest first.
func (ctl *EventController) ListUpcoming(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 10, 50)

	q := ctl.DB.WithContext(c.UserContext()).Model(&model.EventModel{}).
		Where("event_end_date >= ?", time.Now())

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count events")
	}

	var events []model.EventModel
	if err := q.Order("event_start_date ASC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&events).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to list events")
	}

	pg := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	pg.Count = len(events)
	return helper.JsonList(c, "OK", dto.ToEventResponses(events), &pg)
}

// =============================
// Internals
// =============================

func (ctl *EventController) validateRequest(req *dto.EventRequest) (map[string][]string, []string) {
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidatorErrsToMap(err), nil
	}
	crossErrs, warnings := req.Validate(time.Now())
	if crossErrs != nil {
		fieldErrs := make(map[string][]string, len(crossErrs))
		for field, msg := range crossErrs {
			fieldErrs[field] = []string{msg}
		}
		return fieldErrs, nil
	}
	return nil, warnings
}

// seriesPayload: the generated instance set plus any non-fatal
// recurrence warnings (e.g. months without a 31st).
func seriesPayload(instances []model.EventModel, warnings []string) fiber.Map {
	payload := fiber.Map{"events": dto.ToEventResponses(instances)}
	if len(warnings) > 0 {
		payload["warnings"] = warnings
	}
	return payload
}

// parseEventForm reads the multipart form: scalar fields by name, dates
// as RFC 3339, the recurrence rule as a JSON string part, and the
// poster as an optional file part.
func parseEventForm(c *fiber.Ctx) (*dto.EventRequest, *multipart.FileHeader, error) {
	req := &dto.EventRequest{
		Title:               strings.TrimSpace(c.FormValue("title")),
		Description:         strings.TrimSpace(c.FormValue("description")),
		Location:            strings.TrimSpace(c.FormValue("location")),
		PosterAlt:           strings.TrimSpace(c.FormValue("poster_alt")),
		CallToActionLink:    strings.TrimSpace(c.FormValue("call_to_action_link")),
		CallToActionCaption: strings.TrimSpace(c.FormValue("call_to_action_caption")),
		IsRecurring:         c.FormValue("is_recurring") == "true",
	}

	start, err := parseFormTime(c.FormValue("start_date"))
	if err != nil {
		return nil, nil, fiber.NewError(fiber.StatusBadRequest, "start_date must be RFC 3339")
	}
	end, err := parseFormTime(c.FormValue("end_date"))
	if err != nil {
		return nil, nil, fiber.NewError(fiber.StatusBadRequest, "end_date must be RFC 3339")
	}
	req.StartDate = start
	req.EndDate = end

	if raw := strings.TrimSpace(c.FormValue("recurrence_rule")); raw != "" {
		var rule dto.RecurrenceRuleInput
		if err := sonic.Unmarshal([]byte(raw), &rule); err != nil {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, "recurrence_rule is not valid JSON")
		}
		req.Recurrence = &rule
	}

	posterFile, err := c.FormFile("poster")
	if err != nil {
		posterFile = nil // optional
	}
	return req, posterFile, nil
}

func parseFormTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, strings.TrimSpace(s))
}

func parseDateParam(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func seriesError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrRuleWrite):
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to save recurrence rule")
	case errors.Is(err, service.ErrInstanceWrite):
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to save event instances")
	default:
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
}
