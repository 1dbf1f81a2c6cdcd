package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/TheOGApplePie/wmcc-admin-dashboard/internals/features/feedback/dto"
	"github.com/TheOGApplePie/wmcc-admin-dashboard/internals/features/feedback/model"
	helper "github.com/TheOGApplePie/wmcc-admin-dashboard/internals/helpers"
)

type FeedbackController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewFeedbackController(db *gorm.DB) *FeedbackController {
	return &FeedbackController{DB: db, Validate: validator.New()}
}

// POST /api/public/feedback
// The public contact form. Rate limited at the route layer.
func (ctl *FeedbackController) Submit(c *fiber.Ctx) error {
	var req dto.FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidatorErrsToMap(err))
	}

	m := req.ToModel()
	if err := ctl.DB.WithContext(c.UserContext()).Create(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to submit feedback")
	}
	return helper.JsonCreated(c, "Thank you for your feedback", fiber.Map{"id": m.FeedbackID})
}

// GET /api/a/feedback
// ?search= matches the message; ?from= / ?to= (YYYY-MM-DD) bound the
// submission date.
func (ctl *FeedbackController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.WithContext(c.UserContext()).Model(&model.CommunityFeedbackModel{})
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		q = q.Where("feedback_message ILIKE ?", "%"+search+"%")
	}
	if from, ok := parseDay(c.Query("from")); ok {
		q = q.Where("feedback_created_at >= ?", from)
	}
	if to, ok := parseDay(c.Query("to")); ok {
		q = q.Where("feedback_created_at < ?", to.AddDate(0, 0, 1))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count feedback")
	}

	var items []model.CommunityFeedbackModel
	if err := q.Order("feedback_created_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&items).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to list feedback")
	}

	pg := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	pg.Count = len(items)
	return helper.JsonList(c, "OK", dto.ToFeedbackResponses(items), &pg)
}

// DELETE /api/a/feedback/:id
func (ctl *FeedbackController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid feedback id")
	}

	res := ctl.DB.WithContext(c.UserContext()).
		Where("feedback_id = ?", id).
		Delete(&model.CommunityFeedbackModel{})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Feedback not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete feedback")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Feedback not found")
	}
	return helper.JsonDeleted(c, "Feedback deleted", fiber.Map{"id": id})
}

func parseDay(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
