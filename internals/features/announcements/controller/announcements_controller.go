package controller

import (
	"errors"
	"log"
	"mime/multipart"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/TheOGApplePie/wmcc-admin-dashboard/internals/features/announcements/dto"
	"github.com/TheOGApplePie/wmcc-admin-dashboard/internals/features/announcements/model"
	helper "github.com/TheOGApplePie/wmcc-admin-dashboard/internals/helpers"
	osshelper "github.com/TheOGApplePie/wmcc-admin-dashboard/internals/helpers/oss"
)

type AnnouncementController struct {
	DB       *gorm.DB
	Posters  osshelper.PosterService
	Validate *validator.Validate
}

func NewAnnouncementController(db *gorm.DB, posters osshelper.PosterService) *AnnouncementController {
	return &AnnouncementController{DB: db, Posters: posters, Validate: validator.New()}
}

// POST /api/a/announcements (multipart/form-data)
func (ctl *AnnouncementController) Create(c *fiber.Ctx) error {
	req, posterFile, err := parseAnnouncementForm(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if resp := ctl.validate(c, req); resp != nil {
		return resp
	}

	m := req.ToModel()
	if posterFile != nil {
		url, err := ctl.Posters.UploadPoster(c.UserContext(), posterFile)
		if err != nil {
			log.Printf("[OSS] poster upload failed: %v", err)
			return helper.JsonError(c, fiber.StatusBadGateway, "Poster upload failed")
		}
		m.AnnouncementPosterURL = url
	}

	if err := ctl.DB.WithContext(c.UserContext()).Create(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create announcement")
	}
	return helper.JsonCreated(c, "Announcement created", dto.ToAnnouncementResponse(m))
}

// PUT /api/a/announcements/:id (multipart/form-data)
func (ctl *AnnouncementController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid announcement id")
	}
	req, posterFile, err := parseAnnouncementForm(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if resp := ctl.validate(c, req); resp != nil {
		return resp
	}

	var existing model.AnnouncementModel
	if err := ctl.DB.WithContext(c.UserContext()).
		First(&existing, "announcement_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Announcement not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load announcement")
	}

	posterURL := existing.AnnouncementPosterURL
	if posterFile != nil {
		url, err := ctl.Posters.UploadPoster(c.UserContext(), posterFile)
		if err != nil {
			log.Printf("[OSS] poster upload failed: %v", err)
			return helper.JsonError(c, fiber.StatusBadGateway, "Poster upload failed")
		}
		if posterURL != "" && posterURL != url {
			if err := ctl.Posters.DeleteByPublicURL(c.UserContext(), posterURL); err != nil {
				log.Printf("[OSS] stale poster delete failed (%s): %v", posterURL, err)
			}
		}
		posterURL = url
	}

	updates := map[string]any{
		"announcement_title":                  req.Title,
		"announcement_description":            req.Description,
		"announcement_poster_url":             posterURL,
		"announcement_poster_alt":             req.PosterAlt,
		"announcement_call_to_action_link":    req.CallToActionLink,
		"announcement_call_to_action_caption": req.CallToActionCaption,
		"announcement_expires_at":             req.ExpiresAt,
	}
	if err := ctl.DB.WithContext(c.UserContext()).
		Model(&model.AnnouncementModel{}).
		Where("announcement_id = ?", id).
		Updates(updates).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update announcement")
	}

	var m model.AnnouncementModel
	if err := ctl.DB.WithContext(c.UserContext()).
		First(&m, "announcement_id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to reload announcement")
	}
	return helper.JsonUpdated(c, "Announcement updated", dto.ToAnnouncementResponse(&m))
}

// DELETE /api/a/announcements/:id
func (ctl *AnnouncementController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid announcement id")
	}

	var existing model.AnnouncementModel
	if err := ctl.DB.WithContext(c.UserContext()).
		First(&existing, "announcement_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Announcement not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load announcement")
	}

	if err := ctl.DB.WithContext(c.UserContext()).
		Where("announcement_id = ?", id).
		Delete(&model.AnnouncementModel{}).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete announcement")
	}

	if existing.AnnouncementPosterURL != "" {
		if err := ctl.Posters.DeleteByPublicURL(c.UserContext(), existing.AnnouncementPosterURL); err != nil {
			log.Printf("[OSS] poster delete failed (%s): %v", existing.AnnouncementPosterURL, err)
		}
	}
	return helper.JsonDeleted(c, "Announcement deleted", fiber.Map{"id": id})
}

// GET /api/a/announcements/:id and /api/public/announcements/:id
func (ctl *AnnouncementController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid announcement id")
	}
	var m model.AnnouncementModel
	if err := ctl.DB.WithContext(c.UserContext()).
		First(&m, "announcement_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Announcement not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load announcement")
	}
	return helper.JsonOK(c, "OK", dto.ToAnnouncementResponse(&m))
}

// GET /api/a/announcements
// Everything, newest first.
func (ctl *AnnouncementController) List(c *fiber.Ctx) error {
	return ctl.list(c, false)
}

// GET /api/public/announcements
// Hides expired entries.
func (ctl *AnnouncementController) ListActive(c *fiber.Ctx) error {
	return ctl.list(c, true)
}

func (ctl *AnnouncementController) list(c *fiber.Ctx, activeOnly bool) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.WithContext(c.UserContext()).Model(&model.AnnouncementModel{})
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		q = q.Where("announcement_title ILIKE ?", "%"+search+"%")
	}
	if activeOnly {
		q = q.Where("announcement_expires_at IS NULL OR announcement_expires_at > ?", time.Now())
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count announcements")
	}

	var items []model.AnnouncementModel
	if err := q.Order("announcement_created_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&items).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to list announcements")
	}

	pg := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	pg.Count = len(items)
	return helper.JsonList(c, "OK", dto.ToAnnouncementResponses(items), &pg)
}

func (ctl *AnnouncementController) validate(c *fiber.Ctx, req *dto.AnnouncementRequest) error {
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidatorErrsToMap(err))
	}
	if crossErrs := req.Validate(time.Now()); crossErrs != nil {
		fieldErrs := make(map[string][]string, len(crossErrs))
		for field, msg := range crossErrs {
			fieldErrs[field] = []string{msg}
		}
		return helper.JsonValidationError(c, fieldErrs)
	}
	return nil
}

func parseAnnouncementForm(c *fiber.Ctx) (*dto.AnnouncementRequest, *multipart.FileHeader, error) {
	req := &dto.AnnouncementRequest{
		Title:               strings.TrimSpace(c.FormValue("title")),
		Description:         strings.TrimSpace(c.FormValue("description")),
		PosterAlt:           strings.TrimSpace(c.FormValue("poster_alt")),
		CallToActionLink:    strings.TrimSpace(c.FormValue("call_to_action_link")),
		CallToActionCaption: strings.TrimSpace(c.FormValue("call_to_action_caption")),
	}

	if raw := strings.TrimSpace(c.FormValue("expires_at")); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, "expires_at must be RFC 3339")
		}
		req.ExpiresAt = &t
	}

	posterFile, err := c.FormFile("poster")
	if err != nil {
		posterFile = nil // optional
	}
	return req, posterFile, nil
}
