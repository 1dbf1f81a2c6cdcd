package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/TheOGApplePie/wmcc-admin-dashboard/internals/features/announcements/controller"
	osshelper "github.com/TheOGApplePie/wmcc-admin-dashboard/internals/helpers/oss"
)

func AnnouncementAdminRoutes(admin fiber.Router, db *gorm.DB, posters osshelper.PosterService) {
	ctl := controller.NewAnnouncementController(db, posters)

	anns := admin.Group("/announcements")
	anns.Get("/", ctl.List)
	anns.Get("/:id", ctl.GetByID)
	anns.Post("/", ctl.Create)
	anns.Put("/:id", ctl.Update)
	anns.Delete("/:id", ctl.Delete)
}

func AnnouncementUserRoutes(public fiber.Router, db *gorm.DB) {
	ctl := controller.NewAnnouncementController(db, nil)

	anns := public.Group("/announcements")
	anns.Get("/", ctl.ListActive)
	anns.Get("/:id", ctl.GetByID)
}
