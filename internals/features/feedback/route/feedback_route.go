package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/TheOGApplePie/wmcc-admin-dashboard/internals/features/feedback/controller"
	"github.com/TheOGApplePie/wmcc-admin-dashboard/internals/middlewares"
)

func FeedbackAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctl := controller.NewFeedbackController(db)

	fb := admin.Group("/feedback")
	fb.Get("/", ctl.List)
	fb.Delete("/:id", ctl.Delete)
}

func FeedbackUserRoutes(public fiber.Router, db *gorm.DB) {
	ctl := controller.NewFeedbackController(db)

	public.Post("/feedback", middlewares.FeedbackRateLimiter(), ctl.Submit)
}
