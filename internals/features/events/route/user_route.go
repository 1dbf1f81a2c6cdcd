package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/TheOGApplePie/wmcc-admin-dashboard/internals/features/events/controller"
)

// EventUserRoutes mounts the read-only public endpoints.
func EventUserRoutes(public fiber.Router, db *gorm.DB) {
	ctl := controller.NewEventController(db, nil)

	events := public.Group("/events")
	events.Get("/", ctl.List)
	events.Get("/upcoming", ctl.ListUpcoming)
	events.Get("/:id", ctl.GetByID)
}
