package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/TheOGApplePie/wmcc-admin-dashboard/internals/features/events/controller"
	osshelper "github.com/TheOGApplePie/wmcc-admin-dashboard/internals/helpers/oss"
)

// EventAdminRoutes mounts the authenticated event endpoints under the
// given (already JWT-guarded) router group.
func EventAdminRoutes(admin fiber.Router, db *gorm.DB, posters osshelper.PosterService) {
	ctl := controller.NewEventController(db, posters)

	events := admin.Group("/events")
	events.Get("/", ctl.List)
	events.Get("/:id", ctl.GetByID)
	events.Post("/", ctl.Create)
	events.Put("/:id", ctl.Update)
	events.Delete("/:id", ctl.Delete)
}
