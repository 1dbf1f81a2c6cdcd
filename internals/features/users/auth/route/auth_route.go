package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/TheOGApplePie/wmcc-admin-dashboard/internals/features/users/auth/controller"
	"github.com/TheOGApplePie/wmcc-admin-dashboard/internals/middlewares"
)

// AuthPublicRoutes mounts login/logout on the unauthenticated api group.
func AuthPublicRoutes(api fiber.Router, db *gorm.DB) {
	ctl := controller.NewAuthController(db)

	api.Post("/login", middlewares.LoginRateLimiter(), ctl.Login)
	api.Post("/logout", ctl.Logout)
}

// AuthAdminRoutes mounts the session endpoints behind the JWT guard.
func AuthAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctl := controller.NewAuthController(db)

	admin.Get("/me", ctl.Me)
	admin.Post("/change-password", ctl.ChangePassword)
}
