package route

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/TheOGApplePie/wmcc-admin-dashboard/internals/configs"
	announcementRoute "github.com/TheOGApplePie/wmcc-admin-dashboard/internals/features/announcements/route"
	eventRoute "github.com/TheOGApplePie/wmcc-admin-dashboard/internals/features/events/route"
	feedbackRoute "github.com/TheOGApplePie/wmcc-admin-dashboard/internals/features/feedback/route"
	authRoute "github.com/TheOGApplePie/wmcc-admin-dashboard/internals/features/users/auth/route"
	osshelper "github.com/TheOGApplePie/wmcc-admin-dashboard/internals/helpers/oss"
	authmw "github.com/TheOGApplePie/wmcc-admin-dashboard/internals/middlewares/auth"
)

/*
SetupRoutes wires the whole API surface:

	/api/login, /api/logout      session
	/api/public/...              unauthenticated reads + feedback form
	/api/a/...                   JWT-guarded admin endpoints
*/
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	posters := newPosterService()

	api := app.Group("/api")

	authRoute.AuthPublicRoutes(api, db)

	public := api.Group("/public")
	eventRoute.EventUserRoutes(public, db)
	announcementRoute.AnnouncementUserRoutes(public, db)
	feedbackRoute.FeedbackUserRoutes(public, db)

	admin := api.Group("/a", authmw.AuthJWT(authmw.AuthJWTOpts{
		Secret:              configs.JWTSecret,
		AllowCookieFallback: true,
	}))
	authRoute.AuthAdminRoutes(admin, db)
	eventRoute.EventAdminRoutes(admin, db, posters)
	announcementRoute.AnnouncementAdminRoutes(admin, db, posters)
	feedbackRoute.FeedbackAdminRoutes(admin, db)
}

// newPosterService builds the OSS-backed uploader; a missing bucket
// config keeps the API up with uploads disabled.
func newPosterService() osshelper.PosterService {
	svc, err := osshelper.NewOSSPosterServiceFromEnv("posters")
	if err != nil {
		log.Printf("[OSS] poster service disabled: %v", err)
		return disabledPosterService{}
	}
	return svc
}
