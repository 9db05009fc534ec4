// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"timetable_backend/internals/configs"
	helperAuth "timetable_backend/internals/helpers/auth"
	schoolMiddleware "timetable_backend/internals/middlewares/auth_school"
	routeDetails "timetable_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	BaseRoutes(app, db)

	auth := schoolMiddleware.AuthJWT(schoolMiddleware.AuthJWTOpts{
		Secret:              configs.JWTSecret,
		BlacklistChecker:    helperAuth.BlacklistChecker(db, configs.JWTSecret),
		AllowCookieFallback: true,
	})

	// ===================== PRIVATE (USER) =====================
	log.Println("[INFO] Setting up PRIVATE group...")
	private := app.Group("/api/u", auth)
	AuthRoutes(private, db, configs.JWTSecret)

	// ===================== ADMIN (per school) =====================
	// scope + role check dipasang di group /:school_id tiap fitur
	log.Println("[INFO] Setting up ADMIN group...")
	admin := app.Group("/api/a", auth)

	log.Println("[INFO] Mounting School routes...")
	routeDetails.SchoolUserRoutes(private, db)
	routeDetails.SchoolAdminRoutes(admin, db)
}
