// file: internals/features/school/timetables/route/user_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	timetableCtl "timetable_backend/internals/features/school/timetables/controller"
	"timetable_backend/internals/middlewares"
	schoolScope "timetable_backend/internals/middlewares/features"
)

// TimetableUserRoutes: /api/u/timetables/... (school dari header/token)
func TimetableUserRoutes(user fiber.Router, db *gorm.DB) {
	ctl := timetableCtl.NewTimetableController(db, nil)

	g := user.Group("/timetables",
		schoolScope.UseSchoolScope(),
		middlewares.TimetableWriteRateLimiter(),
	)
	mountTermRoutes(g.Group("/terms/:term_id"), ctl)
}
