// file: internals/features/school/timetables/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	timetableCtl "timetable_backend/internals/features/school/timetables/controller"
	"timetable_backend/internals/middlewares"
	schoolScope "timetable_backend/internals/middlewares/features"
)

// TimetableAdminRoutes: /api/a/:school_id/timetables/...
// Scope school dari path, hanya admin/owner/developer.
func TimetableAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctl := timetableCtl.NewTimetableController(db, nil)

	g := admin.Group("/:school_id/timetables",
		schoolScope.UseSchoolScope(),
		schoolScope.IsSchoolAdmin(),
		middlewares.TimetableWriteRateLimiter(),
	)
	g.Get("/audit-logs", ctl.AuditLogs)

	mountTermRoutes(g.Group("/terms/:term_id"), ctl)
}

// mountTermRoutes dipakai admin & user; penyempitan per role ada di engine
func mountTermRoutes(t fiber.Router, ctl *timetableCtl.TimetableController) {
	t.Get("/slots", ctl.ListSlots)
	t.Put("/slots", ctl.UpsertSlot)
	t.Delete("/slots", ctl.DeleteSlot)

	t.Get("/conflicts", ctl.Conflicts)
	t.Get("/suggestions", ctl.Suggestions)
	t.Get("/grid", ctl.Grid)
	t.Get("/analytics", ctl.Analytics)

	t.Get("/week-config", ctl.GetWeekConfig)
	t.Put("/week-config", ctl.SaveWeekConfig)

	t.Get("/periods", ctl.Periods)
	t.Get("/catalog", ctl.Catalog)
}
