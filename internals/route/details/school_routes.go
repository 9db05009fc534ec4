// file: internals/route/details/school_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	TimetableRoutes "timetable_backend/internals/features/school/timetables/route"
)

/* ===================== USER ===================== */

func SchoolUserRoutes(r fiber.Router, db *gorm.DB) {
	TimetableRoutes.TimetableUserRoutes(r, db)
}

/* ===================== ADMIN ===================== */

func SchoolAdminRoutes(r fiber.Router, db *gorm.DB) {
	TimetableRoutes.TimetableAdminRoutes(r, db)
}
