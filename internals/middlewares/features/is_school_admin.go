// file: internals/middlewares/features/is_school_admin.go
package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"timetable_backend/internals/constants"
	helperAuth "timetable_backend/internals/helpers/auth"
)

// rolePriority: role terbaik dipilih kalau user punya beberapa role di satu school
var rolePriority = map[string]int{
	constants.RoleOwner:     100,
	constants.RoleDeveloper: 95,
	constants.RoleAdmin:     90,
	"dkm":                   80,
	constants.RoleTeacher:   70,
	constants.RoleStudent:   40,
}

func bestRoleFor(roles []string) string {
	best, score := "", -1
	for _, r := range roles {
		r = strings.ToLower(strings.TrimSpace(r))
		if p, ok := rolePriority[r]; ok && p > score {
			best, score = r, p
		}
	}
	if best == "dkm" {
		return constants.RoleAdmin
	}
	return best
}

// UseSchoolScope: resolve :school_id (strict membership) lalu set role
// efektif untuk school tsb ke Locals.
func UseSchoolScope() fiber.Handler {
	return func(c *fiber.Ctx) error {
		schoolID, err := helperAuth.ResolveSchoolIDStrict(c)
		if err != nil {
			return err
		}
		c.Locals(helperAuth.LocSchoolID, schoolID.String())

		if r := bestRoleFor(helperAuth.RolesInSchool(c, schoolID)); r != "" {
			c.Locals(helperAuth.LocRole, r)
		}
		return c.Next()
	}
}

// IsSchoolAdmin: hanya admin/owner/developer yang lolos group /api/a
func IsSchoolAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := helperAuth.GetRole(c)
		if !constants.IsAdminRole(role) {
			log.Printf("[AUTHZ] tolak role=%q path=%s", role, c.Path())
			return fiber.NewError(fiber.StatusForbidden, constants.RoleErrorAdmin("timetable"))
		}
		return c.Next()
	}
}
