// file: internals/helpers/auth/token_claims.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

/* ============================================
   Locals Keys (diisi middleware AuthJWT)
   ============================================ */

const (
	LocRole   = "role"    // string, role efektif (admin|owner|developer|teacher|student)
	LocUserID = "user_id" // string | uuid

	LocRolesGlobal    = "roles_global"     // []string
	LocSchoolRoles    = "school_roles"     // []SchoolRolesEntry | []map[string]any
	LocSchoolID       = "school_id"        // string UUID
	LocActiveSchoolID = "active_school_id" // string UUID
	LocTeacherID      = "teacher_id"       // string UUID (school teacher)
	LocClassID        = "class_id"         // string UUID (class milik siswa)
)

type SchoolRolesEntry struct {
	SchoolID uuid.UUID `json:"school_id"`
	Roles    []string  `json:"roles"`
}

type RolesClaim struct {
	RolesGlobal []string           `json:"roles_global"`
	SchoolRoles []SchoolRolesEntry `json:"school_roles"`
}

/* ============================================
   Tiny shared helpers
   ============================================ */

func normalizeLocalsToStrings(v any) []string {
	out := make([]string, 0)
	switch t := v.(type) {
	case []string:
		for _, s := range t {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, it := range t {
			out = append(out, normalizeLocalsToStrings(it)...)
		}
	case string:
		if s := strings.TrimSpace(t); s != "" {
			out = append(out, s)
		}
	case uuid.UUID:
		if t != uuid.Nil {
			out = append(out, t.String())
		}
	case []uuid.UUID:
		for _, id := range t {
			if id != uuid.Nil {
				out = append(out, id.String())
			}
		}
	}
	return out
}

func parseFirstUUIDFromLocals(c *fiber.Ctx, key string) (uuid.UUID, error) {
	v := c.Locals(key)
	if v == nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, key+" tidak ditemukan di token")
	}
	items := normalizeLocalsToStrings(v)
	if len(items) == 0 {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, key+" kosong di token")
	}
	id, err := uuid.Parse(items[0])
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Format "+key+" tidak valid di token")
	}
	return id, nil
}

// optionalUUIDFromLocals: nil kalau tidak ada / tidak valid
func optionalUUIDFromLocals(c *fiber.Ctx, key string) *uuid.UUID {
	id, err := parseFirstUUIDFromLocals(c, key)
	if err != nil || id == uuid.Nil {
		return nil
	}
	return &id
}

/* ============================================
   Getters
   ============================================ */

func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	return parseFirstUUIDFromLocals(c, LocUserID)
}

// GetRole: role efektif, lowercase. Kosong kalau belum di-hydrate.
func GetRole(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocRole).(string); ok {
		return strings.ToLower(strings.TrimSpace(v))
	}
	return ""
}

func GetTeacherIDFromToken(c *fiber.Ctx) *uuid.UUID {
	return optionalUUIDFromLocals(c, LocTeacherID)
}

func GetClassIDFromToken(c *fiber.Ctx) *uuid.UUID {
	return optionalUUIDFromLocals(c, LocClassID)
}

// GetActiveSchoolID: active_school_id, fallback school_id
func GetActiveSchoolID(c *fiber.Ctx) (uuid.UUID, error) {
	if id, err := parseFirstUUIDFromLocals(c, LocActiveSchoolID); err == nil {
		return id, nil
	}
	return parseFirstUUIDFromLocals(c, LocSchoolID)
}

// parseSchoolRoles: terima bentuk struct maupun hasil decode JWT (map)
func parseSchoolRoles(c *fiber.Ctx) []SchoolRolesEntry {
	out := make([]SchoolRolesEntry, 0)
	switch arr := c.Locals(LocSchoolRoles).(type) {
	case []SchoolRolesEntry:
		out = append(out, arr...)
	case []map[string]any:
		for _, m := range arr {
			if e, ok := schoolRolesFromMap(m); ok {
				out = append(out, e)
			}
		}
	case []any:
		for _, it := range arr {
			if m, ok := it.(map[string]any); ok {
				if e, ok := schoolRolesFromMap(m); ok {
					out = append(out, e)
				}
			}
		}
	}
	return out
}

func schoolRolesFromMap(m map[string]any) (SchoolRolesEntry, bool) {
	var e SchoolRolesEntry
	if s, ok := m["school_id"].(string); ok {
		if id, err := uuid.Parse(strings.TrimSpace(s)); err == nil {
			e.SchoolID = id
		}
	}
	for _, r := range normalizeLocalsToStrings(m["roles"]) {
		e.Roles = append(e.Roles, strings.ToLower(r))
	}
	return e, e.SchoolID != uuid.Nil
}

// RolesInSchool: role user untuk school tertentu (dari school_roles)
func RolesInSchool(c *fiber.Ctx, schoolID uuid.UUID) []string {
	for _, e := range parseSchoolRoles(c) {
		if e.SchoolID == schoolID {
			return e.Roles
		}
	}
	return nil
}

func UserHasSchool(c *fiber.Ctx, schoolID uuid.UUID) bool {
	if schoolID == uuid.Nil {
		return false
	}
	if len(RolesInSchool(c, schoolID)) > 0 {
		return true
	}
	if id, err := GetActiveSchoolID(c); err == nil && id == schoolID {
		return true
	}
	return false
}
