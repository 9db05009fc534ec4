// file: internals/helpers/auth/school_context_resolver.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var (
	ErrSchoolContextMissing   = fiber.NewError(fiber.StatusBadRequest, "School context tidak ditemukan. Sertakan :school_id di path atau header X-Active-School-ID.")
	ErrSchoolContextForbidden = fiber.NewError(fiber.StatusForbidden, "Anda tidak memiliki akses ke school ini.")
)

/*
	==========================================
	  Resolve school: path → header → query → token
	==========================================
*/
func ResolveSchoolID(c *fiber.Ctx) (uuid.UUID, error) {
	candidates := []string{
		c.Params("school_id"),
		c.Get("X-Active-School-ID"),
		c.Query("school_id"),
	}
	for _, raw := range candidates {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "school_id tidak valid")
		}
		return id, nil
	}

	// fallback token (single-tenant)
	if id, err := GetActiveSchoolID(c); err == nil && id != uuid.Nil {
		return id, nil
	}
	return uuid.Nil, ErrSchoolContextMissing
}

// ResolveSchoolIDStrict: seperti ResolveSchoolID, plus user wajib member school tsb
func ResolveSchoolIDStrict(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := ResolveSchoolID(c)
	if err != nil {
		return uuid.Nil, err
	}
	if !UserHasSchool(c, id) {
		return uuid.Nil, ErrSchoolContextForbidden
	}
	return id, nil
}
