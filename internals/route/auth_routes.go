package routes

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	helper "timetable_backend/internals/helpers"
	helperAuth "timetable_backend/internals/helpers/auth"
)

// AuthRoutes: POST /logout mencabut access token yang sedang dipakai.
// Penerbitan token ada di service auth terpisah.
func AuthRoutes(private fiber.Router, db *gorm.DB, secret string) {
	private.Post("/auth/logout", func(c *fiber.Ctx) error {
		raw := bearerToken(c)
		if raw == "" {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Token tidak ditemukan")
		}

		// fallback kalau token tanpa exp: simpan sehari
		exp := time.Now().Add(24 * time.Hour)
		if claims, ok := c.Locals("jwt_claims").(jwt.MapClaims); ok {
			if unix, ok := claims["exp"].(float64); ok && unix > 0 {
				exp = time.Unix(int64(unix), 0)
			}
		}

		if err := helperAuth.RevokeToken(c.UserContext(), db, raw, secret, exp); err != nil {
			log.Printf("[AUTH] gagal revoke token: %v", err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal logout")
		}
		return helper.JsonOK(c, "Logout berhasil", fiber.Map{"revoked_until": exp.UTC()})
	})
}

func bearerToken(c *fiber.Ctx) string {
	authz := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return strings.TrimSpace(authz[7:])
	}
	return strings.TrimSpace(c.Cookies("access_token"))
}
