// file: internals/middlewares/auth_school/jwt_auth.go
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"timetable_backend/internals/constants"
	helperAuth "timetable_backend/internals/helpers/auth"
	"timetable_backend/internals/helpers/dbtime"
)

type AuthJWTOpts struct {
	Secret              string
	BlacklistChecker    func(rawToken string) (bool, error) // true = token dicabut
	AllowCookieFallback bool                                // pakai cookie access_token jika tidak ada Bearer
}

func AuthJWT(o AuthJWTOpts) fiber.Handler {
	secret := strings.TrimSpace(o.Secret)
	if secret == "" {
		panic("AuthJWT: Secret wajib diisi")
	}

	return func(c *fiber.Ctx) error {
		raw := ""
		if authz := strings.TrimSpace(c.Get(fiber.HeaderAuthorization)); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			raw = strings.TrimSpace(authz[7:])
		} else if o.AllowCookieFallback {
			raw = strings.TrimSpace(c.Cookies("access_token"))
		}
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}

		if o.BlacklistChecker != nil {
			if black, err := o.BlacklistChecker(raw); err == nil && black {
				return fiber.NewError(fiber.StatusUnauthorized, "Token revoked")
			}
		}

		tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !tok.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}
		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
		}

		HydrateLocals(c, claims)
		return c.Next()
	}
}

// HydrateLocals: salin klaim JWT ke Locals yang dibaca helper auth
func HydrateLocals(c *fiber.Ctx, claims jwt.MapClaims) {
	c.Locals("jwt_claims", claims)

	if v, ok := claims["roles_global"]; ok {
		c.Locals(helperAuth.LocRolesGlobal, v)
	}
	if v, ok := claims["school_roles"]; ok {
		c.Locals(helperAuth.LocSchoolRoles, v)
	}
	if sid := strClaim(claims, "school_id"); sid != "" {
		c.Locals(helperAuth.LocActiveSchoolID, sid)
		c.Locals(helperAuth.LocSchoolID, sid)
	}
	if tid := strClaim(claims, "teacher_id"); tid != "" {
		c.Locals(helperAuth.LocTeacherID, tid)
	}
	if cid := strClaim(claims, "class_id"); cid != "" {
		c.Locals(helperAuth.LocClassID, cid)
	}
	if tz := strClaim(claims, "school_timezone"); tz != "" {
		c.Locals(dbtime.LocSchoolTimezone, tz)
	}

	// user_id: id → sub → user_id
	for _, k := range []string{"id", "sub", "user_id"} {
		if v := strClaim(claims, k); v != "" {
			c.Locals(helperAuth.LocUserID, v)
			break
		}
	}

	if r := strings.ToLower(strClaim(claims, "role")); r != "" {
		c.Locals(helperAuth.LocRole, normalizeRole(r))
		return
	}
	c.Locals(helperAuth.LocRole, pickRole(claims))
}

// prioritas role kalau token tidak bawa klaim "role" eksplisit
var rolePriority = []string{
	constants.RoleOwner,
	constants.RoleDeveloper,
	constants.RoleAdmin,
	constants.RoleTeacher,
	constants.RoleStudent,
}

// alias lama
func normalizeRole(r string) string {
	switch r {
	case "dkm":
		return constants.RoleAdmin
	default:
		return r
	}
}

func pickRole(claims jwt.MapClaims) string {
	has := map[string]bool{}
	if arr, ok := claims["school_roles"].([]any); ok {
		for _, it := range arr {
			if m, ok := it.(map[string]any); ok {
				for _, r := range readStringSlice(m["roles"]) {
					has[normalizeRole(strings.ToLower(r))] = true
				}
			}
		}
	}
	for _, r := range readStringSlice(claims["roles_global"]) {
		has[normalizeRole(strings.ToLower(r))] = true
	}
	for _, r := range rolePriority {
		if has[r] {
			return r
		}
	}
	return ""
}

func strClaim(m jwt.MapClaims, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func readStringSlice(v any) []string {
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
			if s, ok := it.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
	}
	return out
}
