package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timetable_backend/internals/constants"
	helperAuth "timetable_backend/internals/helpers/auth"
)

const secret = "jwt-test-secret"

type seen struct {
	role, school, teacher, class, user string
}

func newApp(t *testing.T, opts AuthJWTOpts, out *seen) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Get("/me", AuthJWT(opts), func(c *fiber.Ctx) error {
		*out = seen{
			role:    helperAuth.GetRole(c),
			school:  str(c.Locals(helperAuth.LocSchoolID)),
			teacher: str(c.Locals(helperAuth.LocTeacherID)),
			class:   str(c.Locals(helperAuth.LocClassID)),
			user:    str(c.Locals(helperAuth.LocUserID)),
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func signed(t *testing.T, claims jwt.MapClaims, method jwt.SigningMethod, key any) string {
	t.Helper()
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func get(t *testing.T, app *fiber.App, token string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestAuthJWT_HydratesLocals(t *testing.T) {
	var out seen
	app := newApp(t, AuthJWTOpts{Secret: secret}, &out)

	tok := signed(t, jwt.MapClaims{
		"sub":        "user-1",
		"role":       "Teacher",
		"school_id":  "11111111-1111-1111-1111-111111111111",
		"teacher_id": "66666666-0000-0000-0000-000000000001",
	}, jwt.SigningMethodHS256, []byte(secret))

	require.Equal(t, http.StatusNoContent, get(t, app, tok))
	assert.Equal(t, constants.RoleTeacher, out.role)
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", out.school)
	assert.Equal(t, "66666666-0000-0000-0000-000000000001", out.teacher)
	assert.Equal(t, "", out.class)
	assert.Equal(t, "user-1", out.user)
}

func TestAuthJWT_RoleFromSchoolRoles(t *testing.T) {
	var out seen
	app := newApp(t, AuthJWTOpts{Secret: secret}, &out)

	tok := signed(t, jwt.MapClaims{
		"id":        "user-2",
		"school_id": "11111111-1111-1111-1111-111111111111",
		"school_roles": []any{
			map[string]any{"school_id": "11111111-1111-1111-1111-111111111111", "roles": []any{"teacher", "DKM"}},
		},
	}, jwt.SigningMethodHS256, []byte(secret))

	require.Equal(t, http.StatusNoContent, get(t, app, tok))
	// dkm = alias admin, dan admin > teacher
	assert.Equal(t, constants.RoleAdmin, out.role)
}

func TestAuthJWT_Rejects(t *testing.T) {
	var out seen
	revoked := ""
	app := newApp(t, AuthJWTOpts{
		Secret:           secret,
		BlacklistChecker: func(raw string) (bool, error) { return raw == revoked, nil },
	}, &out)

	assert.Equal(t, http.StatusUnauthorized, get(t, app, ""))
	assert.Equal(t, http.StatusUnauthorized, get(t, app, "bukan.jwt.valid"))

	wrongKey := signed(t, jwt.MapClaims{"id": "x"}, jwt.SigningMethodHS256, []byte("other"))
	assert.Equal(t, http.StatusUnauthorized, get(t, app, wrongKey))

	expired := signed(t, jwt.MapClaims{"id": "x", "exp": time.Now().Add(-time.Minute).Unix()}, jwt.SigningMethodHS256, []byte(secret))
	assert.Equal(t, http.StatusUnauthorized, get(t, app, expired))

	revoked = signed(t, jwt.MapClaims{"id": "x", "school_id": "s"}, jwt.SigningMethodHS256, []byte(secret))
	assert.Equal(t, http.StatusUnauthorized, get(t, app, revoked))
}

func TestAuthJWT_EmptySecretPanics(t *testing.T) {
	assert.Panics(t, func() { AuthJWT(AuthJWTOpts{Secret: "  "}) })
}
