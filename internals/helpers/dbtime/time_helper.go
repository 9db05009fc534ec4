// file: internals/helpers/dbtime/time_helper.go
package dbtime

import (
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Locals diisi AuthJWT dari klaim "school_timezone"
const (
	LocSchoolTimezone = "school_timezone" // string, misal "Asia/Jakarta"
	LocSchoolLoc      = "school_loc"      // *time.Location (cache per request)
)

var (
	defaultTZ   = "Asia/Jakarta"
	locCache    = map[string]*time.Location{}
	locCacheMux sync.RWMutex
)

// SetDefaultTimezone: fallback kalau token tidak bawa timezone
func SetDefaultTimezone(tz string) {
	if tz = strings.TrimSpace(tz); tz != "" {
		defaultTZ = tz
	}
}

func loadLocation(name string) (*time.Location, bool) {
	locCacheMux.RLock()
	loc, ok := locCache[name]
	locCacheMux.RUnlock()
	if ok {
		return loc, true
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, false
	}
	locCacheMux.Lock()
	locCache[name] = loc
	locCacheMux.Unlock()
	return loc, true
}

// GetSchoolLocation: locals school_loc → school_timezone → default → UTC
func GetSchoolLocation(c *fiber.Ctx) *time.Location {
	if c == nil {
		return time.UTC
	}
	if loc, ok := c.Locals(LocSchoolLoc).(*time.Location); ok && loc != nil {
		return loc
	}
	for _, name := range []string{localsString(c, LocSchoolTimezone), defaultTZ} {
		if name == "" {
			continue
		}
		if loc, ok := loadLocation(name); ok {
			c.Locals(LocSchoolLoc, loc)
			return loc
		}
	}
	return time.UTC
}

func localsString(c *fiber.Ctx, key string) string {
	if s, ok := c.Locals(key).(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// ToSchoolTime: konversi (biasanya UTC) ke timezone sekolah; zero dibiarkan
func ToSchoolTime(c *fiber.Ctx, t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.In(GetSchoolLocation(c))
}
