package constants

import "fmt"

// Role yang dikenal oleh modul timetable
const (
	RoleAdmin     = "admin"
	RoleDeveloper = "developer"
	RoleOwner     = "owner"
	RoleTeacher   = "teacher"
	RoleStudent   = "student"
)

// Operasi timetable yang dijaga permission gate
const (
	OpRead              = "read"
	OpEdit              = "edit"
	OpManageConflicts   = "manage_conflicts"
	OpConfigureSettings = "configure_settings"
	OpViewAnalytics     = "view_analytics"
)

// Template pesan error role
const (
	ErrOnlyAdminsCanAccess   = "❌ Hanya admin yang boleh mengakses fitur %s."
	ErrRoleCannotDoOperation = "❌ Role '%s' tidak boleh melakukan '%s'."
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorOperation(role, op string) string {
	return fmt.Sprintf(ErrRoleCannotDoOperation, role, op)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleAdmin,
		RoleDeveloper,
		RoleOwner,
		RoleTeacher,
		RoleStudent,
	}

	AdminRoles = []string{
		RoleAdmin,
		RoleDeveloper,
		RoleOwner,
	}

	// role yang hanya boleh melihat data miliknya sendiri
	SelfScopedRoles = []string{
		RoleTeacher,
		RoleStudent,
	}

	AllOperations = []string{
		OpRead,
		OpEdit,
		OpManageConflicts,
		OpConfigureSettings,
		OpViewAnalytics,
	}
)

// RoleOperations: role → operasi yang diizinkan (static)
var RoleOperations = map[string][]string{
	RoleAdmin:     AllOperations,
	RoleDeveloper: AllOperations,
	RoleOwner:     AllOperations,
	RoleTeacher:   {OpRead, OpEdit},
	RoleStudent:   {OpRead},
}

func IsAdminRole(role string) bool {
	for _, r := range AdminRoles {
		if r == role {
			return true
		}
	}
	return false
}

func IsKnownRole(role string) bool {
	_, ok := RoleOperations[role]
	return ok
}
