// file: internals/features/school/timetables/service/permission_gate.go
package service

import (
	"github.com/google/uuid"

	"timetable_backend/internals/constants"
)

// Gate: mapping statis role → operasi, dibangun sekali dari constants.
type Gate struct {
	ops map[string]map[string]bool
}

func NewGate() Gate {
	g := Gate{ops: make(map[string]map[string]bool, len(constants.RoleOperations))}
	for role, list := range constants.RoleOperations {
		set := make(map[string]bool, len(list))
		for _, op := range list {
			set[op] = true
		}
		g.ops[role] = set
	}
	return g
}

func (g Gate) Allows(role, op string) bool {
	return g.ops[role][op]
}

// Check: Forbidden kalau ditolak. Tidak pernah "diam-diam kosong".
func (g Gate) Check(a Actor, op string) error {
	if !g.Allows(a.Role, op) {
		return forbidden(constants.RoleErrorOperation(a.Role, op))
	}
	return nil
}

// ValidateActor: context yang tidak lengkap = ContextError
func ValidateActor(a Actor) error {
	if a.SchoolID == uuid.Nil {
		return contextError("school context tidak ditemukan")
	}
	if !constants.IsKnownRole(a.Role) {
		return contextError("role tidak dikenal: '" + a.Role + "'")
	}
	switch a.Role {
	case constants.RoleTeacher:
		if a.TeacherID == nil || *a.TeacherID == uuid.Nil {
			return contextError("teacher_id tidak ada di context")
		}
	case constants.RoleStudent:
		if a.ClassID == nil || *a.ClassID == uuid.Nil {
			return contextError("class_id siswa tidak ada di context")
		}
	}
	return nil
}

// NarrowFilter: satu-satunya tempat penyempitan data per role. Dipanggil
// sebelum filter view diterapkan; untuk role self-scoped filter permintaan
// diabaikan.
func NarrowFilter(a Actor, requested SlotFilter) SlotFilter {
	out := requested
	switch a.Role {
	case constants.RoleTeacher:
		tid := *a.TeacherID
		out.TeacherID = &tid
		out.ClassID = nil
		out.RoomID = nil
	case constants.RoleStudent:
		cid := *a.ClassID
		out.ClassID = &cid
		out.TeacherID = nil
		out.RoomID = nil
	}
	return out
}
