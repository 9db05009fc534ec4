// file: internals/features/school/timetables/service/types.go
package service

import (
	"time"

	"github.com/google/uuid"
)

/* =========================
   Context (tenant/term/role)
========================= */

// Actor: hasil resolusi context pemanggil. TeacherID / ClassID hanya wajib
// untuk role yang self-scoped.
type Actor struct {
	SchoolID  uuid.UUID
	UserID    *uuid.UUID
	Role      string
	TeacherID *uuid.UUID
	ClassID   *uuid.UUID
}

/* =========================
   Slot
========================= */

type SlotKey struct {
	SchoolID   uuid.UUID
	TermID     uuid.UUID
	DayOfWeek  int
	PeriodID   uuid.UUID
	ClassID    uuid.UUID
	WeekOffset int
}

// SlotFilter: semua field opsional kecuali TermID.
type SlotFilter struct {
	TermID     uuid.UUID
	ClassID    *uuid.UUID
	TeacherID  *uuid.UUID
	RoomID     *uuid.UUID
	WeekOffset *int
	DayOfWeek  *int
}

// ResolvedSlot: slot dengan teacher/room efektif (slot override → default class)
// plus field display hasil join.
type ResolvedSlot struct {
	SlotID     uuid.UUID `json:"slot_id"`
	TermID     uuid.UUID `json:"term_id"`
	DayOfWeek  int       `json:"day_of_week"`
	PeriodID   uuid.UUID `json:"period_id"`
	ClassID    uuid.UUID `json:"class_id"`
	WeekOffset int       `json:"week_offset"`

	TeacherID *uuid.UUID `json:"teacher_id,omitempty"`
	RoomID    *uuid.UUID `json:"room_id,omitempty"`
	SubjectID *uuid.UUID `json:"subject_id,omitempty"`

	ClassName   string `json:"class_name"`
	SubjectName string `json:"subject_name,omitempty"`
	TeacherName string `json:"teacher_name,omitempty"`
	RoomName    string `json:"room_name,omitempty"`
	PeriodName  string `json:"period_name,omitempty"`
}

/* =========================
   Legacy (rentang waktu kontinu)
========================= */

// LegacyClass: class dengan rentang start/end (durasi sejak tengah malam).
type LegacyClass struct {
	ClassID   uuid.UUID
	ClassName string
	TeacherID *uuid.UUID
	RoomID    *uuid.UUID
	Start     time.Duration
	End       time.Duration
}

/* =========================
   Week config
========================= */

const (
	ConfigSourceTerm    = "term"
	ConfigSourceSchool  = "school"
	ConfigSourceDefault = "default"
)

type WeekConfig struct {
	WorkingDays      []int  `json:"working_days"`
	LunchAfterPeriod *int   `json:"lunch_after_period"`
	Source           string `json:"source"`
}

/* =========================
   Catalog (picker UI)
========================= */

type CatalogItem struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type Catalog struct {
	Rooms    []CatalogItem `json:"rooms"`
	Teachers []CatalogItem `json:"teachers"`
	Classes  []CatalogItem `json:"classes"`
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
