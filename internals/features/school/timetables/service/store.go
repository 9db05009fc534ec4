// file: internals/features/school/timetables/service/store.go
package service

import (
	"context"

	"github.com/google/uuid"

	model "timetable_backend/internals/features/school/timetables/model"
)

// Store: akses data yang dibutuhkan engine. Semua method sudah di-scope per
// school. "Tidak ketemu" dikembalikan sebagai (nil, nil), bukan error.
type Store interface {
	GetTerm(ctx context.Context, schoolID, termID uuid.UUID) (*model.AcademicTermModel, error)
	GetAcademicYear(ctx context.Context, schoolID, yearID uuid.UUID) (*model.AcademicYearModel, error)
	ListPeriods(ctx context.Context, schoolID, academicYearID uuid.UUID) ([]model.PeriodModel, error)

	ListWeekConfigs(ctx context.Context, schoolID uuid.UUID, termID *uuid.UUID) ([]model.SchoolWeekConfigModel, error)
	SaveWeekConfig(ctx context.Context, cfg model.SchoolWeekConfigModel) (after model.SchoolWeekConfigModel, before *model.SchoolWeekConfigModel, err error)

	GetClass(ctx context.Context, schoolID, classID uuid.UUID) (*model.TeachingClassModel, error)
	TeacherExists(ctx context.Context, schoolID, teacherID uuid.UUID) (bool, error)
	RoomExists(ctx context.Context, schoolID, roomID uuid.UUID) (bool, error)

	UpsertSlot(ctx context.Context, key SlotKey, teacherID, roomID *uuid.UUID) (after model.TimetableSlotModel, before *model.TimetableSlotModel, err error)
	DeleteSlot(ctx context.Context, key SlotKey) (before *model.TimetableSlotModel, err error)
	ListSlots(ctx context.Context, schoolID uuid.UUID, f SlotFilter) ([]ResolvedSlot, error)
	CountSlots(ctx context.Context, schoolID, termID uuid.UUID) (int64, error)

	ListLegacyClasses(ctx context.Context, schoolID, termID uuid.UUID) ([]LegacyClass, error)
	ListCatalog(ctx context.Context, schoolID, termID uuid.UUID) (Catalog, error)
}

// AuditRecord: satu baris audit untuk setiap mutasi
type AuditRecord struct {
	SchoolID    uuid.UUID
	ActorUserID *uuid.UUID
	ActorRole   string
	Action      string
	EntityType  string
	EntityID    *uuid.UUID
	Before      any
	After       any
}

// AuditLogger: fire-and-forget dari sisi engine. Error cuma di-log.
type AuditLogger interface {
	Record(ctx context.Context, rec AuditRecord) error
}

const (
	AuditActionSlotUpsert       = "slot.upsert"
	AuditActionSlotDelete       = "slot.delete"
	AuditActionWeekConfigSave   = "week_config.save"
	AuditEntityTimetableSlot    = "timetable_slot"
	AuditEntitySchoolWeekConfig = "school_week_config"
)
