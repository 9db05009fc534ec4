// file: internals/features/school/timetables/model/timetable_slot_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Unique key: (school, term, day, period, class, week_offset).
// Tidak pakai soft delete: baris tombstone akan mengunci key upsert.
type TimetableSlotModel struct {
	TimetableSlotID uuid.UUID `gorm:"type:uuid;primaryKey;column:timetable_slot_id" json:"timetable_slot_id"`

	TimetableSlotSchoolID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_timetable_slot_key,priority:1;column:timetable_slot_school_id" json:"timetable_slot_school_id"`
	TimetableSlotTermID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_timetable_slot_key,priority:2;column:timetable_slot_term_id" json:"timetable_slot_term_id"`
	TimetableSlotDayOfWeek  int       `gorm:"not null;uniqueIndex:uq_timetable_slot_key,priority:3;column:timetable_slot_day_of_week" json:"timetable_slot_day_of_week"`
	TimetableSlotPeriodID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_timetable_slot_key,priority:4;column:timetable_slot_period_id" json:"timetable_slot_period_id"`
	TimetableSlotClassID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_timetable_slot_key,priority:5;column:timetable_slot_class_id" json:"timetable_slot_class_id"`
	TimetableSlotWeekOffset int       `gorm:"not null;default:0;uniqueIndex:uq_timetable_slot_key,priority:6;column:timetable_slot_week_offset" json:"timetable_slot_week_offset"`

	// NULL → warisi default dari teaching class
	TimetableSlotTeacherID *uuid.UUID `gorm:"type:uuid;column:timetable_slot_teacher_id" json:"timetable_slot_teacher_id,omitempty"`
	TimetableSlotRoomID    *uuid.UUID `gorm:"type:uuid;column:timetable_slot_room_id" json:"timetable_slot_room_id,omitempty"`

	TimetableSlotCreatedAt time.Time `gorm:"column:timetable_slot_created_at;autoCreateTime" json:"timetable_slot_created_at"`
	TimetableSlotUpdatedAt time.Time `gorm:"column:timetable_slot_updated_at;autoUpdateTime" json:"timetable_slot_updated_at"`
}

func (TimetableSlotModel) TableName() string { return "timetable_slots" }

func (m *TimetableSlotModel) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.TimetableSlotID)
	return nil
}
