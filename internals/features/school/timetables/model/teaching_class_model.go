// file: internals/features/school/timetables/model/teaching_class_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TeachingClassModel struct {
	TeachingClassID       uuid.UUID `gorm:"type:uuid;primaryKey;column:teaching_class_id" json:"teaching_class_id"`
	TeachingClassSchoolID uuid.UUID `gorm:"type:uuid;not null;index;column:teaching_class_school_id" json:"teaching_class_school_id"`
	TeachingClassTermID   uuid.UUID `gorm:"type:uuid;not null;index;column:teaching_class_term_id" json:"teaching_class_term_id"`

	TeachingClassName      string    `gorm:"type:text;not null;column:teaching_class_name" json:"teaching_class_name"`
	TeachingClassSubjectID uuid.UUID `gorm:"type:uuid;not null;column:teaching_class_subject_id" json:"teaching_class_subject_id"`

	// Default penugasan (dipakai kalau slot tidak override)
	TeachingClassDefaultTeacherID *uuid.UUID `gorm:"type:uuid;column:teaching_class_default_teacher_id" json:"teaching_class_default_teacher_id,omitempty"`
	TeachingClassDefaultRoomID    *uuid.UUID `gorm:"type:uuid;column:teaching_class_default_room_id" json:"teaching_class_default_room_id,omitempty"`

	// Legacy: rentang waktu kontinu (period awal → period akhir), sebelum ada model slot
	TeachingClassStartPeriodID *uuid.UUID `gorm:"type:uuid;column:teaching_class_start_period_id" json:"teaching_class_start_period_id,omitempty"`
	TeachingClassEndPeriodID   *uuid.UUID `gorm:"type:uuid;column:teaching_class_end_period_id" json:"teaching_class_end_period_id,omitempty"`

	TeachingClassCreatedAt time.Time `gorm:"column:teaching_class_created_at;autoCreateTime" json:"teaching_class_created_at"`
	TeachingClassUpdatedAt time.Time `gorm:"column:teaching_class_updated_at;autoUpdateTime" json:"teaching_class_updated_at"`
}

func (TeachingClassModel) TableName() string { return "teaching_classes" }

func (m *TeachingClassModel) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.TeachingClassID)
	return nil
}
