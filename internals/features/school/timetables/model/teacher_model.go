// file: internals/features/school/timetables/model/teacher_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TeacherModel struct {
	TeacherID       uuid.UUID `gorm:"type:uuid;primaryKey;column:teacher_id" json:"teacher_id"`
	TeacherSchoolID uuid.UUID `gorm:"type:uuid;not null;index;column:teacher_school_id" json:"teacher_school_id"`
	TeacherName     string    `gorm:"type:text;not null;column:teacher_name" json:"teacher_name"`

	TeacherCreatedAt time.Time `gorm:"column:teacher_created_at;autoCreateTime" json:"teacher_created_at"`
	TeacherUpdatedAt time.Time `gorm:"column:teacher_updated_at;autoUpdateTime" json:"teacher_updated_at"`
}

func (TeacherModel) TableName() string { return "teachers" }

func (m *TeacherModel) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.TeacherID)
	return nil
}

type SubjectModel struct {
	SubjectID       uuid.UUID `gorm:"type:uuid;primaryKey;column:subject_id" json:"subject_id"`
	SubjectSchoolID uuid.UUID `gorm:"type:uuid;not null;index;column:subject_school_id" json:"subject_school_id"`
	SubjectName     string    `gorm:"type:text;not null;column:subject_name" json:"subject_name"`

	SubjectCreatedAt time.Time `gorm:"column:subject_created_at;autoCreateTime" json:"subject_created_at"`
	SubjectUpdatedAt time.Time `gorm:"column:subject_updated_at;autoUpdateTime" json:"subject_updated_at"`
}

func (SubjectModel) TableName() string { return "subjects" }

func (m *SubjectModel) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.SubjectID)
	return nil
}
