// file: internals/features/school/timetables/model/classroom_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClassroomModel struct {
	ClassroomID       uuid.UUID `gorm:"type:uuid;primaryKey;column:classroom_id" json:"classroom_id"`
	ClassroomSchoolID uuid.UUID `gorm:"type:uuid;not null;index;column:classroom_school_id" json:"classroom_school_id"`

	ClassroomName     string `gorm:"type:text;not null;column:classroom_name" json:"classroom_name"`
	ClassroomCapacity *int   `gorm:"column:classroom_capacity" json:"classroom_capacity,omitempty"`

	ClassroomCreatedAt time.Time `gorm:"column:classroom_created_at;autoCreateTime" json:"classroom_created_at"`
	ClassroomUpdatedAt time.Time `gorm:"column:classroom_updated_at;autoUpdateTime" json:"classroom_updated_at"`
}

func (ClassroomModel) TableName() string { return "classrooms" }

func (m *ClassroomModel) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.ClassroomID)
	return nil
}
