// file: internals/features/school/timetables/model/school_week_config_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// TermID NULL = default seluruh sekolah
type SchoolWeekConfigModel struct {
	SchoolWeekConfigID       uuid.UUID  `gorm:"type:uuid;primaryKey;column:school_week_config_id" json:"school_week_config_id"`
	SchoolWeekConfigSchoolID uuid.UUID  `gorm:"type:uuid;not null;index;column:school_week_config_school_id" json:"school_week_config_school_id"`
	SchoolWeekConfigTermID   *uuid.UUID `gorm:"type:uuid;column:school_week_config_term_id" json:"school_week_config_term_id,omitempty"`

	SchoolWeekConfigWorkingDays      pq.Int64Array `gorm:"type:int[];not null;column:school_week_config_working_days" json:"school_week_config_working_days"`
	SchoolWeekConfigLunchAfterPeriod *int          `gorm:"column:school_week_config_lunch_after_period" json:"school_week_config_lunch_after_period,omitempty"`

	SchoolWeekConfigCreatedAt time.Time `gorm:"column:school_week_config_created_at;autoCreateTime" json:"school_week_config_created_at"`
	SchoolWeekConfigUpdatedAt time.Time `gorm:"column:school_week_config_updated_at;autoUpdateTime" json:"school_week_config_updated_at"`
}

func (SchoolWeekConfigModel) TableName() string { return "school_week_configs" }

func (m *SchoolWeekConfigModel) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.SchoolWeekConfigID)
	return nil
}
