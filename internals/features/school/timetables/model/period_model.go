// file: internals/features/school/timetables/model/period_model.go
package model

import (
	"regexp"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"timetable_backend/internals/helpers/dbtime"
)

// nama period yang dianggap istirahat (bukan jam pelajaran)
var breakNamePattern = regexp.MustCompile(`(?i)(break|lunch|recess|istirahat)`)

type PeriodModel struct {
	PeriodID             uuid.UUID `gorm:"type:uuid;primaryKey;column:period_id" json:"period_id"`
	PeriodSchoolID       uuid.UUID `gorm:"type:uuid;not null;index;column:period_school_id" json:"period_school_id"`
	PeriodAcademicYearID uuid.UUID `gorm:"type:uuid;not null;index;column:period_academic_year_id" json:"period_academic_year_id"`

	PeriodOrdinal   int        `gorm:"not null;column:period_ordinal" json:"period_ordinal"`
	PeriodName      string     `gorm:"type:text;not null;column:period_name" json:"period_name"`
	PeriodStartTime dbtime.Tod `gorm:"type:time;not null;column:period_start_time" json:"period_start_time"`
	PeriodEndTime   dbtime.Tod `gorm:"type:time;not null;column:period_end_time" json:"period_end_time"`

	PeriodCreatedAt time.Time `gorm:"column:period_created_at;autoCreateTime" json:"period_created_at"`
	PeriodUpdatedAt time.Time `gorm:"column:period_updated_at;autoUpdateTime" json:"period_updated_at"`
}

func (PeriodModel) TableName() string { return "periods" }

func (m *PeriodModel) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.PeriodID)
	return nil
}

// IsBreak: true kalau nama period cocok pola break/lunch
func (m PeriodModel) IsBreak() bool {
	return breakNamePattern.MatchString(m.PeriodName)
}
