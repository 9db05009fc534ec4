// file: internals/features/school/timetables/model/academic_term_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ensureID isi PK kalau masih kosong (postgres & sqlite sama-sama aman)
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

type AcademicYearModel struct {
	AcademicYearID       uuid.UUID `gorm:"type:uuid;primaryKey;column:academic_year_id" json:"academic_year_id"`
	AcademicYearSchoolID uuid.UUID `gorm:"type:uuid;not null;index;column:academic_year_school_id" json:"academic_year_school_id"`

	// Example: "2026/2027"
	AcademicYearName string `gorm:"type:text;not null;column:academic_year_name" json:"academic_year_name"`

	AcademicYearCreatedAt time.Time `gorm:"column:academic_year_created_at;autoCreateTime" json:"academic_year_created_at"`
	AcademicYearUpdatedAt time.Time `gorm:"column:academic_year_updated_at;autoUpdateTime" json:"academic_year_updated_at"`
}

func (AcademicYearModel) TableName() string { return "academic_years" }

func (m *AcademicYearModel) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.AcademicYearID)
	return nil
}

type AcademicTermModel struct {
	// ============ PK & Tenant ============
	AcademicTermID             uuid.UUID `gorm:"type:uuid;primaryKey;column:academic_term_id" json:"academic_term_id"`
	AcademicTermSchoolID       uuid.UUID `gorm:"type:uuid;not null;index;column:academic_term_school_id" json:"academic_term_school_id"`
	AcademicTermAcademicYearID uuid.UUID `gorm:"type:uuid;not null;column:academic_term_academic_year_id" json:"academic_term_academic_year_id"`

	// Example name: "Ganjil" | "Genap"
	AcademicTermName      string    `gorm:"type:text;not null;column:academic_term_name" json:"academic_term_name"`
	AcademicTermStartDate time.Time `gorm:"not null;column:academic_term_start_date" json:"academic_term_start_date"`
	AcademicTermEndDate   time.Time `gorm:"not null;column:academic_term_end_date" json:"academic_term_end_date"`
	AcademicTermIsActive  bool      `gorm:"not null;default:true;column:academic_term_is_active" json:"academic_term_is_active"`

	AcademicTermCreatedAt time.Time `gorm:"column:academic_term_created_at;autoCreateTime" json:"academic_term_created_at"`
	AcademicTermUpdatedAt time.Time `gorm:"column:academic_term_updated_at;autoUpdateTime" json:"academic_term_updated_at"`
}

func (AcademicTermModel) TableName() string { return "academic_terms" }

func (m *AcademicTermModel) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.AcademicTermID)
	return nil
}
