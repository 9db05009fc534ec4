// file: internals/features/school/timetables/model/audit_log_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TimetableAuditLogModel struct {
	TimetableAuditLogID       uuid.UUID `gorm:"type:uuid;primaryKey;column:timetable_audit_log_id" json:"timetable_audit_log_id"`
	TimetableAuditLogSchoolID uuid.UUID `gorm:"type:uuid;not null;index;column:timetable_audit_log_school_id" json:"timetable_audit_log_school_id"`

	TimetableAuditLogActorUserID *uuid.UUID `gorm:"type:uuid;column:timetable_audit_log_actor_user_id" json:"timetable_audit_log_actor_user_id,omitempty"`
	TimetableAuditLogActorRole   string     `gorm:"type:varchar(32);not null;column:timetable_audit_log_actor_role" json:"timetable_audit_log_actor_role"`

	// contoh action: "slot.upsert", "slot.delete", "week_config.save"
	TimetableAuditLogAction     string     `gorm:"type:varchar(64);not null;column:timetable_audit_log_action" json:"timetable_audit_log_action"`
	TimetableAuditLogEntityType string     `gorm:"type:varchar(64);not null;column:timetable_audit_log_entity_type" json:"timetable_audit_log_entity_type"`
	TimetableAuditLogEntityID   *uuid.UUID `gorm:"type:uuid;column:timetable_audit_log_entity_id" json:"timetable_audit_log_entity_id,omitempty"`

	TimetableAuditLogBefore datatypes.JSON `gorm:"type:jsonb;column:timetable_audit_log_before" json:"timetable_audit_log_before,omitempty"`
	TimetableAuditLogAfter  datatypes.JSON `gorm:"type:jsonb;column:timetable_audit_log_after" json:"timetable_audit_log_after,omitempty"`

	TimetableAuditLogCreatedAt time.Time `gorm:"column:timetable_audit_log_created_at;autoCreateTime" json:"timetable_audit_log_created_at"`
}

func (TimetableAuditLogModel) TableName() string { return "timetable_audit_logs" }

func (m *TimetableAuditLogModel) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.TimetableAuditLogID)
	return nil
}

// AllModels dipakai AutoMigrate (dev/test)
func AllModels() []any {
	return []any{
		&AcademicYearModel{},
		&AcademicTermModel{},
		&PeriodModel{},
		&ClassroomModel{},
		&TeacherModel{},
		&SubjectModel{},
		&TeachingClassModel{},
		&TimetableSlotModel{},
		&SchoolWeekConfigModel{},
		&TimetableAuditLogModel{},
	}
}
