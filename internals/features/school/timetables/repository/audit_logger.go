// file: internals/features/school/timetables/repository/audit_logger.go
package repository

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	model "timetable_backend/internals/features/school/timetables/model"
	"timetable_backend/internals/features/school/timetables/service"
)

// GormAuditLogger: simpan snapshot before/after sebagai JSON
type GormAuditLogger struct {
	DB *gorm.DB
}

func NewGormAuditLogger(db *gorm.DB) *GormAuditLogger {
	return &GormAuditLogger{DB: db}
}

var _ service.AuditLogger = (*GormAuditLogger)(nil)

func (l *GormAuditLogger) Record(ctx context.Context, rec service.AuditRecord) error {
	before, err := snapshot(rec.Before)
	if err != nil {
		return err
	}
	after, err := snapshot(rec.After)
	if err != nil {
		return err
	}

	row := model.TimetableAuditLogModel{
		TimetableAuditLogSchoolID:    rec.SchoolID,
		TimetableAuditLogActorUserID: rec.ActorUserID,
		TimetableAuditLogActorRole:   rec.ActorRole,
		TimetableAuditLogAction:      rec.Action,
		TimetableAuditLogEntityType:  rec.EntityType,
		TimetableAuditLogEntityID:    rec.EntityID,
		TimetableAuditLogBefore:      before,
		TimetableAuditLogAfter:       after,
	}
	return l.DB.WithContext(ctx).Create(&row).Error
}

// ListAuditLogs: audit terbaru dulu, dengan total untuk pagination
func (l *GormAuditLogger) ListAuditLogs(ctx context.Context, schoolID uuid.UUID, offset, limit int) ([]model.TimetableAuditLogModel, int64, error) {
	if limit <= 0 {
		limit = 50
	}
	q := l.DB.WithContext(ctx).Model(&model.TimetableAuditLogModel{}).
		Where("timetable_audit_log_school_id = ?", schoolID).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := make([]model.TimetableAuditLogModel, 0)
	err := q.Order("timetable_audit_log_created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	return rows, total, err
}

// PurgeBefore: hapus audit yang lebih tua dari cutoff (semua school)
func (l *GormAuditLogger) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := l.DB.WithContext(ctx).
		Where("timetable_audit_log_created_at < ?", cutoff.UTC()).
		Delete(&model.TimetableAuditLogModel{})
	return res.RowsAffected, res.Error
}

func snapshot(v any) (datatypes.JSON, error) {
	if v == nil {
		return nil, nil
	}
	b, err := sonic.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}
