// file: internals/features/school/timetables/repository/slot_store.go
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	model "timetable_backend/internals/features/school/timetables/model"
	"timetable_backend/internals/features/school/timetables/service"
	"timetable_backend/internals/helpers/dbtime"
)

/* =========================
   GormStore (implements service.Store)
========================= */

type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

var _ service.Store = (*GormStore)(nil)

// kolom unique key slot, urutan sama dengan uq_timetable_slot_key
var slotKeyColumns = []clause.Column{
	{Name: "timetable_slot_school_id"},
	{Name: "timetable_slot_term_id"},
	{Name: "timetable_slot_day_of_week"},
	{Name: "timetable_slot_period_id"},
	{Name: "timetable_slot_class_id"},
	{Name: "timetable_slot_week_offset"},
}

const slotKeyWhere = `timetable_slot_school_id = ? AND timetable_slot_term_id = ?
	AND timetable_slot_day_of_week = ? AND timetable_slot_period_id = ?
	AND timetable_slot_class_id = ? AND timetable_slot_week_offset = ?`

func slotKeyArgs(k service.SlotKey) []any {
	return []any{k.SchoolID, k.TermID, k.DayOfWeek, k.PeriodID, k.ClassID, k.WeekOffset}
}

// nullable: nil pointer → NULL murni (bukan typed-nil)
func nullable(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return *id
}

/* =========================
   Term / year / period
========================= */

func (s *GormStore) GetTerm(ctx context.Context, schoolID, termID uuid.UUID) (*model.AcademicTermModel, error) {
	var m model.AcademicTermModel
	res := s.DB.WithContext(ctx).
		Where("academic_term_id = ? AND academic_term_school_id = ?", termID, schoolID).
		Limit(1).Find(&m)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &m, nil
}

func (s *GormStore) GetAcademicYear(ctx context.Context, schoolID, yearID uuid.UUID) (*model.AcademicYearModel, error) {
	var m model.AcademicYearModel
	res := s.DB.WithContext(ctx).
		Where("academic_year_id = ? AND academic_year_school_id = ?", yearID, schoolID).
		Limit(1).Find(&m)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &m, nil
}

// ListPeriods: urut jam mulai, lalu ordinal
func (s *GormStore) ListPeriods(ctx context.Context, schoolID, academicYearID uuid.UUID) ([]model.PeriodModel, error) {
	var rows []model.PeriodModel
	err := s.DB.WithContext(ctx).
		Where("period_school_id = ? AND period_academic_year_id = ?", schoolID, academicYearID).
		Order("period_start_time ASC, period_ordinal ASC").
		Find(&rows).Error
	return rows, err
}

/* =========================
   Week config
========================= */

func (s *GormStore) ListWeekConfigs(ctx context.Context, schoolID uuid.UUID, termID *uuid.UUID) ([]model.SchoolWeekConfigModel, error) {
	q := s.DB.WithContext(ctx).Where("school_week_config_school_id = ?", schoolID)
	if termID != nil {
		q = q.Where("(school_week_config_term_id IS NULL OR school_week_config_term_id = ?)", *termID)
	} else {
		q = q.Where("school_week_config_term_id IS NULL")
	}
	var rows []model.SchoolWeekConfigModel
	err := q.Order("school_week_config_created_at ASC").Find(&rows).Error
	return rows, err
}

// SaveWeekConfig: satu row per (school, term|NULL); update kalau sudah ada
func (s *GormStore) SaveWeekConfig(ctx context.Context, cfg model.SchoolWeekConfigModel) (model.SchoolWeekConfigModel, *model.SchoolWeekConfigModel, error) {
	var (
		after  model.SchoolWeekConfigModel
		before *model.SchoolWeekConfigModel
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("school_week_config_school_id = ?", cfg.SchoolWeekConfigSchoolID)
		if cfg.SchoolWeekConfigTermID != nil {
			q = q.Where("school_week_config_term_id = ?", *cfg.SchoolWeekConfigTermID)
		} else {
			q = q.Where("school_week_config_term_id IS NULL")
		}

		var cur model.SchoolWeekConfigModel
		res := q.Limit(1).Find(&cur)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			if err := tx.Create(&cfg).Error; err != nil {
				return err
			}
			after = cfg
			return nil
		}

		prev := cur
		before = &prev
		var lunch any
		if cfg.SchoolWeekConfigLunchAfterPeriod != nil {
			lunch = *cfg.SchoolWeekConfigLunchAfterPeriod
		}
		if err := tx.Model(&model.SchoolWeekConfigModel{}).
			Where("school_week_config_id = ?", cur.SchoolWeekConfigID).
			Updates(map[string]any{
				"school_week_config_working_days":       cfg.SchoolWeekConfigWorkingDays,
				"school_week_config_lunch_after_period": lunch,
				"school_week_config_updated_at":         time.Now(),
			}).Error; err != nil {
			return err
		}
		return tx.Where("school_week_config_id = ?", cur.SchoolWeekConfigID).First(&after).Error
	})
	return after, before, err
}

/* =========================
   Referensi (class/teacher/room)
========================= */

func (s *GormStore) GetClass(ctx context.Context, schoolID, classID uuid.UUID) (*model.TeachingClassModel, error) {
	var m model.TeachingClassModel
	res := s.DB.WithContext(ctx).
		Where("teaching_class_id = ? AND teaching_class_school_id = ?", classID, schoolID).
		Limit(1).Find(&m)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &m, nil
}

func (s *GormStore) TeacherExists(ctx context.Context, schoolID, teacherID uuid.UUID) (bool, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&model.TeacherModel{}).
		Where("teacher_id = ? AND teacher_school_id = ?", teacherID, schoolID).
		Count(&n).Error
	return n > 0, err
}

func (s *GormStore) RoomExists(ctx context.Context, schoolID, roomID uuid.UUID) (bool, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&model.ClassroomModel{}).
		Where("classroom_id = ? AND classroom_school_id = ?", roomID, schoolID).
		Count(&n).Error
	return n > 0, err
}

/* =========================
   Slot mutations
========================= */

// UpsertSlot: INSERT ... ON CONFLICT (key) DO UPDATE teacher/room, dalam satu tx
// supaya "before" konsisten dengan hasil akhir.
func (s *GormStore) UpsertSlot(ctx context.Context, key service.SlotKey, teacherID, roomID *uuid.UUID) (model.TimetableSlotModel, *model.TimetableSlotModel, error) {
	var (
		after  model.TimetableSlotModel
		before *model.TimetableSlotModel
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur model.TimetableSlotModel
		res := tx.Where(slotKeyWhere, slotKeyArgs(key)...).Limit(1).Find(&cur)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			prev := cur
			before = &prev
		}

		now := time.Now()
		row := model.TimetableSlotModel{
			TimetableSlotSchoolID:   key.SchoolID,
			TimetableSlotTermID:     key.TermID,
			TimetableSlotDayOfWeek:  key.DayOfWeek,
			TimetableSlotPeriodID:   key.PeriodID,
			TimetableSlotClassID:    key.ClassID,
			TimetableSlotWeekOffset: key.WeekOffset,
			TimetableSlotTeacherID:  teacherID,
			TimetableSlotRoomID:     roomID,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: slotKeyColumns,
			DoUpdates: clause.Assignments(map[string]any{
				"timetable_slot_teacher_id": nullable(teacherID),
				"timetable_slot_room_id":    nullable(roomID),
				"timetable_slot_updated_at": now,
			}),
		}).Create(&row).Error; err != nil {
			return err
		}

		return tx.Where(slotKeyWhere, slotKeyArgs(key)...).First(&after).Error
	})
	return after, before, err
}

// DeleteSlot: hard delete; (nil, nil) kalau key tidak ada
func (s *GormStore) DeleteSlot(ctx context.Context, key service.SlotKey) (*model.TimetableSlotModel, error) {
	var before *model.TimetableSlotModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur model.TimetableSlotModel
		res := tx.Where(slotKeyWhere, slotKeyArgs(key)...).Limit(1).Find(&cur)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		if err := tx.Where("timetable_slot_id = ?", cur.TimetableSlotID).
			Delete(&model.TimetableSlotModel{}).Error; err != nil {
			return err
		}
		before = &cur
		return nil
	})
	return before, err
}

/* =========================
   Slot reads
========================= */

type slotRow struct {
	SlotID      uuid.UUID  `gorm:"column:slot_id"`
	TermID      uuid.UUID  `gorm:"column:term_id"`
	DayOfWeek   int        `gorm:"column:day_of_week"`
	PeriodID    uuid.UUID  `gorm:"column:period_id"`
	ClassID     uuid.UUID  `gorm:"column:class_id"`
	WeekOffset  int        `gorm:"column:week_offset"`
	TeacherID   *uuid.UUID `gorm:"column:teacher_id"`
	RoomID      *uuid.UUID `gorm:"column:room_id"`
	SubjectID   *uuid.UUID `gorm:"column:subject_id"`
	ClassName   string     `gorm:"column:class_name"`
	SubjectName string     `gorm:"column:subject_name"`
	TeacherName string     `gorm:"column:teacher_name"`
	RoomName    string     `gorm:"column:room_name"`
	PeriodName  string     `gorm:"column:period_name"`
}

const (
	effectiveTeacherExpr = "COALESCE(s.timetable_slot_teacher_id, c.teaching_class_default_teacher_id)"
	effectiveRoomExpr    = "COALESCE(s.timetable_slot_room_id, c.teaching_class_default_room_id)"
)

// baseSlotQuery: slot + class (wajib) + teacher/room efektif + subject + period
func (s *GormStore) baseSlotQuery(ctx context.Context, schoolID, termID uuid.UUID) *gorm.DB {
	return s.DB.WithContext(ctx).
		Table("timetable_slots AS s").
		Joins(`JOIN teaching_classes c
			ON c.teaching_class_id = s.timetable_slot_class_id
			AND c.teaching_class_school_id = s.timetable_slot_school_id`).
		Joins("LEFT JOIN teachers t ON t.teacher_id = " + effectiveTeacherExpr).
		Joins("LEFT JOIN classrooms r ON r.classroom_id = " + effectiveRoomExpr).
		Joins("LEFT JOIN subjects sub ON sub.subject_id = c.teaching_class_subject_id").
		Joins("LEFT JOIN periods p ON p.period_id = s.timetable_slot_period_id").
		Where("s.timetable_slot_school_id = ? AND s.timetable_slot_term_id = ?", schoolID, termID)
}

func applySlotFilter(q *gorm.DB, f service.SlotFilter) *gorm.DB {
	if f.ClassID != nil {
		q = q.Where("s.timetable_slot_class_id = ?", *f.ClassID)
	}
	if f.TeacherID != nil {
		q = q.Where(effectiveTeacherExpr+" = ?", *f.TeacherID)
	}
	if f.RoomID != nil {
		q = q.Where(effectiveRoomExpr+" = ?", *f.RoomID)
	}
	if f.WeekOffset != nil {
		q = q.Where("s.timetable_slot_week_offset = ?", *f.WeekOffset)
	}
	if f.DayOfWeek != nil {
		q = q.Where("s.timetable_slot_day_of_week = ?", *f.DayOfWeek)
	}
	return q
}

func (s *GormStore) ListSlots(ctx context.Context, schoolID uuid.UUID, f service.SlotFilter) ([]service.ResolvedSlot, error) {
	var rows []slotRow
	err := applySlotFilter(s.baseSlotQuery(ctx, schoolID, f.TermID), f).
		Select(`
			s.timetable_slot_id          AS slot_id,
			s.timetable_slot_term_id     AS term_id,
			s.timetable_slot_day_of_week AS day_of_week,
			s.timetable_slot_period_id   AS period_id,
			s.timetable_slot_class_id    AS class_id,
			s.timetable_slot_week_offset AS week_offset,
			` + effectiveTeacherExpr + ` AS teacher_id,
			` + effectiveRoomExpr + ` AS room_id,
			c.teaching_class_subject_id  AS subject_id,
			c.teaching_class_name        AS class_name,
			COALESCE(sub.subject_name, '') AS subject_name,
			COALESCE(t.teacher_name, '')   AS teacher_name,
			COALESCE(r.classroom_name, '') AS room_name,
			COALESCE(p.period_name, '')    AS period_name`).
		Order("s.timetable_slot_week_offset ASC, s.timetable_slot_day_of_week ASC, p.period_start_time ASC, c.teaching_class_name ASC, s.timetable_slot_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]service.ResolvedSlot, 0, len(rows))
	for _, r := range rows {
		out = append(out, service.ResolvedSlot{
			SlotID:      r.SlotID,
			TermID:      r.TermID,
			DayOfWeek:   r.DayOfWeek,
			PeriodID:    r.PeriodID,
			ClassID:     r.ClassID,
			WeekOffset:  r.WeekOffset,
			TeacherID:   r.TeacherID,
			RoomID:      r.RoomID,
			SubjectID:   r.SubjectID,
			ClassName:   r.ClassName,
			SubjectName: r.SubjectName,
			TeacherName: r.TeacherName,
			RoomName:    r.RoomName,
			PeriodName:  r.PeriodName,
		})
	}
	return out, nil
}

func (s *GormStore) CountSlots(ctx context.Context, schoolID, termID uuid.UUID) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&model.TimetableSlotModel{}).
		Where("timetable_slot_school_id = ? AND timetable_slot_term_id = ?", schoolID, termID).
		Count(&n).Error
	return n, err
}

/* =========================
   Legacy + katalog
========================= */

type legacyRow struct {
	ClassID   uuid.UUID  `gorm:"column:class_id"`
	ClassName string     `gorm:"column:class_name"`
	TeacherID *uuid.UUID `gorm:"column:teacher_id"`
	RoomID    *uuid.UUID `gorm:"column:room_id"`
	StartTime dbtime.Tod `gorm:"column:start_time"`
	EndTime   dbtime.Tod `gorm:"column:end_time"`
}

// ListLegacyClasses: class yang punya rentang start→end period (tanpa slot)
func (s *GormStore) ListLegacyClasses(ctx context.Context, schoolID, termID uuid.UUID) ([]service.LegacyClass, error) {
	var rows []legacyRow
	err := s.DB.WithContext(ctx).
		Table("teaching_classes AS c").
		Joins("JOIN periods ps ON ps.period_id = c.teaching_class_start_period_id").
		Joins("JOIN periods pe ON pe.period_id = c.teaching_class_end_period_id").
		Where("c.teaching_class_school_id = ? AND c.teaching_class_term_id = ?", schoolID, termID).
		Select(`
			c.teaching_class_id                 AS class_id,
			c.teaching_class_name               AS class_name,
			c.teaching_class_default_teacher_id AS teacher_id,
			c.teaching_class_default_room_id    AS room_id,
			ps.period_start_time                AS start_time,
			pe.period_end_time                  AS end_time`).
		Order("c.teaching_class_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]service.LegacyClass, 0, len(rows))
	for _, r := range rows {
		out = append(out, service.LegacyClass{
			ClassID:   r.ClassID,
			ClassName: r.ClassName,
			TeacherID: r.TeacherID,
			RoomID:    r.RoomID,
			Start:     r.StartTime.SinceMidnight(),
			End:       r.EndTime.SinceMidnight(),
		})
	}
	return out, nil
}

func (s *GormStore) ListCatalog(ctx context.Context, schoolID, termID uuid.UUID) (service.Catalog, error) {
	cat := service.Catalog{
		Rooms:    []service.CatalogItem{},
		Teachers: []service.CatalogItem{},
		Classes:  []service.CatalogItem{},
	}
	db := s.DB.WithContext(ctx)

	if err := db.Model(&model.ClassroomModel{}).
		Select("classroom_id AS id, classroom_name AS name").
		Where("classroom_school_id = ?", schoolID).
		Order("classroom_name ASC").
		Scan(&cat.Rooms).Error; err != nil {
		return cat, err
	}
	if err := db.Model(&model.TeacherModel{}).
		Select("teacher_id AS id, teacher_name AS name").
		Where("teacher_school_id = ?", schoolID).
		Order("teacher_name ASC").
		Scan(&cat.Teachers).Error; err != nil {
		return cat, err
	}
	if err := db.Model(&model.TeachingClassModel{}).
		Select("teaching_class_id AS id, teaching_class_name AS name").
		Where("teaching_class_school_id = ? AND teaching_class_term_id = ?", schoolID, termID).
		Order("teaching_class_name ASC").
		Scan(&cat.Classes).Error; err != nil {
		return cat, err
	}
	return cat, nil
}
