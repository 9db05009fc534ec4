package timetables

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	model "timetable_backend/internals/features/school/timetables/model"
	"timetable_backend/internals/helpers/dbtime"
)

type namedSeed struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type TimetableSeed struct {
	SchoolID     uuid.UUID `json:"school_id"`
	AcademicYear namedSeed `json:"academic_year"`
	Term         struct {
		ID        uuid.UUID `json:"id"`
		Name      string    `json:"name"`
		StartDate string    `json:"start_date"`
		EndDate   string    `json:"end_date"`
	} `json:"term"`
	Periods []struct {
		ID      uuid.UUID `json:"id"`
		Ordinal int       `json:"ordinal"`
		Name    string    `json:"name"`
		Start   string    `json:"start"`
		End     string    `json:"end"`
	} `json:"periods"`
	Rooms []struct {
		ID       uuid.UUID `json:"id"`
		Name     string    `json:"name"`
		Capacity *int      `json:"capacity"`
	} `json:"rooms"`
	Teachers []namedSeed `json:"teachers"`
	Subjects []namedSeed `json:"subjects"`
	Classes  []struct {
		ID        uuid.UUID  `json:"id"`
		Name      string     `json:"name"`
		SubjectID uuid.UUID  `json:"subject_id"`
		TeacherID *uuid.UUID `json:"teacher_id"`
		RoomID    *uuid.UUID `json:"room_id"`
	} `json:"classes"`
	WeekConfig *struct {
		WorkingDays      []int64 `json:"working_days"`
		LunchAfterPeriod *int    `json:"lunch_after_period"`
	} `json:"week_config"`
	Slots []struct {
		ClassID    uuid.UUID  `json:"class_id"`
		DayOfWeek  int        `json:"day_of_week"`
		PeriodID   uuid.UUID  `json:"period_id"`
		WeekOffset int        `json:"week_offset"`
		TeacherID  *uuid.UUID `json:"teacher_id"`
		RoomID     *uuid.UUID `json:"room_id"`
	} `json:"slots"`
}

func LoadTimetableSeed(filePath string) (*TimetableSeed, error) {
	file, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("baca seed %s: %w", filePath, err)
	}
	var s TimetableSeed
	if err := sonic.Unmarshal(file, &s); err != nil {
		return nil, fmt.Errorf("decode seed %s: %w", filePath, err)
	}
	return &s, nil
}

func SeedTimetableFromJSON(db *gorm.DB, filePath string) error {
	log.Println("📥 Membaca file:", filePath)
	s, err := LoadTimetableSeed(filePath)
	if err != nil {
		return err
	}
	return SeedTimetable(db, s)
}

// SeedTimetable: idempotent (ON CONFLICT DO NOTHING), aman dijalankan ulang
func SeedTimetable(db *gorm.DB, s *TimetableSeed) error {
	start, err := time.Parse("2006-01-02", s.Term.StartDate)
	if err != nil {
		return fmt.Errorf("term start_date: %w", err)
	}
	end, err := time.Parse("2006-01-02", s.Term.EndDate)
	if err != nil {
		return fmt.Errorf("term end_date: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		ins := tx.Clauses(clause.OnConflict{DoNothing: true}).Session(&gorm.Session{})

		if err := ins.Create(&model.AcademicYearModel{
			AcademicYearID:       s.AcademicYear.ID,
			AcademicYearSchoolID: s.SchoolID,
			AcademicYearName:     s.AcademicYear.Name,
		}).Error; err != nil {
			return err
		}
		if err := ins.Create(&model.AcademicTermModel{
			AcademicTermID:             s.Term.ID,
			AcademicTermSchoolID:       s.SchoolID,
			AcademicTermAcademicYearID: s.AcademicYear.ID,
			AcademicTermName:           s.Term.Name,
			AcademicTermStartDate:      start,
			AcademicTermEndDate:        end,
			AcademicTermIsActive:       true,
		}).Error; err != nil {
			return err
		}

		for _, p := range s.Periods {
			st, err := dbtime.Parse(p.Start)
			if err != nil {
				return fmt.Errorf("period %s start: %w", p.Name, err)
			}
			en, err := dbtime.Parse(p.End)
			if err != nil {
				return fmt.Errorf("period %s end: %w", p.Name, err)
			}
			if err := ins.Create(&model.PeriodModel{
				PeriodID:             p.ID,
				PeriodSchoolID:       s.SchoolID,
				PeriodAcademicYearID: s.AcademicYear.ID,
				PeriodOrdinal:        p.Ordinal,
				PeriodName:           p.Name,
				PeriodStartTime:      st,
				PeriodEndTime:        en,
			}).Error; err != nil {
				return err
			}
		}

		for _, r := range s.Rooms {
			if err := ins.Create(&model.ClassroomModel{
				ClassroomID:       r.ID,
				ClassroomSchoolID: s.SchoolID,
				ClassroomName:     r.Name,
				ClassroomCapacity: r.Capacity,
			}).Error; err != nil {
				return err
			}
		}
		for _, t := range s.Teachers {
			if err := ins.Create(&model.TeacherModel{
				TeacherID: t.ID, TeacherSchoolID: s.SchoolID, TeacherName: t.Name,
			}).Error; err != nil {
				return err
			}
		}
		for _, sub := range s.Subjects {
			if err := ins.Create(&model.SubjectModel{
				SubjectID: sub.ID, SubjectSchoolID: s.SchoolID, SubjectName: sub.Name,
			}).Error; err != nil {
				return err
			}
		}
		for _, c := range s.Classes {
			if err := ins.Create(&model.TeachingClassModel{
				TeachingClassID:               c.ID,
				TeachingClassSchoolID:         s.SchoolID,
				TeachingClassTermID:           s.Term.ID,
				TeachingClassName:             c.Name,
				TeachingClassSubjectID:        c.SubjectID,
				TeachingClassDefaultTeacherID: c.TeacherID,
				TeachingClassDefaultRoomID:    c.RoomID,
			}).Error; err != nil {
				return err
			}
		}

		if s.WeekConfig != nil {
			var n int64
			if err := tx.Model(&model.SchoolWeekConfigModel{}).
				Where("school_week_config_school_id = ? AND school_week_config_term_id IS NULL", s.SchoolID).
				Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				if err := tx.Create(&model.SchoolWeekConfigModel{
					SchoolWeekConfigSchoolID:         s.SchoolID,
					SchoolWeekConfigWorkingDays:      pq.Int64Array(s.WeekConfig.WorkingDays),
					SchoolWeekConfigLunchAfterPeriod: s.WeekConfig.LunchAfterPeriod,
				}).Error; err != nil {
					return err
				}
			}
		}

		for _, sl := range s.Slots {
			if err := ins.Create(&model.TimetableSlotModel{
				TimetableSlotSchoolID:   s.SchoolID,
				TimetableSlotTermID:     s.Term.ID,
				TimetableSlotDayOfWeek:  sl.DayOfWeek,
				TimetableSlotPeriodID:   sl.PeriodID,
				TimetableSlotClassID:    sl.ClassID,
				TimetableSlotWeekOffset: sl.WeekOffset,
				TimetableSlotTeacherID:  sl.TeacherID,
				TimetableSlotRoomID:     sl.RoomID,
			}).Error; err != nil {
				return err
			}
		}

		log.Printf("✅ Seed timetable: %d period, %d class, %d slot (school %s)",
			len(s.Periods), len(s.Classes), len(s.Slots), s.SchoolID)
		return nil
	})
}
