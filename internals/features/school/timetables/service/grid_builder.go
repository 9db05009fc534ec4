// file: internals/features/school/timetables/service/grid_builder.go
package service

import (
	"time"

	"github.com/google/uuid"

	model "timetable_backend/internals/features/school/timetables/model"
)

// GridView: maksimal satu yang terisi; semua nil = view admin tanpa filter.
type GridView struct {
	ClassID   *uuid.UUID `json:"class_id,omitempty"`
	TeacherID *uuid.UUID `json:"teacher_id,omitempty"`
	RoomID    *uuid.UUID `json:"room_id,omitempty"`
}

func (v GridView) count() int {
	n := 0
	for _, p := range []*uuid.UUID{v.ClassID, v.TeacherID, v.RoomID} {
		if p != nil {
			n++
		}
	}
	return n
}

type GridInput struct {
	TermID     uuid.UUID
	WeekOffset int
	View       GridView
}

type GridPeriod struct {
	PeriodID  uuid.UUID `json:"period_id"`
	Ordinal   int       `json:"ordinal"`
	Name      string    `json:"name"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	IsBreak   bool      `json:"is_break"`
}

type GridEntry struct {
	SlotID      uuid.UUID  `json:"slot_id"`
	ClassID     uuid.UUID  `json:"class_id"`
	ClassName   string     `json:"class_name"`
	SubjectID   *uuid.UUID `json:"subject_id,omitempty"`
	SubjectName string     `json:"subject_name"`
	TeacherID   *uuid.UUID `json:"teacher_id,omitempty"`
	TeacherName string     `json:"teacher_name"`
	RoomID      *uuid.UUID `json:"room_id,omitempty"`
	RoomName    string     `json:"room_name"`
	InConflict  bool       `json:"in_conflict"`
}

// GridCell: Empty=true berarti sel kosong (marker eksplisit)
type GridCell struct {
	PeriodID    uuid.UUID   `json:"period_id"`
	Empty       bool        `json:"empty"`
	HasConflict bool        `json:"has_conflict"`
	Entries     []GridEntry `json:"entries"`
}

type GridRow struct {
	DayOfWeek int        `json:"day_of_week"`
	Cells     []GridCell `json:"cells"`
}

type WeeklyGrid struct {
	TermID           uuid.UUID    `json:"term_id"`
	WeekOffset       int          `json:"week_offset"`
	View             GridView     `json:"view"`
	Days             []int        `json:"days"`
	Periods          []GridPeriod `json:"periods"`
	Rows             []GridRow    `json:"rows"`
	LunchAfterPeriod *int         `json:"lunch_after_period"`
	GeneratedAt      time.Time    `json:"generated_at"`
}

// BuildWeeklyGrid: index slot O(slots), lalu matriks hari × period.
// Slot di luar week offset / hari kerja / katalog period diabaikan.
// conflicts boleh dari set slot yang lebih luas; sel ditandai kalau slot-nya ikut konflik.
func BuildWeeklyGrid(
	termID uuid.UUID,
	weekOffset int,
	view GridView,
	cfg WeekConfig,
	periods []model.PeriodModel,
	slots []ResolvedSlot,
	conflicts []Conflict,
	now time.Time,
) WeeklyGrid {
	conflicted := make(map[uuid.UUID]bool)
	for _, c := range conflicts {
		if c.SlotAID != nil {
			conflicted[*c.SlotAID] = true
		}
		if c.SlotBID != nil {
			conflicted[*c.SlotBID] = true
		}
	}

	index := make(map[dayPeriodKey][]GridEntry, len(slots))
	for _, s := range slots {
		if s.WeekOffset != weekOffset {
			continue
		}
		k := dayPeriodKey{DayOfWeek: s.DayOfWeek, PeriodID: s.PeriodID}
		index[k] = append(index[k], GridEntry{
			SlotID:      s.SlotID,
			ClassID:     s.ClassID,
			ClassName:   s.ClassName,
			SubjectID:   s.SubjectID,
			SubjectName: s.SubjectName,
			TeacherID:   s.TeacherID,
			TeacherName: s.TeacherName,
			RoomID:      s.RoomID,
			RoomName:    s.RoomName,
			InConflict:  conflicted[s.SlotID],
		})
	}

	cols := make([]GridPeriod, 0, len(periods))
	for _, p := range periods {
		cols = append(cols, GridPeriod{
			PeriodID:  p.PeriodID,
			Ordinal:   p.PeriodOrdinal,
			Name:      p.PeriodName,
			StartTime: p.PeriodStartTime.HHMM(),
			EndTime:   p.PeriodEndTime.HHMM(),
			IsBreak:   p.IsBreak(),
		})
	}

	days := make([]int, len(cfg.WorkingDays))
	copy(days, cfg.WorkingDays)

	rows := make([]GridRow, 0, len(days))
	for _, d := range days {
		row := GridRow{DayOfWeek: d, Cells: make([]GridCell, 0, len(periods))}
		for _, p := range periods {
			entries := index[dayPeriodKey{DayOfWeek: d, PeriodID: p.PeriodID}]
			cell := GridCell{PeriodID: p.PeriodID, Empty: len(entries) == 0, Entries: entries}
			if cell.Entries == nil {
				cell.Entries = []GridEntry{}
			}
			for _, e := range entries {
				if e.InConflict {
					cell.HasConflict = true
					break
				}
			}
			row.Cells = append(row.Cells, cell)
		}
		rows = append(rows, row)
	}

	return WeeklyGrid{
		TermID:           termID,
		WeekOffset:       weekOffset,
		View:             view,
		Days:             days,
		Periods:          cols,
		Rows:             rows,
		LunchAfterPeriod: cfg.LunchAfterPeriod,
		GeneratedAt:      now,
	}
}
