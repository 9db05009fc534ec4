// file: internals/features/school/timetables/service/free_slot_suggester.go
package service

import (
	"sort"

	"github.com/google/uuid"

	model "timetable_backend/internals/features/school/timetables/model"
)

type SuggestInput struct {
	TermID             uuid.UUID
	TeacherID          *uuid.UUID
	ClassID            *uuid.UUID
	PreferredDays      []int
	PreferredPeriodIDs []uuid.UUID
	// nil = slot di minggu mana pun dianggap terisi
	WeekOffset *int
}

type DayPeriod struct {
	DayOfWeek     int       `json:"day_of_week"`
	PeriodID      uuid.UUID `json:"period_id"`
	PeriodName    string    `json:"period_name"`
	PeriodOrdinal int       `json:"period_ordinal"`
}

type dayPeriodKey struct {
	DayOfWeek int
	PeriodID  uuid.UUID
}

// BuildUniverse: (hari preferensi atau hari kerja) × (period preferensi atau
// semua period katalog). Period tetap urut katalog.
func BuildUniverse(cfg WeekConfig, periods []model.PeriodModel, preferredDays []int, preferredPeriods []uuid.UUID) ([]int, []model.PeriodModel, error) {
	days := cfg.WorkingDays
	if len(preferredDays) > 0 {
		seen := make(map[int]bool, len(preferredDays))
		days = make([]int, 0, len(preferredDays))
		for _, d := range preferredDays {
			if d < 0 || d > 6 {
				return nil, nil, validationError("preferred_days", "day_of_week harus 0..6")
			}
			if !seen[d] {
				seen[d] = true
				days = append(days, d)
			}
		}
		sort.Ints(days)
	}

	if len(preferredPeriods) == 0 {
		return days, periods, nil
	}
	want := make(map[uuid.UUID]bool, len(preferredPeriods))
	for _, id := range preferredPeriods {
		want[id] = true
	}
	picked := make([]model.PeriodModel, 0, len(preferredPeriods))
	for _, p := range periods {
		if want[p.PeriodID] {
			picked = append(picked, p)
			delete(want, p.PeriodID)
		}
	}
	if len(want) > 0 {
		return nil, nil, validationError("preferred_period_ids", "period tidak ada di katalog tahun ajaran term ini")
	}
	return days, picked, nil
}

// OccupiedCells: set (day, period) yang sudah terisi
func OccupiedCells(slots ...[]ResolvedSlot) map[dayPeriodKey]struct{} {
	occ := make(map[dayPeriodKey]struct{})
	for _, list := range slots {
		for _, s := range list {
			occ[dayPeriodKey{DayOfWeek: s.DayOfWeek, PeriodID: s.PeriodID}] = struct{}{}
		}
	}
	return occ
}

// SuggestFreeSlots: komplemen universe terhadap set terisi, urut hari lalu period.
func SuggestFreeSlots(days []int, periods []model.PeriodModel, occupied map[dayPeriodKey]struct{}) []DayPeriod {
	out := make([]DayPeriod, 0, len(days)*len(periods))
	for _, d := range days {
		for _, p := range periods {
			if _, taken := occupied[dayPeriodKey{DayOfWeek: d, PeriodID: p.PeriodID}]; taken {
				continue
			}
			out = append(out, DayPeriod{
				DayOfWeek:     d,
				PeriodID:      p.PeriodID,
				PeriodName:    p.PeriodName,
				PeriodOrdinal: p.PeriodOrdinal,
			})
		}
	}
	return out
}
