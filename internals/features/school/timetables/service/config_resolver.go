// file: internals/features/school/timetables/service/config_resolver.go
package service

import (
	"context"
	"sort"

	"github.com/google/uuid"

	model "timetable_backend/internals/features/school/timetables/model"
)

// default kalau belum ada konfigurasi sama sekali: Senin–Jumat (0..4)
var defaultWorkingDays = []int{0, 1, 2, 3, 4}

func DefaultWeekConfig() WeekConfig {
	days := make([]int, len(defaultWorkingDays))
	copy(days, defaultWorkingDays)
	return WeekConfig{WorkingDays: days, Source: ConfigSourceDefault}
}

type ConfigResolver struct {
	Store Store
}

// Resolve: row per-term menang, lalu default sekolah (term NULL), lalu default.
func (r ConfigResolver) Resolve(ctx context.Context, schoolID uuid.UUID, termID *uuid.UUID) (WeekConfig, error) {
	rows, err := r.Store.ListWeekConfigs(ctx, schoolID, termID)
	if err != nil {
		return WeekConfig{}, storeError("gagal ambil week config", err)
	}
	return PickWeekConfig(rows, termID), nil
}

func PickWeekConfig(rows []model.SchoolWeekConfigModel, termID *uuid.UUID) WeekConfig {
	var termRow, schoolRow *model.SchoolWeekConfigModel
	for i := range rows {
		row := &rows[i]
		switch {
		case row.SchoolWeekConfigTermID == nil:
			if schoolRow == nil {
				schoolRow = row
			}
		case termID != nil && *row.SchoolWeekConfigTermID == *termID:
			if termRow == nil {
				termRow = row
			}
		}
	}

	pick := func(row *model.SchoolWeekConfigModel, source string) (WeekConfig, bool) {
		days := normalizeDays(row.SchoolWeekConfigWorkingDays)
		if len(days) == 0 {
			return WeekConfig{}, false
		}
		return WeekConfig{
			WorkingDays:      days,
			LunchAfterPeriod: row.SchoolWeekConfigLunchAfterPeriod,
			Source:           source,
		}, true
	}

	if termRow != nil {
		if cfg, ok := pick(termRow, ConfigSourceTerm); ok {
			return cfg
		}
	}
	if schoolRow != nil {
		if cfg, ok := pick(schoolRow, ConfigSourceSchool); ok {
			return cfg
		}
	}
	return DefaultWeekConfig()
}

// normalizeDays: buang nilai di luar 0..6, dedup, urutkan
func normalizeDays(raw []int64) []int {
	seen := make(map[int]bool, len(raw))
	out := make([]int, 0, len(raw))
	for _, d := range raw {
		v := int(d)
		if v < 0 || v > 6 || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}
