package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "timetable_backend/internals/features/school/timetables/model"
)

func weekRow(termID *uuid.UUID, lunch *int, days ...int64) model.SchoolWeekConfigModel {
	return model.SchoolWeekConfigModel{
		SchoolWeekConfigID:               uuid.New(),
		SchoolWeekConfigTermID:           termID,
		SchoolWeekConfigWorkingDays:      pq.Int64Array(days),
		SchoolWeekConfigLunchAfterPeriod: lunch,
	}
}

func TestPickWeekConfig_DefaultWhenNoRows(t *testing.T) {
	cfg := PickWeekConfig(nil, nil)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, cfg.WorkingDays)
	assert.Equal(t, ConfigSourceDefault, cfg.Source)
	assert.Nil(t, cfg.LunchAfterPeriod)
}

func TestPickWeekConfig_TermBeatsSchool(t *testing.T) {
	term := uuid.New()
	rows := []model.SchoolWeekConfigModel{
		weekRow(nil, ptr(3), 0, 1, 2, 3, 4, 5),
		weekRow(&term, ptr(4), 0, 1, 2, 3),
	}
	cfg := PickWeekConfig(rows, &term)
	assert.Equal(t, ConfigSourceTerm, cfg.Source)
	assert.Equal(t, []int{0, 1, 2, 3}, cfg.WorkingDays)
	require.NotNil(t, cfg.LunchAfterPeriod)
	assert.Equal(t, 4, *cfg.LunchAfterPeriod)
}

func TestPickWeekConfig_SchoolFallback(t *testing.T) {
	term, other := uuid.New(), uuid.New()
	rows := []model.SchoolWeekConfigModel{
		weekRow(&other, nil, 6),
		weekRow(nil, nil, 0, 1, 2, 3, 4, 5),
	}
	cfg := PickWeekConfig(rows, &term)
	assert.Equal(t, ConfigSourceSchool, cfg.Source)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, cfg.WorkingDays)
}

func TestPickWeekConfig_InvalidDaysNormalized(t *testing.T) {
	rows := []model.SchoolWeekConfigModel{weekRow(nil, nil, 4, 2, 9, 2, -1, 0)}
	cfg := PickWeekConfig(rows, nil)
	assert.Equal(t, []int{0, 2, 4}, cfg.WorkingDays)
}

func TestPickWeekConfig_EmptyTermRowFallsThrough(t *testing.T) {
	term := uuid.New()
	rows := []model.SchoolWeekConfigModel{
		weekRow(&term, nil, 8, 9),
		weekRow(nil, nil, 1, 2),
	}
	cfg := PickWeekConfig(rows, &term)
	assert.Equal(t, ConfigSourceSchool, cfg.Source)
	assert.Equal(t, []int{1, 2}, cfg.WorkingDays)
}

func TestDefaultWeekConfig_ReturnsCopy(t *testing.T) {
	a := DefaultWeekConfig()
	a.WorkingDays[0] = 6
	b := DefaultWeekConfig()
	assert.Equal(t, 0, b.WorkingDays[0])
}

func TestConfigResolver_ReadsStore(t *testing.T) {
	f := newFixture(t)
	f.putWeekConfig(nil, 0, 1, 2, 3, 4, 5)

	cfg, err := ConfigResolver{Store: f.store}.Resolve(context.Background(), f.School, &f.Term)
	require.NoError(t, err)
	assert.Equal(t, ConfigSourceSchool, cfg.Source)
	assert.Len(t, cfg.WorkingDays, 6)
}
