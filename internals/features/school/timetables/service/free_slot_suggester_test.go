package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "timetable_backend/internals/features/school/timetables/model"
)

func threePeriods() []model.PeriodModel {
	school, year := uuid.New(), uuid.New()
	return []model.PeriodModel{
		testPeriod(school, year, uuid.New(), 1, "Jam 1", "07:00", "07:40"),
		testPeriod(school, year, uuid.New(), 2, "Jam 2", "07:40", "08:20"),
		testPeriod(school, year, uuid.New(), 3, "Jam 3", "08:20", "09:00"),
	}
}

func TestBuildUniverse_DefaultsToWorkingDaysAndCatalog(t *testing.T) {
	periods := threePeriods()
	cfg := WeekConfig{WorkingDays: []int{0, 1, 2}}

	days, ps, err := BuildUniverse(cfg, periods, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, days)
	assert.Len(t, ps, 3)
}

func TestBuildUniverse_PreferredKeepsCatalogOrder(t *testing.T) {
	periods := threePeriods()
	cfg := WeekConfig{WorkingDays: []int{0, 1, 2, 3, 4}}

	days, ps, err := BuildUniverse(cfg, periods, []int{4, 1, 4}, []uuid.UUID{periods[2].PeriodID, periods[0].PeriodID})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 4}, days)
	require.Len(t, ps, 2)
	assert.Equal(t, periods[0].PeriodID, ps[0].PeriodID)
	assert.Equal(t, periods[2].PeriodID, ps[1].PeriodID)
}

func TestBuildUniverse_UnknownPeriodRejected(t *testing.T) {
	_, _, err := BuildUniverse(WeekConfig{WorkingDays: []int{0}}, threePeriods(), nil, []uuid.UUID{uuid.New()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "preferred_period_ids", e.Field)
}

func TestBuildUniverse_DayOutOfRange(t *testing.T) {
	_, _, err := BuildUniverse(WeekConfig{WorkingDays: []int{0}}, threePeriods(), []int{7}, nil)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestSuggestFreeSlots_ComplementOfOccupied(t *testing.T) {
	periods := threePeriods()
	taken := []ResolvedSlot{
		{DayOfWeek: 0, PeriodID: periods[0].PeriodID},
		{DayOfWeek: 1, PeriodID: periods[2].PeriodID},
	}
	other := []ResolvedSlot{{DayOfWeek: 0, PeriodID: periods[1].PeriodID}}

	out := SuggestFreeSlots([]int{0, 1}, periods, OccupiedCells(taken, other))
	require.Len(t, out, 3)
	assert.Equal(t, DayPeriod{DayOfWeek: 0, PeriodID: periods[2].PeriodID, PeriodName: "Jam 3", PeriodOrdinal: 3}, out[0])
	assert.Equal(t, 1, out[1].DayOfWeek)
	assert.Equal(t, periods[0].PeriodID, out[1].PeriodID)
	assert.Equal(t, periods[1].PeriodID, out[2].PeriodID)
}

func TestSuggestFreeSlots_EverythingTaken(t *testing.T) {
	periods := threePeriods()[:1]
	occ := OccupiedCells([]ResolvedSlot{{DayOfWeek: 3, PeriodID: periods[0].PeriodID}})
	out := SuggestFreeSlots([]int{3}, periods, occ)
	assert.Empty(t, out)
	assert.NotNil(t, out)
}
