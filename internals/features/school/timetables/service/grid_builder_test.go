package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "timetable_backend/internals/features/school/timetables/model"
)

func TestBuildWeeklyGrid_ShapeAndEmptyCells(t *testing.T) {
	periods := threePeriods()
	term := uuid.New()
	cfg := WeekConfig{WorkingDays: []int{0, 2}, LunchAfterPeriod: ptr(2)}

	slots := []ResolvedSlot{
		resolved(uuid.New(), "7A", 0, periods[1].PeriodID, 0, nil, nil),
		resolved(uuid.New(), "7B", 5, periods[1].PeriodID, 0, nil, nil), // bukan hari kerja
		resolved(uuid.New(), "7C", 2, periods[0].PeriodID, 1, nil, nil), // minggu lain
	}

	g := BuildWeeklyGrid(term, 0, GridView{}, cfg, periods, slots, nil, fixedNow)

	assert.Equal(t, term, g.TermID)
	assert.Equal(t, []int{0, 2}, g.Days)
	require.Len(t, g.Rows, 2)
	require.Len(t, g.Periods, 3)
	assert.Equal(t, "07:00", g.Periods[0].StartTime)
	assert.Equal(t, "07:40", g.Periods[0].EndTime)
	assert.Equal(t, 2, *g.LunchAfterPeriod)
	assert.Equal(t, fixedNow, g.GeneratedAt)

	monday := g.Rows[0]
	require.Len(t, monday.Cells, 3)
	assert.True(t, monday.Cells[0].Empty)
	assert.NotNil(t, monday.Cells[0].Entries)
	assert.False(t, monday.Cells[1].Empty)
	assert.Equal(t, "7A", monday.Cells[1].Entries[0].ClassName)

	// slot minggu 1 tidak muncul di grid minggu 0
	for _, c := range g.Rows[1].Cells {
		assert.True(t, c.Empty)
	}
}

func TestBuildWeeklyGrid_MarksConflictedCells(t *testing.T) {
	periods := threePeriods()
	teacher := uuid.New()
	a := resolved(uuid.New(), "7A", 0, periods[0].PeriodID, 0, &teacher, nil)
	b := resolved(uuid.New(), "7B", 0, periods[0].PeriodID, 0, &teacher, nil)
	c := resolved(uuid.New(), "7C", 0, periods[1].PeriodID, 0, nil, nil)

	all := []ResolvedSlot{a, b, c}
	conflicts := DetectSlotConflicts(all)

	// view hanya 7A, tapi konflik dihitung dari semua slot
	g := BuildWeeklyGrid(uuid.New(), 0, GridView{ClassID: &a.ClassID}, WeekConfig{WorkingDays: []int{0}}, periods, []ResolvedSlot{a}, conflicts, fixedNow)

	cell := g.Rows[0].Cells[0]
	assert.True(t, cell.HasConflict)
	require.Len(t, cell.Entries, 1)
	assert.True(t, cell.Entries[0].InConflict)
	assert.False(t, g.Rows[0].Cells[1].HasConflict)
}

func TestBuildWeeklyGrid_BreakPeriodFlag(t *testing.T) {
	school, year := uuid.New(), uuid.New()
	periods := []model.PeriodModel{
		testPeriod(school, year, uuid.New(), 1, "Jam 1", "07:00", "07:40"),
		testPeriod(school, year, uuid.New(), 2, "Istirahat", "07:40", "08:00"),
	}
	g := BuildWeeklyGrid(uuid.New(), 0, GridView{}, WeekConfig{WorkingDays: []int{1}}, periods, nil, nil, fixedNow)
	assert.False(t, g.Periods[0].IsBreak)
	assert.True(t, g.Periods[1].IsBreak)
}

func TestGridView_Count(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, 0, GridView{}.count())
	assert.Equal(t, 1, GridView{RoomID: &id}.count())
	assert.Equal(t, 2, GridView{ClassID: &id, TeacherID: &id}.count())
}
