package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolved(class uuid.UUID, name string, day int, period uuid.UUID, week int, teacher, room *uuid.UUID) ResolvedSlot {
	return ResolvedSlot{
		SlotID:     uuid.New(),
		DayOfWeek:  day,
		PeriodID:   period,
		ClassID:    class,
		ClassName:  name,
		WeekOffset: week,
		TeacherID:  teacher,
		RoomID:     room,
	}
}

func TestDetectSlotConflicts_SharedTeacherSameCell(t *testing.T) {
	p := uuid.New()
	teacher := uuid.New()
	a, b := uuid.New(), uuid.New()

	out := DetectSlotConflicts([]ResolvedSlot{
		resolved(a, "7A", 0, p, 0, &teacher, nil),
		resolved(b, "7B", 0, p, 0, &teacher, nil),
	})

	require.Len(t, out, 1)
	c := out[0]
	assert.Equal(t, ConflictTeacher, c.Type)
	assert.Equal(t, StrategySlots, c.Strategy)
	assert.Equal(t, teacher, *c.TeacherID)
	assert.Nil(t, c.RoomID)
	assert.ElementsMatch(t, []uuid.UUID{a, b}, []uuid.UUID{c.ClassAID, c.ClassBID})
	assert.Equal(t, 0, *c.DayOfWeek)
	assert.Equal(t, p, *c.PeriodID)
	assert.Equal(t, 0, *c.WeekOffset)
}

func TestDetectSlotConflicts_ThreeWayReportsAgainstFirst(t *testing.T) {
	p := uuid.New()
	room := uuid.New()
	slots := []ResolvedSlot{
		resolved(uuid.New(), "7A", 1, p, 0, nil, &room),
		resolved(uuid.New(), "7B", 1, p, 0, nil, &room),
		resolved(uuid.New(), "7C", 1, p, 0, nil, &room),
	}

	out := DetectSlotConflicts(slots)
	require.Len(t, out, 2)
	for _, c := range out {
		assert.Equal(t, ConflictRoom, c.Type)
		assert.Equal(t, room, *c.RoomID)
	}
	// pasangan selalu terhadap slot pertama (urut class id)
	assert.Equal(t, out[0].ClassAID, out[1].ClassAID)
	assert.NotEqual(t, out[0].ClassBID, out[1].ClassBID)
}

func TestDetectSlotConflicts_TeacherAndRoomBothReported(t *testing.T) {
	p := uuid.New()
	teacher, room := uuid.New(), uuid.New()
	out := DetectSlotConflicts([]ResolvedSlot{
		resolved(uuid.New(), "7A", 2, p, 0, &teacher, &room),
		resolved(uuid.New(), "7B", 2, p, 0, &teacher, &room),
	})
	require.Len(t, out, 2)
	types := []ConflictType{out[0].Type, out[1].Type}
	assert.ElementsMatch(t, []ConflictType{ConflictTeacher, ConflictRoom}, types)
}

func TestDetectSlotConflicts_NoConflictAcrossCells(t *testing.T) {
	p1, p2 := uuid.New(), uuid.New()
	teacher := uuid.New()
	out := DetectSlotConflicts([]ResolvedSlot{
		resolved(uuid.New(), "7A", 0, p1, 0, &teacher, nil),
		resolved(uuid.New(), "7B", 0, p2, 0, &teacher, nil), // period beda
		resolved(uuid.New(), "7C", 1, p1, 0, &teacher, nil), // hari beda
		resolved(uuid.New(), "7D", 0, p1, 1, &teacher, nil), // minggu beda
	})
	assert.Empty(t, out)
}

func TestDetectSlotConflicts_NullResourcesNeverCollide(t *testing.T) {
	p := uuid.New()
	out := DetectSlotConflicts([]ResolvedSlot{
		resolved(uuid.New(), "7A", 0, p, 0, nil, nil),
		resolved(uuid.New(), "7B", 0, p, 0, nil, nil),
	})
	assert.Empty(t, out)
	assert.NotNil(t, out)
}

func TestDetectSlotConflicts_OrderIndependent(t *testing.T) {
	p := uuid.New()
	teacher := uuid.New()
	a := resolved(uuid.New(), "7A", 0, p, 0, &teacher, nil)
	b := resolved(uuid.New(), "7B", 0, p, 0, &teacher, nil)

	x := DetectSlotConflicts([]ResolvedSlot{a, b})
	y := DetectSlotConflicts([]ResolvedSlot{b, a})
	assert.Equal(t, x, y)
}

func legacy(class uuid.UUID, start, end string, teacher, room *uuid.UUID) LegacyClass {
	parse := func(s string) time.Duration {
		tt, err := time.Parse("15:04", s)
		if err != nil {
			panic(err)
		}
		return time.Duration(tt.Hour())*time.Hour + time.Duration(tt.Minute())*time.Minute
	}
	return LegacyClass{ClassID: class, ClassName: class.String()[:4], TeacherID: teacher, RoomID: room, Start: parse(start), End: parse(end)}
}

func TestDetectLegacyConflicts_OverlapSharedTeacher(t *testing.T) {
	teacher := uuid.New()
	out := DetectLegacyConflicts([]LegacyClass{
		legacy(uuid.New(), "08:00", "09:00", &teacher, nil),
		legacy(uuid.New(), "08:30", "09:30", &teacher, nil),
	})
	require.Len(t, out, 1)
	assert.Equal(t, ConflictTeacher, out[0].Type)
	assert.Equal(t, StrategyLegacy, out[0].Strategy)
	assert.Nil(t, out[0].SlotAID)
	assert.Nil(t, out[0].DayOfWeek)
}

func TestDetectLegacyConflicts_TouchingIntervalsDoNotOverlap(t *testing.T) {
	room := uuid.New()
	out := DetectLegacyConflicts([]LegacyClass{
		legacy(uuid.New(), "08:00", "09:00", nil, &room),
		legacy(uuid.New(), "09:00", "10:00", nil, &room),
	})
	assert.Empty(t, out)
}

func TestDetectLegacyConflicts_OverlapDifferentResources(t *testing.T) {
	t1, t2 := uuid.New(), uuid.New()
	out := DetectLegacyConflicts([]LegacyClass{
		legacy(uuid.New(), "08:00", "10:00", &t1, nil),
		legacy(uuid.New(), "09:00", "11:00", &t2, nil),
	})
	assert.Empty(t, out)
}

func TestConflictDetector_PicksStrategy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := ConflictDetector{Store: f.store}

	// belum ada slot → legacy
	teacher := f.Teacher1
	f.store.legacy = []LegacyClass{
		legacy(f.ClassA, "07:00", "08:20", &teacher, nil),
		legacy(f.ClassB, "07:40", "09:20", &teacher, nil),
	}
	rep, err := d.Detect(ctx, f.School, f.Term)
	require.NoError(t, err)
	assert.Equal(t, StrategyLegacy, rep.Strategy)
	assert.Len(t, rep.Conflicts, 1)

	// satu slot saja sudah cukup untuk pindah ke strategy slots
	f.put(f.ClassA, 0, f.P1, 0, nil, nil)
	rep, err = d.Detect(ctx, f.School, f.Term)
	require.NoError(t, err)
	assert.Equal(t, StrategySlots, rep.Strategy)
	assert.Empty(t, rep.Conflicts)
}

func TestConflictDetector_InheritedTeacherCollides(t *testing.T) {
	f := newFixture(t)
	// 7A & 7B tidak override teacher → dua-duanya Teacher1
	f.put(f.ClassA, 0, f.P1, 0, nil, nil)
	f.put(f.ClassB, 0, f.P1, 0, nil, nil)

	rep, err := ConflictDetector{Store: f.store}.Detect(context.Background(), f.School, f.Term)
	require.NoError(t, err)
	require.Len(t, rep.Conflicts, 1)
	assert.Equal(t, ConflictTeacher, rep.Conflicts[0].Type)
	assert.Equal(t, "Bu Sari", rep.Conflicts[0].ResourceName)
	assert.Equal(t, "Jam 1", rep.Conflicts[0].PeriodName)
}
