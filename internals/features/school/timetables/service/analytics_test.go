package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "timetable_backend/internals/features/school/timetables/model"
)

func TestAggregate_WorkloadUtilizationAndSummary(t *testing.T) {
	school, year := uuid.New(), uuid.New()
	p1, p2, brk := uuid.New(), uuid.New(), uuid.New()
	periods := []model.PeriodModel{
		testPeriod(school, year, p1, 1, "Jam 1", "07:00", "07:40"),
		testPeriod(school, year, brk, 2, "Istirahat", "07:40", "08:00"),
		testPeriod(school, year, p2, 3, "Jam 2", "08:00", "08:40"),
	}
	// 2 hari kerja × 2 jam pelajaran = kapasitas 4
	cfg := WeekConfig{WorkingDays: []int{0, 1}}

	t1, t2 := uuid.New(), uuid.New()
	room := uuid.New()
	math, bio := uuid.New(), uuid.New()
	a, b := uuid.New(), uuid.New()

	mk := func(class uuid.UUID, day int, period uuid.UUID, teacher *uuid.UUID, teacherName string, subject uuid.UUID, subjectName string) ResolvedSlot {
		s := resolved(class, class.String(), day, period, 0, teacher, &room)
		s.TeacherName = teacherName
		s.RoomName = "Lab"
		sid := subject
		s.SubjectID = &sid
		s.SubjectName = subjectName
		return s
	}

	slots := []ResolvedSlot{
		mk(a, 0, p1, &t1, "Bu Sari", math, "Matematika"),
		mk(b, 0, p1, &t1, "Bu Sari", math, "Matematika"), // bentrok guru + ruang
		mk(a, 1, p2, &t1, "Bu Sari", bio, "Biologi"),
		mk(b, 1, brk, &t2, "Pak Budi", bio, "Biologi"), // jam istirahat, tidak dihitung utilisasi
		mk(b, 5, p1, &t2, "Pak Budi", bio, "Biologi"),  // bukan hari kerja
	}
	conflicts := DetectSlotConflicts(slots)

	rep := Aggregate(uuid.New(), cfg, periods, slots, conflicts)

	require.Len(t, rep.TeacherWorkload, 2)
	top := rep.TeacherWorkload[0]
	assert.Equal(t, t1, top.TeacherID)
	assert.Equal(t, 3, top.PeriodsPerWeek)
	assert.Equal(t, 2, top.ClassCount)
	assert.Equal(t, []string{"Biologi", "Matematika"}, top.Subjects)

	require.Len(t, rep.RoomUtilization, 1)
	ru := rep.RoomUtilization[0]
	assert.Equal(t, 2, ru.UsedSlots) // (0,p1) dan (1,p2)
	assert.Equal(t, 4, ru.AvailableSlots)
	assert.Equal(t, 50.0, ru.Percent)

	require.Len(t, rep.Subjects, 2)
	assert.Equal(t, "Biologi", rep.Subjects[0].SubjectName)
	assert.Equal(t, 3, rep.Subjects[0].PeriodsPerWeek)

	assert.Equal(t, 5, rep.Summary.TotalSlots)
	assert.Equal(t, 2, rep.Summary.DistinctTeachers)
	assert.Equal(t, 1, rep.Summary.DistinctRooms)
	assert.Equal(t, 2, rep.Summary.DistinctClasses)
	assert.Equal(t, 2, rep.Summary.ConflictCount)
}

func TestAggregate_EmptyTerm(t *testing.T) {
	rep := Aggregate(uuid.New(), DefaultWeekConfig(), nil, nil, nil)
	assert.NotNil(t, rep.TeacherWorkload)
	assert.NotNil(t, rep.RoomUtilization)
	assert.NotNil(t, rep.Subjects)
	assert.Zero(t, rep.Summary.TotalSlots)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0.0, percent(3, 0))
	assert.Equal(t, 33.33, percent(1, 3))
	assert.Equal(t, 100.0, percent(5, 5))
}
