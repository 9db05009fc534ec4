// file: internals/features/school/timetables/service/analytics.go
package service

import (
	"math"
	"sort"

	"github.com/google/uuid"

	model "timetable_backend/internals/features/school/timetables/model"
)

type TeacherWorkload struct {
	TeacherID      uuid.UUID `json:"teacher_id"`
	TeacherName    string    `json:"teacher_name"`
	PeriodsPerWeek int       `json:"periods_per_week"`
	ClassCount     int       `json:"class_count"`
	Subjects       []string  `json:"subjects"`
}

type RoomUtilization struct {
	RoomID         uuid.UUID `json:"room_id"`
	RoomName       string    `json:"room_name"`
	UsedSlots      int       `json:"used_slots"`
	AvailableSlots int       `json:"available_slots"`
	Percent        float64   `json:"percent"`
}

type SubjectLoad struct {
	SubjectID      uuid.UUID `json:"subject_id"`
	SubjectName    string    `json:"subject_name"`
	PeriodsPerWeek int       `json:"periods_per_week"`
	ClassCount     int       `json:"class_count"`
}

type AnalyticsSummary struct {
	TotalSlots       int `json:"total_slots"`
	DistinctTeachers int `json:"distinct_teachers"`
	DistinctRooms    int `json:"distinct_rooms"`
	DistinctClasses  int `json:"distinct_classes"`
	ConflictCount    int `json:"conflict_count"`
}

type AnalyticsReport struct {
	TermID          uuid.UUID         `json:"term_id"`
	TeacherWorkload []TeacherWorkload `json:"teacher_workload"`
	RoomUtilization []RoomUtilization `json:"room_utilization"`
	Subjects        []SubjectLoad     `json:"subject_distribution"`
	Summary         AnalyticsSummary  `json:"summary"`
}

// Aggregate: semua turunan dari set slot penuh + output strategy slots.
func Aggregate(termID uuid.UUID, cfg WeekConfig, periods []model.PeriodModel, slots []ResolvedSlot, conflicts []Conflict) AnalyticsReport {
	workingDay := make(map[int]bool, len(cfg.WorkingDays))
	for _, d := range cfg.WorkingDays {
		workingDay[d] = true
	}
	teaching := make(map[uuid.UUID]bool, len(periods))
	for _, p := range periods {
		if !p.IsBreak() {
			teaching[p.PeriodID] = true
		}
	}
	capacity := len(workingDay) * len(teaching)

	type teacherAcc struct {
		name     string
		periods  int
		classes  map[uuid.UUID]bool
		subjects map[string]bool
	}
	type roomAcc struct {
		name  string
		cells map[dayPeriodKey]bool
	}
	type subjectAcc struct {
		name    string
		periods int
		classes map[uuid.UUID]bool
	}

	teachers := make(map[uuid.UUID]*teacherAcc)
	rooms := make(map[uuid.UUID]*roomAcc)
	subjects := make(map[uuid.UUID]*subjectAcc)
	classes := make(map[uuid.UUID]bool)

	for _, s := range slots {
		classes[s.ClassID] = true

		if s.TeacherID != nil {
			acc, ok := teachers[*s.TeacherID]
			if !ok {
				acc = &teacherAcc{name: s.TeacherName, classes: map[uuid.UUID]bool{}, subjects: map[string]bool{}}
				teachers[*s.TeacherID] = acc
			}
			acc.periods++
			acc.classes[s.ClassID] = true
			if s.SubjectName != "" {
				acc.subjects[s.SubjectName] = true
			}
		}

		if s.RoomID != nil {
			acc, ok := rooms[*s.RoomID]
			if !ok {
				acc = &roomAcc{name: s.RoomName, cells: map[dayPeriodKey]bool{}}
				rooms[*s.RoomID] = acc
			}
			// hanya hari kerja & jam pelajaran yang dihitung
			if workingDay[s.DayOfWeek] && teaching[s.PeriodID] {
				acc.cells[dayPeriodKey{DayOfWeek: s.DayOfWeek, PeriodID: s.PeriodID}] = true
			}
		}

		if s.SubjectID != nil {
			acc, ok := subjects[*s.SubjectID]
			if !ok {
				acc = &subjectAcc{name: s.SubjectName, classes: map[uuid.UUID]bool{}}
				subjects[*s.SubjectID] = acc
			}
			acc.periods++
			acc.classes[s.ClassID] = true
		}
	}

	report := AnalyticsReport{
		TermID:          termID,
		TeacherWorkload: make([]TeacherWorkload, 0, len(teachers)),
		RoomUtilization: make([]RoomUtilization, 0, len(rooms)),
		Subjects:        make([]SubjectLoad, 0, len(subjects)),
	}

	for id, acc := range teachers {
		subs := make([]string, 0, len(acc.subjects))
		for name := range acc.subjects {
			subs = append(subs, name)
		}
		sort.Strings(subs)
		report.TeacherWorkload = append(report.TeacherWorkload, TeacherWorkload{
			TeacherID:      id,
			TeacherName:    acc.name,
			PeriodsPerWeek: acc.periods,
			ClassCount:     len(acc.classes),
			Subjects:       subs,
		})
	}
	sort.Slice(report.TeacherWorkload, func(i, j int) bool {
		a, b := report.TeacherWorkload[i], report.TeacherWorkload[j]
		if a.PeriodsPerWeek != b.PeriodsPerWeek {
			return a.PeriodsPerWeek > b.PeriodsPerWeek
		}
		if a.TeacherName != b.TeacherName {
			return a.TeacherName < b.TeacherName
		}
		return a.TeacherID.String() < b.TeacherID.String()
	})

	for id, acc := range rooms {
		used := len(acc.cells)
		report.RoomUtilization = append(report.RoomUtilization, RoomUtilization{
			RoomID:         id,
			RoomName:       acc.name,
			UsedSlots:      used,
			AvailableSlots: capacity,
			Percent:        percent(used, capacity),
		})
	}
	sort.Slice(report.RoomUtilization, func(i, j int) bool {
		a, b := report.RoomUtilization[i], report.RoomUtilization[j]
		if a.Percent != b.Percent {
			return a.Percent > b.Percent
		}
		if a.RoomName != b.RoomName {
			return a.RoomName < b.RoomName
		}
		return a.RoomID.String() < b.RoomID.String()
	})

	for id, acc := range subjects {
		report.Subjects = append(report.Subjects, SubjectLoad{
			SubjectID:      id,
			SubjectName:    acc.name,
			PeriodsPerWeek: acc.periods,
			ClassCount:     len(acc.classes),
		})
	}
	sort.Slice(report.Subjects, func(i, j int) bool {
		a, b := report.Subjects[i], report.Subjects[j]
		if a.PeriodsPerWeek != b.PeriodsPerWeek {
			return a.PeriodsPerWeek > b.PeriodsPerWeek
		}
		if a.SubjectName != b.SubjectName {
			return a.SubjectName < b.SubjectName
		}
		return a.SubjectID.String() < b.SubjectID.String()
	})

	report.Summary = AnalyticsSummary{
		TotalSlots:       len(slots),
		DistinctTeachers: len(teachers),
		DistinctRooms:    len(rooms),
		DistinctClasses:  len(classes),
		ConflictCount:    len(conflicts),
	}
	return report
}

// percent dibulatkan 2 desimal; kapasitas 0 → 0
func percent(used, capacity int) float64 {
	if capacity <= 0 {
		return 0
	}
	return math.Round(float64(used)/float64(capacity)*10000) / 100
}
