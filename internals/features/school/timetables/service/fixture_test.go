package service

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"timetable_backend/internals/constants"
	model "timetable_backend/internals/features/school/timetables/model"
	"timetable_backend/internals/helpers/dbtime"
)

/* =========================
   In-memory Store
========================= */

type memStore struct {
	mu sync.Mutex

	terms       map[uuid.UUID]model.AcademicTermModel
	years       map[uuid.UUID]model.AcademicYearModel
	periods     []model.PeriodModel
	classes     map[uuid.UUID]model.TeachingClassModel
	teachers    map[uuid.UUID]string
	rooms       map[uuid.UUID]string
	subjects    map[uuid.UUID]string
	slots       []model.TimetableSlotModel
	weekConfigs []model.SchoolWeekConfigModel
	legacy      []LegacyClass

	// dipakai untuk simulasi store gagal
	listErr error
}

var _ Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		terms:    map[uuid.UUID]model.AcademicTermModel{},
		years:    map[uuid.UUID]model.AcademicYearModel{},
		classes:  map[uuid.UUID]model.TeachingClassModel{},
		teachers: map[uuid.UUID]string{},
		rooms:    map[uuid.UUID]string{},
		subjects: map[uuid.UUID]string{},
	}
}

func (s *memStore) GetTerm(_ context.Context, schoolID, termID uuid.UUID) (*model.AcademicTermModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.terms[termID]
	if !ok || t.AcademicTermSchoolID != schoolID {
		return nil, nil
	}
	return &t, nil
}

func (s *memStore) GetAcademicYear(_ context.Context, schoolID, yearID uuid.UUID) (*model.AcademicYearModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	y, ok := s.years[yearID]
	if !ok || y.AcademicYearSchoolID != schoolID {
		return nil, nil
	}
	return &y, nil
}

func (s *memStore) ListPeriods(_ context.Context, schoolID, yearID uuid.UUID) ([]model.PeriodModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.PeriodModel, 0, len(s.periods))
	for _, p := range s.periods {
		if p.PeriodSchoolID == schoolID && p.PeriodAcademicYearID == yearID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *memStore) ListWeekConfigs(_ context.Context, schoolID uuid.UUID, termID *uuid.UUID) ([]model.SchoolWeekConfigModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.SchoolWeekConfigModel, 0)
	for _, c := range s.weekConfigs {
		if c.SchoolWeekConfigSchoolID != schoolID {
			continue
		}
		if c.SchoolWeekConfigTermID == nil || (termID != nil && *c.SchoolWeekConfigTermID == *termID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *memStore) SaveWeekConfig(_ context.Context, cfg model.SchoolWeekConfigModel) (model.SchoolWeekConfigModel, *model.SchoolWeekConfigModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.weekConfigs {
		if c.SchoolWeekConfigSchoolID != cfg.SchoolWeekConfigSchoolID {
			continue
		}
		same := (c.SchoolWeekConfigTermID == nil && cfg.SchoolWeekConfigTermID == nil) ||
			uuidPtrEqual(c.SchoolWeekConfigTermID, cfg.SchoolWeekConfigTermID)
		if same {
			prev := c
			cfg.SchoolWeekConfigID = c.SchoolWeekConfigID
			s.weekConfigs[i] = cfg
			return cfg, &prev, nil
		}
	}
	cfg.SchoolWeekConfigID = uuid.New()
	s.weekConfigs = append(s.weekConfigs, cfg)
	return cfg, nil, nil
}

func (s *memStore) GetClass(_ context.Context, schoolID, classID uuid.UUID) (*model.TeachingClassModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.classes[classID]
	if !ok || c.TeachingClassSchoolID != schoolID {
		return nil, nil
	}
	return &c, nil
}

func (s *memStore) TeacherExists(_ context.Context, _, teacherID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.teachers[teacherID]
	return ok, nil
}

func (s *memStore) RoomExists(_ context.Context, _, roomID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.rooms[roomID]
	return ok, nil
}

func sameKey(m model.TimetableSlotModel, k SlotKey) bool {
	return m.TimetableSlotSchoolID == k.SchoolID &&
		m.TimetableSlotTermID == k.TermID &&
		m.TimetableSlotDayOfWeek == k.DayOfWeek &&
		m.TimetableSlotPeriodID == k.PeriodID &&
		m.TimetableSlotClassID == k.ClassID &&
		m.TimetableSlotWeekOffset == k.WeekOffset
}

func (s *memStore) UpsertSlot(_ context.Context, k SlotKey, teacherID, roomID *uuid.UUID) (model.TimetableSlotModel, *model.TimetableSlotModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.slots {
		if sameKey(m, k) {
			prev := m
			m.TimetableSlotTeacherID = teacherID
			m.TimetableSlotRoomID = roomID
			m.TimetableSlotUpdatedAt = time.Now()
			s.slots[i] = m
			return m, &prev, nil
		}
	}
	m := model.TimetableSlotModel{
		TimetableSlotID:         uuid.New(),
		TimetableSlotSchoolID:   k.SchoolID,
		TimetableSlotTermID:     k.TermID,
		TimetableSlotDayOfWeek:  k.DayOfWeek,
		TimetableSlotPeriodID:   k.PeriodID,
		TimetableSlotClassID:    k.ClassID,
		TimetableSlotWeekOffset: k.WeekOffset,
		TimetableSlotTeacherID:  teacherID,
		TimetableSlotRoomID:     roomID,
	}
	s.slots = append(s.slots, m)
	return m, nil, nil
}

func (s *memStore) DeleteSlot(_ context.Context, k SlotKey) (*model.TimetableSlotModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.slots {
		if sameKey(m, k) {
			s.slots = append(s.slots[:i], s.slots[i+1:]...)
			return &m, nil
		}
	}
	return nil, nil
}

func (s *memStore) resolve(m model.TimetableSlotModel) (ResolvedSlot, bool) {
	c, ok := s.classes[m.TimetableSlotClassID]
	if !ok {
		return ResolvedSlot{}, false
	}
	teacher := m.TimetableSlotTeacherID
	if teacher == nil {
		teacher = c.TeachingClassDefaultTeacherID
	}
	room := m.TimetableSlotRoomID
	if room == nil {
		room = c.TeachingClassDefaultRoomID
	}
	subject := c.TeachingClassSubjectID
	r := ResolvedSlot{
		SlotID:      m.TimetableSlotID,
		TermID:      m.TimetableSlotTermID,
		DayOfWeek:   m.TimetableSlotDayOfWeek,
		PeriodID:    m.TimetableSlotPeriodID,
		ClassID:     m.TimetableSlotClassID,
		WeekOffset:  m.TimetableSlotWeekOffset,
		TeacherID:   teacher,
		RoomID:      room,
		SubjectID:   &subject,
		ClassName:   c.TeachingClassName,
		SubjectName: s.subjects[subject],
	}
	if teacher != nil {
		r.TeacherName = s.teachers[*teacher]
	}
	if room != nil {
		r.RoomName = s.rooms[*room]
	}
	for _, p := range s.periods {
		if p.PeriodID == m.TimetableSlotPeriodID {
			r.PeriodName = p.PeriodName
		}
	}
	return r, true
}

func (s *memStore) periodIndex(id uuid.UUID) int {
	for i, p := range s.periods {
		if p.PeriodID == id {
			return i
		}
	}
	return len(s.periods)
}

func (s *memStore) ListSlots(_ context.Context, schoolID uuid.UUID, f SlotFilter) ([]ResolvedSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]ResolvedSlot, 0)
	for _, m := range s.slots {
		if m.TimetableSlotSchoolID != schoolID || m.TimetableSlotTermID != f.TermID {
			continue
		}
		r, ok := s.resolve(m)
		if !ok {
			continue
		}
		if f.ClassID != nil && r.ClassID != *f.ClassID {
			continue
		}
		if f.TeacherID != nil && !uuidPtrEqual(r.TeacherID, f.TeacherID) {
			continue
		}
		if f.RoomID != nil && !uuidPtrEqual(r.RoomID, f.RoomID) {
			continue
		}
		if f.WeekOffset != nil && r.WeekOffset != *f.WeekOffset {
			continue
		}
		if f.DayOfWeek != nil && r.DayOfWeek != *f.DayOfWeek {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.WeekOffset != b.WeekOffset {
			return a.WeekOffset < b.WeekOffset
		}
		if a.DayOfWeek != b.DayOfWeek {
			return a.DayOfWeek < b.DayOfWeek
		}
		if pa, pb := s.periodIndex(a.PeriodID), s.periodIndex(b.PeriodID); pa != pb {
			return pa < pb
		}
		if a.ClassName != b.ClassName {
			return a.ClassName < b.ClassName
		}
		return bytes.Compare(a.SlotID[:], b.SlotID[:]) < 0
	})
	return out, nil
}

func (s *memStore) CountSlots(_ context.Context, schoolID, termID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, m := range s.slots {
		if m.TimetableSlotSchoolID == schoolID && m.TimetableSlotTermID == termID {
			n++
		}
	}
	return n, nil
}

func (s *memStore) ListLegacyClasses(_ context.Context, _, _ uuid.UUID) ([]LegacyClass, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]LegacyClass(nil), s.legacy...), nil
}

func (s *memStore) ListCatalog(_ context.Context, schoolID, termID uuid.UUID) (Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cat := Catalog{Rooms: []CatalogItem{}, Teachers: []CatalogItem{}, Classes: []CatalogItem{}}
	for id, name := range s.rooms {
		cat.Rooms = append(cat.Rooms, CatalogItem{ID: id, Name: name})
	}
	for id, name := range s.teachers {
		cat.Teachers = append(cat.Teachers, CatalogItem{ID: id, Name: name})
	}
	for _, c := range s.classes {
		if c.TeachingClassSchoolID == schoolID && c.TeachingClassTermID == termID {
			cat.Classes = append(cat.Classes, CatalogItem{ID: c.TeachingClassID, Name: c.TeachingClassName})
		}
	}
	return cat, nil
}

/* =========================
   Audit recorder
========================= */

type memAudit struct {
	mu      sync.Mutex
	records []AuditRecord
	fail    bool
}

func (a *memAudit) Record(_ context.Context, rec AuditRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.fail {
		return errors.New("audit down")
	}
	a.records = append(a.records, rec)
	return nil
}

func (a *memAudit) all() []AuditRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]AuditRecord(nil), a.records...)
}

/* =========================
   Fixture sekolah
========================= */

// fixture: 1 school, 1 term, 4 period (P3 istirahat), 2 guru, 2 ruang, 3 class.
// ClassA & ClassB sama-sama default ke Teacher1 → bentrok kalau di sel yang sama.
type fixture struct {
	store  *memStore
	audit  *memAudit
	engine *Engine

	School, OtherSchool uuid.UUID
	Year, Term          uuid.UUID
	OtherTerm           uuid.UUID
	P1, P2, P3, P4      uuid.UUID
	Teacher1, Teacher2  uuid.UUID
	Room1, Room2        uuid.UUID
	Subject             uuid.UUID
	ClassA, ClassB      uuid.UUID
	ClassC              uuid.UUID
}

var fixedNow = time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)

func testPeriod(school, year, id uuid.UUID, ord int, name, start, end string) model.PeriodModel {
	return model.PeriodModel{
		PeriodID:             id,
		PeriodSchoolID:       school,
		PeriodAcademicYearID: year,
		PeriodOrdinal:        ord,
		PeriodName:           name,
		PeriodStartTime:      dbtime.MustParse(start),
		PeriodEndTime:        dbtime.MustParse(end),
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:       newMemStore(),
		audit:       &memAudit{},
		School:      uuid.New(),
		OtherSchool: uuid.New(),
		Year:        uuid.New(),
		Term:        uuid.New(),
		OtherTerm:   uuid.New(),
		P1:          uuid.New(),
		P2:          uuid.New(),
		P3:          uuid.New(),
		P4:          uuid.New(),
		Teacher1:    uuid.New(),
		Teacher2:    uuid.New(),
		Room1:       uuid.New(),
		Room2:       uuid.New(),
		Subject:     uuid.New(),
		ClassA:      uuid.New(),
		ClassB:      uuid.New(),
		ClassC:      uuid.New(),
	}
	s := f.store

	s.years[f.Year] = model.AcademicYearModel{AcademicYearID: f.Year, AcademicYearSchoolID: f.School, AcademicYearName: "2026/2027"}
	s.terms[f.Term] = model.AcademicTermModel{AcademicTermID: f.Term, AcademicTermSchoolID: f.School, AcademicTermAcademicYearID: f.Year, AcademicTermName: "Ganjil"}
	// term milik sekolah lain
	s.terms[f.OtherTerm] = model.AcademicTermModel{AcademicTermID: f.OtherTerm, AcademicTermSchoolID: f.OtherSchool, AcademicTermAcademicYearID: f.Year}

	s.periods = []model.PeriodModel{
		testPeriod(f.School, f.Year, f.P1, 1, "Jam 1", "07:00", "07:40"),
		testPeriod(f.School, f.Year, f.P2, 2, "Jam 2", "07:40", "08:20"),
		testPeriod(f.School, f.Year, f.P3, 3, "Istirahat", "08:20", "08:40"),
		testPeriod(f.School, f.Year, f.P4, 4, "Jam 3", "08:40", "09:20"),
	}

	s.teachers[f.Teacher1] = "Bu Sari"
	s.teachers[f.Teacher2] = "Pak Budi"
	s.rooms[f.Room1] = "R-101"
	s.rooms[f.Room2] = "R-102"
	s.subjects[f.Subject] = "Matematika"

	t1, t2, r1, r2 := f.Teacher1, f.Teacher2, f.Room1, f.Room2
	s.classes[f.ClassA] = model.TeachingClassModel{
		TeachingClassID: f.ClassA, TeachingClassSchoolID: f.School, TeachingClassTermID: f.Term,
		TeachingClassName: "7A", TeachingClassSubjectID: f.Subject,
		TeachingClassDefaultTeacherID: &t1, TeachingClassDefaultRoomID: &r1,
	}
	s.classes[f.ClassB] = model.TeachingClassModel{
		TeachingClassID: f.ClassB, TeachingClassSchoolID: f.School, TeachingClassTermID: f.Term,
		TeachingClassName: "7B", TeachingClassSubjectID: f.Subject,
		TeachingClassDefaultTeacherID: &t1, TeachingClassDefaultRoomID: &r2,
	}
	s.classes[f.ClassC] = model.TeachingClassModel{
		TeachingClassID: f.ClassC, TeachingClassSchoolID: f.School, TeachingClassTermID: f.Term,
		TeachingClassName: "7C", TeachingClassSubjectID: f.Subject,
		TeachingClassDefaultTeacherID: &t2,
	}

	f.engine = NewEngine(s, f.audit)
	f.engine.Now = func() time.Time { return fixedNow }
	return f
}

func (f *fixture) admin() Actor {
	uid := uuid.New()
	return Actor{SchoolID: f.School, UserID: &uid, Role: constants.RoleAdmin}
}

func (f *fixture) teacher(id uuid.UUID) Actor {
	uid := uuid.New()
	tid := id
	return Actor{SchoolID: f.School, UserID: &uid, Role: constants.RoleTeacher, TeacherID: &tid}
}

func (f *fixture) student(classID uuid.UUID) Actor {
	cid := classID
	return Actor{SchoolID: f.School, Role: constants.RoleStudent, ClassID: &cid}
}

// put: slot langsung ke store, tanpa lewat engine
func (f *fixture) put(classID uuid.UUID, day int, periodID uuid.UUID, week int, teacherID, roomID *uuid.UUID) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	f.store.slots = append(f.store.slots, model.TimetableSlotModel{
		TimetableSlotID:         uuid.New(),
		TimetableSlotSchoolID:   f.School,
		TimetableSlotTermID:     f.Term,
		TimetableSlotDayOfWeek:  day,
		TimetableSlotPeriodID:   periodID,
		TimetableSlotClassID:    classID,
		TimetableSlotWeekOffset: week,
		TimetableSlotTeacherID:  teacherID,
		TimetableSlotRoomID:     roomID,
	})
}

func (f *fixture) putWeekConfig(termID *uuid.UUID, days ...int64) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	f.store.weekConfigs = append(f.store.weekConfigs, model.SchoolWeekConfigModel{
		SchoolWeekConfigID:          uuid.New(),
		SchoolWeekConfigSchoolID:    f.School,
		SchoolWeekConfigTermID:      termID,
		SchoolWeekConfigWorkingDays: pq.Int64Array(days),
	})
}

func ptr[T any](v T) *T { return &v }
