// file: internals/features/school/timetables/service/engine.go
package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"timetable_backend/internals/constants"
	model "timetable_backend/internals/features/school/timetables/model"
)

/* =========================
   Engine (facade)
========================= */

// Engine: stateless, semua turunan dihitung ulang setiap call.
type Engine struct {
	Store Store
	Audit AuditLogger
	Gate  Gate
	Now   func() time.Time
}

func NewEngine(store Store, audit AuditLogger) *Engine {
	return &Engine{
		Store: store,
		Audit: audit,
		Gate:  NewGate(),
		Now:   time.Now,
	}
}

type SlotInput struct {
	TermID     uuid.UUID
	DayOfWeek  int
	PeriodID   uuid.UUID
	ClassID    uuid.UUID
	WeekOffset int
	TeacherID  *uuid.UUID
	RoomID     *uuid.UUID
}

type SlotKeyInput struct {
	TermID     uuid.UUID
	DayOfWeek  int
	PeriodID   uuid.UUID
	ClassID    uuid.UUID
	WeekOffset int
}

type SlotMutation struct {
	Slot    model.TimetableSlotModel `json:"slot"`
	Created bool                     `json:"created"`
}

type WeekConfigInput struct {
	TermID           *uuid.UUID
	WorkingDays      []int
	LunchAfterPeriod *int
}

type PeriodView struct {
	PeriodID  uuid.UUID `json:"period_id"`
	Ordinal   int       `json:"ordinal"`
	Name      string    `json:"name"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	IsBreak   bool      `json:"is_break"`
}

/* =========================
   Guard umum
========================= */

// authorize: context lengkap + gate. Belum menyentuh store.
func (e *Engine) authorize(a Actor, op string) error {
	if err := ValidateActor(a); err != nil {
		return err
	}
	return e.Gate.Check(a, op)
}

// loadTerm: term harus milik school dan tahun ajarannya harus ada.
func (e *Engine) loadTerm(ctx context.Context, a Actor, termID uuid.UUID) (*model.AcademicTermModel, error) {
	if termID == uuid.Nil {
		return nil, contextError("term_id wajib")
	}
	term, err := e.Store.GetTerm(ctx, a.SchoolID, termID)
	if err != nil {
		return nil, storeError("gagal ambil term", err)
	}
	if term == nil {
		return nil, invalidTerm("term tidak ditemukan untuk school ini")
	}
	year, err := e.Store.GetAcademicYear(ctx, a.SchoolID, term.AcademicTermAcademicYearID)
	if err != nil {
		return nil, storeError("gagal ambil tahun ajaran", err)
	}
	if year == nil {
		return nil, invalidTerm("tahun ajaran term tidak ditemukan")
	}
	return term, nil
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Engine) audit(ctx context.Context, a Actor, action, entityType string, entityID *uuid.UUID, before, after any) {
	if e.Audit == nil {
		return
	}
	rec := AuditRecord{
		SchoolID:    a.SchoolID,
		ActorUserID: a.UserID,
		ActorRole:   a.Role,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		Before:      before,
		After:       after,
	}
	// gagal audit tidak membatalkan mutasi
	if err := e.Audit.Record(ctx, rec); err != nil {
		log.Printf("[AUDIT] gagal simpan action=%s entity=%s school=%s: %v", action, entityType, a.SchoolID, err)
	}
}

func validateDay(field string, d int) error {
	if d < 0 || d > 6 {
		return validationError(field, "day_of_week harus 0..6")
	}
	return nil
}

func validateWeekOffset(field string, w int) error {
	if w != 0 && w != 1 {
		return validationError(field, "week_offset harus 0 atau 1")
	}
	return nil
}

func validateKey(in SlotKeyInput) error {
	if err := validateDay("day_of_week", in.DayOfWeek); err != nil {
		return err
	}
	if err := validateWeekOffset("week_offset", in.WeekOffset); err != nil {
		return err
	}
	if in.PeriodID == uuid.Nil {
		return validationError("period_id", "period_id wajib")
	}
	if in.ClassID == uuid.Nil {
		return validationError("class_id", "class_id wajib")
	}
	return nil
}

/* =========================
   Week config
========================= */

func (e *Engine) ResolveWeekConfig(ctx context.Context, a Actor, termID uuid.UUID) (WeekConfig, error) {
	if err := e.authorize(a, constants.OpRead); err != nil {
		return WeekConfig{}, err
	}
	if _, err := e.loadTerm(ctx, a, termID); err != nil {
		return WeekConfig{}, err
	}
	return ConfigResolver{Store: e.Store}.Resolve(ctx, a.SchoolID, &termID)
}

func (e *Engine) SaveWeekConfig(ctx context.Context, a Actor, in WeekConfigInput) (WeekConfig, error) {
	if err := e.authorize(a, constants.OpConfigureSettings); err != nil {
		return WeekConfig{}, err
	}
	if len(in.WorkingDays) == 0 {
		return WeekConfig{}, validationError("working_days", "working_days tidak boleh kosong")
	}
	days := make(pq.Int64Array, 0, len(in.WorkingDays))
	for _, d := range in.WorkingDays {
		if err := validateDay("working_days", d); err != nil {
			return WeekConfig{}, err
		}
		days = append(days, int64(d))
	}
	if in.LunchAfterPeriod != nil && *in.LunchAfterPeriod < 1 {
		return WeekConfig{}, validationError("lunch_after_period", "lunch_after_period minimal 1")
	}
	if in.TermID != nil {
		if _, err := e.loadTerm(ctx, a, *in.TermID); err != nil {
			return WeekConfig{}, err
		}
	}

	row := model.SchoolWeekConfigModel{
		SchoolWeekConfigSchoolID:         a.SchoolID,
		SchoolWeekConfigTermID:           in.TermID,
		SchoolWeekConfigWorkingDays:      days,
		SchoolWeekConfigLunchAfterPeriod: in.LunchAfterPeriod,
	}
	after, before, err := e.Store.SaveWeekConfig(ctx, row)
	if err != nil {
		return WeekConfig{}, storeError("gagal simpan week config", err)
	}

	var beforeAny any
	if before != nil {
		beforeAny = before
	}
	id := after.SchoolWeekConfigID
	e.audit(ctx, a, AuditActionWeekConfigSave, AuditEntitySchoolWeekConfig, &id, beforeAny, after)
	log.Printf("[TIMETABLE][WEEK_CONFIG] school=%s term=%v days=%v", a.SchoolID, in.TermID, in.WorkingDays)

	source := ConfigSourceSchool
	if in.TermID != nil {
		source = ConfigSourceTerm
	}
	return WeekConfig{
		WorkingDays:      normalizeDays(after.SchoolWeekConfigWorkingDays),
		LunchAfterPeriod: after.SchoolWeekConfigLunchAfterPeriod,
		Source:           source,
	}, nil
}

/* =========================
   Slot store ops
========================= */

// findSlot: slot existing (sudah resolved) untuk key tertentu, nil kalau tidak ada
func (e *Engine) findSlot(ctx context.Context, a Actor, in SlotKeyInput) (*ResolvedSlot, error) {
	day, week, class := in.DayOfWeek, in.WeekOffset, in.ClassID
	rows, err := e.Store.ListSlots(ctx, a.SchoolID, SlotFilter{
		TermID:     in.TermID,
		ClassID:    &class,
		DayOfWeek:  &day,
		WeekOffset: &week,
	})
	if err != nil {
		return nil, storeError("gagal ambil slot", err)
	}
	for i := range rows {
		if rows[i].PeriodID == in.PeriodID {
			return &rows[i], nil
		}
	}
	return nil, nil
}

func (e *Engine) UpsertSlot(ctx context.Context, a Actor, in SlotInput) (*SlotMutation, error) {
	if err := e.authorize(a, constants.OpEdit); err != nil {
		return nil, err
	}
	keyIn := SlotKeyInput{TermID: in.TermID, DayOfWeek: in.DayOfWeek, PeriodID: in.PeriodID, ClassID: in.ClassID, WeekOffset: in.WeekOffset}
	if err := validateKey(keyIn); err != nil {
		return nil, err
	}

	term, err := e.loadTerm(ctx, a, in.TermID)
	if err != nil {
		return nil, err
	}

	class, err := e.Store.GetClass(ctx, a.SchoolID, in.ClassID)
	if err != nil {
		return nil, storeError("gagal ambil class", err)
	}
	if class == nil || class.TeachingClassTermID != in.TermID {
		return nil, validationError("class_id", "class tidak ditemukan pada term ini")
	}

	periods, err := e.Store.ListPeriods(ctx, a.SchoolID, term.AcademicTermAcademicYearID)
	if err != nil {
		return nil, storeError("gagal ambil period", err)
	}
	if !containsPeriod(periods, in.PeriodID) {
		return nil, validationError("period_id", "period bukan milik tahun ajaran term ini")
	}

	if in.TeacherID != nil {
		ok, err := e.Store.TeacherExists(ctx, a.SchoolID, *in.TeacherID)
		if err != nil {
			return nil, storeError("gagal cek teacher", err)
		}
		if !ok {
			return nil, validationError("teacher_id", "teacher tidak ditemukan")
		}
	}
	if in.RoomID != nil {
		ok, err := e.Store.RoomExists(ctx, a.SchoolID, *in.RoomID)
		if err != nil {
			return nil, storeError("gagal cek room", err)
		}
		if !ok {
			return nil, validationError("room_id", "room tidak ditemukan")
		}
	}

	// teacher hanya boleh mengubah jadwal miliknya sendiri
	if a.Role == constants.RoleTeacher {
		effective := in.TeacherID
		if effective == nil {
			effective = class.TeachingClassDefaultTeacherID
		}
		if !uuidPtrEqual(effective, a.TeacherID) {
			return nil, forbidden("teacher hanya boleh mengisi slot untuk dirinya sendiri")
		}
		existing, err := e.findSlot(ctx, a, keyIn)
		if err != nil {
			return nil, err
		}
		if existing != nil && !uuidPtrEqual(existing.TeacherID, a.TeacherID) {
			return nil, forbidden("slot ini milik teacher lain")
		}
	}

	key := SlotKey{
		SchoolID:   a.SchoolID,
		TermID:     in.TermID,
		DayOfWeek:  in.DayOfWeek,
		PeriodID:   in.PeriodID,
		ClassID:    in.ClassID,
		WeekOffset: in.WeekOffset,
	}
	after, before, err := e.Store.UpsertSlot(ctx, key, in.TeacherID, in.RoomID)
	if err != nil {
		return nil, storeError("gagal upsert slot", err)
	}

	var beforeAny any
	if before != nil {
		beforeAny = before
	}
	id := after.TimetableSlotID
	e.audit(ctx, a, AuditActionSlotUpsert, AuditEntityTimetableSlot, &id, beforeAny, after)
	log.Printf("[TIMETABLE][UPSERT] school=%s term=%s class=%s day=%d period=%s week=%d created=%v",
		a.SchoolID, in.TermID, in.ClassID, in.DayOfWeek, in.PeriodID, in.WeekOffset, before == nil)

	return &SlotMutation{Slot: after, Created: before == nil}, nil
}

// DeleteSlot: hapus slot yang tidak ada = no-op (false, nil), tanpa audit.
func (e *Engine) DeleteSlot(ctx context.Context, a Actor, in SlotKeyInput) (bool, error) {
	if err := e.authorize(a, constants.OpEdit); err != nil {
		return false, err
	}
	if err := validateKey(in); err != nil {
		return false, err
	}
	if _, err := e.loadTerm(ctx, a, in.TermID); err != nil {
		return false, err
	}

	if a.Role == constants.RoleTeacher {
		existing, err := e.findSlot(ctx, a, in)
		if err != nil {
			return false, err
		}
		if existing == nil {
			return false, nil
		}
		if !uuidPtrEqual(existing.TeacherID, a.TeacherID) {
			return false, forbidden("slot ini milik teacher lain")
		}
	}

	key := SlotKey{
		SchoolID:   a.SchoolID,
		TermID:     in.TermID,
		DayOfWeek:  in.DayOfWeek,
		PeriodID:   in.PeriodID,
		ClassID:    in.ClassID,
		WeekOffset: in.WeekOffset,
	}
	before, err := e.Store.DeleteSlot(ctx, key)
	if err != nil {
		return false, storeError("gagal hapus slot", err)
	}
	if before == nil {
		return false, nil
	}

	id := before.TimetableSlotID
	e.audit(ctx, a, AuditActionSlotDelete, AuditEntityTimetableSlot, &id, before, nil)
	log.Printf("[TIMETABLE][DELETE] school=%s term=%s class=%s day=%d period=%s week=%d",
		a.SchoolID, in.TermID, in.ClassID, in.DayOfWeek, in.PeriodID, in.WeekOffset)
	return true, nil
}

func (e *Engine) ListSlots(ctx context.Context, a Actor, f SlotFilter) ([]ResolvedSlot, error) {
	if err := e.authorize(a, constants.OpRead); err != nil {
		return nil, err
	}
	if f.DayOfWeek != nil {
		if err := validateDay("day_of_week", *f.DayOfWeek); err != nil {
			return nil, err
		}
	}
	if f.WeekOffset != nil {
		if err := validateWeekOffset("week_offset", *f.WeekOffset); err != nil {
			return nil, err
		}
	}
	if _, err := e.loadTerm(ctx, a, f.TermID); err != nil {
		return nil, err
	}
	rows, err := e.Store.ListSlots(ctx, a.SchoolID, NarrowFilter(a, f))
	if err != nil {
		return nil, storeError("gagal ambil slot", err)
	}
	return rows, nil
}

/* =========================
   Conflicts
========================= */

func (e *Engine) DetectConflicts(ctx context.Context, a Actor, termID uuid.UUID) (ConflictReport, error) {
	if err := e.authorize(a, constants.OpManageConflicts); err != nil {
		return ConflictReport{}, err
	}
	if _, err := e.loadTerm(ctx, a, termID); err != nil {
		return ConflictReport{}, err
	}
	return ConflictDetector{Store: e.Store}.Detect(ctx, a.SchoolID, termID)
}

/* =========================
   Suggestions
========================= */

func (e *Engine) SuggestFreeSlots(ctx context.Context, a Actor, in SuggestInput) ([]DayPeriod, error) {
	if err := e.authorize(a, constants.OpRead); err != nil {
		return nil, err
	}
	switch a.Role {
	case constants.RoleTeacher:
		tid := *a.TeacherID
		in.TeacherID = &tid
	case constants.RoleStudent:
		cid := *a.ClassID
		in.ClassID = &cid
		in.TeacherID = nil
	}
	if in.WeekOffset != nil {
		if err := validateWeekOffset("week_offset", *in.WeekOffset); err != nil {
			return nil, err
		}
	}
	for _, d := range in.PreferredDays {
		if err := validateDay("preferred_days", d); err != nil {
			return nil, err
		}
	}
	// tanpa subjek (teacher/class) operasi ini tidak bermakna
	if in.TeacherID == nil && in.ClassID == nil {
		return []DayPeriod{}, nil
	}

	term, err := e.loadTerm(ctx, a, in.TermID)
	if err != nil {
		return nil, err
	}

	var (
		cfg          WeekConfig
		periods      []model.PeriodModel
		teacherSlots []ResolvedSlot
		classSlots   []ResolvedSlot
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cfg, err = ConfigResolver{Store: e.Store}.Resolve(gctx, a.SchoolID, &in.TermID)
		return err
	})
	g.Go(func() error {
		var err error
		periods, err = e.Store.ListPeriods(gctx, a.SchoolID, term.AcademicTermAcademicYearID)
		return storeError("gagal ambil period", err)
	})
	if in.TeacherID != nil {
		g.Go(func() error {
			var err error
			teacherSlots, err = e.Store.ListSlots(gctx, a.SchoolID, SlotFilter{TermID: in.TermID, TeacherID: in.TeacherID, WeekOffset: in.WeekOffset})
			return storeError("gagal ambil slot teacher", err)
		})
	}
	if in.ClassID != nil {
		g.Go(func() error {
			var err error
			classSlots, err = e.Store.ListSlots(gctx, a.SchoolID, SlotFilter{TermID: in.TermID, ClassID: in.ClassID, WeekOffset: in.WeekOffset})
			return storeError("gagal ambil slot class", err)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	days, universePeriods, err := BuildUniverse(cfg, periods, in.PreferredDays, in.PreferredPeriodIDs)
	if err != nil {
		return nil, err
	}
	return SuggestFreeSlots(days, universePeriods, OccupiedCells(teacherSlots, classSlots)), nil
}

/* =========================
   Weekly grid
========================= */

func (e *Engine) BuildGrid(ctx context.Context, a Actor, in GridInput) (*WeeklyGrid, error) {
	if err := e.authorize(a, constants.OpRead); err != nil {
		return nil, err
	}
	if err := validateWeekOffset("week_offset", in.WeekOffset); err != nil {
		return nil, err
	}
	if in.View.count() > 1 {
		return nil, validationError("view", "pilih salah satu: class_id, teacher_id, atau room_id")
	}

	term, err := e.loadTerm(ctx, a, in.TermID)
	if err != nil {
		return nil, err
	}

	// narrowing role dulu, baru filter view
	week := in.WeekOffset
	filter := NarrowFilter(a, SlotFilter{
		TermID:     in.TermID,
		ClassID:    in.View.ClassID,
		TeacherID:  in.View.TeacherID,
		RoomID:     in.View.RoomID,
		WeekOffset: &week,
	})
	view := GridView{ClassID: filter.ClassID, TeacherID: filter.TeacherID, RoomID: filter.RoomID}

	var (
		cfg      WeekConfig
		periods  []model.PeriodModel
		slots    []ResolvedSlot
		weekAll  []ResolvedSlot
		filtered = filter.ClassID != nil || filter.TeacherID != nil || filter.RoomID != nil
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cfg, err = ConfigResolver{Store: e.Store}.Resolve(gctx, a.SchoolID, &in.TermID)
		return err
	})
	g.Go(func() error {
		var err error
		periods, err = e.Store.ListPeriods(gctx, a.SchoolID, term.AcademicTermAcademicYearID)
		return storeError("gagal ambil period", err)
	})
	g.Go(func() error {
		var err error
		slots, err = e.Store.ListSlots(gctx, a.SchoolID, filter)
		return storeError("gagal ambil slot", err)
	})
	if filtered {
		// konflik dihitung dari semua slot minggu ini, bukan cuma yang terlihat
		g.Go(func() error {
			var err error
			weekAll, err = e.Store.ListSlots(gctx, a.SchoolID, SlotFilter{TermID: in.TermID, WeekOffset: &week})
			return storeError("gagal ambil slot minggu", err)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if !filtered {
		weekAll = slots
	}

	grid := BuildWeeklyGrid(in.TermID, in.WeekOffset, view, cfg, periods, slots, DetectSlotConflicts(weekAll), e.now())
	return &grid, nil
}

/* =========================
   Analytics
========================= */

func (e *Engine) Analytics(ctx context.Context, a Actor, termID uuid.UUID) (*AnalyticsReport, error) {
	if err := e.authorize(a, constants.OpViewAnalytics); err != nil {
		return nil, err
	}
	term, err := e.loadTerm(ctx, a, termID)
	if err != nil {
		return nil, err
	}

	var (
		cfg     WeekConfig
		periods []model.PeriodModel
		slots   []ResolvedSlot
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cfg, err = ConfigResolver{Store: e.Store}.Resolve(gctx, a.SchoolID, &termID)
		return err
	})
	g.Go(func() error {
		var err error
		periods, err = e.Store.ListPeriods(gctx, a.SchoolID, term.AcademicTermAcademicYearID)
		return storeError("gagal ambil period", err)
	})
	g.Go(func() error {
		var err error
		slots, err = e.Store.ListSlots(gctx, a.SchoolID, SlotFilter{TermID: termID})
		return storeError("gagal ambil slot", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := Aggregate(termID, cfg, periods, slots, DetectSlotConflicts(slots))
	return &report, nil
}

/* =========================
   Katalog (picker)
========================= */

func (e *Engine) Periods(ctx context.Context, a Actor, termID uuid.UUID) ([]PeriodView, error) {
	if err := e.authorize(a, constants.OpRead); err != nil {
		return nil, err
	}
	term, err := e.loadTerm(ctx, a, termID)
	if err != nil {
		return nil, err
	}
	periods, err := e.Store.ListPeriods(ctx, a.SchoolID, term.AcademicTermAcademicYearID)
	if err != nil {
		return nil, storeError("gagal ambil period", err)
	}
	out := make([]PeriodView, 0, len(periods))
	for _, p := range periods {
		out = append(out, PeriodView{
			PeriodID:  p.PeriodID,
			Ordinal:   p.PeriodOrdinal,
			Name:      p.PeriodName,
			StartTime: p.PeriodStartTime.HHMM(),
			EndTime:   p.PeriodEndTime.HHMM(),
			IsBreak:   p.IsBreak(),
		})
	}
	return out, nil
}

func (e *Engine) Catalog(ctx context.Context, a Actor, termID uuid.UUID) (Catalog, error) {
	if err := e.authorize(a, constants.OpRead); err != nil {
		return Catalog{}, err
	}
	if _, err := e.loadTerm(ctx, a, termID); err != nil {
		return Catalog{}, err
	}
	cat, err := e.Store.ListCatalog(ctx, a.SchoolID, termID)
	if err != nil {
		return Catalog{}, storeError("gagal ambil katalog", err)
	}
	return cat, nil
}

func containsPeriod(periods []model.PeriodModel, id uuid.UUID) bool {
	for _, p := range periods {
		if p.PeriodID == id {
			return true
		}
	}
	return false
}
