// file: internals/features/school/timetables/dto/timetable_dto.go
package dto

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"timetable_backend/internals/features/school/timetables/service"
)

// FieldError: input query/body tidak bisa di-parse (→ 422)
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Message }

func parseOptUUID(field, raw string) (*uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, &FieldError{Field: field, Message: "harus UUID"}
	}
	return &id, nil
}

func parseOptInt(field, raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, &FieldError{Field: field, Message: "harus angka"}
	}
	return &n, nil
}

// splitCSV: "0,1, 2" → ["0","1","2"]
func splitCSV(raw string) []string {
	out := make([]string, 0)
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

/* =========================
   Slot (upsert / delete)
========================= */

type UpsertSlotRequest struct {
	DayOfWeek  *int    `json:"day_of_week" validate:"required,min=0,max=6"`
	PeriodID   string  `json:"period_id" validate:"required,uuid"`
	ClassID    string  `json:"class_id" validate:"required,uuid"`
	WeekOffset *int    `json:"week_offset" validate:"omitempty,oneof=0 1"`
	TeacherID  *string `json:"teacher_id" validate:"omitempty,uuid"`
	RoomID     *string `json:"room_id" validate:"omitempty,uuid"`
}

func (r *UpsertSlotRequest) Normalize() {
	r.PeriodID = strings.TrimSpace(r.PeriodID)
	r.ClassID = strings.TrimSpace(r.ClassID)
	// "" → nil (hapus override, kembali ke default class)
	for _, p := range []**string{&r.TeacherID, &r.RoomID} {
		if *p != nil && strings.TrimSpace(**p) == "" {
			*p = nil
		}
	}
}

// ToInput: dipanggil setelah validator lolos
func (r UpsertSlotRequest) ToInput(termID uuid.UUID) (service.SlotInput, error) {
	in := service.SlotInput{TermID: termID}
	if r.DayOfWeek != nil {
		in.DayOfWeek = *r.DayOfWeek
	}
	if r.WeekOffset != nil {
		in.WeekOffset = *r.WeekOffset
	}
	var err error
	if in.PeriodID, err = uuid.Parse(r.PeriodID); err != nil {
		return in, &FieldError{Field: "period_id", Message: "harus UUID"}
	}
	if in.ClassID, err = uuid.Parse(r.ClassID); err != nil {
		return in, &FieldError{Field: "class_id", Message: "harus UUID"}
	}
	if r.TeacherID != nil {
		if in.TeacherID, err = parseOptUUID("teacher_id", *r.TeacherID); err != nil {
			return in, err
		}
	}
	if r.RoomID != nil {
		if in.RoomID, err = parseOptUUID("room_id", *r.RoomID); err != nil {
			return in, err
		}
	}
	return in, nil
}

type DeleteSlotRequest struct {
	DayOfWeek  *int   `json:"day_of_week" validate:"required,min=0,max=6"`
	PeriodID   string `json:"period_id" validate:"required,uuid"`
	ClassID    string `json:"class_id" validate:"required,uuid"`
	WeekOffset *int   `json:"week_offset" validate:"omitempty,oneof=0 1"`
}

func (r DeleteSlotRequest) ToInput(termID uuid.UUID) (service.SlotKeyInput, error) {
	up := UpsertSlotRequest{DayOfWeek: r.DayOfWeek, PeriodID: r.PeriodID, ClassID: r.ClassID, WeekOffset: r.WeekOffset}
	in, err := up.ToInput(termID)
	if err != nil {
		return service.SlotKeyInput{}, err
	}
	return service.SlotKeyInput{
		TermID:     in.TermID,
		DayOfWeek:  in.DayOfWeek,
		PeriodID:   in.PeriodID,
		ClassID:    in.ClassID,
		WeekOffset: in.WeekOffset,
	}, nil
}

/* =========================
   Query: list slots / grid / suggestions
========================= */

type ListSlotsQuery struct {
	ClassID    string `query:"class_id"`
	TeacherID  string `query:"teacher_id"`
	RoomID     string `query:"room_id"`
	WeekOffset string `query:"week_offset"`
	DayOfWeek  string `query:"day_of_week"`
}

func (q ListSlotsQuery) ToFilter(termID uuid.UUID) (service.SlotFilter, error) {
	f := service.SlotFilter{TermID: termID}
	var err error
	if f.ClassID, err = parseOptUUID("class_id", q.ClassID); err != nil {
		return f, err
	}
	if f.TeacherID, err = parseOptUUID("teacher_id", q.TeacherID); err != nil {
		return f, err
	}
	if f.RoomID, err = parseOptUUID("room_id", q.RoomID); err != nil {
		return f, err
	}
	if f.WeekOffset, err = parseOptInt("week_offset", q.WeekOffset); err != nil {
		return f, err
	}
	if f.DayOfWeek, err = parseOptInt("day_of_week", q.DayOfWeek); err != nil {
		return f, err
	}
	return f, nil
}

type GridQuery struct {
	WeekOffset string `query:"week_offset"`
	ClassID    string `query:"class_id"`
	TeacherID  string `query:"teacher_id"`
	RoomID     string `query:"room_id"`
}

func (q GridQuery) ToInput(termID uuid.UUID) (service.GridInput, error) {
	in := service.GridInput{TermID: termID}
	wo, err := parseOptInt("week_offset", q.WeekOffset)
	if err != nil {
		return in, err
	}
	if wo != nil {
		in.WeekOffset = *wo
	}
	if in.View.ClassID, err = parseOptUUID("class_id", q.ClassID); err != nil {
		return in, err
	}
	if in.View.TeacherID, err = parseOptUUID("teacher_id", q.TeacherID); err != nil {
		return in, err
	}
	if in.View.RoomID, err = parseOptUUID("room_id", q.RoomID); err != nil {
		return in, err
	}
	return in, nil
}

// SuggestQuery: days & period_ids dipisah koma
type SuggestQuery struct {
	TeacherID  string `query:"teacher_id"`
	ClassID    string `query:"class_id"`
	WeekOffset string `query:"week_offset"`
	Days       string `query:"days"`
	PeriodIDs  string `query:"period_ids"`
}

func (q SuggestQuery) ToInput(termID uuid.UUID) (service.SuggestInput, error) {
	in := service.SuggestInput{TermID: termID}
	var err error
	if in.TeacherID, err = parseOptUUID("teacher_id", q.TeacherID); err != nil {
		return in, err
	}
	if in.ClassID, err = parseOptUUID("class_id", q.ClassID); err != nil {
		return in, err
	}
	if in.WeekOffset, err = parseOptInt("week_offset", q.WeekOffset); err != nil {
		return in, err
	}
	for _, s := range splitCSV(q.Days) {
		d, err := strconv.Atoi(s)
		if err != nil {
			return in, &FieldError{Field: "days", Message: "harus daftar angka 0..6"}
		}
		in.PreferredDays = append(in.PreferredDays, d)
	}
	for _, s := range splitCSV(q.PeriodIDs) {
		id, err := uuid.Parse(s)
		if err != nil {
			return in, &FieldError{Field: "period_ids", Message: "harus daftar UUID"}
		}
		in.PreferredPeriodIDs = append(in.PreferredPeriodIDs, id)
	}
	return in, nil
}

/* =========================
   Week config
========================= */

const (
	WeekConfigScopeTerm   = "term"
	WeekConfigScopeSchool = "school"
)

type SaveWeekConfigRequest struct {
	WorkingDays      []int  `json:"working_days" validate:"required,min=1,max=7,dive,min=0,max=6"`
	LunchAfterPeriod *int   `json:"lunch_after_period" validate:"omitempty,min=1"`
	Scope            string `json:"scope" validate:"omitempty,oneof=term school"`
}

func (r *SaveWeekConfigRequest) Normalize() {
	r.Scope = strings.ToLower(strings.TrimSpace(r.Scope))
	if r.Scope == "" {
		r.Scope = WeekConfigScopeTerm
	}
}

// ToInput: scope "school" → row default sekolah (term NULL)
func (r SaveWeekConfigRequest) ToInput(termID uuid.UUID) service.WeekConfigInput {
	in := service.WeekConfigInput{
		WorkingDays:      r.WorkingDays,
		LunchAfterPeriod: r.LunchAfterPeriod,
	}
	if r.Scope != WeekConfigScopeSchool {
		id := termID
		in.TermID = &id
	}
	return in
}
