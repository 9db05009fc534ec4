// file: internals/features/school/timetables/service/conflict_detector.go
package service

import (
	"bytes"
	"context"
	"sort"

	"github.com/google/uuid"
)

type ConflictType string

const (
	ConflictTeacher ConflictType = "TEACHER"
	ConflictRoom    ConflictType = "ROOM"
)

type DetectionStrategy string

const (
	StrategySlots  DetectionStrategy = "slots"
	StrategyLegacy DetectionStrategy = "legacy"
)

// Conflict: selalu hasil turunan, tidak pernah disimpan.
type Conflict struct {
	Type     ConflictType      `json:"type"`
	Strategy DetectionStrategy `json:"strategy"`

	ClassAID   uuid.UUID `json:"class_a_id"`
	ClassAName string    `json:"class_a_name"`
	ClassBID   uuid.UUID `json:"class_b_id"`
	ClassBName string    `json:"class_b_name"`

	TeacherID    *uuid.UUID `json:"teacher_id,omitempty"`
	RoomID       *uuid.UUID `json:"room_id,omitempty"`
	ResourceName string     `json:"resource_name,omitempty"`

	// hanya untuk strategy slots
	SlotAID    *uuid.UUID `json:"slot_a_id,omitempty"`
	SlotBID    *uuid.UUID `json:"slot_b_id,omitempty"`
	DayOfWeek  *int       `json:"day_of_week,omitempty"`
	PeriodID   *uuid.UUID `json:"period_id,omitempty"`
	PeriodName string     `json:"period_name,omitempty"`
	WeekOffset *int       `json:"week_offset,omitempty"`
}

type ConflictReport struct {
	TermID    uuid.UUID         `json:"term_id"`
	Strategy  DetectionStrategy `json:"strategy"`
	Conflicts []Conflict        `json:"conflicts"`
}

type cellKey struct {
	WeekOffset int
	DayOfWeek  int
	PeriodID   uuid.UUID
}

/* =========================
   Strategy A: slot diskrit
========================= */

// DetectSlotConflicts: group per (week_offset, day, period), satu pass per
// group dengan map teacher→slot pertama dan room→slot pertama.
func DetectSlotConflicts(slots []ResolvedSlot) []Conflict {
	groups := make(map[cellKey][]ResolvedSlot)
	keys := make([]cellKey, 0)
	for _, s := range slots {
		k := cellKey{WeekOffset: s.WeekOffset, DayOfWeek: s.DayOfWeek, PeriodID: s.PeriodID}
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], s)
	}

	// urutan output stabil: week, day, period
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.WeekOffset != b.WeekOffset {
			return a.WeekOffset < b.WeekOffset
		}
		if a.DayOfWeek != b.DayOfWeek {
			return a.DayOfWeek < b.DayOfWeek
		}
		return bytes.Compare(a.PeriodID[:], b.PeriodID[:]) < 0
	})

	out := make([]Conflict, 0)
	for _, k := range keys {
		group := groups[k]
		// urut per class id → hasil tidak tergantung urutan insert
		sort.Slice(group, func(i, j int) bool {
			if c := bytes.Compare(group[i].ClassID[:], group[j].ClassID[:]); c != 0 {
				return c < 0
			}
			return bytes.Compare(group[i].SlotID[:], group[j].SlotID[:]) < 0
		})

		byTeacher := make(map[uuid.UUID]ResolvedSlot)
		byRoom := make(map[uuid.UUID]ResolvedSlot)
		for _, s := range group {
			if s.TeacherID != nil {
				if first, ok := byTeacher[*s.TeacherID]; ok {
					out = append(out, slotConflict(ConflictTeacher, first, s, k))
				} else {
					byTeacher[*s.TeacherID] = s
				}
			}
			if s.RoomID != nil {
				if first, ok := byRoom[*s.RoomID]; ok {
					out = append(out, slotConflict(ConflictRoom, first, s, k))
				} else {
					byRoom[*s.RoomID] = s
				}
			}
		}
	}
	return out
}

func slotConflict(t ConflictType, first, second ResolvedSlot, k cellKey) Conflict {
	day, week, period := k.DayOfWeek, k.WeekOffset, k.PeriodID
	slotA, slotB := first.SlotID, second.SlotID
	c := Conflict{
		Type:       t,
		Strategy:   StrategySlots,
		ClassAID:   first.ClassID,
		ClassAName: first.ClassName,
		ClassBID:   second.ClassID,
		ClassBName: second.ClassName,
		SlotAID:    &slotA,
		SlotBID:    &slotB,
		DayOfWeek:  &day,
		PeriodID:   &period,
		PeriodName: first.PeriodName,
		WeekOffset: &week,
	}
	switch t {
	case ConflictTeacher:
		id := *first.TeacherID
		c.TeacherID = &id
		c.ResourceName = first.TeacherName
	case ConflictRoom:
		id := *first.RoomID
		c.RoomID = &id
		c.ResourceName = first.RoomName
	}
	return c
}

/* =========================
   Strategy B: interval legacy
========================= */

// DetectLegacyConflicts: O(n²) per pasangan class. Hanya dipakai kalau term
// belum punya slot sama sekali.
func DetectLegacyConflicts(classes []LegacyClass) []Conflict {
	list := make([]LegacyClass, len(classes))
	copy(list, classes)
	sort.Slice(list, func(i, j int) bool {
		return bytes.Compare(list[i].ClassID[:], list[j].ClassID[:]) < 0
	})

	out := make([]Conflict, 0)
	for i := 0; i < len(list); i++ {
		for j := i + 1; j < len(list); j++ {
			a, b := list[i], list[j]
			start := a.Start
			if b.Start > start {
				start = b.Start
			}
			end := a.End
			if b.End < end {
				end = b.End
			}
			if !(start < end) {
				continue
			}
			if uuidPtrEqual(a.TeacherID, b.TeacherID) {
				id := *a.TeacherID
				out = append(out, Conflict{
					Type: ConflictTeacher, Strategy: StrategyLegacy,
					ClassAID: a.ClassID, ClassAName: a.ClassName,
					ClassBID: b.ClassID, ClassBName: b.ClassName,
					TeacherID: &id,
				})
			}
			if uuidPtrEqual(a.RoomID, b.RoomID) {
				id := *a.RoomID
				out = append(out, Conflict{
					Type: ConflictRoom, Strategy: StrategyLegacy,
					ClassAID: a.ClassID, ClassAName: a.ClassName,
					ClassBID: b.ClassID, ClassBName: b.ClassName,
					RoomID: &id,
				})
			}
		}
	}
	return out
}

/* =========================
   Pemilihan strategy
========================= */

type ConflictDetector struct {
	Store Store
}

// Detect: strategy slots kalau ada minimal satu slot di term, selain itu legacy.
func (d ConflictDetector) Detect(ctx context.Context, schoolID, termID uuid.UUID) (ConflictReport, error) {
	n, err := d.Store.CountSlots(ctx, schoolID, termID)
	if err != nil {
		return ConflictReport{}, storeError("gagal hitung slot", err)
	}
	if n > 0 {
		slots, err := d.Store.ListSlots(ctx, schoolID, SlotFilter{TermID: termID})
		if err != nil {
			return ConflictReport{}, storeError("gagal ambil slot", err)
		}
		return ConflictReport{TermID: termID, Strategy: StrategySlots, Conflicts: DetectSlotConflicts(slots)}, nil
	}

	classes, err := d.Store.ListLegacyClasses(ctx, schoolID, termID)
	if err != nil {
		return ConflictReport{}, storeError("gagal ambil class legacy", err)
	}
	return ConflictReport{TermID: termID, Strategy: StrategyLegacy, Conflicts: DetectLegacyConflicts(classes)}, nil
}
