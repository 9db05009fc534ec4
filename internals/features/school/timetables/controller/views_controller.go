// file: internals/features/school/timetables/controller/views_controller.go
package controller

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	helper "timetable_backend/internals/helpers"
	"timetable_backend/internals/helpers/dbtime"

	"timetable_backend/internals/features/school/timetables/dto"
)

// GET /terms/:term_id/conflicts
func (ctl *TimetableController) Conflicts(c *fiber.Ctx) error {
	a, termID, ok, werr := ctl.actor(c)
	if !ok {
		return werr
	}
	report, err := ctl.Engine.DetectConflicts(reqCtx(c), a, termID)
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonOK(c, "ok", report)
}

// GET /terms/:term_id/suggestions?teacher_id=&class_id=&days=0,1&period_ids=
func (ctl *TimetableController) Suggestions(c *fiber.Ctx) error {
	a, termID, ok, werr := ctl.actor(c)
	if !ok {
		return werr
	}
	var q dto.SuggestQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "Query tidak valid")
	}
	in, err := q.ToInput(termID)
	if err != nil {
		return writeError(c, err)
	}

	free, err := ctl.Engine.SuggestFreeSlots(reqCtx(c), a, in)
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonOK(c, "ok", free)
}

// GET /terms/:term_id/grid?week_offset=&class_id=|teacher_id=|room_id=
func (ctl *TimetableController) Grid(c *fiber.Ctx) error {
	a, termID, ok, werr := ctl.actor(c)
	if !ok {
		return werr
	}
	var q dto.GridQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "Query tidak valid")
	}
	in, err := q.ToInput(termID)
	if err != nil {
		return writeError(c, err)
	}

	grid, err := ctl.Engine.BuildGrid(reqCtx(c), a, in)
	if err != nil {
		return writeError(c, err)
	}
	grid.GeneratedAt = dbtime.ToSchoolTime(c, grid.GeneratedAt)
	return helper.JsonOK(c, "ok", grid)
}

// GET /terms/:term_id/analytics
func (ctl *TimetableController) Analytics(c *fiber.Ctx) error {
	a, termID, ok, werr := ctl.actor(c)
	if !ok {
		return werr
	}
	report, err := ctl.Engine.Analytics(reqCtx(c), a, termID)
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonOK(c, "ok", report)
}
