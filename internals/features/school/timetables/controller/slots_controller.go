// file: internals/features/school/timetables/controller/slots_controller.go
package controller

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	helper "timetable_backend/internals/helpers"

	"timetable_backend/internals/features/school/timetables/dto"
)

// PUT /terms/:term_id/slots
func (ctl *TimetableController) UpsertSlot(c *fiber.Ctx) error {
	a, termID, ok, werr := ctl.actor(c)
	if !ok {
		return werr
	}

	var req dto.UpsertSlotRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if err := ctl.Validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, validationErrors(err))
	}
	in, err := req.ToInput(termID)
	if err != nil {
		return writeError(c, err)
	}

	res, err := ctl.Engine.UpsertSlot(reqCtx(c), a, in)
	if err != nil {
		return writeError(c, err)
	}
	if res.Created {
		return helper.JsonCreated(c, "Slot dibuat", res)
	}
	return helper.JsonUpdated(c, "Slot diperbarui", res)
}

// DELETE /terms/:term_id/slots (key di body)
func (ctl *TimetableController) DeleteSlot(c *fiber.Ctx) error {
	a, termID, ok, werr := ctl.actor(c)
	if !ok {
		return werr
	}

	var req dto.DeleteSlotRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, validationErrors(err))
	}
	in, err := req.ToInput(termID)
	if err != nil {
		return writeError(c, err)
	}

	deleted, err := ctl.Engine.DeleteSlot(reqCtx(c), a, in)
	if err != nil {
		return writeError(c, err)
	}
	msg := "Slot dihapus"
	if !deleted {
		msg = "Slot tidak ada, tidak ada perubahan"
	}
	return helper.JsonDeleted(c, msg, fiber.Map{"deleted": deleted})
}

// GET /terms/:term_id/slots
func (ctl *TimetableController) ListSlots(c *fiber.Ctx) error {
	a, termID, ok, werr := ctl.actor(c)
	if !ok {
		return werr
	}

	var q dto.ListSlotsQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "Query tidak valid")
	}
	f, err := q.ToFilter(termID)
	if err != nil {
		return writeError(c, err)
	}

	rows, err := ctl.Engine.ListSlots(reqCtx(c), a, f)
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonOK(c, "ok", rows)
}
