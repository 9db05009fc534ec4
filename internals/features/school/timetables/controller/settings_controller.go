// file: internals/features/school/timetables/controller/settings_controller.go
package controller

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"timetable_backend/internals/constants"
	helper "timetable_backend/internals/helpers"
	"timetable_backend/internals/helpers/dbtime"

	"timetable_backend/internals/features/school/timetables/dto"
	"timetable_backend/internals/features/school/timetables/service"
)

// GET /terms/:term_id/week-config
func (ctl *TimetableController) GetWeekConfig(c *fiber.Ctx) error {
	a, termID, ok, werr := ctl.actor(c)
	if !ok {
		return werr
	}
	cfg, err := ctl.Engine.ResolveWeekConfig(reqCtx(c), a, termID)
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonOK(c, "ok", cfg)
}

// PUT /terms/:term_id/week-config  {"working_days":[0,1,2,3,4],"lunch_after_period":4,"scope":"term|school"}
func (ctl *TimetableController) SaveWeekConfig(c *fiber.Ctx) error {
	a, termID, ok, werr := ctl.actor(c)
	if !ok {
		return werr
	}
	var req dto.SaveWeekConfigRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if err := ctl.Validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, validationErrors(err))
	}

	cfg, err := ctl.Engine.SaveWeekConfig(reqCtx(c), a, req.ToInput(termID))
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonUpdated(c, "Konfigurasi minggu disimpan", cfg)
}

// GET /terms/:term_id/periods
func (ctl *TimetableController) Periods(c *fiber.Ctx) error {
	a, termID, ok, werr := ctl.actor(c)
	if !ok {
		return werr
	}
	rows, err := ctl.Engine.Periods(reqCtx(c), a, termID)
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonOK(c, "ok", rows)
}

// GET /terms/:term_id/catalog
func (ctl *TimetableController) Catalog(c *fiber.Ctx) error {
	a, termID, ok, werr := ctl.actor(c)
	if !ok {
		return werr
	}
	cat, err := ctl.Engine.Catalog(reqCtx(c), a, termID)
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonOK(c, "ok", cat)
}

// GET /audit-logs (admin)
func (ctl *TimetableController) AuditLogs(c *fiber.Ctx) error {
	a, _, ok, werr := ctl.actor(c)
	if !ok {
		return werr
	}
	if err := service.ValidateActor(a); err != nil {
		return writeError(c, err)
	}
	if err := ctl.Engine.Gate.Check(a, constants.OpConfigureSettings); err != nil {
		return writeError(c, err)
	}

	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctl.Audit.ListAuditLogs(reqCtx(c), a.SchoolID, p.Offset, p.Limit)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, "Gagal mengambil audit log")
	}
	for i := range rows {
		rows[i].TimetableAuditLogCreatedAt = dbtime.ToSchoolTime(c, rows[i].TimetableAuditLogCreatedAt)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, p, len(rows)))
}
