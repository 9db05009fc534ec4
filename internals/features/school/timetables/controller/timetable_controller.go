// file: internals/features/school/timetables/controller/timetable_controller.go
package controller

import (
	"context"
	"errors"
	"log"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	helper "timetable_backend/internals/helpers"
	helperAuth "timetable_backend/internals/helpers/auth"

	"timetable_backend/internals/features/school/timetables/dto"
	"timetable_backend/internals/features/school/timetables/repository"
	"timetable_backend/internals/features/school/timetables/service"
)

/* =======================================================
   CONTROLLER
   ======================================================= */

type TimetableController struct {
	Engine   *service.Engine
	Audit    *repository.GormAuditLogger
	Validate *validator.Validate
}

func NewTimetableController(db *gorm.DB, v *validator.Validate) *TimetableController {
	audit := repository.NewGormAuditLogger(db)
	ctl := &TimetableController{
		Engine:   service.NewEngine(repository.NewGormStore(db), audit),
		Audit:    audit,
		Validate: v,
	}
	ctl.ensureValidator()
	return ctl
}

// pakai nama field json di pesan validasi
func (ctl *TimetableController) ensureValidator() {
	if ctl.Validate == nil {
		ctl.Validate = validator.New(validator.WithRequiredStructEnabled())
	}
	ctl.Validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
}

// ambil context standar (request-id middleware men-set UserContext ber-timeout)
func reqCtx(c *fiber.Ctx) context.Context {
	if uc := c.UserContext(); uc != nil {
		return uc
	}
	return context.Background()
}

/* =========================
   Context → Actor
   ========================= */

// resolveActor: isi Actor dari token + path. Kekurangan context (role,
// teacher_id, class_id) dibiarkan kosong supaya engine yang menolak.
func resolveActor(c *fiber.Ctx) (service.Actor, uuid.UUID, error) {
	var a service.Actor

	schoolID, err := helperAuth.ResolveSchoolID(c)
	if err != nil && !errors.Is(err, helperAuth.ErrSchoolContextMissing) {
		return a, uuid.Nil, err
	}
	a.SchoolID = schoolID
	a.Role = helperAuth.GetRole(c)
	if uid, err := helperAuth.GetUserIDFromToken(c); err == nil {
		a.UserID = &uid
	}
	a.TeacherID = helperAuth.GetTeacherIDFromToken(c)
	a.ClassID = helperAuth.GetClassIDFromToken(c)

	termID, _ := uuid.Parse(strings.TrimSpace(c.Params("term_id")))
	return a, termID, nil
}

/* =========================
   Error mapping
   ========================= */

func validationErrors(err error) map[string][]string {
	out := map[string][]string{}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			out[fe.Field()] = append(out[fe.Field()], fe.Tag())
		}
	}
	return out
}

func writeError(c *fiber.Ctx, err error) error {
	var fieldErr *dto.FieldError
	if errors.As(err, &fieldErr) {
		return helper.JsonValidationError(c, map[string][]string{fieldErr.Field: {fieldErr.Message}})
	}

	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		switch svcErr.Kind {
		case service.KindContext:
			return helper.JsonErrorCode(c, http.StatusBadRequest, string(svcErr.Kind), svcErr.Message)
		case service.KindForbidden:
			return helper.JsonErrorCode(c, http.StatusForbidden, string(svcErr.Kind), svcErr.Message)
		case service.KindInvalidTerm:
			return helper.JsonErrorCode(c, http.StatusNotFound, string(svcErr.Kind), svcErr.Message)
		case service.KindValidation:
			field := svcErr.Field
			if field == "" {
				field = "request"
			}
			return helper.JsonValidationError(c, map[string][]string{field: {svcErr.Message}})
		case service.KindStore:
			log.Printf("[TIMETABLE][STORE] %s %s: %v", c.Method(), c.Path(), err)
			return helper.JsonErrorCode(c, http.StatusInternalServerError, string(svcErr.Kind), "Gagal mengakses data jadwal")
		}
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return helper.JsonError(c, fe.Code, fe.Message)
	}
	log.Printf("[TIMETABLE] unexpected error %s %s: %v", c.Method(), c.Path(), err)
	return helper.JsonError(c, http.StatusInternalServerError, "Terjadi kesalahan")
}

// actor: ok=false berarti response error sudah ditulis
func (ctl *TimetableController) actor(c *fiber.Ctx) (service.Actor, uuid.UUID, bool, error) {
	a, termID, err := resolveActor(c)
	if err != nil {
		return a, termID, false, writeError(c, err)
	}
	return a, termID, true, nil
}
