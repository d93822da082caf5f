package controllers

import (
	"coursepanel/backend/config"
	"coursepanel/backend/services"
	"coursepanel/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type IntegrityController struct {
	Integrity *services.IntegrityService
	Cfg       *config.Config
}

func NewIntegrityController(integrity *services.IntegrityService, cfg *config.Config) *IntegrityController {
	return &IntegrityController{Integrity: integrity, Cfg: cfg}
}

// ValidateAll runs the full read-only validation pass.
func (ic *IntegrityController) ValidateAll(c *fiber.Ctx) error {
	return utils.Success(c, fiber.StatusOK, ic.Integrity.ValidateAllData())
}

func (ic *IntegrityController) ValidateCourse(c *fiber.Ctx) error {
	return utils.Success(c, fiber.StatusOK, ic.Integrity.ValidateCourseIntegrity(c.Params("id")))
}

func (ic *IntegrityController) ValidateModule(c *fiber.Ctx) error {
	return utils.Success(c, fiber.StatusOK, ic.Integrity.ValidateModuleIntegrity(c.Params("id")))
}

func (ic *IntegrityController) ValidateLecture(c *fiber.Ctx) error {
	return utils.Success(c, fiber.StatusOK, ic.Integrity.ValidateLectureIntegrity(c.Params("id")))
}

// Repair recomputes denormalized counts and durations everywhere.
func (ic *IntegrityController) Repair(c *fiber.Ctx) error {
	actions := ic.Integrity.RepairDataIntegrity()
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"repaired": len(actions),
		"actions":  actions,
	})
}

// Cleanup deletes invalid courses. Destructive, admin-only, explicit.
func (ic *IntegrityController) Cleanup(c *fiber.Ctx) error {
	cleaned, reasons := ic.Integrity.CleanupInvalidCourses()
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"cleaned": cleaned,
		"reasons": reasons,
	})
}
