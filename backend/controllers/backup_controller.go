package controllers

import (
	"io"

	"coursepanel/backend/config"
	"coursepanel/backend/services"
	"coursepanel/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type BackupController struct {
	Backups *services.BackupService
	Cfg     *config.Config
}

func NewBackupController(backups *services.BackupService, cfg *config.Config) *BackupController {
	return &BackupController{Backups: backups, Cfg: cfg}
}

// CreateBackup snapshots all stores and saves the result to the local
// ring buffer.
func (bc *BackupController) CreateBackup(c *fiber.Ctx) error {
	var input struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&input); err != nil && len(c.Body()) > 0 {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Name == "" {
		input.Name = "manual"
	}

	backup, err := bc.Backups.CreateBackup(input.Description)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, err)
	}

	id, err := bc.Backups.SaveLocally(backup, input.Name)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, err)
	}

	return utils.Created(c, fiber.Map{
		"id":       id,
		"name":     input.Name,
		"metadata": backup.Metadata,
	})
}

func (bc *BackupController) ListBackups(c *fiber.Ctx) error {
	saved, err := bc.Backups.ListSaved()
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, err)
	}
	return utils.Success(c, fiber.StatusOK, saved)
}

// Export creates a fresh backup and sends it as a file download.
func (bc *BackupController) Export(c *fiber.Ctx) error {
	backup, err := bc.Backups.CreateBackup(c.Query("description"))
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, err)
	}

	blob, err := bc.Backups.Marshal(backup)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+services.ExportFilename()+`"`)
	return c.Send(blob)
}

// Import accepts an uploaded backup file, validates its structure and
// saves it to the local ring buffer without restoring it.
func (bc *BackupController) Import(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.BadRequest(c, "No backup file uploaded")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return utils.BadRequest(c, "Could not read uploaded file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return utils.BadRequest(c, "Could not read uploaded file")
	}

	backup, err := bc.Backups.ImportBackup(data)
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err)
	}

	name := fileHeader.Filename
	id, err := bc.Backups.SaveLocally(*backup, name)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, err)
	}

	return utils.Created(c, fiber.Map{
		"id":       id,
		"name":     name,
		"metadata": backup.Metadata,
	})
}

// Restore replaces all store state with a saved backup's contents.
func (bc *BackupController) Restore(c *fiber.Ctx) error {
	backup, err := bc.Backups.GetSaved(c.Params("id"))
	if err != nil {
		return utils.NotFound(c, err.Error())
	}

	summary, err := bc.Backups.RestoreFromBackup(backup)
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message":  "Backup restored",
		"restored": summary,
	})
}
