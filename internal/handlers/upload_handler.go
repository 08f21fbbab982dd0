package handlers

import (
	"github.com/gofiber/fiber/v2"

	"hirescreen/job-screening/internal/models"
	"hirescreen/job-screening/internal/services"
)

type UploadHandler struct {
	storage     services.StorageService
	maxFileSize int64
}

func NewUploadHandler(storage services.StorageService, maxFileSize int64) *UploadHandler {
	return &UploadHandler{
		storage:     storage,
		maxFileSize: maxFileSize,
	}
}

// HandleUpload stores a job-description or CV document and returns the path
// a screening request can reference.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	fileType := c.FormValue("type")
	if fileType != "jd" && fileType != "cv" {
		return fiber.NewError(fiber.StatusBadRequest, "type must be 'jd' or 'cv'")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "file is required")
	}

	if file.Size > h.maxFileSize {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, "file exceeds maximum size")
	}

	filename, filePath, err := h.storage.SaveFile(file, fileType)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(models.UploadResponse{
		Filename:     filename,
		OriginalName: file.Filename,
		FilePath:     filePath,
	})
}
