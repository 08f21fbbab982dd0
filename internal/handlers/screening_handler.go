package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hirescreen/job-screening/internal/models"
	"hirescreen/job-screening/internal/repositories"
	"hirescreen/job-screening/internal/worker"
)

type ScreeningHandler struct {
	runs   repositories.ScreeningRunRepository
	worker worker.Worker
}

func NewScreeningHandler(runs repositories.ScreeningRunRepository, w worker.Worker) *ScreeningHandler {
	return &ScreeningHandler{
		runs:   runs,
		worker: w,
	}
}

// HandleCreate queues a new screening run for the worker.
func (h *ScreeningHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.ScreeningRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.JobTitle == "" || req.JDFilePath == "" {
		return fiber.NewError(fiber.StatusBadRequest, "job_title and jd_file_path are required")
	}
	if len(req.CVFilePaths) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "cv_file_paths must not be empty")
	}

	run := &models.ScreeningRun{
		JobTitle:   req.JobTitle,
		Company:    req.Company,
		JDFilePath: req.JDFilePath,
		Status:     models.RunQueued,
	}
	run.SetCVFilePaths(req.CVFilePaths)

	if err := h.runs.Create(run); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	h.worker.Enqueue(run.ID)

	return c.Status(fiber.StatusAccepted).JSON(models.ScreeningResponse{
		ID:     run.ID.String(),
		Status: string(run.Status),
	})
}

// HandleGet returns the current status of a screening run.
func (h *ScreeningHandler) HandleGet(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid run id")
	}

	run, err := h.runs.FindByID(id)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "screening run not found")
	}

	return c.JSON(run)
}
