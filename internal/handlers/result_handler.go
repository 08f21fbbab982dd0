package handlers

import (
	"sort"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hirescreen/job-screening/internal/models"
	"hirescreen/job-screening/internal/repositories"
)

type ResultHandler struct {
	jobs       repositories.JobRepository
	candidates repositories.CandidateRepository
}

func NewResultHandler(jobs repositories.JobRepository, candidates repositories.CandidateRepository) *ResultHandler {
	return &ResultHandler{
		jobs:       jobs,
		candidates: candidates,
	}
}

// HandleGetJobResults returns every screened candidate for a job, best score
// first.
func (h *ResultHandler) HandleGetJobResults(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid job id")
	}

	job, err := h.jobs.FindByID(jobID)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "job not found")
	}

	candidates, err := h.candidates.FindByJobID(jobID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	results := make([]models.CandidateResult, 0, len(candidates))
	for _, candidate := range candidates {
		result := models.CandidateResult{
			ID:    candidate.ID.String(),
			Name:  candidate.Name,
			Email: candidate.Email,
		}
		if mr := candidate.MatchResult; mr != nil {
			result.MatchScore = mr.MatchScore
			result.Strengths = mr.StrengthsList()
			result.Gaps = mr.GapsList()
			result.Reasoning = mr.Reasoning
			result.Recommendation = string(mr.Recommendation)
			result.IsShortlisted = mr.IsShortlisted
			if mr.Interview != nil {
				result.InviteSent = mr.Interview.InviteSent
			}
		}
		results = append(results, result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchScore > results[j].MatchScore
	})

	return c.JSON(models.JobResultsResponse{
		JobID:      job.ID.String(),
		Title:      job.Title,
		Company:    job.Company,
		Candidates: results,
	})
}
