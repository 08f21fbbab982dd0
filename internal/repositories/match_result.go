package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hirescreen/job-screening/internal/models"
)

type MatchResultRepository interface {
	Create(result *models.MatchResult) error
	FindByCandidateID(candidateID uuid.UUID) (*models.MatchResult, error)
	FindShortlistedByJobID(jobID uuid.UUID) ([]models.MatchResult, error)
}

type matchResultRepository struct {
	db *gorm.DB
}

func NewMatchResultRepository(db *gorm.DB) MatchResultRepository {
	return &matchResultRepository{db: db}
}

// Create implements MatchResultRepository.
func (r *matchResultRepository) Create(result *models.MatchResult) error {
	if err := r.db.Create(result).Error; err != nil {
		return fmt.Errorf("failed to create match result: %w", err)
	}
	return nil
}

// FindByCandidateID implements MatchResultRepository.
func (r *matchResultRepository) FindByCandidateID(candidateID uuid.UUID) (*models.MatchResult, error) {
	var result models.MatchResult
	if err := r.db.Where("candidate_id = ?", candidateID).First(&result).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("match result not found: %w", err)
		}
		return nil, fmt.Errorf("failed to find match result: %w", err)
	}
	return &result, nil
}

// FindShortlistedByJobID returns shortlisted results for a job ordered by
// score descending.
func (r *matchResultRepository) FindShortlistedByJobID(jobID uuid.UUID) ([]models.MatchResult, error) {
	var results []models.MatchResult
	err := r.db.
		Joins("JOIN candidates ON candidates.id = match_results.candidate_id").
		Where("candidates.job_id = ? AND match_results.is_shortlisted = ?", jobID, true).
		Order("match_results.match_score DESC").
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find shortlisted results: %w", err)
	}
	return results, nil
}
