package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hirescreen/job-screening/internal/models"
)

type InterviewRepository interface {
	Create(interview *models.Interview) error
	FindByMatchResultID(matchResultID uuid.UUID) (*models.Interview, error)
}

type interviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db}
}

// Create implements InterviewRepository.
func (r *interviewRepository) Create(interview *models.Interview) error {
	if err := r.db.Create(interview).Error; err != nil {
		return fmt.Errorf("failed to create interview: %w", err)
	}
	return nil
}

// FindByMatchResultID implements InterviewRepository.
func (r *interviewRepository) FindByMatchResultID(matchResultID uuid.UUID) (*models.Interview, error) {
	var interview models.Interview
	if err := r.db.Where("match_result_id = ?", matchResultID).First(&interview).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("interview not found: %w", err)
		}
		return nil, fmt.Errorf("failed to find interview: %w", err)
	}
	return &interview, nil
}
