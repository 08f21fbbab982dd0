package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hirescreen/job-screening/internal/models"
)

type ScreeningRunRepository interface {
	Create(run *models.ScreeningRun) error
	FindByID(id uuid.UUID) (*models.ScreeningRun, error)
	FindPending(limit int) ([]models.ScreeningRun, error)
	MarkRunning(id uuid.UUID) error
	MarkCompleted(id uuid.UUID, jobID uuid.UUID) error
	MarkFailed(id uuid.UUID, errorMsg string) error
}

type screeningRunRepository struct {
	db *gorm.DB
}

func NewScreeningRunRepository(db *gorm.DB) ScreeningRunRepository {
	return &screeningRunRepository{db: db}
}

func (r *screeningRunRepository) Create(run *models.ScreeningRun) error {
	if err := r.db.Create(run).Error; err != nil {
		return fmt.Errorf("failed to create screening run: %w", err)
	}
	return nil
}

func (r *screeningRunRepository) FindByID(id uuid.UUID) (*models.ScreeningRun, error) {
	var run models.ScreeningRun
	if err := r.db.Where("id = ?", id).First(&run).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("screening run not found")
		}
		return nil, fmt.Errorf("failed to find screening run: %w", err)
	}
	return &run, nil
}

func (r *screeningRunRepository) FindPending(limit int) ([]models.ScreeningRun, error) {
	var runs []models.ScreeningRun
	err := r.db.
		Where("status = ?", models.RunQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find pending runs: %w", err)
	}
	return runs, nil
}

func (r *screeningRunRepository) MarkRunning(id uuid.UUID) error {
	return r.updateRun(id, map[string]interface{}{
		"status":     models.RunRunning,
		"updated_at": time.Now(),
	})
}

func (r *screeningRunRepository) MarkCompleted(id uuid.UUID, jobID uuid.UUID) error {
	return r.updateRun(id, map[string]interface{}{
		"status":     models.RunCompleted,
		"job_id":     jobID,
		"updated_at": time.Now(),
	})
}

func (r *screeningRunRepository) MarkFailed(id uuid.UUID, errorMsg string) error {
	return r.updateRun(id, map[string]interface{}{
		"status":     models.RunFailed,
		"error":      errorMsg,
		"updated_at": time.Now(),
	})
}

func (r *screeningRunRepository) updateRun(id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.Model(&models.ScreeningRun{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update screening run: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("screening run not found")
	}
	return nil
}
