package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RunStatus string

const (
	RunQueued    RunStatus = "queued"
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// ScreeningRun is a queued screening request. The worker picks it up, runs
// the pipeline, and records the outcome here.
type ScreeningRun struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	JobTitle    string     `gorm:"type:text;not null" json:"job_title"`
	Company     string     `gorm:"type:text" json:"company"`
	JDFilePath  string     `gorm:"type:text;not null" json:"jd_file_path"`
	CVFilePaths string     `gorm:"type:text;not null" json:"-"`
	Status      RunStatus  `gorm:"type:text;not null;default:'queued'" json:"status"`
	Error       *string    `gorm:"type:text" json:"error,omitempty"`
	JobID       *uuid.UUID `gorm:"type:uuid" json:"job_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (ScreeningRun) TableName() string {
	return "screening_runs"
}

func (r *ScreeningRun) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (r *ScreeningRun) SetCVFilePaths(paths []string) {
	b, _ := json.Marshal(paths)
	r.CVFilePaths = string(b)
}

func (r *ScreeningRun) CVFilePathList() []string {
	var out []string
	_ = json.Unmarshal([]byte(r.CVFilePaths), &out)
	return out
}
