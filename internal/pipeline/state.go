package pipeline

import (
	"time"

	"github.com/google/uuid"

	"hirescreen/job-screening/internal/models"
)

// Status tags the stage a screening run has reached. Stages advance in the
// declared order; error is terminal and reachable from any stage.
type Status string

const (
	StatusInitialized  Status = "initialized"
	StatusJDProcessed  Status = "jd_processed"
	StatusJDIndexed    Status = "jd_indexed"
	StatusCVsProcessed Status = "cvs_processed"
	StatusCVsIndexed   Status = "cvs_indexed"
	StatusMatched      Status = "matched"
	StatusShortlisted  Status = "shortlisted"
	StatusCompleted    Status = "completed"
	StatusError        Status = "error"
)

// CandidateRecord is the in-memory record of one successfully parsed CV.
type CandidateRecord struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Phone    string    `json:"phone"`
	CVText   string    `json:"cv_text"`
	Chunks   []string  `json:"chunks"`
	Analysis string    `json:"analysis"`
}

// MatchRecord extends a CandidateRecord with its scoring outcome.
type MatchRecord struct {
	CandidateRecord
	MatchScore     float64               `json:"match_score"`
	Strengths      []string              `json:"strengths"`
	Gaps           []string              `json:"gaps"`
	Reasoning      string                `json:"reasoning"`
	Recommendation models.Recommendation `json:"recommendation"`
	IsShortlisted  bool                  `json:"is_shortlisted"`
}

// InviteResult records one invitation attempt for a shortlisted candidate.
type InviteResult struct {
	CandidateID uuid.UUID  `json:"candidate_id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Subject     string     `json:"subject"`
	Body        string     `json:"body"`
	InviteSent  bool       `json:"invite_sent"`
	SentAt      *time.Time `json:"sent_at,omitempty"`
}

// ScreeningState is the single record threaded through the pipeline. One run
// owns one state; it is never shared across runs.
//
// JobID stays uuid.Nil until the job description is persisted in stage 1.
// Candidates and MatchResults only ever grow: a retried stage appends to
// them, it never replaces prior entries. Error is populated exactly when
// Status is StatusError.
type ScreeningState struct {
	JobID        uuid.UUID         `json:"job_id"`
	JobTitle     string            `json:"job_title"`
	Company      string            `json:"company"`
	JDFilePath   string            `json:"jd_file_path"`
	JDText       string            `json:"jd_text"`
	JDSummary    string            `json:"jd_summary"`
	JDChunks     []string          `json:"jd_chunks"`
	CVFilePaths  []string          `json:"cv_file_paths"`
	Candidates   []CandidateRecord `json:"candidates"`
	MatchResults []MatchRecord     `json:"match_results"`
	Shortlisted  []MatchRecord     `json:"shortlisted"`
	InvitesSent  []InviteResult    `json:"invites_sent"`
	Status       Status            `json:"status"`
	Error        string            `json:"error,omitempty"`
}
