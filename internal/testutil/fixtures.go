package testutil

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hirescreen/job-screening/internal/models"
)

// TestJob inserts a job description row.
func TestJob(t *testing.T, db *gorm.DB) *models.JobDescription {
	t.Helper()

	job := &models.JobDescription{
		Title:        "Senior Backend Engineer",
		Company:      "Acme Corp",
		Description:  "Build and operate distributed backend services in Go.",
		Requirements: "5+ years Go, distributed systems",
		Summary:      `{"summary": "Senior Go role", "level": "Senior"}`,
		FilePath:     "/tmp/jd.pdf",
	}
	if err := db.Create(job).Error; err != nil {
		t.Fatalf("Failed to create test job: %v", err)
	}
	return job
}

// TestCandidate inserts a candidate row for a job.
func TestCandidate(t *testing.T, db *gorm.DB, jobID uuid.UUID, name string) *models.Candidate {
	t.Helper()

	candidate := &models.Candidate{
		Name:   name,
		Email:  name + "@example.com",
		Phone:  "+1 555 0100",
		CVText: "Experienced Go engineer with distributed systems background.",
		JobID:  jobID,
	}
	if err := db.Create(candidate).Error; err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}
	return candidate
}

// TestMatchResult inserts a match result for a candidate.
func TestMatchResult(t *testing.T, db *gorm.DB, candidateID uuid.UUID, score float64, shortlisted bool) *models.MatchResult {
	t.Helper()

	result := &models.MatchResult{
		CandidateID:    candidateID,
		MatchScore:     score,
		Reasoning:      "Solid experience overlap.",
		Recommendation: models.RecommendationGoodMatch,
		IsShortlisted:  shortlisted,
	}
	result.SetStrengths([]string{"Go expertise", "Distributed systems"})
	result.SetGaps([]string{"No Kubernetes exposure"})
	if err := db.Create(result).Error; err != nil {
		t.Fatalf("Failed to create test match result: %v", err)
	}
	return result
}
