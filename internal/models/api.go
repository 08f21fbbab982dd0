package models

type UploadResponse struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	FilePath     string `json:"file_path"`
}

type ScreeningRequest struct {
	JobTitle    string   `json:"job_title" validate:"required"`
	Company     string   `json:"company" validate:"required"`
	JDFilePath  string   `json:"jd_file_path" validate:"required"`
	CVFilePaths []string `json:"cv_file_paths" validate:"required"`
}

type ScreeningResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type CandidateResult struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	MatchScore     float64  `json:"match_score"`
	Strengths      []string `json:"strengths"`
	Gaps           []string `json:"gaps"`
	Reasoning      string   `json:"reasoning"`
	Recommendation string   `json:"recommendation"`
	IsShortlisted  bool     `json:"is_shortlisted"`
	InviteSent     bool     `json:"invite_sent"`
}

type JobResultsResponse struct {
	JobID      string            `json:"job_id"`
	Title      string            `json:"title"`
	Company    string            `json:"company"`
	Candidates []CandidateResult `json:"candidates"`
}
