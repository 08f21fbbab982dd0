package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recommendation is the closed set of verdict categories a match can carry.
type Recommendation string

const (
	RecommendationStrongMatch    Recommendation = "strong_match"
	RecommendationGoodMatch      Recommendation = "good_match"
	RecommendationPotentialMatch Recommendation = "potential_match"
	RecommendationPoorMatch      Recommendation = "poor_match"
)

// ParseRecommendation maps a raw model response onto the closed enum,
// defaulting to poor_match for anything unrecognized.
func ParseRecommendation(s string) Recommendation {
	switch Recommendation(s) {
	case RecommendationStrongMatch, RecommendationGoodMatch,
		RecommendationPotentialMatch, RecommendationPoorMatch:
		return Recommendation(s)
	default:
		return RecommendationPoorMatch
	}
}

type InterviewStatus string

const (
	InterviewPending   InterviewStatus = "pending"
	InterviewInvited   InterviewStatus = "invited"
	InterviewConfirmed InterviewStatus = "confirmed"
	InterviewCompleted InterviewStatus = "completed"
)

type JobDescription struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string    `gorm:"type:text;not null" json:"title"`
	Company      string    `gorm:"type:text" json:"company"`
	Description  string    `gorm:"type:text;not null" json:"description"`
	Requirements string    `gorm:"type:text" json:"requirements"`
	Summary      string    `gorm:"type:text" json:"summary"`
	FilePath     string    `gorm:"type:text" json:"file_path"`
	CreatedAt    time.Time `json:"created_at"`

	Candidates []Candidate `gorm:"foreignKey:JobID" json:"-"`
}

func (JobDescription) TableName() string {
	return "job_descriptions"
}

func (j *JobDescription) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

type Candidate struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	Email     string    `gorm:"type:text;not null" json:"email"`
	Phone     string    `gorm:"type:text" json:"phone"`
	CVText    string    `gorm:"type:text;not null" json:"cv_text"`
	FilePath  string    `gorm:"type:text" json:"file_path"`
	JobID     uuid.UUID `gorm:"type:uuid;not null;index" json:"job_id"`
	CreatedAt time.Time `json:"created_at"`

	Job         JobDescription `gorm:"foreignKey:JobID" json:"-"`
	MatchResult *MatchResult   `gorm:"foreignKey:CandidateID" json:"match_result,omitempty"`
}

func (Candidate) TableName() string {
	return "candidates"
}

func (c *Candidate) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type MatchResult struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CandidateID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"candidate_id"`
	MatchScore     float64        `gorm:"not null" json:"match_score"`
	Strengths      string         `gorm:"type:text" json:"-"`
	Gaps           string         `gorm:"type:text" json:"-"`
	Reasoning      string         `gorm:"type:text" json:"reasoning"`
	Recommendation Recommendation `gorm:"type:text;not null;default:'poor_match'" json:"recommendation"`
	IsShortlisted  bool           `gorm:"not null;default:false" json:"is_shortlisted"`
	CreatedAt      time.Time      `json:"created_at"`

	Interview *Interview `gorm:"foreignKey:MatchResultID" json:"interview,omitempty"`
}

func (MatchResult) TableName() string {
	return "match_results"
}

func (m *MatchResult) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// SetStrengths stores the list as JSON text, matching the schema's
// text-typed columns.
func (m *MatchResult) SetStrengths(strengths []string) {
	b, _ := json.Marshal(strengths)
	m.Strengths = string(b)
}

func (m *MatchResult) SetGaps(gaps []string) {
	b, _ := json.Marshal(gaps)
	m.Gaps = string(b)
}

func (m *MatchResult) StrengthsList() []string {
	var out []string
	_ = json.Unmarshal([]byte(m.Strengths), &out)
	return out
}

func (m *MatchResult) GapsList() []string {
	var out []string
	_ = json.Unmarshal([]byte(m.Gaps), &out)
	return out
}

type Interview struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	MatchResultID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"match_result_id"`
	ScheduledDate *time.Time      `json:"scheduled_date,omitempty"`
	Status        InterviewStatus `gorm:"type:text;not null;default:'pending'" json:"status"`
	InviteSent    bool            `gorm:"not null;default:false" json:"invite_sent"`
	InviteMessage string          `gorm:"type:text" json:"invite_message"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (Interview) TableName() string {
	return "interviews"
}

func (i *Interview) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
