package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"hirescreen/job-screening/internal/models"
)

const (
	matchTemperature    = 0.3
	fallbackMatchScore  = 50.0
	fallbackReasonLimit = 200
)

type MatchInput struct {
	CandidateName string
	JDSummary     string
	JDContext     string
	CVContext     string
}

type MatchAnalysis struct {
	MatchScore     float64
	Strengths      []string
	Gaps           []string
	Reasoning      string
	Recommendation models.Recommendation
	IsShortlisted  bool
}

// Matcher scores a candidate against a job. A malformed model response never
// surfaces as an error; it degrades to a fixed manual-review record so one
// bad response cannot abort a whole batch.
type Matcher interface {
	Match(ctx context.Context, input MatchInput) (MatchAnalysis, error)
}

type matcherService struct {
	generator  retryingGenerator
	prompts    *PromptBuilder
	minScore   float64
	maxRetries int
	logger     *zap.Logger
}

func NewMatcherService(generator retryingGenerator, minScore float64, maxRetries int, logger *zap.Logger) Matcher {
	return &matcherService{
		generator:  generator,
		prompts:    NewPromptBuilder(),
		minScore:   minScore,
		maxRetries: maxRetries,
		logger:     logger,
	}
}

type matchResponse struct {
	MatchScore     float64  `json:"match_score"`
	Strengths      []string `json:"strengths"`
	Gaps           []string `json:"gaps"`
	Reasoning      string   `json:"reasoning"`
	Recommendation string   `json:"recommendation"`
}

// Match implements Matcher.
func (m *matcherService) Match(ctx context.Context, input MatchInput) (MatchAnalysis, error) {
	prompt := m.prompts.BuildMatchPrompt(input.JDSummary, input.JDContext, input.CandidateName, input.CVContext)

	response, err := m.generator.GenerateTextWithRetry(ctx, prompt, matchTemperature, m.maxRetries)
	if err != nil {
		return MatchAnalysis{}, fmt.Errorf("failed to generate match evaluation: %w", err)
	}

	var parsed matchResponse
	if err := json.Unmarshal([]byte(extractJSON(response)), &parsed); err != nil {
		m.logger.Warn("match response is not valid JSON, using fallback record",
			zap.String("candidate", input.CandidateName),
			zap.Error(err))
		return m.fallback(response), nil
	}

	return MatchAnalysis{
		MatchScore:     parsed.MatchScore,
		Strengths:      parsed.Strengths,
		Gaps:           parsed.Gaps,
		Reasoning:      parsed.Reasoning,
		Recommendation: models.ParseRecommendation(parsed.Recommendation),
		IsShortlisted:  parsed.MatchScore >= m.minScore,
	}, nil
}

// fallback is the fixed record substituted on parse failure. It is never
// shortlisted, regardless of the configured minimum score.
func (m *matcherService) fallback(response string) MatchAnalysis {
	reasoning := response
	if len(reasoning) > fallbackReasonLimit {
		reasoning = reasoning[:fallbackReasonLimit]
	}

	return MatchAnalysis{
		MatchScore:     fallbackMatchScore,
		Strengths:      []string{"Unable to parse detailed analysis"},
		Gaps:           []string{"Requires manual review"},
		Reasoning:      reasoning,
		Recommendation: models.RecommendationPotentialMatch,
		IsShortlisted:  false,
	}
}

// extractJSON pulls a JSON object or array out of text that may wrap it in
// markdown fences or prose.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")
	endObj := strings.LastIndex(text, "}")
	endArr := strings.LastIndex(text, "]")

	if startObj != -1 && endObj != -1 && endObj > startObj {
		return text[startObj : endObj+1]
	} else if startArr != -1 && endArr != -1 && endArr > startArr {
		return text[startArr : endArr+1]
	}

	return text
}
