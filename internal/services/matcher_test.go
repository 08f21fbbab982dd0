package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hirescreen/job-screening/internal/models"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubGenerator) GenerateTextWithRetry(_ context.Context, prompt string, _ float32, _ int) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func sampleInput() MatchInput {
	return MatchInput{
		CandidateName: "Jane Doe",
		JDSummary:     `{"summary": "Senior Go role"}`,
		JDContext:     "5+ years Go, distributed systems",
		CVContext:     "Jane has 7 years of Go experience.",
	}
}

func TestMatcherParsesValidResponse(t *testing.T) {
	stub := &stubGenerator{response: `{
		"match_score": 82,
		"strengths": ["Go expertise", "Distributed systems", "Mentoring"],
		"gaps": ["No Kubernetes"],
		"reasoning": "Strong overlap with requirements",
		"recommendation": "strong_match"
	}`}
	matcher := NewMatcherService(stub, 60.0, 3, zap.NewNop())

	analysis, err := matcher.Match(context.Background(), sampleInput())
	require.NoError(t, err)

	assert.Equal(t, 82.0, analysis.MatchScore)
	assert.Len(t, analysis.Strengths, 3)
	assert.Len(t, analysis.Gaps, 1)
	assert.Equal(t, models.RecommendationStrongMatch, analysis.Recommendation)
	assert.True(t, analysis.IsShortlisted)
	assert.Contains(t, stub.lastPrompt, "Jane Doe")
}

func TestMatcherBelowMinimumNotShortlisted(t *testing.T) {
	stub := &stubGenerator{response: `{"match_score": 45, "strengths": [], "gaps": [], "reasoning": "weak", "recommendation": "poor_match"}`}
	matcher := NewMatcherService(stub, 60.0, 3, zap.NewNop())

	analysis, err := matcher.Match(context.Background(), sampleInput())
	require.NoError(t, err)

	assert.Equal(t, 45.0, analysis.MatchScore)
	assert.False(t, analysis.IsShortlisted)
}

func TestMatcherScoreAtMinimumIsShortlisted(t *testing.T) {
	stub := &stubGenerator{response: `{"match_score": 60, "strengths": [], "gaps": [], "reasoning": "ok", "recommendation": "good_match"}`}
	matcher := NewMatcherService(stub, 60.0, 3, zap.NewNop())

	analysis, err := matcher.Match(context.Background(), sampleInput())
	require.NoError(t, err)

	assert.True(t, analysis.IsShortlisted)
}

func TestMatcherStripsMarkdownFences(t *testing.T) {
	stub := &stubGenerator{response: "```json\n{\"match_score\": 70, \"strengths\": [\"Go\"], \"gaps\": [], \"reasoning\": \"fine\", \"recommendation\": \"good_match\"}\n```"}
	matcher := NewMatcherService(stub, 60.0, 3, zap.NewNop())

	analysis, err := matcher.Match(context.Background(), sampleInput())
	require.NoError(t, err)

	assert.Equal(t, 70.0, analysis.MatchScore)
	assert.Equal(t, models.RecommendationGoodMatch, analysis.Recommendation)
}

func TestMatcherFallbackOnInvalidJSON(t *testing.T) {
	stub := &stubGenerator{response: "I think this candidate is quite good overall."}
	matcher := NewMatcherService(stub, 60.0, 3, zap.NewNop())

	analysis, err := matcher.Match(context.Background(), sampleInput())
	require.NoError(t, err)

	assert.Equal(t, 50.0, analysis.MatchScore)
	assert.Equal(t, []string{"Unable to parse detailed analysis"}, analysis.Strengths)
	assert.Equal(t, []string{"Requires manual review"}, analysis.Gaps)
	assert.Equal(t, models.RecommendationPotentialMatch, analysis.Recommendation)
	assert.False(t, analysis.IsShortlisted)
}

func TestMatcherFallbackNeverShortlistedEvenBelowMinimum(t *testing.T) {
	// Fallback score is 50; with a minimum of 40 a parsed response would be
	// shortlisted, the fallback still is not.
	stub := &stubGenerator{response: "not json at all"}
	matcher := NewMatcherService(stub, 40.0, 3, zap.NewNop())

	analysis, err := matcher.Match(context.Background(), sampleInput())
	require.NoError(t, err)

	assert.Equal(t, 50.0, analysis.MatchScore)
	assert.False(t, analysis.IsShortlisted)
}

func TestMatcherFallbackTruncatesReasoning(t *testing.T) {
	stub := &stubGenerator{response: strings.Repeat("a", 500)}
	matcher := NewMatcherService(stub, 60.0, 3, zap.NewNop())

	analysis, err := matcher.Match(context.Background(), sampleInput())
	require.NoError(t, err)

	assert.Len(t, analysis.Reasoning, 200)
}

func TestMatcherUnknownRecommendationDefaultsToPoor(t *testing.T) {
	stub := &stubGenerator{response: `{"match_score": 65, "strengths": [], "gaps": [], "reasoning": "x", "recommendation": "maybe_hire"}`}
	matcher := NewMatcherService(stub, 60.0, 3, zap.NewNop())

	analysis, err := matcher.Match(context.Background(), sampleInput())
	require.NoError(t, err)

	assert.Equal(t, models.RecommendationPoorMatch, analysis.Recommendation)
}

func TestMatcherPropagatesGeneratorError(t *testing.T) {
	stub := &stubGenerator{err: errors.New("model unavailable")}
	matcher := NewMatcherService(stub, 60.0, 3, zap.NewNop())

	_, err := matcher.Match(context.Background(), sampleInput())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model unavailable")
}
