package services

import (
	"context"
	"fmt"
	"strings"
)

const summaryTemperature = 0.0

type retryingGenerator interface {
	GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error)
}

// Summarizer turns raw document text into a structured LLM analysis. The
// response is expected, not guaranteed, to be JSON.
type Summarizer interface {
	SummarizeJob(ctx context.Context, jdText string) (string, error)
	SummarizeCV(ctx context.Context, cvText string) (string, error)
}

type summarizerService struct {
	generator  retryingGenerator
	prompts    *PromptBuilder
	maxRetries int
}

func NewSummarizerService(generator retryingGenerator, maxRetries int) Summarizer {
	return &summarizerService{
		generator:  generator,
		prompts:    NewPromptBuilder(),
		maxRetries: maxRetries,
	}
}

// SummarizeJob implements Summarizer.
func (s *summarizerService) SummarizeJob(ctx context.Context, jdText string) (string, error) {
	prompt := s.prompts.BuildJobAnalysisPrompt(jdText)

	response, err := s.generator.GenerateTextWithRetry(ctx, prompt, summaryTemperature, s.maxRetries)
	if err != nil {
		return "", fmt.Errorf("failed to analyze job description: %w", err)
	}

	return strings.TrimSpace(response), nil
}

// SummarizeCV implements Summarizer.
func (s *summarizerService) SummarizeCV(ctx context.Context, cvText string) (string, error) {
	prompt := s.prompts.BuildCVAnalysisPrompt(cvText)

	response, err := s.generator.GenerateTextWithRetry(ctx, prompt, summaryTemperature, s.maxRetries)
	if err != nil {
		return "", fmt.Errorf("failed to analyze CV: %w", err)
	}

	return strings.TrimSpace(response), nil
}
