package services

import (
	"context"
	"fmt"
	"strings"
)

const inviteTemperature = 0.7

type InviteInput struct {
	CandidateName  string
	CandidateEmail string
	JobTitle       string
	Company        string
	MatchScore     float64
	Strengths      []string
}

// Inviter produces a personalized interview invitation body. The subject
// line is a fixed template, only the body is generated.
type Inviter interface {
	Compose(ctx context.Context, input InviteInput) (string, error)
}

type inviterService struct {
	generator textGenerator
	prompts   *PromptBuilder
}

type textGenerator interface {
	GenerateText(ctx context.Context, prompt string, temperature float32) (string, error)
}

func NewInviterService(generator textGenerator) Inviter {
	return &inviterService{
		generator: generator,
		prompts:   NewPromptBuilder(),
	}
}

// Compose implements Inviter.
func (s *inviterService) Compose(ctx context.Context, input InviteInput) (string, error) {
	prompt := s.prompts.BuildInvitePrompt(
		input.CandidateName,
		input.CandidateEmail,
		input.JobTitle,
		input.Company,
		input.MatchScore,
		input.Strengths,
	)

	body, err := s.generator.GenerateText(ctx, prompt, inviteTemperature)
	if err != nil {
		return "", fmt.Errorf("failed to generate invitation: %w", err)
	}

	return strings.TrimSpace(body), nil
}

// InviteSubject is the deterministic subject line for invitation mails.
func InviteSubject(jobTitle, company string) string {
	return fmt.Sprintf("Interview Invitation - %s at %s", jobTitle, company)
}
