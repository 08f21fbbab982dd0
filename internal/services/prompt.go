package services

import (
	"fmt"
	"strings"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildJobAnalysisPrompt asks for a structured analysis of a job description.
func (pb *PromptBuilder) BuildJobAnalysisPrompt(jdText string) string {
	return fmt.Sprintf(`You are an expert recruiter. Analyze the job description and provide:
1. A concise summary (2-3 sentences)
2. Key required skills and qualifications
3. Nice-to-have skills
4. Role level (Entry/Mid/Senior)

Format as JSON with keys: summary, required_skills, preferred_skills, level

Job Description:
%s`, jdText)
}

// BuildCVAnalysisPrompt asks for a structured analysis of a CV.
func (pb *PromptBuilder) BuildCVAnalysisPrompt(cvText string) string {
	return fmt.Sprintf(`You are an expert recruiter. Analyze the CV and provide:
1. Candidate's key skills and expertise
2. Years of experience
3. Education background
4. Notable achievements

Format as JSON with keys: skills, experience_years, education, achievements

CV Text:
%s`, cvText)
}

// BuildMatchPrompt asks for a candidate-job fit verdict as a strict JSON
// object.
func (pb *PromptBuilder) BuildMatchPrompt(jdSummary, jdContext, candidateName, cvContext string) string {
	return fmt.Sprintf(`You are an expert recruiter evaluating candidate-job fit.

Analyze the candidate's CV against the job requirements and provide:
1. Match Score (0-100): Overall fit percentage
2. Key Strengths: What makes this candidate a good fit (list 3-5 points)
3. Skill Gaps: Areas where candidate may need development (list 2-4 points)
4. Reasoning: Brief explanation of the score

Consider:
- Technical skills alignment
- Experience level and relevance
- Education and certifications
- Project experience
- Cultural and role fit indicators

Return ONLY a valid JSON object with this exact structure:
{
    "match_score": <number between 0-100>,
    "strengths": ["strength1", "strength2", "strength3"],
    "gaps": ["gap1", "gap2"],
    "reasoning": "brief explanation",
    "recommendation": "strong_match|good_match|potential_match|poor_match"
}

Job Description Summary:
%s

Relevant Job Requirements:
%s

Candidate: %s
CV Details:
%s

Provide your evaluation:`, jdSummary, jdContext, candidateName, cvContext)
}

// BuildInvitePrompt asks for a personalized interview invitation body.
func (pb *PromptBuilder) BuildInvitePrompt(candidateName, candidateEmail, jobTitle, company string, matchScore float64, strengths []string) string {
	return fmt.Sprintf(`You are a professional HR coordinator. Create a warm, personalized
interview invitation email that:
1. Congratulates the candidate on being shortlisted
2. Mentions 1-2 specific strengths that stood out
3. Provides interview details
4. Maintains professional yet friendly tone

Keep it concise (150-200 words).

Create an interview invitation for:

Candidate: %s
Email: %s
Position: %s
Company: %s
Match Score: %.1f%%
Key Strengths: %s

Generate the email body (no subject line):`,
		candidateName, candidateEmail, jobTitle, company, matchScore, strings.Join(topStrengths(strengths, 2), ", "))
}

func topStrengths(strengths []string, n int) []string {
	if len(strengths) <= n {
		return strengths
	}
	return strengths[:n]
}

// FormatRetrievedContext renders similarity-search hits into a prompt block.
func FormatRetrievedContext(results []SearchResult) string {
	if len(results) == 0 {
		return "No relevant context found."
	}

	var parts []string
	for i, result := range results {
		parts = append(parts, fmt.Sprintf("--- Context %d (Score: %.2f) ---\n%s",
			i+1, result.Distance, strings.TrimSpace(result.Document)))
	}

	return strings.Join(parts, "\n\n")
}
