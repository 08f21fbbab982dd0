package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"hirescreen/job-screening/internal/models"
	"hirescreen/job-screening/internal/repositories"
	"hirescreen/job-screening/internal/services"
)

// matchQueryLimit bounds the slice of CV context used as the similarity
// query when pulling relevant job-description chunks.
const matchQueryLimit = 500

// Settings carries the tuning knobs a run needs.
type Settings struct {
	CollectionJD  string
	CollectionCV  string
	TopKContext   int
	MaxShortlist  int
	MinMatchScore float64
}

// Pipeline executes the seven screening stages against a single
// ScreeningState, halting on the first stage failure. All collaborators are
// injected so each can be replaced by a test double.
type Pipeline struct {
	extractor  services.TextExtractor
	chunker    services.TextChunker
	summarizer services.Summarizer
	matcher    services.Matcher
	inviter    services.Inviter
	mailer     services.Mailer
	vector     services.VectorIndex

	jobs       repositories.JobRepository
	candidates repositories.CandidateRepository
	matches    repositories.MatchResultRepository
	interviews repositories.InterviewRepository

	settings Settings
	logger   *zap.Logger
}

func New(
	extractor services.TextExtractor,
	chunker services.TextChunker,
	summarizer services.Summarizer,
	matcher services.Matcher,
	inviter services.Inviter,
	mailer services.Mailer,
	vector services.VectorIndex,
	jobs repositories.JobRepository,
	candidates repositories.CandidateRepository,
	matches repositories.MatchResultRepository,
	interviews repositories.InterviewRepository,
	settings Settings,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		extractor:  extractor,
		chunker:    chunker,
		summarizer: summarizer,
		matcher:    matcher,
		inviter:    inviter,
		mailer:     mailer,
		vector:     vector,
		jobs:       jobs,
		candidates: candidates,
		matches:    matches,
		interviews: interviews,
		settings:   settings,
		logger:     logger,
	}
}

type stage struct {
	label string
	next  Status
	run   func(ctx context.Context, state *ScreeningState) error
}

// Run executes the full screening workflow. Failures never surface as a
// returned error: the terminal state carries status "error" and a
// stage-qualified message, with whatever fields earlier stages populated.
func (p *Pipeline) Run(ctx context.Context, jobTitle, company, jdFilePath string, cvFilePaths []string) *ScreeningState {
	state := &ScreeningState{
		JobTitle:    jobTitle,
		Company:     company,
		JDFilePath:  jdFilePath,
		CVFilePaths: cvFilePaths,
		Status:      StatusInitialized,
	}

	stages := []stage{
		{"JD Processing", StatusJDProcessed, p.processJD},
		{"JD Indexing", StatusJDIndexed, p.indexJD},
		{"CV Processing", StatusCVsProcessed, p.processCVs},
		{"CV Indexing", StatusCVsIndexed, p.indexCVs},
		{"Matching", StatusMatched, p.matchCandidates},
		{"Shortlisting", StatusShortlisted, p.shortlist},
		{"Sending Invites", StatusCompleted, p.sendInvites},
	}

	for _, s := range stages {
		if err := s.run(ctx, state); err != nil {
			state.Status = StatusError
			state.Error = fmt.Sprintf("%s: %v", s.label, err)
			p.logger.Error("screening stage failed",
				zap.String("stage", s.label),
				zap.Error(err))
			return state
		}
		state.Status = s.next
	}

	return state
}

// processJD extracts, summarizes and chunks the job description, then
// persists it. Populates JobID, JDText, JDSummary and JDChunks.
func (p *Pipeline) processJD(ctx context.Context, state *ScreeningState) error {
	p.logger.Info("processing job description", zap.String("path", state.JDFilePath))

	text, err := p.extractor.ExtractText(state.JDFilePath)
	if err != nil {
		return err
	}

	summary, err := p.summarizer.SummarizeJob(ctx, text)
	if err != nil {
		return err
	}

	chunks := p.chunker.Split(text)

	job := &models.JobDescription{
		Title:        state.JobTitle,
		Company:      state.Company,
		Description:  text,
		Requirements: text,
		Summary:      summary,
		FilePath:     state.JDFilePath,
	}
	if err := p.jobs.Create(job); err != nil {
		return err
	}

	state.JobID = job.ID
	state.JDText = text
	state.JDSummary = summary
	state.JDChunks = chunks

	p.logger.Info("job description processed", zap.Int("chunks", len(chunks)))
	return nil
}

// indexJD embeds and stores the job-description chunks for job-scoped
// retrieval.
func (p *Pipeline) indexJD(ctx context.Context, state *ScreeningState) error {
	count, err := p.vector.Index(ctx,
		p.settings.CollectionJD,
		fmt.Sprintf("jd_%s", state.JobID),
		state.JDChunks,
		map[string]string{
			"job_id":    state.JobID.String(),
			"job_title": state.JobTitle,
			"company":   state.Company,
		})
	if err != nil {
		return err
	}

	p.logger.Info("job description indexed", zap.Int("chunks", count))
	return nil
}

// processCVs handles every CV path independently. A CV that fails to
// extract, summarize or persist is logged and skipped; it never aborts the
// batch.
func (p *Pipeline) processCVs(ctx context.Context, state *ScreeningState) error {
	p.logger.Info("processing CVs", zap.Int("count", len(state.CVFilePaths)))

	for _, cvPath := range state.CVFilePaths {
		record, err := p.processOneCV(ctx, state, cvPath)
		if err != nil {
			p.logger.Warn("failed to process CV, skipping",
				zap.String("path", cvPath),
				zap.Error(err))
			continue
		}
		state.Candidates = append(state.Candidates, *record)
		p.logger.Info("CV processed", zap.String("candidate", record.Name))
	}

	p.logger.Info("CVs processed", zap.Int("candidates", len(state.Candidates)))
	return nil
}

func (p *Pipeline) processOneCV(ctx context.Context, state *ScreeningState, cvPath string) (*CandidateRecord, error) {
	text, err := p.extractor.ExtractText(cvPath)
	if err != nil {
		return nil, err
	}

	n := len(state.Candidates) + 1
	info := p.extractor.ExtractContactInfo(text)
	name := info.Name
	if name == "" {
		name = fmt.Sprintf("Candidate_%d", n)
	}
	email := info.Email
	if email == "" {
		email = fmt.Sprintf("candidate%d@example.com", n)
	}

	chunks := p.chunker.Split(text)

	analysis, err := p.summarizer.SummarizeCV(ctx, text)
	if err != nil {
		return nil, err
	}

	candidate := &models.Candidate{
		Name:     name,
		Email:    email,
		Phone:    info.Phone,
		CVText:   text,
		FilePath: cvPath,
		JobID:    state.JobID,
	}
	if err := p.candidates.Create(candidate); err != nil {
		return nil, err
	}

	return &CandidateRecord{
		ID:       candidate.ID,
		Name:     name,
		Email:    email,
		Phone:    info.Phone,
		CVText:   text,
		Chunks:   chunks,
		Analysis: analysis,
	}, nil
}

// indexCVs embeds and stores every candidate's chunks, tagged with candidate
// and job ids.
func (p *Pipeline) indexCVs(ctx context.Context, state *ScreeningState) error {
	for _, candidate := range state.Candidates {
		_, err := p.vector.Index(ctx,
			p.settings.CollectionCV,
			fmt.Sprintf("cv_%s", candidate.ID),
			candidate.Chunks,
			map[string]string{
				"candidate_id":   candidate.ID.String(),
				"candidate_name": candidate.Name,
				"job_id":         state.JobID.String(),
			})
		if err != nil {
			return err
		}
	}

	p.logger.Info("CVs indexed", zap.Int("candidates", len(state.Candidates)))
	return nil
}

// matchCandidates scores every candidate against the job using retrieved
// context. Malformed scoring responses are degraded inside the matcher; any
// error reaching this level is an infrastructure failure that aborts the
// stage.
func (p *Pipeline) matchCandidates(ctx context.Context, state *ScreeningState) error {
	for _, candidate := range state.Candidates {
		p.logger.Info("evaluating candidate", zap.String("candidate", candidate.Name))

		cvContext, err := p.vector.FullContext(ctx,
			p.settings.CollectionCV,
			map[string]string{"candidate_id": candidate.ID.String()})
		if err != nil {
			return err
		}

		query := cvContext
		if runes := []rune(query); len(runes) > matchQueryLimit {
			query = string(runes[:matchQueryLimit])
		}

		hits, err := p.vector.Query(ctx,
			p.settings.CollectionJD,
			query,
			map[string]string{"job_id": state.JobID.String()},
			p.settings.TopKContext)
		if err != nil {
			return err
		}

		jdContextParts := make([]string, 0, len(hits))
		for _, hit := range hits {
			jdContextParts = append(jdContextParts, hit.Document)
		}

		analysis, err := p.matcher.Match(ctx, services.MatchInput{
			CandidateName: candidate.Name,
			JDSummary:     state.JDSummary,
			JDContext:     strings.Join(jdContextParts, "\n\n"),
			CVContext:     cvContext,
		})
		if err != nil {
			return err
		}

		result := &models.MatchResult{
			CandidateID:    candidate.ID,
			MatchScore:     analysis.MatchScore,
			Reasoning:      analysis.Reasoning,
			Recommendation: analysis.Recommendation,
			IsShortlisted:  analysis.IsShortlisted,
		}
		result.SetStrengths(analysis.Strengths)
		result.SetGaps(analysis.Gaps)
		if err := p.matches.Create(result); err != nil {
			return err
		}

		state.MatchResults = append(state.MatchResults, MatchRecord{
			CandidateRecord: candidate,
			MatchScore:      analysis.MatchScore,
			Strengths:       analysis.Strengths,
			Gaps:            analysis.Gaps,
			Reasoning:       analysis.Reasoning,
			Recommendation:  analysis.Recommendation,
			IsShortlisted:   analysis.IsShortlisted,
		})

		p.logger.Info("candidate scored",
			zap.String("candidate", candidate.Name),
			zap.Float64("score", analysis.MatchScore),
			zap.String("recommendation", string(analysis.Recommendation)))
	}

	sort.SliceStable(state.MatchResults, func(i, j int) bool {
		return state.MatchResults[i].MatchScore > state.MatchResults[j].MatchScore
	})

	p.logger.Info("candidates matched", zap.Int("count", len(state.MatchResults)))
	return nil
}

// shortlist filters matched candidates down to those clearing the minimum
// score, capped at the configured maximum. Pure state manipulation, no
// external calls.
func (p *Pipeline) shortlist(_ context.Context, state *ScreeningState) error {
	shortlisted := make([]MatchRecord, 0, p.settings.MaxShortlist)
	for _, record := range state.MatchResults {
		if !record.IsShortlisted {
			continue
		}
		shortlisted = append(shortlisted, record)
		if len(shortlisted) == p.settings.MaxShortlist {
			break
		}
	}

	state.Shortlisted = shortlisted

	p.logger.Info("candidates shortlisted",
		zap.Int("count", len(shortlisted)),
		zap.Float64("min_score", p.settings.MinMatchScore))
	return nil
}

// sendInvites generates and delivers an invitation per shortlisted
// candidate. An empty shortlist is a valid terminal outcome, not an error.
// Compose and delivery failures are recorded per candidate and never abort
// the batch.
func (p *Pipeline) sendInvites(ctx context.Context, state *ScreeningState) error {
	if len(state.Shortlisted) == 0 {
		p.logger.Info("no candidates to invite")
		state.InvitesSent = []InviteResult{}
		return nil
	}

	jobCandidates, err := p.candidates.FindByJobID(state.JobID)
	if err != nil {
		return err
	}
	matchResultIDs := make(map[string]*models.MatchResult, len(jobCandidates))
	for _, c := range jobCandidates {
		if c.MatchResult != nil {
			matchResultIDs[c.ID.String()] = c.MatchResult
		}
	}

	for _, record := range state.Shortlisted {
		result := InviteResult{
			CandidateID: record.ID,
			Name:        record.Name,
			Email:       record.Email,
			Subject:     services.InviteSubject(state.JobTitle, state.Company),
		}

		body, err := p.inviter.Compose(ctx, services.InviteInput{
			CandidateName:  record.Name,
			CandidateEmail: record.Email,
			JobTitle:       state.JobTitle,
			Company:        state.Company,
			MatchScore:     record.MatchScore,
			Strengths:      record.Strengths,
		})
		if err != nil {
			p.logger.Warn("failed to compose invitation",
				zap.String("candidate", record.Name),
				zap.Error(err))
			state.InvitesSent = append(state.InvitesSent, result)
			continue
		}
		result.Body = body

		if err := p.mailer.Send(ctx, record.Email, result.Subject, body); err != nil {
			p.logger.Warn("failed to send invitation",
				zap.String("candidate", record.Name),
				zap.Error(err))
			state.InvitesSent = append(state.InvitesSent, result)
			continue
		}

		now := time.Now().UTC()
		result.InviteSent = true
		result.SentAt = &now
		state.InvitesSent = append(state.InvitesSent, result)

		// Candidates without a stored match result are skipped here.
		matchResult, ok := matchResultIDs[record.ID.String()]
		if !ok {
			continue
		}
		interview := &models.Interview{
			MatchResultID: matchResult.ID,
			Status:        models.InterviewInvited,
			InviteSent:    true,
			InviteMessage: body,
		}
		if err := p.interviews.Create(interview); err != nil {
			return err
		}
	}

	p.logger.Info("interview invitations processed", zap.Int("count", len(state.InvitesSent)))
	return nil
}
