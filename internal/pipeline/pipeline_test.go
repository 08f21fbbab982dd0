package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hirescreen/job-screening/internal/models"
	"hirescreen/job-screening/internal/repositories"
	"hirescreen/job-screening/internal/services"
	"hirescreen/job-screening/internal/testutil"
)

type stubExtractor struct {
	texts     map[string]string
	contacts  map[string]services.ContactInfo
	failPaths map[string]error
}

func (s *stubExtractor) ExtractText(filePath string) (string, error) {
	if err, ok := s.failPaths[filePath]; ok {
		return "", err
	}
	text, ok := s.texts[filePath]
	if !ok {
		return "", fmt.Errorf("file does not exist: %s", filePath)
	}
	return text, nil
}

func (s *stubExtractor) ExtractContactInfo(text string) services.ContactInfo {
	return s.contacts[text]
}

type stubSummarizer struct{}

func (stubSummarizer) SummarizeJob(_ context.Context, _ string) (string, error) {
	return `{"summary": "Senior Go role", "level": "Senior"}`, nil
}

func (stubSummarizer) SummarizeCV(_ context.Context, _ string) (string, error) {
	return `{"skills": ["Go"], "experience_years": 7}`, nil
}

type stubMatcher struct {
	analyses map[string]services.MatchAnalysis
	err      error
}

func (s *stubMatcher) Match(_ context.Context, input services.MatchInput) (services.MatchAnalysis, error) {
	if s.err != nil {
		return services.MatchAnalysis{}, s.err
	}
	analysis, ok := s.analyses[input.CandidateName]
	if !ok {
		return services.MatchAnalysis{
			MatchScore:     45.0,
			Reasoning:      "default",
			Recommendation: models.RecommendationPoorMatch,
		}, nil
	}
	return analysis, nil
}

type stubInviter struct {
	failFor map[string]bool
}

func (s *stubInviter) Compose(_ context.Context, input services.InviteInput) (string, error) {
	if s.failFor[input.CandidateName] {
		return "", errors.New("compose failed")
	}
	return fmt.Sprintf("Dear %s, we would like to interview you.", input.CandidateName), nil
}

type stubMailer struct {
	sent   []string
	failTo map[string]bool
}

func (s *stubMailer) Send(_ context.Context, to, _, _ string) error {
	if s.failTo[to] {
		return errors.New("smtp unreachable")
	}
	s.sent = append(s.sent, to)
	return nil
}

type vectorEntry struct {
	chunks   []string
	metadata map[string]string
}

// stubVector keeps indexed chunks in memory and answers queries with every
// stored chunk matching the filter, in insertion order.
type stubVector struct {
	entries   map[string][]vectorEntry
	failIndex map[string]error
}

func newStubVector() *stubVector {
	return &stubVector{
		entries:   make(map[string][]vectorEntry),
		failIndex: make(map[string]error),
	}
}

func (s *stubVector) Index(_ context.Context, collection, _ string, chunks []string, metadata map[string]string) (int, error) {
	if err, ok := s.failIndex[collection]; ok {
		return 0, err
	}
	s.entries[collection] = append(s.entries[collection], vectorEntry{chunks: chunks, metadata: metadata})
	return len(chunks), nil
}

func (s *stubVector) Query(_ context.Context, collection, _ string, filter map[string]string, topK int) ([]services.SearchResult, error) {
	var results []services.SearchResult
	for _, entry := range s.entries[collection] {
		if !matchesFilter(entry.metadata, filter) {
			continue
		}
		for _, chunk := range entry.chunks {
			if len(results) == topK {
				return results, nil
			}
			results = append(results, services.SearchResult{
				Document: chunk,
				Metadata: entry.metadata,
				Distance: 0.9,
			})
		}
	}
	return results, nil
}

func (s *stubVector) FullContext(_ context.Context, collection string, filter map[string]string) (string, error) {
	var texts []string
	for _, entry := range s.entries[collection] {
		if matchesFilter(entry.metadata, filter) {
			texts = append(texts, entry.chunks...)
		}
	}
	return strings.Join(texts, "\n\n"), nil
}

func (s *stubVector) Delete(_ context.Context, _ string, _ map[string]string) error {
	return nil
}

func matchesFilter(metadata, filter map[string]string) bool {
	for k, v := range filter {
		if metadata[k] != v {
			return false
		}
	}
	return true
}

type pipelineDeps struct {
	extractor  *stubExtractor
	matcher    *stubMatcher
	inviter    *stubInviter
	mailer     *stubMailer
	vector     *stubVector
	candidates repositories.CandidateRepository
	matches    repositories.MatchResultRepository
	interviews repositories.InterviewRepository
	jobs       repositories.JobRepository
}

const (
	aliceCV = "Alice Smith\nalice@example.com\nSeven years of Go and distributed systems."
	bobCV   = "Bob Jones\nbob@example.com\nJunior frontend developer."
)

func newTestPipeline(t *testing.T, settings Settings) (*Pipeline, *pipelineDeps) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	deps := &pipelineDeps{
		extractor: &stubExtractor{
			texts: map[string]string{
				"/tmp/jd.txt":    "We are hiring a Senior Backend Engineer.\n\n5+ years Go required.",
				"/tmp/alice.pdf": aliceCV,
				"/tmp/bob.pdf":   bobCV,
			},
			contacts: map[string]services.ContactInfo{
				aliceCV: {Name: "Alice Smith", Email: "alice@example.com", Phone: "+1 555 0100"},
				bobCV:   {Name: "Bob Jones", Email: "bob@example.com"},
			},
			failPaths: map[string]error{},
		},
		matcher: &stubMatcher{analyses: map[string]services.MatchAnalysis{
			"Alice Smith": {
				MatchScore:     82.0,
				Strengths:      []string{"Go expertise", "Distributed systems"},
				Gaps:           []string{"No Kubernetes"},
				Reasoning:      "Strong overlap",
				Recommendation: models.RecommendationStrongMatch,
				IsShortlisted:  true,
			},
			"Bob Jones": {
				MatchScore:     45.0,
				Gaps:           []string{"No backend experience"},
				Reasoning:      "Weak overlap",
				Recommendation: models.RecommendationPoorMatch,
				IsShortlisted:  false,
			},
		}},
		inviter:    &stubInviter{failFor: map[string]bool{}},
		mailer:     &stubMailer{failTo: map[string]bool{}},
		vector:     newStubVector(),
		candidates: repositories.NewCandidateRepository(db),
		matches:    repositories.NewMatchResultRepository(db),
		interviews: repositories.NewInterviewRepository(db),
		jobs:       repositories.NewJobRepository(db),
	}

	p := New(
		deps.extractor,
		services.NewTextChunker(500, 50),
		stubSummarizer{},
		deps.matcher,
		deps.inviter,
		deps.mailer,
		deps.vector,
		deps.jobs,
		deps.candidates,
		deps.matches,
		deps.interviews,
		settings,
		zap.NewNop(),
	)
	return p, deps
}

func defaultSettings() Settings {
	return Settings{
		CollectionJD:  "job_descriptions",
		CollectionCV:  "candidate_cvs",
		TopKContext:   3,
		MaxShortlist:  10,
		MinMatchScore: 60.0,
	}
}

func TestRunCompletesEndToEnd(t *testing.T) {
	p, deps := newTestPipeline(t, defaultSettings())

	state := p.Run(context.Background(), "Senior Backend Engineer", "Acme Corp",
		"/tmp/jd.txt", []string{"/tmp/alice.pdf", "/tmp/bob.pdf"})

	require.Equal(t, StatusCompleted, state.Status)
	assert.Empty(t, state.Error)
	assert.NotEqual(t, uuid.Nil, state.JobID)
	assert.NotEmpty(t, state.JDChunks)

	require.Len(t, state.Candidates, 2)
	require.Len(t, state.MatchResults, 2)
	// Ordered by score descending.
	assert.Equal(t, "Alice Smith", state.MatchResults[0].Name)
	assert.Equal(t, 82.0, state.MatchResults[0].MatchScore)
	assert.Equal(t, 45.0, state.MatchResults[1].MatchScore)

	require.Len(t, state.Shortlisted, 1)
	assert.Equal(t, "Alice Smith", state.Shortlisted[0].Name)

	require.Len(t, state.InvitesSent, 1)
	invite := state.InvitesSent[0]
	assert.True(t, invite.InviteSent)
	require.NotNil(t, invite.SentAt)
	assert.Equal(t, "Interview Invitation - Senior Backend Engineer at Acme Corp", invite.Subject)
	assert.Equal(t, []string{"alice@example.com"}, deps.mailer.sent)

	// Everything survived to the database.
	job, err := deps.jobs.FindByID(state.JobID)
	require.NoError(t, err)
	assert.Equal(t, "Senior Backend Engineer", job.Title)

	persisted, err := deps.candidates.FindByJobID(state.JobID)
	require.NoError(t, err)
	require.Len(t, persisted, 2)
	for _, candidate := range persisted {
		require.NotNil(t, candidate.MatchResult)
		if candidate.Name == "Alice Smith" {
			assert.True(t, candidate.MatchResult.IsShortlisted)
			interview, err := deps.interviews.FindByMatchResultID(candidate.MatchResult.ID)
			require.NoError(t, err)
			assert.True(t, interview.InviteSent)
			assert.Equal(t, models.InterviewInvited, interview.Status)
		} else {
			assert.False(t, candidate.MatchResult.IsShortlisted)
		}
	}

	// Both collections got indexed.
	assert.Len(t, deps.vector.entries["job_descriptions"], 1)
	assert.Len(t, deps.vector.entries["candidate_cvs"], 2)
}

func TestRunStopsOnJDIndexingFailure(t *testing.T) {
	p, deps := newTestPipeline(t, defaultSettings())
	deps.vector.failIndex["job_descriptions"] = errors.New("collection unavailable")

	state := p.Run(context.Background(), "Senior Backend Engineer", "Acme Corp",
		"/tmp/jd.txt", []string{"/tmp/alice.pdf"})

	require.Equal(t, StatusError, state.Status)
	assert.True(t, strings.HasPrefix(state.Error, "JD Indexing: "), "got %q", state.Error)
	// Stage 1 already ran; later stages never did.
	assert.NotEqual(t, uuid.Nil, state.JobID)
	assert.Empty(t, state.Candidates)
	assert.Empty(t, state.MatchResults)
	assert.Empty(t, state.InvitesSent)
}

func TestRunSkipsUnreadableCV(t *testing.T) {
	p, deps := newTestPipeline(t, defaultSettings())
	deps.extractor.failPaths["/tmp/corrupt.pdf"] = errors.New("failed to open PDF")

	state := p.Run(context.Background(), "Senior Backend Engineer", "Acme Corp",
		"/tmp/jd.txt", []string{"/tmp/alice.pdf", "/tmp/corrupt.pdf", "/tmp/bob.pdf"})

	require.Equal(t, StatusCompleted, state.Status)
	require.Len(t, state.Candidates, 2)
	assert.Equal(t, "Alice Smith", state.Candidates[0].Name)
	assert.Equal(t, "Bob Jones", state.Candidates[1].Name)
}

func TestRunFallsBackToPlaceholderContact(t *testing.T) {
	p, deps := newTestPipeline(t, defaultSettings())
	deps.extractor.texts["/tmp/anon.pdf"] = "an unstructured resume without a header"
	// No contacts entry for this text: name and email come back empty.

	state := p.Run(context.Background(), "Senior Backend Engineer", "Acme Corp",
		"/tmp/jd.txt", []string{"/tmp/anon.pdf"})

	require.Equal(t, StatusCompleted, state.Status)
	require.Len(t, state.Candidates, 1)
	assert.Equal(t, "Candidate_1", state.Candidates[0].Name)
	assert.Equal(t, "candidate1@example.com", state.Candidates[0].Email)
}

func TestRunEmptyShortlistCompletes(t *testing.T) {
	p, deps := newTestPipeline(t, defaultSettings())
	deps.matcher.analyses["Alice Smith"] = services.MatchAnalysis{
		MatchScore:     55.0,
		Reasoning:      "Close but under threshold",
		Recommendation: models.RecommendationPotentialMatch,
	}

	state := p.Run(context.Background(), "Senior Backend Engineer", "Acme Corp",
		"/tmp/jd.txt", []string{"/tmp/alice.pdf", "/tmp/bob.pdf"})

	require.Equal(t, StatusCompleted, state.Status)
	assert.Empty(t, state.Shortlisted)
	require.NotNil(t, state.InvitesSent)
	assert.Empty(t, state.InvitesSent)
	assert.Empty(t, deps.mailer.sent)
}

func TestRunRecordsSendFailureWithoutAborting(t *testing.T) {
	p, deps := newTestPipeline(t, defaultSettings())
	deps.mailer.failTo["alice@example.com"] = true

	state := p.Run(context.Background(), "Senior Backend Engineer", "Acme Corp",
		"/tmp/jd.txt", []string{"/tmp/alice.pdf", "/tmp/bob.pdf"})

	require.Equal(t, StatusCompleted, state.Status)
	require.Len(t, state.InvitesSent, 1)
	assert.False(t, state.InvitesSent[0].InviteSent)
	assert.Nil(t, state.InvitesSent[0].SentAt)

	// No interview row when delivery failed.
	persisted, err := deps.candidates.FindByJobID(state.JobID)
	require.NoError(t, err)
	for _, candidate := range persisted {
		if candidate.MatchResult == nil {
			continue
		}
		_, err := deps.interviews.FindByMatchResultID(candidate.MatchResult.ID)
		assert.Error(t, err)
	}
}

func TestRunRecordsComposeFailureWithoutAborting(t *testing.T) {
	p, deps := newTestPipeline(t, defaultSettings())
	deps.inviter.failFor["Alice Smith"] = true

	state := p.Run(context.Background(), "Senior Backend Engineer", "Acme Corp",
		"/tmp/jd.txt", []string{"/tmp/alice.pdf"})

	require.Equal(t, StatusCompleted, state.Status)
	require.Len(t, state.InvitesSent, 1)
	assert.False(t, state.InvitesSent[0].InviteSent)
	assert.Empty(t, state.InvitesSent[0].Body)
	assert.Empty(t, deps.mailer.sent)
}

func TestRunStopsOnMatcherInfrastructureFailure(t *testing.T) {
	p, deps := newTestPipeline(t, defaultSettings())
	deps.matcher.err = errors.New("failed to generate match evaluation: model unavailable")

	state := p.Run(context.Background(), "Senior Backend Engineer", "Acme Corp",
		"/tmp/jd.txt", []string{"/tmp/alice.pdf"})

	require.Equal(t, StatusError, state.Status)
	assert.True(t, strings.HasPrefix(state.Error, "Matching: "), "got %q", state.Error)
	// CV stages already ran.
	assert.Len(t, state.Candidates, 1)
	assert.Empty(t, state.Shortlisted)
}

func TestShortlistCapsAtMaximum(t *testing.T) {
	settings := defaultSettings()
	settings.MaxShortlist = 10
	p, _ := newTestPipeline(t, settings)

	state := &ScreeningState{}
	for i := 0; i < 12; i++ {
		state.MatchResults = append(state.MatchResults, MatchRecord{
			CandidateRecord: CandidateRecord{Name: fmt.Sprintf("Candidate_%d", i+1)},
			MatchScore:      float64(95 - i),
			IsShortlisted:   true,
		})
	}

	require.NoError(t, p.shortlist(context.Background(), state))

	require.Len(t, state.Shortlisted, 10)
	// Highest scores kept, order preserved.
	assert.Equal(t, "Candidate_1", state.Shortlisted[0].Name)
	assert.Equal(t, "Candidate_10", state.Shortlisted[9].Name)
}
