package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elevohq/interview-engine/internal/interview"
	"github.com/elevohq/interview-engine/internal/models"
	"github.com/elevohq/interview-engine/internal/providers/llm"
	"github.com/elevohq/interview-engine/internal/resume"
	"github.com/elevohq/interview-engine/internal/utils"
)

// --- in-memory fakes ---

type memSessions struct {
	byID map[string]*models.InterviewSession
}

func newMemSessions() *memSessions {
	return &memSessions{byID: make(map[string]*models.InterviewSession)}
}

func (m *memSessions) Create(_ context.Context, s *models.InterviewSession) error {
	cp := *s
	m.byID[s.SessionID] = &cp
	return nil
}

func (m *memSessions) GetBySessionID(_ context.Context, sessionID string) (*models.InterviewSession, error) {
	s, ok := m.byID[sessionID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSessions) Complete(_ context.Context, sessionID string, endedAt time.Time, score int) error {
	s, ok := m.byID[sessionID]
	if !ok {
		return utils.ErrNotFound
	}
	s.Status = models.SessionCompleted
	s.EndedAt = &endedAt
	s.Score = &score
	return nil
}

func (m *memSessions) ListByUser(_ context.Context, userID string) ([]models.InterviewSession, error) {
	var out []models.InterviewSession
	for _, s := range m.byID {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type memTurns struct {
	rows []models.InterviewTurn
}

func (m *memTurns) Create(_ context.Context, t *models.InterviewTurn) error {
	for _, r := range m.rows {
		if r.SessionID == t.SessionID && r.TurnNumber == t.TurnNumber {
			return fmt.Errorf("duplicate turn %d for session %s", t.TurnNumber, t.SessionID)
		}
	}
	m.rows = append(m.rows, *t)
	return nil
}

func (m *memTurns) AttachAnswer(_ context.Context, turnID, answer string) error {
	for i := range m.rows {
		if m.rows[i].ID == turnID {
			a := answer
			m.rows[i].Answer = &a
			return nil
		}
	}
	return utils.ErrNotFound
}

func (m *memTurns) ListBySession(_ context.Context, sessionID string) ([]models.InterviewTurn, error) {
	var out []models.InterviewTurn
	for _, r := range m.rows {
		if r.SessionID == sessionID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TurnNumber < out[j].TurnNumber })
	return out, nil
}

func (m *memTurns) CountBySession(_ context.Context, sessionID string) (int, error) {
	n := 0
	for _, r := range m.rows {
		if r.SessionID == sessionID {
			n++
		}
	}
	return n, nil
}

type memProfiles struct {
	byUser map[string]*models.CandidateProfile
}

func newMemProfiles() *memProfiles {
	return &memProfiles{byUser: make(map[string]*models.CandidateProfile)}
}

func (m *memProfiles) GetByUserID(_ context.Context, userID string) (*models.CandidateProfile, error) {
	p, ok := m.byUser[userID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memProfiles) Upsert(_ context.Context, p *models.CandidateProfile) error {
	cp := *p
	m.byUser[p.UserID] = &cp
	return nil
}

type memCache struct {
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (m *memCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	b, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (m *memCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	m.data[key] = b
	return nil
}

func (m *memCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memCache) Lock(_ context.Context, sessionID string, _ time.Duration) (func(), bool, error) {
	key := "lock:" + sessionID
	if _, held := m.data[key]; held {
		return nil, false, nil
	}
	m.data[key] = []byte("1")
	return func() { delete(m.data, key) }, true, nil
}

type busyLocker struct{}

func (busyLocker) Lock(context.Context, string, time.Duration) (func(), bool, error) {
	return nil, false, nil
}

type offlineGenerator struct{}

func (offlineGenerator) Generate(context.Context, llm.Request) (llm.Result, error) {
	return llm.Result{}, llm.ErrExhausted
}
func (offlineGenerator) Enabled() bool { return false }

// --- wiring ---

type fixture struct {
	svc      InterviewService
	sessions *memSessions
	turns    *memTurns
	profiles *memProfiles
	cache    *memCache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	gate := interview.NewQualityGate()
	bank := interview.NewFallbackBank(gate)
	synth := interview.NewSynthesizer(offlineGenerator{}, gate, bank, log)
	feedback := interview.NewFeedbackSynthesizer(offlineGenerator{}, log)
	extractor := resume.NewExtractor(offlineGenerator{}, log)

	f := &fixture{
		sessions: newMemSessions(),
		turns:    &memTurns{},
		profiles: newMemProfiles(),
		cache:    newMemCache(),
	}
	f.svc = NewInterviewService(
		f.sessions, f.turns, f.profiles,
		synth, feedback, extractor,
		f.cache, f.cache, log,
		5, 8,
	)
	return f
}

func seedProfile(f *fixture, userID string) {
	f.profiles.byUser[userID] = &models.CandidateProfile{
		UserID:               userID,
		CandidateName:        "Jordan",
		Skills:               []string{"Python", "SQL"},
		Projects:             []string{"fraud-detection pipeline"},
		ExperienceHighlights: []string{"reduced batch latency by 40%"},
		HRSignals:            []string{"led a team of four"},
	}
}

// --- tests ---

func TestInterviewService_Start(t *testing.T) {
	f := newFixture(t)
	seedProfile(f, "u-1")

	out, err := f.svc.Start(context.Background(), "u-1", StartInput{
		Track:      models.TrackTechnical,
		TargetRole: "Data Engineer",
	})
	require.NoError(t, err)

	assert.Equal(t, models.SessionInProgress, out.Session.Status)
	assert.Equal(t, "Data Engineer", out.Session.TargetRole)
	assert.Equal(t, 8, out.Session.Plan.TotalQuestions)
	assert.Equal(t, "Jordan", out.Session.Plan.ResumeAnchor.CandidateName)

	require.NotNil(t, out.Opening)
	assert.Equal(t, 1, out.Opening.TurnNumber)
	assert.Contains(t, out.Opening.Question, "introduce yourself")

	var prov models.Provenance
	require.NoError(t, json.Unmarshal(out.Opening.Provenance, &prov))
	assert.Equal(t, "opening", prov.Type)
	assert.Equal(t, "system", prov.Provider)
	assert.Equal(t, string(interview.StageIntroduction), prov.Stage)
}

func TestInterviewService_Start_InvalidTrack(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Start(context.Background(), "u-1", StartInput{Track: "managerial"})
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestInterviewService_FullInterviewFlow(t *testing.T) {
	f := newFixture(t)
	seedProfile(f, "u-1")
	ctx := context.Background()

	started, err := f.svc.Start(ctx, "u-1", StartInput{
		Track:      models.TrackTechnical,
		TargetRole: "Data Engineer",
	})
	require.NoError(t, err)
	sid := started.Session.SessionID

	answer := "I designed and implemented the ingestion layer which reduced latency by 40% for our users."

	var closing *TurnResult
	for i := 1; i <= 8; i++ {
		out, err := f.svc.Advance(ctx, "u-1", sid, TurnInput{Answer: answer})
		require.NoError(t, err, "advance %d", i)

		if i < 8 {
			assert.False(t, out.Completed, "advance %d", i)
			assert.Equal(t, i+1, out.TurnNumber)
			assert.NotEmpty(t, out.Question)
			require.NotNil(t, out.AnswerQuality)
			assert.True(t, out.AnswerQuality.HasActionLanguage)
		} else {
			closing = out
		}
	}

	require.NotNil(t, closing)
	assert.True(t, closing.Completed)
	assert.Equal(t, string(interview.StageCompleted), closing.Stage)
	assert.Equal(t, interview.FallbackClosing, closing.Question)
	require.NotNil(t, closing.Feedback)
	assert.Equal(t, interview.DefaultFeedback("Data Engineer"), *closing.Feedback)

	// 1 opening + 7 generated questions + 1 closing
	turns, err := f.turns.ListBySession(ctx, sid)
	require.NoError(t, err)
	assert.Len(t, turns, 9)
	for i, turn := range turns {
		assert.Equal(t, i+1, turn.TurnNumber)
	}

	sess, err := f.sessions.GetBySessionID(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, models.SessionCompleted, sess.Status)
	require.NotNil(t, sess.Score)
	assert.Equal(t, closing.Feedback.OverallScore, *sess.Score)
	assert.NotNil(t, sess.EndedAt)

	// completion is one-way: another turn is rejected
	_, err = f.svc.Advance(ctx, "u-1", sid, TurnInput{Answer: "one more"})
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeConflict))
}

func TestInterviewService_NoDuplicateQuestionsInWindow(t *testing.T) {
	f := newFixture(t)
	seedProfile(f, "u-1")
	ctx := context.Background()

	started, err := f.svc.Start(ctx, "u-1", StartInput{Track: models.TrackTechnical, TargetRole: "Data Engineer"})
	require.NoError(t, err)

	gate := interview.NewQualityGate()
	for i := 1; i <= 7; i++ {
		_, err := f.svc.Advance(ctx, "u-1", started.Session.SessionID, TurnInput{Answer: "I built the ingestion path."})
		require.NoError(t, err)
	}

	turns, err := f.turns.ListBySession(ctx, started.Session.SessionID)
	require.NoError(t, err)
	for i := 1; i < len(turns); i++ {
		lo := i - 4
		if lo < 0 {
			lo = 0
		}
		var recent []string
		for _, prev := range turns[lo:i] {
			recent = append(recent, prev.Question)
		}
		assert.False(t, gate.Repetitive(turns[i].Question, recent), "turn %d repeats recent question", turns[i].TurnNumber)
	}
}

func TestInterviewService_EmptyAnswerRejected(t *testing.T) {
	f := newFixture(t)
	seedProfile(f, "u-1")
	ctx := context.Background()

	started, err := f.svc.Start(ctx, "u-1", StartInput{Track: models.TrackTechnical, TargetRole: "Data Engineer"})
	require.NoError(t, err)
	sid := started.Session.SessionID

	for _, blank := range []string{"", "   \n\t"} {
		_, err := f.svc.Advance(ctx, "u-1", sid, TurnInput{Answer: blank})
		require.Error(t, err)
		assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
	}

	// no question turn was minted for a blank answer
	turns, err := f.turns.ListBySession(ctx, sid)
	require.NoError(t, err)
	assert.Len(t, turns, 1)
}

func TestInterviewService_EndBeforeMinimumRejected(t *testing.T) {
	f := newFixture(t)
	seedProfile(f, "u-1")
	ctx := context.Background()

	started, err := f.svc.Start(ctx, "u-1", StartInput{Track: models.TrackHR, TargetRole: "Recruiter"})
	require.NoError(t, err)
	sid := started.Session.SessionID

	for i := 0; i < 2; i++ {
		_, err = f.svc.Advance(ctx, "u-1", sid, TurnInput{Answer: "I enjoy working with people."})
		require.NoError(t, err)
	}

	_, err = f.svc.Advance(ctx, "u-1", sid, TurnInput{Answer: "Final thoughts.", RequestType: "end"})
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestInterviewService_EndAfterMinimumCloses(t *testing.T) {
	f := newFixture(t)
	seedProfile(f, "u-1")
	ctx := context.Background()

	started, err := f.svc.Start(ctx, "u-1", StartInput{Track: models.TrackHR, TargetRole: "Recruiter"})
	require.NoError(t, err)
	sid := started.Session.SessionID

	for i := 0; i < 4; i++ {
		_, err = f.svc.Advance(ctx, "u-1", sid, TurnInput{Answer: "I enjoy working with people."})
		require.NoError(t, err)
	}

	out, err := f.svc.Advance(ctx, "u-1", sid, TurnInput{Answer: "That covers everything.", RequestType: "end"})
	require.NoError(t, err)
	assert.True(t, out.Completed)
	require.NotNil(t, out.Feedback)
}

func TestInterviewService_BusySessionRejected(t *testing.T) {
	f := newFixture(t)
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	gate := interview.NewQualityGate()
	synth := interview.NewSynthesizer(offlineGenerator{}, gate, interview.NewFallbackBank(gate), log)
	svc := NewInterviewService(
		f.sessions, f.turns, f.profiles,
		synth, interview.NewFeedbackSynthesizer(offlineGenerator{}, log),
		resume.NewExtractor(offlineGenerator{}, log),
		f.cache, busyLocker{}, log,
		5, 8,
	)

	_, err := svc.Advance(context.Background(), "u-1", "s-1", TurnInput{Answer: "hello"})
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeConflict))
}

func TestInterviewService_OwnershipIsEnforced(t *testing.T) {
	f := newFixture(t)
	seedProfile(f, "u-1")
	ctx := context.Background()

	started, err := f.svc.Start(ctx, "u-1", StartInput{Track: models.TrackTechnical, TargetRole: "Data Engineer"})
	require.NoError(t, err)

	_, _, err = f.svc.Get(ctx, "u-2", started.Session.SessionID)
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))

	_, err = f.svc.Advance(ctx, "u-2", started.Session.SessionID, TurnInput{Answer: "hi"})
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestInterviewService_ReviewMetricsAndCachedFeedback(t *testing.T) {
	f := newFixture(t)
	seedProfile(f, "u-1")
	ctx := context.Background()

	started, err := f.svc.Start(ctx, "u-1", StartInput{Track: models.TrackTechnical, TargetRole: "Data Engineer"})
	require.NoError(t, err)
	sid := started.Session.SessionID

	for i := 1; i <= 8; i++ {
		_, err = f.svc.Advance(ctx, "u-1", sid, TurnInput{Answer: "I built and delivered the reporting pipeline for 2000 users."})
		require.NoError(t, err)
	}

	review, err := f.svc.Review(ctx, "u-1", sid)
	require.NoError(t, err)

	assert.Equal(t, models.SessionCompleted, review.Session.Status)
	assert.Len(t, review.Turns, 9)
	assert.Equal(t, 8, review.Metrics.QuestionsAnswered)
	assert.Equal(t, 9, review.Metrics.QuestionsAsked)
	assert.Equal(t, 100, review.Metrics.EngagementScore)
	assert.Greater(t, review.Metrics.AvgAnswerQuality, 0)

	// every answer is the same 10-word sentence
	assert.Equal(t, 80, review.Metrics.TotalWords)
	assert.Equal(t, 10, review.Metrics.AvgResponseLength)
	assert.Equal(t, 0, review.Metrics.DurationMinutes)

	stageTotal := 0
	for _, n := range review.Metrics.StageDistribution {
		stageTotal += n
	}
	assert.Equal(t, 9, stageTotal)
	assert.GreaterOrEqual(t, review.Metrics.StageDistribution[string(interview.StageIntroduction)], 1)
	assert.Equal(t, 1, review.Metrics.StageDistribution[string(interview.StageCompleted)])

	require.NotNil(t, review.Feedback)
	assert.Equal(t, interview.DefaultFeedback("Data Engineer"), *review.Feedback)
}

func TestInterviewService_ReviewInProgressHasNoFeedback(t *testing.T) {
	f := newFixture(t)
	seedProfile(f, "u-1")
	ctx := context.Background()

	started, err := f.svc.Start(ctx, "u-1", StartInput{Track: models.TrackTechnical, TargetRole: "Data Engineer"})
	require.NoError(t, err)

	review, err := f.svc.Review(ctx, "u-1", started.Session.SessionID)
	require.NoError(t, err)
	assert.Nil(t, review.Feedback)
	assert.Equal(t, 1, review.Metrics.QuestionsAsked)
	assert.Equal(t, 0, review.Metrics.QuestionsAnswered)
}

func TestInterviewService_HintsUseCurrentQuestion(t *testing.T) {
	f := newFixture(t)
	seedProfile(f, "u-1")
	ctx := context.Background()

	started, err := f.svc.Start(ctx, "u-1", StartInput{Track: models.TrackTechnical, TargetRole: "Data Engineer"})
	require.NoError(t, err)

	out, err := f.svc.Hints(ctx, "u-1", started.Session.SessionID)
	require.NoError(t, err)
	assert.Len(t, out.Items, 3)
	assert.Equal(t, "fallback", out.Provider)
}

func TestInterviewService_StartWithInlineResumeText(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.svc.Start(ctx, "u-9", StartInput{
		Track:      models.TrackTechnical,
		TargetRole: "Data Engineer",
		ResumeText: "Jordan Smith\nBuilt a fraud detection project in Python that reduced losses by 12%.\nB.Tech, State University",
	})
	require.NoError(t, err)

	// the inline resume seeded a stored profile and the plan anchors on it
	stored, err := f.profiles.GetByUserID(ctx, "u-9")
	require.NoError(t, err)
	assert.NotEmpty(t, stored.ResumeText)
	assert.NotEmpty(t, out.Session.Plan.ResumeAnchor.Projects)
}
