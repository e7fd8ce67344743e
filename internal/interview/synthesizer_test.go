package interview

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elevohq/interview-engine/internal/models"
	"github.com/elevohq/interview-engine/internal/providers/llm"
)

// scriptedGenerator replays queued responses in order; each entry is either a
// text or an error.
type scriptedGenerator struct {
	responses []llm.Result
	errs      []error
	calls     int
	prompts   []string
}

func (s *scriptedGenerator) Generate(_ context.Context, req llm.Request) (llm.Result, error) {
	idx := s.calls
	s.calls++
	s.prompts = append(s.prompts, req.Prompt)
	if idx < len(s.errs) && s.errs[idx] != nil {
		return llm.Result{}, s.errs[idx]
	}
	if idx < len(s.responses) {
		return s.responses[idx], nil
	}
	return llm.Result{}, llm.ErrExhausted
}

func (s *scriptedGenerator) Enabled() bool { return true }

type disabledGenerator struct{}

func (disabledGenerator) Generate(context.Context, llm.Request) (llm.Result, error) {
	return llm.Result{}, llm.ErrExhausted
}
func (disabledGenerator) Enabled() bool { return false }

func testSynthesizer(gw Generator) *Synthesizer {
	gate := NewQualityGate()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewSynthesizer(gw, gate, NewFallbackBank(gate), log)
}

func testSession(track models.Track) *models.InterviewSession {
	plan := testPlan(track)
	return &models.InterviewSession{
		SessionID:  "s-1",
		UserID:     "u-1",
		Track:      track,
		TargetRole: plan.Role,
		KeySkills:  plan.SkillsFocus,
		Plan:       plan,
		Status:     models.SessionInProgress,
	}
}

func turnsWithQuestions(questions ...string) []models.InterviewTurn {
	turns := make([]models.InterviewTurn, 0, len(questions))
	for i, q := range questions {
		a := "I worked on the ingestion path and owned its reliability."
		turns = append(turns, models.InterviewTurn{
			TurnNumber: i + 1,
			Question:   q,
			Answer:     &a,
		})
	}
	return turns
}

func TestSynthesizer_PrimaryAccepted(t *testing.T) {
	good := "Can you explain the core architecture decisions you made in your pipeline project?"
	gw := &scriptedGenerator{responses: []llm.Result{{Text: good, Provider: "gemini", Model: "models/gemini-2.0-flash"}}}
	s := testSynthesizer(gw)

	q, prov := s.NextQuestion(context.Background(), testSession(models.TrackTechnical),
		turnsWithQuestions("Please introduce yourself and summarize your resume highlights for me today?"), "I led the data platform work.")

	assert.Equal(t, good, q)
	assert.Equal(t, "followup", prov.Type)
	assert.Equal(t, "gemini", prov.Provider)
	assert.Equal(t, string(StageTechnicalCore), prov.Stage)
	assert.Equal(t, 1, gw.calls)
}

func TestSynthesizer_RepairRecoversBrokenDraft(t *testing.T) {
	broken := "So about your project and"
	repaired := "Could you describe the toughest scaling problem you solved in your pipeline project?"
	gw := &scriptedGenerator{responses: []llm.Result{
		{Text: broken, Provider: "gemini", Model: "m"},
		{Text: repaired, Provider: "gemini", Model: "m"},
	}}
	s := testSynthesizer(gw)

	q, prov := s.NextQuestion(context.Background(), testSession(models.TrackTechnical),
		turnsWithQuestions("Please introduce yourself and summarize your resume highlights for me today?"), "I led the data platform work.")

	assert.Equal(t, repaired, q)
	assert.Equal(t, "followup", prov.Type)
	assert.Equal(t, 2, gw.calls)
}

func TestSynthesizer_LadderFallsBackToBank(t *testing.T) {
	// primary, repair, and targeted follow-up all produce unusable drafts
	bad := "and then,"
	gw := &scriptedGenerator{responses: []llm.Result{
		{Text: bad, Provider: "gemini", Model: "m"},
		{Text: bad, Provider: "gemini", Model: "m"},
		{Text: bad, Provider: "gemini", Model: "m"},
	}}
	s := testSynthesizer(gw)

	q, prov := s.NextQuestion(context.Background(), testSession(models.TrackTechnical),
		turnsWithQuestions("Please introduce yourself and summarize your resume highlights for me today?"), "I led the data platform work.")

	require.NotEmpty(t, q)
	assert.Equal(t, "fallback", prov.Provider)
	assert.Equal(t, "static", prov.Model)
	assert.Equal(t, 3, gw.calls)
}

func TestSynthesizer_DisabledGatewayUsesBankOnly(t *testing.T) {
	s := testSynthesizer(disabledGenerator{})

	q, prov := s.NextQuestion(context.Background(), testSession(models.TrackTechnical),
		turnsWithQuestions("Please introduce yourself and summarize your resume highlights for me today?"), "I led the data platform work.")

	require.NotEmpty(t, q)
	assert.Equal(t, "fallback", prov.Provider)
}

func TestSynthesizer_Closing_Fallback(t *testing.T) {
	s := testSynthesizer(disabledGenerator{})

	msg, prov := s.Closing(context.Background(), testSession(models.TrackTechnical), 8)
	assert.Equal(t, FallbackClosing, msg)
	assert.Equal(t, "closing", prov.Type)
	assert.Equal(t, string(StageCompleted), prov.Stage)
}

func TestSynthesizer_Hints_FallbackIsThreeItems(t *testing.T) {
	s := testSynthesizer(disabledGenerator{})

	hints, provider, _ := s.Hints(context.Background(), testSession(models.TrackTechnical), "What did you build?")
	assert.Len(t, hints, 3)
	assert.Equal(t, "fallback", provider)
}

func TestSynthesizer_Hints_ParsesProviderJSON(t *testing.T) {
	gw := &scriptedGenerator{responses: []llm.Result{
		{Text: `["Lead with the outcome.","Name the stack.","Quantify the impact."]`, Provider: "openai", Model: "gpt-4o-mini"},
	}}
	s := testSynthesizer(gw)

	hints, provider, model := s.Hints(context.Background(), testSession(models.TrackTechnical), "What did you build?")
	assert.Equal(t, []string{"Lead with the outcome.", "Name the stack.", "Quantify the impact."}, hints)
	assert.Equal(t, "openai", provider)
	assert.Equal(t, "gpt-4o-mini", model)
}

func TestSynthesizer_Practice_TrackScopedFallback(t *testing.T) {
	s := testSynthesizer(disabledGenerator{})

	tech, provider, _ := s.Practice(context.Background(), testSession(models.TrackTechnical), "")
	assert.Len(t, tech, 4)
	assert.Equal(t, "fallback", provider)

	hr, _, _ := s.Practice(context.Background(), testSession(models.TrackHR), "")
	assert.Len(t, hr, 4)
	assert.NotEqual(t, tech, hr)
}

func TestRecentQuestions_LastN(t *testing.T) {
	turns := turnsWithQuestions("q1?", "q2?", "q3?", "q4?", "q5?")
	assert.Equal(t, []string{"q2?", "q3?", "q4?", "q5?"}, RecentQuestions(turns, 4))
	assert.Equal(t, []string{"q1?", "q2?", "q3?", "q4?", "q5?"}, RecentQuestions(turns, 10))
}
